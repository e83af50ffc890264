package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Client represents a single WebSocket connection bound to a session.
type Client struct {
	SessionID string
	Send      chan []byte
	Hub       *Hub
	mu        sync.Mutex
	closed    bool
}

func NewClient(sessionID string) *Client {
	return &Client{SessionID: sessionID, Send: make(chan []byte, 256)}
}

// Enqueue queues a message without blocking; slow clients drop frames.
func (c *Client) Enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// SendJSON marshals payload and enqueues it.
func (c *Client) SendJSON(payload interface{}) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ws] marshal session=%s: %v", c.SessionID, err)
		return false
	}
	return c.Enqueue(data)
}

func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	hub := c.Hub
	c.mu.Unlock()
	if hub != nil {
		hub.unregister(c)
	}
}

// Hub tracks open location streams per session.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]struct{}
	bySession map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		bySession: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.bySession[c.SessionID] == nil {
		h.bySession[c.SessionID] = make(map[*Client]struct{})
	}
	h.bySession[c.SessionID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.bySession[c.SessionID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.bySession, c.SessionID)
		}
	}
}

// SendToSession delivers payload to every stream of a session.
func (h *Hub) SendToSession(sessionID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ws] marshal session=%s: %v", sessionID, err)
		return
	}
	h.mu.RLock()
	m := h.bySession[sessionID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.Enqueue(data)
	}
}

// EndSession tells the streams of a removed session that it ended and closes them.
func (h *Hub) EndSession(sessionID string) {
	h.SendToSession(sessionID, errorFrame{Type: "error", Code: "SESSION_ENDED", Message: "session ended"})
	h.CloseSession(sessionID)
}

// CloseSession closes every stream of a session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.RLock()
	m := h.bySession[sessionID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
