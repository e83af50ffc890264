package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"nearby/config"
	"nearby/internal/auth"
	"nearby/internal/session"
	"nearby/pkg/location"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod   = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	maxFrameSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeLocationWS upgrades the connection for the device location stream.
// The device sends fixes or provider errors; the server answers each fix with
// the users nearby.
func UpgradeLocationWS(cfg *config.SessionConfig, registry *session.Registry, hub *Hub, lookup LookupFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","code":"UNAUTHORIZED","message":"token required"}`))
			return
		}
		claims, err := auth.ParseSessionToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","code":"UNAUTHORIZED","message":"invalid token"}`))
			return
		}
		s, ok := registry.Get(claims.SessionID)
		if !ok {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","code":"UNAUTHORIZED","message":"session not found"}`))
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client := NewClient(s.ID)
		hub.Register(client)
		done := make(chan struct{})
		go func() {
			writePump(client, conn)
			close(done)
		}()
		// queued frames are flushed before the connection closes
		defer func() {
			client.Close()
			<-done
		}()

		stream, err := StartStream(ctx, s, client, lookup)
		if err != nil {
			if errors.Is(err, location.ErrSubscriptionActive) {
				client.SendJSON(errorFrame{Type: "error", Code: "SUBSCRIPTION_ACTIVE", Message: "location stream already open for this session"})
			} else {
				client.SendJSON(errorFrame{Type: "error", Code: string(location.KindPositionUnavailable), Message: err.Error()})
			}
			return
		}
		defer stream.Close()
		log.Printf("[ws] location stream opened session=%s", s.ID)
		readPump(conn, stream, client)
		log.Printf("[ws] location stream closed session=%s", s.ID)
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn, stream *Stream, client *Client) {
	conn.SetReadLimit(maxFrameSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := stream.HandleFrame(data); errors.Is(err, errSessionEnded) {
			break
		} else if err != nil {
			client.SendJSON(errorFrame{Type: "error", Code: "BAD_FRAME", Message: err.Error()})
		}
	}
}
