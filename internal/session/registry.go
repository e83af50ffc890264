package session

import (
	"context"
	"log"
	"sync"
	"time"

	"nearby/internal/models"
	"nearby/pkg/canvas"
	"nearby/pkg/location"

	"github.com/google/uuid"
)

// DevProfile is used when the Mini-App runs outside Telegram.
func DevProfile() models.Profile {
	return models.Profile{
		UserID:    "dev-user-123",
		FirstName: "Development",
		LastName:  "User",
		PhotoRef:  "https://via.placeholder.com/100",
	}
}

// Session is the state of one Mini-App consumer.
type Session struct {
	ID   string
	Feed *Feed

	mu       sync.Mutex
	profile  models.Profile
	layout   []canvas.Marker
	lastSeen time.Time
}

func (s *Session) Profile() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// UpdateProfile validates and applies u, returning the new profile.
func (s *Session) UpdateProfile(u models.ProfileUpdate) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.profile.Apply(u); err != nil {
		return s.profile, err
	}
	log.Printf("[session] profile updated session=%s user=%s", s.ID, s.profile.UserID)
	return s.profile, nil
}

// Location is the last fix reported by the device.
func (s *Session) Location() (location.Coordinate, bool) {
	return s.Feed.Last()
}

// SetLayout stores the markers of the last drawn map so later pointer events hit-test against it.
func (s *Session) SetLayout(markers []canvas.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout = markers
}

func (s *Session) Layout() []canvas.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// Touch marks the session as used so Prune keeps it.
func (s *Session) Touch() {
	s.touch(time.Now())
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Registry holds live sessions in memory.
type Registry struct {
	fixTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	onRemove []func(id string)
}

func NewRegistry(fixTimeout time.Duration) *Registry {
	return &Registry{
		fixTimeout: fixTimeout,
		sessions:   make(map[string]*Session),
	}
}

func (r *Registry) Create(p models.Profile) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Feed:     NewFeed(r.fixTimeout),
		profile:  p,
		lastSeen: time.Now(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	log.Printf("[session] created session=%s user=%s", s.ID, p.UserID)
	return s
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(time.Now())
	}
	return s, ok
}

// OnRemove registers fn to run after a session is removed or pruned.
func (r *Registry) OnRemove(fn func(id string)) {
	r.mu.Lock()
	r.onRemove = append(r.onRemove, fn)
	r.mu.Unlock()
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	hooks := r.onRemove
	r.mu.Unlock()
	if !ok {
		return
	}
	s.Feed.Close()
	for _, fn := range hooks {
		fn(id)
	}
	log.Printf("[session] removed session=%s", id)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Prune removes sessions not used since cutoff and returns how many were removed.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.RLock()
	var stale []string
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()
	for _, id := range stale {
		r.Remove(id)
	}
	return len(stale)
}

// Run prunes sessions idle for longer than ttl until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, ttl time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			if n := r.Prune(now.Add(-ttl)); n > 0 {
				log.Printf("[session] pruned %d idle sessions", n)
			}
		}
	}
}
