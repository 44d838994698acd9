// internal/app/notify/hub.go
// Package notify fans application events out to a user's live sessions.
// The hub knows nothing about transports; the websocket feature registers
// a session per connection and drains its channel onto the wire.
package notify

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBuffer is the per-session event buffer when the hub is
// constructed with a non-positive size.
const DefaultBuffer = 16

// Event is one message pushed to a live session.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Session is one registered live connection. Events arrive on C until
// the session is unregistered, after which C is closed.
type Session struct {
	ID     string
	UserID string
	C      chan Event
}

// Hub tracks live sessions per user and delivers events to them. Delivery
// is best-effort: a session whose buffer is full misses the event, and a
// user with no sessions gets nothing. Neither case blocks the caller or
// returns an error.
type Hub struct {
	log    *zap.Logger
	buffer int

	mu       sync.RWMutex
	sessions map[string]map[*Session]struct{} // userID -> live sessions
	closed   bool
}

// NewHub creates a Hub whose sessions buffer up to buffer events each.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		log:      logger,
		buffer:   buffer,
		sessions: make(map[string]map[*Session]struct{}),
	}
}

// Register adds a live session for userID and returns its handle. A user
// may hold any number of concurrent sessions. Returns nil after Close.
func (h *Hub) Register(userID string) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		C:      make(chan Event, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	set, ok := h.sessions[userID]
	if !ok {
		set = make(map[*Session]struct{})
		h.sessions[userID] = set
	}
	set[s] = struct{}{}

	h.log.Debug("live session registered",
		zap.String("user_id", userID),
		zap.String("session_id", s.ID),
		zap.Int("user_sessions", len(set)))
	return s
}

// Unregister removes the session and closes its channel. Other sessions of
// the same user are unaffected. Safe to call more than once.
func (h *Hub) Unregister(s *Session) {
	if s == nil {
		return
	}

	h.mu.Lock()
	set, ok := h.sessions[s.UserID]
	if ok {
		if _, live := set[s]; !live {
			ok = false
		} else {
			delete(set, s)
			if len(set) == 0 {
				delete(h.sessions, s.UserID)
			}
		}
	}
	h.mu.Unlock()

	if ok {
		close(s.C)
		h.log.Debug("live session unregistered",
			zap.String("user_id", s.UserID),
			zap.String("session_id", s.ID))
	}
}

// NotifyUser delivers the event to every session of userID. A user with no
// sessions is a silent no-op. A full session buffer drops the event for
// that session only.
func (h *Hub) NotifyUser(userID, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.sessions[userID] {
		h.send(s, Event{Name: event, Payload: payload})
	}
}

// Broadcast delivers the event to every session of every user.
func (h *Hub) Broadcast(event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.sessions {
		for s := range set {
			h.send(s, Event{Name: event, Payload: payload})
		}
	}
}

// send must be called with mu held (read or write).
func (h *Hub) send(s *Session, ev Event) {
	select {
	case s.C <- ev:
	default:
		h.log.Warn("live session buffer full, event dropped",
			zap.String("user_id", s.UserID),
			zap.String("session_id", s.ID),
			zap.String("event", ev.Name))
	}
}

// SessionCount reports the number of live sessions for userID.
func (h *Hub) SessionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

// Close unregisters every session. Used at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for userID, set := range h.sessions {
		for s := range set {
			close(s.C)
		}
		delete(h.sessions, userID)
	}
}
