package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/perplexuser/chatroom/internal/csrf"
)

// Session is the per-session record behind the anti-forgery and rate-limit
// checks. The anti-forgery token is bound once at creation and never
// regenerated for the lifetime of the session.
type Session struct {
	Id    string
	Token string

	mu       sync.Mutex
	lastPost time.Time
	timer    *time.Timer
	parent   *Registry
}

// ValidateToken compares the submitted anti-forgery token against the
// session-bound one in constant time.
func (s *Session) ValidateToken(submitted string) bool {
	return csrf.ValidateToken(s.Token, submitted)
}

// AllowPost is the atomic rate-limit check-and-set. A post is allowed when at
// least minInterval has elapsed since the last accepted post; the timestamp
// is updated under the same lock, so two concurrent posts can't both pass.
// Rejected attempts leave the timestamp untouched and do not extend the window.
func (s *Session) AllowPost(minInterval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !s.lastPost.IsZero() && now.Sub(s.lastPost) < minInterval {
		return false
	}
	s.lastPost = now
	return true
}

// resetTimer restarts the idle-expiration countdown for this session.
func (s *Session) resetTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.parent.ttl, func() {
		s.parent.remove(s.Id)
	})
}

// Registry tracks live sessions in memory. Sessions expire after ttl of
// inactivity; expiry drops the anti-forgery token and the rate-limit state,
// which is fine because the cookie carrying the session id expires with it.
type Registry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create mints a new session with a fresh id and anti-forgery token.
func (r *Registry) Create() (*Session, error) {
	token, err := csrf.GenerateToken()
	if err != nil {
		return nil, err
	}

	s := &Session{
		Id:     uuid.NewString(),
		Token:  token,
		parent: r,
	}

	r.mu.Lock()
	r.sessions[s.Id] = s
	r.mu.Unlock()

	s.resetTimer()
	return s, nil
}

// Get returns the live session for id, or nil if it doesn't exist or has
// expired. A hit counts as activity and extends the session's lifetime.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil
	}
	s.resetTimer()
	return s
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions. Used by tests and metrics.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Stop cancels all expiration timers.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()
	}
}
