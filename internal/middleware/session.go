package middleware

import (
	"context"
	"net/http"

	"github.com/perplexuser/chatroom/internal/jwt"
	"github.com/perplexuser/chatroom/internal/logger"
	"github.com/perplexuser/chatroom/internal/session"
)

const sessionCookieName = "session"

type sessionContextKey int

const sessionKey sessionContextKey = 0

// SessionManager binds browser sessions to in-memory session records. The
// cookie carries a signed opaque session id; everything else (anti-forgery
// token, rate-limit state) stays server-side in the registry.
type SessionManager struct {
	registry *session.Registry
	codec    jwt.Codec
	secure   bool
}

func NewSessionManager(registry *session.Registry, codec jwt.Codec, secureCookies bool) *SessionManager {
	return &SessionManager{
		registry: registry,
		codec:    codec,
		secure:   secureCookies,
	}
}

// EnsureSession resolves the request's session, minting a new one when the
// cookie is absent, invalid, or expired. A freshly minted session carries a
// fresh anti-forgery token, so a forged or replayed post against it still
// fails the token check.
func (m *SessionManager) EnsureSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := m.lookup(r)
			if sess == nil {
				var err error
				sess, err = m.registry.Create()
				if err != nil {
					logger.Log.Error("failed to create session", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}

				token, err := m.codec.NewToken(sess.Id)
				if err != nil {
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   m.secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// lookup returns the live session referenced by the request cookie, or nil.
func (m *SessionManager) lookup(r *http.Request) *session.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sid, err := m.codec.DecodeToken(cookie.Value)
	if err != nil {
		logger.Log.Warn("rejecting session cookie", "error", err)
		return nil
	}

	return m.registry.Get(sid)
}

// GetSessionFromContext retrieves the session attached by EnsureSession.
func GetSessionFromContext(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}
