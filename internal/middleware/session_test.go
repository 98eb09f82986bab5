package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perplexuser/chatroom/internal/jwt"
	"github.com/perplexuser/chatroom/internal/session"
)

func newTestManager(t *testing.T) (*SessionManager, *session.Registry) {
	t.Helper()
	registry := session.NewRegistry(time.Hour)
	t.Cleanup(registry.Stop)
	codec := jwt.New("test-key", time.Hour)
	return NewSessionManager(registry, codec, false), registry
}

func serveWithSession(m *SessionManager, req *http.Request) (*httptest.ResponseRecorder, *session.Session) {
	var captured *session.Session
	handler := m.EnsureSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetSessionFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, captured
}

func TestEnsureSessionMintsOnFirstContact(t *testing.T) {
	m, registry := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr, sess := serveWithSession(m, req)

	require.NotNil(t, sess, "handler should see a session")
	assert.Equal(t, 1, registry.Len())

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestEnsureSessionReusesLiveSession(t *testing.T) {
	m, registry := newTestManager(t)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	rr, created := serveWithSession(m, first)
	cookie := rr.Result().Cookies()[0]

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	rr2, reused := serveWithSession(m, second)

	require.NotNil(t, reused)
	assert.Same(t, created, reused, "cookie should resolve to the same session")
	assert.Equal(t, created.Token, reused.Token, "anti-forgery token must not be regenerated")
	assert.Empty(t, rr2.Result().Cookies(), "no new cookie for a live session")
	assert.Equal(t, 1, registry.Len())
}

func TestEnsureSessionReplacesGarbageCookie(t *testing.T) {
	m, _ := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "garbage"})
	rr, sess := serveWithSession(m, req)

	require.NotNil(t, sess, "garbage cookie should be replaced, not rejected")
	require.Len(t, rr.Result().Cookies(), 1)
}

func TestEnsureSessionReplacesExpiredSession(t *testing.T) {
	registry := session.NewRegistry(10 * time.Millisecond)
	t.Cleanup(registry.Stop)
	codec := jwt.New("test-key", time.Hour)
	m := NewSessionManager(registry, codec, false)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	rr, created := serveWithSession(m, first)
	cookie := rr.Result().Cookies()[0]

	time.Sleep(40 * time.Millisecond) // let the registry entry expire

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookie)
	_, replacement := serveWithSession(m, second)

	require.NotNil(t, replacement)
	assert.NotEqual(t, created.Id, replacement.Id)
	assert.NotEqual(t, created.Token, replacement.Token, "expired session must get a fresh token")
}
