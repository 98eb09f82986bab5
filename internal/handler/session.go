package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/perplexuser/chatroom/internal/middleware"
)

// Init acknowledges readiness for a session: the cookie middleware has
// already ensured a session exists, and the response hands the client its
// anti-forgery token for subsequent posts.
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}

	sess := middleware.GetSessionFromContext(r)
	if sess == nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": sess.Token})
}
