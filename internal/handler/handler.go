package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/perplexuser/chatroom/internal/logger"
	"github.com/perplexuser/chatroom/internal/service"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	post   service.PostService
	sync   service.SyncService
	health HealthChecker
}

func New(post service.PostService, sync service.SyncService, health HealthChecker) *Handler {
	return &Handler{post, sync, health}
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
