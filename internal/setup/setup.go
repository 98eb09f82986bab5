package setup

import (
	"github.com/perplexuser/chatroom/internal/config"
	"github.com/perplexuser/chatroom/internal/handler"
	"github.com/perplexuser/chatroom/internal/jwt"
	"github.com/perplexuser/chatroom/internal/logger"
	"github.com/perplexuser/chatroom/internal/middleware"
	"github.com/perplexuser/chatroom/internal/service"
	"github.com/perplexuser/chatroom/internal/session"
	"github.com/perplexuser/chatroom/internal/storage/pg"
	"github.com/perplexuser/chatroom/internal/utils"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Registry       *session.Registry
	SessionManager *middleware.SessionManager
	Handler        *handler.Handler
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	registry := session.NewRegistry(cfg.Public.SessionTTL)
	codec := jwt.New(cfg.Private.SessionKey, cfg.Public.SessionTTL)
	sm := middleware.NewSessionManager(registry, codec, cfg.Public.SecureCookies)

	post := service.NewPost(storage, &utils.PostValidator{}, cfg.Public.PostInterval)
	sync := service.NewSync(storage, cfg.Public.DefaultFetchLimit, cfg.Public.MaxFetchLimit)

	h := handler.New(post, sync, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Registry:       registry,
		SessionManager: sm,
		Handler:        h,
	}, nil
}

// Cleanup releases everything SetupDependencies acquired.
func (d *Dependencies) Cleanup() {
	d.Registry.Stop()
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close storage", "error", err)
	}
}
