package server

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ryansh/mediarater/internal/assets"
	"github.com/ryansh/mediarater/internal/auth"
	"github.com/ryansh/mediarater/internal/catalog"
	"github.com/ryansh/mediarater/internal/config"
	"github.com/ryansh/mediarater/internal/database"
	"github.com/ryansh/mediarater/internal/logger"
	"github.com/ryansh/mediarater/internal/server/handlers"
)

// SetupRouter configures and returns the main router
func SetupRouter(cfg *config.Config, store *database.Store, assetMgr *assets.Manager) *gin.Engine {
	r := gin.Default()

	r.Use(auth.SessionMiddleware(&cfg.Auth))

	// Templates are optional in tests; the JSON negotiation path needs none
	if matches, err := filepath.Glob(cfg.Server.TemplateGlob); err == nil && len(matches) > 0 {
		r.LoadHTMLGlob(cfg.Server.TemplateGlob)
	} else {
		logger.Warn("no HTML templates found", "glob", cfg.Server.TemplateGlob)
	}

	catalogSvc := catalog.NewService(store)
	h := handlers.New(store, catalogSvc, assetMgr)

	setupRoutes(r, h, assetMgr, cfg.Server.StaticDir)
	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully
func Serve(ctx context.Context, cfg *config.Config, router *gin.Engine) error {
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
