package server

import (
	"github.com/gin-gonic/gin"

	"github.com/ryansh/mediarater/internal/assets"
	"github.com/ryansh/mediarater/internal/auth"
	"github.com/ryansh/mediarater/internal/server/handlers"
)

// setupRoutes wires the public read surface and the session-guarded admin
// write surface
func setupRoutes(r *gin.Engine, h *handlers.Handlers, assetMgr *assets.Manager, staticDir string) {
	// Public routes
	r.GET("/", h.Index)
	r.GET("/media/:id", h.MediaDetail)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.Static("/assets", assetMgr.Dir())
	r.Static("/static", staticDir)

	r.GET("/api/health", h.Health)

	// Admin write routes
	admin := r.Group("/", auth.RequireAuth())
	{
		admin.GET("/logout", h.Logout)
		admin.GET("/add_media", h.AddMediaPage)
		admin.POST("/add_media", h.AddMedia)
		admin.GET("/edit_media/:id", h.EditMediaPage)
		admin.POST("/edit_media/:id", h.EditMedia)
		admin.POST("/delete_media/:id", h.DeleteMedia)
	}
}
