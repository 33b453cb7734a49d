// Package router wires handlers and middleware onto the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vendorcat/backend/internal/infrastructure/auth"
	"github.com/vendorcat/backend/internal/interfaces/http/handler"
	"github.com/vendorcat/backend/internal/interfaces/http/middleware"
)

// Handlers collects the handlers the router mounts
type Handlers struct {
	System    *handler.SystemHandler
	Imports   *handler.ImportHandler
	Reviews   *handler.ReviewHandler
	Approvals *handler.ApprovalHandler
	Profiles  *handler.ProfileHandler
}

// Config holds router dependencies
type Config struct {
	JWTService  *auth.JWTService
	MaxBodySize int64
	Handlers    Handlers
}

// Setup registers all routes under /api/v1. Health probes stay outside the
// authentication gate.
func Setup(engine *gin.Engine, cfg Config) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS())
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", cfg.Handlers.System.Health)

	api := engine.Group("/api/v1")
	api.GET("/health", cfg.Handlers.System.Health)

	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTService))

	editor := middleware.RequirePermission(auth.PermEditImports)
	approver := middleware.RequirePermission(auth.PermApproveMappings)

	imports := authed.Group("/imports")
	{
		imports.POST("", editor, cfg.Handlers.Imports.Submit)
		imports.GET("", cfg.Handlers.Imports.List)
		imports.GET("/:id", cfg.Handlers.Imports.Get)
		imports.GET("/:id/mapping", cfg.Handlers.Imports.GetMappingContext)
		imports.POST("/:id/mapping", editor, cfg.Handlers.Imports.SubmitMapping)
		imports.POST("/:id/stage", editor, cfg.Handlers.Imports.Stage)
		imports.GET("/:id/review", cfg.Handlers.Reviews.Overview)
		imports.GET("/:id/review/:area", cfg.Handlers.Reviews.AreaView)
		imports.POST("/:id/review/:area/confirm", editor, cfg.Handlers.Reviews.ConfirmArea)
		imports.POST("/:id/rows/:rowId/resolve", editor, cfg.Handlers.Reviews.ResolveRow)
		imports.POST("/:id/apply", editor, cfg.Handlers.Imports.Apply)
	}

	approvals := authed.Group("/mapping-approvals")
	{
		approvals.GET("", approver, cfg.Handlers.Approvals.ListPending)
		approvals.POST("/:id/decide", approver, cfg.Handlers.Approvals.Decide)
	}

	profiles := authed.Group("/profiles")
	{
		profiles.GET("", cfg.Handlers.Profiles.List)
		profiles.GET("/:id", cfg.Handlers.Profiles.Get)
		profiles.DELETE("/:id", editor, cfg.Handlers.Profiles.Delete)
	}
}
