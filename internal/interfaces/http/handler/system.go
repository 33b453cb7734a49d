package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/vendorcat/backend/internal/infrastructure/persistence"
)

// SystemHandler serves health probes
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health reports service liveness and database reachability
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}
	h.Success(c, gin.H{
		"status":   status,
		"database": dbStatus,
	})
}
