package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"github.com/vendorcat/backend/internal/domain/recon"
	"github.com/vendorcat/backend/internal/interfaces/http/dto"
)

// ReviewHandler walks a staged job through the ordered area review
type ReviewHandler struct {
	BaseHandler
	reviews *reconapp.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *reconapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// resolveRowRequest is the body of a row resolution
type resolveRowRequest struct {
	Decision  string     `json:"decision" binding:"required,oneof=create update skip"`
	MatchedID *uuid.UUID `json:"matched_id"`
}

// confirmAreaRequest is the body of an area confirmation
type confirmAreaRequest struct {
	Note string `json:"note"`
}

// Overview returns the whole-job review state across areas
func (h *ReviewHandler) Overview(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	overview, err := h.reviews.Overview(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// AreaView returns one area's staged rows for review
func (h *ReviewHandler) AreaView(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}
	area := recon.Area(c.Param("area"))

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	view, err := h.reviews.AreaView(c.Request.Context(), jobID, area, buildFilter(c, req, "status", "decision"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ResolveRow records the reviewer's decision for one staged row
func (h *ReviewHandler) ResolveRow(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}
	rowID, ok := parseIDParam(c, "rowId")
	if !ok {
		h.BadRequest(c, "Invalid row ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req resolveRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid resolution body")
		return
	}

	row, err := h.reviews.ResolveRow(c.Request.Context(), jobID, rowID, userID,
		recon.MatchDecision(req.Decision), req.MatchedID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// ConfirmArea signs off one area. Areas must be confirmed in the fixed
// order, and a fully confirmed job becomes eligible for apply.
func (h *ReviewHandler) ConfirmArea(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid job ID")
		return
	}
	area := recon.Area(c.Param("area"))
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req confirmAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, "Invalid confirmation body")
		return
	}

	overview, err := h.reviews.ConfirmArea(c.Request.Context(), jobID, area, userID, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}
