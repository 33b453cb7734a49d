package handler

import (
	"github.com/gin-gonic/gin"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
	"github.com/vendorcat/backend/internal/interfaces/http/dto"
)

// ApprovalHandler serves the administrative layout-approval queue
type ApprovalHandler struct {
	BaseHandler
	approvals *reconapp.ApprovalService
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(approvals *reconapp.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

// decideRequest is the body of an approval decision
type decideRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// ListPending returns undecided approval requests, oldest first
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	pending, err := h.approvals.ListPending(c.Request.Context(), buildFilter(c, req, "state"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pending)
}

// Decide approves or rejects one pending request. Rejections need a reason.
func (h *ApprovalHandler) Decide(c *gin.Context) {
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}
	adminID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid decision body")
		return
	}

	summary, err := h.approvals.Decide(c.Request.Context(), requestID, adminID, req.Approve, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
