package handler

import (
	"github.com/gin-gonic/gin"
	reconapp "github.com/vendorcat/backend/internal/application/recon"
)

// ProfileHandler manages saved mapping profiles
type ProfileHandler struct {
	BaseHandler
	profiles *reconapp.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *reconapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// List returns the caller's visible profiles
func (h *ProfileHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profiles, err := h.profiles.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summaries := make([]reconapp.ProfileSummary, 0, len(profiles))
	for i := range profiles {
		summaries = append(summaries, reconapp.NewProfileSummary(&profiles[i]))
	}
	h.Success(c, summaries)
}

// Get returns one profile the caller can see
func (h *ProfileHandler) Get(c *gin.Context) {
	profileID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid profile ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), profileID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reconapp.NewProfileSummary(profile))
}

// Delete removes one of the caller's profiles
func (h *ProfileHandler) Delete(c *gin.Context) {
	profileID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid profile ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.profiles.Delete(c.Request.Context(), profileID, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
