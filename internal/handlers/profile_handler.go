package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	service services.ProfileService
}

func NewProfileHandler(service services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetMyProfile returns the aggregated profile page of the caller
// @Summary Get own profile
// @Description Aggregate the caller's profile in owner mode
// @Tags profiles
// @Produce json
// @Success 200 {object} models.ProfileView
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Getting own profile", "profile_id", userID)

	view, err := h.service.Aggregate(c.Request.Context(), userID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetProfile returns the aggregated profile page of another user
// @Summary Get profile by ID
// @Description Aggregate a profile. Owner mode applies when the caller views their own profile.
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.ProfileView
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	targetID := c.Param("id")

	h.LogRequest(c, "Getting profile", "profile_id", targetID)

	view, err := h.service.Aggregate(c.Request.Context(), viewerID(c), targetID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateMyProfile updates the caller's display fields
// @Summary Update own profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating own profile", "profile_id", userID)

	profile, err := h.service.UpdateOwnProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
