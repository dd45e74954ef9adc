package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
)

type ConnectionHandler struct {
	BaseHandler
	service services.ConnectionService
}

func NewConnectionHandler(service services.ConnectionService, logger utils.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetStats returns following, follower and network counts
// @Summary Connection stats
// @Tags connections
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.ConnectionStats
// @Router /profiles/{id}/connections/stats [get]
func (h *ConnectionHandler) GetStats(c *gin.Context) {
	profileID := c.Param("id")
	h.LogRequest(c, "Getting connection stats", "profile_id", profileID)

	c.JSON(http.StatusOK, h.service.Stats(c.Request.Context(), profileID))
}

// ListConnections lists one side of a profile's graph
// @Summary List connections
// @Tags connections
// @Produce json
// @Param id path string true "Profile ID"
// @Param direction query string false "following, followers or network (default)"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} models.ConnectionListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{id}/connections [get]
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	profileID := c.Param("id")
	direction := models.ConnectionDirection(c.Query("direction"))

	h.LogRequest(c, "Listing connections", "profile_id", profileID, "direction", direction)

	resp, err := h.service.List(c.Request.Context(), profileID, direction,
		queryInt(c, "page", 1), queryInt(c, "size", 0))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRelation reports how the caller relates to a profile
// @Summary Relation to profile
// @Tags connections
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.ConnectionRelation
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profiles/{id}/relation [get]
func (h *ConnectionHandler) GetRelation(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.service.Relation(c.Request.Context(), userID, c.Param("id")))
}

// Connect sends a connection request to a profile
// @Summary Request connection
// @Tags connections
// @Produce json
// @Param id path string true "Target profile ID"
// @Success 200 {object} models.Connection
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Conflict - self connection"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{id}/connect [post]
func (h *ConnectionHandler) Connect(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	targetID := c.Param("id")

	h.LogRequest(c, "Requesting connection", "target_id", targetID)

	conn, err := h.service.Connect(c.Request.Context(), userID, targetID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

// Approve accepts a pending request sent by the profile in the path
// @Summary Approve connection
// @Tags connections
// @Produce json
// @Param id path string true "Requester profile ID"
// @Success 200 {object} models.Connection
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden - not the recipient"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profiles/{id}/approve [post]
func (h *ConnectionHandler) Approve(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	requesterID := c.Param("id")

	h.LogRequest(c, "Approving connection", "requester_id", requesterID)

	conn, err := h.service.Approve(c.Request.Context(), userID, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}
