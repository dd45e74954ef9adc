package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the logger shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.FromContext(c, h.logger)
}

func (h *BaseHandler) LogRequest(c *gin.Context, message string, args ...any) {
	attrs := append([]any{"method", c.Request.Method, "path", c.FullPath()}, args...)
	h.log(c).Info(message, attrs...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, args ...any) {
	attrs := append([]any{"error", err, "path", c.FullPath()}, args...)
	h.log(c).Error(message, attrs...)
}

// viewerID returns the authenticated user id, or "" for anonymous requests
func viewerID(c *gin.Context) string {
	id, err := GetUserIDFromContext(c)
	if err != nil {
		return ""
	}
	return id
}

// requireViewer writes a 401 and returns false when no user is authenticated
func requireViewer(c *gin.Context) (string, bool) {
	id := viewerID(c)
	if id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// handleServiceError maps service errors to HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: gin.H{"validation_errors": validationErrors},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Profile not found"})
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Post not found"})
	case errors.Is(err, services.ErrConnectionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Connection request not found"})
	case errors.Is(err, services.ErrSelfConnection):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Cannot connect to yourself"})
	case errors.Is(err, services.ErrInvalidReactionType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid reaction type"})
	case errors.Is(err, services.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid pagination cursor"})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Access denied"})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
