package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/repositories"
	"github.com/SAP-F-2025/social-service/internal/utils"
)

const (
	defaultUserPageSize = 10
	maxUserPageSize     = 100
)

// UserHandler exposes the identity directory so people can find each other
// before connecting
type UserHandler struct {
	BaseHandler
	userRepo repositories.UserRepository
}

func NewUserHandler(userRepo repositories.UserRepository, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userRepo:    userRepo,
	}
}

type UserListResponse struct {
	Users interface{} `json:"users"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// SearchUsers searches the directory by display name, or by email when q contains "@"
// @Summary Search users
// @Tags users
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} UserListResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	if _, ok := requireViewer(c); !ok {
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Search query parameter 'q' is required",
		})
		return
	}

	h.LogRequest(c, "Searching users", "query", query)

	filters, page := parseUserFilters(c)
	filters.Query = query

	users, total, err := h.userRepo.Search(c.Request.Context(), query, filters)
	if err != nil {
		h.LogError(c, err, "Failed to search users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to search users",
		})
		return
	}

	c.JSON(http.StatusOK, UserListResponse{Users: users, Total: total, Page: page, Size: filters.Limit})
}

// GetUser retrieves a directory record by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	if _, ok := requireViewer(c); !ok {
		return
	}

	userID := c.Param("id")
	h.LogRequest(c, "Getting user", "user_id", userID)

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found"})
			return
		}
		h.LogError(c, err, "Failed to get user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to get user",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

func parseUserFilters(c *gin.Context) (repositories.UserFilters, int) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	size := queryInt(c, "size", defaultUserPageSize)
	if size < 1 || size > maxUserPageSize {
		size = defaultUserPageSize
	}

	return repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}, page
}
