package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
)

// PostHandler serves the post page and its engagement endpoints. Every
// route addresses the post by slug.
type PostHandler struct {
	BaseHandler
	posts     services.PostService
	reactions services.ReactionService
	comments  services.CommentService
}

func NewPostHandler(posts services.PostService, reactions services.ReactionService, comments services.CommentService, logger utils.Logger) *PostHandler {
	return &PostHandler{
		BaseHandler: NewBaseHandler(logger),
		posts:       posts,
		reactions:   reactions,
		comments:    comments,
	}
}

// resolve writes the error response itself and returns nil on failure
func (h *PostHandler) resolve(c *gin.Context) *models.Post {
	post, err := h.posts.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleServiceError(c, err)
		return nil
	}
	return post
}

// GetPost returns a post with its reaction summary and first comment page
// @Summary Get post
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.PostView
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /posts/{slug} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")
	h.LogRequest(c, "Getting post", "slug", slug)

	view, err := h.posts.Get(c.Request.Context(), slug, viewerID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetReactions returns per-type counts and the caller's reaction
// @Summary Reaction summary
// @Tags reactions
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.ReactionSummary
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /posts/{slug}/reactions [get]
func (h *PostHandler) GetReactions(c *gin.Context) {
	post := h.resolve(c)
	if post == nil {
		return
	}

	summary, err := h.reactions.Summary(c.Request.Context(), post.ID, viewerID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// React sets or replaces the caller's reaction
// @Summary React to post
// @Tags reactions
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param request body models.ReactRequest true "Reaction"
// @Success 200 {object} models.ReactionSummary
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /posts/{slug}/reactions [put]
func (h *PostHandler) React(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	var req models.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	post := h.resolve(c)
	if post == nil {
		return
	}

	h.LogRequest(c, "Reacting to post", "post_id", post.ID, "type", req.Type)

	summary, err := h.reactions.React(c.Request.Context(), post.ID, userID, req.Type)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ClearReaction removes the caller's reaction
// @Summary Remove reaction
// @Tags reactions
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.ReactionSummary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /posts/{slug}/reactions [delete]
func (h *PostHandler) ClearReaction(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	post := h.resolve(c)
	if post == nil {
		return
	}

	h.LogRequest(c, "Clearing reaction", "post_id", post.ID)

	summary, err := h.reactions.Clear(c.Request.Context(), post.ID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListComments returns one page of comments, newest first
// @Summary List comments
// @Tags comments
// @Produce json
// @Param slug path string true "Post slug"
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} models.CommentPage
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /posts/{slug}/comments [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	post := h.resolve(c)
	if post == nil {
		return
	}

	page, err := h.comments.List(c.Request.Context(), post.ID, c.Query("cursor"), queryInt(c, "limit", 0))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// AddComment posts a comment. Anonymous callers and blank content are a
// no-op that answers with added=false.
// @Summary Add comment
// @Tags comments
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param request body models.AddCommentRequest true "Comment"
// @Success 200 {object} models.CommentAddResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /posts/{slug}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var req models.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	post := h.resolve(c)
	if post == nil {
		return
	}

	h.LogRequest(c, "Adding comment", "post_id", post.ID)

	page, added, err := h.comments.Add(c.Request.Context(), post.ID, viewerID(c), req.Content)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CommentAddResponse{Added: added, Page: page})
}
