package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/metrics"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/realtime"
	"github.com/SAP-F-2025/social-service/internal/repositories"
	"github.com/SAP-F-2025/social-service/internal/validator"
)

const (
	DefaultCommentPageSize = 20
	MaxCommentPageSize     = 100
)

type commentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  *changeNotifier
}

func NewCommentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, notifier *changeNotifier) CommentService {
	return &commentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

func (s *commentService) List(ctx context.Context, postID uint, cursor string, limit int) (*models.CommentPage, error) {
	if limit <= 0 {
		limit = DefaultCommentPageSize
	}
	if limit > MaxCommentPageSize {
		limit = MaxCommentPageSize
	}

	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	// one extra row tells whether another page exists
	rows, err := s.repo.Comment().ListByPost(ctx, postID, after, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	page := &models.CommentPage{Comments: make([]models.CommentView, 0, min(len(rows), limit))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = encodeCursor(repositories.CommentCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for _, c := range rows {
		page.Comments = append(page.Comments, models.NewCommentView(c))
	}
	return page, nil
}

func (s *commentService) Add(ctx context.Context, postID uint, viewerID, content string) (*models.CommentPage, bool, error) {
	if _, err := s.repo.Post().GetByID(ctx, postID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, false, ErrPostNotFound
		}
		return nil, false, fmt.Errorf("failed to get post: %w", err)
	}

	content = strings.TrimSpace(content)
	if viewerID == "" || content == "" {
		page, err := s.List(ctx, postID, "", 0)
		return page, false, err
	}

	if err := s.validator.Validate(&models.AddCommentRequest{Content: content}); err != nil {
		return nil, false, err
	}

	comment := &models.Comment{PostID: postID, UserID: viewerID, Content: content}
	if err := s.repo.Comment().Create(ctx, comment); err != nil {
		return nil, false, fmt.Errorf("failed to add comment: %w", err)
	}

	s.logger.InfoContext(ctx, "Comment added",
		"comment_id", comment.ID,
		"post_id", postID,
		"user_id", viewerID)
	metrics.EngagementMutations.WithLabelValues(metrics.MutationCommentAdded).Inc()

	postKey := strconv.FormatUint(uint64(postID), 10)
	s.notifier.notify(ctx, events.EventCommentCreated, map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    postID,
		"user_id":    viewerID,
	}, &realtime.ChangeEvent{
		Table:   "comments",
		Action:  realtime.ActionInsert,
		RowID:   strconv.FormatUint(uint64(comment.ID), 10),
		Filters: map[string]string{"post_id": postKey},
		Data:    comment,
	})

	page, err := s.List(ctx, postID, "", 0)
	if err != nil {
		return nil, true, err
	}
	return page, true, nil
}

func encodeCursor(c repositories.CommentCursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(s string) (*repositories.CommentCursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c repositories.CommentCursor
	if err := json.Unmarshal(raw, &c); err != nil || c.ID == 0 {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}
