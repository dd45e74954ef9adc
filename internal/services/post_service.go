package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

type postService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	reactions ReactionService
	comments  CommentService
}

func NewPostService(repo repositories.Repository, logger *slog.Logger, reactions ReactionService, comments CommentService) PostService {
	return &postService{
		repo:      repo,
		logger:    logger,
		reactions: reactions,
		comments:  comments,
	}
}

func (s *postService) Resolve(ctx context.Context, slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrPostNotFound
	}

	post, err := s.repo.Post().GetBySlug(ctx, slug)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, slug, viewerID string) (*models.PostView, error) {
	post, err := s.Resolve(ctx, slug)
	if err != nil {
		return nil, err
	}

	summary, err := s.reactions.Summary(ctx, post.ID, viewerID)
	if err != nil {
		return nil, err
	}

	page, err := s.comments.List(ctx, post.ID, "", 0)
	if err != nil {
		return nil, err
	}

	return &models.PostView{
		Post:      post,
		Reactions: summary,
		Comments:  page,
	}, nil
}
