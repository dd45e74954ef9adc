package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/metrics"
	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/realtime"
	"github.com/SAP-F-2025/social-service/internal/repositories"
)

type reactionService struct {
	repo     repositories.Repository
	logger   *slog.Logger
	notifier *changeNotifier
}

func NewReactionService(repo repositories.Repository, logger *slog.Logger, notifier *changeNotifier) ReactionService {
	return &reactionService{
		repo:     repo,
		logger:   logger,
		notifier: notifier,
	}
}

// Summary tallies the reactions of postID only. Every reaction type is present
// in Counts, zero when nobody used it.
func (s *reactionService) Summary(ctx context.Context, postID uint, viewerID string) (*models.ReactionSummary, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.summary(ctx, postID, viewerID)
}

func (s *reactionService) React(ctx context.Context, postID uint, viewerID string, reactionType models.ReactionType) (*models.ReactionSummary, error) {
	if viewerID == "" {
		return nil, ErrUnauthenticated
	}
	if !reactionType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReactionType, reactionType)
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	reaction := &models.Reaction{PostID: postID, UserID: viewerID, Type: reactionType}
	if err := s.repo.Reaction().Upsert(ctx, reaction); err != nil {
		return nil, fmt.Errorf("failed to save reaction: %w", err)
	}

	metrics.EngagementMutations.WithLabelValues(metrics.MutationReactionSet).Inc()
	s.notifyReaction(ctx, postID, viewerID, &reactionType, realtime.ActionUpdate)

	return s.summary(ctx, postID, viewerID)
}

func (s *reactionService) Clear(ctx context.Context, postID uint, viewerID string) (*models.ReactionSummary, error) {
	if viewerID == "" {
		return nil, ErrUnauthenticated
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	removed, err := s.repo.Reaction().Delete(ctx, postID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove reaction: %w", err)
	}
	if removed {
		metrics.EngagementMutations.WithLabelValues(metrics.MutationReactionCleared).Inc()
		s.notifyReaction(ctx, postID, viewerID, nil, realtime.ActionDelete)
	}

	return s.summary(ctx, postID, viewerID)
}

func (s *reactionService) summary(ctx context.Context, postID uint, viewerID string) (*models.ReactionSummary, error) {
	counts, err := s.repo.Reaction().CountByType(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}

	summary := models.NewReactionSummary(postID)
	for t, n := range counts {
		if !t.IsValid() {
			continue
		}
		summary.Counts[t] = n
		summary.Total += n
	}

	if viewerID != "" {
		own, err := s.repo.Reaction().GetByUser(ctx, postID, viewerID)
		switch {
		case err == nil:
			summary.ViewerReaction = &own.Type
		case !repositories.IsNotFoundError(err):
			return nil, fmt.Errorf("failed to get viewer reaction: %w", err)
		}
	}

	return summary, nil
}

func (s *reactionService) ensurePost(ctx context.Context, postID uint) error {
	if _, err := s.repo.Post().GetByID(ctx, postID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}
	return nil
}

func (s *reactionService) notifyReaction(ctx context.Context, postID uint, userID string, reactionType *models.ReactionType, action realtime.Action) {
	postKey := strconv.FormatUint(uint64(postID), 10)
	data := map[string]interface{}{
		"post_id": postID,
		"user_id": userID,
		"type":    reactionType,
	}
	s.notifier.notify(ctx, events.EventReactionChanged, data, &realtime.ChangeEvent{
		Table:   "reactions",
		Action:  action,
		RowID:   postKey + ":" + userID,
		Filters: map[string]string{"post_id": postKey},
		Data:    data,
	})
}
