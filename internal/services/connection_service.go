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
	"github.com/SAP-F-2025/social-service/internal/validator"
)

const defaultConnectionPageSize = 20

type connectionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	notifier  *changeNotifier
}

func NewConnectionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, notifier *changeNotifier) ConnectionService {
	return &connectionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

func (s *connectionService) Stats(ctx context.Context, profileID string) models.ConnectionStats {
	edges, err := s.repo.Connection().ListByProfile(ctx, profileID)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load connections, reporting zero stats",
			"profile_id", profileID,
			"error", err)
		return models.ConnectionStats{}
	}
	return models.CountConnections(profileID, edges)
}

func (s *connectionService) Relation(ctx context.Context, viewerID, targetID string) models.ConnectionRelation {
	if viewerID == "" || targetID == "" || viewerID == targetID {
		return models.RelationFromConnection(viewerID, nil)
	}

	conn, err := s.repo.Connection().GetBetween(ctx, viewerID, targetID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			s.logger.WarnContext(ctx, "Failed to load relation",
				"viewer_id", viewerID,
				"target_id", targetID,
				"error", err)
		}
		return models.RelationFromConnection(viewerID, nil)
	}
	return models.RelationFromConnection(viewerID, conn)
}

func (s *connectionService) Connect(ctx context.Context, viewerID, targetID string) (*models.Connection, error) {
	if viewerID == "" {
		return nil, ErrUnauthenticated
	}
	if viewerID == targetID {
		return nil, ErrSelfConnection
	}
	if errs := s.validator.GetBusinessValidator().ValidateConnectionRequest(viewerID, targetID); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.Profile().ExistsByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}
	if !exists {
		return nil, ErrProfileNotFound
	}

	conn, created, err := s.repo.Connection().CreateIfAbsent(ctx, &models.Connection{
		RequesterID: viewerID,
		RecipientID: targetID,
		Status:      models.ConnectionPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	if created {
		s.logger.InfoContext(ctx, "Connection requested",
			"connection_id", conn.ID,
			"requester_id", viewerID,
			"recipient_id", targetID)
		metrics.EngagementMutations.WithLabelValues(metrics.MutationConnectionReq).Inc()
		s.notifyConnection(ctx, events.EventConnectionRequested, realtime.ActionInsert, conn)
	}

	return conn, nil
}

func (s *connectionService) Approve(ctx context.Context, recipientID, requesterID string) (*models.Connection, error) {
	if recipientID == "" {
		return nil, ErrUnauthenticated
	}

	conn, err := s.repo.Connection().GetBetween(ctx, recipientID, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}

	if conn.RecipientID != recipientID {
		return nil, NewPermissionError(recipientID, "connection", "approve", "only the recipient can approve")
	}
	if conn.Status == models.ConnectionApproved {
		return conn, nil
	}

	if err := s.repo.Connection().UpdateStatus(ctx, conn, models.ConnectionApproved); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to approve connection: %w", err)
	}

	s.logger.InfoContext(ctx, "Connection approved", "connection_id", conn.ID)
	metrics.EngagementMutations.WithLabelValues(metrics.MutationConnectionOK).Inc()
	s.notifyConnection(ctx, events.EventConnectionApproved, realtime.ActionUpdate, conn)

	return conn, nil
}

func (s *connectionService) List(ctx context.Context, profileID string, direction models.ConnectionDirection, page, size int) (*models.ConnectionListResponse, error) {
	if direction == "" {
		direction = models.DirectionNetwork
	}
	if !direction.IsValid() {
		return nil, NewValidationError("direction", "must be one of following, followers, network", direction)
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultConnectionPageSize
	}
	if size > 100 {
		size = 100
	}

	rows, total, err := s.repo.Connection().List(ctx, profileID, repositories.ConnectionFilters{
		Direction: direction,
		Limit:     size,
		Offset:    (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].Counterpart(profileID))
	}
	profiles, err := s.repo.Profile().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load connection profiles: %w", err)
	}
	byID := make(map[string]models.ProfileSummary, len(ids))
	for _, p := range profiles {
		byID[p.ID] = p.Summary()
	}
	s.fillFromDirectory(ctx, ids, byID)

	entries := make([]models.ConnectionEntry, 0, len(rows))
	for i := range rows {
		conn := rows[i]
		other := conn.Counterpart(profileID)
		summary, ok := byID[other]
		if !ok {
			summary = models.ProfileSummary{ID: other}
		}
		entries = append(entries, models.ConnectionEntry{
			Connection: &conn,
			Profile:    summary,
			Status:     conn.Status,
		})
	}

	return &models.ConnectionListResponse{
		Connections: entries,
		Total:       total,
		Page:        page,
		Size:        size,
	}, nil
}

// fillFromDirectory resolves counterparts that have not provisioned a profile
// yet through the identity directory. A directory failure leaves bare ids.
func (s *connectionService) fillFromDirectory(ctx context.Context, ids []string, byID map[string]models.ProfileSummary) {
	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}

	users, err := s.repo.User().GetByIDs(ctx, missing)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to resolve connections from directory",
			"count", len(missing),
			"error", err)
		return
	}
	for _, u := range users {
		byID[u.ID] = u.Summary()
	}
}

func (s *connectionService) notifyConnection(ctx context.Context, eventType events.EventType, action realtime.Action, conn *models.Connection) {
	s.notifier.notify(ctx, eventType, map[string]interface{}{
		"connection_id": conn.ID,
		"requester_id":  conn.RequesterID,
		"recipient_id":  conn.RecipientID,
		"status":        conn.Status,
	}, &realtime.ChangeEvent{
		Table:  "connections",
		Action: action,
		RowID:  strconv.FormatUint(uint64(conn.ID), 10),
		Filters: map[string]string{
			"requester_id": conn.RequesterID,
			"recipient_id": conn.RecipientID,
		},
		Data: conn,
	})
}
