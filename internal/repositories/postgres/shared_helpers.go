package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/social-service/internal/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizeLimit clamps a requested page size into [1, maxPageSize]
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// applyPagination applies limit and offset
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	query = query.Limit(normalizeLimit(limit))
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// translateError maps gorm sentinel errors onto repository errors and adds context
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, repositories.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
