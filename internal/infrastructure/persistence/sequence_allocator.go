package persistence

import (
	"context"
	"fmt"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/sequence"
	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/domain/shared"
	"gorm.io/gorm"
)

// The upsert increments and returns in one statement, so two transactions on the
// same scope serialize on the counter row and never observe the same value.
const allocateSQL = `INSERT INTO sequence_counters (scope_key, last_value, created_at, updated_at)
VALUES (?, 1, ?, ?)
ON CONFLICT (scope_key) DO UPDATE
SET last_value = sequence_counters.last_value + 1, updated_at = excluded.updated_at
RETURNING last_value`

// GormSequenceAllocator implements sequence.Allocator on the sequence_counters table
type GormSequenceAllocator struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormSequenceAllocator creates a new GormSequenceAllocator
func NewGormSequenceAllocator(db *gorm.DB, clock shared.Clock) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db, clock: clock}
}

// Allocate increments the scope's counter and returns the new value
func (a *GormSequenceAllocator) Allocate(ctx context.Context, scope sequence.Scope) (int64, error) {
	now := a.clock.Now()
	var value int64
	if err := a.db.WithContext(ctx).Raw(allocateSQL, scope.String(), now, now).Scan(&value).Error; err != nil {
		return 0, fmt.Errorf("allocate %s: %w", scope, err)
	}
	if value < 1 {
		return 0, fmt.Errorf("allocate %s: counter returned %d", scope, value)
	}
	return value, nil
}

var _ sequence.Allocator = (*GormSequenceAllocator)(nil)
