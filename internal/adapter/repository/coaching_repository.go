package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// CoachingRepository stores manager feedback. Rows are only ever inserted.
type CoachingRepository struct {
	db *gorm.DB
}

// NewCoachingRepository creates a new coaching repository
func NewCoachingRepository(db *gorm.DB) *CoachingRepository {
	return &CoachingRepository{db: db}
}

func (r *CoachingRepository) Append(ctx context.Context, summary *entities.CoachingSummary) error {
	if summary == nil {
		return errors.New("coaching summary cannot be nil")
	}
	return r.db.WithContext(ctx).Create(summary).Error
}

// ListHistory returns the newest summaries for a manager and rep pair
func (r *CoachingRepository) ListHistory(ctx context.Context, managerID, teamMemberID uuid.UUID, limit int) ([]*entities.CoachingSummary, error) {
	var summaries []*entities.CoachingSummary
	err := r.db.WithContext(ctx).
		Where("manager_id = ? AND team_member_id = ?", managerID, teamMemberID).
		Order("created_at DESC").
		Limit(limit).
		Find(&summaries).Error
	return summaries, err
}
