package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

const averagesSelect = `COUNT(*) AS days,
	COALESCE(ROUND(AVG(calls_made))::int, 0) AS calls,
	COALESCE(ROUND(AVG(emails_sent))::int, 0) AS emails,
	COALESCE(ROUND(AVG(meetings_booked))::int, 0) AS meetings,
	COALESCE(ROUND(AVG(methodology_score)::numeric)::int, 0) AS methodology`

// ActivityRepository aggregates daily activity and goals
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) averages(ctx context.Context, column string, id uuid.UUID, since time.Time) (entities.ActivityAverages, error) {
	var avg entities.ActivityAverages
	err := r.db.WithContext(ctx).
		Model(&entities.DailyActivity{}).
		Select(averagesSelect).
		Where(column+" = ? AND date >= ?", id, since.Format(time.DateOnly)).
		Scan(&avg).Error
	return avg, err
}

// MemberAverages returns per-day means for one rep since the given day
func (r *ActivityRepository) MemberAverages(ctx context.Context, userID uuid.UUID, since time.Time) (entities.ActivityAverages, error) {
	return r.averages(ctx, "user_id", userID, since)
}

// CohortAverages returns per-day means across every rep of the account
func (r *ActivityRepository) CohortAverages(ctx context.Context, accountID uuid.UUID, since time.Time) (entities.ActivityAverages, error) {
	return r.averages(ctx, "account_id", accountID, since)
}

func (r *ActivityRepository) ActiveGoals(ctx context.Context, userID uuid.UUID) ([]*entities.Goal, error) {
	var goals []*entities.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entities.GoalStatusActive).
		Order("created_at ASC").
		Find(&goals).Error
	return goals, err
}

// RecordActivity upserts daily counters by id. Used by seeding.
func (r *ActivityRepository) RecordActivity(ctx context.Context, rows []*entities.DailyActivity) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(rows).Error
}

// CreateGoal upserts a goal by id. Used by seeding.
func (r *ActivityRepository) CreateGoal(ctx context.Context, goal *entities.Goal) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(goal).Error
}
