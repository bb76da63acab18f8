package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// ActivityRepository aggregates daily activity for coaching
type ActivityRepository interface {
	// MemberAverages returns the member's rounded per-day means since the
	// given date. Days is zero when the member has no rows in the window.
	MemberAverages(ctx context.Context, userID uuid.UUID, since time.Time) (entities.ActivityAverages, error)
	CohortAverages(ctx context.Context, accountID uuid.UUID, since time.Time) (entities.ActivityAverages, error)
	ActiveGoals(ctx context.Context, userID uuid.UUID) ([]*entities.Goal, error)
}

// CoachingRepository stores coaching history. Append only.
type CoachingRepository interface {
	Append(ctx context.Context, summary *entities.CoachingSummary) error
	ListHistory(ctx context.Context, managerID, teamMemberID uuid.UUID, limit int) ([]*entities.CoachingSummary, error)
}
