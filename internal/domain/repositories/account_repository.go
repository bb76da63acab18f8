package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// AccountRepository reads account membership and integration settings
type AccountRepository interface {
	GetMember(ctx context.Context, userID uuid.UUID) (*entities.AccountMember, error)

	// FindAccountByEmails returns the account of the first member whose
	// email matches one of the given addresses, or nil when none match.
	FindAccountByEmails(ctx context.Context, emails []string) (*uuid.UUID, error)

	GetFirefliesSettings(ctx context.Context, accountID uuid.UUID) (*entities.FirefliesSettings, error)
	ListConfiguredAccounts(ctx context.Context) ([]uuid.UUID, error)

	// TouchLastSync is the only settings write the pipeline performs
	TouchLastSync(ctx context.Context, accountID uuid.UUID, at time.Time) error
}
