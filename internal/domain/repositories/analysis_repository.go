package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// AnalysisRepository persists scored calls and their dedup markers
type AnalysisRepository interface {
	// ListSyncedExternalIDs returns every external transcript id already
	// recorded for the account. Sync reads it once per batch.
	ListSyncedExternalIDs(ctx context.Context, accountID uuid.UUID) (map[string]struct{}, error)

	// IsSynced is the point lookup on the (account, external id) dedup key
	IsSynced(ctx context.Context, accountID uuid.UUID, externalID string) (bool, error)

	// SaveWithSyncRecord inserts both rows in one transaction. A concurrent
	// claim of the same dedup key returns entities.ErrAlreadySynced and
	// leaves neither row behind.
	SaveWithSyncRecord(ctx context.Context, analysis *entities.ConversationAnalysis, record *entities.SyncRecord) error

	GetByID(ctx context.Context, accountID, id uuid.UUID) (*entities.ConversationAnalysis, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*entities.ConversationAnalysis, int64, error)
}
