package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/database"
)

// AnalysisRepository handles conversation analyses and their sync records
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// ListSyncedExternalIDs loads the account's dedup set in one query
func (r *AnalysisRepository) ListSyncedExternalIDs(ctx context.Context, accountID uuid.UUID) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.SyncRecord{}).
		Where("account_id = ?", accountID).
		Pluck("external_id", &ids).Error; err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *AnalysisRepository) IsSynced(ctx context.Context, accountID uuid.UUID, externalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.SyncRecord{}).
		Where("account_id = ? AND external_id = ?", accountID, externalID).
		Count(&count).Error
	return count > 0, err
}

// SaveWithSyncRecord writes the analysis and its sync record atomically.
// The unique (account_id, external_id) index decides concurrent races.
func (r *AnalysisRepository) SaveWithSyncRecord(ctx context.Context, analysis *entities.ConversationAnalysis, record *entities.SyncRecord) error {
	if analysis == nil || record == nil {
		return errors.New("analysis and sync record are required")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(analysis).Error; err != nil {
			return err
		}
		record.AnalysisID = analysis.ID
		return tx.Create(record).Error
	})
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", entities.ErrAlreadySynced, record.ExternalID)
	}
	return err
}

// GetByID retrieves an analysis scoped to an account
func (r *AnalysisRepository) GetByID(ctx context.Context, accountID, id uuid.UUID) (*entities.ConversationAnalysis, error) {
	var analysis entities.ConversationAnalysis
	if err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

// ListByAccount pages analyses newest call first
func (r *AnalysisRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*entities.ConversationAnalysis, int64, error) {
	var analyses []*entities.ConversationAnalysis
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.ConversationAnalysis{}).Where("account_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("conversation_date DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&analyses).Error
	return analyses, total, err
}
