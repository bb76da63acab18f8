package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// AccountRepository handles account members and Fireflies settings
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetMember retrieves a member by user ID
func (r *AccountRepository) GetMember(ctx context.Context, userID uuid.UUID) (*entities.AccountMember, error) {
	var member entities.AccountMember
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// FindAccountByEmails returns the account of the first matching member in
// the order the emails are given
func (r *AccountRepository) FindAccountByEmails(ctx context.Context, emails []string) (*uuid.UUID, error) {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			normalized = append(normalized, e)
		}
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	var members []entities.AccountMember
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) IN ?", normalized).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	byEmail := make(map[string]uuid.UUID, len(members))
	for _, m := range members {
		key := strings.ToLower(m.Email)
		if _, ok := byEmail[key]; !ok {
			byEmail[key] = m.AccountID
		}
	}
	for _, e := range normalized {
		if id, ok := byEmail[e]; ok {
			return &id, nil
		}
	}
	return nil, nil
}

// GetFirefliesSettings returns nil when the account has no settings row
func (r *AccountRepository) GetFirefliesSettings(ctx context.Context, accountID uuid.UUID) (*entities.FirefliesSettings, error) {
	var settings entities.FirefliesSettings
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// ListConfiguredAccounts lists accounts with a Fireflies API key set
func (r *AccountRepository) ListConfiguredAccounts(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entities.FirefliesSettings{}).
		Where("api_key <> ''").
		Order("account_id").
		Pluck("account_id", &ids).Error
	return ids, err
}

func (r *AccountRepository) TouchLastSync(ctx context.Context, accountID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.FirefliesSettings{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"last_sync_at": at,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// UpsertAccount creates the account and its members if missing. Used by seeding.
func (r *AccountRepository) UpsertAccount(ctx context.Context, account *entities.Account, members []*entities.AccountMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", account.ID).FirstOrCreate(account).Error; err != nil {
			return err
		}
		for _, m := range members {
			m.AccountID = account.ID
			if err := tx.Where("user_id = ?", m.UserID).FirstOrCreate(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveFirefliesSettings writes the integration settings. Used by seeding.
func (r *AccountRepository) SaveFirefliesSettings(ctx context.Context, settings *entities.FirefliesSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
