//go:build integration

package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/database"
	"github.com/johnquangdev/sales-coach/pkg/config"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.NewPostgresDB(cfg)
	require.NoError(t, err)
	_, err = database.Migrate(db, "../../../migrations", migrate.Up)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	return db
}

func seedAccount(t *testing.T, db *gorm.DB) (*entities.Account, *entities.AccountMember, *entities.AccountMember) {
	t.Helper()
	repo := NewAccountRepository(db)
	account := &entities.Account{ID: uuid.New(), Name: "Integration " + t.Name()}
	manager := &entities.AccountMember{UserID: uuid.New(), Email: uuid.NewString() + "@boss.io", DisplayName: "Morgan", Role: entities.MemberRoleManager}
	rep := &entities.AccountMember{UserID: uuid.New(), Email: uuid.NewString() + "@rep.io", DisplayName: "Riley", Role: entities.MemberRoleRep}
	require.NoError(t, repo.UpsertAccount(context.Background(), account, []*entities.AccountMember{manager, rep}))
	return account, manager, rep
}

func newAnalysis(accountID uuid.UUID, externalID string) (*entities.ConversationAnalysis, *entities.SyncRecord) {
	a := &entities.ConversationAnalysis{
		ID:               uuid.New(),
		AccountID:        accountID,
		ExternalID:       externalID,
		Source:           entities.SourceFireflies,
		Methodology:      "sandler",
		ConversationType: entities.CallTypeDiscovery,
		ConversationDate: time.Now().UTC(),
		OverallScore:     7,
		Scores:           map[string]float64{"bonding_rapport": 7},
		WhatWentWell:     []string{},
		AreasToImprove:   []string{},
		Omissions:        []string{},
		Recommendations:  []string{},
		RawResponse:      datatypes.JSON(`{"overall_score": 7}`),
	}
	t := &entities.Transcript{ExternalID: externalID, Source: entities.SourceFireflies, Title: "Intro", Date: time.Now().UTC()}
	return a, entities.NewSyncRecord(accountID, t, a.ID, time.Now().UTC())
}

func TestAnalysisRepository_DedupUnderConcurrency(t *testing.T) {
	db := openTestDB(t)
	account, _, _ := seedAccount(t, db)
	repo := NewAnalysisRepository(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, rec := newAnalysis(account.ID, "ff-race")
			errs[i] = repo.SaveWithSyncRecord(ctx, a, rec)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, entities.ErrAlreadySynced)
	}
	assert.Equal(t, 1, succeeded)

	var analyses int64
	require.NoError(t, db.Model(&entities.ConversationAnalysis{}).Where("account_id = ? AND external_id = ?", account.ID, "ff-race").Count(&analyses).Error)
	assert.Equal(t, int64(1), analyses)

	synced, err := repo.IsSynced(ctx, account.ID, "ff-race")
	require.NoError(t, err)
	assert.True(t, synced)

	set, err := repo.ListSyncedExternalIDs(ctx, account.ID)
	require.NoError(t, err)
	assert.Contains(t, set, "ff-race")

	list, total, err := repo.ListByAccount(ctx, account.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	got, err := repo.GetByID(ctx, uuid.New(), list[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountRepository_SettingsAndLookup(t *testing.T) {
	db := openTestDB(t)
	account, manager, _ := seedAccount(t, db)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	id, err := repo.FindAccountByEmails(ctx, []string{"nobody@x.io", " " + manager.Email + " "})
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, account.ID, *id)

	require.NoError(t, repo.SaveFirefliesSettings(ctx, &entities.FirefliesSettings{AccountID: account.ID, APIKey: "ff-key", Methodology: "meddic"}))
	ids, err := repo.ListConfiguredAccounts(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, account.ID)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastSync(ctx, account.ID, at))
	settings, err := repo.GetFirefliesSettings(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, settings.LastSyncAt)
	assert.True(t, settings.LastSyncAt.Equal(at))
	assert.Equal(t, "meddic", settings.Methodology)
}

func TestActivityAndCoachingRepositories(t *testing.T) {
	db := openTestDB(t)
	account, manager, rep := seedAccount(t, db)
	activity := NewActivityRepository(db)
	coaching := NewCoachingRepository(db)
	ctx := context.Background()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	require.NoError(t, activity.RecordActivity(ctx, []*entities.DailyActivity{
		{ID: uuid.New(), AccountID: account.ID, UserID: rep.UserID, Date: datatypes.Date(today.AddDate(0, 0, -1)), CallsMade: 10, EmailsSent: 30, MeetingsBooked: 1, MethodologyScore: 60},
		{ID: uuid.New(), AccountID: account.ID, UserID: rep.UserID, Date: datatypes.Date(today.AddDate(0, 0, -2)), CallsMade: 13, EmailsSent: 31, MeetingsBooked: 2, MethodologyScore: 65},
		{ID: uuid.New(), AccountID: account.ID, UserID: rep.UserID, Date: datatypes.Date(today.AddDate(0, 0, -40)), CallsMade: 100},
	}))

	avg, err := activity.MemberAverages(ctx, rep.UserID, today.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, entities.ActivityAverages{Days: 2, Calls: 12, Emails: 31, Meetings: 2, Methodology: 63}, avg)

	empty, err := activity.MemberAverages(ctx, manager.UserID, today.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Zero(t, empty.Days)

	for i := 0; i < 3; i++ {
		require.NoError(t, coaching.Append(ctx, &entities.CoachingSummary{
			ID:           uuid.New(),
			AccountID:    account.ID,
			ManagerID:    manager.UserID,
			TeamMemberID: rep.UserID,
			FullMessage:  "message",
			CreatedAt:    time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}
	history, err := coaching.ListHistory(ctx, manager.UserID, rep.UserID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt))
}
