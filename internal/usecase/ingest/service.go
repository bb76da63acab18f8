// Package ingest brings transcripts in, by pull sync or webhook push, and
// hands every new one to the analysis orchestrator exactly once.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/domain/repositories"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/external/fireflies"
	"github.com/johnquangdev/sales-coach/internal/usecase/analysis"
)

const (
	defaultLookbackDays = 30
	defaultFetchLimit   = 50
	defaultClaimTTL     = 10 * time.Minute
)

// TranscriptSource is the pull side of the transcript provider
type TranscriptSource interface {
	FetchTranscripts(ctx context.Context, apiKey string, since time.Time, limit int) ([]entities.Transcript, error)
	TestConnection(ctx context.Context, apiKey string) (*fireflies.UserInfo, error)
}

// ClaimStore coalesces concurrent deliveries of the same transcript. It is
// advisory; the unique dedup key in storage is what guarantees exactly once.
type ClaimStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Service defines ingestion operations
type Service interface {
	SyncAccount(ctx context.Context, accountID uuid.UUID) (*entities.SyncSummary, error)
	IngestWebhookTranscript(ctx context.Context, payload *WebhookPayload) (*entities.ConversationAnalysis, error)
	TestConnection(ctx context.Context, accountID uuid.UUID) (*fireflies.UserInfo, error)
}

// Options tune ingestion. Zero values select the defaults.
type Options struct {
	LookbackDays int
	FetchLimit   int

	// DefaultAccountID receives webhook deliveries whose participants match
	// no account member
	DefaultAccountID   *uuid.UUID
	DefaultMethodology string

	Claims   ClaimStore
	ClaimTTL time.Duration

	Logger *zap.Logger
	Now    func() time.Time
}

type ingestService struct {
	accounts     repositories.AccountRepository
	analyses     repositories.AnalysisRepository
	source       TranscriptSource
	orchestrator analysis.Orchestrator
	opts         Options
	logger       *zap.Logger
	now          func() time.Time
}

// NewService constructs the ingestion service
func NewService(
	accounts repositories.AccountRepository,
	analyses repositories.AnalysisRepository,
	source TranscriptSource,
	orchestrator analysis.Orchestrator,
	opts Options,
) Service {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = defaultLookbackDays
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = defaultFetchLimit
	}
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = defaultClaimTTL
	}
	if opts.DefaultMethodology == "" {
		opts.DefaultMethodology = "sandler"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ingestService{
		accounts:     accounts,
		analyses:     analyses,
		source:       source,
		orchestrator: orchestrator,
		opts:         opts,
		logger:       opts.Logger,
		now:          now,
	}
}

func (s *ingestService) settings(ctx context.Context, accountID uuid.UUID) (*entities.FirefliesSettings, error) {
	settings, err := s.accounts.GetFirefliesSettings(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fireflies settings: %w", err)
	}
	if !settings.Configured() {
		return nil, fmt.Errorf("%w: fireflies api key not set for account %s", entities.ErrNotConfigured, accountID)
	}
	return settings, nil
}

// SyncAccount pulls recent transcripts and analyzes the ones not yet synced.
// Per-transcript failures are reported in the summary and do not stop the batch.
func (s *ingestService) SyncAccount(ctx context.Context, accountID uuid.UUID) (*entities.SyncSummary, error) {
	settings, err := s.settings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	started := s.now().UTC()
	since := started.AddDate(0, 0, -s.opts.LookbackDays)
	transcripts, err := s.source.FetchTranscripts(ctx, settings.APIKey, since, s.opts.FetchLimit)
	if err != nil {
		return nil, err
	}

	synced, err := s.analyses.ListSyncedExternalIDs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load synced transcripts: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🔄 Syncing transcripts",
			zap.String("account_id", accountID.String()),
			zap.Int("available", len(transcripts)),
			zap.Int("already_synced", len(synced)),
		)
	}

	summary := &entities.SyncSummary{
		TotalAvailable: len(transcripts),
		Failures:       []entities.SyncFailure{},
	}

	for i := range transcripts {
		t := &transcripts[i]
		if _, ok := synced[t.ExternalID]; ok {
			summary.AlreadySynced++
			continue
		}
		summary.NewTranscripts++

		if t.ShorterThan(settings.MinDurationMinutes) {
			summary.SkippedShort++
			continue
		}

		if err := ctx.Err(); err != nil {
			s.recordFailure(summary, accountID, t.ExternalID, err)
			continue
		}

		_, err := s.orchestrator.ProcessTranscript(ctx, analysis.Input{
			AccountID:       accountID,
			Transcript:      t,
			CallType:        ClassifyCallType(t.Title, t.FullText()),
			Methodology:     settings.Methodology,
			ReferenceScript: settings.ReferenceScript,
		})
		switch {
		case errors.Is(err, entities.ErrAlreadySynced):
			summary.NewTranscripts--
			summary.AlreadySynced++
			synced[t.ExternalID] = struct{}{}
		case err != nil:
			s.recordFailure(summary, accountID, t.ExternalID, err)
		default:
			summary.SyncedCount++
			summary.AnalyzedCount++
			synced[t.ExternalID] = struct{}{}
		}
	}

	if err := s.accounts.TouchLastSync(ctx, accountID, started); err != nil && s.logger != nil {
		s.logger.Warn("Failed to update last sync time",
			zap.String("account_id", accountID.String()),
			zap.Error(err),
		)
	}

	if s.logger != nil {
		s.logger.Info("✅ Sync finished",
			zap.String("account_id", accountID.String()),
			zap.Int("synced", summary.SyncedCount),
			zap.Int("skipped_short", summary.SkippedShort),
			zap.Int("failed", summary.FailedCount),
		)
	}
	return summary, nil
}

func (s *ingestService) recordFailure(summary *entities.SyncSummary, accountID uuid.UUID, externalID string, err error) {
	summary.FailedCount++
	summary.Failures = append(summary.Failures, entities.SyncFailure{ExternalID: externalID, Reason: err.Error()})
	if s.logger != nil {
		s.logger.Error("❌ Failed to process transcript",
			zap.String("account_id", accountID.String()),
			zap.String("external_id", externalID),
			zap.Error(err),
		)
	}
}

// IngestWebhookTranscript analyzes one pushed transcript. Every failure is
// returned to the caller.
func (s *ingestService) IngestWebhookTranscript(ctx context.Context, payload *WebhookPayload) (*entities.ConversationAnalysis, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: empty payload", entities.ErrInvalidInput)
	}
	t, err := payload.Normalize(s.now())
	if err != nil {
		return nil, err
	}

	accountID, err := s.attribute(ctx, t)
	if err != nil {
		return nil, err
	}

	settings, err := s.accounts.GetFirefliesSettings(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fireflies settings: %w", err)
	}
	methodologyKey := s.opts.DefaultMethodology
	var script *entities.ReferenceScript
	minMinutes := 0
	if settings != nil {
		if settings.Methodology != "" {
			methodologyKey = settings.Methodology
		}
		script = settings.ReferenceScript
		minMinutes = settings.MinDurationMinutes
	}

	if s.opts.Claims != nil {
		key := fmt.Sprintf("webhook:%s:%s", accountID, t.ExternalID)
		claimed, err := s.opts.Claims.Claim(ctx, key, s.opts.ClaimTTL)
		switch {
		case err != nil:
			if s.logger != nil {
				s.logger.Warn("Claim store unavailable, relying on dedup key", zap.Error(err))
			}
		case !claimed:
			return nil, fmt.Errorf("%w: %s is already being processed", entities.ErrAlreadySynced, t.ExternalID)
		default:
			defer func() {
				if err := s.opts.Claims.Release(context.WithoutCancel(ctx), key); err != nil && s.logger != nil {
					s.logger.Warn("Failed to release claim", zap.String("key", key), zap.Error(err))
				}
			}()
		}
	}

	already, err := s.analyses.IsSynced(ctx, accountID, t.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check sync state: %w", err)
	}
	if already {
		return nil, fmt.Errorf("%w: %s", entities.ErrAlreadySynced, t.ExternalID)
	}

	// a payload without a duration is not held to the floor
	if t.DurationSeconds > 0 && t.ShorterThan(minMinutes) {
		return nil, fmt.Errorf("%w: %d seconds is under %d minutes", entities.ErrBelowMinimumDuration, t.DurationSeconds, minMinutes)
	}

	callType := ClassifyCallType(t.Title, t.Text)
	if s.logger != nil {
		s.logger.Info("📞 Webhook transcript received",
			zap.String("account_id", accountID.String()),
			zap.String("external_id", t.ExternalID),
			zap.String("title", t.Title),
			zap.String("call_type", string(callType)),
			zap.String("methodology", methodologyKey),
		)
	}

	return s.orchestrator.ProcessTranscript(ctx, analysis.Input{
		AccountID:       accountID,
		Transcript:      t,
		CallType:        callType,
		Methodology:     methodologyKey,
		ReferenceScript: script,
	})
}

// attribute picks the owning account: a participant email that belongs to an
// account member first, then the configured default account.
func (s *ingestService) attribute(ctx context.Context, t *entities.Transcript) (uuid.UUID, error) {
	if emails := t.ParticipantEmails(); len(emails) > 0 {
		id, err := s.accounts.FindAccountByEmails(ctx, emails)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to match participants: %w", err)
		}
		if id != nil {
			return *id, nil
		}
	}
	if s.opts.DefaultAccountID != nil {
		return *s.opts.DefaultAccountID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: no account matches the webhook participants", entities.ErrNotConfigured)
}

// TestConnection checks the stored Fireflies key against the provider
func (s *ingestService) TestConnection(ctx context.Context, accountID uuid.UUID) (*fireflies.UserInfo, error) {
	settings, err := s.settings(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.source.TestConnection(ctx, settings.APIKey)
}
