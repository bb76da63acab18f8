// Package scheduler runs the periodic pull sync for every configured account.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/pkg/jobcontext"
)

// JobType tags scheduler runs in the job context
const JobType = "fireflies_sync"

// AccountLister lists the accounts a sync should cover
type AccountLister interface {
	ListConfiguredAccounts(ctx context.Context) ([]uuid.UUID, error)
}

// Syncer runs one account's pull sync
type Syncer interface {
	SyncAccount(ctx context.Context, accountID uuid.UUID) (*entities.SyncSummary, error)
}

// RunReport aggregates one scheduler run
type RunReport struct {
	RunID    uuid.UUID
	Accounts int
	Failed   int
	Analyzed int
}

type Scheduler struct {
	accounts    AccountLister
	syncer      Syncer
	interval    time.Duration
	concurrency int
	runTimeout  time.Duration
	logger      *zap.Logger
}

func NewScheduler(accounts AccountLister, syncer Syncer, interval time.Duration, concurrency int, runTimeout time.Duration, logger *zap.Logger) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		accounts:    accounts,
		syncer:      syncer,
		interval:    interval,
		concurrency: concurrency,
		runTimeout:  runTimeout,
		logger:      logger,
	}
}

// Enabled reports whether Run does anything
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Run syncs every interval until ctx is cancelled. It returns at once when
// the interval is zero.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		if s.logger != nil {
			s.logger.Info("Sync scheduler disabled")
		}
		return
	}

	if s.logger != nil {
		s.logger.Info("⏰ Sync scheduler started",
			zap.Duration("interval", s.interval),
			zap.Int("concurrency", s.concurrency),
		)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("Sync scheduler stopped")
			}
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && s.logger != nil {
				s.logger.Error("Scheduled sync run failed", zap.Error(err))
			}
		}
	}
}

// RunOnce syncs every configured account once. Only a failure to list
// accounts is returned; per-account failures are logged and counted.
func (s *Scheduler) RunOnce(ctx context.Context) (*RunReport, error) {
	runID := uuid.New()
	jobCtx, cancel := jobcontext.JobBegin(ctx, runID, JobType, 0, s.runTimeout)
	defer cancel()

	report := &RunReport{RunID: runID}
	ids, err := s.accounts.ListConfiguredAccounts(jobCtx)
	if err != nil {
		return report, err
	}
	report.Accounts = len(ids)

	results := make([]*entities.SyncSummary, len(ids))
	errs := make([]error, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, accountID := range ids {
		g.Go(func() error {
			errs[i] = jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
				summary, err := s.syncer.SyncAccount(ctx, accountID)
				results[i] = summary
				return err
			})
			return nil
		})
	}
	_ = g.Wait()

	for i, accountID := range ids {
		if errs[i] != nil {
			report.Failed++
			if s.logger != nil {
				s.logger.Warn("Account sync failed",
					zap.String("run_id", runID.String()),
					zap.String("account_id", accountID.String()),
					zap.Error(errs[i]),
				)
			}
			continue
		}
		if results[i] != nil {
			report.Analyzed += results[i].AnalyzedCount
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Sync run finished",
			zap.String("run_id", runID.String()),
			zap.Int("accounts", report.Accounts),
			zap.Int("failed", report.Failed),
			zap.Int("analyzed", report.Analyzed),
			zap.Duration("elapsed", time.Since(jobcontext.GetJobMetadata(jobCtx).StartTime)),
		)
	}
	return report, nil
}
