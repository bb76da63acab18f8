package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/pkg/jobcontext"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticAccounts struct {
	ids []uuid.UUID
	err error
}

func (a staticAccounts) ListConfiguredAccounts(ctx context.Context) ([]uuid.UUID, error) {
	return a.ids, a.err
}

type recordingSyncer struct {
	mu      sync.Mutex
	seen    []uuid.UUID
	fail    map[uuid.UUID]error
	delay   time.Duration
	active  atomic.Int32
	peak    atomic.Int32
	jobType string
}

func (s *recordingSyncer) SyncAccount(ctx context.Context, accountID uuid.UUID) (*entities.SyncSummary, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}

	s.mu.Lock()
	s.seen = append(s.seen, accountID)
	s.jobType, _ = jobcontext.GetJobType(ctx)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := s.fail[accountID]; err != nil {
		return nil, err
	}
	return &entities.SyncSummary{AnalyzedCount: 2}, nil
}

func accountIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestRunOnce_IsolatesFailures(t *testing.T) {
	ids := accountIDs(5)
	syncer := &recordingSyncer{fail: map[uuid.UUID]error{
		ids[1]: entities.ErrAuth,
		ids[3]: errors.New("db down"),
	}}
	s := NewScheduler(staticAccounts{ids: ids}, syncer, time.Minute, 2, time.Minute, nil)

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Accounts)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 6, report.Analyzed)
	assert.ElementsMatch(t, ids, syncer.seen)
	assert.Equal(t, JobType, syncer.jobType)
}

func TestRunOnce_BoundsConcurrency(t *testing.T) {
	syncer := &recordingSyncer{delay: 20 * time.Millisecond}
	s := NewScheduler(staticAccounts{ids: accountIDs(8)}, syncer, time.Minute, 3, time.Minute, nil)

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, syncer.peak.Load(), int32(3))
	assert.Len(t, syncer.seen, 8)
}

func TestRunOnce_ListFailure(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewScheduler(staticAccounts{err: errors.New("no db")}, syncer, time.Minute, 1, time.Minute, nil)

	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Empty(t, syncer.seen)
}

func TestRunOnce_RunTimeout(t *testing.T) {
	syncer := &recordingSyncer{delay: time.Second}
	s := NewScheduler(staticAccounts{ids: accountIDs(2)}, syncer, time.Minute, 2, 30*time.Millisecond, nil)

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Failed)
}

func TestRun_DisabledReturnsImmediately(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewScheduler(staticAccounts{ids: accountIDs(1)}, syncer, 0, 1, time.Minute, nil)
	assert.False(t, s.Enabled())

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return for a zero interval")
	}
	assert.Empty(t, syncer.seen)
}

func TestRun_StopsOnCancel(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewScheduler(staticAccounts{ids: accountIDs(2)}, syncer, 10*time.Millisecond, 2, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		syncer.mu.Lock()
		defer syncer.mu.Unlock()
		return len(syncer.seen) >= 4
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
