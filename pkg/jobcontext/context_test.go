package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobBegin_Metadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := JobBegin(context.Background(), id, "fireflies_sync", 3, time.Minute)
	defer cancel()

	meta := GetJobMetadata(ctx)
	assert.Equal(t, id, meta.JobID)
	assert.Equal(t, "fireflies_sync", meta.JobType)
	assert.Equal(t, 3, meta.WorkerID)
	assert.False(t, meta.StartTime.IsZero())

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestGetWorkerID_Missing(t *testing.T) {
	assert.Equal(t, -1, GetWorkerID(context.Background()))
	_, ok := GetJobID(context.Background())
	assert.False(t, ok)
}

func TestJobEnd_RunsOnce(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := JobEnd(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestJobEnd_RecoversPanic(t *testing.T) {
	err := JobEnd(context.Background(), func(context.Context) error { panic("nil map") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: nil map")
}

func TestJobEnd_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := JobEnd(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
