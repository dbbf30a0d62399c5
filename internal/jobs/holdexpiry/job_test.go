package holdexpiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

type expirerStub struct {
	cutoffs []time.Time
	n       int
	err     error
}

func (e *expirerStub) ExpireHolds(_ context.Context, olderThan time.Time) (int, error) {
	e.cutoffs = append(e.cutoffs, olderThan)
	return e.n, e.err
}

func TestJob_Run_UsesTTLCutoff(t *testing.T) {
	stub := &expirerStub{n: 3}
	job, err := New(stub, 15*time.Minute, "@every 1m", time.UTC, logger.NewNop())
	require.NoError(t, err)

	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	assert.Equal(t, 3, job.Run(context.Background()))
	require.Len(t, stub.cutoffs, 1)
	assert.Equal(t, now.Add(-15*time.Minute), stub.cutoffs[0])
}

func TestJob_Run_ErrorIsSwallowed(t *testing.T) {
	stub := &expirerStub{n: 5, err: errors.New("db down")}
	job, err := New(stub, time.Minute, "*/5 * * * *", time.UTC, logger.NewNop())
	require.NoError(t, err)

	assert.Zero(t, job.Run(context.Background()))
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(&expirerStub{}, time.Minute, "not a schedule", time.UTC, logger.NewNop())
	assert.Error(t, err)

	_, err = New(&expirerStub{}, 0, "@every 1m", time.UTC, logger.NewNop())
	assert.Error(t, err)
}

func TestJob_StartStop(t *testing.T) {
	job, err := New(&expirerStub{}, time.Minute, "@every 1h", time.UTC, logger.NewNop())
	require.NoError(t, err)

	job.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}
