package engagement_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fooddispatch/internal/core/domain/model/engagement"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newJob(t *testing.T, phase engagement.Phase, runAt time.Time) *engagement.Job {
	t.Helper()
	j, err := engagement.NewJob(kernel.NewUUID(), phase, runAt, now)
	require.NoError(t, err)
	return j
}

func TestNewJob(t *testing.T) {
	t.Run("pending_job", func(t *testing.T) {
		orderID := kernel.NewUUID()
		j, err := engagement.NewJob(orderID, engagement.PhaseEngage, now, now)

		require.NoError(t, err)
		require.NoError(t, j.Validate())
		assert.True(t, j.OrderID().IsEqual(orderID))
		assert.Equal(t, engagement.PhaseEngage, j.Phase())
		assert.Equal(t, engagement.StatePending, j.State())
		assert.Zero(t, j.Attempts())
		assert.True(t, j.IsDue(now))
	})

	t.Run("invalid_arguments", func(t *testing.T) {
		_, err := engagement.NewJob(kernel.UUID{}, engagement.Phase("cook"), now, now)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRestoreJob(t *testing.T) {
	t.Run("restores_failed_job", func(t *testing.T) {
		j, err := engagement.RestoreJob(engagement.Snapshot{
			ID: kernel.NewUUID(), OrderID: kernel.NewUUID(), Phase: engagement.PhaseRelease,
			RunAt: now, Attempts: 5, State: engagement.StateFailed, LastError: "boom",
		})

		require.NoError(t, err)
		assert.Equal(t, 5, j.Attempts())
		assert.True(t, j.State().IsFinal())
		assert.False(t, j.IsDue(now.Add(time.Hour)))
	})

	t.Run("rejects_unknown_state", func(t *testing.T) {
		_, err := engagement.RestoreJob(engagement.Snapshot{
			ID: kernel.NewUUID(), OrderID: kernel.NewUUID(), Phase: engagement.PhaseRelease,
			State: engagement.State("running"),
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestJob_IsDue(t *testing.T) {
	j := newJob(t, engagement.PhaseRelease, now.Add(15*time.Minute))

	assert.False(t, j.IsDue(now))
	assert.False(t, j.IsDue(now.Add(15*time.Minute-time.Nanosecond)))
	assert.True(t, j.IsDue(now.Add(15*time.Minute)))
}

func TestJob_Lease(t *testing.T) {
	j := newJob(t, engagement.PhaseEngage, now)

	require.NoError(t, j.Lease(now, 30*time.Second))

	assert.Equal(t, 1, j.Attempts())
	assert.Equal(t, now.Add(30*time.Second), j.RunAt())
	assert.False(t, j.IsDue(now.Add(10*time.Second)), "leased job is hidden")
	assert.True(t, j.IsDue(now.Add(30*time.Second)), "expired lease makes it visible again")

	j.Complete(now)
	require.ErrorIs(t, j.Lease(now, time.Second), engagement.ErrJobIsNotPending)
}

func TestJob_Fail(t *testing.T) {
	t.Run("retries_until_max_attempts", func(t *testing.T) {
		j := newJob(t, engagement.PhaseEngage, now)
		cause := errors.New("connection refused")

		require.NoError(t, j.Lease(now, time.Second))
		assert.True(t, j.Fail(cause, now, 2, 5*time.Second))
		assert.Equal(t, engagement.StatePending, j.State())
		assert.Equal(t, now.Add(5*time.Second), j.RunAt())
		assert.Equal(t, "connection refused", j.LastError())

		require.NoError(t, j.Lease(now.Add(5*time.Second), time.Second))
		assert.False(t, j.Fail(cause, now.Add(6*time.Second), 2, 5*time.Second))
		assert.Equal(t, engagement.StateFailed, j.State())
	})

	t.Run("long_errors_are_truncated", func(t *testing.T) {
		j := newJob(t, engagement.PhaseEngage, now)
		require.NoError(t, j.Lease(now, time.Second))

		j.Fail(errors.New(strings.Repeat("x", 5000)), now, 3, time.Second)

		assert.Len(t, j.LastError(), 1024)
	})
}

func TestJob_CompleteAndAbandon(t *testing.T) {
	done := newJob(t, engagement.PhaseRelease, now)
	done.Complete(now.Add(time.Minute))
	assert.Equal(t, engagement.StateDone, done.State())
	assert.Equal(t, now.Add(time.Minute), done.UpdatedAt())

	abandoned := newJob(t, engagement.PhaseEngage, now)
	abandoned.Abandon("order not found", now)
	assert.Equal(t, engagement.StateFailed, abandoned.State())
	assert.Equal(t, "order not found", abandoned.LastError())
	assert.False(t, abandoned.IsDue(now.Add(time.Hour)))
}
