package engagement

import (
	"errors"
	"fmt"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/guard"
)

// maxErrorLength bounds the stored failure text.
const maxErrorLength = 1024

var (
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")
	ErrJobIsNotPending     = errors.New("job is not pending")
)

// Job is a durable delayed task: run one engagement phase for one order, no
// earlier than runAt. Storage keeps at most one job per (order, phase), which
// turns repeated scheduling into a no-op.
//
// Delivery is at least once. A claimed job is leased by pushing runAt forward;
// if the worker dies before completing it the lease expires and another worker
// picks it up again, so phase handlers must be idempotent.
type Job struct {
	id        kernel.UUID
	orderID   kernel.UUID
	phase     Phase
	runAt     time.Time
	attempts  int
	state     State
	lastError string
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewJob schedules phase for orderID at runAt.
//
// Parameters:
//   - orderID: the order the phase applies to
//   - phase: PhaseEngage or PhaseRelease
//   - runAt: earliest execution instant
//   - now: scheduling instant
//
// Returns:
//   - *Job: a pending job with zero attempts
//   - error: joined validation errors
func NewJob(orderID kernel.UUID, phase Phase, runAt time.Time, now time.Time) (*Job, error) {
	j := &Job{
		id:        kernel.NewUUID(),
		runAt:     runAt,
		state:     StatePending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), phase.Validate()); err != nil {
		return nil, err
	}

	j.orderID = orderID
	j.phase = phase
	return j, nil
}

// Snapshot carries every persisted attribute of a job.
type Snapshot struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Phase     Phase
	RunAt     time.Time
	Attempts  int
	State     State
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func RestoreJob(s Snapshot) (*Job, error) {
	var attemptsErr error
	if s.Attempts < 0 {
		attemptsErr = fmt.Errorf("attempts must not be negative, got %d", s.Attempts)
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.Phase.Validate(),
		s.State.Validate(),
		attemptsErr,
	); err != nil {
		return nil, err
	}

	return &Job{
		id:        s.ID,
		orderID:   s.OrderID,
		phase:     s.Phase,
		runAt:     s.RunAt,
		attempts:  s.Attempts,
		state:     s.State,
		lastError: s.LastError,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (j *Job) Validate() error {
	if j == nil {
		return ErrJobIsNotConstructed
	}
	return j.guard.Validate(ErrJobIsNotConstructed)
}

func (j *Job) ID() kernel.UUID { return j.id }
func (j *Job) OrderID() kernel.UUID { return j.orderID }
func (j *Job) Phase() Phase { return j.phase }
func (j *Job) RunAt() time.Time { return j.runAt }
func (j *Job) Attempts() int { return j.attempts }
func (j *Job) State() State { return j.state }
func (j *Job) LastError() string { return j.lastError }
func (j *Job) CreatedAt() time.Time { return j.createdAt }
func (j *Job) UpdatedAt() time.Time { return j.updatedAt }

// IsDue reports whether a worker may claim the job at now.
func (j *Job) IsDue(now time.Time) bool {
	return j.state == StatePending && !j.runAt.After(now)
}

// Lease records an attempt and hides the job from other workers until now+lease.
func (j *Job) Lease(now time.Time, lease time.Duration) error {
	if j.state != StatePending {
		return fmt.Errorf("%w: %s", ErrJobIsNotPending, j.state)
	}
	j.attempts++
	j.runAt = now.Add(lease)
	j.updatedAt = now
	return nil
}

// Complete marks the job as successfully processed.
func (j *Job) Complete(now time.Time) {
	j.state = StateDone
	j.lastError = ""
	j.updatedAt = now
}

// Abandon stops the job for good without retrying, keeping reason for operators.
func (j *Job) Abandon(reason string, now time.Time) {
	j.state = StateFailed
	j.lastError = truncate(reason)
	j.updatedAt = now
}

// Fail records cause and either reschedules the job after backoff or, once
// maxAttempts have been used, gives up on it.
//
// Returns true when the job will be retried.
func (j *Job) Fail(cause error, now time.Time, maxAttempts int, backoff time.Duration) bool {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}

	if j.attempts >= maxAttempts {
		j.Abandon(msg, now)
		return false
	}

	j.lastError = truncate(msg)
	j.runAt = now.Add(backoff)
	j.updatedAt = now
	return true
}

func truncate(s string) string {
	if len(s) <= maxErrorLength {
		return s
	}
	return s[:maxErrorLength]
}
