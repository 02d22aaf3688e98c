package ports

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/engagement"
)

// EngagementJobRepository is the durable timer queue behind the engagement phases.
type EngagementJobRepository interface {
	// Schedule persists a pending job. Scheduling the same (order, phase) pair
	// again is a no-op, which makes enqueueing idempotent.
	Schedule(ctx context.Context, job *engagement.Job) error

	// ClaimDue locks and returns up to limit pending jobs whose run time is not
	// after now, oldest first. Rows locked by another transaction are skipped,
	// so concurrent workers never receive the same job. Must run inside a
	// unit of work transaction.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*engagement.Job, error)

	// Update persists attempts, run time, state and last error of a job.
	Update(ctx context.Context, job *engagement.Job) error
}
