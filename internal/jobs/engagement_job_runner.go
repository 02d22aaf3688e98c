package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/engagement"
	"fooddispatch/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSchedule    = "* * * * * *"
	DefaultBatchSize   = 20
	DefaultMaxAttempts = 5
	DefaultLease       = time.Minute
	DefaultBackoff     = 5 * time.Second
	maxBackoff         = 5 * time.Minute
)

var ErrUnknownPhase = errors.New("unknown engagement phase")

type (
	// QueueUoW is the transaction the runner claims and settles jobs in.
	QueueUoW interface {
		commands.TxManager
		commands.EngagementJobRepoFactory
	}

	// QueueUoWFactory creates queue unit of work instances.
	QueueUoWFactory interface {
		Create() QueueUoW
	}

	EngageHandler interface {
		Handle(ctx context.Context, cmd commands.EngageOrderCommand) error
	}

	ReleaseHandler interface {
		Handle(ctx context.Context, cmd commands.ReleaseOrderCommand) error
	}
)

// RunnerOptions tunes the poll loop. Zero values fall back to the defaults.
type RunnerOptions struct {
	// Schedule is a cron spec with a seconds field.
	Schedule    string
	BatchSize   int
	MaxAttempts int
	// Lease hides a claimed job from other workers while its phase runs.
	Lease time.Duration
	// Backoff is the delay before the first retry; it doubles per attempt.
	Backoff time.Duration
}

func (o RunnerOptions) withDefaults() RunnerOptions {
	if o.Schedule == "" {
		o.Schedule = DefaultSchedule
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Lease <= 0 {
		o.Lease = DefaultLease
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	return o
}

// EngagementJobRunner polls the engagement job queue and runs the due phases.
//
// Each poll claims a batch of due jobs and leases them in one short
// transaction, then runs every phase in its own transaction and records the
// outcome:
//   - success completes the job
//   - commands.ErrOrderNotFound abandons it, the order is gone for good
//   - any other error reschedules it with exponential backoff until
//     MaxAttempts is reached
//
// A worker that dies mid-batch leaves its jobs leased; they become due again
// when the lease expires. Several runners may poll the same queue.
type EngagementJobRunner struct {
	uowFactory QueueUoWFactory
	engage     EngageHandler
	release    ReleaseHandler
	opts       RunnerOptions
	metrics    *metrics.EngagementJobMetrics
	now        func() time.Time
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewEngagementJobRunner(
	uowFactory QueueUoWFactory,
	engage EngageHandler,
	release ReleaseHandler,
	opts RunnerOptions,
	jobMetrics *metrics.EngagementJobMetrics,
	logger *slog.Logger,
) *EngagementJobRunner {
	return &EngagementJobRunner{
		uowFactory: uowFactory,
		engage:     engage,
		release:    release,
		opts:       opts.withDefaults(),
		metrics:    jobMetrics,
		now:        time.Now,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "engagement_job_runner"),
	}
}

// WithClock replaces the runner's time source.
func (r *EngagementJobRunner) WithClock(now func() time.Time) *EngagementJobRunner {
	r.now = now
	return r
}

// Start schedules RunOnce on the configured cron spec. Overlapping polls are skipped.
func (r *EngagementJobRunner) Start() error {
	_, err := r.cron.AddFunc(r.opts.Schedule, func() {
		ctx := context.Background()
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.ErrorContext(ctx, "Engagement job poll failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid engagement job schedule %q: %w", r.opts.Schedule, err)
	}

	r.cron.Start()
	r.logger.InfoContext(context.Background(), "Engagement job runner started", "schedule", r.opts.Schedule)
	return nil
}

// Stop stops polling and waits for a running poll to finish.
func (r *EngagementJobRunner) Stop() {
	<-r.cron.Stop().Done()
	r.logger.InfoContext(context.Background(), "Engagement job runner stopped")
}

// RunOnce claims one batch of due jobs and processes it. It returns the
// number of jobs processed; phase failures are recorded on the jobs, not
// returned.
func (r *EngagementJobRunner) RunOnce(ctx context.Context) (int, error) {
	claimed, err := r.claim(ctx, r.now())
	if err != nil {
		return 0, err
	}

	for _, job := range claimed {
		r.process(ctx, job)
	}
	return len(claimed), nil
}

func (r *EngagementJobRunner) claim(ctx context.Context, now time.Time) ([]*engagement.Job, error) {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.EngagementJobRepository()
	due, err := repo.ClaimDue(ctx, now, r.opts.BatchSize)
	if err != nil {
		return nil, err
	}

	for _, job := range due {
		r.metrics.ObserveLag(job.Phase().String(), now.Sub(job.RunAt()))
		if err = job.Lease(now, r.opts.Lease); err != nil {
			return nil, err
		}
		if err = repo.Update(ctx, job); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return due, nil
}

func (r *EngagementJobRunner) process(ctx context.Context, job *engagement.Job) {
	started := r.now()
	phaseErr := r.execute(ctx, job)
	finished := r.now()

	attrs := []any{
		"job_id", job.ID().String(),
		"order_id", job.OrderID().String(),
		"phase", job.Phase().String(),
		"attempt", job.Attempts(),
	}

	var outcome string
	switch {
	case phaseErr == nil:
		job.Complete(finished)
		outcome = metrics.JobCompleted
	case errors.Is(phaseErr, commands.ErrOrderNotFound), errors.Is(phaseErr, ErrUnknownPhase):
		r.logger.WarnContext(ctx, "Engagement job dropped", append(attrs, "error", phaseErr)...)
		job.Abandon(phaseErr.Error(), finished)
		outcome = metrics.JobAbandoned
	default:
		if job.Fail(phaseErr, finished, r.opts.MaxAttempts, r.backoff(job.Attempts())) {
			r.logger.ErrorContext(ctx, "Engagement job failed, will retry",
				append(attrs, "error", phaseErr, "next_run_at", job.RunAt())...)
			outcome = metrics.JobRetried
		} else {
			r.logger.ErrorContext(ctx, "Engagement job failed, giving up", append(attrs, "error", phaseErr)...)
			outcome = metrics.JobAbandoned
		}
	}

	r.metrics.Observe(job.Phase().String(), outcome, finished.Sub(started))

	if err := r.save(ctx, job); err != nil {
		r.logger.ErrorContext(ctx, "Failed to record engagement job outcome",
			append(attrs, "state", string(job.State()), "error", err)...)
	}
}

func (r *EngagementJobRunner) execute(ctx context.Context, job *engagement.Job) error {
	switch job.Phase() {
	case engagement.PhaseEngage:
		cmd, err := commands.NewEngageOrderCommand(job.OrderID())
		if err != nil {
			return err
		}
		return r.engage.Handle(ctx, cmd)
	case engagement.PhaseRelease:
		cmd, err := commands.NewReleaseOrderCommand(job.OrderID())
		if err != nil {
			return err
		}
		return r.release.Handle(ctx, cmd)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPhase, job.Phase())
	}
}

func (r *EngagementJobRunner) save(ctx context.Context, job *engagement.Job) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.EngagementJobRepository().Update(ctx, job); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// backoff doubles the base delay for every attempt already made.
func (r *EngagementJobRunner) backoff(attempts int) time.Duration {
	delay := r.opts.Backoff
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
