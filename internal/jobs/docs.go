// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Its only job today is the EngagementJobRunner, which drives the two
// engagement phases of every order from the durable engagement_jobs queue.
//
// # Usage
//
//	runner := jobs.NewEngagementJobRunner(queueFactory, engageHandler, releaseHandler,
//		jobs.RunnerOptions{}, jobMetrics, logger)
//	jobManager := jobs.NewJobManager(runner)
//
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The default cron expression "* * * * * *" polls every second, so a phase
// runs at most about a second after it becomes due. Jobs are claimed with
// SELECT ... FOR UPDATE SKIP LOCKED on PostgreSQL, which lets several
// processes poll the same queue.
//
// # Error Handling
//
//   - a missing order abandons the job without retrying
//   - other failures are retried with exponential backoff up to MaxAttempts
//   - a failed poll is logged and the next tick tries again
package jobs
