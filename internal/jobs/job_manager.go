package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	engagementRunner *EngagementJobRunner
}

// NewJobManager creates a job manager around the engagement job runner.
func NewJobManager(engagementRunner *EngagementJobRunner) *JobManager {
	return &JobManager{
		engagementRunner: engagementRunner,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.engagementRunner.Start(); err != nil {
		return fmt.Errorf("failed to start engagement job runner: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully, waiting for running polls.
func (jm *JobManager) StopAll() {
	jm.engagementRunner.Stop()
}
