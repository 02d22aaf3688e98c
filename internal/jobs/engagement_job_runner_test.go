package jobs_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"fooddispatch/internal/adapters/out/postgres"
	"fooddispatch/internal/adapters/out/postgres/jobrepo"
	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/engagement"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/jobs"
	"fooddispatch/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MockEngageHandler struct {
	mock.Mock
}

func (m *MockEngageHandler) Handle(ctx context.Context, cmd commands.EngageOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockReleaseHandler struct {
	mock.Mock
}

func (m *MockReleaseHandler) Handle(ctx context.Context, cmd commands.ReleaseOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type queueFactory struct {
	factory *postgres.GormUnitOfWorkFactory
}

func (q queueFactory) Create() jobs.QueueUoW {
	return q.factory.Create()
}

func engageFor(orderID kernel.UUID) any {
	return mock.MatchedBy(func(cmd commands.EngageOrderCommand) bool {
		return cmd.OrderID().IsEqual(orderID)
	})
}

func releaseFor(orderID kernel.UUID) any {
	return mock.MatchedBy(func(cmd commands.ReleaseOrderCommand) bool {
		return cmd.OrderID().IsEqual(orderID)
	})
}

type EngagementJobRunnerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	engage  *MockEngageHandler
	release *MockReleaseHandler
	start   time.Time
	clock   time.Time
	logger  *slog.Logger
}

func TestEngagementJobRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(EngagementJobRunnerTestSuite))
}

func (s *EngagementJobRunnerTestSuite) SetupTest() {
	db, err := postgres.Open(context.Background(), postgres.Options{
		Driver:      postgres.DriverSQLite,
		DSN:         "file:runner_" + uuid.NewString() + "?mode=memory&cache=shared",
		AutoMigrate: true,
	})
	s.Require().NoError(err)
	s.db = db

	s.engage = new(MockEngageHandler)
	s.release = new(MockReleaseHandler)
	s.start = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s.clock = s.start
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *EngagementJobRunnerTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *EngagementJobRunnerTestSuite) newRunner(opts jobs.RunnerOptions, jobMetrics *metrics.EngagementJobMetrics) *jobs.EngagementJobRunner {
	factory := queueFactory{factory: postgres.NewGormUnitOfWorkFactory(s.db)}
	return jobs.NewEngagementJobRunner(factory, s.engage, s.release, opts, jobMetrics, s.logger).
		WithClock(func() time.Time { return s.clock })
}

func (s *EngagementJobRunnerTestSuite) schedule(phase engagement.Phase, runAt time.Time) kernel.UUID {
	orderID := kernel.NewUUID()
	job, err := engagement.NewJob(orderID, phase, runAt, s.start)
	s.Require().NoError(err)
	s.Require().NoError(jobrepo.NewGormJobRepository(s.db).Schedule(context.Background(), job))
	return orderID
}

func (s *EngagementJobRunnerTestSuite) stored(orderID kernel.UUID, phase engagement.Phase) jobrepo.JobDTO {
	var dto jobrepo.JobDTO
	s.Require().NoError(s.db.Where("order_id = ? AND phase = ?", orderID.Raw(), phase.String()).First(&dto).Error)
	return dto
}

func (s *EngagementJobRunnerTestSuite) TestRunOnce_CompletesDueEngageJob() {
	orderID := s.schedule(engagement.PhaseEngage, s.start)
	s.engage.On("Handle", mock.Anything, engageFor(orderID)).Return(nil).Once()

	processed, err := s.newRunner(jobs.RunnerOptions{}, nil).RunOnce(context.Background())

	s.Require().NoError(err)
	s.Equal(1, processed)
	s.engage.AssertExpectations(s.T())
	s.release.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)

	dto := s.stored(orderID, engagement.PhaseEngage)
	s.Equal(string(engagement.StateDone), dto.State)
	s.Equal(1, dto.Attempts)
	s.Empty(dto.LastError)
}

func (s *EngagementJobRunnerTestSuite) TestRunOnce_DispatchesReleasePhase() {
	orderID := s.schedule(engagement.PhaseRelease, s.start.Add(-time.Minute))
	s.release.On("Handle", mock.Anything, releaseFor(orderID)).Return(nil).Once()

	processed, err := s.newRunner(jobs.RunnerOptions{}, nil).RunOnce(context.Background())

	s.Require().NoError(err)
	s.Equal(1, processed)
	s.release.AssertExpectations(s.T())
	s.engage.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)
	s.Equal(string(engagement.StateDone), s.stored(orderID, engagement.PhaseRelease).State)
}

func (s *EngagementJobRunnerTestSuite) TestRunOnce_LeavesFutureJobsAlone() {
	orderID := s.schedule(engagement.PhaseRelease, s.start.Add(15*time.Minute))

	processed, err := s.newRunner(jobs.RunnerOptions{}, nil).RunOnce(context.Background())

	s.Require().NoError(err)
	s.Zero(processed)
	s.release.AssertNotCalled(s.T(), "Handle", mock.Anything, mock.Anything)

	dto := s.stored(orderID, engagement.PhaseRelease)
	s.Equal(string(engagement.StatePending), dto.State)
	s.Zero(dto.Attempts)
}

func (s *EngagementJobRunnerTestSuite) TestRunOnce_RespectsBatchSize() {
	for range 3 {
		s.schedule(engagement.PhaseEngage, s.start)
	}
	s.engage.On("Handle", mock.Anything, mock.Anything).Return(nil)

	runner := s.newRunner(jobs.RunnerOptions{BatchSize: 2}, nil)

	processed, err := runner.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(2, processed)

	processed, err = runner.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(1, processed)

	s.engage.AssertNumberOfCalls(s.T(), "Handle", 3)
}

func (s *EngagementJobRunnerTestSuite) TestRunOnce_MissingOrderIsNotRetried() {
	orderID := s.schedule(engagement.PhaseEngage, s.start)
	s.engage.On("Handle", mock.Anything, engageFor(orderID)).
		Return(fmt.Errorf("%w: %s", commands.ErrOrderNotFound, orderID)).Once()

	runner := s.newRunner(jobs.RunnerOptions{}, nil)
	processed, err := runner.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(1, processed)

	dto := s.stored(orderID, engagement.PhaseEngage)
	s.Equal(string(engagement.StateFailed), dto.State)
	s.Equal(1, dto.Attempts)
	s.Contains(dto.LastError, commands.ErrOrderNotFound.Error())

	s.clock = s.start.Add(time.Hour)
	processed, err = runner.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Zero(processed)
	s.engage.AssertNumberOfCalls(s.T(), "Handle", 1)
}

func (s *EngagementJobRunnerTestSuite) TestRunOnce_TransientErrorIsRetriedWithBackoff() {
	orderID := s.schedule(engagement.PhaseEngage, s.start)
	s.engage.On("Handle", mock.Anything, engageFor(orderID)).Return(errors.New("database is locked"))

	runner := s.newRunner(jobs.RunnerOptions{MaxAttempts: 2, Backoff: 10 * time.Second}, nil)

	processed, err := runner.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(1, processed)

	dto := s.stored(orderID, engagement.PhaseEngage)
	s.Equal(string(engagement.StatePending), dto.State)
	s.Equal(1, dto.Attempts)
	s.Equal("database is locked", dto.LastError)
	s.True(dto.RunAt.Equal(s.start.Add(10*time.Second)), "run_at %s", dto.RunAt)

	s.clock = s.start.Add(5 * time.Second)
	processed, err = runner.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Zero(processed)

	s.clock = s.start.Add(10 * time.Second)
	processed, err = runner.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(1, processed)

	dto = s.stored(orderID, engagement.PhaseEngage)
	s.Equal(string(engagement.StateFailed), dto.State)
	s.Equal(2, dto.Attempts)
	s.engage.AssertNumberOfCalls(s.T(), "Handle", 2)
}

func (s *EngagementJobRunnerTestSuite) TestRunOnce_RecordsMetrics() {
	orderID := s.schedule(engagement.PhaseEngage, s.start.Add(-2*time.Second))
	s.engage.On("Handle", mock.Anything, engageFor(orderID)).Return(nil).Once()

	reg := prometheus.NewRegistry()
	_, err := s.newRunner(jobs.RunnerOptions{}, metrics.NewEngagementJobMetrics(reg)).RunOnce(context.Background())
	s.Require().NoError(err)

	mfs, err := reg.Gather()
	s.Require().NoError(err)

	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	s.True(names["engagement_jobs_total"])
	s.True(names["engagement_job_duration_seconds"])
	s.True(names["engagement_job_lag_seconds"])
}

func (s *EngagementJobRunnerTestSuite) TestStart_InvalidSchedule() {
	runner := s.newRunner(jobs.RunnerOptions{Schedule: "every now and then"}, nil)
	s.Require().Error(runner.Start())
}

func (s *EngagementJobRunnerTestSuite) TestJobManager_StartAndStop() {
	manager := jobs.NewJobManager(s.newRunner(jobs.RunnerOptions{Schedule: "0 0 0 1 1 *"}, nil))

	s.Require().NoError(manager.StartAll())
	manager.StopAll()
}
