package jobrepo

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/engagement"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository implements ports.EngagementJobRepository using GORM.
type GormJobRepository struct {
	db *gorm.DB
}

func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Schedule inserts the job unless one already exists for the same order and phase.
func (r *GormJobRepository) Schedule(ctx context.Context, job *engagement.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dto := fromDomain(job)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "phase"}},
			DoNothing: true,
		}).
		Create(&dto).Error
}

// ClaimDue selects due pending jobs with FOR UPDATE SKIP LOCKED on PostgreSQL.
// SQLite has no row locks and serialises writers instead.
func (r *GormJobRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*engagement.Job, error) {
	if limit <= 0 {
		return []*engagement.Job{}, nil
	}

	var dtos []JobDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("state = ? AND run_at <= ?", string(engagement.StatePending), now.UTC()).
		Order("run_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	jobs := make([]*engagement.Job, 0, len(dtos))
	for _, dto := range dtos {
		job, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// Update writes the mutable columns of a job.
func (r *GormJobRepository) Update(ctx context.Context, job *engagement.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	dto := fromDomain(job)
	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ?", dto.ID).
		Select("run_at", "attempts", "state", "last_error", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
