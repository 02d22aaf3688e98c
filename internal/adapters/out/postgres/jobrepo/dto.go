// Package jobrepo stores engagement jobs, the durable timers that drive the
// engage and release phases of every order.
package jobrepo

import (
	"time"

	"fooddispatch/internal/core/domain/model/engagement"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO is the row stored in the engagement_jobs table.
type JobDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_engagement_jobs_order_phase"`
	Phase     string    `gorm:"type:varchar(16);not null;uniqueIndex:ux_engagement_jobs_order_phase"`
	RunAt     time.Time `gorm:"not null;index:ix_engagement_jobs_due,priority:2"`
	Attempts  int       `gorm:"not null;default:0"`
	State     string    `gorm:"type:varchar(16);not null;index:ix_engagement_jobs_due,priority:1"`
	LastError string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (JobDTO) TableName() string {
	return "engagement_jobs"
}

func fromDomain(j *engagement.Job) JobDTO {
	return JobDTO{
		ID:        j.ID().Raw(),
		OrderID:   j.OrderID().Raw(),
		Phase:     j.Phase().String(),
		RunAt:     j.RunAt().UTC(),
		Attempts:  j.Attempts(),
		State:     string(j.State()),
		LastError: j.LastError(),
		CreatedAt: j.CreatedAt().UTC(),
		UpdatedAt: j.UpdatedAt().UTC(),
	}
}

func toDomain(dto JobDTO) (*engagement.Job, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromRaw(dto.OrderID)
	if err != nil {
		return nil, err
	}

	return engagement.RestoreJob(engagement.Snapshot{
		ID:        id,
		OrderID:   orderID,
		Phase:     engagement.Phase(dto.Phase),
		RunAt:     dto.RunAt,
		Attempts:  dto.Attempts,
		State:     engagement.State(dto.State),
		LastError: dto.LastError,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	})
}
