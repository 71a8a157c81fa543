package queue

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// FailedStore persists failed jobs.
type FailedStore interface {
	Save(ctx context.Context, f FailedJob) error
}

// FailedJobRecord is a row of bazar_failed_jobs.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"not null"`
}

func (FailedJobRecord) TableName() string { return "bazar_failed_jobs" }

// DBStore writes failed jobs through gorm. The table is created by the
// migrations.
type DBStore struct {
	DB *gorm.DB
}

func (s DBStore) Save(ctx context.Context, f FailedJob) error {
	rec := FailedJobRecord{
		JobType:  f.Type,
		Payload:  string(f.Payload),
		Attempts: f.Attempts,
		FailedAt: f.FailedAt,
	}
	if f.Err != nil {
		rec.Error = f.Err.Error()
	}
	return s.DB.WithContext(ctx).Create(&rec).Error
}
