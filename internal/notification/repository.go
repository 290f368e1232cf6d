package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateLog(ctx context.Context, log *NotificationLog) error
	ListLogs(ctx context.Context, f LogFilter) ([]NotificationLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateLog(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListLogs(ctx context.Context, f LogFilter) ([]NotificationLog, error) {
	q := r.db.WithContext(ctx).Model(&NotificationLog{})
	if f.SubmissionID != nil {
		q = q.Where("submission_id = ?", *f.SubmissionID)
	}
	if f.Channel != "" {
		q = q.Where("channel = ?", f.Channel)
	}

	var logs []NotificationLog
	err := q.Order("created_at DESC, id DESC").Limit(f.Limit).Find(&logs).Error
	return logs, err
}
