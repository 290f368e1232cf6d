package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/submission"
)

type Repository interface {
	Submissions(ctx context.Context, req Request) ([]SubmissionRow, error)
	Businesses(ctx context.Context, req Request) ([]BusinessRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func withinDates(q *gorm.DB, column string, start, end time.Time) *gorm.DB {
	if !start.IsZero() {
		q = q.Where(column+" >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where(column+" <= ?", end)
	}
	return q
}

func (r *repository) Submissions(ctx context.Context, req Request) ([]SubmissionRow, error) {
	var rows []SubmissionRow
	q := r.db.WithContext(ctx).
		Table(submission.PendingBusinessSubmission{}.TableName() + " AS s").
		Select(`s.id, s.name, s.email, s.phone, COALESCE(c.name, '') AS category_name, COALESCE(z.name, '') AS zone_name,
			s.status, s.submitted_at, s.reviewed_at, s.reviewed_by, s.rejection_reason`).
		Joins("LEFT JOIN categories c ON c.id = s.category_id").
		Joins("LEFT JOIN zones z ON z.id = s.zone_id")
	if req.Status != "" {
		q = q.Where("s.status = ?", req.Status)
	}
	q = withinDates(q, "s.submitted_at", req.Start, req.End)
	err := q.Order("s.submitted_at DESC, s.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *repository) Businesses(ctx context.Context, req Request) ([]BusinessRow, error) {
	var rows []BusinessRow
	q := r.db.WithContext(ctx).
		Table(business.Business{}.TableName() + " AS b").
		Select(`b.id, b.name, b.email, b.phone, COALESCE(c.name, '') AS category_name, COALESCE(z.name, '') AS zone_name,
			COALESCE(p.name, '') AS plan_name, b.plan_expires_at, b.is_active, b.is_verified, b.featured, b.created_at`).
		Joins("LEFT JOIN categories c ON c.id = b.category_id").
		Joins("LEFT JOIN zones z ON z.id = b.zone_id").
		Joins("LEFT JOIN business_plans p ON p.id = b.plan_id")
	switch req.Status {
	case "active":
		q = q.Where("b.is_active = ?", true)
	case "inactive":
		q = q.Where("b.is_active = ?", false)
	}
	q = withinDates(q, "b.created_at", req.Start, req.End)
	err := q.Order("b.created_at DESC, b.id DESC").Scan(&rows).Error
	return rows, err
}
