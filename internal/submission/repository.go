package submission

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/sharath018/business-directory-backend/internal/business"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds the store to db, which may be a transaction.
func NewRepository(db *gorm.DB) SubmissionStore {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *PendingBusinessSubmission) error {
	return r.db.WithContext(ctx).Omit("Category", "Zone", "BusinessPlan", "Logo").Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id uint, withRelations bool) (*PendingBusinessSubmission, error) {
	q := r.db.WithContext(ctx)
	if withRelations {
		q = q.Preload("Category").Preload("Zone").Preload("BusinessPlan").Preload("Logo")
	}
	var s PendingBusinessSubmission
	if err := q.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, id uint, updates *FieldUpdates) error {
	cols := updates.Columns()
	if len(cols) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&PendingBusinessSubmission{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uint, from string, t Transition) (bool, error) {
	cols := map[string]interface{}{
		"status":      t.To,
		"reviewed_at": t.ReviewedAt,
		"reviewed_by": t.ReviewedBy,
	}
	if t.RejectionReason != "" {
		cols["rejection_reason"] = t.RejectionReason
	}

	res := r.db.WithContext(ctx).
		Model(&PendingBusinessSubmission{}).
		Where("id = ? AND status = ?", id, from).
		Updates(cols)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]PendingBusinessSubmission, int64, error) {
	var out []PendingBusinessSubmission
	var total int64

	q := r.db.WithContext(ctx).Model(&PendingBusinessSubmission{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Category").Preload("Zone").
		Order("submitted_at DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&PendingBusinessSubmission{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(subs SubmissionStore, biz BusinessStore) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx), business.NewRepository(tx))
	})
}
