package business

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, b *Business) error
	FindByID(ctx context.Context, id uint) (*Business, error)
	FindBySubmissionID(ctx context.Context, submissionID uint) (*Business, error)
	List(ctx context.Context, f Filter) ([]Business, int64, error)
	UpdateColumns(ctx context.Context, id uint, cols map[string]interface{}) error
	SetPlan(ctx context.Context, id, planID uint, expiresAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db, which may be a transaction.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Zone").
		Preload("Plan").
		Preload("MainImage")
}

func (r *repository) Create(ctx context.Context, b *Business) error {
	// Relations are referenced by id only; never upsert catalog rows from here.
	return r.db.WithContext(ctx).Omit("Category", "Zone", "Plan", "MainImage").Create(b).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Business, error) {
	var b Business
	if err := r.withRelations(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// FindBySubmissionID returns (nil, nil) when no listing was created from the
// submission.
func (r *repository) FindBySubmissionID(ctx context.Context, submissionID uint) (*Business, error) {
	var b Business
	err := r.withRelations(ctx).Where("source_submission_id = ?", submissionID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Business, int64, error) {
	var out []Business
	var total int64

	q := r.db.WithContext(ctx).Model(&Business{})

	if !f.IncludeInactive {
		q = q.Where("businesses.is_active = ?", true)
	}
	if f.ZoneID != nil {
		q = q.Where("businesses.zone_id = ?", *f.ZoneID)
	}
	if f.ZoneSlug != "" {
		q = q.Where("businesses.zone_id IN (?)", r.db.Table("zones").Select("id").Where("slug = ?", f.ZoneSlug))
	}
	if f.CategoryID != nil {
		q = q.Where("businesses.category_id = ?", *f.CategoryID)
	}
	if f.CategorySlug != "" {
		q = q.Where("businesses.category_id IN (?)", r.db.Table("categories").Select("id").Where("slug = ?", f.CategorySlug))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(businesses.name) LIKE ? OR LOWER(businesses.description) LIKE ? OR LOWER(businesses.address) LIKE ?", like, like, like)
	}
	if f.Featured != nil {
		q = q.Where("businesses.featured = ?", *f.Featured)
	}
	if f.SupportsDelivery != nil {
		q = q.Where("businesses.supports_delivery = ?", *f.SupportsDelivery)
	}

	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Category").Preload("Zone").Preload("MainImage").
		Order("businesses.featured DESC, businesses.name ASC, businesses.id ASC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) UpdateColumns(ctx context.Context, id uint, cols map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Business{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetPlan(ctx context.Context, id, planID uint, expiresAt time.Time) error {
	return r.UpdateColumns(ctx, id, map[string]interface{}{
		"plan_id":         planID,
		"plan_expires_at": expiresAt,
	})
}
