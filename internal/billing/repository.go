package billing

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, p *PlanPayment) error
	GetByOrderID(ctx context.Context, orderID string) (*PlanPayment, error)
	UpdatePayment(ctx context.Context, orderID string, cols map[string]interface{}) error
	ListByBusiness(ctx context.Context, businessID uint) ([]PlanPayment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *PlanPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*PlanPayment, error) {
	var p PlanPayment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdatePayment(ctx context.Context, orderID string, cols map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&PlanPayment{}).Where("order_id = ?", orderID).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListByBusiness(ctx context.Context, businessID uint) ([]PlanPayment, error) {
	var out []PlanPayment
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
