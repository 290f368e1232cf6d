package promotion

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreateOffer(ctx context.Context, o *Offer) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

// ActiveOffers returns the business's offers running at now, soonest ending first.
func (r *Repository) ActiveOffers(ctx context.Context, businessID uint, now time.Time) ([]Offer, error) {
	var offers []Offer
	err := r.DB.WithContext(ctx).
		Where("business_id = ? AND is_active = ? AND starts_at <= ? AND ends_at >= ?", businessID, true, now, now).
		Order("ends_at ASC, id ASC").
		Find(&offers).Error
	return offers, err
}

func (r *Repository) DeactivateOffer(ctx context.Context, id uint) error {
	return r.deactivate(ctx, &Offer{}, id)
}

func (r *Repository) CreateAd(ctx context.Context, a *Ad) error {
	return r.DB.WithContext(ctx).Omit("Image").Create(a).Error
}

// ActiveAds returns ads running at now in placement. With a zone, ads for
// that zone and ads without a zone are both returned, zone-specific first.
func (r *Repository) ActiveAds(ctx context.Context, placement string, zoneID *uint, now time.Time) ([]Ad, error) {
	q := r.DB.WithContext(ctx).
		Preload("Image").
		Where("placement = ? AND is_active = ? AND starts_at <= ? AND ends_at >= ?", placement, true, now, now)
	if zoneID != nil {
		q = q.Where("zone_id = ? OR zone_id IS NULL", *zoneID).
			Order("CASE WHEN zone_id IS NULL THEN 1 ELSE 0 END")
	} else {
		q = q.Where("zone_id IS NULL")
	}

	var ads []Ad
	err := q.Order("starts_at DESC, id DESC").Find(&ads).Error
	return ads, err
}

func (r *Repository) DeactivateAd(ctx context.Context, id uint) error {
	return r.deactivate(ctx, &Ad{}, id)
}

func (r *Repository) deactivate(ctx context.Context, model interface{}, id uint) error {
	res := r.DB.WithContext(ctx).Model(model).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
