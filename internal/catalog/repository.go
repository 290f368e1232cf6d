package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	SaveCategory(ctx context.Context, c *Category) error
	FindCategory(ctx context.Context, id uint) (*Category, error)

	ListZones(ctx context.Context) ([]Zone, error)
	CreateZone(ctx context.Context, z *Zone) error
	SaveZone(ctx context.Context, z *Zone) error
	FindZone(ctx context.Context, id uint) (*Zone, error)

	ListPlans(ctx context.Context, activeOnly bool) ([]BusinessPlan, error)
	CreatePlan(ctx context.Context, p *BusinessPlan) error
	SavePlan(ctx context.Context, p *BusinessPlan) error
	FindPlan(ctx context.Context, id uint) (*BusinessPlan, error)

	CreateMedia(ctx context.Context, m *Media) error
	FindMedia(ctx context.Context, id uint) (*Media, error)

	Exists(ctx context.Context, kind string, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ---- categories ----

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) CreateCategory(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) SaveCategory(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) FindCategory(ctx context.Context, id uint) (*Category, error) {
	var c Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ---- zones ----

func (r *repository) ListZones(ctx context.Context) ([]Zone, error) {
	var out []Zone
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) CreateZone(ctx context.Context, z *Zone) error {
	return r.db.WithContext(ctx).Create(z).Error
}

func (r *repository) SaveZone(ctx context.Context, z *Zone) error {
	return r.db.WithContext(ctx).Save(z).Error
}

func (r *repository) FindZone(ctx context.Context, id uint) (*Zone, error) {
	var z Zone
	if err := r.db.WithContext(ctx).First(&z, id).Error; err != nil {
		return nil, err
	}
	return &z, nil
}

// ---- plans ----

func (r *repository) ListPlans(ctx context.Context, activeOnly bool) ([]BusinessPlan, error) {
	var out []BusinessPlan
	q := r.db.WithContext(ctx).Order("price ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *repository) CreatePlan(ctx context.Context, p *BusinessPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) SavePlan(ctx context.Context, p *BusinessPlan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) FindPlan(ctx context.Context, id uint) (*BusinessPlan, error) {
	var p BusinessPlan
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ---- media ----

func (r *repository) CreateMedia(ctx context.Context, m *Media) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) FindMedia(ctx context.Context, id uint) (*Media, error) {
	var m Media
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) Exists(ctx context.Context, kind string, id uint) (bool, error) {
	var model interface{}
	switch kind {
	case RefCategory:
		model = &Category{}
	case RefZone:
		model = &Zone{}
	case RefPlan:
		model = &BusinessPlan{}
	case RefMedia:
		model = &Media{}
	default:
		return false, fmt.Errorf("unknown reference kind %q", kind)
	}

	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
