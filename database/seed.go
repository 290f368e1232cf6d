package database

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sharath018/business-directory-backend/config"
	"github.com/sharath018/business-directory-backend/internal/auth"
	"github.com/sharath018/business-directory-backend/internal/catalog"
)

var defaultCategories = []catalog.Category{
	{Name: "Restaurants", Slug: "restaurants", Icon: "utensils", Description: "Places to eat"},
	{Name: "Grocery", Slug: "grocery", Icon: "shopping-basket", Description: "Supermarkets and local stores"},
	{Name: "Health", Slug: "health", Icon: "heart-pulse", Description: "Clinics, pharmacies and wellness"},
	{Name: "Services", Slug: "services", Icon: "wrench", Description: "Repairs, cleaning and home services"},
	{Name: "Shopping", Slug: "shopping", Icon: "bag-shopping", Description: "Clothing, electronics and gifts"},
}

var defaultZones = []catalog.Zone{
	{Name: "Downtown", Slug: "downtown", Description: "City centre"},
	{Name: "North", Slug: "north"},
	{Name: "South", Slug: "south"},
	{Name: "East", Slug: "east"},
	{Name: "West", Slug: "west"},
}

func defaultPlans() []catalog.BusinessPlan {
	return []catalog.BusinessPlan{
		{Name: "Free", Slug: "free", Price: 0, Currency: "INR", DurationDays: 365, IsActive: true,
			Features: datatypes.JSON(`["Basic listing"]`)},
		{Name: "Standard", Slug: "standard", Price: 49900, Currency: "INR", DurationDays: 30, IsActive: true,
			Features: datatypes.JSON(`["Basic listing","Offers","Logo"]`)},
		{Name: "Premium", Slug: "premium", Price: 149900, Currency: "INR", DurationDays: 30, IsActive: true,
			Features: datatypes.JSON(`["Basic listing","Offers","Logo","Featured placement","Ads"]`)},
	}
}

// Seed inserts roles, the super admin and the default catalog. Existing rows,
// matched by slug, are left as they are.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := auth.SeedUserRoles(db); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := auth.SeedSuperAdminUser(db, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}

	bySlug := clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}
	categories := append([]catalog.Category(nil), defaultCategories...)
	if err := db.Clauses(bySlug).Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	zones := append([]catalog.Zone(nil), defaultZones...)
	if err := db.Clauses(bySlug).Create(&zones).Error; err != nil {
		return fmt.Errorf("seed zones: %w", err)
	}
	plans := defaultPlans()
	if err := db.Clauses(bySlug).Create(&plans).Error; err != nil {
		return fmt.Errorf("seed plans: %w", err)
	}
	return nil
}
