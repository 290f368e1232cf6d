package business

import (
	"time"

	"github.com/sharath018/business-directory-backend/internal/catalog"
)

// Business is a live directory listing. Listings created by the approval
// workflow carry the id of the submission they came from; the unique index on
// that column keeps one listing per submission.
type Business struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	Name             string  `gorm:"size:200;not null;index" json:"name"`
	Description      string  `gorm:"type:text" json:"description"`
	Email            string  `gorm:"size:200" json:"email"`
	Phone            string  `gorm:"size:50" json:"phone"`
	Website          string  `gorm:"size:300" json:"website"`
	Address          string  `gorm:"type:text" json:"address"`
	IsActive         bool    `gorm:"not null;index" json:"is_active"`
	IsVerified       bool    `gorm:"not null" json:"is_verified"`
	Featured         bool    `gorm:"not null;index" json:"featured"`
	SupportsDelivery bool    `gorm:"not null" json:"supports_delivery"`
	DeliveryFee      float64 `gorm:"not null" json:"delivery_fee"`

	CategoryID  *uint `gorm:"index" json:"category_id"`
	ZoneID      *uint `gorm:"index" json:"zone_id"`
	PlanID      *uint `gorm:"index" json:"plan_id"`
	MainImageID *uint `json:"main_image_id"`

	Category  *catalog.Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Zone      *catalog.Zone         `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
	Plan      *catalog.BusinessPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	MainImage *catalog.Media        `gorm:"foreignKey:MainImageID" json:"main_image,omitempty"`

	SourceSubmissionID *uint      `gorm:"uniqueIndex" json:"source_submission_id,omitempty"`
	PlanExpiresAt      *time.Time `json:"plan_expires_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Business) TableName() string { return "businesses" }

type Filter struct {
	ZoneID           *uint
	ZoneSlug         string
	CategoryID       *uint
	CategorySlug     string
	Search           string
	Featured         *bool
	SupportsDelivery *bool
	IncludeInactive  bool
	Page             int
	Limit            int
}

type Page struct {
	Data       []Business `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// FlagsUpdate carries the operational fields an admin may change. Nil
// fields are left untouched.
type FlagsUpdate struct {
	IsActive         *bool    `json:"is_active"`
	IsVerified       *bool    `json:"is_verified"`
	Featured         *bool    `json:"featured"`
	SupportsDelivery *bool    `json:"supports_delivery"`
	DeliveryFee      *float64 `json:"delivery_fee" binding:"omitempty,gte=0"`
}

func (u FlagsUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.IsActive != nil {
		cols["is_active"] = *u.IsActive
	}
	if u.IsVerified != nil {
		cols["is_verified"] = *u.IsVerified
	}
	if u.Featured != nil {
		cols["featured"] = *u.Featured
	}
	if u.SupportsDelivery != nil {
		cols["supports_delivery"] = *u.SupportsDelivery
	}
	if u.DeliveryFee != nil {
		cols["delivery_fee"] = *u.DeliveryFee
	}
	return cols
}
