package promotion

import (
	"time"

	"github.com/sharath018/business-directory-backend/internal/catalog"
)

// Ad placements shown by the web client.
const (
	PlacementHomeBanner = "home_banner"
	PlacementSidebar    = "listing_sidebar"
	PlacementZoneTop    = "zone_top"
)

func IsValidPlacement(p string) bool {
	switch p {
	case PlacementHomeBanner, PlacementSidebar, PlacementZoneTop:
		return true
	}
	return false
}

// Offer is a time-boxed discount run by a listed business.
type Offer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BusinessID      uint      `gorm:"not null;index" json:"business_id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	DiscountPercent int       `gorm:"not null" json:"discount_percent"`
	StartsAt        time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt          time.Time `gorm:"not null;index" json:"ends_at"`
	IsActive        bool      `gorm:"not null;index" json:"is_active"`
	CreatedBy       string    `gorm:"size:150" json:"created_by"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Ad is a banner shown in a placement, optionally only for one zone.
type Ad struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	ImageID   *uint          `json:"image_id"`
	Image     *catalog.Media `gorm:"foreignKey:ImageID" json:"image,omitempty"`
	TargetURL string         `gorm:"size:500" json:"target_url"`
	Placement string         `gorm:"size:40;not null;index" json:"placement"`
	ZoneID    *uint          `gorm:"index" json:"zone_id"`
	StartsAt  time.Time      `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time      `gorm:"not null" json:"ends_at"`
	IsActive  bool           `gorm:"not null;index" json:"is_active"`
	CreatedBy string         `gorm:"size:150" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// Dates are "2006-01-02"; the end date is inclusive.
type CreateOfferRequest struct {
	BusinessID      uint   `json:"business_id" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discount_percent" binding:"required,min=1,max=100"`
	StartsAt        string `json:"starts_at" binding:"required"`
	EndsAt          string `json:"ends_at" binding:"required"`
}

type CreateAdRequest struct {
	Title     string `json:"title" binding:"required"`
	ImageID   *uint  `json:"image_id"`
	TargetURL string `json:"target_url"`
	Placement string `json:"placement" binding:"required"`
	ZoneID    *uint  `json:"zone_id"`
	StartsAt  string `json:"starts_at" binding:"required"`
	EndsAt    string `json:"ends_at" binding:"required"`
}
