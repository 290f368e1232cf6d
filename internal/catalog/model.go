package catalog

import (
	"time"

	"gorm.io/datatypes"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Slug        string    `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	Icon        string    `gorm:"size:255" json:"icon"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

type Zone struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Slug        string    `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Zone) TableName() string { return "zones" }

// BusinessPlan is a listing tier. Price is in the smallest currency unit
// (paise for INR) so checkout can pass it to Razorpay unchanged.
type BusinessPlan struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:120;not null" json:"name"`
	Slug         string         `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	Price        int64          `gorm:"not null" json:"price"`
	Currency     string         `gorm:"size:3;not null" json:"currency"`
	DurationDays int            `gorm:"not null" json:"duration_days"`
	Features     datatypes.JSON `json:"features"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BusinessPlan) TableName() string { return "business_plans" }

// Media is an uploaded image, used for submission logos and business images.
type Media struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	URL          string    `gorm:"size:500;not null" json:"url"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Media) TableName() string { return "media" }

// Reference kinds accepted by ReferenceExists.
const (
	RefCategory = "category"
	RefZone     = "zone"
	RefPlan     = "business_plan"
	RefMedia    = "media"
)

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type ZoneInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type PlanInput struct {
	Name         string   `json:"name" binding:"required"`
	Slug         string   `json:"slug"`
	Price        int64    `json:"price" binding:"gte=0"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration_days" binding:"gte=0"`
	Features     []string `json:"features"`
	IsActive     *bool    `json:"is_active"`
}
