package submission

import (
	"strings"
	"time"

	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/catalog"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PendingBusinessSubmission is an application to be listed. Approved and
// rejected are terminal; ReviewedAt is nil exactly while the status is
// pending.
type PendingBusinessSubmission struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	Name               string `gorm:"size:200;not null" json:"name"`
	Description        string `gorm:"type:text" json:"description"`
	Email              string `gorm:"size:200;not null" json:"email"`
	Phone              string `gorm:"size:50;not null" json:"phone"`
	Website            string `gorm:"size:300" json:"website"`
	Address            string `gorm:"type:text;not null" json:"address"`
	CustomCategoryName string `gorm:"size:120" json:"custom_category_name"`

	CategoryID     *uint `gorm:"index" json:"category_id"`
	ZoneID         *uint `gorm:"index" json:"zone_id"`
	BusinessPlanID *uint `json:"business_plan_id"`
	LogoID         *uint `json:"logo_id"`

	Category     *catalog.Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Zone         *catalog.Zone         `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
	BusinessPlan *catalog.BusinessPlan `gorm:"foreignKey:BusinessPlanID" json:"business_plan,omitempty"`
	Logo         *catalog.Media        `gorm:"foreignKey:LogoID" json:"logo,omitempty"`

	Status          string     `gorm:"size:20;not null;index" json:"status"`
	SubmittedAt     time.Time  `gorm:"not null;index" json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewedBy      string     `gorm:"size:150" json:"reviewed_by,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PendingBusinessSubmission) TableName() string { return "pending_business_submissions" }

func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// SubmitInput is the public application form.
type SubmitInput struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone" binding:"required"`
	Website            string `json:"website"`
	Address            string `json:"address" binding:"required"`
	CustomCategoryName string `json:"custom_category_name"`
	CategoryID         *uint  `json:"category_id"`
	ZoneID             *uint  `json:"zone_id"`
	BusinessPlanID     *uint  `json:"business_plan_id"`
	LogoID             *uint  `json:"logo_id"`
	IP                 string `json:"-"`
}

// FieldUpdates holds edits an admin makes while reviewing. Nil fields are
// left untouched. A relation id of 0 clears the relation.
type FieldUpdates struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Website            *string `json:"website"`
	Address            *string `json:"address"`
	CustomCategoryName *string `json:"custom_category_name"`
	CategoryID         *uint   `json:"category_id"`
	ZoneID             *uint   `json:"zone_id"`
	BusinessPlanID     *uint   `json:"business_plan_id"`
	LogoID             *uint   `json:"logo_id"`
}

func (u *FieldUpdates) IsEmpty() bool {
	return u == nil || len(u.Columns()) == 0
}

// Columns maps the set fields to column values. String values are trimmed.
func (u *FieldUpdates) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u == nil {
		return cols
	}
	str := func(col string, v *string) {
		if v != nil {
			cols[col] = strings.TrimSpace(*v)
		}
	}
	ref := func(col string, v *uint) {
		if v == nil {
			return
		}
		if *v == 0 {
			cols[col] = nil
		} else {
			cols[col] = *v
		}
	}
	str("name", u.Name)
	str("description", u.Description)
	str("email", u.Email)
	str("phone", u.Phone)
	str("website", u.Website)
	str("address", u.Address)
	str("custom_category_name", u.CustomCategoryName)
	ref("category_id", u.CategoryID)
	ref("zone_id", u.ZoneID)
	ref("business_plan_id", u.BusinessPlanID)
	ref("logo_id", u.LogoID)
	return cols
}

// ApplyTo copies the set fields onto s. Relation objects whose id changed
// are dropped so they are never mistaken for the new reference.
func (u *FieldUpdates) ApplyTo(s *PendingBusinessSubmission) {
	if u == nil {
		return
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&s.Name, u.Name)
	set(&s.Description, u.Description)
	set(&s.Email, u.Email)
	set(&s.Phone, u.Phone)
	set(&s.Website, u.Website)
	set(&s.Address, u.Address)
	set(&s.CustomCategoryName, u.CustomCategoryName)

	if u.CategoryID != nil {
		s.CategoryID, s.Category = refOrNil(*u.CategoryID), nil
	}
	if u.ZoneID != nil {
		s.ZoneID, s.Zone = refOrNil(*u.ZoneID), nil
	}
	if u.BusinessPlanID != nil {
		s.BusinessPlanID, s.BusinessPlan = refOrNil(*u.BusinessPlanID), nil
	}
	if u.LogoID != nil {
		s.LogoID, s.Logo = refOrNil(*u.LogoID), nil
	}
}

func refOrNil(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

// StatusChange is a request to move a submission to Status. Updates, when
// present, are applied alongside the change.
type StatusChange struct {
	Status          string        `json:"status" binding:"required"`
	Actor           string        `json:"-"`
	RejectionReason string        `json:"rejection_reason"`
	Updates         *FieldUpdates `json:"updates"`
	IP              string        `json:"-"`
}

// ReviewInput is the body of the review endpoint.
type ReviewInput struct {
	Decision string `json:"decision" binding:"required"`
	Reason   string `json:"reason"`
}

type ReviewResult struct {
	Submission *PendingBusinessSubmission `json:"submission"`
	Business   *business.Business         `json:"business,omitempty"`
}

// Transition is the write half of a compare-and-swap on status.
type Transition struct {
	To              string
	ReviewedAt      time.Time
	ReviewedBy      string
	RejectionReason string
}

type Filter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

type Page struct {
	Data       []PendingBusinessSubmission `json:"data"`
	Total      int64                       `json:"total"`
	Page       int                         `json:"page"`
	Limit      int                         `json:"limit"`
	TotalPages int                         `json:"total_pages"`
}

type Counts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
