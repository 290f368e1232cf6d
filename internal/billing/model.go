package billing

import "time"

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// PlanPayment is one checkout of a paid plan for a business. Amount is in
// the smallest currency unit (paise for INR).
type PlanPayment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BusinessID uint       `gorm:"not null;index" json:"business_id"`
	PlanID     uint       `gorm:"not null" json:"plan_id"`
	Amount     int64      `gorm:"not null" json:"amount"`
	Currency   string     `gorm:"size:3;not null" json:"currency"`
	OrderID    string     `gorm:"size:64;not null;uniqueIndex" json:"order_id"`
	PaymentID  *string    `gorm:"size:64" json:"payment_id,omitempty"`
	Method     string     `gorm:"size:30" json:"method"`
	Status     string     `gorm:"size:20;not null;index" json:"status"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type CheckoutRequest struct {
	BusinessID uint   `json:"business_id" binding:"required"`
	PlanID     uint   `json:"plan_id" binding:"required"`
	IPAddress  string `json:"-"`
}

// CheckoutResponse carries what the client-side Razorpay SDK needs.
type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	RazorpayKey string `json:"razorpay_key"`
	PlanName    string `json:"plan_name"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	IPAddress string `json:"-"`
}
