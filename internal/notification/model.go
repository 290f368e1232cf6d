package notification

import (
	"time"
)

const (
	ChannelEmail  = "email"
	ChannelPush   = "push"
	ChannelStream = "stream"
)

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// NotificationLog records each message dispatched for a submission event.
type NotificationLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      string    `gorm:"size:64;index" json:"event_id"`
	EventType    string    `gorm:"size:40;not null" json:"event_type"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Channel      string    `gorm:"size:20;not null" json:"channel"`
	Recipient    string    `gorm:"size:255" json:"recipient"`
	Subject      string    `gorm:"size:255" json:"subject,omitempty"`
	Body         string    `gorm:"type:text" json:"body"`
	Status       string    `gorm:"size:20;not null" json:"status"`
	Error        *string   `json:"error,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AdminMessage is the payload pushed to the admin stream.
type AdminMessage struct {
	Type         string    `json:"type"`
	SubmissionID uint      `json:"submission_id"`
	BusinessID   *uint     `json:"business_id,omitempty"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

type LogFilter struct {
	SubmissionID *uint
	Channel      string
	Limit        int
}
