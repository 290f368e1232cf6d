package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor      string         `gorm:"size:150;not null;index" json:"actor"`
	EntityType string         `gorm:"size:50;index:idx_audit_entity" json:"entity_type"` // submission, business, plan...
	EntityID   *uint          `gorm:"index:idx_audit_entity" json:"entity_id"`
	Action     string         `gorm:"size:100;not null;index" json:"action"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `gorm:"size:45" json:"ip_address"`
	Status     string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	Actor      string
	EntityType string
	EntityID   *uint
	Action     string
	Status     string
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	Limit      int
}

type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

type ActionCount struct {
	Action string `json:"action"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
