package auditlog

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Service interface {
	LogAction(ctx context.Context, actor string, entityType string, entityID *uint, action string, details map[string]interface{}, ip string, status string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error)
	GetStats(ctx context.Context, since time.Time) (map[string]interface{}, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction creates a new audit log entry
func (s *service) LogAction(ctx context.Context, actor string, entityType string, entityID *uint, action string, details map[string]interface{}, ip string, status string) error {
	if details == nil {
		details = make(map[string]interface{})
	}
	if actor == "" {
		actor = "system"
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return s.repo.Create(ctx, &AuditLog{
		Actor:      actor,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    detailsJSON,
		IPAddress:  ip,
		Status:     status,
	})
}

// GetAuditLogs retrieves paginated audit logs with filters
func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, apperr.Store("list audit logs", err)
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("find audit log", err)
	}
	return log, nil
}

func (s *service) GetStats(ctx context.Context, since time.Time) (map[string]interface{}, error) {
	rows, err := s.repo.CountByAction(ctx, since)
	if err != nil {
		return nil, apperr.Store("audit stats", err)
	}

	var total, success, failure int64
	breakdown := make(map[string]int64)
	for _, row := range rows {
		total += row.Count
		breakdown[row.Action] += row.Count
		if row.Status == StatusSuccess {
			success += row.Count
		} else {
			failure += row.Count
		}
	}

	return map[string]interface{}{
		"since":            since,
		"total":            total,
		"success_count":    success,
		"failure_count":    failure,
		"action_breakdown": breakdown,
	}, nil
}
