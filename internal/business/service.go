package business

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	repo  Repository
	audit auditlog.Service
	log   zerolog.Logger
}

func NewService(repo Repository, audit auditlog.Service, log zerolog.Logger) *Service {
	return &Service{repo: repo, audit: audit, log: log.With().Str("component", "business").Logger()}
}

func normalizePage(f *Filter) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

// List returns listings matching f, featured ones first.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	normalizePage(&f)
	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Store("list businesses", err)
	}
	if rows == nil {
		rows = []Business{}
	}
	return &Page{
		Data:       rows,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}, nil
}

// Get returns a listing with its relations. Inactive listings are hidden
// unless includeInactive is set.
func (s *Service) Get(ctx context.Context, id uint, includeInactive bool) (*Business, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("find business", err)
	}
	if !b.IsActive && !includeInactive {
		return nil, apperr.NotFound("business %d", id)
	}
	return b, nil
}

func (s *Service) UpdateFlags(ctx context.Context, id uint, in FlagsUpdate, actor, ip string) (*Business, error) {
	if in.DeliveryFee != nil && *in.DeliveryFee < 0 {
		return nil, apperr.Validation("delivery_fee must not be negative")
	}
	cols := in.columns()
	if len(cols) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	if err := s.repo.UpdateColumns(ctx, id, cols); err != nil {
		err = apperr.Store("update business", err)
		_ = s.audit.LogAction(ctx, actor, "business", &id, "BUSINESS_UPDATE_FAILED", map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, err
	}
	_ = s.audit.LogAction(ctx, actor, "business", &id, "BUSINESS_UPDATED", cols, ip, auditlog.StatusSuccess)
	s.log.Info().Uint("business_id", id).Str("actor", actor).Interface("changes", cols).Msg("business flags updated")

	return s.Get(ctx, id, true)
}
