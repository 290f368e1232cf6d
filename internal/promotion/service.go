package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/catalog"
)

const dateLayout = "2006-01-02"

// BusinessLookup resolves the listing an offer belongs to.
type BusinessLookup interface {
	Get(ctx context.Context, id uint, includeInactive bool) (*business.Business, error)
}

type ReferenceChecker interface {
	ReferenceExists(ctx context.Context, kind string, id uint) (bool, error)
}

type Service struct {
	Repo       *Repository
	Businesses BusinessLookup
	Refs       ReferenceChecker
	AuditSvc   auditlog.Service
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(r *Repository, businesses BusinessLookup, refs ReferenceChecker, auditSvc auditlog.Service, log zerolog.Logger) *Service {
	return &Service{
		Repo:       r,
		Businesses: businesses,
		Refs:       refs,
		AuditSvc:   auditSvc,
		log:        log.With().Str("component", "promotion").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// parseWindow turns two dates into [start of first day, end of last day].
func parseWindow(starts, ends string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(starts))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid starts_at, use YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(ends))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid ends_at, use YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.Validation("ends_at is before starts_at")
	}
	return start, end.Add(24*time.Hour - time.Nanosecond), nil
}

// ===========================
// Offers

func (s *Service) CreateOffer(ctx context.Context, req CreateOfferRequest, actor, ip string) (*Offer, error) {
	if req.DiscountPercent < 1 || req.DiscountPercent > 100 {
		return nil, apperr.Validation("discount_percent must be between 1 and 100")
	}
	start, end, err := parseWindow(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}
	if _, err := s.Businesses.Get(ctx, req.BusinessID, true); err != nil {
		return nil, err
	}

	offer := &Offer{
		BusinessID:      req.BusinessID,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		DiscountPercent: req.DiscountPercent,
		StartsAt:        start,
		EndsAt:          end,
		IsActive:        true,
		CreatedBy:       actor,
	}
	if offer.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if err := s.Repo.CreateOffer(ctx, offer); err != nil {
		_ = s.AuditSvc.LogAction(ctx, actor, "offer", nil, "OFFER_CREATED",
			map[string]interface{}{"business_id": req.BusinessID, "error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, apperr.Store("create offer", err)
	}

	_ = s.AuditSvc.LogAction(ctx, actor, "offer", &offer.ID, "OFFER_CREATED",
		map[string]interface{}{"business_id": offer.BusinessID, "title": offer.Title}, ip, auditlog.StatusSuccess)
	return offer, nil
}

// ActiveOffers lists the offers of an active business that are running now.
func (s *Service) ActiveOffers(ctx context.Context, businessID uint) ([]Offer, error) {
	if _, err := s.Businesses.Get(ctx, businessID, false); err != nil {
		return nil, err
	}
	offers, err := s.Repo.ActiveOffers(ctx, businessID, s.now())
	if err != nil {
		return nil, apperr.Store("list offers", err)
	}
	if offers == nil {
		offers = []Offer{}
	}
	return offers, nil
}

func (s *Service) DeactivateOffer(ctx context.Context, id uint, actor, ip string) error {
	if err := s.Repo.DeactivateOffer(ctx, id); err != nil {
		return apperr.Store("deactivate offer", err)
	}
	_ = s.AuditSvc.LogAction(ctx, actor, "offer", &id, "OFFER_DEACTIVATED", nil, ip, auditlog.StatusSuccess)
	return nil
}

// ===========================
// Ads

func (s *Service) CreateAd(ctx context.Context, req CreateAdRequest, actor, ip string) (*Ad, error) {
	placement := strings.TrimSpace(req.Placement)
	if !IsValidPlacement(placement) {
		return nil, apperr.Validation("unknown placement %q", placement)
	}
	start, end, err := parseWindow(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}
	for _, ref := range []struct {
		kind string
		id   *uint
	}{{catalog.RefMedia, req.ImageID}, {catalog.RefZone, req.ZoneID}} {
		if ref.id == nil {
			continue
		}
		ok, err := s.Refs.ReferenceExists(ctx, ref.kind, *ref.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.Validation("%s %d does not exist", ref.kind, *ref.id)
		}
	}

	ad := &Ad{
		Title:     strings.TrimSpace(req.Title),
		ImageID:   req.ImageID,
		TargetURL: strings.TrimSpace(req.TargetURL),
		Placement: placement,
		ZoneID:    req.ZoneID,
		StartsAt:  start,
		EndsAt:    end,
		IsActive:  true,
		CreatedBy: actor,
	}
	if err := s.Repo.CreateAd(ctx, ad); err != nil {
		return nil, apperr.Store("create ad", err)
	}

	_ = s.AuditSvc.LogAction(ctx, actor, "ad", &ad.ID, "AD_CREATED",
		map[string]interface{}{"title": ad.Title, "placement": ad.Placement}, ip, auditlog.StatusSuccess)
	s.log.Info().Uint("ad_id", ad.ID).Str("placement", ad.Placement).Msg("ad created")
	return ad, nil
}

func (s *Service) ActiveAds(ctx context.Context, placement string, zoneID *uint) ([]Ad, error) {
	if !IsValidPlacement(placement) {
		return nil, apperr.Validation("unknown placement %q", placement)
	}
	ads, err := s.Repo.ActiveAds(ctx, placement, zoneID, s.now())
	if err != nil {
		return nil, apperr.Store("list ads", err)
	}
	if ads == nil {
		ads = []Ad{}
	}
	return ads, nil
}

func (s *Service) DeactivateAd(ctx context.Context, id uint, actor, ip string) error {
	if err := s.Repo.DeactivateAd(ctx, id); err != nil {
		return apperr.Store("deactivate ad", err)
	}
	_ = s.AuditSvc.LogAction(ctx, actor, "ad", &id, "AD_DEACTIVATED", nil, ip, auditlog.StatusSuccess)
	return nil
}
