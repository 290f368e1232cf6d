package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/catalog"
)

type BusinessLookup interface {
	Get(ctx context.Context, id uint, includeInactive bool) (*business.Business, error)
}

type PlanLookup interface {
	GetPlan(ctx context.Context, id uint) (*catalog.BusinessPlan, error)
}

// PlanAssigner records the plan a business paid for.
type PlanAssigner interface {
	SetPlan(ctx context.Context, id, planID uint, expiresAt time.Time) error
}

type Service struct {
	repo       Repository
	gateway    Gateway
	businesses BusinessLookup
	plans      PlanLookup
	assigner   PlanAssigner
	audit      auditlog.Service
	key        string
	secret     string
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(repo Repository, gateway Gateway, businesses BusinessLookup, plans PlanLookup, assigner PlanAssigner,
	audit auditlog.Service, key, secret string, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		gateway:    gateway,
		businesses: businesses,
		plans:      plans,
		assigner:   assigner,
		audit:      audit,
		key:        key,
		secret:     secret,
		log:        log.With().Str("component", "billing").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// StartCheckout creates a gateway order for a paid plan and records a
// pending payment against the business.
func (s *Service) StartCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	if _, err := s.businesses.Get(ctx, req.BusinessID, false); err != nil {
		return nil, err
	}
	plan, err := s.plans.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, apperr.Validation("plan %d is not available", plan.ID)
	}
	if plan.Price <= 0 {
		return nil, apperr.Validation("plan %q is free and needs no checkout", plan.Name)
	}

	orderID, err := s.gateway.CreateOrder(plan.Price, plan.Currency, map[string]interface{}{
		"business_id": req.BusinessID,
		"plan_id":     plan.ID,
	})
	if err != nil {
		_ = s.audit.LogAction(ctx, "", "business", &req.BusinessID, "PLAN_CHECKOUT_STARTED",
			map[string]interface{}{"plan_id": plan.ID, "error": err.Error()}, req.IPAddress, auditlog.StatusFailure)
		return nil, err
	}

	payment := &PlanPayment{
		BusinessID: req.BusinessID,
		PlanID:     plan.ID,
		Amount:     plan.Price,
		Currency:   plan.Currency,
		OrderID:    orderID,
		Method:     "PENDING",
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, apperr.Store("create payment", err)
	}

	_ = s.audit.LogAction(ctx, "", "business", &req.BusinessID, "PLAN_CHECKOUT_STARTED",
		map[string]interface{}{"plan_id": plan.ID, "order_id": orderID, "amount": plan.Price}, req.IPAddress, auditlog.StatusSuccess)

	return &CheckoutResponse{
		OrderID:     orderID,
		Amount:      plan.Price,
		Currency:    plan.Currency,
		RazorpayKey: s.key,
		PlanName:    plan.Name,
	}, nil
}

// VerifyPayment checks the checkout signature, confirms the payment with the
// gateway and, once captured, assigns the plan to the business. Verifying an
// already successful order is a no-op.
func (s *Service) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*PlanPayment, error) {
	if !validSignature(s.secret, req.OrderID, req.PaymentID, req.Signature) {
		_ = s.audit.LogAction(ctx, "", "payment", nil, "PLAN_PAYMENT_VERIFICATION_FAILED",
			map[string]interface{}{"order_id": req.OrderID, "reason": "invalid payment signature"}, req.IPAddress, auditlog.StatusFailure)
		return nil, apperr.Validation("invalid payment signature")
	}

	payment, err := s.repo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, apperr.Store("find payment", err)
	}
	if payment.Status == StatusSuccess {
		return payment, nil
	}

	remote, err := s.gateway.FetchPayment(req.PaymentID)
	if err != nil {
		return nil, err
	}
	if remote.Amount != payment.Amount {
		_ = s.audit.LogAction(ctx, "", "payment", &payment.ID, "PLAN_PAYMENT_VERIFICATION_FAILED",
			map[string]interface{}{"order_id": req.OrderID, "expected": payment.Amount, "paid": remote.Amount}, req.IPAddress, auditlog.StatusFailure)
		return nil, apperr.Validation("paid amount does not match the order")
	}

	cols := map[string]interface{}{
		"payment_id": req.PaymentID,
		"method":     remote.Method,
		"status":     StatusFailed,
	}
	action, auditStatus := "PLAN_PAYMENT_FAILED", auditlog.StatusFailure

	if remote.Status == "captured" {
		plan, err := s.plans.GetPlan(ctx, payment.PlanID)
		if err != nil {
			return nil, err
		}
		now := s.now()
		expires := now.AddDate(0, 0, plan.DurationDays)
		if err := s.assigner.SetPlan(ctx, payment.BusinessID, payment.PlanID, expires); err != nil {
			return nil, apperr.Store("assign plan", err)
		}
		cols["status"] = StatusSuccess
		cols["paid_at"] = now
		cols["expires_at"] = expires
		action, auditStatus = "PLAN_PAYMENT_SUCCESS", auditlog.StatusSuccess
	}

	if err := s.repo.UpdatePayment(ctx, req.OrderID, cols); err != nil {
		return nil, apperr.Store("update payment", err)
	}
	_ = s.audit.LogAction(ctx, "", "business", &payment.BusinessID, action,
		map[string]interface{}{"order_id": req.OrderID, "payment_id": req.PaymentID, "gateway_status": remote.Status}, req.IPAddress, auditStatus)
	s.log.Info().Str("order_id", req.OrderID).Str("status", cols["status"].(string)).Uint("business_id", payment.BusinessID).Msg("plan payment verified")

	updated, err := s.repo.GetByOrderID(ctx, req.OrderID)
	return updated, apperr.Store("reload payment", err)
}

func (s *Service) ListPayments(ctx context.Context, businessID uint) ([]PlanPayment, error) {
	out, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperr.Store("list payments", err)
	}
	if out == nil {
		out = []PlanPayment{}
	}
	return out, nil
}
