package submission

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/catalog"
	"github.com/sharath018/business-directory-backend/internal/events"
	"github.com/sharath018/business-directory-backend/internal/lock"
)

const defaultActor = "system"

// errStatusChanged aborts a transaction whose compare-and-swap lost.
var errStatusChanged = errors.New("submission status changed concurrently")

type Service struct {
	subs      SubmissionStore
	tx        Transactor
	refs      ReferenceChecker
	locker    lock.Locker
	publisher events.Publisher
	audit     auditlog.Service
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(
	subs SubmissionStore,
	tx Transactor,
	refs ReferenceChecker,
	locker lock.Locker,
	publisher events.Publisher,
	audit auditlog.Service,
	log zerolog.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		subs:      subs,
		tx:        tx,
		refs:      refs,
		locker:    locker,
		publisher: publisher,
		audit:     audit,
		log:       log.With().Str("component", "submission").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func lockKey(id uint) string {
	return fmt.Sprintf("submission:%d", id)
}

// =============================
// Submit
// =============================

// SubmitApplication validates and stores a new application in pending state.
func (s *Service) SubmitApplication(ctx context.Context, in SubmitInput) (uint, error) {
	sub := &PendingBusinessSubmission{
		Name:               strings.TrimSpace(in.Name),
		Description:        strings.TrimSpace(in.Description),
		Email:              strings.TrimSpace(in.Email),
		Phone:              strings.TrimSpace(in.Phone),
		Website:            strings.TrimSpace(in.Website),
		Address:            strings.TrimSpace(in.Address),
		CustomCategoryName: strings.TrimSpace(in.CustomCategoryName),
		CategoryID:         nonZero(in.CategoryID),
		ZoneID:             nonZero(in.ZoneID),
		BusinessPlanID:     nonZero(in.BusinessPlanID),
		LogoID:             nonZero(in.LogoID),
		Status:             StatusPending,
		SubmittedAt:        s.now(),
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", sub.Name}, {"email", sub.Email}, {"phone", sub.Phone}, {"address", sub.Address},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return 0, apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}

	if err := s.checkReferences(ctx, sub.CategoryID, sub.ZoneID, sub.BusinessPlanID, sub.LogoID); err != nil {
		return 0, err
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		return 0, apperr.Store("create submission", err)
	}

	s.log.Info().Uint("submission_id", sub.ID).Str("name", sub.Name).Msg("application submitted")
	_ = s.audit.LogAction(ctx, sub.Email, "submission", &sub.ID, "SUBMISSION_CREATED",
		map[string]interface{}{"name": sub.Name}, in.IP, auditlog.StatusSuccess)

	evt := events.New(events.TypeSubmissionCreated, sub.ID)
	evt.Name, evt.Email = sub.Name, sub.Email
	s.publish(ctx, evt)

	return sub.ID, nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func (s *Service) checkReferences(ctx context.Context, categoryID, zoneID, planID, logoID *uint) error {
	refs := []struct {
		kind string
		id   *uint
	}{
		{catalog.RefCategory, categoryID},
		{catalog.RefZone, zoneID},
		{catalog.RefPlan, planID},
		{catalog.RefMedia, logoID},
	}
	for _, ref := range refs {
		if ref.id == nil || *ref.id == 0 {
			continue
		}
		ok, err := s.refs.ReferenceExists(ctx, ref.kind, *ref.id)
		if err != nil {
			return apperr.Store("check "+ref.kind, err)
		}
		if !ok {
			return apperr.Validation("%s %d does not exist", ref.kind, *ref.id)
		}
	}
	return nil
}

func (s *Service) validateUpdates(ctx context.Context, u *FieldUpdates) error {
	if u == nil {
		return nil
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", u.Name}, {"email", u.Email}, {"phone", u.Phone}, {"address", u.Address},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return apperr.Validation("%s cannot be empty", f.name)
		}
	}
	return s.checkReferences(ctx, u.CategoryID, u.ZoneID, u.BusinessPlanID, u.LogoID)
}

// =============================
// Review
// =============================

// ReviewApplication approves or rejects a submission.
func (s *Service) ReviewApplication(ctx context.Context, id uint, decision, actor, reason, ip string) (*ReviewResult, error) {
	decision = strings.ToLower(strings.TrimSpace(decision))
	if decision != StatusApproved && decision != StatusRejected {
		return nil, apperr.Validation("decision must be %q or %q", StatusApproved, StatusRejected)
	}
	return s.RequestStatusChange(ctx, id, StatusChange{
		Status:          decision,
		Actor:           actor,
		RejectionReason: reason,
		IP:              ip,
	})
}

// RequestStatusChange is the single entry point for status changes and
// review edits. Approval creates the Business and flips the status in one
// transaction; repeating an approval returns the Business created the first
// time.
func (s *Service) RequestStatusChange(ctx context.Context, id uint, change StatusChange) (*ReviewResult, error) {
	change.Status = strings.ToLower(strings.TrimSpace(change.Status))
	change.Actor = strings.TrimSpace(change.Actor)
	if change.Actor == "" {
		change.Actor = defaultActor
	}
	change.RejectionReason = strings.TrimSpace(change.RejectionReason)

	if !IsValidStatus(change.Status) {
		return nil, apperr.Validation("unknown status %q", change.Status)
	}

	release, err := s.locker.Acquire(ctx, lockKey(id))
	if err != nil {
		return nil, apperr.Store("acquire review lock", err)
	}
	defer release()

	current, err := s.subs.FindByID(ctx, id, true)
	if err != nil {
		return nil, apperr.Store("find submission", err)
	}

	if change.Status == StatusRejected && change.RejectionReason == "" {
		return nil, apperr.Validation("rejection_reason is required")
	}
	if err := s.validateUpdates(ctx, change.Updates); err != nil {
		return nil, err
	}

	switch change.Status {
	case StatusApproved:
		return s.approve(ctx, current, change)
	case StatusRejected:
		return s.reject(ctx, current, change)
	default:
		return s.editPending(ctx, current, change)
	}
}

func (s *Service) approve(ctx context.Context, current *PendingBusinessSubmission, change StatusChange) (*ReviewResult, error) {
	switch current.Status {
	case StatusApproved:
		return s.alreadyApproved(ctx, current.ID, change)
	case StatusRejected:
		return nil, s.refuse(ctx, current, change)
	}

	draft := *current
	change.Updates.ApplyTo(&draft)
	biz := BuildBusiness(&draft)
	now := s.now()

	result := &ReviewResult{}
	err := s.tx.WithinTransaction(ctx, func(subs SubmissionStore, bizStore BusinessStore) error {
		if !change.Updates.IsEmpty() {
			if err := subs.Update(ctx, current.ID, change.Updates); err != nil {
				return err
			}
		}
		if err := bizStore.Create(ctx, biz); err != nil {
			return err
		}
		swapped, err := subs.TransitionStatus(ctx, current.ID, StatusPending, Transition{
			To:         StatusApproved,
			ReviewedAt: now,
			ReviewedBy: change.Actor,
		})
		if err != nil {
			return err
		}
		if !swapped {
			return errStatusChanged
		}

		created, err := bizStore.FindBySubmissionID(ctx, current.ID)
		if err != nil {
			return err
		}
		if created == nil {
			created = biz
		}
		result.Business = created
		result.Submission, err = subs.FindByID(ctx, current.ID, true)
		return err
	})
	if err != nil {
		return s.recoverApproval(ctx, current, change, err)
	}

	s.log.Info().
		Uint("submission_id", current.ID).
		Uint("business_id", result.Business.ID).
		Str("actor", change.Actor).
		Msg("submission approved")
	_ = s.audit.LogAction(ctx, change.Actor, "submission", &current.ID, "SUBMISSION_APPROVED",
		map[string]interface{}{"business_id": result.Business.ID, "name": draft.Name}, change.IP, auditlog.StatusSuccess)

	evt := events.New(events.TypeSubmissionApproved, current.ID)
	evt.BusinessID = &result.Business.ID
	evt.Name, evt.Email, evt.Actor = draft.Name, draft.Email, change.Actor
	s.publish(ctx, evt)

	return result, nil
}

// recoverApproval decides what a failed approval transaction means. If the
// submission turned out approved by a concurrent writer the caller gets the
// idempotent result; otherwise nothing was written and the error surfaces.
func (s *Service) recoverApproval(ctx context.Context, current *PendingBusinessSubmission, change StatusChange, txErr error) (*ReviewResult, error) {
	latest, err := s.subs.FindByID(ctx, current.ID, false)
	if err == nil {
		switch latest.Status {
		case StatusApproved:
			s.log.Info().Uint("submission_id", current.ID).Msg("approval raced with another reviewer; returning existing business")
			return s.alreadyApproved(ctx, current.ID, change)
		case StatusRejected:
			return nil, s.refuse(ctx, latest, change)
		}
	}

	if errors.Is(txErr, errStatusChanged) {
		return nil, s.refuse(ctx, current, change)
	}

	storeErr := apperr.Store("approve submission", txErr)
	s.log.Error().Err(txErr).Uint("submission_id", current.ID).Msg("approval rolled back")
	_ = s.audit.LogAction(ctx, change.Actor, "submission", &current.ID, "SUBMISSION_APPROVAL_FAILED",
		map[string]interface{}{"error": txErr.Error()}, change.IP, auditlog.StatusFailure)
	return nil, storeErr
}

// alreadyApproved applies review edits to an approved submission and returns
// the Business that was created when it was approved.
func (s *Service) alreadyApproved(ctx context.Context, id uint, change StatusChange) (*ReviewResult, error) {
	result := &ReviewResult{}
	err := s.tx.WithinTransaction(ctx, func(subs SubmissionStore, bizStore BusinessStore) error {
		if !change.Updates.IsEmpty() {
			if err := subs.Update(ctx, id, change.Updates); err != nil {
				return err
			}
		}
		var err error
		if result.Submission, err = subs.FindByID(ctx, id, true); err != nil {
			return err
		}
		result.Business, err = bizStore.FindBySubmissionID(ctx, id)
		return err
	})
	if err != nil {
		return nil, apperr.Store("load approved submission", err)
	}
	if result.Business == nil {
		s.log.Warn().Uint("submission_id", id).Msg("approved submission has no linked business")
	}
	return result, nil
}

func (s *Service) reject(ctx context.Context, current *PendingBusinessSubmission, change StatusChange) (*ReviewResult, error) {
	switch {
	case current.Status == StatusRejected && change.Updates.IsEmpty():
		return &ReviewResult{Submission: current}, nil
	case current.Status != StatusPending:
		return nil, s.refuse(ctx, current, change)
	}

	now := s.now()
	result := &ReviewResult{}
	err := s.tx.WithinTransaction(ctx, func(subs SubmissionStore, _ BusinessStore) error {
		if !change.Updates.IsEmpty() {
			if err := subs.Update(ctx, current.ID, change.Updates); err != nil {
				return err
			}
		}
		swapped, err := subs.TransitionStatus(ctx, current.ID, StatusPending, Transition{
			To:              StatusRejected,
			ReviewedAt:      now,
			ReviewedBy:      change.Actor,
			RejectionReason: change.RejectionReason,
		})
		if err != nil {
			return err
		}
		if !swapped {
			return errStatusChanged
		}
		result.Submission, err = subs.FindByID(ctx, current.ID, true)
		return err
	})
	if err != nil {
		latest, ferr := s.subs.FindByID(ctx, current.ID, true)
		if ferr == nil {
			switch {
			case latest.Status == StatusRejected && change.Updates.IsEmpty():
				return &ReviewResult{Submission: latest}, nil
			case latest.Status != StatusPending:
				return nil, s.refuse(ctx, latest, change)
			}
		}
		_ = s.audit.LogAction(ctx, change.Actor, "submission", &current.ID, "SUBMISSION_REJECTION_FAILED",
			map[string]interface{}{"error": err.Error()}, change.IP, auditlog.StatusFailure)
		return nil, apperr.Store("reject submission", err)
	}

	s.log.Info().Uint("submission_id", current.ID).Str("actor", change.Actor).Msg("submission rejected")
	_ = s.audit.LogAction(ctx, change.Actor, "submission", &current.ID, "SUBMISSION_REJECTED",
		map[string]interface{}{"reason": change.RejectionReason}, change.IP, auditlog.StatusSuccess)

	evt := events.New(events.TypeSubmissionRejected, current.ID)
	evt.Name, evt.Email = result.Submission.Name, result.Submission.Email
	evt.Actor, evt.RejectionReason = change.Actor, change.RejectionReason
	s.publish(ctx, evt)

	return result, nil
}

func (s *Service) editPending(ctx context.Context, current *PendingBusinessSubmission, change StatusChange) (*ReviewResult, error) {
	if current.Status != StatusPending {
		return nil, s.refuse(ctx, current, change)
	}
	if change.Updates.IsEmpty() {
		return &ReviewResult{Submission: current}, nil
	}

	result := &ReviewResult{}
	err := s.tx.WithinTransaction(ctx, func(subs SubmissionStore, _ BusinessStore) error {
		if err := subs.Update(ctx, current.ID, change.Updates); err != nil {
			return err
		}
		var err error
		result.Submission, err = subs.FindByID(ctx, current.ID, true)
		return err
	})
	if err != nil {
		return nil, apperr.Store("update submission", err)
	}

	_ = s.audit.LogAction(ctx, change.Actor, "submission", &current.ID, "SUBMISSION_UPDATED",
		change.Updates.Columns(), change.IP, auditlog.StatusSuccess)
	return result, nil
}

// refuse records and returns an InvalidTransition error.
func (s *Service) refuse(ctx context.Context, current *PendingBusinessSubmission, change StatusChange) error {
	err := apperr.InvalidTransition(current.Status, change.Status)
	s.log.Warn().Uint("submission_id", current.ID).Str("from", current.Status).Str("to", change.Status).Msg("status change refused")
	_ = s.audit.LogAction(ctx, change.Actor, "submission", &current.ID, "SUBMISSION_STATUS_CHANGE_REFUSED",
		map[string]interface{}{"from": current.Status, "to": change.Status}, change.IP, auditlog.StatusFailure)
	return err
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Error().Err(err).Str("type", evt.Type).Uint("submission_id", evt.SubmissionID).Msg("failed to publish event")
	}
}

// BuildBusiness maps an approved submission onto a new listing. Relations
// are copied only when the submission has them.
func BuildBusiness(sub *PendingBusinessSubmission) *business.Business {
	sourceID := sub.ID
	return &business.Business{
		Name:               sub.Name,
		Description:        sub.Description,
		Email:              sub.Email,
		Phone:              sub.Phone,
		Website:            sub.Website,
		Address:            sub.Address,
		IsActive:           true,
		IsVerified:         true,
		Featured:           false,
		SupportsDelivery:   false,
		DeliveryFee:        0,
		CategoryID:         copyRef(sub.CategoryID),
		ZoneID:             copyRef(sub.ZoneID),
		PlanID:             copyRef(sub.BusinessPlanID),
		MainImageID:        copyRef(sub.LogoID),
		SourceSubmissionID: &sourceID,
	}
}

func copyRef(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// =============================
// Admin queries
// =============================

func (s *Service) Get(ctx context.Context, id uint) (*PendingBusinessSubmission, error) {
	sub, err := s.subs.FindByID(ctx, id, true)
	if err != nil {
		return nil, apperr.Store("find submission", err)
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	if f.Status != "" && !IsValidStatus(f.Status) {
		return nil, apperr.Validation("unknown status %q", f.Status)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	rows, total, err := s.subs.List(ctx, f)
	if err != nil {
		return nil, apperr.Store("list submissions", err)
	}
	if rows == nil {
		rows = []PendingBusinessSubmission{}
	}
	return &Page{
		Data:       rows,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}, nil
}

func (s *Service) Counts(ctx context.Context) (*Counts, error) {
	byStatus, err := s.subs.CountByStatus(ctx)
	if err != nil {
		return nil, apperr.Store("count submissions", err)
	}
	c := &Counts{
		Pending:  byStatus[StatusPending],
		Approved: byStatus[StatusApproved],
		Rejected: byStatus[StatusRejected],
	}
	c.Total = c.Pending + c.Approved + c.Rejected
	return c, nil
}
