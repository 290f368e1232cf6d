package submission

import (
	"context"

	"github.com/sharath018/business-directory-backend/internal/business"
)

type SubmissionStore interface {
	Create(ctx context.Context, s *PendingBusinessSubmission) error
	FindByID(ctx context.Context, id uint, withRelations bool) (*PendingBusinessSubmission, error)
	Update(ctx context.Context, id uint, updates *FieldUpdates) error
	// TransitionStatus moves the submission to t.To only if its status is
	// still from. It reports whether the swap happened.
	TransitionStatus(ctx context.Context, id uint, from string, t Transition) (bool, error)
	List(ctx context.Context, f Filter) ([]PendingBusinessSubmission, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type BusinessStore interface {
	Create(ctx context.Context, b *business.Business) error
	FindBySubmissionID(ctx context.Context, submissionID uint) (*business.Business, error)
}

// Transactor runs fn against stores bound to a single transaction. A non-nil
// error from fn rolls back everything fn wrote.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(subs SubmissionStore, biz BusinessStore) error) error
}

// ReferenceChecker reports whether a catalog row exists.
type ReferenceChecker interface {
	ReferenceExists(ctx context.Context, kind string, id uint) (bool, error)
}
