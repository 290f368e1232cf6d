package submission

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/events"
)

// memDB is an in-memory stand-in for the gorm stores. Transactions are
// serialized and rolled back by restoring a snapshot.
type memDB struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	subs    map[uint]PendingBusinessSubmission
	biz     map[uint]business.Business
	nextSub uint
	nextBiz uint

	failBusinessCreate error
	failTransition     error
}

func newMemDB() *memDB {
	return &memDB{
		subs: make(map[uint]PendingBusinessSubmission),
		biz:  make(map[uint]business.Business),
	}
}

func (db *memDB) businesses() []business.Business {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]business.Business, 0, len(db.biz))
	for _, b := range db.biz {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (db *memDB) submission(id uint) PendingBusinessSubmission {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.subs[id]
}

func (db *memDB) WithinTransaction(ctx context.Context, fn func(SubmissionStore, BusinessStore) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.Lock()
	subsSnap := make(map[uint]PendingBusinessSubmission, len(db.subs))
	for k, v := range db.subs {
		subsSnap[k] = v
	}
	bizSnap := make(map[uint]business.Business, len(db.biz))
	for k, v := range db.biz {
		bizSnap[k] = v
	}
	nextBiz := db.nextBiz
	db.mu.Unlock()

	if err := fn(memSubs{db}, memBiz{db}); err != nil {
		db.mu.Lock()
		db.subs, db.biz, db.nextBiz = subsSnap, bizSnap, nextBiz
		db.mu.Unlock()
		return err
	}
	return nil
}

type memSubs struct{ db *memDB }

func (m memSubs) Create(_ context.Context, s *PendingBusinessSubmission) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.nextSub++
	s.ID = m.db.nextSub
	m.db.subs[s.ID] = *s
	return nil
}

func (m memSubs) FindByID(_ context.Context, id uint, _ bool) (*PendingBusinessSubmission, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m memSubs) Update(_ context.Context, id uint, u *FieldUpdates) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ApplyTo(&s)
	m.db.subs[id] = s
	return nil
}

func (m memSubs) TransitionStatus(_ context.Context, id uint, from string, t Transition) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failTransition != nil {
		return false, m.db.failTransition
	}
	s, ok := m.db.subs[id]
	if !ok || s.Status != from {
		return false, nil
	}
	reviewedAt := t.ReviewedAt
	s.Status = t.To
	s.ReviewedAt = &reviewedAt
	s.ReviewedBy = t.ReviewedBy
	if t.RejectionReason != "" {
		s.RejectionReason = t.RejectionReason
	}
	m.db.subs[id] = s
	return true, nil
}

func (m memSubs) List(_ context.Context, f Filter) ([]PendingBusinessSubmission, int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []PendingBusinessSubmission
	for _, s := range m.db.subs {
		if f.Status == "" || s.Status == f.Status {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (m memSubs) CountByStatus(context.Context) (map[string]int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := make(map[string]int64)
	for _, s := range m.db.subs {
		out[s.Status]++
	}
	return out, nil
}

type memBiz struct{ db *memDB }

func (m memBiz) Create(_ context.Context, b *business.Business) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failBusinessCreate != nil {
		return m.db.failBusinessCreate
	}
	if b.SourceSubmissionID != nil {
		for _, existing := range m.db.biz {
			if existing.SourceSubmissionID != nil && *existing.SourceSubmissionID == *b.SourceSubmissionID {
				return errors.New("UNIQUE constraint failed: businesses.source_submission_id")
			}
		}
	}
	m.db.nextBiz++
	b.ID = m.db.nextBiz
	b.CreatedAt = time.Now()
	m.db.biz[b.ID] = *b
	return nil
}

func (m memBiz) FindBySubmissionID(_ context.Context, submissionID uint) (*business.Business, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, b := range m.db.biz {
		if b.SourceSubmissionID != nil && *b.SourceSubmissionID == submissionID {
			return &b, nil
		}
	}
	return nil, nil
}

// fakeRefs answers ReferenceExists from a fixed set of ids per kind.
type fakeRefs map[string]map[uint]bool

func (f fakeRefs) ReferenceExists(_ context.Context, kind string, id uint) (bool, error) {
	return f[kind][id], nil
}

type auditEntry struct {
	Actor  string
	Action string
	Status string
	ID     *uint
}

type auditRecorder struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditRecorder) LogAction(_ context.Context, actor, _ string, entityID *uint, action string, _ map[string]interface{}, _ string, status string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{Actor: actor, Action: action, Status: status, ID: entityID})
	return nil
}

func (a *auditRecorder) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func (a *auditRecorder) GetAuditLogByID(context.Context, uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func (a *auditRecorder) GetStats(context.Context, time.Time) (map[string]interface{}, error) {
	return nil, nil
}

func (a *auditRecorder) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// nopLocker grants every lease immediately, leaving only the
// compare-and-swap and the unique index to guard approvals.
type nopLocker struct{}

func (nopLocker) Acquire(context.Context, string) (func(), error) { return func() {}, nil }
