package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/catalog"
	"github.com/sharath018/business-directory-backend/internal/events"
	"github.com/sharath018/business-directory-backend/internal/lock"
	"github.com/sharath018/business-directory-backend/internal/testutil"
)

type sqlFixture struct {
	db       *gorm.DB
	svc      *Service
	food     catalog.Category
	downtown catalog.Zone
	basic    catalog.BusinessPlan
	logo     catalog.Media
}

func newSQLFixture(t *testing.T) *sqlFixture {
	t.Helper()
	db := testutil.NewDB(t,
		&catalog.Category{}, &catalog.Zone{}, &catalog.BusinessPlan{}, &catalog.Media{},
		&PendingBusinessSubmission{}, &business.Business{}, &auditlog.AuditLog{},
	)
	f := &sqlFixture{
		db:       db,
		food:     catalog.Category{Name: "Food", Slug: "food"},
		downtown: catalog.Zone{Name: "Downtown", Slug: "downtown"},
		basic:    catalog.BusinessPlan{Name: "Basic", Slug: "basic", Price: 49900, Currency: "INR", DurationDays: 30, IsActive: true},
		logo:     catalog.Media{FileName: "logo.png", OriginalName: "logo.png", URL: "/uploads/logo.png", MimeType: "image/png", Size: 10},
	}
	require.NoError(t, db.Create(&f.food).Error)
	require.NoError(t, db.Create(&f.downtown).Error)
	require.NoError(t, db.Create(&f.basic).Error)
	require.NoError(t, db.Create(&f.logo).Error)

	refs := catalog.NewService(catalog.NewRepository(db), nil, zerolog.Nop())
	audit := auditlog.NewService(auditlog.NewRepository(db))
	f.svc = NewService(NewRepository(db), NewTransactor(db), refs, lock.NewLocalLocker(), events.NopPublisher{}, audit, zerolog.Nop())
	return f
}

func TestRepositoryFindByIDLoadsRelations(t *testing.T) {
	f := newSQLFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)

	sub := &PendingBusinessSubmission{
		Name: "Sushi Central", Email: "x@y.com", Phone: "555", Address: "Main St 1",
		CategoryID: &f.food.ID, ZoneID: &f.downtown.ID, BusinessPlanID: &f.basic.ID, LogoID: &f.logo.ID,
		Status: StatusPending, SubmittedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, sub))

	got, err := repo.FindByID(ctx, sub.ID, true)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	require.NotNil(t, got.Zone)
	require.NotNil(t, got.BusinessPlan)
	require.NotNil(t, got.Logo)
	assert.Equal(t, "Food", got.Category.Name)
	assert.Equal(t, "downtown", got.Zone.Slug)
	assert.Equal(t, int64(49900), got.BusinessPlan.Price)
	assert.Equal(t, "/uploads/logo.png", got.Logo.URL)

	bare, err := repo.FindByID(ctx, sub.ID, false)
	require.NoError(t, err)
	assert.Nil(t, bare.Category)

	_, err = repo.FindByID(ctx, 999, false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryTransitionStatusIsCompareAndSwap(t *testing.T) {
	f := newSQLFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)

	sub := &PendingBusinessSubmission{Name: "A", Email: "a@b.com", Phone: "1", Address: "x", Status: StatusPending, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, sub))

	tr := Transition{To: StatusRejected, ReviewedAt: time.Now().UTC(), ReviewedBy: "admin", RejectionReason: "spam"}
	swapped, err := repo.TransitionStatus(ctx, sub.ID, StatusPending, tr)
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = repo.TransitionStatus(ctx, sub.ID, StatusPending, Transition{To: StatusApproved, ReviewedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, swapped)

	got, err := repo.FindByID(ctx, sub.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.Equal(t, "spam", got.RejectionReason)
	assert.NotNil(t, got.ReviewedAt)
}

func TestRepositoryListAndCount(t *testing.T) {
	f := newSQLFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)

	base := time.Now().UTC()
	for i, name := range []string{"Bento Box", "Sushi Central", "Taco Stand"} {
		require.NoError(t, repo.Create(ctx, &PendingBusinessSubmission{
			Name: name, Email: "owner@example.com", Phone: "1", Address: "x",
			Status: StatusPending, SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	rows, total, err := repo.List(ctx, Filter{Search: "SUSHI", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sushi Central", rows[0].Name)

	rows, total, err = repo.List(ctx, Filter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Taco Stand", rows[0].Name, "newest first")

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[StatusPending])
}

func TestApprovalEndToEnd(t *testing.T) {
	f := newSQLFixture(t)
	ctx := context.Background()

	id, err := f.svc.SubmitApplication(ctx, SubmitInput{
		Name: "Sushi Central", Email: "x@y.com", Phone: "555", Address: "Main St 1",
		CategoryID: &f.food.ID, ZoneID: &f.downtown.ID, LogoID: &f.logo.ID,
	})
	require.NoError(t, err)

	res, err := f.svc.ReviewApplication(ctx, id, StatusApproved, "admin1", "", "127.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, res.Business)
	require.NotNil(t, res.Business.Category)
	assert.Equal(t, "Food", res.Business.Category.Name)
	require.NotNil(t, res.Business.MainImage)
	assert.Equal(t, f.logo.ID, res.Business.MainImage.ID)
	assert.Nil(t, res.Business.Plan)

	again, err := f.svc.ReviewApplication(ctx, id, StatusApproved, "admin1", "", "")
	require.NoError(t, err)
	assert.Equal(t, res.Business.ID, again.Business.ID)

	directory := business.NewService(business.NewRepository(f.db), auditlog.NewService(auditlog.NewRepository(f.db)), zerolog.Nop())
	page, err := directory.List(ctx, business.Filter{ZoneSlug: "downtown"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Sushi Central", page.Data[0].Name)

	var count int64
	require.NoError(t, f.db.Model(&business.Business{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var logged int64
	require.NoError(t, f.db.Model(&auditlog.AuditLog{}).Where("action = ?", "SUBMISSION_APPROVED").Count(&logged).Error)
	assert.EqualValues(t, 1, logged)
}

func TestApprovalRollsBackOnConstraintViolation(t *testing.T) {
	f := newSQLFixture(t)
	ctx := context.Background()

	id, err := f.svc.SubmitApplication(ctx, SubmitInput{Name: "Sushi Central", Email: "x@y.com", Phone: "555", Address: "Main St 1"})
	require.NoError(t, err)

	// A stray listing already claims the submission, so the insert fails
	// after the review edits were written inside the transaction.
	stray := &business.Business{Name: "stray", SourceSubmissionID: &id}
	require.NoError(t, business.NewRepository(f.db).Create(ctx, stray))

	_, err = f.svc.RequestStatusChange(ctx, id, StatusChange{
		Status:  StatusApproved,
		Actor:   "admin1",
		Updates: &FieldUpdates{Phone: ptr("999")},
	})
	require.ErrorIs(t, err, apperr.ErrStore)

	got, err := NewRepository(f.db).FindByID(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Nil(t, got.ReviewedAt)
	assert.Equal(t, "555", got.Phone)

	var count int64
	require.NoError(t, f.db.Model(&business.Business{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

const casUpdate = `UPDATE "pending_business_submissions" SET .+ WHERE \(?id = \$\d+ AND status = \$\d+\)?`

func TestTransitionStatusSQL(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"swapped", 1, true},
		{"lost the race", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectExec(casUpdate).WillReturnResult(sqlmock.NewResult(0, tc.affected))
			mock.ExpectCommit()

			swapped, err := NewRepository(db).TransitionStatus(context.Background(), 7, StatusPending, Transition{
				To: StatusApproved, ReviewedAt: time.Now(), ReviewedBy: "admin1",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, swapped)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactorRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "businesses"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := NewTransactor(db).WithinTransaction(context.Background(), func(_ SubmissionStore, biz BusinessStore) error {
		id := uint(7)
		return biz.Create(context.Background(), &business.Business{Name: "Sushi Central", SourceSubmissionID: &id})
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
