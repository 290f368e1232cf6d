package business

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/catalog"
	"github.com/sharath018/business-directory-backend/internal/testutil"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	audit    auditlog.Service
	downtown catalog.Zone
	harbour  catalog.Zone
	food     catalog.Category
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t, &catalog.Category{}, &catalog.Zone{}, &catalog.BusinessPlan{}, &catalog.Media{}, &Business{}, &auditlog.AuditLog{})
	f := &fixture{
		db:       db,
		downtown: catalog.Zone{Name: "Downtown", Slug: "downtown"},
		harbour:  catalog.Zone{Name: "Harbour", Slug: "harbour"},
		food:     catalog.Category{Name: "Food", Slug: "food"},
	}
	require.NoError(t, db.Create(&f.downtown).Error)
	require.NoError(t, db.Create(&f.harbour).Error)
	require.NoError(t, db.Create(&f.food).Error)

	f.audit = auditlog.NewService(auditlog.NewRepository(db))
	f.svc = NewService(NewRepository(db), f.audit, zerolog.Nop())
	return f
}

func (f *fixture) add(t *testing.T, b Business) Business {
	t.Helper()
	require.NoError(t, NewRepository(f.db).Create(context.Background(), &b))
	return b
}

func TestListFiltersAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, Business{Name: "Bento Box", IsActive: true, ZoneID: &f.downtown.ID, CategoryID: &f.food.ID})
	f.add(t, Business{Name: "Sushi Central", IsActive: true, Featured: true, ZoneID: &f.downtown.ID, CategoryID: &f.food.ID, SupportsDelivery: true})
	f.add(t, Business{Name: "Harbour Fish", IsActive: true, ZoneID: &f.harbour.ID, Description: "fresh sushi daily"})
	f.add(t, Business{Name: "Closed Cafe", IsActive: false, ZoneID: &f.downtown.ID})

	page, err := f.svc.List(ctx, Filter{ZoneSlug: "downtown"})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Sushi Central", page.Data[0].Name, "featured first")
	assert.Equal(t, "Bento Box", page.Data[1].Name)
	require.NotNil(t, page.Data[0].Zone)
	assert.Equal(t, "Downtown", page.Data[0].Zone.Name)

	page, err = f.svc.List(ctx, Filter{Search: "SUSHI"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	yes := true
	page, err = f.svc.List(ctx, Filter{CategoryID: &f.food.ID, SupportsDelivery: &yes})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Sushi Central", page.Data[0].Name)

	page, err = f.svc.List(ctx, Filter{IncludeInactive: true, Limit: 3, Page: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 1)
}

func TestGetHidesInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	closed := f.add(t, Business{Name: "Closed Cafe"})

	_, err := f.svc.Get(ctx, closed.ID, false)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := f.svc.Get(ctx, closed.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Closed Cafe", got.Name)

	_, err = f.svc.Get(ctx, 999, true)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateFlagsAudits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.add(t, Business{Name: "Sushi Central", IsActive: true})

	fee := 2.5
	yes := true
	got, err := f.svc.UpdateFlags(ctx, b.ID, FlagsUpdate{Featured: &yes, SupportsDelivery: &yes, DeliveryFee: &fee}, "admin@directory.test", "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, got.Featured)
	assert.True(t, got.SupportsDelivery)
	assert.Equal(t, 2.5, got.DeliveryFee)
	assert.True(t, got.IsActive)

	logs, err := f.audit.GetAuditLogs(ctx, auditlog.AuditLogFilter{EntityType: "business", EntityID: &b.ID})
	require.NoError(t, err)
	require.Len(t, logs.Data, 1)
	assert.Equal(t, "BUSINESS_UPDATED", logs.Data[0].Action)

	_, err = f.svc.UpdateFlags(ctx, b.ID, FlagsUpdate{}, "admin", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	neg := -1.0
	_, err = f.svc.UpdateFlags(ctx, b.ID, FlagsUpdate{DeliveryFee: &neg}, "admin", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateFlags(ctx, 999, FlagsUpdate{Featured: &yes}, "admin", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSourceSubmissionIsUnique(t *testing.T) {
	f := newFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()
	sid := uint(7)

	require.NoError(t, repo.Create(ctx, &Business{Name: "first", SourceSubmissionID: &sid}))
	assert.Error(t, repo.Create(ctx, &Business{Name: "second", SourceSubmissionID: &sid}))

	found, err := repo.FindBySubmissionID(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "first", found.Name)

	none, err := repo.FindBySubmissionID(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestHandlerListAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	b := f.add(t, Business{Name: "Sushi Central", IsActive: true, ZoneID: &f.downtown.ID})

	r := gin.New()
	h := NewHandler(f.svc)
	r.GET("/businesses", h.List)
	r.GET("/businesses/:id", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/businesses?zone=downtown&limit=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var page Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, maxLimit, page.Limit)
	require.Len(t, page.Data, 1)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/businesses/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/businesses/"+strconv.FormatUint(uint64(b.ID), 10), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Sushi Central"`)
}
