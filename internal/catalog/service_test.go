package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/testutil"
)

// 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func newTestService(t *testing.T) (*Service, string) {
	db := testutil.NewDB(t, &Category{}, &Zone{}, &BusinessPlan{}, &Media{})
	dir := t.TempDir()
	return NewService(NewRepository(db), NewUploader(dir, 1), zerolog.Nop()), dir
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Restaurants & Cafes": "restaurants-cafes",
		"  Downtown  ":        "downtown",
		"Zone #7 (North)":     "zone-7-north",
		"---":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCategoryCreateUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, CategoryInput{Name: " Restaurants "})
	require.NoError(t, err)
	assert.Equal(t, "Restaurants", cat.Name)
	assert.Equal(t, "restaurants", cat.Slug)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	updated, err := svc.UpdateCategory(ctx, cat.ID, CategoryInput{Name: "Food", Slug: "Food & Drink"})
	require.NoError(t, err)
	assert.Equal(t, "food-drink", updated.Slug)

	_, err = svc.UpdateCategory(ctx, 999, CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPlansActiveFilterAndFeatures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	inactive := false

	gold, err := svc.CreatePlan(ctx, PlanInput{Name: "Gold", Price: 99900, DurationDays: 365, Features: []string{"featured", "offers"}})
	require.NoError(t, err)
	assert.Equal(t, "INR", gold.Currency)
	assert.True(t, gold.IsActive)

	var features []string
	require.NoError(t, json.Unmarshal(gold.Features, &features))
	assert.Equal(t, []string{"featured", "offers"}, features)

	_, err = svc.CreatePlan(ctx, PlanInput{Name: "Legacy", IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.CreatePlan(ctx, PlanInput{Name: "Broken", Price: -1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	active, err := svc.ListPlans(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "gold", active[0].Slug)

	all, err := svc.ListPlans(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReferenceExists(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	zone, err := svc.CreateZone(ctx, ZoneInput{Name: "Downtown"})
	require.NoError(t, err)

	ok, err := svc.ReferenceExists(ctx, RefZone, zone.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ReferenceExists(ctx, RefCategory, 77)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.ReferenceExists(ctx, "galaxy", 1)
	assert.ErrorIs(t, err, apperr.ErrStore)
}

func multipartRequest(t *testing.T, name string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadMediaHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, dir := newTestService(t)
	r := gin.New()
	r.POST("/api/v1/media", NewHandler(svc).UploadMedia)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "logo.jpg", tinyPNG))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var m Media
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, ".png", filepath.Ext(m.FileName))
	assert.Equal(t, "logo.jpg", m.OriginalName)
	assert.Equal(t, "/uploads/"+m.FileName, m.URL)

	stored, err := os.ReadFile(filepath.Join(dir, m.FileName))
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, stored)
}

func TestUploadMediaRejectsNonImages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, dir := newTestService(t)
	r := gin.New()
	r.POST("/api/v1/media", NewHandler(svc).UploadMedia)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "menu.png", []byte("%PDF-1.4\nnot an image")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadMediaTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	r := gin.New()
	r.POST("/api/v1/media", NewHandler(svc).UploadMedia)

	big := append(append([]byte{}, tinyPNG...), make([]byte, 2*1024*1024)...)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, multipartRequest(t, "huge.png", big))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds 1MB")
}
