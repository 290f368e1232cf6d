package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/business-directory-backend/config"
	"github.com/sharath018/business-directory-backend/database"
	"github.com/sharath018/business-directory-backend/internal/billing"
	"github.com/sharath018/business-directory-backend/internal/events"
	"github.com/sharath018/business-directory-backend/internal/lock"
	"github.com/sharath018/business-directory-backend/internal/notification"
	"github.com/sharath018/business-directory-backend/internal/testutil"
)

type offlineGateway struct{}

func (offlineGateway) CreateOrder(int64, string, map[string]interface{}) (string, error) {
	return "", errors.New("offline")
}

func (offlineGateway) FetchPayment(string) (*billing.Payment, error) {
	return nil, errors.New("offline")
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, database.Models()...)
	cfg := &config.Config{
		JWTAccessSecret:    "access",
		JWTRefreshSecret:   "refresh",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
		SuperAdminEmail:    "root@example.com",
		SuperAdminPassword: "changeme",
		UploadDir:          t.TempDir(),
		MaxUploadMB:        1,
		RateLimitPerMin:    1000,
	}
	require.NoError(t, database.Seed(db, cfg))

	broadcaster := notification.NewBroadcaster(nil)
	notifier := notification.NewService(notification.NewRepository(db), nil, nil, broadcaster, "admins", zerolog.Nop())

	r := gin.New()
	Setup(r, cfg, Deps{
		DB:          db,
		Locker:      lock.NewLocalLocker(),
		Publisher:   events.NopPublisher{},
		Notifier:    notifier,
		Broadcaster: broadcaster,
		Gateway:     offlineGateway{},
		Log:         zerolog.Nop(),
	})
	return r
}

func call(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	w := call(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func TestPublicRoutes(t *testing.T) {
	r := newTestEngine(t)

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/healthz", "", nil).Code)

	w := call(r, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "restaurants")

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/v1/ads", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/v1/admin/submissions", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/v1/admin/notifications", "", nil).Code)
}

func TestSubmitReviewAndList(t *testing.T) {
	r := newTestEngine(t)

	w := call(r, http.MethodPost, "/api/v1/submissions", "", map[string]interface{}{
		"name":    "Sushi Central",
		"email":   "hello@sushi.example",
		"phone":   "555-0101",
		"address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	token := login(t, r, "root@example.com", "changeme")

	path := "/api/v1/admin/submissions/" + jsonID(created.ID) + "/review"
	w = call(r, http.MethodPatch, path, token, map[string]string{"decision": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"reviewed_by":"root@example.com"`)

	w = call(r, http.MethodPatch, path, token, map[string]string{"decision": "rejected", "reason": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(r, http.MethodGet, "/api/v1/businesses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)

	w = call(r, http.MethodGet, "/api/v1/admin/auditlogs?action=SUBMISSION_APPROVED", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSuperAdminCreatesAdmin(t *testing.T) {
	r := newTestEngine(t)
	root := login(t, r, "root@example.com", "changeme")

	w := call(r, http.MethodPost, "/api/v1/superadmin/admins", root, map[string]string{
		"full_name": "Ada Reviewer", "email": "ada@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	ada := login(t, r, "ada@example.com", "password1")
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/v1/admin/submissions/counts", ada, nil).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/superadmin/admins", ada, map[string]string{
		"full_name": "Eve", "email": "eve@example.com", "password": "password1",
	}).Code)

	// Checkout against an unreachable gateway fails without leaving a payment.
	w = call(r, http.MethodPost, "/api/v1/billing/checkout", "", map[string]uint{"business_id": 1, "plan_id": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestSuperAdminManagesAdminStatus(t *testing.T) {
	r := newTestEngine(t)
	root := login(t, r, "root@example.com", "changeme")

	w := call(r, http.MethodPost, "/api/v1/superadmin/admins", root, map[string]string{
		"full_name": "Ada Reviewer", "email": "ada@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ada struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ada))
	adaToken := login(t, r, "ada@example.com", "password1")

	w = call(r, http.MethodGet, "/api/v1/superadmin/admins", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")

	w = call(r, http.MethodPatch, "/api/v1/superadmin/admins/"+jsonID(ada.ID)+"/status", root, map[string]string{"status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The outstanding token stops working once the account is inactive.
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/api/v1/admin/submissions", adaToken, nil).Code)
}
