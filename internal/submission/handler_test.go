package submission

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/business-directory-backend/internal/lock"
)

func newTestRouter(h *harness) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(h.svc)
	r.POST("/submissions", handler.Submit)

	admin := r.Group("/admin", func(c *gin.Context) {
		c.Set("actor", "admin1")
		c.Set("client_ip", "10.0.0.1")
		c.Next()
	})
	admin.GET("/submissions", handler.List)
	admin.GET("/submissions/counts", handler.Counts)
	admin.GET("/submissions/:id", handler.Get)
	admin.PATCH("/submissions/:id", handler.ChangeStatus)
	admin.PATCH("/submissions/:id/review", handler.Review)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerSubmitAndReview(t *testing.T) {
	h := newHarness(t, lock.NewLocalLocker())
	r := newTestRouter(h)

	w := do(r, http.MethodPost, "/submissions",
		`{"name":"Sushi Central","email":"x@y.com","phone":"555","address":"Main St 1","category_id":7,"zone_id":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, StatusPending, created.Status)
	path := "/admin/submissions/" + strconv.FormatUint(uint64(created.ID), 10)

	w = do(r, http.MethodPatch, path+"/review", `{"decision":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result ReviewResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Business)
	assert.Equal(t, "Sushi Central", result.Business.Name)
	assert.Equal(t, "admin1", result.Submission.ReviewedBy)

	w = do(r, http.MethodPatch, path, `{"status":"rejected","rejection_reason":"spam"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerErrorStatuses(t *testing.T) {
	h := newHarness(t, lock.NewLocalLocker())
	r := newTestRouter(h)
	id := h.submit(t, sushiCentral())
	path := "/admin/submissions/" + strconv.FormatUint(uint64(id), 10)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"submit missing fields", http.MethodPost, "/submissions", `{"name":"","address":""}`, http.StatusBadRequest},
		{"submit unknown zone", http.MethodPost, "/submissions", `{"name":"A","email":"a@b.com","phone":"1","address":"x","zone_id":99}`, http.StatusBadRequest},
		{"reject without reason", http.MethodPatch, path + "/review", `{"decision":"rejected"}`, http.StatusBadRequest},
		{"bad decision", http.MethodPatch, path + "/review", `{"decision":"maybe"}`, http.StatusBadRequest},
		{"unknown submission", http.MethodPatch, "/admin/submissions/999", `{"status":"approved"}`, http.StatusNotFound},
		{"reject unknown submission", http.MethodPatch, "/admin/submissions/999/review", `{"decision":"rejected"}`, http.StatusNotFound},
		{"bad id", http.MethodGet, "/admin/submissions/abc", "", http.StatusBadRequest},
		{"list bad status", http.MethodGet, "/admin/submissions?status=archived", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestHandlerCounts(t *testing.T) {
	h := newHarness(t, lock.NewLocalLocker())
	r := newTestRouter(h)
	h.submit(t, sushiCentral())

	w := do(r, http.MethodGet, "/admin/submissions/counts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var counts Counts
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.EqualValues(t, 1, counts.Pending)
	assert.EqualValues(t, 1, counts.Total)
}
