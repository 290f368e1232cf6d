package reports

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) request(c *gin.Context) (Request, bool) {
	format := strings.ToLower(c.Query("format"))
	if format != "" && !IsValidFormat(format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, csv, excel or pdf"})
		return Request{}, false
	}
	start, end, err := DateRange(c.Query("date_range"), c.Query("start_date"), c.Query("end_date"), h.service.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return Request{}, false
	}
	return Request{Status: c.Query("status"), Start: start, End: end, Format: format}, true
}

func (h *Handler) serve(c *gin.Context, report string) {
	req, ok := h.request(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if req.Format == "" || req.Format == FormatJSON {
		var (
			data interface{}
			err  error
		)
		if report == ReportSubmissions {
			data, err = h.service.Submissions(ctx, req)
		} else {
			data, err = h.service.Businesses(ctx, req)
		}
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
		return
	}

	file, err := h.service.Export(ctx, report, req, c.GetString("actor"), c.GetString("client_ip"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Submissions godoc
// @Summary Submission report
// @Description Lists submissions as JSON or downloads them as CSV, Excel or PDF.
// @Tags Reports
// @Produce json,text/csv,application/pdf
// @Param format query string false "json (default), csv, excel or pdf"
// @Param status query string false "pending, approved or rejected"
// @Param date_range query string false "all (default), daily, weekly, monthly, yearly or custom"
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Success 200 {array} SubmissionRow
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/reports/submissions [get]
func (h *Handler) Submissions(c *gin.Context) {
	h.serve(c, ReportSubmissions)
}

// Businesses godoc
// @Summary Business listing report
// @Tags Reports
// @Produce json,text/csv,application/pdf
// @Param format query string false "json (default), csv, excel or pdf"
// @Param status query string false "active or inactive"
// @Param date_range query string false "all (default), daily, weekly, monthly, yearly or custom"
// @Param start_date query string false "YYYY-MM-DD, custom range only"
// @Param end_date query string false "YYYY-MM-DD, custom range only"
// @Success 200 {array} BusinessRow
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/reports/businesses [get]
func (h *Handler) Businesses(c *gin.Context) {
	h.serve(c, ReportBusinesses)
}
