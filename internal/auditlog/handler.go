package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs handles GET /admin/auditlogs
// @Summary Get audit logs
// @Description Retrieve audit logs with optional filters and pagination
// @Tags AuditLog
// @Produce json
// @Param actor query string false "Filter by actor"
// @Param entity_type query string false "Filter by entity type (submission, business, ...)"
// @Param entity_id query int false "Filter by entity ID"
// @Param action query string false "Filter by action (partial match)"
// @Param status query string false "Filter by status"
// @Param from_date query string false "Filter from date (YYYY-MM-DD)"
// @Param to_date query string false "Filter to date (YYYY-MM-DD)"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Number of records per page (default: 20)"
// @Success 200 {object} PaginatedAuditLogs
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/auditlogs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		Actor:      c.Query("actor"),
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
		Status:     c.Query("status"),
		Page:       1,
		Limit:      20,
	}

	if idStr := c.Query("entity_id"); idStr != "" {
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			eid := uint(id)
			filter.EntityID = &eid
		}
	}

	if fromStr := c.Query("from_date"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from_date format. Use YYYY-MM-DD"})
			return
		}
		filter.FromDate = &from
	}
	if toStr := c.Query("to_date"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to_date format. Use YYYY-MM-DD"})
			return
		}
		endOfDay := to.Add(24*time.Hour - time.Second)
		filter.ToDate = &endOfDay
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": "Failed to retrieve audit logs"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAuditLogByID handles GET /admin/auditlogs/:id
// @Summary Get audit log by ID
// @Tags AuditLog
// @Produce json
// @Param id path int true "Audit Log ID"
// @Success 200 {object} AuditLog
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/auditlogs/{id} [get]
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audit log ID"})
		return
	}

	log, err := h.service.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": "Audit log not found"})
		return
	}
	c.JSON(http.StatusOK, log)
}

// GetAuditLogStats handles GET /admin/auditlogs/stats
// @Summary Audit log statistics for the last 7 days
// @Tags AuditLog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/auditlogs/stats [get]
func (h *Handler) GetAuditLogStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context(), time.Now().AddDate(0, 0, -7))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
