package submission

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return 0, false
	}
	return uint(id), true
}

func respondErr(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}

// Submit godoc
// @Summary Submit a business for listing
// @Description Creates a pending submission that an admin reviews.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param body body SubmitInput true "Application"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /submissions [post]
func (h *Handler) Submit(c *gin.Context) {
	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.IP = c.GetString("client_ip")

	id, err := h.service.SubmitApplication(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"status":  StatusPending,
		"message": "Application submitted. Awaiting review.",
	})
}

// List godoc
// @Summary List submissions
// @Tags Submissions
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param q query string false "Search in name and email"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} Page
// @Security BearerAuth
// @Router /admin/submissions [get]
func (h *Handler) List(c *gin.Context) {
	f := Filter{Status: c.Query("status"), Search: c.Query("q")}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	page, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Counts godoc
// @Summary Submission counts by status
// @Tags Submissions
// @Produce json
// @Success 200 {object} Counts
// @Security BearerAuth
// @Router /admin/submissions/counts [get]
func (h *Handler) Counts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Get godoc
// @Summary Get a submission
// @Tags Submissions
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} PendingBusinessSubmission
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /admin/submissions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sub, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ChangeStatus godoc
// @Summary Change a submission's status
// @Description Moves a submission to pending, approved or rejected, optionally applying field edits. Approving creates the business listing; repeating it returns the same listing.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param body body StatusChange true "Status change"
// @Success 200 {object} ReviewResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/submissions/{id} [patch]
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in StatusChange
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.Actor = c.GetString("actor")
	in.IP = c.GetString("client_ip")

	result, err := h.service.RequestStatusChange(c.Request.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Review godoc
// @Summary Approve or reject a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param body body ReviewInput true "Decision"
// @Success 200 {object} ReviewResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /admin/submissions/{id}/review [patch]
func (h *Handler) Review(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ReviewApplication(c.Request.Context(), id, in.Decision, c.GetString("actor"), in.Reason, c.GetString("client_ip"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
