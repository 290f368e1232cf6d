package catalog

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
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func respondErr(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}

// ListCategories godoc
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {array} Category
// @Router /categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	out, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param body body CategoryInput true "Category"
// @Success 201 {object} Category
// @Security BearerAuth
// @Router /admin/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var in CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.service.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body CategoryInput true "Category"
// @Success 200 {object} Category
// @Security BearerAuth
// @Router /admin/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.service.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListZones godoc
// @Summary List zones
// @Tags Catalog
// @Produce json
// @Success 200 {array} Zone
// @Router /zones [get]
func (h *Handler) ListZones(c *gin.Context) {
	out, err := h.service.ListZones(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// @Summary Create a zone
// @Tags Catalog
// @Accept json
// @Produce json
// @Param body body ZoneInput true "Zone"
// @Success 201 {object} Zone
// @Security BearerAuth
// @Router /admin/zones [post]
func (h *Handler) CreateZone(c *gin.Context) {
	var in ZoneInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.service.CreateZone(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// @Summary Update a zone
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Zone ID"
// @Param body body ZoneInput true "Zone"
// @Success 200 {object} Zone
// @Security BearerAuth
// @Router /admin/zones/{id} [put]
func (h *Handler) UpdateZone(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in ZoneInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.service.UpdateZone(c.Request.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListPlans godoc
// @Summary List active business plans
// @Tags Catalog
// @Produce json
// @Success 200 {array} BusinessPlan
// @Router /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	out, err := h.service.ListPlans(c.Request.Context(), true)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// @Summary Create a business plan
// @Tags Catalog
// @Accept json
// @Produce json
// @Param body body PlanInput true "Plan"
// @Success 201 {object} BusinessPlan
// @Security BearerAuth
// @Router /admin/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var in PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.service.CreatePlan(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// @Summary Update a business plan
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param body body PlanInput true "Plan"
// @Success 200 {object} BusinessPlan
// @Security BearerAuth
// @Router /admin/plans/{id} [put]
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := h.service.UpdatePlan(c.Request.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UploadMedia godoc
// @Summary Upload an image
// @Description Multipart upload, field name "file". Accepts jpeg, png, webp and gif.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} Media
// @Failure 400 {object} map[string]string
// @Router /media [post]
func (h *Handler) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	m, err := h.service.UploadMedia(c.Request.Context(), file)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}
