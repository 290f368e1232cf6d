package business

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

func queryUint(c *gin.Context, key string) *uint {
	if v, err := strconv.ParseUint(c.Query(key), 10, 32); err == nil && v > 0 {
		u := uint(v)
		return &u
	}
	return nil
}

func queryBool(c *gin.Context, key string) *bool {
	if v, err := strconv.ParseBool(c.Query(key)); err == nil {
		return &v
	}
	return nil
}

func filterFromQuery(c *gin.Context) Filter {
	f := Filter{
		ZoneID:           queryUint(c, "zone_id"),
		ZoneSlug:         c.Query("zone"),
		CategoryID:       queryUint(c, "category_id"),
		CategorySlug:     c.Query("category"),
		Search:           c.Query("q"),
		Featured:         queryBool(c, "featured"),
		SupportsDelivery: queryBool(c, "supports_delivery"),
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	return f
}

// List godoc
// @Summary List businesses
// @Description Active listings, featured first. Filter by zone / category id or slug, search text and flags.
// @Tags Businesses
// @Produce json
// @Param zone_id query int false "Zone ID"
// @Param zone query string false "Zone slug"
// @Param category_id query int false "Category ID"
// @Param category query string false "Category slug"
// @Param q query string false "Search in name, description and address"
// @Param featured query bool false "Only featured"
// @Param supports_delivery query bool false "Only businesses that deliver"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} Page
// @Router /businesses [get]
func (h *Handler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, page)
}

// AdminList is List including inactive listings.
// @Summary List all businesses (admin)
// @Tags Businesses
// @Produce json
// @Success 200 {object} Page
// @Security BearerAuth
// @Router /admin/businesses [get]
func (h *Handler) AdminList(c *gin.Context) {
	f := filterFromQuery(c)
	f.IncludeInactive = true
	page, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get a business
// @Tags Businesses
// @Produce json
// @Param id path int true "Business ID"
// @Success 200 {object} Business
// @Failure 404 {object} map[string]string
// @Router /businesses/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business id"})
		return
	}
	b, err := h.service.Get(c.Request.Context(), uint(id), false)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateFlags godoc
// @Summary Update operational flags of a business
// @Tags Businesses
// @Accept json
// @Produce json
// @Param id path int true "Business ID"
// @Param body body FlagsUpdate true "Flags"
// @Success 200 {object} Business
// @Security BearerAuth
// @Router /admin/businesses/{id} [patch]
func (h *Handler) UpdateFlags(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business id"})
		return
	}
	var in FlagsUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.UpdateFlags(c.Request.Context(), uint(id), in, c.GetString("actor"), c.GetString("client_ip"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, b)
}
