package promotion

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ActiveOffers godoc
// @Summary Running offers of a business
// @Tags Promotions
// @Produce json
// @Param id path int true "Business ID"
// @Success 200 {array} Offer
// @Failure 404 {object} map[string]string
// @Router /businesses/{id}/offers [get]
func (h *Handler) ActiveOffers(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	offers, err := h.Service.ActiveOffers(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, offers)
}

// ActiveAds godoc
// @Summary Running ads for a placement
// @Tags Promotions
// @Produce json
// @Param placement query string false "home_banner (default), listing_sidebar or zone_top"
// @Param zone_id query int false "Zone ID"
// @Success 200 {array} Ad
// @Router /ads [get]
func (h *Handler) ActiveAds(c *gin.Context) {
	placement := c.DefaultQuery("placement", PlacementHomeBanner)
	var zoneID *uint
	if v, err := strconv.ParseUint(c.Query("zone_id"), 10, 32); err == nil && v > 0 {
		z := uint(v)
		zoneID = &z
	}

	ads, err := h.Service.ActiveAds(c.Request.Context(), placement, zoneID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, ads)
}

// CreateOffer godoc
// @Summary Create an offer
// @Tags Promotions
// @Accept json
// @Produce json
// @Param body body CreateOfferRequest true "Offer"
// @Success 201 {object} Offer
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/offers [post]
func (h *Handler) CreateOffer(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offer, err := h.Service.CreateOffer(c.Request.Context(), req, c.GetString("actor"), c.GetString("client_ip"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, offer)
}

// DeactivateOffer godoc
// @Summary Deactivate an offer
// @Tags Promotions
// @Param id path int true "Offer ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/offers/{id}/deactivate [patch]
func (h *Handler) DeactivateOffer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Service.DeactivateOffer(c.Request.Context(), id, c.GetString("actor"), c.GetString("client_ip")); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "offer deactivated"})
}

// CreateAd godoc
// @Summary Create an ad
// @Tags Promotions
// @Accept json
// @Produce json
// @Param body body CreateAdRequest true "Ad"
// @Success 201 {object} Ad
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /admin/ads [post]
func (h *Handler) CreateAd(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ad, err := h.Service.CreateAd(c.Request.Context(), req, c.GetString("actor"), c.GetString("client_ip"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// DeactivateAd godoc
// @Summary Deactivate an ad
// @Tags Promotions
// @Param id path int true "Ad ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/ads/{id}/deactivate [patch]
func (h *Handler) DeactivateAd(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Service.DeactivateAd(c.Request.Context(), id, c.GetString("actor"), c.GetString("client_ip")); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ad deactivated"})
}
