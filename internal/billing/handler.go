package billing

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

// Checkout godoc
// @Summary Start a plan checkout
// @Description Creates a Razorpay order for a paid plan.
// @Tags Billing
// @Accept json
// @Produce json
// @Param body body CheckoutRequest true "Checkout"
// @Success 201 {object} CheckoutResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /billing/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.IPAddress = c.GetString("client_ip")

	resp, err := h.service.StartCheckout(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Verify godoc
// @Summary Verify a plan payment
// @Tags Billing
// @Accept json
// @Produce json
// @Param body body VerifyPaymentRequest true "Razorpay callback fields"
// @Success 200 {object} PlanPayment
// @Failure 400 {object} map[string]string
// @Router /billing/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.IPAddress = c.GetString("client_ip")

	payment, err := h.service.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListPayments godoc
// @Summary Plan payments of a business
// @Tags Billing
// @Produce json
// @Param id path int true "Business ID"
// @Success 200 {array} PlanPayment
// @Security BearerAuth
// @Router /admin/businesses/{id}/payments [get]
func (h *Handler) ListPayments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business id"})
		return
	}
	payments, err := h.service.ListPayments(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, payments)
}
