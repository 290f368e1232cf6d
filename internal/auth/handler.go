package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

func respondAuthErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
	}
}

// Login godoc
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginInput true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.IPAddress = c.GetString("client_ip")

	pair, user, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		respondAuthErr(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{TokenPair: *pair, User: user})
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshInput true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var in RefreshInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.service.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		respondAuthErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

// Me godoc
// @Summary Current admin
// @Tags Auth
// @Produce json
// @Success 200 {object} User
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateAdmin godoc
// @Summary Create an admin account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body CreateAdminInput true "Admin"
// @Success 201 {object} User
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /superadmin/admins [post]
func (h *Handler) CreateAdmin(c *gin.Context) {
	var in CreateAdminInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.service.CreateAdmin(c.Request.Context(), in, c.GetString("actor"), c.GetString("client_ip"))
	if err != nil {
		respondAuthErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListAdmins godoc
// @Summary List admin accounts
// @Tags Auth
// @Produce json
// @Success 200 {array} User
// @Security BearerAuth
// @Router /superadmin/admins [get]
func (h *Handler) ListAdmins(c *gin.Context) {
	users, err := h.service.ListAdmins(c.Request.Context())
	if err != nil {
		respondAuthErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

// UpdateAdminStatus godoc
// @Summary Activate or deactivate an admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body UpdateStatusInput true "Status"
// @Success 200 {object} User
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /superadmin/admins/{id}/status [patch]
func (h *Handler) UpdateAdminStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var in UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.service.UpdateAdminStatus(c.Request.Context(), uint(id), in.Status,
		c.GetUint("user_id"), c.GetString("actor"), c.GetString("client_ip"))
	if err != nil {
		respondAuthErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
