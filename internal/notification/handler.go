package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Handler struct {
	Service     *Service
	Broadcaster *Broadcaster
}

func NewHandler(s *Service, b *Broadcaster) *Handler {
	return &Handler{Service: s, Broadcaster: b}
}

// ListLogs godoc
// @Summary Notification delivery log
// @Tags Notifications
// @Produce json
// @Param submission_id query int false "Submission ID"
// @Param channel query string false "email, push or stream"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} NotificationLog
// @Security BearerAuth
// @Router /admin/notifications [get]
func (h *Handler) ListLogs(c *gin.Context) {
	f := LogFilter{Channel: c.Query("channel")}
	if v, err := strconv.ParseUint(c.Query("submission_id"), 10, 32); err == nil {
		id := uint(v)
		f.SubmissionID = &id
	}
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	logs, err := h.Service.ListLogs(c.Request.Context(), f)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// RegisterDevice godoc
// @Summary Subscribe an admin device to push notifications
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body object true "{\"device_token\": \"...\"}"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/notifications/devices [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
	var req struct {
		DeviceToken string `json:"device_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.RegisterAdminDevice(c.Request.Context(), req.DeviceToken); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device registered"})
}

// Stream godoc
// @Summary Live admin notifications (server-sent events)
// @Tags Notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Router /admin/notifications/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	if !h.Broadcaster.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live notifications are not available"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	sub := h.Broadcaster.Subscribe(ctx)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return
	}

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: submission\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		case <-h.Broadcaster.Done():
			return
		}
	}
}
