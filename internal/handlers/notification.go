package handlers

import (
	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	store *store.Store
}

func NewNotificationHandler(s *store.Store) *NotificationHandler {
	return &NotificationHandler{store: s}
}

type notificationRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
	Link    string `json:"link" binding:"omitempty,max=500"`
}

// Create 给自己创建一条通知
func (h *NotificationHandler) Create(c *gin.Context) {
	var in notificationRequest
	if !bind(c, &in) {
		return
	}
	n, err := h.store.CreateNotification(c.Request.Context(), viewer(c), in.Message, in.Link)
	if err != nil {
		fail(c, err)
		return
	}
	respondCreated(c, n)
}

func (h *NotificationHandler) List(c *gin.Context) {
	out, err := h.store.ListNotifications(c.Request.Context(), viewer(c), utils.ClampLimit(c.Query("limit"), 50, 200))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, out)
}

// Read 只能标记自己的通知
func (h *NotificationHandler) Read(c *gin.Context) {
	if err := h.store.MarkRead(c.Request.Context(), c.Param("id"), viewer(c)); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, "Notification marked as read.")
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	n, err := h.store.MarkAllRead(c.Request.Context(), viewer(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, gin.H{"updated": n})
}
