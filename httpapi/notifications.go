package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resolveit/notification"
)

func (h *Handler) listNotifications(space notification.Space) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.Notifications.List(c.Request.Context(), space, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []notification.Notification{}
		}
		c.JSON(http.StatusOK, items)
	}
}

func (h *Handler) unreadCount(space notification.Space) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := h.Notifications.UnreadCount(c.Request.Context(), space, currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

func (h *Handler) markRead(space notification.Space) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.Notifications.MarkRead(c.Request.Context(), space, c.Param("id"), currentUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
	}
}

func (h *Handler) markAllRead(space notification.Space) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.Notifications.MarkAllRead(c.Request.Context(), space, currentUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "all notifications marked read"})
	}
}
