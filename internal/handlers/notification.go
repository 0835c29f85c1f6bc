package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/services"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func (h *NotificationHandler) List(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	notifications, err := h.Notifications.List(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (h *NotificationHandler) UnreadCount(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	count, err := h.Notifications.UnreadCount(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	notification, err := h.Notifications.MarkRead(ctx.Request.Context(), id, user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read", "data": notification})
}

func (h *NotificationHandler) MarkAllRead(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	updated, err := h.Notifications.MarkAllRead(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": updated})
}
