package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/realtime"
)

type WSHandler struct {
	Hub *realtime.Hub
}

// Notifications streams new notifications for the authenticated user.
func (h *WSHandler) Notifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	h.Hub.Serve(c.Writer, c.Request, user.ID)
}
