package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB *gorm.DB
}

func (h *HealthHandler) Check(c *gin.Context) {
	status, code, dbStatus := "ok", http.StatusOK, "up"

	sqlDB, err := h.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		err = sqlDB.PingContext(ctx)
		cancel()
	}

	if err != nil {
		status, code, dbStatus = "degraded", http.StatusServiceUnavailable, "down"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"message":   "Rolo is running",
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
