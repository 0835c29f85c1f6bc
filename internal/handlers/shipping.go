package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/services"
)

type ShippingHandler struct {
	Shipping *services.ShippingService
}

func (h *ShippingHandler) Locations(ctx *gin.Context) {
	locations, err := h.Shipping.ListLocations(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, locations)
}
