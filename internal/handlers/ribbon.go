package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/services"
)

type RibbonHandler struct {
	Ribbons *services.RibbonService
}

type RibbonRequest struct {
	Label string `json:"label" form:"label"`
	Color string `json:"color" form:"color"`
}

func (h *RibbonHandler) Create(ctx *gin.Context) {
	var body RibbonRequest

	if err := ctx.ShouldBind(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	ribbon, err := h.Ribbons.Create(ctx.Request.Context(), body.Label, body.Color)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Ribbon created", "data": ribbon})
}

func (h *RibbonHandler) List(ctx *gin.Context) {
	ribbons, err := h.Ribbons.List(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": ribbons})
}

func (h *RibbonHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	ribbon, err := h.Ribbons.Get(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": ribbon})
}

func (h *RibbonHandler) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var body RibbonRequest

	if err := ctx.ShouldBind(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	ribbon, err := h.Ribbons.Update(ctx.Request.Context(), id, body.Label, body.Color)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Ribbon updated", "data": ribbon})
}

func (h *RibbonHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.Ribbons.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Ribbon deleted"})
}
