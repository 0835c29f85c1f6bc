package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/services"
)

type CategoryHandler struct {
	Categories *services.CategoryService
	Uploads    ImageStore
}

func (h *CategoryHandler) Create(ctx *gin.Context) {
	filepath, err := saveImage(ctx, h.Uploads, "image")

	if err != nil {
		respondError(ctx, err)
		return
	}

	category, err := h.Categories.Create(ctx.Request.Context(), ctx.PostForm("name"), filepath)

	if err != nil {
		discardImages(h.Uploads, filepath)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Category created", "data": category})
}

func (h *CategoryHandler) List(ctx *gin.Context) {
	categories, err := h.Categories.List(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

func (h *CategoryHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	category, err := h.Categories.Get(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

func (h *CategoryHandler) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	filepath, err := saveImage(ctx, h.Uploads, "image")

	if err != nil {
		respondError(ctx, err)
		return
	}

	category, err := h.Categories.Update(ctx.Request.Context(), id, ctx.PostForm("name"), filepath)

	if err != nil {
		discardImages(h.Uploads, filepath)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Category updated", "data": category})
}

func (h *CategoryHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.Categories.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}
