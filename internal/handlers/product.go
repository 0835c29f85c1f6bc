package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/services"
)

type ProductHandler struct {
	Products *services.ProductService
	Uploads  ImageStore
}

// ProductForm is the multipart body of create and update.
type ProductForm struct {
	Name          string   `form:"name"`
	Description   string   `form:"description"`
	Price         float64  `form:"price"`
	OriginalPrice float64  `form:"originalPrice"`
	Quantity      int      `form:"quantity"`
	CategoryID    uint     `form:"categoryId"`
	RibbonID      string   `form:"ribbonId"`
	Featured      bool     `form:"featured"`
	Features      []string `form:"features"`
	Material      string   `form:"material"`
	Origin        string   `form:"origin"`
	Care          string   `form:"care"`
	Warranty      string   `form:"warranty"`
}

// features accepts repeated fields or a single JSON array.
func (f ProductForm) features() []string {
	if len(f.Features) == 1 && strings.HasPrefix(strings.TrimSpace(f.Features[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(f.Features[0]), &list); err == nil {
			return list
		}
	}

	out := make([]string, 0, len(f.Features))
	for _, v := range f.Features {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (f ProductForm) input() (services.ProductInput, bool) {
	in := services.ProductInput{
		Name:          f.Name,
		Description:   f.Description,
		Price:         f.Price,
		OriginalPrice: f.OriginalPrice,
		Quantity:      f.Quantity,
		CategoryID:    f.CategoryID,
		Featured:      f.Featured,
		Features:      f.features(),
		Material:      f.Material,
		Origin:        f.Origin,
		Care:          f.Care,
		Warranty:      f.Warranty,
	}

	if v := strings.TrimSpace(f.RibbonID); v != "" && v != "null" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return in, false
		}
		ribbonID := uint(id)
		in.RibbonID = &ribbonID
	}

	return in, true
}

func (h *ProductHandler) bind(ctx *gin.Context) (services.ProductInput, services.ProductImages, bool) {
	var form ProductForm

	if err := ctx.ShouldBind(&form); err != nil {
		badRequest(ctx, "Invalid product fields")
		return services.ProductInput{}, services.ProductImages{}, false
	}

	in, ok := form.input()
	if !ok {
		badRequest(ctx, "Invalid ribbonId")
		return in, services.ProductImages{}, false
	}

	primary, err := saveImage(ctx, h.Uploads, "image")
	if err != nil {
		respondError(ctx, err)
		return in, services.ProductImages{}, false
	}

	extra, err := saveImages(ctx, h.Uploads, "extraImages")
	if err != nil {
		discardImages(h.Uploads, primary)
		respondError(ctx, err)
		return in, services.ProductImages{}, false
	}

	return in, services.ProductImages{Primary: primary, Extra: extra}, true
}

func (h *ProductHandler) Create(ctx *gin.Context) {
	in, images, ok := h.bind(ctx)
	if !ok {
		return
	}

	product, err := h.Products.Create(ctx.Request.Context(), in, images)

	if err != nil {
		discardImages(h.Uploads, append([]string{images.Primary}, images.Extra...)...)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created", "data": product})
}

func (h *ProductHandler) List(ctx *gin.Context) {
	var filter services.ProductFilter

	if v := ctx.Query("categoryId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			badRequest(ctx, "Invalid categoryId")
			return
		}
		filter.CategoryID = uint(id)
	}

	if v := ctx.Query("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(ctx, "Invalid featured flag")
			return
		}
		filter.Featured = &featured
	}

	filter.Query = ctx.Query("q")

	products, err := h.Products.List(ctx.Request.Context(), filter)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (h *ProductHandler) Featured(ctx *gin.Context) {
	products, err := h.Products.ListFeatured(ctx.Request.Context())

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (h *ProductHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	product, err := h.Products.Get(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

func (h *ProductHandler) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	in, images, ok := h.bind(ctx)
	if !ok {
		return
	}

	product, err := h.Products.Update(ctx.Request.Context(), id, in, images)

	if err != nil {
		discardImages(h.Uploads, append([]string{images.Primary}, images.Extra...)...)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated", "data": product})
}

func (h *ProductHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.Products.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}
