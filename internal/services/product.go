package services

import (
	"context"
	"strings"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	OriginalPrice float64
	Quantity      int
	CategoryID    uint
	RibbonID      *uint
	Featured      bool
	Features      []string
	Material      string
	Origin        string
	Care          string
	Warranty      string
}

// ProductImages holds stored upload paths. Empty values mean "not supplied".
type ProductImages struct {
	Primary string
	Extra   []string
}

type ProductFilter struct {
	CategoryID uint
	Featured   *bool
	Query      string
}

func (in *ProductInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Name == "" || in.Description == "":
		return apperr.Validation("Name and description are required")
	case in.OriginalPrice <= 0:
		return apperr.Validation("Original price must be greater than zero")
	case in.Price < 0:
		return apperr.Validation("Price cannot be negative")
	case in.Quantity < 0:
		return apperr.Validation("Quantity cannot be negative")
	case in.CategoryID == 0:
		return apperr.Validation("Category is required")
	}

	return nil
}

func (s *ProductService) checkRefs(ctx context.Context, in ProductInput) error {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", in.CategoryID).Count(&count).Error; err != nil {
		return dbErr("check category", err)
	}
	if count == 0 {
		return apperr.Validation("Category does not exist")
	}

	if in.RibbonID == nil {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Ribbon{}).Where("id = ?", *in.RibbonID).Count(&count).Error; err != nil {
		return dbErr("check ribbon", err)
	}
	if count == 0 {
		return apperr.Validation("Ribbon does not exist")
	}

	return nil
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.Quantity = in.Quantity
	p.CategoryID = in.CategoryID
	p.RibbonID = in.RibbonID
	p.Featured = in.Featured
	p.Features = datatypes.JSONSlice[string](nonNil(in.Features))
	p.Material = in.Material
	p.Origin = in.Origin
	p.Care = in.Care
	p.Warranty = in.Warranty
	p.ApplyPricing()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *ProductService) Create(ctx context.Context, in ProductInput, images ProductImages) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if images.Primary == "" {
		return nil, apperr.Validation("Product image is required")
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	var p models.Product
	in.apply(&p)
	p.Filepath = images.Primary
	p.ExtraImages = datatypes.JSONSlice[string](nonNil(images.Extra))

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, dbErr("create product", err)
	}

	return s.Get(ctx, p.ID)
}

// Update replaces every field of the product and recomputes the discount.
// Images are replaced only when new ones are supplied.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput, images ProductImages) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	in.apply(p)
	if images.Primary != "" {
		p.Filepath = images.Primary
	}
	if len(images.Extra) > 0 {
		p.ExtraImages = datatypes.JSONSlice[string](images.Extra)
	}

	p.Category = nil
	p.Ribbon = nil

	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, dbErr("update product", err)
	}

	return s.Get(ctx, id)
}

func (s *ProductService) find(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr(err, "Product not found", "find product")
	}
	return &p, nil
}

func (s *ProductService) withRefs(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category").Preload("Ribbon")
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.withRefs(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr(err, "Product not found", "find product")
	}
	return &p, nil
}

func (s *ProductService) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.withRefs(ctx)

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if v := strings.TrimSpace(f.Query); v != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(v)+"%")
	}

	products := []models.Product{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&products).Error; err != nil {
		return nil, dbErr("list products", err)
	}

	return products, nil
}

func (s *ProductService) ListFeatured(ctx context.Context) ([]models.Product, error) {
	featured := true
	return s.List(ctx, ProductFilter{Featured: &featured})
}

// Delete leaves orders that reference the product untouched.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return dbErr("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Product not found")
	}
	return nil
}
