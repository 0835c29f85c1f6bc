package services

import (
	"context"
	"strings"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/models"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) Create(ctx context.Context, name, filepath string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}

	c := models.Category{Name: name, Filepath: filepath}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, dbErr("create category", err)
	}

	return &c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, dbErr("list categories", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, lookupErr(err, "Category not found", "find category")
	}
	return &c, nil
}

// Update renames the category. The image is replaced only when filepath is non-empty.
func (s *CategoryService) Update(ctx context.Context, id uint, name, filepath string) (*models.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(name); v != "" {
		c.Name = v
	}
	if filepath != "" {
		c.Filepath = filepath
	}

	err = s.db.WithContext(ctx).Model(c).Updates(map[string]interface{}{
		"name":     c.Name,
		"filepath": c.Filepath,
	}).Error
	if err != nil {
		return nil, dbErr("update category", err)
	}

	return c, nil
}

// Delete leaves products in the category untouched.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return dbErr("delete category", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Category not found")
	}
	return nil
}
