package services

import (
	"context"
	"strings"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/color"
	"github.com/rolo-dev/rolo/internal/models"
	"gorm.io/gorm"
)

type RibbonService struct {
	db *gorm.DB
}

func NewRibbonService(db *gorm.DB) *RibbonService {
	return &RibbonService{db: db}
}

func (s *RibbonService) Create(ctx context.Context, label, colour string) (*models.Ribbon, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.TrimSpace(colour) == "" {
		return nil, apperr.Validation("Label and color are required")
	}

	hex, err := color.Normalize(colour)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	r := models.Ribbon{Label: label, Color: hex}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, dbErr("create ribbon", err)
	}

	return &r, nil
}

func (s *RibbonService) List(ctx context.Context) ([]models.Ribbon, error) {
	ribbons := []models.Ribbon{}
	if err := s.db.WithContext(ctx).Order("label ASC").Find(&ribbons).Error; err != nil {
		return nil, dbErr("list ribbons", err)
	}
	return ribbons, nil
}

func (s *RibbonService) Get(ctx context.Context, id uint) (*models.Ribbon, error) {
	var r models.Ribbon
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, lookupErr(err, "Ribbon not found", "find ribbon")
	}
	return &r, nil
}

// Update changes the non-empty fields. The colour is validated before anything is written.
func (s *RibbonService) Update(ctx context.Context, id uint, label, colour string) (*models.Ribbon, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(colour) != "" {
		hex, err := color.Normalize(colour)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		r.Color = hex
	}
	if v := strings.TrimSpace(label); v != "" {
		r.Label = v
	}

	err = s.db.WithContext(ctx).Model(r).Updates(map[string]interface{}{
		"label": r.Label,
		"color": r.Color,
	}).Error
	if err != nil {
		return nil, dbErr("update ribbon", err)
	}

	return r, nil
}

func (s *RibbonService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Ribbon{}, id)
	if res.Error != nil {
		return dbErr("delete ribbon", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Ribbon not found")
	}
	return nil
}
