package services

import (
	"context"

	"github.com/rolo-dev/rolo/internal/models"
	"gorm.io/gorm"
)

type ShippingService struct {
	db *gorm.DB
}

func NewShippingService(db *gorm.DB) *ShippingService {
	return &ShippingService{db: db}
}

// ListLocations returns every delivery location ordered by district, then name.
func (s *ShippingService) ListLocations(ctx context.Context) ([]models.DeliveryLocation, error) {
	locations := []models.DeliveryLocation{}

	err := s.db.WithContext(ctx).Order("district ASC").Order("name ASC").Find(&locations).Error
	if err != nil {
		return nil, dbErr("list delivery locations", err)
	}

	return locations, nil
}
