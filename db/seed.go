package db

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/rolo-dev/rolo/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed locations.yaml
var defaultLocations []byte

type locationFile struct {
	Locations []models.DeliveryLocation `yaml:"locations"`
}

func ParseLocations(data []byte) ([]models.DeliveryLocation, error) {
	var f locationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse locations: %w", err)
	}

	for i, loc := range f.Locations {
		if loc.Name == "" || loc.District == "" {
			return nil, fmt.Errorf("location %d: name and district are required", i)
		}
	}

	return f.Locations, nil
}

// SeedLocations loads the bundled delivery locations when the table is empty.
func SeedLocations(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.DeliveryLocation{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count locations: %w", err)
	}
	if count > 0 {
		return nil
	}

	locations, err := ParseLocations(defaultLocations)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return nil
	}

	if err := conn.Create(&locations).Error; err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	log.Printf("[DB] Seeded %d delivery locations", len(locations))
	return nil
}
