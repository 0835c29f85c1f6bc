package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	BaseModel

	Name            string  `gorm:"not null" json:"name"`
	Description     string  `gorm:"not null" json:"description"`
	Price           float64 `gorm:"not null" json:"price"`
	OriginalPrice   float64 `gorm:"not null" json:"originalPrice"`
	DiscountPercent int     `json:"discountPercent"`
	YouSave         float64 `json:"youSave"`
	Quantity        int     `gorm:"not null" json:"quantity"`

	Filepath    string                      `gorm:"not null" json:"filepath"`
	ExtraImages datatypes.JSONSlice[string] `json:"extraImages"`
	Features    datatypes.JSONSlice[string] `json:"features"`
	Material    string                      `gorm:"not null;default:''" json:"material"`
	Origin      string                      `gorm:"not null;default:''" json:"origin"`
	Care        string                      `gorm:"not null;default:''" json:"care"`
	Warranty    string                      `gorm:"not null;default:''" json:"warranty"`

	Featured   bool  `gorm:"not null;default:false;index" json:"featured"`
	CategoryID uint  `gorm:"not null;index" json:"categoryId"`
	RibbonID   *uint `json:"ribbonId"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Ribbon   *Ribbon   `gorm:"foreignKey:RibbonID" json:"ribbon,omitempty"`
}

// ApplyPricing derives YouSave and DiscountPercent from the current
// Price/OriginalPrice pair. OriginalPrice must be positive.
func (p *Product) ApplyPricing() {
	price := decimal.NewFromFloat(p.Price)
	original := decimal.NewFromFloat(p.OriginalPrice)

	save := original.Sub(price)
	p.YouSave = save.InexactFloat64()

	if original.IsZero() {
		p.DiscountPercent = 0
		return
	}

	p.DiscountPercent = int(save.Div(original).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
