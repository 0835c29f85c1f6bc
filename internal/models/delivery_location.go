package models

type DeliveryLocation struct {
	BaseModel

	Name        string  `gorm:"uniqueIndex;not null" json:"name" yaml:"name"`
	District    string  `gorm:"index;not null" json:"district" yaml:"district"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Code        string  `json:"code,omitempty" yaml:"code"`
	Fare        float64 `gorm:"not null" json:"fare" yaml:"fare"`
}
