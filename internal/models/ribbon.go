package models

type Ribbon struct {
	BaseModel

	Label string `gorm:"not null" json:"label"`
	Color string `json:"color"` // always #rrggbb
}
