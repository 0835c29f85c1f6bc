package models

type Category struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Filepath string `json:"filepath"`
}
