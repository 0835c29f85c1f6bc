package models

import "fmt"

type Role string

const (
	RoleNormal Role = "normal"
	RoleAdmin  Role = "admin"
)

// ParseRole maps an optional role string onto the closed set of roles.
// An empty string yields RoleNormal.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "", RoleNormal:
		return RoleNormal, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	BaseModel

	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Role      Role   `gorm:"not null;default:normal" json:"role"`

	// Relationships
	Orders        []Order        `gorm:"foreignKey:UserID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
