package models

import "fmt"

type NotificationCategory string

const (
	NotificationOrder     NotificationCategory = "order"
	NotificationPromotion NotificationCategory = "promotion"
	NotificationAccount   NotificationCategory = "account"
	NotificationGeneral   NotificationCategory = "general"
)

func ParseNotificationCategory(s string) (NotificationCategory, error) {
	switch c := NotificationCategory(s); c {
	case "":
		return NotificationGeneral, nil
	case NotificationOrder, NotificationPromotion, NotificationAccount, NotificationGeneral:
		return c, nil
	default:
		return "", fmt.Errorf("unknown notification category %q", s)
	}
}

type Notification struct {
	BaseModel

	UserID   uint                 `gorm:"not null;index" json:"userId"`
	Message  string               `gorm:"not null" json:"message"`
	Link     string               `json:"link,omitempty"`
	IsRead   bool                 `gorm:"not null;default:false" json:"isRead"`
	Category NotificationCategory `gorm:"not null;default:general" json:"category"`
}
