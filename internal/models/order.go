package models

import "fmt"

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryShipped   DeliveryStatus = "shipped"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending: {DeliveryShipped, DeliveryCancelled},
	DeliveryShipped: {DeliveryDelivered, DeliveryCancelled},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
}

// CanTransition reports whether the delivery axis may move from s to next.
func (s DeliveryStatus) CanTransition(next DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch d := DeliveryStatus(s); d {
	case DeliveryPending, DeliveryShipped, DeliveryDelivered, DeliveryCancelled:
		return d, nil
	default:
		return "", fmt.Errorf("unknown delivery status %q", s)
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(s); p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown payment status %q", s)
	}
}

type Order struct {
	BaseModel

	UserID    uint   `gorm:"not null;index" json:"userId"`
	Firstname string `gorm:"not null" json:"firstname"`
	Lastname  string `gorm:"not null" json:"lastname"`
	PhoneNo   string `gorm:"not null" json:"phoneNo"`
	City      string `gorm:"not null" json:"city"`
	Street    string `gorm:"not null" json:"street"`

	TotalAmount    float64        `gorm:"not null" json:"totalAmount"`
	DeliveryStatus DeliveryStatus `gorm:"not null;default:pending" json:"deliveryStatus"`
	PaymentStatus  PaymentStatus  `gorm:"not null;default:pending" json:"paymentStatus"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	User  *User       `gorm:"foreignKey:UserID" json:"-"`
}

// ShortID is the customer-facing order reference used in messages.
func (o *Order) ShortID() string {
	return fmt.Sprintf("%06d", o.ID)
}

type OrderItem struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"orderId"`
	ProductID uint    `gorm:"not null;index" json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}
