package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/mailer"
	"github.com/rolo-dev/rolo/internal/models"
	"gorm.io/gorm"
)

type OrderService struct {
	db       *gorm.DB
	notifier Notifier
	mail     MailQueue
}

// NewOrderService wires the order flow. notifier and mail may be nil, in
// which case the corresponding side effects are skipped.
func NewOrderService(db *gorm.DB, notifier Notifier, mail MailQueue) *OrderService {
	return &OrderService{db: db, notifier: notifier, mail: mail}
}

type OrderLine struct {
	ProductID uint
	Name      string
	Quantity  int
	Price     float64
}

type CreateOrderInput struct {
	Firstname   string
	Lastname    string
	PhoneNo     string
	City        string
	Street      string
	Items       []OrderLine
	TotalAmount float64
}

type OrderFilter struct {
	DeliveryStatus string
	PaymentStatus  string
	UserID         uint
}

// StatusUpdate carries the axes to change. Nil means unchanged.
type StatusUpdate struct {
	DeliveryStatus *string
	PaymentStatus  *string
}

func (in *CreateOrderInput) validate() error {
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	in.PhoneNo = strings.TrimSpace(in.PhoneNo)
	in.City = strings.TrimSpace(in.City)
	in.Street = strings.TrimSpace(in.Street)

	if in.Firstname == "" || in.Lastname == "" || in.PhoneNo == "" || in.City == "" || in.Street == "" {
		return apperr.Validation("Shipping details are required")
	}
	if len(in.Items) == 0 {
		return apperr.Validation("Order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return apperr.Validation("Each item needs a product and a positive quantity")
		}
	}
	if in.TotalAmount < 0 {
		return apperr.Validation("Total amount cannot be negative")
	}

	return nil
}

// CreateOrder persists the order and decrements stock for every line in one
// transaction. Either the order exists and every decrement happened, or
// nothing changed.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, in CreateOrderInput) (*models.Order, error) {
	if userID == 0 {
		return nil, apperr.Auth("User not authenticated")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	// first-appearance order so decrements are applied deterministically
	var productIDs []uint
	requested := map[uint]int{}
	for _, it := range in.Items {
		if _, seen := requested[it.ProductID]; !seen {
			productIDs = append(productIDs, it.ProductID)
		}
		requested[it.ProductID] += it.Quantity
	}

	order := models.Order{
		UserID:         userID,
		Firstname:      in.Firstname,
		Lastname:       in.Lastname,
		PhoneNo:        in.PhoneNo,
		City:           in.City,
		Street:         in.Street,
		TotalAmount:    in.TotalAmount,
		DeliveryStatus: models.DeliveryPending,
		PaymentStatus:  models.PaymentPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []models.Product
		if err := tx.Where("id IN ?", productIDs).Find(&found).Error; err != nil {
			return dbErr("load order products", err)
		}

		products := make(map[uint]models.Product, len(found))
		for _, p := range found {
			products[p.ID] = p
		}

		for _, id := range productIDs {
			p, ok := products[id]
			if !ok {
				log.Printf("[ORDER] Product %d not found, skipping stock update", id)
				continue
			}
			if p.Quantity < requested[id] {
				return apperr.InsufficientStock(p.Name)
			}
		}

		if err := tx.Omit("Items", "User").Create(&order).Error; err != nil {
			return dbErr("create order", err)
		}

		items := make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  it.Quantity,
				Price:     it.Price,
			}
			if p, ok := products[it.ProductID]; ok {
				item.Name = p.Name
				item.Price = p.Price
			}
			items = append(items, item)
		}

		if err := tx.Omit("Product").Create(&items).Error; err != nil {
			return dbErr("create order items", err)
		}

		for _, id := range productIDs {
			p, ok := products[id]
			if !ok {
				continue
			}

			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", id, requested[id]).
				Update("quantity", gorm.Expr("quantity - ?", requested[id]))
			if res.Error != nil {
				return dbErr("decrement stock", res.Error)
			}
			if res.RowsAffected == 0 {
				// stock moved since the check above
				return apperr.InsufficientStock(p.Name)
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.orderPlaced(ctx, &order)

	return &order, nil
}

func (s *OrderService) orderPlaced(ctx context.Context, order *models.Order) {
	ref := order.ShortID()

	notify(ctx, s.notifier, order.UserID,
		fmt.Sprintf("Your order #%s has been successfully placed.", ref),
		orderLink(order.ID), models.NotificationOrder)

	s.sendMail(ctx, order.UserID, func(u *models.User) mailer.Message {
		return mailer.OrderPlaced(u.Email, customerName(u), ref, order.TotalAmount)
	})
}

func orderLink(id uint) string {
	return fmt.Sprintf("/profile/orders/%d", id)
}

func customerName(u *models.User) string {
	if u.FirstName == "" {
		return "Valued Customer"
	}
	return u.FirstName
}

// sendMail looks up the recipient and queues the message built by build.
// Every failure is logged and swallowed.
func (s *OrderService) sendMail(ctx context.Context, userID uint, build func(*models.User) mailer.Message) {
	if s.mail == nil {
		return
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		log.Printf("[ORDER] Cannot email user %d: %v", userID, err)
		return
	}

	if !s.mail.Enqueue(build(&user)) {
		log.Printf("[ORDER] Email for user %d was not queued", userID)
	}
}

func listOrders(ctx context.Context, db *gorm.DB, f OrderFilter) ([]OrderView, error) {
	q := db.WithContext(ctx).Preload("Items")

	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.DeliveryStatus != "" {
		q = q.Where("delivery_status = ?", f.DeliveryStatus)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, dbErr("list orders", err)
	}

	return buildOrderViews(ctx, db, orders)
}

func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) ([]OrderView, error) {
	if f.DeliveryStatus != "" {
		if _, err := models.ParseDeliveryStatus(f.DeliveryStatus); err != nil {
			return nil, apperr.Validation("Invalid delivery status")
		}
	}
	if f.PaymentStatus != "" {
		if _, err := models.ParsePaymentStatus(f.PaymentStatus); err != nil {
			return nil, apperr.Validation("Invalid payment status")
		}
	}

	return listOrders(ctx, s.db, f)
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID uint) ([]OrderView, error) {
	return listOrders(ctx, s.db, OrderFilter{UserID: userID})
}

func (s *OrderService) find(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, lookupErr(err, "Order not found", "find order")
	}
	return &order, nil
}

func (s *OrderService) view(ctx context.Context, order *models.Order) (*OrderView, error) {
	views, err := buildOrderViews(ctx, s.db, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*OrderView, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, order)
}

// GetOrderForUser is GetOrder restricted to the order's owner.
func (s *OrderService) GetOrderForUser(ctx context.Context, id, userID uint) (*OrderView, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.Forbidden("Not authorized to view this order.")
	}
	return s.view(ctx, order)
}

// DeleteOrder removes the order and its items. Stock is not restored.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Delete(&models.Order{}, id)
		if res.Error != nil {
			return dbErr("delete order", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Order not found")
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return dbErr("delete order items", err)
		}

		return nil
	})
}

// UpdateOrderStatus moves the order along either status axis. Notifications
// and email about the change are best-effort.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, upd StatusUpdate) (*OrderView, error) {
	if upd.DeliveryStatus == nil && upd.PaymentStatus == nil {
		return nil, apperr.Validation("deliveryStatus or paymentStatus is required")
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	prevDelivery, prevPayment := order.DeliveryStatus, order.PaymentStatus

	if upd.DeliveryStatus != nil {
		next, err := models.ParseDeliveryStatus(*upd.DeliveryStatus)
		if err != nil {
			return nil, apperr.Validation("Invalid delivery status")
		}
		if !order.DeliveryStatus.CanTransition(next) {
			return nil, apperr.Validation(fmt.Sprintf("Cannot change delivery status from %s to %s", order.DeliveryStatus, next))
		}
		changes["delivery_status"] = next
		order.DeliveryStatus = next
	}

	if upd.PaymentStatus != nil {
		next, err := models.ParsePaymentStatus(*upd.PaymentStatus)
		if err != nil {
			return nil, apperr.Validation("Invalid payment status")
		}
		if !order.PaymentStatus.CanTransition(next) {
			return nil, apperr.Validation(fmt.Sprintf("Cannot change payment status from %s to %s", order.PaymentStatus, next))
		}
		changes["payment_status"] = next
		order.PaymentStatus = next
	}

	// Only applies while both statuses still hold the values checked above.
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND delivery_status = ? AND payment_status = ?", order.ID, prevDelivery, prevPayment).
		Updates(changes)
	if res.Error != nil {
		return nil, dbErr("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.find(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("Order status changed, please retry")
	}

	ref := order.ShortID()

	if prevPayment == models.PaymentPending && order.PaymentStatus == models.PaymentPaid {
		notify(ctx, s.notifier, order.UserID,
			fmt.Sprintf("Payment for your order #%s has been confirmed.", ref),
			orderLink(order.ID), models.NotificationOrder)
		s.sendMail(ctx, order.UserID, func(u *models.User) mailer.Message {
			return mailer.PaymentConfirmed(u.Email, customerName(u), ref)
		})
	}

	if prevDelivery != order.DeliveryStatus {
		notify(ctx, s.notifier, order.UserID,
			fmt.Sprintf("Your order #%s is now %s.", ref, order.DeliveryStatus),
			orderLink(order.ID), models.NotificationOrder)
	}

	return s.view(ctx, order)
}
