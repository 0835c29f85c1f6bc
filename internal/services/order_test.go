package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	svc   *OrderService
	notes *NotificationService
	mail  *mailRecorder
	user  *models.User
}

func newOrderFixture(t *testing.T) orderFixture {
	t.Helper()
	conn := setupTestDB(t)
	notes := NewNotificationService(conn, nil)
	mail := &mailRecorder{}
	return orderFixture{
		svc:   NewOrderService(conn, notes, mail),
		notes: notes,
		mail:  mail,
		user:  createUser(t, conn, "buyer@example.com", models.RoleNormal),
	}
}

func orderInput(lines ...OrderLine) CreateOrderInput {
	return CreateOrderInput{
		Firstname:   "Asha",
		Lastname:    "Rai",
		PhoneNo:     "9800000000",
		City:        "Kathmandu",
		Street:      "Thamel",
		Items:       lines,
		TotalAmount: 900,
	}
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 20, 450)

	order, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 2, Price: 1, Name: "client name"}))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, models.DeliveryPending, order.DeliveryStatus)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Bowl", order.Items[0].Name)
	assert.Equal(t, 450.0, order.Items[0].Price)

	assert.Equal(t, 18, stockOf(t, f.svc.db, p.ID))

	notes, err := f.notes.List(bg, f.user.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Your order #"+order.ShortID()+" has been successfully placed.", notes[0].Message)
	assert.Equal(t, models.NotificationOrder, notes[0].Category)

	mail := f.mail.messages()
	require.Len(t, mail, 1)
	assert.Equal(t, "buyer@example.com", mail[0].To)
}

func TestCreateOrderInsufficientStockChangesNothing(t *testing.T) {
	f := newOrderFixture(t)
	a := createProduct(t, f.svc.db, "Bowl", 10, 100)
	b := createProduct(t, f.svc.db, "Flag", 1, 50)

	_, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(
		OrderLine{ProductID: a.ID, Quantity: 3},
		OrderLine{ProductID: b.ID, Quantity: 2},
	))
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, "Insufficient stock for Flag", apperr.PublicMessage(err))

	assert.Equal(t, 10, stockOf(t, f.svc.db, a.ID))
	assert.Equal(t, 1, stockOf(t, f.svc.db, b.ID))

	var orders, items int64
	require.NoError(t, f.svc.db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.svc.db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Empty(t, f.mail.messages())
}

func TestCreateOrderAggregatesRepeatedLines(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 5, 100)

	_, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(
		OrderLine{ProductID: p.ID, Quantity: 3},
		OrderLine{ProductID: p.ID, Quantity: 3},
	))
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 5, stockOf(t, f.svc.db, p.ID))

	_, err = f.svc.CreateOrder(bg, f.user.ID, orderInput(
		OrderLine{ProductID: p.ID, Quantity: 2},
		OrderLine{ProductID: p.ID, Quantity: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, f.svc.db, p.ID))
}

func TestCreateOrderKeepsMissingProductLine(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 5, 100)

	order, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(
		OrderLine{ProductID: p.ID, Quantity: 1},
		OrderLine{ProductID: 9999, Quantity: 4, Name: "Ghost", Price: 12},
	))
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Ghost", order.Items[1].Name)
	assert.Equal(t, 12.0, order.Items[1].Price)
	assert.Equal(t, 4, stockOf(t, f.svc.db, p.ID))

	view, err := f.svc.GetOrder(bg, order.ID)
	require.NoError(t, err)
	assert.True(t, view.Items[1].Product.Deleted)
	assert.Equal(t, DeletedProductName, view.Items[1].Product.Name)
	assert.False(t, view.Items[0].Product.Deleted)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 5, 100)

	_, err := f.svc.CreateOrder(bg, f.user.ID, orderInput())
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 0}))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in := orderInput(OrderLine{ProductID: p.ID, Quantity: 1})
	in.City = ""
	_, err = f.svc.CreateOrder(bg, f.user.ID, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in = orderInput(OrderLine{ProductID: p.ID, Quantity: 1})
	in.TotalAmount = -1
	_, err = f.svc.CreateOrder(bg, f.user.ID, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Equal(t, 5, stockOf(t, f.svc.db, p.ID))
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 5, 100)

	const buyers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 1}))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, stockOf(t, f.svc.db, p.ID))

	var orders int64
	require.NoError(t, f.svc.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(5), orders)
}

func TestConcurrentStatusUpdatesApplyOnce(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 5, 100)

	order, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	// Slow reads so every caller checks the transition against the same pending state.
	require.NoError(t, f.svc.db.Callback().Query().After("gorm:query").Register("test:slow_read", func(*gorm.DB) {
		time.Sleep(20 * time.Millisecond)
	}))

	const admins = 20
	paid := "paid"
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.UpdateOrderStatus(bg, order.ID, StatusUpdate{PaymentStatus: &paid})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, apperr.ErrConflict) || errors.Is(err, apperr.ErrValidation), err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	notes, err := f.notes.List(bg, f.user.ID)
	require.NoError(t, err)
	// placed, payment confirmed
	assert.Len(t, notes, 2)
	assert.Len(t, f.mail.messages(), 2)
}

func TestGetOrderForUser(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 5, 100)
	other := createUser(t, f.svc.db, "other@example.com", models.RoleNormal)

	order, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	view, err := f.svc.GetOrderForUser(bg, order.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", view.User.Email)

	_, err = f.svc.GetOrderForUser(bg, order.ID, other.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.GetOrderForUser(bg, 9999, f.user.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 10, 100)
	other := createUser(t, f.svc.db, "other@example.com", models.RoleNormal)

	first, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(bg, other.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	mine, err := f.svc.ListOrdersByUser(bg, f.user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Equal(t, "Bowl", mine[0].Items[0].Product.Name)

	all, err := f.svc.ListOrders(bg, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.svc.ListOrders(bg, OrderFilter{DeliveryStatus: "lost"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, f.svc.db.Delete(&models.User{}, other.ID).Error)
	all, err = f.svc.ListOrders(bg, OrderFilter{UserID: other.ID})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].User.Deleted)
}

func TestDeleteOrderDoesNotRestock(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 20, 450)

	order, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteOrder(bg, order.ID))
	assert.Equal(t, 18, stockOf(t, f.svc.db, p.ID))

	var items int64
	require.NoError(t, f.svc.db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, f.svc.DeleteOrder(bg, order.ID), apperr.ErrNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture(t)
	p := createProduct(t, f.svc.db, "Bowl", 20, 450)

	order, err := f.svc.CreateOrder(bg, f.user.ID, orderInput(OrderLine{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	str := func(s string) *string { return &s }

	_, err = f.svc.UpdateOrderStatus(bg, order.ID, StatusUpdate{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateOrderStatus(bg, order.ID, StatusUpdate{DeliveryStatus: str("delivered")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	view, err := f.svc.UpdateOrderStatus(bg, order.ID, StatusUpdate{PaymentStatus: str("paid"), DeliveryStatus: str("shipped")})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, view.PaymentStatus)
	assert.Equal(t, models.DeliveryShipped, view.DeliveryStatus)

	_, err = f.svc.UpdateOrderStatus(bg, order.ID, StatusUpdate{PaymentStatus: str("failed")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateOrderStatus(bg, 9999, StatusUpdate{PaymentStatus: str("paid")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	notes, err := f.notes.List(bg, f.user.ID)
	require.NoError(t, err)
	// placed, payment confirmed, shipped
	assert.Len(t, notes, 3)

	// order placed + payment confirmed
	assert.Len(t, f.mail.messages(), 2)
}
