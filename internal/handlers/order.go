package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type OrderItemRequest struct {
	ProductID uint    `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" binding:"required"`
	Price     float64 `json:"price"`
}

type CreateOrderRequest struct {
	Firstname   string             `json:"firstname"`
	Lastname    string             `json:"lastname"`
	PhoneNo     string             `json:"phoneNo"`
	City        string             `json:"city"`
	Street      string             `json:"street"`
	Items       []OrderItemRequest `json:"items" binding:"dive"`
	TotalAmount float64            `json:"totalAmount"`
}

type UpdateOrderStatusRequest struct {
	DeliveryStatus *string `json:"deliveryStatus"`
	PaymentStatus  *string `json:"paymentStatus"`
}

func (h *OrderHandler) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var body CreateOrderRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind order: %v", err)
		badRequest(ctx, "Invalid order")
		return
	}

	lines := make([]services.OrderLine, 0, len(body.Items))
	for _, it := range body.Items {
		lines = append(lines, services.OrderLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order, err := h.Orders.CreateOrder(ctx.Request.Context(), user.ID, services.CreateOrderInput{
		Firstname:   body.Firstname,
		Lastname:    body.Lastname,
		PhoneNo:     body.PhoneNo,
		City:        body.City,
		Street:      body.Street,
		Items:       lines,
		TotalAmount: body.TotalAmount,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Order created successfully.", "order": order})
}

func (h *OrderHandler) ListMine(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	orders, err := h.Orders.ListOrdersByUser(ctx.Request.Context(), user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetMine(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	order, err := h.Orders.GetOrderForUser(ctx.Request.Context(), id, user.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

func (h *OrderHandler) List(ctx *gin.Context) {
	filter := services.OrderFilter{
		DeliveryStatus: ctx.Query("deliveryStatus"),
		PaymentStatus:  ctx.Query("paymentStatus"),
	}

	orders, err := h.Orders.ListOrders(ctx.Request.Context(), filter)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	order, err := h.Orders.GetOrder(ctx.Request.Context(), id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListByUser(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	orders, err := h.Orders.ListOrdersByUser(ctx.Request.Context(), userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var body UpdateOrderStatusRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	order, err := h.Orders.UpdateOrderStatus(ctx.Request.Context(), id, services.StatusUpdate{
		DeliveryStatus: body.DeliveryStatus,
		PaymentStatus:  body.PaymentStatus,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

func (h *OrderHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.Orders.DeleteOrder(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
