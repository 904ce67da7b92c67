package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/service"
	apperrors "github.com/partsden/partsden-backend/internal/errors"
	"github.com/partsden/partsden-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type PlaceOrderRequest struct {
	AddressID      uint   `json:"address_id" binding:"required"`
	ShippingMethod string `json:"shipping_method" binding:"required"`
	Notes          string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	AdminNotes     string `json:"admin_notes"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func (ctrl *OrderController) respondOrderError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer profile not found"})
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, service.ErrOrderAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Order does not belong to you"})
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidShippingMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipping method"})
	case errors.Is(err, service.ErrAddressRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A shipping address is required"})
	case errors.Is(err, service.ErrAddressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
	case errors.Is(err, service.ErrAddressAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Address does not belong to you"})
	case errors.Is(err, service.ErrInvalidStatusChange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status transition"})
	default:
		log.Error("Order operation failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.HandleError(c, err, action)
	}
}

// PlaceOrder converts the cart into an order
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, req.AddressID, model.ShippingMethod(req.ShippingMethod), req.Notes)
	if err != nil {
		ctrl.respondOrderError(c, err, "place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders returns the customer's order history, newest first
// GET /api/v1/orders?status=
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orders, err := ctrl.orderService.GetCustomerOrders(userID, model.OrderStatus(c.Query("status")))
	if err != nil {
		ctrl.respondOrderError(c, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order with its items and address
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, orderID)
	if err != nil {
		ctrl.respondOrderError(c, err, "fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetOrderByNumber looks an order up by its public number
// GET /api/v1/orders/number/:number
func (ctrl *OrderController) GetOrderByNumber(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	order, err := ctrl.orderService.GetOrderByNumber(userID, c.Param("number"))
	if err != nil {
		ctrl.respondOrderError(c, err, "fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels a pending or processing order and restocks it
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, orderID)
	if err != nil {
		ctrl.respondOrderError(c, err, "cancel order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ListAllOrders pages through every customer's orders (admin)
// GET /api/v1/admin/orders?status=&page=&page_size=
func (ctrl *OrderController) ListAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := ctrl.orderService.ListAllOrders(model.OrderStatus(c.Query("status")), page, pageSize)
	if err != nil {
		ctrl.respondOrderError(c, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateOrderStatus advances an order along the fulfilment flow (admin)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(orderID, model.OrderStatus(req.Status), req.TrackingNumber, req.AdminNotes)
	if err != nil {
		ctrl.respondOrderError(c, err, "update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdatePaymentStatus records the payment outcome (admin)
// PUT /api/v1/admin/orders/:id/payment
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := ctrl.orderService.UpdatePaymentStatus(orderID, model.PaymentStatus(req.PaymentStatus)); err != nil {
		ctrl.respondOrderError(c, err, "update payment status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}
