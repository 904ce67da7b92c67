package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderAccessDenied      = errors.New("order does not belong to customer")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidShippingMethod  = errors.New("invalid shipping method")
	ErrInvalidStatusChange    = errors.New("invalid order status transition")
	ErrAddressRequired        = errors.New("shipping address is required")
)

// validTransitions is the order status machine. Delivered and cancelled
// are terminal. Customers may only cancel before shipment; cancelling a
// shipped order is an admin action.
var validTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending:    {model.OrderProcessing, model.OrderCancelled},
	model.OrderProcessing: {model.OrderShipped, model.OrderCancelled},
	model.OrderShipped:    {model.OrderDelivered, model.OrderCancelled},
}

type OrderService interface {
	PlaceOrder(userID, addressID uint, method model.ShippingMethod, notes string) (*model.Order, error)
	GetCustomerOrders(userID uint, status model.OrderStatus) ([]model.Order, error)
	ListAllOrders(status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error)
	GetOrder(userID, orderID uint) (*model.Order, error)
	GetOrderByNumber(userID uint, orderNumber string) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus, trackingNumber, adminNotes string) (*model.Order, error)
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
}

type orderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	addressRepo   repository.AddressRepository
	customerRepo  repository.CustomerRepository
	db            *gorm.DB
	shippingRates map[model.ShippingMethod]float64
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	customerRepo repository.CustomerRepository,
	db *gorm.DB,
	shippingRates map[model.ShippingMethod]float64,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		addressRepo:   addressRepo,
		customerRepo:  customerRepo,
		db:            db,
		shippingRates: shippingRates,
	}
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

// PlaceOrder converts the customer's cart into an order inside a single
// transaction: it locks each product row, verifies and decrements stock,
// snapshots titles and pinned prices into order items, and clears the
// cart. A duplicate order number aborts the transaction and the whole
// attempt is retried once with a fresh number.
func (s *orderService) PlaceOrder(userID, addressID uint, method model.ShippingMethod, notes string) (*model.Order, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	if method == "" {
		method = model.ShippingStandard
	}
	shippingCost, ok := s.shippingRates[method]
	if !ok {
		logger.Warn("Invalid shipping method", map[string]interface{}{
			"customer_id": customer.ID,
			"method":      method,
		})
		return nil, ErrInvalidShippingMethod
	}

	if addressID == 0 {
		return nil, ErrAddressRequired
	}
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.CustomerID != customer.ID {
		logger.Warn("Order address access denied", map[string]interface{}{
			"customer_id": customer.ID,
			"address_id":  addressID,
		})
		return nil, ErrAddressAccessDenied
	}

	logger.Info("Placing order", map[string]interface{}{
		"customer_id": customer.ID,
		"address_id":  addressID,
		"method":      method,
	})

	order, err := s.placeOrderTx(customer.ID, addressID, method, shippingCost, notes)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Order number collision, retry once with a fresh number
		logger.Warn("Order number collision, retrying", map[string]interface{}{
			"customer_id": customer.ID,
		})
		order, err = s.placeOrderTx(customer.ID, addressID, method, shippingCost, notes)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"customer_id":  customer.ID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total(),
	})
	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) placeOrderTx(customerID, addressID uint, method model.ShippingMethod, shippingCost float64, notes string) (*model.Order, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"customer_id": customerID,
			})
		}
	}()

	// Lock the cart row so two concurrent checkouts of the same cart
	// serialize; the loser re-reads after commit and finds it empty.
	var cart model.Cart
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		Preload("Items").
		First(&cart).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		logger.Error("Failed to load cart for order", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	if len(cart.Items) == 0 {
		tx.Rollback()
		logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, ErrEmptyCart
	}

	var orderItems []model.OrderItem
	cartItemIDs := make([]uint, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		cartItemIDs = append(cartItemIDs, cartItem.ID)
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product vanished during order placement", map[string]interface{}{
					"customer_id": customerID,
					"product_id":  cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to lock product during order placement", err, map[string]interface{}{
				"customer_id": customerID,
				"product_id":  cartItem.ProductID,
			})
			return nil, err
		}

		if !product.IsActive {
			tx.Rollback()
			logger.Warn("Order placement failed: product inactive", map[string]interface{}{
				"customer_id": customerID,
				"product_id":  product.ID,
			})
			return nil, ErrProductNotAvailable
		}
		if product.Inventory < cartItem.Quantity {
			tx.Rollback()
			logger.Warn("Order placement failed: insufficient stock", map[string]interface{}{
				"customer_id": customerID,
				"product_id":  product.ID,
				"requested":   cartItem.Quantity,
				"available":   product.Inventory,
			})
			return nil, ErrInsufficientStock
		}

		// Snapshot the line: pinned cart price, current title and SKU
		orderItems = append(orderItems, model.OrderItem{
			ProductID:    product.ID,
			ProductTitle: product.Title,
			SKU:          product.SKU,
			Quantity:     cartItem.Quantity,
			UnitPrice:    cartItem.UnitPrice,
		})

		if err := tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Update("inventory", gorm.Expr("inventory - ?", cartItem.Quantity)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement product inventory", err, map[string]interface{}{
				"customer_id": customerID,
				"product_id":  product.ID,
			})
			return nil, err
		}
	}

	order := &model.Order{
		OrderNumber:    generateOrderNumber(),
		CustomerID:     customerID,
		AddressID:      addressID,
		Status:         model.OrderPending,
		PaymentStatus:  model.PaymentPending,
		ShippingMethod: method,
		ShippingCost:   shippingCost,
		CustomerNotes:  notes,
		Items:          orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Error("Failed to create order", err, map[string]interface{}{
				"customer_id": customerID,
			})
		}
		return nil, err
	}

	res := tx.Where("cart_id = ? AND id IN ?", cart.ID, cartItemIDs).Delete(&model.CartItem{})
	if res.Error != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order placement", res.Error, map[string]interface{}{
			"customer_id": customerID,
			"cart_id":     cart.ID,
		})
		return nil, res.Error
	}
	// Fewer rows deleted than read means another checkout consumed this
	// cart first. Abort rather than mint a duplicate order.
	if res.RowsAffected != int64(len(cartItemIDs)) {
		tx.Rollback()
		logger.Warn("Cart changed during order placement, aborting", map[string]interface{}{
			"customer_id": customerID,
			"cart_id":     cart.ID,
			"expected":    len(cartItemIDs),
			"deleted":     res.RowsAffected,
		})
		return nil, ErrEmptyCart
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetCustomerOrders(userID uint, status model.OrderStatus) ([]model.Order, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.orderRepo.FindByCustomerID(customer.ID, status)
}

// ListAllOrders is the admin view over every customer's orders.
func (s *orderService) ListAllOrders(status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
	return s.orderRepo.FindAll(status, page, pageSize)
}

func (s *orderService) ownedOrder(userID, orderID uint) (*model.Order, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.CustomerID != customer.ID {
		logger.Warn("Order access denied", map[string]interface{}{
			"customer_id": customer.ID,
			"order_id":    orderID,
		})
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *orderService) GetOrder(userID, orderID uint) (*model.Order, error) {
	return s.ownedOrder(userID, orderID)
}

func (s *orderService) GetOrderByNumber(userID uint, orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return s.ownedOrder(userID, order.ID)
}

// CancelOrder lets the customer cancel while the order is still pending
// or processing. Reserved inventory goes back to the products.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.ownedOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != model.OrderPending && order.Status != model.OrderProcessing {
		logger.Warn("Cannot cancel order in current status", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrInvalidStatusChange
	}

	if err := s.cancelAndRestock(order, ""); err != nil {
		logger.Error("Failed to cancel order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
	})
	return s.orderRepo.FindByID(orderID)
}

// cancelAndRestock marks the order cancelled and returns its reserved
// inventory to the products, all in one transaction.
func (s *orderService) cancelAndRestock(order *model.Order, adminNotes string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := tx.Model(&model.Product{}).
				Where("id = ?", item.ProductID).
				Update("inventory", gorm.Expr("inventory + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		updates := map[string]interface{}{"status": model.OrderCancelled}
		if adminNotes != "" {
			updates["admin_notes"] = adminNotes
		}
		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Updates(updates).Error
	})
}

// UpdateOrderStatus applies an admin-driven status transition, stamping
// shipped_at and delivered_at on first entry into those states. An admin
// may still cancel a shipped order; that restocks the items like a
// customer cancellation does.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus, trackingNumber, adminNotes string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		logger.Warn("Invalid order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidStatusChange
	}

	if status == model.OrderCancelled {
		if err := s.cancelAndRestock(order, adminNotes); err != nil {
			logger.Error("Failed to cancel order", err, map[string]interface{}{
				"order_id": orderID,
			})
			return nil, err
		}
		logger.Info("Order status updated", map[string]interface{}{
			"order_id":     orderID,
			"order_number": order.OrderNumber,
			"status":       status,
		})
		return s.orderRepo.FindByID(orderID)
	}

	now := time.Now()
	order.Status = status
	if adminNotes != "" {
		order.AdminNotes = adminNotes
	}
	switch status {
	case model.OrderShipped:
		if order.ShippedAt == nil {
			order.ShippedAt = &now
		}
		if trackingNumber != "" {
			order.TrackingNumber = trackingNumber
		}
	case model.OrderDelivered:
		if order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"status":       status,
	})
	return order, nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Order payment status updated", map[string]interface{}{
		"order_id":       orderID,
		"payment_status": status,
	})
	return nil
}
