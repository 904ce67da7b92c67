package repository

import (
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByOrderNumber(orderNumber string) (*model.Order, error)
	FindByCustomerID(customerID uint, status model.OrderStatus) ([]model.Order, error)
	FindAll(status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error)
	Update(order *model.Order) error
	UpdatePaymentStatus(id uint, status model.PaymentStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items").Preload("Address")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"customer_id":  order.CustomerID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.preloadOrder().Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by order number in database", err, map[string]interface{}{
				"order_number": orderNumber,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByCustomerID(customerID uint, status model.OrderStatus) ([]model.Order, error) {
	query := r.preloadOrder().Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("placed_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindAll(status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := r.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err)
		return nil, 0, err
	}

	var orders []model.Order
	err := query.Preload("Items").Preload("Address").
		Order("placed_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders in database", err)
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(id uint, status model.PaymentStatus) error {
	logger.Debug("Updating order payment status in database", map[string]interface{}{
		"order_id":       id,
		"payment_status": status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		logger.Error("Failed to update order payment status in database", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
