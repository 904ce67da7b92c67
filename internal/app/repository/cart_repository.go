package repository

import (
	"errors"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindOrCreateByCustomerID(customerID uint) (*model.Cart, error)
	FindByCustomerID(customerID uint) (*model.Cart, error)
	FindItem(cartID, productID uint) (*model.CartItem, error)
	FindItemByID(id uint) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	IncrementItemQuantity(itemID uint, delta int) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(id uint) error
	DeleteItemsByCartID(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// FindOrCreateByCustomerID returns the customer's cart, creating it on
// first use. A concurrent create losing the unique index race falls back
// to fetching the winner's row.
func (r *cartRepository) FindOrCreateByCustomerID(customerID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("customer_id = ?", customerID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to find cart by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	cart = model.Cart{CustomerID: customerID}
	if err := r.db.Create(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to another request, fetch the existing cart
			if ferr := r.db.Where("customer_id = ?", customerID).First(&cart).Error; ferr == nil {
				return &cart, nil
			}
		}
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id":     cart.ID,
		"customer_id": customerID,
	})
	return &cart, nil
}

func (r *cartRepository) FindByCustomerID(customerID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("customer_id = ?", customerID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.added_at ASC")
		}).
		Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find cart by customer ID in database", err, map[string]interface{}{
				"customer_id": customerID,
			})
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByID(id uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

// IncrementItemQuantity adds delta to the stored quantity atomically so
// concurrent adds of the same product do not lose updates.
func (r *cartRepository) IncrementItemQuantity(itemID uint, delta int) error {
	logger.Debug("Incrementing cart item quantity in database", map[string]interface{}{
		"cart_item_id": itemID,
		"delta":        delta,
	})

	result := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		logger.Error("Failed to increment cart item quantity in database", result.Error, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	logger.Debug("Updating cart item quantity in database", map[string]interface{}{
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	result := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		logger.Error("Failed to update cart item quantity in database", result.Error, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItem(id uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": id,
	})

	if err := r.db.Delete(&model.CartItem{}, id).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": id,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItemsByCartID(cartID uint) error {
	logger.Debug("Clearing cart items from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart items from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}
