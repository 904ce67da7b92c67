package service

import (
	"errors"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrCartAccessDenied    = errors.New("cart item does not belong to customer")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrProductNotAvailable = errors.New("product is not available")
)

// CartSummary is a cart with its computed totals.
type CartSummary struct {
	Cart     *model.Cart `json:"cart"`
	Subtotal float64     `json:"subtotal"`
	Items    int         `json:"item_count"`
}

type CartService interface {
	GetCart(userID uint) (*CartSummary, error)
	AddItem(userID, productID uint, quantity int) (*CartSummary, error)
	UpdateItemQuantity(userID, itemID uint, quantity int) (*CartSummary, error)
	RemoveItem(userID, itemID uint) (*CartSummary, error)
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) CartService {
	return &cartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

func (s *cartService) customerID(userID uint) (uint, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCustomerNotFound
		}
		return 0, err
	}
	return customer.ID, nil
}

func (s *cartService) summary(customerID uint) (*CartSummary, error) {
	cart, err := s.cartRepo.FindByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No cart yet means an empty cart
			return &CartSummary{Cart: &model.Cart{CustomerID: customerID}}, nil
		}
		return nil, err
	}

	summary := &CartSummary{Cart: cart}
	for i := range cart.Items {
		summary.Subtotal += cart.Items[i].Subtotal()
		summary.Items += cart.Items[i].Quantity
	}
	return summary, nil
}

func (s *cartService) GetCart(userID uint) (*CartSummary, error) {
	customerID, err := s.customerID(userID)
	if err != nil {
		return nil, err
	}
	return s.summary(customerID)
}

// AddItem puts a product in the cart. Adding a product already in the
// cart accumulates quantity on the existing line; the unit price stays
// pinned to the price captured when the line was first created.
func (s *cartService) AddItem(userID, productID uint, quantity int) (*CartSummary, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	customerID, err := s.customerID(userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Adding item to cart", map[string]interface{}{
		"customer_id": customerID,
		"product_id":  productID,
		"quantity":    quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		logger.Warn("Cannot add inactive product to cart", map[string]interface{}{
			"customer_id": customerID,
			"product_id":  productID,
		})
		return nil, ErrProductNotAvailable
	}

	cart, err := s.cartRepo.FindOrCreateByCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindItem(cart.ID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		if err := s.cartRepo.IncrementItemQuantity(existing.ID, quantity); err != nil {
			return nil, err
		}
	} else {
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: product.UnitPrice,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a concurrent insert race, accumulate instead
				winner, ferr := s.cartRepo.FindItem(cart.ID, productID)
				if ferr != nil {
					return nil, ferr
				}
				if err := s.cartRepo.IncrementItemQuantity(winner.ID, quantity); err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"customer_id": customerID,
		"cart_id":     cart.ID,
		"product_id":  productID,
	})
	return s.summary(customerID)
}

func (s *cartService) ownedItem(customerID, itemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.FindByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		logger.Warn("Cart item access denied", map[string]interface{}{
			"customer_id":  customerID,
			"cart_item_id": itemID,
		})
		return nil, ErrCartAccessDenied
	}
	return item, nil
}

// UpdateItemQuantity replaces the quantity of a line. Quantity zero
// removes the line.
func (s *cartService) UpdateItemQuantity(userID, itemID uint, quantity int) (*CartSummary, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	customerID, err := s.customerID(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.ownedItem(customerID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
			return nil, err
		}
	}

	return s.summary(customerID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*CartSummary, error) {
	customerID, err := s.customerID(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.ownedItem(customerID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}

	logger.Info("Item removed from cart", map[string]interface{}{
		"customer_id":  customerID,
		"cart_item_id": itemID,
	})
	return s.summary(customerID)
}

func (s *cartService) ClearCart(userID uint) error {
	customerID, err := s.customerID(userID)
	if err != nil {
		return err
	}

	cart, err := s.cartRepo.FindByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	logger.Info("Clearing cart", map[string]interface{}{
		"customer_id": customerID,
		"cart_id":     cart.ID,
	})
	return s.cartRepo.DeleteItemsByCartID(cart.ID)
}
