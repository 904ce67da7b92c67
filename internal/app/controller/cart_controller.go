package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/internal/app/service"
	apperrors "github.com/partsden/partsden-backend/internal/errors"
	"github.com/partsden/partsden-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer profile not found"})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, service.ErrProductNotAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Product is not available"})
	case errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	case errors.Is(err, service.ErrCartAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Cart item does not belong to you"})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.HandleError(c, err, action)
	}
}

// GetCart returns the customer's cart with totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		ctrl.respondCartError(c, err, "fetch cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": summary})
}

// AddItem adds a product to the cart, accumulating quantity for
// a product already in it
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	summary, err := ctrl.cartService.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, "add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": summary})
}

// UpdateItem sets an item's quantity, zero removes the line
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	summary, err := ctrl.cartService.UpdateItemQuantity(userID, itemID, req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, "update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": summary})
}

// RemoveItem deletes one line from the cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := ctrl.cartService.RemoveItem(userID, itemID)
	if err != nil {
		ctrl.respondCartError(c, err, "remove cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": summary})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		ctrl.respondCartError(c, err, "clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
