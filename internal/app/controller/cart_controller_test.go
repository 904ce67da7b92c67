package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/internal/app/service"
	"github.com/partsden/partsden-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo, customerRepo)
	cartController := NewCartController(cartService)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Shopper",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	require.NoError(t, testDB.Create(&model.Customer{UserID: user.ID}).Error)

	category := &model.Category{Name: "Brakes", Slug: "brakes"}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Title:      "Brake Pads",
		Slug:       "brake-pads",
		SKU:        "BP-100",
		UnitPrice:  50.00,
		Inventory:  10,
		CategoryID: category.ID,
		IsActive:   true,
	}
	require.NoError(t, testDB.Create(product).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, product
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func cartFromResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	cart, ok := response["cart"].(map[string]interface{})
	require.True(t, ok, "response missing cart summary")
	return cart
}

func TestCartController_GetCart_Empty(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	summary := cartFromResponse(t, w)
	assert.Equal(t, float64(0), summary["item_count"])
	assert.Equal(t, float64(0), summary["subtotal"])
}

func TestCartController_GetCart_Unauthorized(t *testing.T) {
	controller, router, _, _, _ := setupCartControllerTest(t)

	router.GET("/cart", controller.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "User not authenticated", response["error"])
}

func TestCartController_AddItem_Success(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	reqBody := AddCartItemRequest{
		ProductID: product.ID,
		Quantity:  2,
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	summary := cartFromResponse(t, w)
	assert.Equal(t, float64(2), summary["item_count"])
	assert.Equal(t, float64(100), summary["subtotal"])
}

func TestCartController_AddItem_AccumulatesQuantity(t *testing.T) {
	controller, router, _, user, product := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	for _, quantity := range []int{2, 3} {
		jsonBody, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: quantity})
		req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	summary := cartFromResponse(t, w)
	assert.Equal(t, float64(5), summary["item_count"])
	assert.Equal(t, float64(250), summary["subtotal"])

	cart, ok := summary["cart"].(map[string]interface{})
	require.True(t, ok)
	items, ok := cart["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestCartController_AddItem_ProductNotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	jsonBody, _ := json.Marshal(AddCartItemRequest{ProductID: 9999, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Product not found", response["error"])
}

func TestCartController_AddItem_InactiveProduct(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	require.NoError(t, testDB.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("is_active", false).Error)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	jsonBody, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Product is not available", response["error"])
}

func TestCartController_AddItem_InvalidRequest(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	tests := []struct {
		name    string
		reqBody map[string]interface{}
	}{
		{
			name:    "Missing product_id",
			reqBody: map[string]interface{}{"quantity": 2},
		},
		{
			name:    "Missing quantity",
			reqBody: map[string]interface{}{"product_id": 1},
		},
		{
			name:    "Zero quantity",
			reqBody: map[string]interface{}{"product_id": 1, "quantity": 0},
		},
		{
			name:    "Negative quantity",
			reqBody: map[string]interface{}{"product_id": 1, "quantity": -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, "Invalid request data", response["error"])
		})
	}
}

func addCartItem(t *testing.T, testDB *gorm.DB, userID, productID uint, quantity int) uint {
	cartService := service.NewCartService(
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB),
		repository.NewCustomerRepository(testDB),
	)
	summary, err := cartService.AddItem(userID, productID, quantity)
	require.NoError(t, err)
	require.NotEmpty(t, summary.Cart.Items)
	return summary.Cart.Items[0].ID
}

func TestCartController_UpdateItem_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	itemID := addCartItem(t, testDB, user.ID, product.ID, 2)

	router.PUT("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	jsonBody, _ := json.Marshal(UpdateCartItemRequest{Quantity: 7})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	summary := cartFromResponse(t, w)
	assert.Equal(t, float64(7), summary["item_count"])
	assert.Equal(t, float64(350), summary["subtotal"])
}

func TestCartController_UpdateItem_ZeroRemovesLine(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	itemID := addCartItem(t, testDB, user.ID, product.ID, 2)

	router.PUT("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	jsonBody, _ := json.Marshal(map[string]interface{}{"quantity": 0})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	summary := cartFromResponse(t, w)
	assert.Equal(t, float64(0), summary["item_count"])
	assert.Equal(t, float64(0), summary["subtotal"])
}

func TestCartController_UpdateItem_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	jsonBody, _ := json.Marshal(UpdateCartItemRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/cart/items/9999", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart item not found", response["error"])
}

func TestCartController_UpdateItem_InvalidID(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.PUT("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.UpdateItem(c)
	})

	jsonBody, _ := json.Marshal(UpdateCartItemRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/cart/items/invalid", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateItem_OtherCustomersItem(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	otherUser := &model.User{
		Email:        "intruder@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(otherUser).Error)
	require.NoError(t, testDB.Create(&model.Customer{UserID: otherUser.ID}).Error)
	addCartItem(t, testDB, otherUser.ID, product.ID, 1)

	itemID := addCartItem(t, testDB, user.ID, product.ID, 1)

	router.PUT("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, otherUser.ID)
		controller.UpdateItem(c)
	})

	jsonBody, _ := json.Marshal(UpdateCartItemRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart item does not belong to you", response["error"])
}

func TestCartController_RemoveItem_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	itemID := addCartItem(t, testDB, user.ID, product.ID, 2)

	router.DELETE("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	summary := cartFromResponse(t, w)
	assert.Equal(t, float64(0), summary["item_count"])
}

func TestCartController_RemoveItem_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.DELETE("/cart/items/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart item not found", response["error"])
}

func TestCartController_ClearCart_Success(t *testing.T) {
	controller, router, testDB, user, product := setupCartControllerTest(t)

	addCartItem(t, testDB, user.ID, product.ID, 3)

	router.DELETE("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ClearCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Cart cleared", response["message"])

	// Verify cart is empty
	cartService := service.NewCartService(
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB),
		repository.NewCustomerRepository(testDB),
	)
	summary, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.Items)
}

func TestCartController_ClearCart_Unauthorized(t *testing.T) {
	controller, router, _, _, _ := setupCartControllerTest(t)

	router.DELETE("/cart", controller.ClearCart)

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "User not authenticated", response["error"])
}
