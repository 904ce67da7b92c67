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

func setupOrderControllerTest(t *testing.T) (*OrderController, *gin.Engine, *gorm.DB, *model.User, *model.Address, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	rates := map[model.ShippingMethod]float64{
		model.ShippingStandard: 9.99,
		model.ShippingPickup:   0,
	}
	orderService := service.NewOrderService(
		repository.NewOrderRepository(testDB),
		repository.NewCartRepository(testDB),
		repository.NewAddressRepository(testDB),
		repository.NewCustomerRepository(testDB),
		testDB,
		rates,
	)
	orderController := NewOrderController(orderService)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	customer := &model.Customer{UserID: user.ID}
	require.NoError(t, testDB.Create(customer).Error)

	address := &model.Address{
		CustomerID: customer.ID,
		Street:     "1 Main St",
		City:       "Austin",
		State:      "TX",
		ZipCode:    "78701",
		IsDefault:  true,
	}
	require.NoError(t, testDB.Create(address).Error)

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

	return orderController, router, testDB, user, address, product
}

func placeTestOrder(t *testing.T, testDB *gorm.DB, userID, addressID, productID uint, quantity int) *model.Order {
	addCartItem(t, testDB, userID, productID, quantity)

	orderService := service.NewOrderService(
		repository.NewOrderRepository(testDB),
		repository.NewCartRepository(testDB),
		repository.NewAddressRepository(testDB),
		repository.NewCustomerRepository(testDB),
		testDB,
		map[model.ShippingMethod]float64{model.ShippingStandard: 9.99},
	)
	order, err := orderService.PlaceOrder(userID, addressID, model.ShippingStandard, "")
	require.NoError(t, err)
	return order
}

func TestOrderController_PlaceOrder_Success(t *testing.T) {
	controller, router, testDB, user, address, product := setupOrderControllerTest(t)

	addCartItem(t, testDB, user.ID, product.ID, 2)

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.PlaceOrder(c)
	})

	jsonBody, _ := json.Marshal(PlaceOrderRequest{
		AddressID:      address.ID,
		ShippingMethod: "standard",
		Notes:          "ring the bell",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	order, ok := response["order"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "ring the bell", order["customer_notes"])
}

func TestOrderController_PlaceOrder_EmptyCartIsBadRequest(t *testing.T) {
	controller, router, _, user, address, _ := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.PlaceOrder(c)
	})

	jsonBody, _ := json.Marshal(PlaceOrderRequest{
		AddressID:      address.ID,
		ShippingMethod: "standard",
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Cart is empty", response["error"])
}

func TestOrderController_CancelOrder_InvalidTransitionIsBadRequest(t *testing.T) {
	controller, router, testDB, user, address, product := setupOrderControllerTest(t)

	order := placeTestOrder(t, testDB, user.ID, address.ID, product.ID, 1)
	require.NoError(t, testDB.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Update("status", model.OrderDelivered).Error)

	router.POST("/orders/:id/cancel", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CancelOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/orders/%d/cancel", order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid order status transition", response["error"])
}

func TestOrderController_UpdateOrderStatus_AdminNotes(t *testing.T) {
	controller, router, testDB, user, address, product := setupOrderControllerTest(t)

	order := placeTestOrder(t, testDB, user.ID, address.ID, product.ID, 1)

	router.PUT("/admin/orders/:id/status", controller.UpdateOrderStatus)

	jsonBody, _ := json.Marshal(UpdateOrderStatusRequest{
		Status:     "processing",
		AdminNotes: "awaiting supplier restock",
	})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", order.ID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	updated, ok := response["order"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "processing", updated["status"])
	assert.Equal(t, "awaiting supplier restock", updated["admin_notes"])
}

func TestOrderController_UpdateOrderStatus_InvalidTransitionIsBadRequest(t *testing.T) {
	controller, router, testDB, user, address, product := setupOrderControllerTest(t)

	order := placeTestOrder(t, testDB, user.ID, address.ID, product.ID, 1)

	router.PUT("/admin/orders/:id/status", controller.UpdateOrderStatus)

	jsonBody, _ := json.Marshal(UpdateOrderStatusRequest{Status: "delivered"})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/orders/%d/status", order.ID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
