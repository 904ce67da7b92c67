package service

import (
	"strings"
	"testing"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	orderService OrderService
	cartService  CartService
	db           *gorm.DB
	user         *model.User
	customer     *model.Customer
	address      *model.Address
	product      *model.Product
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	rates := map[model.ShippingMethod]float64{
		model.ShippingStandard:  9.99,
		model.ShippingExpress:   19.99,
		model.ShippingOvernight: 39.99,
		model.ShippingPickup:    0,
	}
	orderService := NewOrderService(orderRepo, cartRepo, addressRepo, customerRepo, testDB, rates)
	cartService := NewCartService(cartRepo, productRepo, customerRepo)

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

	return &orderServiceFixture{
		orderService: orderService,
		cartService:  cartService,
		db:           testDB,
		user:         user,
		customer:     customer,
		address:      address,
		product:      product,
	}
}

func (f *orderServiceFixture) inventory(t *testing.T) int {
	t.Helper()
	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	return product.Inventory
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "leave at door")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	assert.Equal(t, 9.99, order.ShippingCost)
	assert.Equal(t, "leave at door", order.CustomerNotes)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Brake Pads", order.Items[0].ProductTitle)
	assert.Equal(t, "BP-100", order.Items[0].SKU)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 50.00, order.Items[0].UnitPrice)
	assert.Equal(t, 109.99, order.Total())

	// Inventory is decremented and the cart emptied
	assert.Equal(t, 8, f.inventory(t))
	summary, err := f.cartService.GetCart(f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Cart.Items)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_InvalidShippingMethod(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)

	_, err = f.orderService.PlaceOrder(f.user.ID, f.address.ID, "carrier-pigeon", "")
	assert.ErrorIs(t, err, ErrInvalidShippingMethod)
}

func TestOrderService_PlaceOrder_PickupIsFree(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)

	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingPickup, "")
	require.NoError(t, err)
	assert.Zero(t, order.ShippingCost)
	assert.Equal(t, 50.00, order.Total())
}

func TestOrderService_PlaceOrder_ForeignAddress(t *testing.T) {
	f := setupOrderServiceTest(t)

	otherUser := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, f.db.Create(otherUser).Error)
	otherCustomer := &model.Customer{UserID: otherUser.ID}
	require.NoError(t, f.db.Create(otherCustomer).Error)
	foreignAddress := &model.Address{
		CustomerID: otherCustomer.ID,
		Street:     "9 Side St",
		City:       "Dallas",
		ZipCode:    "75201",
	}
	require.NoError(t, f.db.Create(foreignAddress).Error)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)

	_, err = f.orderService.PlaceOrder(f.user.ID, foreignAddress.ID, model.ShippingStandard, "")
	assert.ErrorIs(t, err, ErrAddressAccessDenied)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 8)
	require.NoError(t, err)

	// Stock drains between carting and checkout
	require.NoError(t, f.db.Model(&model.Product{}).
		Where("id = ?", f.product.ID).
		Update("inventory", 3).Error)

	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, order)

	// Nothing was decremented and the cart is untouched
	assert.Equal(t, 3, f.inventory(t))
	summary, err := f.cartService.GetCart(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Cart.Items, 1)
}

func TestOrderService_PlaceOrder_PriceFrozenFromCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	// Catalog price rises before checkout; the cart price is honored
	require.NoError(t, f.db.Model(&model.Product{}).
		Where("id = ?", f.product.ID).
		Update("unit_price", 80.00).Error)

	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 50.00, order.Items[0].UnitPrice)
	assert.Equal(t, 109.99, order.Total())
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	otherUser := &model.User{
		Email:        "snoop@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, f.db.Create(otherUser).Error)
	require.NoError(t, f.db.Create(&model.Customer{UserID: otherUser.ID}).Error)

	_, err = f.orderService.GetOrder(otherUser.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	found, err := f.orderService.GetOrderByNumber(f.user.ID, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}

func TestOrderService_GetCustomerOrders_StatusFilter(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	first, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	_, err = f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	_, err = f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	_, err = f.orderService.UpdateOrderStatus(first.ID, model.OrderProcessing, "", "")
	require.NoError(t, err)

	all, err := f.orderService.GetCustomerOrders(f.user.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	processing, err := f.orderService.GetCustomerOrders(f.user.ID, model.OrderProcessing)
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, first.ID, processing[0].ID)
}

func TestOrderService_UpdateOrderStatus_Transitions(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	// pending cannot jump straight to shipped or delivered
	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderShipped, "", "")
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderDelivered, "", "")
	assert.ErrorIs(t, err, ErrInvalidStatusChange)

	updated, err := f.orderService.UpdateOrderStatus(order.ID, model.OrderProcessing, "", "")
	require.NoError(t, err)
	assert.Equal(t, model.OrderProcessing, updated.Status)

	updated, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderShipped, "1Z999", "")
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, updated.Status)
	assert.Equal(t, "1Z999", updated.TrackingNumber)
	require.NotNil(t, updated.ShippedAt)

	updated, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderDelivered, "", "")
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)

	// delivered is terminal
	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderProcessing, "", "")
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
}

func TestOrderService_CancelOrder_RestoresInventory(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 4)
	require.NoError(t, err)
	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)
	assert.Equal(t, 6, f.inventory(t))

	cancelled, err := f.orderService.CancelOrder(f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, 10, f.inventory(t))
}

func TestOrderService_CancelOrder_ShippedTooLate(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderProcessing, "", "")
	require.NoError(t, err)
	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderShipped, "1Z999", "")
	require.NoError(t, err)

	_, err = f.orderService.CancelOrder(f.user.ID, order.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
}

func TestOrderService_UpdateOrderStatus_CancelShippedRestocks(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 3)
	require.NoError(t, err)
	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)
	assert.Equal(t, 7, f.inventory(t))

	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderProcessing, "", "")
	require.NoError(t, err)
	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderShipped, "1Z999", "")
	require.NoError(t, err)

	// An admin can still pull a shipped order back; stock returns
	cancelled, err := f.orderService.UpdateOrderStatus(order.ID, model.OrderCancelled, "", "returned by carrier")
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, "returned by carrier", cancelled.AdminNotes)
	assert.Equal(t, 10, f.inventory(t))
}

func TestOrderService_UpdateOrderStatus_CancelDeliveredRejected(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderProcessing, "", "")
	require.NoError(t, err)
	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderShipped, "", "")
	require.NoError(t, err)
	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderDelivered, "", "")
	require.NoError(t, err)

	_, err = f.orderService.UpdateOrderStatus(order.ID, model.OrderCancelled, "", "")
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
}

func TestOrderService_PlaceOrder_CartConsumedOnce(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 2)
	require.NoError(t, err)

	_, err = f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	// A second checkout of the same cart must not mint another order
	_, err = f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 8, f.inventory(t))
}

func TestOrderService_PlaceOrder_ConfiguredRates(t *testing.T) {
	f := setupOrderServiceTest(t)

	orderService := NewOrderService(
		repository.NewOrderRepository(f.db),
		repository.NewCartRepository(f.db),
		repository.NewAddressRepository(f.db),
		repository.NewCustomerRepository(f.db),
		f.db,
		map[model.ShippingMethod]float64{model.ShippingExpress: 24.50},
	)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingExpress, "")
	require.NoError(t, err)
	assert.Equal(t, 24.50, order.ShippingCost)

	// Methods missing from the configured table are rejected
	_, err = orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingOvernight, "")
	assert.ErrorIs(t, err, ErrInvalidShippingMethod)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.cartService.AddItem(f.user.ID, f.product.ID, 1)
	require.NoError(t, err)
	order, err := f.orderService.PlaceOrder(f.user.ID, f.address.ID, model.ShippingStandard, "")
	require.NoError(t, err)

	require.NoError(t, f.orderService.UpdatePaymentStatus(order.ID, model.PaymentCompleted))

	found, err := f.orderService.GetOrder(f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, found.PaymentStatus)

	err = f.orderService.UpdatePaymentStatus(9999, model.PaymentCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
