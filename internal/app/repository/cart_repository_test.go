package repository

import (
	"testing"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRepoTest(t *testing.T) (CartRepository, *gorm.DB, *model.Customer, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "cart@example.com",
		PasswordHash: "hash",
		FirstName:    "Cart",
		LastName:     "Tester",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	customer := &model.Customer{UserID: user.ID}
	require.NoError(t, testDB.Create(customer).Error)

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

	return NewCartRepository(testDB), testDB, customer, product
}

func TestCartRepository_FindOrCreateByCustomerID(t *testing.T) {
	repo, _, customer, _ := setupCartRepoTest(t)

	cart, err := repo.FindOrCreateByCustomerID(customer.ID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.NotZero(t, cart.ID)

	// Second call returns the same cart, not a new one
	again, err := repo.FindOrCreateByCustomerID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartRepository_FindItem(t *testing.T) {
	repo, _, customer, product := setupCartRepoTest(t)

	cart, err := repo.FindOrCreateByCustomerID(customer.ID)
	require.NoError(t, err)

	// Not in the cart yet
	_, err = repo.FindItem(cart.ID, product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	item := &model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  2,
		UnitPrice: product.UnitPrice,
	}
	require.NoError(t, repo.CreateItem(item))

	found, err := repo.FindItem(cart.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)
	assert.Equal(t, 2, found.Quantity)
}

func TestCartRepository_DuplicateLineRejected(t *testing.T) {
	repo, _, customer, product := setupCartRepoTest(t)

	cart, err := repo.FindOrCreateByCustomerID(customer.ID)
	require.NoError(t, err)

	require.NoError(t, repo.CreateItem(&model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  1,
		UnitPrice: product.UnitPrice,
	}))

	// Same product in the same cart violates the unique index
	err = repo.CreateItem(&model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  1,
		UnitPrice: product.UnitPrice,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCartRepository_IncrementItemQuantity(t *testing.T) {
	repo, _, customer, product := setupCartRepoTest(t)

	cart, err := repo.FindOrCreateByCustomerID(customer.ID)
	require.NoError(t, err)

	item := &model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  2,
		UnitPrice: product.UnitPrice,
	}
	require.NoError(t, repo.CreateItem(item))

	require.NoError(t, repo.IncrementItemQuantity(item.ID, 3))

	found, err := repo.FindItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestCartRepository_DeleteItemsByCartID(t *testing.T) {
	repo, testDB, customer, product := setupCartRepoTest(t)

	cart, err := repo.FindOrCreateByCustomerID(customer.ID)
	require.NoError(t, err)

	require.NoError(t, repo.CreateItem(&model.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  1,
		UnitPrice: product.UnitPrice,
	}))

	require.NoError(t, repo.DeleteItemsByCartID(cart.ID))

	var count int64
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count)
	assert.Zero(t, count)
}
