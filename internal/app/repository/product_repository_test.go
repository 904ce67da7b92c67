package repository

import (
	"testing"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productRepoFixture struct {
	repo     ProductRepository
	db       *gorm.DB
	category *model.Category
	vehicle  *model.Vehicle
}

func setupProductRepoTest(t *testing.T) *productRepoFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	category := &model.Category{Name: "Filters", Slug: "filters"}
	require.NoError(t, testDB.Create(category).Error)

	mk := &model.Make{Name: "Ford", Slug: "ford"}
	require.NoError(t, testDB.Create(mk).Error)
	vm := &model.VehicleModel{MakeID: mk.ID, Name: "F-150", Slug: "f-150"}
	require.NoError(t, testDB.Create(vm).Error)
	vehicle := &model.Vehicle{ModelID: vm.ID, Year: 2020, Trim: "XLT"}
	require.NoError(t, testDB.Create(vehicle).Error)

	return &productRepoFixture{
		repo:     NewProductRepository(testDB),
		db:       testDB,
		category: category,
		vehicle:  vehicle,
	}
}

func (f *productRepoFixture) createProduct(t *testing.T, title, sku string, price float64, inventory int) *model.Product {
	t.Helper()
	product := &model.Product{
		Title:      title,
		Slug:       sku, // unique enough for tests
		SKU:        sku,
		UnitPrice:  price,
		Inventory:  inventory,
		CategoryID: f.category.ID,
		IsActive:   true,
	}
	require.NoError(t, f.repo.Create(product))
	return product
}

func TestProductRepository_FindWithFilter_Search(t *testing.T) {
	f := setupProductRepoTest(t)
	f.createProduct(t, "Oil Filter", "OF-1", 9.99, 5)
	f.createProduct(t, "Air Filter", "AF-1", 14.99, 5)
	f.createProduct(t, "Brake Pads", "BP-1", 49.99, 5)

	products, total, err := f.repo.FindWithFilter(ProductFilter{Search: "filter"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)
}

func TestProductRepository_FindWithFilter_PriceRangeAndSort(t *testing.T) {
	f := setupProductRepoTest(t)
	f.createProduct(t, "Cheap", "C-1", 5.00, 5)
	f.createProduct(t, "Mid", "M-1", 20.00, 5)
	f.createProduct(t, "Expensive", "E-1", 100.00, 5)

	products, total, err := f.repo.FindWithFilter(ProductFilter{
		MinPrice: 10.00,
		MaxPrice: 50.00,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Mid", products[0].Title)

	products, _, err = f.repo.FindWithFilter(ProductFilter{SortBy: "price_desc"})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Expensive", products[0].Title)
	assert.Equal(t, "Cheap", products[2].Title)
}

func TestProductRepository_FindWithFilter_InactiveHidden(t *testing.T) {
	f := setupProductRepoTest(t)
	f.createProduct(t, "Active", "A-1", 10.00, 5)

	inactive := &model.Product{
		Title:      "Inactive",
		Slug:       "inactive",
		SKU:        "I-1",
		UnitPrice:  10.00,
		CategoryID: f.category.ID,
		IsActive:   false,
	}
	require.NoError(t, f.repo.Create(inactive))

	_, total, err := f.repo.FindWithFilter(ProductFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestProductRepository_FindWithFilter_VehicleIncludesUniversal(t *testing.T) {
	f := setupProductRepoTest(t)

	fitted := f.createProduct(t, "Fitted Part", "FP-1", 30.00, 5)
	require.NoError(t, f.repo.CreateFitment(&model.ProductFitment{
		ProductID: fitted.ID,
		VehicleID: f.vehicle.ID,
	}))

	universal := &model.Product{
		Title:       "Universal Mat",
		Slug:        "universal-mat",
		SKU:         "UM-1",
		UnitPrice:   15.00,
		CategoryID:  f.category.ID,
		IsUniversal: true,
		IsActive:    true,
	}
	require.NoError(t, f.repo.Create(universal))

	f.createProduct(t, "Unrelated Part", "UP-1", 12.00, 5)

	products, total, err := f.repo.FindWithFilter(ProductFilter{VehicleID: f.vehicle.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	titles := make([]string, 0, len(products))
	for _, p := range products {
		titles = append(titles, p.Title)
	}
	assert.Contains(t, titles, "Fitted Part")
	assert.Contains(t, titles, "Universal Mat")
	assert.NotContains(t, titles, "Unrelated Part")
}

func TestProductRepository_FitsVehicle(t *testing.T) {
	f := setupProductRepoTest(t)

	product := f.createProduct(t, "Strut", "ST-1", 80.00, 5)

	fits, err := f.repo.FitsVehicle(product.ID, f.vehicle.ID)
	require.NoError(t, err)
	assert.False(t, fits)

	require.NoError(t, f.repo.CreateFitment(&model.ProductFitment{
		ProductID: product.ID,
		VehicleID: f.vehicle.ID,
		Position:  model.PositionFront,
	}))

	fits, err = f.repo.FitsVehicle(product.ID, f.vehicle.ID)
	require.NoError(t, err)
	assert.True(t, fits)
}

func TestProductRepository_DuplicateFitmentRejected(t *testing.T) {
	f := setupProductRepoTest(t)

	product := f.createProduct(t, "Shock", "SH-1", 60.00, 5)
	require.NoError(t, f.repo.CreateFitment(&model.ProductFitment{
		ProductID: product.ID,
		VehicleID: f.vehicle.ID,
	}))

	err := f.repo.CreateFitment(&model.ProductFitment{
		ProductID: product.ID,
		VehicleID: f.vehicle.ID,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProductRepository_FindBelowReorderLevel(t *testing.T) {
	f := setupProductRepoTest(t)

	low := &model.Product{
		Title:        "Low Stock",
		Slug:         "low-stock",
		SKU:          "LS-1",
		UnitPrice:    10.00,
		Inventory:    3,
		ReorderLevel: 5,
		CategoryID:   f.category.ID,
		IsActive:     true,
	}
	require.NoError(t, f.repo.Create(low))

	healthy := &model.Product{
		Title:        "Healthy Stock",
		Slug:         "healthy-stock",
		SKU:          "HS-1",
		UnitPrice:    10.00,
		Inventory:    50,
		ReorderLevel: 5,
		CategoryID:   f.category.ID,
		IsActive:     true,
	}
	require.NoError(t, f.repo.Create(healthy))

	products, err := f.repo.FindBelowReorderLevel()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Low Stock", products[0].Title)
}

func TestProductRepository_DuplicateSKURejected(t *testing.T) {
	f := setupProductRepoTest(t)
	f.createProduct(t, "First", "DUP-1", 10.00, 5)

	err := f.repo.Create(&model.Product{
		Title:      "Second",
		Slug:       "second",
		SKU:        "DUP-1",
		UnitPrice:  10.00,
		CategoryID: f.category.ID,
		IsActive:   true,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
