package repository

import (
	"strings"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID     uint
	ManufacturerID uint
	VehicleID      uint
	ProductType    model.ProductType
	Search         string
	Featured       bool
	InStockOnly    bool
	MinPrice       float64
	MaxPrice       float64
	Page           int
	PageSize       int
	SortBy         string // price_asc, price_desc, newest, title
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindBelowReorderLevel() ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	BulkCreate(products []model.Product, batchSize int) error

	CreateFitment(fitment *model.ProductFitment) error
	DeleteFitment(id uint) error
	FitsVehicle(productID, vehicleID uint) (bool, error)

	CreateSpecification(spec *model.ProductSpecification) error
	DeleteSpecification(id uint) error

	CreateDocument(doc *model.ProductDocument) error
	FindDocumentByID(id uint) (*model.ProductDocument, error)
	DeleteDocument(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"sku":   product.SKU,
		"title": product.Title,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return nil
}

// BulkCreate inserts products in batches for catalog imports.
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products in database", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err)
		return err
	}
	return nil
}

func (r *productRepository) preloadDetail() *gorm.DB {
	return r.db.
		Preload("Category").
		Preload("Manufacturer").
		Preload("Specifications").
		Preload("Fitments.Vehicle.Model.Make").
		Preload("Documents")
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.preloadDetail().First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	err := r.preloadDetail().Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
				"slug": slug,
			})
		}
		return nil, err
	}
	return &product, nil
}

// FindWithFilter lists active products matching the filter with total count
// for pagination. A vehicle filter matches products with an explicit
// fitment for that vehicle plus universal products.
func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter in database", map[string]interface{}{
		"category_id": filter.CategoryID,
		"vehicle_id":  filter.VehicleID,
		"search":      filter.Search,
		"page":        filter.Page,
	})

	query := r.db.Model(&model.Product{}).Where("products.is_active = ?", true)

	if filter.CategoryID != 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.ManufacturerID != 0 {
		query = query.Where("products.manufacturer_id = ?", filter.ManufacturerID)
	}
	if filter.ProductType != "" {
		query = query.Where("products.product_type = ?", filter.ProductType)
	}
	if filter.Featured {
		query = query.Where("products.is_featured = ?", true)
	}
	if filter.InStockOnly {
		query = query.Where("products.inventory > 0")
	}
	if filter.MinPrice > 0 {
		query = query.Where("products.unit_price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("products.unit_price <= ?", filter.MaxPrice)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(products.title) LIKE ? OR LOWER(products.sku) LIKE ? OR LOWER(products.part_number) LIKE ? OR LOWER(products.oem_part_number) LIKE ?",
			like, like, like, like,
		)
	}
	if filter.VehicleID != 0 {
		query = query.Where(
			"products.is_universal = ? OR EXISTS (SELECT 1 FROM product_fitments WHERE product_fitments.product_id = products.id AND product_fitments.vehicle_id = ?)",
			true, filter.VehicleID,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products in database", err)
		return nil, 0, err
	}

	switch filter.SortBy {
	case "price_asc":
		query = query.Order("products.unit_price ASC")
	case "price_desc":
		query = query.Order("products.unit_price DESC")
	case "title":
		query = query.Order("products.title ASC")
	default:
		query = query.Order("products.created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	var products []model.Product
	if err := query.Preload("Category").Preload("Manufacturer").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter in database", err)
		return nil, 0, err
	}

	logger.Debug("Products found with filter in database", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

// FindBelowReorderLevel lists active products whose inventory has fallen
// to or below their reorder level.
func (r *productRepository) FindBelowReorderLevel() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_active = ? AND inventory <= reorder_level", true).
		Order("inventory ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find products below reorder level in database", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) CreateFitment(fitment *model.ProductFitment) error {
	logger.Debug("Creating product fitment in database", map[string]interface{}{
		"product_id": fitment.ProductID,
		"vehicle_id": fitment.VehicleID,
	})

	if err := r.db.Create(fitment).Error; err != nil {
		logger.Error("Failed to create product fitment in database", err, map[string]interface{}{
			"product_id": fitment.ProductID,
			"vehicle_id": fitment.VehicleID,
		})
		return err
	}
	return nil
}

func (r *productRepository) DeleteFitment(id uint) error {
	logger.Debug("Deleting product fitment from database", map[string]interface{}{
		"fitment_id": id,
	})

	if err := r.db.Delete(&model.ProductFitment{}, id).Error; err != nil {
		logger.Error("Failed to delete product fitment from database", err, map[string]interface{}{
			"fitment_id": id,
		})
		return err
	}
	return nil
}

// FitsVehicle reports whether a product fits a vehicle, either through an
// explicit fitment row or because the product is universal.
func (r *productRepository) FitsVehicle(productID, vehicleID uint) (bool, error) {
	var universal bool
	err := r.db.Model(&model.Product{}).
		Select("is_universal").
		Where("id = ?", productID).
		Scan(&universal).Error
	if err != nil {
		return false, err
	}
	if universal {
		return true, nil
	}

	var count int64
	err = r.db.Model(&model.ProductFitment{}).
		Where("product_id = ? AND vehicle_id = ?", productID, vehicleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) CreateSpecification(spec *model.ProductSpecification) error {
	if err := r.db.Create(spec).Error; err != nil {
		logger.Error("Failed to create product specification in database", err, map[string]interface{}{
			"product_id": spec.ProductID,
			"name":       spec.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) DeleteSpecification(id uint) error {
	if err := r.db.Delete(&model.ProductSpecification{}, id).Error; err != nil {
		logger.Error("Failed to delete product specification from database", err, map[string]interface{}{
			"specification_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) CreateDocument(doc *model.ProductDocument) error {
	logger.Debug("Creating product document in database", map[string]interface{}{
		"product_id":    doc.ProductID,
		"document_type": doc.DocumentType,
	})

	if err := r.db.Create(doc).Error; err != nil {
		logger.Error("Failed to create product document in database", err, map[string]interface{}{
			"product_id": doc.ProductID,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindDocumentByID(id uint) (*model.ProductDocument, error) {
	var doc model.ProductDocument
	if err := r.db.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *productRepository) DeleteDocument(id uint) error {
	if err := r.db.Delete(&model.ProductDocument{}, id).Error; err != nil {
		logger.Error("Failed to delete product document from database", err, map[string]interface{}{
			"document_id": id,
		})
		return err
	}
	return nil
}
