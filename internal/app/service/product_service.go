package service

import (
	"errors"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/pkg/logger"
	"github.com/partsden/partsden-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductSKUExists      = errors.New("product SKU already exists")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryCycle         = errors.New("category parent change would create a cycle")
	ErrCategoryNotEmpty      = errors.New("category still has children or products")
	ErrManufacturerNotFound  = errors.New("manufacturer not found")
	ErrFitmentAlreadyExists  = errors.New("fitment already exists for this vehicle")
	ErrFitmentNotFound       = errors.New("fitment not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrSpecificationNotFound = errors.New("specification not found")
)

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Title          string
	SKU            string
	Description    string
	UnitPrice      float64
	CostPrice      *float64
	Inventory      int
	ReorderLevel   int
	CategoryID     uint
	ManufacturerID *uint
	PartNumber     string
	OEMPartNumber  string
	ProductType    model.ProductType
	IsUniversal    bool
	WarrantyMonths int
	IsActive       bool
	IsFeatured     bool
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	CheckFitment(productID, vehicleID uint) (bool, error)
	ListLowStock() ([]model.Product, error)

	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error

	AddFitment(productID, vehicleID uint, position model.FitmentPosition, notes string) (*model.ProductFitment, error)
	RemoveFitment(productID, fitmentID uint) error

	AddSpecification(productID uint, name, value, unit string) (*model.ProductSpecification, error)
	RemoveSpecification(productID, specID uint) error

	AddDocument(productID uint, docType model.DocumentType, title, fileURL string) (*model.ProductDocument, error)
	RemoveDocument(productID, documentID uint) error

	ListCategories() ([]model.Category, error)
	GetCategoryTree() ([]model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	CreateCategory(name, description string, parentID *uint) (*model.Category, error)
	UpdateCategory(id uint, name, description string, parentID *uint) (*model.Category, error)
	DeleteCategory(id uint) error

	ListManufacturers() ([]model.Manufacturer, error)
	CreateManufacturer(name string) (*model.Manufacturer, error)
}

type productService struct {
	productRepo repository.ProductRepository
	catalogRepo repository.CatalogRepository
	vehicleRepo repository.VehicleRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	catalogRepo repository.CatalogRepository,
	vehicleRepo repository.VehicleRepository,
) ProductService {
	return &productService{
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		vehicleRepo: vehicleRepo,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListLowStock returns active products at or below their reorder level.
func (s *productService) ListLowStock() ([]model.Product, error) {
	return s.productRepo.FindBelowReorderLevel()
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CheckFitment reports whether the product fits the vehicle.
func (s *productService) CheckFitment(productID, vehicleID uint) (bool, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return false, err
	}
	if _, err := s.vehicleRepo.FindVehicleByID(vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrVehicleNotFound
		}
		return false, err
	}
	return s.productRepo.FitsVehicle(productID, vehicleID)
}

func (s *productService) validateReferences(input ProductInput) error {
	if _, err := s.catalogRepo.FindCategoryByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if input.ManufacturerID != nil {
		if _, err := s.catalogRepo.FindManufacturerByID(*input.ManufacturerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrManufacturerNotFound
			}
			return err
		}
	}
	return nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"sku":   input.SKU,
		"title": input.Title,
	})

	if err := s.validateReferences(input); err != nil {
		return nil, err
	}

	productType := input.ProductType
	if productType == "" {
		productType = model.ProductTypeAftermarket
	}
	reorderLevel := input.ReorderLevel
	if reorderLevel <= 0 {
		reorderLevel = 10
	}
	warranty := input.WarrantyMonths
	if warranty <= 0 {
		warranty = 12
	}

	product := &model.Product{
		Title:          input.Title,
		Slug:           util.Slugify(input.Title),
		SKU:            input.SKU,
		Description:    input.Description,
		UnitPrice:      input.UnitPrice,
		CostPrice:      input.CostPrice,
		Inventory:      input.Inventory,
		ReorderLevel:   reorderLevel,
		CategoryID:     input.CategoryID,
		ManufacturerID: input.ManufacturerID,
		PartNumber:     input.PartNumber,
		OEMPartNumber:  input.OEMPartNumber,
		ProductType:    productType,
		IsUniversal:    input.IsUniversal || productType == model.ProductTypeUniversal,
		WarrantyMonths: warranty,
		IsActive:       input.IsActive,
		IsFeatured:     input.IsFeatured,
	}

	if err := s.productRepo.Create(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Product create failed: duplicate SKU or slug", map[string]interface{}{
				"sku": input.SKU,
			})
			return nil, ErrProductSKUExists
		}
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return s.productRepo.FindByID(product.ID)
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	if err := s.validateReferences(input); err != nil {
		return nil, err
	}

	if input.Title != "" && input.Title != product.Title {
		product.Title = input.Title
		product.Slug = util.Slugify(input.Title)
	}
	if input.SKU != "" {
		product.SKU = input.SKU
	}
	product.Description = input.Description
	product.UnitPrice = input.UnitPrice
	product.CostPrice = input.CostPrice
	product.Inventory = input.Inventory
	if input.ReorderLevel > 0 {
		product.ReorderLevel = input.ReorderLevel
	}
	product.CategoryID = input.CategoryID
	product.ManufacturerID = input.ManufacturerID
	product.PartNumber = input.PartNumber
	product.OEMPartNumber = input.OEMPartNumber
	if input.ProductType != "" {
		product.ProductType = input.ProductType
	}
	product.IsUniversal = input.IsUniversal || product.ProductType == model.ProductTypeUniversal
	if input.WarrantyMonths > 0 {
		product.WarrantyMonths = input.WarrantyMonths
	}
	product.IsActive = input.IsActive
	product.IsFeatured = input.IsFeatured

	if err := s.productRepo.Update(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductSKUExists
		}
		return nil, err
	}

	return s.productRepo.FindByID(id)
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}

	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})
	return s.productRepo.Delete(id)
}

func (s *productService) AddFitment(productID, vehicleID uint, position model.FitmentPosition, notes string) (*model.ProductFitment, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	if _, err := s.vehicleRepo.FindVehicleByID(vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	fitment := &model.ProductFitment{
		ProductID:    productID,
		VehicleID:    vehicleID,
		Position:     position,
		FitmentNotes: notes,
	}

	if err := s.productRepo.CreateFitment(fitment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Fitment already exists", map[string]interface{}{
				"product_id": productID,
				"vehicle_id": vehicleID,
			})
			return nil, ErrFitmentAlreadyExists
		}
		return nil, err
	}

	logger.Info("Fitment added", map[string]interface{}{
		"product_id": productID,
		"vehicle_id": vehicleID,
		"fitment_id": fitment.ID,
	})
	return fitment, nil
}

func (s *productService) RemoveFitment(productID, fitmentID uint) error {
	product, err := s.GetProduct(productID)
	if err != nil {
		return err
	}

	for _, f := range product.Fitments {
		if f.ID == fitmentID {
			return s.productRepo.DeleteFitment(fitmentID)
		}
	}
	return ErrFitmentNotFound
}

func (s *productService) AddSpecification(productID uint, name, value, unit string) (*model.ProductSpecification, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	spec := &model.ProductSpecification{
		ProductID: productID,
		Name:      name,
		Value:     value,
		Unit:      unit,
	}
	if err := s.productRepo.CreateSpecification(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func (s *productService) RemoveSpecification(productID, specID uint) error {
	product, err := s.GetProduct(productID)
	if err != nil {
		return err
	}

	for _, spec := range product.Specifications {
		if spec.ID == specID {
			return s.productRepo.DeleteSpecification(specID)
		}
	}
	return ErrSpecificationNotFound
}

func (s *productService) AddDocument(productID uint, docType model.DocumentType, title, fileURL string) (*model.ProductDocument, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	doc := &model.ProductDocument{
		ProductID:    productID,
		DocumentType: docType,
		Title:        title,
		FileURL:      fileURL,
	}
	if err := s.productRepo.CreateDocument(doc); err != nil {
		return nil, err
	}

	logger.Info("Product document added", map[string]interface{}{
		"product_id":    productID,
		"document_id":   doc.ID,
		"document_type": docType,
	})
	return doc, nil
}

func (s *productService) RemoveDocument(productID, documentID uint) error {
	doc, err := s.productRepo.FindDocumentByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	if doc.ProductID != productID {
		return ErrDocumentNotFound
	}
	return s.productRepo.DeleteDocument(documentID)
}

func (s *productService) ListCategories() ([]model.Category, error) {
	return s.catalogRepo.FindAllCategories()
}

func (s *productService) GetCategoryTree() ([]model.Category, error) {
	return s.catalogRepo.FindRootCategories()
}

func (s *productService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.catalogRepo.FindCategoryBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *productService) CreateCategory(name, description string, parentID *uint) (*model.Category, error) {
	if parentID != nil {
		if _, err := s.catalogRepo.FindCategoryByID(*parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	category := &model.Category{
		Name:        name,
		Slug:        util.Slugify(name),
		Description: description,
		ParentID:    parentID,
	}
	if err := s.catalogRepo.CreateCategory(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        name,
	})
	return category, nil
}

// wouldCreateCycle walks the parent chain from candidate upward and
// reports whether it passes through the category being re-parented.
func (s *productService) wouldCreateCycle(categoryID uint, candidateParentID uint) (bool, error) {
	current := candidateParentID
	for current != 0 {
		if current == categoryID {
			return true, nil
		}
		parent, err := s.catalogRepo.FindCategoryByID(current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrCategoryNotFound
			}
			return false, err
		}
		if parent.ParentID == nil {
			return false, nil
		}
		current = *parent.ParentID
	}
	return false, nil
}

func (s *productService) UpdateCategory(id uint, name, description string, parentID *uint) (*model.Category, error) {
	category, err := s.catalogRepo.FindCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if parentID != nil {
		if *parentID == id {
			return nil, ErrCategoryCycle
		}
		cycle, err := s.wouldCreateCycle(id, *parentID)
		if err != nil {
			return nil, err
		}
		if cycle {
			logger.Warn("Rejected category parent change: cycle", map[string]interface{}{
				"category_id": id,
				"parent_id":   *parentID,
			})
			return nil, ErrCategoryCycle
		}
	}

	if name != "" && name != category.Name {
		category.Name = name
		category.Slug = util.Slugify(name)
	}
	if description != "" {
		category.Description = description
	}
	category.ParentID = parentID

	if err := s.catalogRepo.UpdateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses to remove a category that still has children or
// products, so the tree never silently orphans data.
func (s *productService) DeleteCategory(id uint) error {
	if _, err := s.catalogRepo.FindCategoryByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	children, err := s.catalogRepo.CountCategoryChildren(id)
	if err != nil {
		return err
	}
	products, err := s.catalogRepo.CountCategoryProducts(id)
	if err != nil {
		return err
	}
	if children > 0 || products > 0 {
		logger.Warn("Refusing to delete non-empty category", map[string]interface{}{
			"category_id": id,
			"children":    children,
			"products":    products,
		})
		return ErrCategoryNotEmpty
	}

	return s.catalogRepo.DeleteCategory(id)
}

func (s *productService) ListManufacturers() ([]model.Manufacturer, error) {
	return s.catalogRepo.FindAllManufacturers()
}

func (s *productService) CreateManufacturer(name string) (*model.Manufacturer, error) {
	manufacturer := &model.Manufacturer{
		Name: name,
		Slug: util.Slugify(name),
	}
	if err := s.catalogRepo.CreateManufacturer(manufacturer); err != nil {
		return nil, err
	}
	return manufacturer, nil
}
