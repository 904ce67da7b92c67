package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/internal/app/service"
	apperrors "github.com/partsden/partsden-backend/internal/errors"
	"github.com/partsden/partsden-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
	vehicleService service.VehicleService
}

func NewProductController(productService service.ProductService, vehicleService service.VehicleService) *ProductController {
	return &ProductController{
		productService: productService,
		vehicleService: vehicleService,
	}
}

type ProductRequest struct {
	Title          string   `json:"title" binding:"required"`
	SKU            string   `json:"sku" binding:"required"`
	Description    string   `json:"description"`
	UnitPrice      float64  `json:"unit_price" binding:"required,gt=0"`
	CostPrice      *float64 `json:"cost_price"`
	Inventory      int      `json:"inventory" binding:"gte=0"`
	ReorderLevel   int      `json:"reorder_level"`
	CategoryID     uint     `json:"category_id" binding:"required"`
	ManufacturerID *uint    `json:"manufacturer_id"`
	PartNumber     string   `json:"part_number"`
	OEMPartNumber  string   `json:"oem_part_number"`
	ProductType    string   `json:"product_type"`
	IsUniversal    bool     `json:"is_universal"`
	WarrantyMonths int      `json:"warranty_months"`
	IsActive       bool     `json:"is_active"`
	IsFeatured     bool     `json:"is_featured"`
}

type FitmentRequest struct {
	VehicleID uint   `json:"vehicle_id" binding:"required"`
	Position  string `json:"position"`
	Notes     string `json:"notes"`
}

type SpecificationRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
	Unit  string `json:"unit"`
}

type DocumentRequest struct {
	DocumentType string `json:"document_type" binding:"required"`
	Title        string `json:"title" binding:"required"`
	FileURL      string `json:"file_url" binding:"required"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

type ManufacturerRequest struct {
	Name string `json:"name" binding:"required"`
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, service.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case errors.Is(err, service.ErrManufacturerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Manufacturer not found"})
	case errors.Is(err, service.ErrProductSKUExists):
		c.JSON(http.StatusConflict, gin.H{"error": "A product with this SKU already exists"})
	case errors.Is(err, service.ErrFitmentAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Fitment already exists for this vehicle"})
	case errors.Is(err, service.ErrFitmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Fitment not found"})
	case errors.Is(err, service.ErrSpecificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Specification not found"})
	case errors.Is(err, service.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, service.ErrCategoryCycle):
		c.JSON(http.StatusConflict, gin.H{"error": "Category parent change would create a cycle"})
	case errors.Is(err, service.ErrCategoryNotEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has children or products"})
	default:
		log.Error("Product operation failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.HandleError(c, err, action)
	}
}

// GetHome returns the storefront landing data, featured products and
// the top-level category tree
// GET /api/v1/home
func (ctrl *ProductController) GetHome(c *gin.Context) {
	featured, _, err := ctrl.productService.ListProducts(repository.ProductFilter{
		Featured: true,
		Page:     1,
		PageSize: 8,
	})
	if err != nil {
		ctrl.respondProductError(c, err, "fetch home data")
		return
	}

	categories, err := ctrl.productService.GetCategoryTree()
	if err != nil {
		ctrl.respondProductError(c, err, "fetch home data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"featured_products": featured,
		"categories":        categories,
	})
}

// ListProducts lists active products with filters and pagination. Without
// an explicit vehicle_id the authenticated customer's selected vehicle
// narrows the listing.
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Search:      c.Query("search"),
		ProductType: model.ProductType(c.Query("product_type")),
		SortBy:      c.Query("sort"),
		Featured:    c.Query("featured") == "true",
		InStockOnly: c.Query("in_stock") == "true",
	}

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		filter.CategoryID = uint(id)
	}
	if raw := c.Query("manufacturer_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manufacturer_id"})
			return
		}
		filter.ManufacturerID = uint(id)
	}
	if raw := c.Query("vehicle_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle_id"})
			return
		}
		filter.VehicleID = uint(id)
	} else if sessionKey, ok := middleware.GetSessionKey(c); ok {
		if vehicle, err := ctrl.vehicleService.SelectedVehicle(c.Request.Context(), sessionKey); err == nil && vehicle != nil {
			filter.VehicleID = vehicle.ID
		}
	}
	filter.MinPrice, _ = strconv.ParseFloat(c.Query("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		ctrl.respondProductError(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// GetProduct returns the full product detail
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(productID)
	if err != nil {
		ctrl.respondProductError(c, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetProductBySlug returns the full product detail by slug
// GET /api/v1/products/slug/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	product, err := ctrl.productService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		ctrl.respondProductError(c, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CheckFitment reports whether a product fits a vehicle
// GET /api/v1/products/:id/fits/:vehicle_id
func (ctrl *ProductController) CheckFitment(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	vehicleID, ok := pathID(c, "vehicle_id")
	if !ok {
		return
	}

	fits, err := ctrl.productService.CheckFitment(productID, vehicleID)
	if err != nil {
		ctrl.respondProductError(c, err, "check fitment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"vehicle_id": vehicleID,
		"fits":       fits,
	})
}

func (req *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:          req.Title,
		SKU:            req.SKU,
		Description:    req.Description,
		UnitPrice:      req.UnitPrice,
		CostPrice:      req.CostPrice,
		Inventory:      req.Inventory,
		ReorderLevel:   req.ReorderLevel,
		CategoryID:     req.CategoryID,
		ManufacturerID: req.ManufacturerID,
		PartNumber:     req.PartNumber,
		OEMPartNumber:  req.OEMPartNumber,
		ProductType:    model.ProductType(req.ProductType),
		IsUniversal:    req.IsUniversal,
		WarrantyMonths: req.WarrantyMonths,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
	}
}

// CreateProduct creates a product (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := ctrl.productService.CreateProduct(req.toInput())
	if err != nil {
		ctrl.respondProductError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct updates a product (admin)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := ctrl.productService.UpdateProduct(productID, req.toInput())
	if err != nil {
		ctrl.respondProductError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct soft deletes a product (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(productID); err != nil {
		ctrl.respondProductError(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// AddFitment declares that a product fits a vehicle (admin)
// POST /api/v1/admin/products/:id/fitments
func (ctrl *ProductController) AddFitment(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req FitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	fitment, err := ctrl.productService.AddFitment(productID, req.VehicleID, model.FitmentPosition(req.Position), req.Notes)
	if err != nil {
		ctrl.respondProductError(c, err, "add fitment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fitment": fitment})
}

// RemoveFitment deletes a fitment (admin)
// DELETE /api/v1/admin/products/:id/fitments/:fitment_id
func (ctrl *ProductController) RemoveFitment(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	fitmentID, ok := pathID(c, "fitment_id")
	if !ok {
		return
	}

	if err := ctrl.productService.RemoveFitment(productID, fitmentID); err != nil {
		ctrl.respondProductError(c, err, "remove fitment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fitment removed"})
}

// AddSpecification adds a name/value spec row (admin)
// POST /api/v1/admin/products/:id/specifications
func (ctrl *ProductController) AddSpecification(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SpecificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	spec, err := ctrl.productService.AddSpecification(productID, req.Name, req.Value, req.Unit)
	if err != nil {
		ctrl.respondProductError(c, err, "add specification")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"specification": spec})
}

// RemoveSpecification deletes a spec row (admin)
// DELETE /api/v1/admin/products/:id/specifications/:spec_id
func (ctrl *ProductController) RemoveSpecification(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	specID, ok := pathID(c, "spec_id")
	if !ok {
		return
	}

	if err := ctrl.productService.RemoveSpecification(productID, specID); err != nil {
		ctrl.respondProductError(c, err, "remove specification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Specification removed"})
}

// AddDocument attaches a document to a product (admin)
// POST /api/v1/admin/products/:id/documents
func (ctrl *ProductController) AddDocument(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	doc, err := ctrl.productService.AddDocument(productID, model.DocumentType(req.DocumentType), req.Title, req.FileURL)
	if err != nil {
		ctrl.respondProductError(c, err, "add document")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

// RemoveDocument deletes a product document (admin)
// DELETE /api/v1/admin/products/:id/documents/:document_id
func (ctrl *ProductController) RemoveDocument(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	documentID, ok := pathID(c, "document_id")
	if !ok {
		return
	}

	if err := ctrl.productService.RemoveDocument(productID, documentID); err != nil {
		ctrl.respondProductError(c, err, "remove document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document removed"})
}

// ListCategories returns all categories flat
// GET /api/v1/categories
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	if c.Query("tree") == "true" {
		categories, err := ctrl.productService.GetCategoryTree()
		if err != nil {
			ctrl.respondProductError(c, err, "list categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
		return
	}

	categories, err := ctrl.productService.ListCategories()
	if err != nil {
		ctrl.respondProductError(c, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategoryBySlug returns one category with its children
// GET /api/v1/categories/:slug
func (ctrl *ProductController) GetCategoryBySlug(c *gin.Context) {
	category, err := ctrl.productService.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		ctrl.respondProductError(c, err, "fetch category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// CreateCategory creates a category (admin)
// POST /api/v1/admin/categories
func (ctrl *ProductController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	category, err := ctrl.productService.CreateCategory(req.Name, req.Description, req.ParentID)
	if err != nil {
		ctrl.respondProductError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory updates a category (admin)
// PUT /api/v1/admin/categories/:id
func (ctrl *ProductController) UpdateCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	category, err := ctrl.productService.UpdateCategory(categoryID, req.Name, req.Description, req.ParentID)
	if err != nil {
		ctrl.respondProductError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory deletes an empty category (admin)
// DELETE /api/v1/admin/categories/:id
func (ctrl *ProductController) DeleteCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteCategory(categoryID); err != nil {
		ctrl.respondProductError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ListManufacturers returns all manufacturers
// GET /api/v1/manufacturers
func (ctrl *ProductController) ListManufacturers(c *gin.Context) {
	manufacturers, err := ctrl.productService.ListManufacturers()
	if err != nil {
		ctrl.respondProductError(c, err, "list manufacturers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"manufacturers": manufacturers,
		"count":         len(manufacturers),
	})
}

// CreateManufacturer creates a manufacturer (admin)
// POST /api/v1/admin/manufacturers
func (ctrl *ProductController) CreateManufacturer(c *gin.Context) {
	var req ManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	manufacturer, err := ctrl.productService.CreateManufacturer(req.Name)
	if err != nil {
		ctrl.respondProductError(c, err, "create manufacturer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"manufacturer": manufacturer})
}
