package repository

import (
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	FindAllCategories() ([]model.Category, error)
	FindRootCategories() ([]model.Category, error)
	FindCategoryByID(id uint) (*model.Category, error)
	FindCategoryBySlug(slug string) (*model.Category, error)
	CreateCategory(category *model.Category) error
	UpdateCategory(category *model.Category) error
	DeleteCategory(id uint) error
	CountCategoryChildren(id uint) (int64, error)
	CountCategoryProducts(id uint) (int64, error)

	FindAllManufacturers() ([]model.Manufacturer, error)
	FindManufacturerByID(id uint) (*model.Manufacturer, error)
	FindManufacturerBySlug(slug string) (*model.Manufacturer, error)
	CreateManufacturer(manufacturer *model.Manufacturer) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindAllCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) FindRootCategories() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Where("parent_id IS NULL").
		Preload("Children").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find root categories in database", err)
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) FindCategoryByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.Preload("Children").First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *catalogRepository) FindCategoryBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("slug = ?", slug).
		Preload("Children").
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *catalogRepository) CreateCategory(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *catalogRepository) UpdateCategory(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *catalogRepository) DeleteCategory(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

func (r *catalogRepository) CountCategoryChildren(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *catalogRepository) CountCategoryProducts(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *catalogRepository) FindAllManufacturers() ([]model.Manufacturer, error) {
	var manufacturers []model.Manufacturer
	if err := r.db.Order("name ASC").Find(&manufacturers).Error; err != nil {
		logger.Error("Failed to find manufacturers in database", err)
		return nil, err
	}
	return manufacturers, nil
}

func (r *catalogRepository) FindManufacturerByID(id uint) (*model.Manufacturer, error) {
	var manufacturer model.Manufacturer
	if err := r.db.First(&manufacturer, id).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func (r *catalogRepository) FindManufacturerBySlug(slug string) (*model.Manufacturer, error) {
	var manufacturer model.Manufacturer
	if err := r.db.Where("slug = ?", slug).First(&manufacturer).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func (r *catalogRepository) CreateManufacturer(manufacturer *model.Manufacturer) error {
	logger.Debug("Creating manufacturer in database", map[string]interface{}{
		"name": manufacturer.Name,
	})

	if err := r.db.Create(manufacturer).Error; err != nil {
		logger.Error("Failed to create manufacturer in database", err, map[string]interface{}{
			"name": manufacturer.Name,
		})
		return err
	}
	return nil
}
