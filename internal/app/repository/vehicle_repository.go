package repository

import (
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	FindAllMakes() ([]model.Make, error)
	FindMakeByID(id uint) (*model.Make, error)
	FindMakeBySlug(slug string) (*model.Make, error)
	CreateMake(make *model.Make) error

	FindModelsByMakeID(makeID uint) ([]model.VehicleModel, error)
	FindModelByID(id uint) (*model.VehicleModel, error)
	CreateModel(vehicleModel *model.VehicleModel) error

	FindVehiclesByModelID(modelID uint, year int) ([]model.Vehicle, error)
	FindVehicleByID(id uint) (*model.Vehicle, error)
	CreateVehicle(vehicle *model.Vehicle) error
	BulkCreateVehicles(vehicles []model.Vehicle, batchSize int) error
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) FindAllMakes() ([]model.Make, error) {
	var makes []model.Make
	if err := r.db.Order("name ASC").Find(&makes).Error; err != nil {
		logger.Error("Failed to find makes in database", err)
		return nil, err
	}
	return makes, nil
}

func (r *vehicleRepository) FindMakeByID(id uint) (*model.Make, error) {
	var make model.Make
	if err := r.db.First(&make, id).Error; err != nil {
		return nil, err
	}
	return &make, nil
}

func (r *vehicleRepository) FindMakeBySlug(slug string) (*model.Make, error) {
	var make model.Make
	if err := r.db.Where("slug = ?", slug).First(&make).Error; err != nil {
		return nil, err
	}
	return &make, nil
}

func (r *vehicleRepository) CreateMake(make *model.Make) error {
	logger.Debug("Creating make in database", map[string]interface{}{
		"name": make.Name,
	})

	if err := r.db.Create(make).Error; err != nil {
		logger.Error("Failed to create make in database", err, map[string]interface{}{
			"name": make.Name,
		})
		return err
	}
	return nil
}

func (r *vehicleRepository) FindModelsByMakeID(makeID uint) ([]model.VehicleModel, error) {
	var models []model.VehicleModel
	err := r.db.Where("make_id = ?", makeID).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		logger.Error("Failed to find vehicle models in database", err, map[string]interface{}{
			"make_id": makeID,
		})
		return nil, err
	}
	return models, nil
}

func (r *vehicleRepository) FindModelByID(id uint) (*model.VehicleModel, error) {
	var vehicleModel model.VehicleModel
	if err := r.db.Preload("Make").First(&vehicleModel, id).Error; err != nil {
		return nil, err
	}
	return &vehicleModel, nil
}

func (r *vehicleRepository) CreateModel(vehicleModel *model.VehicleModel) error {
	logger.Debug("Creating vehicle model in database", map[string]interface{}{
		"make_id": vehicleModel.MakeID,
		"name":    vehicleModel.Name,
	})

	if err := r.db.Create(vehicleModel).Error; err != nil {
		logger.Error("Failed to create vehicle model in database", err, map[string]interface{}{
			"make_id": vehicleModel.MakeID,
			"name":    vehicleModel.Name,
		})
		return err
	}
	return nil
}

// FindVehiclesByModelID lists vehicles for a model, optionally narrowed
// to one model year. year <= 0 means all years.
func (r *vehicleRepository) FindVehiclesByModelID(modelID uint, year int) ([]model.Vehicle, error) {
	query := r.db.Where("model_id = ?", modelID)
	if year > 0 {
		query = query.Where("year = ?", year)
	}

	var vehicles []model.Vehicle
	if err := query.Order("year DESC, trim ASC").Find(&vehicles).Error; err != nil {
		logger.Error("Failed to find vehicles in database", err, map[string]interface{}{
			"model_id": modelID,
			"year":     year,
		})
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) FindVehicleByID(id uint) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.Preload("Model.Make").First(&vehicle, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find vehicle by ID in database", err, map[string]interface{}{
				"vehicle_id": id,
			})
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) CreateVehicle(vehicle *model.Vehicle) error {
	logger.Debug("Creating vehicle in database", map[string]interface{}{
		"model_id": vehicle.ModelID,
		"year":     vehicle.Year,
		"trim":     vehicle.Trim,
	})

	if err := r.db.Create(vehicle).Error; err != nil {
		logger.Error("Failed to create vehicle in database", err, map[string]interface{}{
			"model_id": vehicle.ModelID,
			"year":     vehicle.Year,
			"trim":     vehicle.Trim,
		})
		return err
	}
	return nil
}

// BulkCreateVehicles inserts vehicles in batches for catalog imports.
func (r *vehicleRepository) BulkCreateVehicles(vehicles []model.Vehicle, batchSize int) error {
	logger.Info("Bulk creating vehicles in database", map[string]interface{}{
		"count":      len(vehicles),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(vehicles, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create vehicles in database", err)
		return err
	}
	return nil
}
