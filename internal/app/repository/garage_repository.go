package repository

import (
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

type GarageRepository interface {
	Create(entry *model.CustomerVehicle) error
	FindByID(id uint) (*model.CustomerVehicle, error)
	FindByCustomerID(customerID uint) ([]model.CustomerVehicle, error)
	FindByCustomerAndVehicle(customerID, vehicleID uint) (*model.CustomerVehicle, error)
	Update(entry *model.CustomerVehicle) error
	Delete(id uint) error
	SetPrimary(customerID, entryID uint) error
}

type garageRepository struct {
	db *gorm.DB
}

func NewGarageRepository(db *gorm.DB) GarageRepository {
	return &garageRepository{db: db}
}

func (r *garageRepository) Create(entry *model.CustomerVehicle) error {
	logger.Debug("Creating garage entry in database", map[string]interface{}{
		"customer_id": entry.CustomerID,
		"vehicle_id":  entry.VehicleID,
	})

	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create garage entry in database", err, map[string]interface{}{
			"customer_id": entry.CustomerID,
			"vehicle_id":  entry.VehicleID,
		})
		return err
	}
	return nil
}

func (r *garageRepository) FindByID(id uint) (*model.CustomerVehicle, error) {
	var entry model.CustomerVehicle
	err := r.db.Preload("Vehicle.Model.Make").First(&entry, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find garage entry by ID in database", err, map[string]interface{}{
				"entry_id": id,
			})
		}
		return nil, err
	}
	return &entry, nil
}

func (r *garageRepository) FindByCustomerID(customerID uint) ([]model.CustomerVehicle, error) {
	var entries []model.CustomerVehicle
	err := r.db.Where("customer_id = ?", customerID).
		Preload("Vehicle.Model.Make").
		Order("is_primary DESC, added_at ASC").
		Find(&entries).Error
	if err != nil {
		logger.Error("Failed to find garage entries by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return entries, nil
}

func (r *garageRepository) FindByCustomerAndVehicle(customerID, vehicleID uint) (*model.CustomerVehicle, error) {
	var entry model.CustomerVehicle
	err := r.db.Where("customer_id = ? AND vehicle_id = ?", customerID, vehicleID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *garageRepository) Update(entry *model.CustomerVehicle) error {
	logger.Debug("Updating garage entry in database", map[string]interface{}{
		"entry_id":    entry.ID,
		"customer_id": entry.CustomerID,
	})

	if err := r.db.Save(entry).Error; err != nil {
		logger.Error("Failed to update garage entry in database", err, map[string]interface{}{
			"entry_id": entry.ID,
		})
		return err
	}
	return nil
}

func (r *garageRepository) Delete(id uint) error {
	logger.Debug("Deleting garage entry from database", map[string]interface{}{
		"entry_id": id,
	})

	if err := r.db.Delete(&model.CustomerVehicle{}, id).Error; err != nil {
		logger.Error("Failed to delete garage entry from database", err, map[string]interface{}{
			"entry_id": id,
		})
		return err
	}
	return nil
}

// SetPrimary marks one garage entry as primary and clears the flag on the
// customer's other entries in the same transaction.
func (r *garageRepository) SetPrimary(customerID, entryID uint) error {
	logger.Debug("Setting primary garage vehicle in database", map[string]interface{}{
		"customer_id": customerID,
		"entry_id":    entryID,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.CustomerVehicle{}).
			Where("customer_id = ? AND id != ?", customerID, entryID).
			Update("is_primary", false).Error; err != nil {
			logger.Error("Failed to clear primary garage vehicles in database", err, map[string]interface{}{
				"customer_id": customerID,
			})
			return err
		}

		result := tx.Model(&model.CustomerVehicle{}).
			Where("customer_id = ? AND id = ?", customerID, entryID).
			Update("is_primary", true)
		if result.Error != nil {
			logger.Error("Failed to set primary garage vehicle in database", result.Error, map[string]interface{}{
				"customer_id": customerID,
				"entry_id":    entryID,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
