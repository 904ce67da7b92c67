package repository

import (
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.Address) error
	FindByID(id uint) (*model.Address, error)
	FindByCustomerID(customerID uint) ([]model.Address, error)
	FindDefaultByCustomerID(customerID uint) (*model.Address, error)
	Update(address *model.Address) error
	Delete(id uint) error
	SetDefault(customerID, addressID uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"customer_id": address.CustomerID,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"customer_id": address.CustomerID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) FindByID(id uint) (*model.Address, error) {
	var address model.Address
	if err := r.db.First(&address, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find address by ID in database", err, map[string]interface{}{
				"address_id": id,
			})
		}
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) FindByCustomerID(customerID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) FindDefaultByCustomerID(customerID uint) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("customer_id = ? AND is_default = ?", customerID, true).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) Update(address *model.Address) error {
	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id":  address.ID,
		"customer_id": address.CustomerID,
	})

	if err := r.db.Save(address).Error; err != nil {
		logger.Error("Failed to update address in database", err, map[string]interface{}{
			"address_id": address.ID,
		})
		return err
	}
	return nil
}

func (r *addressRepository) Delete(id uint) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"address_id": id,
	})

	if err := r.db.Delete(&model.Address{}, id).Error; err != nil {
		logger.Error("Failed to delete address from database", err, map[string]interface{}{
			"address_id": id,
		})
		return err
	}
	return nil
}

// SetDefault marks one address as default and clears the flag on the
// customer's other addresses in the same transaction.
func (r *addressRepository) SetDefault(customerID, addressID uint) error {
	logger.Debug("Setting default address in database", map[string]interface{}{
		"customer_id": customerID,
		"address_id":  addressID,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Address{}).
			Where("customer_id = ? AND id != ?", customerID, addressID).
			Update("is_default", false).Error; err != nil {
			logger.Error("Failed to clear default addresses in database", err, map[string]interface{}{
				"customer_id": customerID,
			})
			return err
		}

		result := tx.Model(&model.Address{}).
			Where("customer_id = ? AND id = ?", customerID, addressID).
			Update("is_default", true)
		if result.Error != nil {
			logger.Error("Failed to set default address in database", result.Error, map[string]interface{}{
				"customer_id": customerID,
				"address_id":  addressID,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
