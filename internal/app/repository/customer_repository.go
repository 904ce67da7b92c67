package repository

import (
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByUserID(userID uint) (*model.Customer, error)
	FindByUserIDWithProfile(userID uint) (*model.Customer, error)
	Update(customer *model.Customer) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	logger.Debug("Creating customer in database", map[string]interface{}{
		"user_id": customer.UserID,
	})

	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"user_id": customer.UserID,
		})
		return err
	}

	logger.Debug("Customer created in database", map[string]interface{}{
		"customer_id": customer.ID,
		"user_id":     customer.UserID,
	})
	return nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Preload("User").First(&customer, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find customer by ID in database", err, map[string]interface{}{
				"customer_id": id,
			})
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByUserID(userID uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find customer by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &customer, nil
}

// FindByUserIDWithProfile loads the customer with addresses and garage
// vehicles resolved down to the make.
func (r *customerRepository) FindByUserIDWithProfile(userID uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Preload("Addresses").
		Preload("GarageVehicles.Vehicle.Model.Make").
		First(&customer).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to load customer profile from database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Update(customer *model.Customer) error {
	logger.Debug("Updating customer in database", map[string]interface{}{
		"customer_id": customer.ID,
	})

	if err := r.db.Save(customer).Error; err != nil {
		logger.Error("Failed to update customer in database", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return err
	}
	return nil
}
