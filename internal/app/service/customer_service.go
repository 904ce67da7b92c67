package service

import (
	"errors"
	"time"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrAddressNotFound        = errors.New("address not found")
	ErrAddressAccessDenied    = errors.New("address does not belong to customer")
	ErrGarageEntryNotFound    = errors.New("garage entry not found")
	ErrGarageAccessDenied     = errors.New("garage entry does not belong to customer")
	ErrVehicleAlreadyInGarage = errors.New("vehicle already in garage")
)

// AddressInput carries the writable address fields.
type AddressInput struct {
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	IsDefault bool
}

// GarageInput carries the writable garage entry fields.
type GarageInput struct {
	VehicleID    uint
	Nickname     string
	IsPrimary    bool
	VIN          string
	Mileage      *int
	PurchaseDate *time.Time
}

type CustomerService interface {
	GetProfile(userID uint) (*model.Customer, error)
	UpdateProfile(userID uint, phone string, birthDate *time.Time) (*model.Customer, error)

	ListAddresses(userID uint) ([]model.Address, error)
	AddAddress(userID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) error

	ListGarage(userID uint) ([]model.CustomerVehicle, error)
	AddToGarage(userID uint, input GarageInput) (*model.CustomerVehicle, error)
	UpdateGarageEntry(userID, entryID uint, nickname string, mileage *int) (*model.CustomerVehicle, error)
	RemoveFromGarage(userID, entryID uint) error
	SetPrimaryVehicle(userID, entryID uint) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	addressRepo  repository.AddressRepository
	garageRepo   repository.GarageRepository
	vehicleRepo  repository.VehicleRepository
}

func NewCustomerService(
	customerRepo repository.CustomerRepository,
	addressRepo repository.AddressRepository,
	garageRepo repository.GarageRepository,
	vehicleRepo repository.VehicleRepository,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		addressRepo:  addressRepo,
		garageRepo:   garageRepo,
		vehicleRepo:  vehicleRepo,
	}
}

func (s *customerService) customerByUserID(userID uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Customer not found for user", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetProfile(userID uint) (*model.Customer, error) {
	logger.Debug("Fetching customer profile", map[string]interface{}{
		"user_id": userID,
	})

	customer, err := s.customerRepo.FindByUserIDWithProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to fetch customer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateProfile(userID uint, phone string, birthDate *time.Time) (*model.Customer, error) {
	logger.Info("Updating customer profile", map[string]interface{}{
		"user_id": userID,
	})

	customer, err := s.customerByUserID(userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if phone != "" && phone != customer.Phone {
		customer.Phone = phone
		updated = true
	}
	if birthDate != nil {
		customer.BirthDate = birthDate
		updated = true
	}

	if !updated {
		return customer, nil
	}

	if err := s.customerRepo.Update(customer); err != nil {
		logger.Error("Failed to update customer profile", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return nil, err
	}

	logger.Info("Customer profile updated successfully", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return customer, nil
}

func (s *customerService) ListAddresses(userID uint) ([]model.Address, error) {
	customer, err := s.customerByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.addressRepo.FindByCustomerID(customer.ID)
}

func (s *customerService) AddAddress(userID uint, input AddressInput) (*model.Address, error) {
	customer, err := s.customerByUserID(userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Adding address", map[string]interface{}{
		"customer_id": customer.ID,
		"city":        input.City,
	})

	existing, err := s.addressRepo.FindByCustomerID(customer.ID)
	if err != nil {
		return nil, err
	}

	address := &model.Address{
		CustomerID: customer.ID,
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		ZipCode:    input.ZipCode,
		Country:    input.Country,
		// First address always becomes the default
		IsDefault: input.IsDefault || len(existing) == 0,
	}

	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}

	if address.IsDefault {
		if err := s.addressRepo.SetDefault(customer.ID, address.ID); err != nil {
			logger.Error("Failed to set default address after create", err, map[string]interface{}{
				"customer_id": customer.ID,
				"address_id":  address.ID,
			})
			return nil, err
		}
	}

	logger.Info("Address added successfully", map[string]interface{}{
		"customer_id": customer.ID,
		"address_id":  address.ID,
		"is_default":  address.IsDefault,
	})
	return address, nil
}

func (s *customerService) ownedAddress(userID, addressID uint) (*model.Customer, *model.Address, error) {
	customer, err := s.customerByUserID(userID)
	if err != nil {
		return nil, nil, err
	}

	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAddressNotFound
		}
		return nil, nil, err
	}
	if address.CustomerID != customer.ID {
		logger.Warn("Address access denied", map[string]interface{}{
			"customer_id": customer.ID,
			"address_id":  addressID,
		})
		return nil, nil, ErrAddressAccessDenied
	}
	return customer, address, nil
}

func (s *customerService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	customer, address, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Street = input.Street
	address.City = input.City
	address.State = input.State
	address.ZipCode = input.ZipCode
	if input.Country != "" {
		address.Country = input.Country
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(customer.ID, address.ID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	logger.Info("Address updated successfully", map[string]interface{}{
		"customer_id": customer.ID,
		"address_id":  address.ID,
	})
	return address, nil
}

func (s *customerService) DeleteAddress(userID, addressID uint) error {
	customer, address, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return err
	}

	if err := s.addressRepo.Delete(addressID); err != nil {
		return err
	}

	logger.Info("Address deleted", map[string]interface{}{
		"customer_id": customer.ID,
		"address_id":  addressID,
		"was_default": address.IsDefault,
	})
	return nil
}

func (s *customerService) SetDefaultAddress(userID, addressID uint) error {
	customer, _, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return err
	}
	return s.addressRepo.SetDefault(customer.ID, addressID)
}

func (s *customerService) ListGarage(userID uint) ([]model.CustomerVehicle, error) {
	customer, err := s.customerByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.garageRepo.FindByCustomerID(customer.ID)
}

func (s *customerService) AddToGarage(userID uint, input GarageInput) (*model.CustomerVehicle, error) {
	customer, err := s.customerByUserID(userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Adding vehicle to garage", map[string]interface{}{
		"customer_id": customer.ID,
		"vehicle_id":  input.VehicleID,
	})

	// Vehicle must exist in the catalog
	if _, err := s.vehicleRepo.FindVehicleByID(input.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	existing, err := s.garageRepo.FindByCustomerID(customer.ID)
	if err != nil {
		return nil, err
	}

	entry := &model.CustomerVehicle{
		CustomerID:   customer.ID,
		VehicleID:    input.VehicleID,
		Nickname:     input.Nickname,
		VIN:          input.VIN,
		Mileage:      input.Mileage,
		PurchaseDate: input.PurchaseDate,
		// First garage vehicle always becomes primary
		IsPrimary: input.IsPrimary || len(existing) == 0,
	}

	if err := s.garageRepo.Create(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Vehicle already in garage", map[string]interface{}{
				"customer_id": customer.ID,
				"vehicle_id":  input.VehicleID,
			})
			return nil, ErrVehicleAlreadyInGarage
		}
		return nil, err
	}

	if entry.IsPrimary {
		if err := s.garageRepo.SetPrimary(customer.ID, entry.ID); err != nil {
			logger.Error("Failed to set primary vehicle after create", err, map[string]interface{}{
				"customer_id": customer.ID,
				"entry_id":    entry.ID,
			})
			return nil, err
		}
	}

	logger.Info("Vehicle added to garage", map[string]interface{}{
		"customer_id": customer.ID,
		"entry_id":    entry.ID,
		"vehicle_id":  input.VehicleID,
		"is_primary":  entry.IsPrimary,
	})

	return s.garageRepo.FindByID(entry.ID)
}

func (s *customerService) ownedGarageEntry(userID, entryID uint) (*model.Customer, *model.CustomerVehicle, error) {
	customer, err := s.customerByUserID(userID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.garageRepo.FindByID(entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGarageEntryNotFound
		}
		return nil, nil, err
	}
	if entry.CustomerID != customer.ID {
		logger.Warn("Garage entry access denied", map[string]interface{}{
			"customer_id": customer.ID,
			"entry_id":    entryID,
		})
		return nil, nil, ErrGarageAccessDenied
	}
	return customer, entry, nil
}

func (s *customerService) UpdateGarageEntry(userID, entryID uint, nickname string, mileage *int) (*model.CustomerVehicle, error) {
	_, entry, err := s.ownedGarageEntry(userID, entryID)
	if err != nil {
		return nil, err
	}

	if nickname != "" {
		entry.Nickname = nickname
	}
	if mileage != nil {
		entry.Mileage = mileage
	}

	if err := s.garageRepo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *customerService) RemoveFromGarage(userID, entryID uint) error {
	customer, entry, err := s.ownedGarageEntry(userID, entryID)
	if err != nil {
		return err
	}

	if err := s.garageRepo.Delete(entryID); err != nil {
		return err
	}

	logger.Info("Vehicle removed from garage", map[string]interface{}{
		"customer_id": customer.ID,
		"entry_id":    entryID,
		"was_primary": entry.IsPrimary,
	})
	return nil
}

func (s *customerService) SetPrimaryVehicle(userID, entryID uint) error {
	customer, _, err := s.ownedGarageEntry(userID, entryID)
	if err != nil {
		return err
	}
	return s.garageRepo.SetPrimary(customer.ID, entryID)
}
