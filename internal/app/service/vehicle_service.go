package service

import (
	"context"
	"errors"

	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/internal/app/repository"
	"github.com/partsden/partsden-backend/internal/session"
	"github.com/partsden/partsden-backend/pkg/logger"
	"github.com/partsden/partsden-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrMakeNotFound         = errors.New("make not found")
	ErrVehicleModelNotFound = errors.New("vehicle model not found")
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrMakeAlreadyExists    = errors.New("make already exists")
	ErrVehicleAlreadyExists = errors.New("vehicle already exists")
)

type VehicleService interface {
	ListMakes() ([]model.Make, error)
	GetMakeBySlug(slug string) (*model.Make, error)
	ListModels(makeID uint) ([]model.VehicleModel, error)
	ListVehicles(modelID uint, year int) ([]model.Vehicle, error)
	GetVehicle(id uint) (*model.Vehicle, error)

	CreateMake(name string) (*model.Make, error)
	CreateModel(makeID uint, name string) (*model.VehicleModel, error)
	CreateVehicle(modelID uint, year int, trim, engine, bodyType string) (*model.Vehicle, error)

	SelectVehicle(ctx context.Context, sessionKey string, vehicleID uint) (*model.Vehicle, error)
	SelectedVehicle(ctx context.Context, sessionKey string) (*model.Vehicle, error)
	ClearSelectedVehicle(ctx context.Context, sessionKey string) error
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	sessions    *session.Store
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, sessions *session.Store) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		sessions:    sessions,
	}
}

func (s *vehicleService) ListMakes() ([]model.Make, error) {
	return s.vehicleRepo.FindAllMakes()
}

func (s *vehicleService) GetMakeBySlug(slug string) (*model.Make, error) {
	make, err := s.vehicleRepo.FindMakeBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMakeNotFound
		}
		return nil, err
	}
	return make, nil
}

func (s *vehicleService) ListModels(makeID uint) ([]model.VehicleModel, error) {
	if _, err := s.vehicleRepo.FindMakeByID(makeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMakeNotFound
		}
		return nil, err
	}
	return s.vehicleRepo.FindModelsByMakeID(makeID)
}

func (s *vehicleService) ListVehicles(modelID uint, year int) ([]model.Vehicle, error) {
	if _, err := s.vehicleRepo.FindModelByID(modelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleModelNotFound
		}
		return nil, err
	}
	return s.vehicleRepo.FindVehiclesByModelID(modelID, year)
}

func (s *vehicleService) GetVehicle(id uint) (*model.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindVehicleByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) CreateMake(name string) (*model.Make, error) {
	logger.Info("Creating make", map[string]interface{}{
		"name": name,
	})

	make := &model.Make{
		Name: name,
		Slug: util.Slugify(name),
	}
	if err := s.vehicleRepo.CreateMake(make); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMakeAlreadyExists
		}
		return nil, err
	}
	return make, nil
}

func (s *vehicleService) CreateModel(makeID uint, name string) (*model.VehicleModel, error) {
	if _, err := s.vehicleRepo.FindMakeByID(makeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMakeNotFound
		}
		return nil, err
	}

	logger.Info("Creating vehicle model", map[string]interface{}{
		"make_id": makeID,
		"name":    name,
	})

	vehicleModel := &model.VehicleModel{
		MakeID: makeID,
		Name:   name,
		Slug:   util.Slugify(name),
	}
	if err := s.vehicleRepo.CreateModel(vehicleModel); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVehicleAlreadyExists
		}
		return nil, err
	}
	return vehicleModel, nil
}

func (s *vehicleService) CreateVehicle(modelID uint, year int, trim, engine, bodyType string) (*model.Vehicle, error) {
	if _, err := s.vehicleRepo.FindModelByID(modelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleModelNotFound
		}
		return nil, err
	}

	logger.Info("Creating vehicle", map[string]interface{}{
		"model_id": modelID,
		"year":     year,
		"trim":     trim,
	})

	vehicle := &model.Vehicle{
		ModelID:  modelID,
		Year:     year,
		Trim:     trim,
		Engine:   engine,
		BodyType: bodyType,
	}
	if err := s.vehicleRepo.CreateVehicle(vehicle); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVehicleAlreadyExists
		}
		return nil, err
	}
	return s.vehicleRepo.FindVehicleByID(vehicle.ID)
}

// SelectVehicle stores the visitor's browsing vehicle in the session so
// catalog listings can be narrowed to parts that fit it. The session key
// identifies either a signed-in user or an anonymous cookie session.
func (s *vehicleService) SelectVehicle(ctx context.Context, sessionKey string, vehicleID uint) (*model.Vehicle, error) {
	vehicle, err := s.GetVehicle(vehicleID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SetSelectedVehicle(ctx, sessionKey, vehicleID); err != nil {
		logger.Error("Failed to store selected vehicle in session", err, map[string]interface{}{
			"session_key": sessionKey,
			"vehicle_id":  vehicleID,
		})
		return nil, err
	}

	logger.Info("Vehicle selected", map[string]interface{}{
		"session_key": sessionKey,
		"vehicle_id":  vehicleID,
	})
	return vehicle, nil
}

// SelectedVehicle returns the session's vehicle, or (nil, nil) when none
// is selected. A stale selection pointing at a removed vehicle is cleared.
func (s *vehicleService) SelectedVehicle(ctx context.Context, sessionKey string) (*model.Vehicle, error) {
	vehicleID, err := s.sessions.SelectedVehicle(ctx, sessionKey)
	if err != nil {
		logger.Error("Failed to read selected vehicle from session", err, map[string]interface{}{
			"session_key": sessionKey,
		})
		return nil, err
	}
	if vehicleID == 0 {
		return nil, nil
	}

	vehicle, err := s.vehicleRepo.FindVehicleByID(vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.sessions.ClearSelectedVehicle(ctx, sessionKey)
			return nil, nil
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) ClearSelectedVehicle(ctx context.Context, sessionKey string) error {
	return s.sessions.ClearSelectedVehicle(ctx, sessionKey)
}
