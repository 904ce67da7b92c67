package db

import (
	"github.com/partsden/partsden-backend/internal/app/model"
	"github.com/partsden/partsden-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Customer{},
		&model.Address{},
		&model.Make{},
		&model.VehicleModel{},
		&model.Vehicle{},
		&model.CustomerVehicle{},
		&model.Category{},
		&model.Manufacturer{},
		&model.Product{},
		&model.ProductSpecification{},
		&model.ProductFitment{},
		&model.ProductDocument{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
