package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/internal/app/service"
	apperrors "github.com/partsden/partsden-backend/internal/errors"
	"github.com/partsden/partsden-backend/internal/middleware"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{
		customerService: customerService,
	}
}

type UpdateProfileRequest struct {
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
}

type AddressRequest struct {
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code" binding:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

type GarageRequest struct {
	VehicleID    uint   `json:"vehicle_id" binding:"required"`
	Nickname     string `json:"nickname"`
	IsPrimary    bool   `json:"is_primary"`
	VIN          string `json:"vin"`
	Mileage      *int   `json:"mileage"`
	PurchaseDate string `json:"purchase_date"` // YYYY-MM-DD
}

type UpdateGarageRequest struct {
	Nickname string `json:"nickname"`
	Mileage  *int   `json:"mileage"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

func (ctrl *CustomerController) respondCustomerError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer profile not found"})
	case errors.Is(err, service.ErrAddressNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
	case errors.Is(err, service.ErrAddressAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Address does not belong to you"})
	case errors.Is(err, service.ErrGarageEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Garage entry not found"})
	case errors.Is(err, service.ErrGarageAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Garage entry does not belong to you"})
	case errors.Is(err, service.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
	case errors.Is(err, service.ErrVehicleAlreadyInGarage):
		c.JSON(http.StatusConflict, gin.H{"error": "Vehicle is already in your garage"})
	default:
		log.Error("Customer operation failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.HandleError(c, err, action)
	}
}

// GetProfile returns the customer profile with addresses and garage
// GET /api/v1/customers/me
func (ctrl *CustomerController) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	customer, err := ctrl.customerService.GetProfile(userID)
	if err != nil {
		ctrl.respondCustomerError(c, err, "fetch profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// UpdateProfile updates phone and birth date
// PUT /api/v1/customers/me
func (ctrl *CustomerController) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date, expected YYYY-MM-DD"})
		return
	}

	customer, err := ctrl.customerService.UpdateProfile(userID, req.Phone, birthDate)
	if err != nil {
		ctrl.respondCustomerError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// ListAddresses returns the customer's addresses, default first
// GET /api/v1/customers/me/addresses
func (ctrl *CustomerController) ListAddresses(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	addresses, err := ctrl.customerService.ListAddresses(userID)
	if err != nil {
		ctrl.respondCustomerError(c, err, "list addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// AddAddress creates an address
// POST /api/v1/customers/me/addresses
func (ctrl *CustomerController) AddAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	address, err := ctrl.customerService.AddAddress(userID, service.AddressInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		ctrl.respondCustomerError(c, err, "add address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// UpdateAddress updates an address
// PUT /api/v1/customers/me/addresses/:id
func (ctrl *CustomerController) UpdateAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	addressID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	address, err := ctrl.customerService.UpdateAddress(userID, addressID, service.AddressInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		ctrl.respondCustomerError(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}

// DeleteAddress removes an address
// DELETE /api/v1/customers/me/addresses/:id
func (ctrl *CustomerController) DeleteAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	addressID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.customerService.DeleteAddress(userID, addressID); err != nil {
		ctrl.respondCustomerError(c, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

// SetDefaultAddress marks an address as the default
// POST /api/v1/customers/me/addresses/:id/default
func (ctrl *CustomerController) SetDefaultAddress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	addressID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.customerService.SetDefaultAddress(userID, addressID); err != nil {
		ctrl.respondCustomerError(c, err, "set default address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
}

// ListGarage returns the customer's saved vehicles, primary first
// GET /api/v1/customers/me/garage
func (ctrl *CustomerController) ListGarage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entries, err := ctrl.customerService.ListGarage(userID)
	if err != nil {
		ctrl.respondCustomerError(c, err, "list garage")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"garage": entries,
		"count":  len(entries),
	})
}

// AddToGarage saves a catalog vehicle to the customer's garage
// POST /api/v1/customers/me/garage
func (ctrl *CustomerController) AddToGarage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req GarageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase_date, expected YYYY-MM-DD"})
		return
	}

	entry, err := ctrl.customerService.AddToGarage(userID, service.GarageInput{
		VehicleID:    req.VehicleID,
		Nickname:     req.Nickname,
		IsPrimary:    req.IsPrimary,
		VIN:          req.VIN,
		Mileage:      req.Mileage,
		PurchaseDate: purchaseDate,
	})
	if err != nil {
		ctrl.respondCustomerError(c, err, "add vehicle to garage")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// UpdateGarageEntry updates nickname or mileage
// PUT /api/v1/customers/me/garage/:id
func (ctrl *CustomerController) UpdateGarageEntry(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateGarageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := ctrl.customerService.UpdateGarageEntry(userID, entryID, req.Nickname, req.Mileage)
	if err != nil {
		ctrl.respondCustomerError(c, err, "update garage entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// RemoveFromGarage deletes a garage entry
// DELETE /api/v1/customers/me/garage/:id
func (ctrl *CustomerController) RemoveFromGarage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.customerService.RemoveFromGarage(userID, entryID); err != nil {
		ctrl.respondCustomerError(c, err, "remove vehicle from garage")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle removed from garage"})
}

// SetPrimaryVehicle marks a garage entry as the primary vehicle
// POST /api/v1/customers/me/garage/:id/primary
func (ctrl *CustomerController) SetPrimaryVehicle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.customerService.SetPrimaryVehicle(userID, entryID); err != nil {
		ctrl.respondCustomerError(c, err, "set primary vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Primary vehicle updated"})
}
