package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/partsden/partsden-backend/internal/app/service"
	apperrors "github.com/partsden/partsden-backend/internal/errors"
	"github.com/partsden/partsden-backend/internal/middleware"
)

type VehicleController struct {
	vehicleService service.VehicleService
}

func NewVehicleController(vehicleService service.VehicleService) *VehicleController {
	return &VehicleController{
		vehicleService: vehicleService,
	}
}

type CreateMakeRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateModelRequest struct {
	MakeID uint   `json:"make_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

type CreateVehicleRequest struct {
	ModelID  uint   `json:"model_id" binding:"required"`
	Year     int    `json:"year" binding:"required,gte=1900"`
	Trim     string `json:"trim"`
	Engine   string `json:"engine"`
	BodyType string `json:"body_type"`
}

type SelectVehicleRequest struct {
	VehicleID uint `json:"vehicle_id" binding:"required"`
}

func (ctrl *VehicleController) respondVehicleError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrMakeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Make not found"})
	case errors.Is(err, service.ErrVehicleModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle model not found"})
	case errors.Is(err, service.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
	case errors.Is(err, service.ErrMakeAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Make already exists"})
	case errors.Is(err, service.ErrVehicleAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Vehicle already exists"})
	default:
		log.Error("Vehicle operation failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.HandleError(c, err, action)
	}
}

// ListMakes returns all makes
// GET /api/v1/vehicles/makes
func (ctrl *VehicleController) ListMakes(c *gin.Context) {
	makes, err := ctrl.vehicleService.ListMakes()
	if err != nil {
		ctrl.respondVehicleError(c, err, "list makes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"makes": makes,
		"count": len(makes),
	})
}

// ListModels returns the models of a make
// GET /api/v1/vehicles/makes/:id/models
func (ctrl *VehicleController) ListModels(c *gin.Context) {
	makeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	models, err := ctrl.vehicleService.ListModels(makeID)
	if err != nil {
		ctrl.respondVehicleError(c, err, "list models")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"models": models,
		"count":  len(models),
	})
}

// ListVehicles returns year/trim variants of a model
// GET /api/v1/vehicles/models/:id/vehicles?year=
func (ctrl *VehicleController) ListVehicles(c *gin.Context) {
	modelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = parsed
	}

	vehicles, err := ctrl.vehicleService.ListVehicles(modelID, year)
	if err != nil {
		ctrl.respondVehicleError(c, err, "list vehicles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// GetVehicle returns one vehicle with its model and make
// GET /api/v1/vehicles/:id
func (ctrl *VehicleController) GetVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicle, err := ctrl.vehicleService.GetVehicle(vehicleID)
	if err != nil {
		ctrl.respondVehicleError(c, err, "fetch vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// CreateMake creates a make (admin)
// POST /api/v1/admin/vehicles/makes
func (ctrl *VehicleController) CreateMake(c *gin.Context) {
	var req CreateMakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	make, err := ctrl.vehicleService.CreateMake(req.Name)
	if err != nil {
		ctrl.respondVehicleError(c, err, "create make")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"make": make})
}

// CreateModel creates a vehicle model (admin)
// POST /api/v1/admin/vehicles/models
func (ctrl *VehicleController) CreateModel(c *gin.Context) {
	var req CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	vehicleModel, err := ctrl.vehicleService.CreateModel(req.MakeID, req.Name)
	if err != nil {
		ctrl.respondVehicleError(c, err, "create model")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"model": vehicleModel})
}

// CreateVehicle creates a year/trim variant (admin)
// POST /api/v1/admin/vehicles
func (ctrl *VehicleController) CreateVehicle(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	vehicle, err := ctrl.vehicleService.CreateVehicle(req.ModelID, req.Year, req.Trim, req.Engine, req.BodyType)
	if err != nil {
		ctrl.respondVehicleError(c, err, "create vehicle")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// SelectVehicle stores the visitor's browsing vehicle in the session.
// Works for anonymous visitors via the session cookie; signed-in users
// keep the selection across devices.
// POST /api/v1/vehicles/selected
func (ctrl *VehicleController) SelectVehicle(c *gin.Context) {
	sessionKey, ok := middleware.GetSessionKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No browsing session"})
		return
	}

	var req SelectVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	vehicle, err := ctrl.vehicleService.SelectVehicle(c.Request.Context(), sessionKey, req.VehicleID)
	if err != nil {
		ctrl.respondVehicleError(c, err, "select vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// GetSelectedVehicle returns the session's vehicle, if any
// GET /api/v1/vehicles/selected
func (ctrl *VehicleController) GetSelectedVehicle(c *gin.Context) {
	sessionKey, ok := middleware.GetSessionKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No browsing session"})
		return
	}

	vehicle, err := ctrl.vehicleService.SelectedVehicle(c.Request.Context(), sessionKey)
	if err != nil {
		ctrl.respondVehicleError(c, err, "fetch selected vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// ClearSelectedVehicle clears the session's vehicle
// DELETE /api/v1/vehicles/selected
func (ctrl *VehicleController) ClearSelectedVehicle(c *gin.Context) {
	sessionKey, ok := middleware.GetSessionKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No browsing session"})
		return
	}

	if err := ctrl.vehicleService.ClearSelectedVehicle(c.Request.Context(), sessionKey); err != nil {
		ctrl.respondVehicleError(c, err, "clear selected vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Selected vehicle cleared"})
}
