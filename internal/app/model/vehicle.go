package model

// Make is a vehicle manufacturer (Ford, Toyota, ...).
type Make struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	Models []VehicleModel `gorm:"foreignKey:MakeID;constraint:OnDelete:CASCADE" json:"models,omitempty"`
}

func (Make) TableName() string {
	return "makes"
}

// VehicleModel is a model line within a make (F-150, Camry, ...).
type VehicleModel struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	MakeID uint   `gorm:"not null;uniqueIndex:idx_vehicle_models_make_name" json:"make_id"`
	Name   string `gorm:"not null;uniqueIndex:idx_vehicle_models_make_name" json:"name"`
	Slug   string `gorm:"not null" json:"slug"`

	Make     Make      `gorm:"foreignKey:MakeID" json:"make,omitempty"`
	Vehicles []Vehicle `gorm:"foreignKey:ModelID;constraint:OnDelete:CASCADE" json:"vehicles,omitempty"`
}

func (VehicleModel) TableName() string {
	return "vehicle_models"
}

// Vehicle is a concrete year/trim variant of a model. Fitment and garage
// records point at this level.
type Vehicle struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ModelID  uint   `gorm:"not null;uniqueIndex:idx_vehicles_model_year_trim" json:"model_id"`
	Year     int    `gorm:"not null;uniqueIndex:idx_vehicles_model_year_trim" json:"year"`
	Trim     string `gorm:"size:100;uniqueIndex:idx_vehicles_model_year_trim" json:"trim"`
	Engine   string `gorm:"size:100" json:"engine"`
	BodyType string `gorm:"size:50" json:"body_type"`

	Model VehicleModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
