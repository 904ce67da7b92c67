package model

import (
	"time"

	"gorm.io/gorm"
)

type MembershipTier string

const (
	MembershipRegular  MembershipTier = "regular"
	MembershipSilver   MembershipTier = "silver"
	MembershipGold     MembershipTier = "gold"
	MembershipPlatinum MembershipTier = "platinum"
)

// Customer holds the shopping profile for exactly one User.
type Customer struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone      string         `gorm:"size:30" json:"phone"`
	BirthDate  *time.Time     `json:"birth_date,omitempty"`
	Membership MembershipTier `gorm:"type:varchar(20);default:'regular'" json:"membership"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User           User              `gorm:"foreignKey:UserID" json:"-"`
	Addresses      []Address         `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	GarageVehicles []CustomerVehicle `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"garage_vehicles,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

type Address struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Street     string    `gorm:"size:255;not null" json:"street"`
	City       string    `gorm:"size:100;not null" json:"city"`
	State      string    `gorm:"size:100" json:"state"`
	ZipCode    string    `gorm:"size:20;not null" json:"zip_code"`
	Country    string    `gorm:"size:100;default:'USA'" json:"country"`
	IsDefault  bool      `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}

// CustomerVehicle is a garage entry: one saved catalog vehicle per customer.
// The composite unique index keeps a vehicle from being saved twice.
type CustomerVehicle struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CustomerID   uint       `gorm:"not null;uniqueIndex:idx_garage_customer_vehicle" json:"customer_id"`
	VehicleID    uint       `gorm:"not null;uniqueIndex:idx_garage_customer_vehicle" json:"vehicle_id"`
	Nickname     string     `gorm:"size:100" json:"nickname"`
	IsPrimary    bool       `gorm:"default:false" json:"is_primary"`
	VIN          string     `gorm:"size:17;column:vin" json:"vin"`
	Mileage      *int       `json:"mileage,omitempty"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	AddedAt      time.Time  `gorm:"autoCreateTime" json:"added_at"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Vehicle  Vehicle  `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (CustomerVehicle) TableName() string {
	return "customer_vehicles"
}
