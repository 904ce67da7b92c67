package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductType string

const (
	ProductTypeOEM         ProductType = "oem"
	ProductTypeAftermarket ProductType = "aftermarket"
	ProductTypePerformance ProductType = "performance"
	ProductTypeUniversal   ProductType = "universal"
)

type FitmentPosition string

const (
	PositionFront FitmentPosition = "front"
	PositionRear  FitmentPosition = "rear"
	PositionLeft  FitmentPosition = "left"
	PositionRight FitmentPosition = "right"
)

type DocumentType string

const (
	DocumentInstall  DocumentType = "install"
	DocumentManual   DocumentType = "manual"
	DocumentWarranty DocumentType = "warranty"
	DocumentDiagram  DocumentType = "diagram"
	DocumentVideo    DocumentType = "video"
)

type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Slug           string         `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	SKU            string         `gorm:"uniqueIndex;size:100;not null;column:sku" json:"sku"`
	Description    string         `gorm:"type:text" json:"description"`
	UnitPrice      float64        `gorm:"not null" json:"unit_price"`
	CostPrice      *float64       `json:"cost_price,omitempty"`
	Inventory      int            `gorm:"not null;default:0" json:"inventory"`
	ReorderLevel   int            `gorm:"not null;default:10" json:"reorder_level"`
	CategoryID     uint           `gorm:"not null;index" json:"category_id"`
	ManufacturerID *uint          `gorm:"index" json:"manufacturer_id,omitempty"`
	PartNumber     string         `gorm:"size:100" json:"part_number"`
	OEMPartNumber  string         `gorm:"size:100;column:oem_part_number" json:"oem_part_number"`
	ProductType    ProductType    `gorm:"type:varchar(20);default:'aftermarket'" json:"product_type"`
	IsUniversal    bool           `gorm:"default:false" json:"is_universal"`
	WarrantyMonths int            `gorm:"not null;default:12" json:"warranty_months"`
	IsActive       bool           `gorm:"not null" json:"is_active"`
	IsFeatured     bool           `gorm:"default:false" json:"is_featured"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"last_updated"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Category       Category               `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Manufacturer   *Manufacturer          `gorm:"foreignKey:ManufacturerID;constraint:OnDelete:SET NULL" json:"manufacturer,omitempty"`
	Specifications []ProductSpecification `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"specifications,omitempty"`
	Fitments       []ProductFitment       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"fitments,omitempty"`
	Documents      []ProductDocument      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type ProductSpecification struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Value     string `gorm:"size:255;not null" json:"value"`
	Unit      string `gorm:"size:50" json:"unit"`
}

func (ProductSpecification) TableName() string {
	return "product_specifications"
}

// ProductFitment declares that a product fits a specific vehicle. A
// product with no fitment rows matches no vehicle unless it is universal.
type ProductFitment struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	ProductID    uint            `gorm:"not null;uniqueIndex:idx_fitments_product_vehicle" json:"product_id"`
	VehicleID    uint            `gorm:"not null;uniqueIndex:idx_fitments_product_vehicle" json:"vehicle_id"`
	FitmentNotes string          `gorm:"type:text" json:"fitment_notes"`
	Position     FitmentPosition `gorm:"type:varchar(20)" json:"position"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
	Vehicle Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (ProductFitment) TableName() string {
	return "product_fitments"
}

type ProductDocument struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	ProductID    uint         `gorm:"not null;index" json:"product_id"`
	DocumentType DocumentType `gorm:"type:varchar(20);not null" json:"document_type"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	FileURL      string       `gorm:"size:500" json:"file_url"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductDocument) TableName() string {
	return "product_documents"
}
