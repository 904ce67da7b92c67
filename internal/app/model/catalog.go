package model

// Category is a node in the self-referential category tree. The schema
// cannot rule out cycles; the service layer rejects cycle-introducing
// parent changes before they are persisted.
type Category struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	ParentID    *uint  `gorm:"index" json:"parent_id,omitempty"`
	Description string `gorm:"type:text" json:"description"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Products []Product  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// Manufacturer is a parts brand (Bosch, Denso, ...), distinct from the
// vehicle Make.
type Manufacturer struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	Products []Product `gorm:"foreignKey:ManufacturerID" json:"-"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}
