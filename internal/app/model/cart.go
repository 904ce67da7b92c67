package model

import "time"

// Cart is the single open cart per customer. It is created lazily the
// first time an item is added.
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CustomerID uint      `gorm:"uniqueIndex;not null" json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	Items    []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem pins the unit price at the moment the product was added, so a
// later catalog price change does not move the line total.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i *CartItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
