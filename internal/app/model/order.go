package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
	ShippingPickup    ShippingMethod = "pickup"
)

// Order is an immutable snapshot of a checkout. Line items copy the
// product title and price at placement time; later catalog edits never
// change a placed order.
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	OrderNumber    string         `gorm:"uniqueIndex;size:30;not null" json:"order_number"`
	CustomerID     uint           `gorm:"not null;index" json:"customer_id"`
	AddressID      uint           `gorm:"not null" json:"address_id"`
	Status         OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus  `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	ShippingMethod ShippingMethod `gorm:"type:varchar(20);default:'standard'" json:"shipping_method"`
	ShippingCost   float64        `gorm:"not null" json:"shipping_cost"`
	TrackingNumber string         `gorm:"size:100" json:"tracking_number"`
	CustomerNotes  string         `gorm:"type:text" json:"customer_notes"`
	AdminNotes     string         `gorm:"type:text" json:"admin_notes"`
	PlacedAt       time.Time      `gorm:"autoCreateTime" json:"placed_at"`
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Customer Customer    `gorm:"foreignKey:CustomerID" json:"-"`
	Address  Address     `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Total is items subtotal plus shipping.
func (o *Order) Total() float64 {
	total := o.ShippingCost
	for i := range o.Items {
		total += o.Items[i].Subtotal()
	}
	return total
}

type OrderItem struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	OrderID      uint    `gorm:"not null;index" json:"order_id"`
	ProductID    uint    `gorm:"not null" json:"product_id"`
	ProductTitle string  `gorm:"size:255;not null" json:"product_title"`
	SKU          string  `gorm:"size:100;column:sku" json:"sku"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	UnitPrice    float64 `gorm:"not null" json:"unit_price"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
