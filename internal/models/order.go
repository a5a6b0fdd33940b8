package models

import "time"

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID         uint    `json:"-" gorm:"primaryKey"`
	OrderID    string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID  string  `json:"productId" gorm:"type:varchar(36)"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`      // List price at the time of order
	FinalPrice float64 `json:"finalPrice"` // Unit price after the sale discount
}

// Order represents a customer order. OrderName, OrderImage, TotalPrice and
// SavedPrice are a pricing snapshot taken when the order is placed.
type Order struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string      `json:"userId" gorm:"index;type:varchar(36)"`
	OrderName  string      `json:"orderName"`
	OrderImage string      `json:"orderImage"`
	Items      []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice float64     `json:"totalPrice"`
	SavedPrice float64     `json:"savedPrice"`
	Status     string      `json:"status" gorm:"type:varchar(20)"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
