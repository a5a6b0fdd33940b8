package models

import "time"

// User represents a shopper. Login is either an email address or a
// 10-digit mobile number.
type User struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string     `json:"name" gorm:"type:varchar(100)"`
	Login     string     `json:"login" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string     `json:"-" gorm:"type:varchar(255)"`
	Cart      []CartItem `json:"cart" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is a snapshot of a product sitting in a user's cart.
type CartItem struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	UserID    string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"productId" gorm:"type:varchar(36)"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}
