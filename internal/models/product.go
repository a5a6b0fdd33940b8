package models

import "time"

// Product represents a product in the catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Image       string    `json:"image" gorm:"type:varchar(1024);not null"`
	Category    string    `json:"category,omitempty" gorm:"type:varchar(100);index"`
	Company     string    `json:"company,omitempty" gorm:"type:varchar(255)"`
	Seller      string    `json:"seller,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Category is a distinct product category together with the image of one
// product filed under it.
type Category struct {
	Name  string `json:"categoryName"`
	Image string `json:"categoryImage"`
}
