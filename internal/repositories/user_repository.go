package repositories

import (
	"context"

	"zencart/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	// GetByID returns the user with its cart loaded.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// PutCartItem inserts item when its ID is zero and overwrites it otherwise.
	PutCartItem(ctx context.Context, item *models.CartItem) error
}
