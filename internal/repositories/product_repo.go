package repositories

import (
	"context"
	"errors"

	"zencart/internal/models"
)

// ErrNotFound is returned when a record does not exist or its ID cannot
// identify any record.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows GetAll. Zero values mean no filtering.
type ProductFilter struct {
	Category string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update overwrites every mutable field of the stored product with the
	// values in product and refreshes product from the store.
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, query string, limit int) ([]models.Product, error)
	// Categories lists each distinct non-empty category with the image of
	// one of its products, using a single store query.
	Categories(ctx context.Context) ([]models.Category, error)
}
