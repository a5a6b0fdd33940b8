package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"zencart/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Listing methods return products in insertion order.
type MockProductRepository struct {
	products map[string]models.Product
	order    []string
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Len reports how many products are stored.
func (r *MockProductRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func (r *MockProductRepository) each(fn func(p models.Product) bool) {
	for _, id := range r.order {
		if p, ok := r.products[id]; ok && !fn(p) {
			return
		}
	}
}

// GetAll returns all products, optionally restricted to one category.
func (r *MockProductRepository) GetAll(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	r.each(func(p models.Product) bool {
		if filter.Category == "" || p.Category == filter.Category {
			productList = append(productList, p)
		}
		return true
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	product.ID = uuid.New().String()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SearchByName returns up to limit products whose name contains query,
// ignoring case.
func (r *MockProductRepository) SearchByName(_ context.Context, query string, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	matches := []models.Product{}
	r.each(func(p models.Product) bool {
		if len(matches) >= limit {
			return false
		}
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
		return len(matches) < limit
	})
	return matches, nil
}

// Categories returns each category with the image of the first product
// inserted under it.
func (r *MockProductRepository) Categories(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]string)
	r.each(func(p models.Product) bool {
		if p.Category == "" {
			return true
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = p.Image
		}
		return true
	})
	categories := make([]models.Category, 0, len(seen))
	for name, image := range seen {
		categories = append(categories, models.Category{Name: name, Image: image})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}
