package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zencart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products, optionally restricted to one category.
func (r *GORMProductRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	products := []models.Product{}
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New().String()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing product. Unlike Save it
// leaves created_at alone and never inserts.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if _, err := uuid.Parse(product.ID); err != nil {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"image":       product.Image,
		"category":    product.Category,
		"company":     product.Company,
		"seller":      product.Seller,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	if err := r.db.WithContext(ctx).First(product, "id = ?", product.ID).Error; err != nil {
		return fmt.Errorf("failed to reload product %s: %w", product.ID, err)
	}
	return nil
}

// Delete permanently removes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByName returns up to limit products whose name contains query,
// ignoring case. Wildcards in query match literally. SQLite's LOWER and LIKE
// fold ASCII only, so on that dialect names are compared in Go.
func (r *GORMProductRepository) SearchByName(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if r.db.Dialector.Name() == "sqlite" {
		return r.searchFolded(ctx, query, limit)
	}

	products := []models.Product{}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("created_at ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// searchFolded streams products in creation order and keeps those whose
// lower-cased name contains the lower-cased query.
func (r *GORMProductRepository) searchFolded(ctx context.Context, query string, limit int) ([]models.Product, error) {
	products := []models.Product{}
	if limit <= 0 {
		return products, nil
	}

	rows, err := r.db.WithContext(ctx).Model(&models.Product{}).Order("created_at ASC").Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	needle := strings.ToLower(query)
	for rows.Next() {
		var p models.Product
		if err := r.db.ScanRows(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		products = append(products, p)
		if len(products) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Categories picks the product with the smallest ID in each category as its
// representative, in one grouped sub-query.
func (r *GORMProductRepository) Categories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	representatives := r.db.Model(&models.Product{}).
		Select("MIN(id)").
		Where("category <> ''").
		Group("category")
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("category AS name, image").
		Where("id IN (?)", representatives).
		Order("category ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
