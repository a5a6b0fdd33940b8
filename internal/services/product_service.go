package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"zencart/internal/events"
	"zencart/internal/models"
	"zencart/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// SuggestionLimit caps the number of products SuggestProducts returns.
const SuggestionLimit = 5

// ProductInput carries the client-settable fields of a product. Create and
// update both require the full set.
type ProductInput struct {
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description" validate:"notblank"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"notblank"`
	Category    string  `json:"category"`
	Company     string  `json:"company"`
	Seller      string  `json:"seller"`
}

// ProductList is the result of ListProducts.
type ProductList struct {
	Count int              `json:"count"`
	Data  []models.Product `json:"data"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher events.Publisher
	validate  *validator.Validate
}

// NewProductService creates a new ProductService. A nil publisher disables
// catalog events.
func NewProductService(repo repositories.ProductRepository, publisher events.Publisher) *ProductService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  newValidator(),
	}
}

// ValidateInput reports the fields of in that a create or update would
// reject.
func (s *ProductService) ValidateInput(in ProductInput) error {
	return checkStruct(s.validate, in)
}

// ListProducts retrieves all products, optionally only those in category.
func (s *ProductService) ListProducts(ctx context.Context, category string) (*ProductList, error) {
	products, err := s.repo.GetAll(ctx, repositories.ProductFilter{Category: category})
	if err != nil {
		return nil, &InternalError{Op: "list products", Err: err}
	}
	if products == nil {
		products = []models.Product{}
	}
	return &ProductList{Count: len(products), Data: products}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("get product", id, err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return product, nil
}

// CreateProduct validates in and stores it as a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.ValidateInput(in); err != nil {
		return nil, err
	}
	product := in.toModel("")
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, &InternalError{Op: "create product", Err: err}
	}
	s.publish(ctx, events.New(events.ProductCreated, product))
	return product, nil
}

// UpdateProduct replaces every mutable field of the product with in.
// Optional fields missing from in are cleared.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := s.ValidateInput(in); err != nil {
		return nil, err
	}
	product := in.toModel(id)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.storeError("update product", id, err)
	}
	s.publish(ctx, events.New(events.ProductUpdated, product))
	return product, nil
}

// DeleteProduct permanently deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError("delete product", id, err)
	}
	s.publish(ctx, events.New(events.ProductDeleted, map[string]string{"id": id}))
	return nil
}

// SuggestProducts returns at most SuggestionLimit products whose name
// contains query, ignoring case. A blank query yields an empty list.
func (s *ProductService) SuggestProducts(ctx context.Context, query string) ([]models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Product{}, nil
	}
	products, err := s.repo.SearchByName(ctx, query, SuggestionLimit)
	if err != nil {
		return nil, &InternalError{Op: "suggest products", Err: err}
	}
	if products == nil {
		products = []models.Product{}
	}
	if len(products) > SuggestionLimit {
		products = products[:SuggestionLimit]
	}
	return products, nil
}

// ListCategories returns the distinct categories with a representative
// image each.
func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, &InternalError{Op: "list categories", Err: err}
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *ProductService) storeError(op, id string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return &InternalError{Op: op, Err: err}
}

func (s *ProductService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Printf("Warning: failed to publish %s event %s: %v", evt.Type, evt.ID, err)
	}
}

func (in ProductInput) toModel(id string) *models.Product {
	return &models.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    in.Category,
		Company:     in.Company,
		Seller:      in.Seller,
	}
}
