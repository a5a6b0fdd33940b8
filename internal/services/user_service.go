package services

import (
	"context"
	"errors"
	"fmt"

	"zencart/internal/models"
	"zencart/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CartItemInput is the body of an add-to-cart request.
type CartItemInput struct {
	ProductID string `json:"productId" validate:"notblank"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// UserService serves user profiles and carts.
type UserService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	validate    *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		productRepo: productRepo,
		validate:    newValidator(),
	}
}

// GetUserDetails returns the user with its cart.
func (s *UserService) GetUserDetails(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, &InternalError{Op: "get user", Err: err}
	}
	return user, nil
}

// AddToCart puts a snapshot of the product in the user's cart. Adding a
// product that is already there raises its quantity instead. A zero
// quantity counts as one.
func (s *UserService) AddToCart(ctx context.Context, userID string, in CartItemInput) (*models.User, error) {
	if err := checkStruct(s.validate, in); err != nil {
		return nil, err
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	user, err := s.GetUserDetails(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, in.ProductID)
		}
		return nil, &InternalError{Op: "add to cart", Err: err}
	}

	item := &models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: in.Quantity}
	for i := range user.Cart {
		if user.Cart[i].ProductID == product.ID {
			item = &user.Cart[i]
			item.UserID = user.ID
			item.Quantity += in.Quantity
			break
		}
	}
	item.Name = product.Name
	item.Price = product.Price
	item.Image = product.Image

	if err := s.userRepo.PutCartItem(ctx, item); err != nil {
		return nil, &InternalError{Op: "add to cart", Err: err}
	}
	return s.GetUserDetails(ctx, userID)
}
