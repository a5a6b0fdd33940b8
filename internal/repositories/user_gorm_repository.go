package repositories

import (
	"context"
	"errors"
	"fmt"

	"zencart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("Cart").Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.Cart = []models.CartItem{}
	return nil
}

// GetByLogin retrieves a user by email or mobile number.
func (r *GORMUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "login = ?", login).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with login %s: %w", login, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by login %s: %w", login, err)
	}
	return &user, nil
}

// GetByID retrieves a user and its cart by ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Cart", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}
	return &user, nil
}

// PutCartItem inserts or overwrites a cart line.
func (r *GORMUserRepository) PutCartItem(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item for user %s: %w", item.UserID, err)
	}
	return nil
}
