package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"zencart/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users  map[string]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Login == user.Login {
			return fmt.Errorf("failed to create user: login %s already exists", user.Login)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	user.Cart = []models.CartItem{}
	r.users[user.ID] = *user
	return nil
}

// GetByLogin returns a user by email or mobile number.
func (r *MockUserRepository) GetByLogin(_ context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Login == login {
			return r.copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user with login %s: %w", login, ErrNotFound)
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return r.copyUser(u), nil
}

// PutCartItem inserts or overwrites a cart line.
func (r *MockUserRepository) PutCartItem(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[item.UserID]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", item.UserID, ErrNotFound)
	}
	cart := append([]models.CartItem(nil), u.Cart...)
	if item.ID == 0 {
		r.nextID++
		item.ID = r.nextID
		cart = append(cart, *item)
	} else {
		for i := range cart {
			if cart[i].ID == item.ID {
				cart[i] = *item
			}
		}
	}
	u.Cart = cart
	u.UpdatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *MockUserRepository) copyUser(u models.User) *models.User {
	u.Cart = append([]models.CartItem{}, u.Cart...)
	return &u
}
