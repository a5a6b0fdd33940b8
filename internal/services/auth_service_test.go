package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"zencart/internal/models"
	"zencart/internal/repositories"
	"zencart/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) PutCartItem(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

const testJWTSecret = "test_jwt_secret"

func registration() services.RegisterInput {
	return services.RegisterInput{
		Name:            "Test User",
		Login:           "test@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)
	notFound := fmt.Errorf("user with login test@example.com: %w", repositories.ErrNotFound)

	// Test successful registration
	mockRepo.On("GetByLogin", ctx, "test@example.com").Return(nil, notFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, "Test User", user.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Test login already taken
	mockRepo.On("GetByLogin", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(ctx, registration())
	assert.ErrorIs(t, err, services.ErrLoginTaken)
	mockRepo.AssertExpectations(t)

	// Test store failure while checking the login
	mockRepo.On("GetByLogin", ctx, "test@example.com").Return(nil, errors.New("db down")).Once()
	_, err = authService.RegisterUser(ctx, registration())
	var internal *services.InternalError
	assert.ErrorAs(t, err, &internal)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret)

	cases := map[string]struct {
		mutate func(*services.RegisterInput)
		field  string
	}{
		"bad login":         {func(in *services.RegisterInput) { in.Login = "not-an-email" }, "login"},
		"short mobile":      {func(in *services.RegisterInput) { in.Login = "12345" }, "login"},
		"missing name":      {func(in *services.RegisterInput) { in.Name = "" }, "name"},
		"short password":    {func(in *services.RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, "password"},
		"missing confirm":   {func(in *services.RegisterInput) { in.ConfirmPassword = "" }, "confirmPassword"},
		"password mismatch": {func(in *services.RegisterInput) { in.ConfirmPassword = "password124" }, "confirmPassword"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := registration()
			tc.mutate(&in)
			_, err := authService.RegisterUser(context.Background(), in)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestAuthService_RegisterUser_MobileLogin(t *testing.T) {
	authService := services.NewAuthService(repositories.NewMockUserRepository(), testJWTSecret)

	in := registration()
	in.Login = "9876543210"
	user, err := authService.RegisterUser(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", user.Login)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Name:     "Test User",
		Login:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByLogin", ctx, user.Login).Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Login, claims["login"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByLogin", ctx, user.Login).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, "test@example.com", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByLogin", ctx, "nobody@example.com").
		Return(nil, fmt.Errorf("user with login nobody@example.com: %w", repositories.ErrNotFound)).Once()
	_, _, err = authService.LoginUser(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials) // Should not reveal whether the login exists
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"login":   "test@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Test token signed with another secret
	forged, _ := token.SignedString([]byte("other_secret"))
	_, err = authService.ValidateToken(forged)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
