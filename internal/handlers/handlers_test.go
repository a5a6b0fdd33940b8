package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"zencart/internal/database"
	"zencart/internal/handlers"
	"zencart/internal/middleware"
	"zencart/internal/repositories"
	"zencart/internal/services"
	"zencart/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test_jwt_secret"

// TestMain silences logging for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupApp builds the full route table over a fresh SQLite database.
func setupApp(t *testing.T, images storage.ImageStore) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	t.Cleanup(func() { _ = database.CloseGORM(db) })

	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	productService := services.NewProductService(productRepo, nil)
	authService := services.NewAuthService(userRepo, testSecret)
	userService := services.NewUserService(userRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.Recover())
	handlers.NewProductHandler(productService, images).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, userService).RegisterRoutes(app)
	handlers.NewCartHandler(userService).RegisterRoutes(app)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app.Group("/orders", middleware.AuthRequired(authService)))
	return app
}

// doJSON sends body as JSON and decodes the response into out when out is
// not nil. It returns the status code.
func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}, out interface{}, headers ...string) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// multipartRequest builds a multipart product form with an optional image file.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}

func TestErrorHandler_Panic(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.Recover())
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	var body map[string]interface{}
	status := doJSON(t, app, http.MethodGet, "/boom", nil, &body)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, middleware.GenericErrorMessage, body["message"])
}
