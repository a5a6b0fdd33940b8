// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"zencart/internal/config"
	"zencart/internal/repositories"
	"zencart/internal/server"
	"zencart/internal/storage"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// TestSecret signs the tokens of servers started by NewAPIServer.
const TestSecret = "test_jwt_secret"

// TestConfig returns a configuration backed entirely by memory.
func TestConfig() *config.Config {
	return &config.Config{
		AppPort:        ":0",
		DatabaseDriver: config.DriverMemory,
		ImageStorage:   config.ImageStorageURL,
		CORSOrigin:     "https://shop.example.com",
		CORSHeaders:    "Content-Type,Authorization",
		JWTSecret:      TestSecret,
		EventBroker:    config.BrokerNone,
		ConnectTimeout: time.Second,
	}
}

// MemoryDependencies returns fresh in-memory stores.
func MemoryDependencies() server.Dependencies {
	return server.Dependencies{
		Products: repositories.NewMockProductRepository(),
		Users:    repositories.NewMockUserRepository(),
		Orders:   repositories.NewMockOrderRepository(),
		Images:   storage.URLStore{},
	}
}

// NewAPIServer serves the full application over memory stores on a local
// HTTP listener that is closed when the test ends. images may be nil.
func NewAPIServer(t *testing.T, images storage.ImageStore) (*httptest.Server, server.Dependencies) {
	t.Helper()

	deps := MemoryDependencies()
	cfg := TestConfig()
	if images != nil {
		deps.Images = images
	}
	srv := httptest.NewServer(adaptor.FiberApp(server.New(cfg, deps)))
	t.Cleanup(srv.Close)
	return srv, deps
}
