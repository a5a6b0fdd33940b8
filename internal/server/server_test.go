package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"zencart/internal/models"
	"zencart/internal/repositories"
	"zencart/internal/server"
	"zencart/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestNew_Welcome(t *testing.T) {
	app := server.New(testutil.TestConfig(), testutil.MemoryDependencies())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Welcome", string(body))
}

func TestNew_Health(t *testing.T) {
	app := server.New(testutil.TestConfig(), testutil.MemoryDependencies())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestNew_CORS(t *testing.T) {
	app := server.New(testutil.TestConfig(), testutil.MemoryDependencies())

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://shop.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestNew_OrdersRequireToken(t *testing.T) {
	app := server.New(testutil.TestConfig(), testutil.MemoryDependencies())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNew_UnknownRoute(t *testing.T) {
	app := server.New(testutil.TestConfig(), testutil.MemoryDependencies())

	for _, target := range []string{"/nope", "/products/details/", "/users/nope"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/products/create", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Less(t, resp.StatusCode, http.StatusInternalServerError)
}

func TestNew_ServesUploads(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.ImageStorage = "disk"
	cfg.UploadDir = t.TempDir()
	require.NoError(t, os.WriteFile(cfg.UploadDir+"/1-pen.png", []byte("png"), 0o644))
	app := server.New(cfg, testutil.MemoryDependencies())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/1-pen.png", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png", string(body))
}

func TestNew_ProductRoundTrip(t *testing.T) {
	deps := testutil.MemoryDependencies()
	app := server.New(testutil.TestConfig(), deps)

	payload, _ := json.Marshal(map[string]interface{}{
		"name": "Pen", "description": "Blue ink", "price": 10, "image": "pen.png",
	})
	req := httptest.NewRequest(http.MethodPost, "/products/create", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, deps.Products.(*repositories.MockProductRepository).Len())
}
