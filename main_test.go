package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zencart/internal/config"
	"zencart/internal/events"
	"zencart/internal/repositories"
	"zencart/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func assertClosed(t *testing.T, closers []io.Closer) {
	for _, c := range closers {
		assert.NoError(t, c.Close())
	}
}

func TestOpenDependencies_Memory(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverMemory,
		ImageStorage:   config.ImageStorageURL,
		EventBroker:    config.BrokerNone,
		ConnectTimeout: time.Second,
	}

	deps, closers, err := openDependencies(t.Context(), cfg)
	require.NoError(t, err)
	assertClosed(t, closers)

	assert.IsType(t, &repositories.MockProductRepository{}, deps.Products)
	assert.IsType(t, &repositories.MockUserRepository{}, deps.Users)
	assert.IsType(t, storage.URLStore{}, deps.Images)
	assert.Equal(t, events.Nop{}, deps.Publisher)
}

func TestOpenDependencies_SQLiteAndDisk(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDSN:    filepath.Join(dir, "zencart.db"),
		ImageStorage:   config.ImageStorageDisk,
		UploadDir:      filepath.Join(dir, "uploads"),
		EventBroker:    config.BrokerNone,
		ConnectTimeout: time.Second,
	}

	deps, closers, err := openDependencies(t.Context(), cfg)
	require.NoError(t, err)
	defer assertClosed(t, closers)

	assert.IsType(t, &repositories.GORMProductRepository{}, deps.Products)
	assert.IsType(t, &repositories.GORMOrderRepository{}, deps.Orders)
	assert.IsType(t, &storage.DiskStore{}, deps.Images)
	assert.DirExists(t, cfg.UploadDir)
}

func TestLogOrderEvent(t *testing.T) {
	assert.NoError(t, logOrderEvent(events.New(events.OrderCreated, map[string]string{"orderId": "o-1"})))
}

func TestCloseAll_ReverseOrder(t *testing.T) {
	var order []string
	closers := []io.Closer{
		closerFunc(func() error { order = append(order, "database"); return nil }),
		closerFunc(func() error { order = append(order, "mongo"); return assert.AnError }),
		closerFunc(func() error { order = append(order, "broker"); return nil }),
	}

	closeAll(closers)
	assert.Equal(t, []string{"broker", "mongo", "database"}, order)
}
