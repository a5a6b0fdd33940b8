package database_test

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zencart/internal/config"
	"zencart/internal/database"
	"zencart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestOpenGORM_SQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDSN:    filepath.Join(t.TempDir(), "zencart.db"),
		ConnectTimeout: time.Second,
	}

	db, err := database.OpenGORM(context.Background(), cfg)
	require.NoError(t, err)
	defer database.CloseGORM(db)

	for _, model := range database.Models() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Product{}, "Category"))
}

func TestOpenGORM_UnknownDriver(t *testing.T) {
	cfg := &config.Config{DatabaseDriver: config.DriverMemory, ConnectTimeout: time.Second}

	_, err := database.OpenGORM(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenMongo_GivesUpAfterTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the connect timeout")
	}
	cfg := &config.Config{
		MongoURI:       "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=100",
		MongoDatabase:  "zencart",
		ConnectTimeout: 300 * time.Millisecond,
	}

	_, _, err := database.OpenMongo(context.Background(), cfg)
	assert.Error(t, err)
}
