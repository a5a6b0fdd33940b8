// Package database opens the relational and document stores the service
// runs on. Both openers retry with exponential backoff until the configured
// connect timeout elapses.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"zencart/internal/config"
	"zencart/internal/models"

	"github.com/cenkalti/backoff/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table AutoMigrate manages.
func Models() []interface{} {
	return []interface{}{
		&models.Product{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	}
}

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DatabaseDSN), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DatabaseDSN), nil
	default:
		return nil, fmt.Errorf("driver %q has no gorm dialector", cfg.DatabaseDriver)
	}
}

func retry[T any](ctx context.Context, what string, maxElapsed time.Duration, op backoff.Operation[T]) (T, error) {
	notify := func(err error, next time.Duration) {
		log.Printf("%s not ready, retrying in %s: %v", what, next.Round(time.Millisecond), err)
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithNotify(notify),
	)
}

// OpenGORM connects to PostgreSQL or SQLite and migrates the schema.
func OpenGORM(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := retry(ctx, cfg.DatabaseDriver, cfg.ConnectTimeout, func() (*gorm.DB, error) {
		db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return db, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DatabaseDriver, err)
	}

	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	log.Printf("Connected to %s database", cfg.DatabaseDriver)
	return db, nil
}

// migrate creates or updates every table. On failure the pool behind db is
// closed, since the caller never receives it.
func migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		if closeErr := CloseGORM(db); closeErr != nil {
			log.Printf("Error closing database after failed migration: %v", closeErr)
		}
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// CloseGORM releases the connection pool behind db.
func CloseGORM(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// OpenMongo connects to MongoDB, pings the primary and returns the configured
// database together with a function that disconnects the client.
func OpenMongo(ctx context.Context, cfg *config.Config) (*mongo.Database, func(context.Context) error, error) {
	client, err := retry(ctx, "mongodb", cfg.ConnectTimeout, func() (*mongo.Client, error) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return client, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	log.Printf("Connected to MongoDB database %s", cfg.MongoDatabase)
	return client.Database(cfg.MongoDatabase), client.Disconnect, nil
}
