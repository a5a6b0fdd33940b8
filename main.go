package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"zencart/internal/config"
	"zencart/internal/database"
	"zencart/internal/events"
	"zencart/internal/repositories"
	"zencart/internal/server"
	"zencart/internal/storage"
	"zencart/pkg/natsbus"
	"zencart/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	deps, closers, err := openDependencies(ctx, cfg)
	if err != nil {
		closeAll(closers)
		log.Fatalf("Failed to start: %v", err)
	}
	defer closeAll(closers)

	app := server.New(cfg, deps)

	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Printf("Server stopped: %v", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// closeAll closes closers in reverse order of opening and logs failures.
func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
}

// openDependencies connects every store and adapter cfg selects. The
// returned closers are valid even when err is not nil.
func openDependencies(ctx context.Context, cfg *config.Config) (server.Dependencies, []io.Closer, error) {
	var (
		deps    server.Dependencies
		closers []io.Closer
	)

	if cfg.DatabaseDriver == config.DriverMemory {
		deps.Products = repositories.NewMockProductRepository()
		deps.Users = repositories.NewMockUserRepository()
		deps.Orders = repositories.NewMockOrderRepository()
	} else {
		db, err := database.OpenGORM(ctx, cfg)
		if err != nil {
			return deps, closers, err
		}
		closers = append(closers, closerFunc(func() error { return database.CloseGORM(db) }))
		deps.Products = repositories.NewGORMProductRepository(db)
		deps.Users = repositories.NewGORMUserRepository(db)
		deps.Orders = repositories.NewGORMOrderRepository(db)
	}

	if cfg.ProductStore == config.ProductStoreMongo {
		mdb, disconnect, err := database.OpenMongo(ctx, cfg)
		if err != nil {
			return deps, closers, err
		}
		closers = append(closers, closerFunc(func() error { return disconnect(context.Background()) }))
		products := repositories.NewMongoProductRepository(mdb)
		if err := products.EnsureIndexes(ctx); err != nil {
			return deps, closers, fmt.Errorf("failed to create product indexes: %w", err)
		}
		deps.Products = products
	}

	switch cfg.ImageStorage {
	case config.ImageStorageDisk:
		store, err := storage.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return deps, closers, err
		}
		deps.Images = store
	default:
		deps.Images = storage.URLStore{}
	}

	publisher, err := openPublisher(cfg)
	if err != nil {
		return deps, closers, err
	}
	closers = append(closers, publisher)
	deps.Publisher = publisher

	return deps, closers, nil
}

func openPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.EventBroker {
	case config.BrokerRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, err
		}
		log.Println("Starting RabbitMQ consumer for orders...")
		if err := client.Consume(rabbitmq.OrderQueue, logOrderEvent); err != nil {
			client.Close()
			return nil, err
		}
		return client, nil
	case config.BrokerNATS:
		publisher, err := natsbus.Connect(cfg.NATSURL)
		if err != nil {
			return nil, err
		}
		return publisher, nil
	default:
		return events.Nop{}, nil
	}
}

func logOrderEvent(evt events.Event) error {
	log.Printf("Received %s event %s: %v", evt.Type, evt.ID, evt.Payload)
	return nil
}
