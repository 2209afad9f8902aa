package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/store"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"

	"github.com/streadway/amqp"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Initialize Repositories ---
	repos, closeRepos, err := openRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeRepos.Close()

	if cfg.SeedData {
		if err := seedData(repos); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
	}

	// --- Initialize Event Publisher ---
	publisher, err := openPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s events: %v", cfg.EventsDriver, err)
	}
	defer publisher.Close()

	app := server.New(cfg, server.Dependencies{Repos: repos, Publisher: publisher})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (store: %s, events: %s)", cfg.AppPort, cfg.StoreDriver, cfg.EventsDriver)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openRepositories selects the JSON document store or a GORM database.
func openRepositories(cfg config.Config) (repositories.Set, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.StoreJSON:
		s, err := store.Open(cfg.StorePath)
		if err != nil {
			return repositories.Set{}, nil, err
		}
		log.Printf("Using JSON store at %s", s.Path())
		return repositories.NewJSONSet(s), closerFunc(func() error { return nil }), nil

	case config.StoreSQLite, config.StorePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := database.Open(ctx, cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return repositories.Set{}, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return repositories.Set{}, nil, err
		}
		return repositories.NewGORMSet(db), sqlDB, nil
	}
	return repositories.Set{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// openPublisher connects the configured broker. With amqp the server also
// consumes its own queue and logs every event it sees.
func openPublisher(cfg config.Config) (events.Publisher, error) {
	switch cfg.EventsDriver {
	case config.EventsAMQP:
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, err
		}
		go func() {
			log.Println("Starting RabbitMQ consumer for storefront events...")
			logEvent := func(msg amqp.Delivery) error {
				log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if err := mqClient.Consume(logEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
		return events.NewBrokerPublisher(mqClient), nil

	case config.EventsKafka:
		producer, err := kafka.NewProducer(kafka.Config{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			return nil, err
		}
		return events.NewBrokerPublisher(producer), nil
	}
	return events.Nop{}, nil
}
