package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/postgres"
	"fintrack/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLite:
		return f.createSQLiteBackend(config)
	case Postgres:
		return f.createPostgresBackend(ctx, config)
	case Memory:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	publisher := f.maybeConnectPublisher(config)

	f.logger.Info("Initialized sqlite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &Result{
		Store:     repo,
		Publisher: publisher,
		Cleanup:   closeAll(repo.Close, publisher),
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*Result, error) {
	repo, err := postgres.NewRepository(ctx, config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres repository: %w", err)
	}

	publisher := f.maybeConnectPublisher(config)

	f.logger.Info("Initialized postgres backend", "amqp_enabled", publisher != nil)

	return &Result{
		Store:     repo,
		Publisher: publisher,
		Cleanup:   closeAll(repo.Close, publisher),
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{
		Store:   memory.New(),
		Cleanup: func() error { return nil },
	}, nil
}

// maybeConnectPublisher builds the AMQP client when configured. Failure
// is downgraded to a warning; imports proceed without events.
func (f *DefaultFactory) maybeConnectPublisher(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without import events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func closeAll(storeClose func() error, publisher *amqp.Client) CleanupFunc {
	return func() error {
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				return err
			}
		}
		return storeClose()
	}
}
