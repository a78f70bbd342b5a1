// Package backend selects and constructs the record store (and the
// optional import-event publisher) from configuration.
package backend

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/store"
)

// Type names a store backend.
type Type string

const (
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
	Memory   Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case SQLite, Postgres, Memory:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the constructed store with its optional event
// publisher and cleanup.
type Result struct {
	Store     store.TransactionStore
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// Config holds backend construction parameters.
type Config struct {
	Type Type

	SQLiteDBPath string
	PostgresURL  string

	// AMQP is optional; empty URL disables the publisher.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}
