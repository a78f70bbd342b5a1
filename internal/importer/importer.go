package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// EventPublisher announces completed import batches. The AMQP client
// implements it; a nil publisher disables events.
type EventPublisher interface {
	PublishImportEvent(ctx context.Context, event *amqp.ImportEvent) error
}

// Result is the outcome of one file import. Errors counts both isolated
// parse failures and skipped inserts; Imported counts only records whose
// insert succeeded.
type Result struct {
	BatchID    string
	SourceFile string
	Imported   int
	Errors     int
	Messages   []string
}

// Summary renders the result with the message list capped at maxShown.
func (r Result) Summary(maxShown int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d record(s), %d error(s)", r.Imported, r.Errors)
	if maxShown <= 0 {
		maxShown = len(r.Messages)
	}
	for i, msg := range r.Messages {
		if i == maxShown {
			fmt.Fprintf(&b, "\n  ... and %d more", len(r.Messages)-maxShown)
			break
		}
		fmt.Fprintf(&b, "\n  %s", msg)
	}
	return b.String()
}

// Service is the import pipeline: read a file, parse every record
// independently, insert each parsed record as its own commit.
type Service struct {
	store     store.TransactionStore
	publisher EventPublisher
}

func NewService(st store.TransactionStore, publisher EventPublisher) *Service {
	return &Service{store: st, publisher: publisher}
}

// ImportFile imports one file, detecting the format from its extension.
//
// An empty path or a missing file is fatal and aborts before any work.
// Parse failures and insert failures are isolated: each is counted,
// carries a human-readable message, and never stops the batch.
func (s *Service) ImportFile(ctx context.Context, path string) (Result, error) {
	return s.importWith(ctx, path, nil)
}

// ImportFileAs imports one file with an explicit format, bypassing
// extension detection.
func (s *Service) ImportFileAs(ctx context.Context, path string, format Format) (Result, error) {
	return s.importWith(ctx, path, format)
}

func (s *Service) importWith(ctx context.Context, path string, format Format) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, core.ErrEmptyPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	if format == nil {
		format = Detect(path)
	}

	result := Result{
		BatchID:    uuid.NewString(),
		SourceFile: path,
	}

	var parsed []core.Transaction
	for _, lr := range format.ParseAll(content) {
		if lr.Err != nil {
			result.Errors++
			result.Messages = append(result.Messages, lr.Err.Error())
			continue
		}
		parsed = append(parsed, lr.Record)
	}

	slog.InfoContext(ctx, "Parsed import file",
		"batch_id", result.BatchID,
		"file", path,
		"format", format.Name(),
		"parsed", len(parsed),
		"parse_errors", result.Errors)

	// Each insert is an independent commit: a failure is logged,
	// counted and skipped, preserving partial progress.
	for i, t := range parsed {
		if _, err := s.store.Insert(ctx, t); err != nil {
			result.Errors++
			result.Messages = append(result.Messages, fmt.Sprintf("Record %d: insert failed: %v", i+1, err))
			slog.WarnContext(ctx, "Skipping record after insert failure",
				"batch_id", result.BatchID,
				"record", i+1,
				"error", err)
			continue
		}
		result.Imported++
	}

	s.publishEvent(ctx, result)

	slog.InfoContext(ctx, "Import finished",
		"batch_id", result.BatchID,
		"file", path,
		"imported", result.Imported,
		"errors", result.Errors)

	return result, nil
}

func (s *Service) publishEvent(ctx context.Context, result Result) {
	if s.publisher == nil {
		return
	}
	event := amqp.NewImportEvent(result.BatchID, result.SourceFile, result.Imported, result.Errors)
	if err := s.publisher.PublishImportEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish import event",
			"batch_id", result.BatchID,
			"error", err)
	}
}
