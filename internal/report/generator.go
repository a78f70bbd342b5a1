// Package report computes per-category aggregates over a date range and
// emits them as console tables, JSON and XML artifacts. It also exports
// full transaction sets fetched by the query engine.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Generator answers aggregate queries against the store and writes
// report artifacts under outputDir.
type Generator struct {
	store     store.TransactionStore
	outputDir string
	console   io.Writer
}

// NewGenerator creates a Generator. A nil console defaults to stdout.
func NewGenerator(st store.TransactionStore, outputDir string, console io.Writer) *Generator {
	if console == nil {
		console = os.Stdout
	}
	return &Generator{store: st, outputDir: outputDir, console: console}
}

// MonthRange returns the inclusive first..last day range of a calendar
// month. The last day comes from the zeroth day of the next month, so
// leap years need no special case.
func MonthRange(year, month int) store.DateRange {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return store.DateRange{
		Start: core.NewDate(year, month, 1),
		End:   core.NewDate(year, month, last),
	}
}

// Summarize returns the per-category aggregate for a date range,
// ordered by total amount descending.
func (g *Generator) Summarize(ctx context.Context, r store.DateRange) ([]core.CategorySummary, error) {
	sums, err := g.store.SumByCategory(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return sums, nil
}

// GenerateMonthlyReport writes the month's category summary as JSON and
// XML artifacts and echoes a table with a totals row. A month with no
// matching records reports "no data" and writes nothing.
func (g *Generator) GenerateMonthlyReport(ctx context.Context, year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}

	sums, err := g.Summarize(ctx, MonthRange(year, month))
	if err != nil {
		return err
	}

	if len(sums) == 0 {
		slog.InfoContext(ctx, "No data for monthly report", "year", year, "month", month)
		fmt.Fprintf(g.console, "No data for %04d-%02d\n", year, month)
		return nil
	}

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, f := range []Formatter{JSONFormatter{}, XMLFormatter{}} {
		data, err := f.FormatSummaries(sums)
		if err != nil {
			return fmt.Errorf("format summary as %s: %w", f.FileExtension(), err)
		}
		path := filepath.Join(g.outputDir, fmt.Sprintf("summary-%04d-%02d.%s", year, month, f.FileExtension()))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.InfoContext(ctx, "Wrote monthly report artifact", "path", path)
	}

	g.printTable(sums)
	return nil
}

// AggregateText returns the ad-hoc range summary as one indented JSON
// string, used both for direct reporting and for file export.
func (g *Generator) AggregateText(ctx context.Context, r store.DateRange) (string, error) {
	sums, err := g.Summarize(ctx, r)
	if err != nil {
		return "", err
	}
	data, err := JSONFormatter{}.FormatSummaries(sums)
	if err != nil {
		return "", fmt.Errorf("format aggregate: %w", err)
	}
	return string(data), nil
}

// WriteAggregate writes the ad-hoc range summary to path.
func (g *Generator) WriteAggregate(ctx context.Context, r store.DateRange, path string) error {
	text, err := g.AggregateText(ctx, r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write aggregate: %w", err)
	}
	return nil
}

// ExportTransactions writes the full transaction sequence to
// basePath.json and basePath.xml.
func (g *Generator) ExportTransactions(txns []core.Transaction, basePath string) error {
	for _, f := range []Formatter{JSONFormatter{}, XMLFormatter{}} {
		data, err := f.FormatTransactions(txns)
		if err != nil {
			return fmt.Errorf("format transactions as %s: %w", f.FileExtension(), err)
		}
		path := basePath + "." + f.FileExtension()
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func (g *Generator) printTable(sums []core.CategorySummary) {
	w := tabwriter.NewWriter(g.console, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTOTAL\tCOUNT")

	total := decimal.Zero
	var count int64
	for _, s := range sums {
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.Category, s.TotalAmount.StringFixed(2), s.TransactionCount)
		total = total.Add(s.TotalAmount)
		count += s.TransactionCount
	}
	fmt.Fprintf(w, "TOTAL\t%s\t%d\n", total.StringFixed(2), count)
	w.Flush()
}
