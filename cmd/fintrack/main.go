package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/importer"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
	"fintrack/internal/store"
)

// appContext holds the wired services shared by all commands.
type appContext struct {
	cfg       *config.Config
	store     store.TransactionStore
	importer  *importer.Service
	generator *report.Generator
	out       io.Writer
}

var cli struct {
	Import  ImportCmd  `cmd:"" help:"Import transaction files (delimited, JSONL or JSON array)."`
	Query   QueryCmd   `cmd:"" help:"List transactions with filters, sorting and pagination."`
	Summary SummaryCmd `cmd:"" help:"Aggregate transactions by category over a date range."`
	Report  ReportCmd  `cmd:"" help:"Write the monthly category report artifacts."`
	Export  ExportCmd  `cmd:"" help:"Export queried transactions to JSON and XML files."`
}

type ImportCmd struct {
	Paths []string `arg:"" name:"path" help:"Input files to import."`
}

func (c *ImportCmd) Run(app *appContext) error {
	type fileOutcome struct {
		path   string
		result importer.Result
		err    error
	}

	// Files are independent batches; fan out one goroutine per file.
	outcomes := make([]fileOutcome, len(c.Paths))
	var g errgroup.Group
	for i, path := range c.Paths {
		g.Go(func() error {
			result, err := app.importer.ImportFile(context.Background(), path)
			outcomes[i] = fileOutcome{path: path, result: result, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(app.out, "%s: %v\n", o.path, o.err)
			continue
		}
		fmt.Fprintf(app.out, "%s: %s\n", o.path, o.result.Summary(app.cfg.ImportMaxErrorsShown))
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be imported", failed)
	}
	return nil
}

type QueryCmd struct {
	From     string `help:"Start date (YYYY-MM-DD), inclusive."`
	To       string `help:"End date (YYYY-MM-DD), inclusive."`
	Category string `help:"Exact category match."`
	Sort     string `default:"date" help:"Sort field: date, amount or category."`
	Desc     bool   `help:"Sort descending."`
	Page     int64  `default:"1" help:"1-based page number."`
	PageSize int64  `default:"20" help:"Records per page."`
}

func (c *QueryCmd) Run(app *appContext) error {
	r, err := parseRange(c.From, c.To)
	if err != nil {
		return err
	}

	txns, total, err := app.store.Select(context.Background(), store.Query{
		Range:      r,
		Category:   c.Category,
		Sort:       store.ParseSortField(c.Sort),
		Descending: c.Desc,
		Page:       c.Page,
		PageSize:   c.PageSize,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tNOTE")
	for _, t := range txns {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Category, t.Amount.StringFixed(2), t.Note)
	}
	w.Flush()
	fmt.Fprintf(app.out, "%d of %d matching record(s)\n", len(txns), total)
	return nil
}

type SummaryCmd struct {
	From string `help:"Start date (YYYY-MM-DD), inclusive."`
	To   string `help:"End date (YYYY-MM-DD), inclusive."`
	Out  string `help:"Also write the summary to this file."`
}

func (c *SummaryCmd) Run(app *appContext) error {
	r, err := parseRange(c.From, c.To)
	if err != nil {
		return err
	}

	text, err := app.generator.AggregateText(context.Background(), r)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.out, text)

	if c.Out != "" {
		return app.generator.WriteAggregate(context.Background(), r, c.Out)
	}
	return nil
}

type ReportCmd struct {
	Year  int `arg:"" help:"Report year."`
	Month int `arg:"" help:"Report month (1-12)."`
}

func (c *ReportCmd) Run(app *appContext) error {
	return app.generator.GenerateMonthlyReport(context.Background(), c.Year, c.Month)
}

type ExportCmd struct {
	From     string `help:"Start date (YYYY-MM-DD), inclusive."`
	To       string `help:"End date (YYYY-MM-DD), inclusive."`
	Category string `help:"Exact category match."`
	Sort     string `default:"date" help:"Sort field: date, amount or category."`
	Desc     bool   `help:"Sort descending."`
	Out      string `default:"export" help:"Base path for the .json and .xml artifacts."`
}

func (c *ExportCmd) Run(app *appContext) error {
	r, err := parseRange(c.From, c.To)
	if err != nil {
		return err
	}

	txns, total, err := app.store.Select(context.Background(), store.Query{
		Range:      r,
		Category:   c.Category,
		Sort:       store.ParseSortField(c.Sort),
		Descending: c.Desc,
		Page:       1,
		PageSize:   math.MaxInt64,
	})
	if err != nil {
		return err
	}

	if err := app.generator.ExportTransactions(txns, c.Out); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Exported %d record(s) to %s.json and %s.xml\n", total, c.Out, c.Out)
	return nil
}

func parseRange(from, to string) (store.DateRange, error) {
	var r store.DateRange
	if from != "" {
		d, err := core.ParseDate(from)
		if err != nil {
			return r, err
		}
		r.Start = d
	}
	if to != "" {
		d, err := core.ParseDate(to)
		if err != nil {
			return r, err
		}
		r.End = d
	}
	return r, nil
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	kctx := kong.Parse(&cli,
		kong.Name("fintrack"),
		kong.Description("Import, query and report on personal financial records."),
		kong.UsageOnError())

	if err := cfg.Validate(); err != nil {
		kctx.FatalIfErrorf(err)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
	})
	kctx.FatalIfErrorf(err)
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Cleanup failed", applog.FieldError, err)
		}
	}()

	app := &appContext{
		cfg:       cfg,
		store:     result.Store,
		generator: report.NewGenerator(result.Store, cfg.ReportOutputDir, os.Stdout),
		out:       os.Stdout,
	}
	if result.Publisher != nil {
		app.importer = importer.NewService(result.Store, result.Publisher)
	} else {
		app.importer = importer.NewService(result.Store, nil)
	}

	kctx.FatalIfErrorf(kctx.Run(app))
}
