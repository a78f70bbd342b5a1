package importer

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportFileDelimited(t *testing.T) {
	st := memory.New()
	svc := NewService(st, nil)

	path := writeTemp(t, "records.txt",
		"2024-01-15|Food|1500.50|Groceries\n"+
			"2024-02-05|Entertainment|1200.00|\n"+
			"2024-02-10|Food|800.25|Restaurant\n")

	result, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Errors)
	assert.NotEmpty(t, result.BatchID)

	food, total, err := st.Select(context.Background(), store.Query{Category: "Food", Page: 1, PageSize: math.MaxInt64})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	sum := decimal.Zero
	for _, tx := range food {
		sum = sum.Add(tx.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("2300.75")), "got %s", sum)
}

func TestImportFileCountsMalformedLines(t *testing.T) {
	st := memory.New()
	svc := NewService(st, nil)

	path := writeTemp(t, "records.txt",
		"2024-01-15|Food|1500.50|Groceries\n"+
			"2024-01-15|OnlyTwoFields\n"+
			"2024-02-10|Food|800.25|Restaurant\n")

	result, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "Line 2: ")
}

func TestImportFileEmptyPath(t *testing.T) {
	svc := NewService(memory.New(), nil)
	_, err := svc.ImportFile(context.Background(), "   ")
	assert.ErrorIs(t, err, core.ErrEmptyPath)
}

func TestImportFileMissing(t *testing.T) {
	svc := NewService(memory.New(), nil)
	_, err := svc.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestImportFileJSONArrayAbortsOnMalformedFile(t *testing.T) {
	st := memory.New()
	svc := NewService(st, nil)

	path := writeTemp(t, "records.json", `[{"date":"2024-01-15","category":"Food"`)

	result, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Errors)

	_, total, err := st.Select(context.Background(), store.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total, "nothing may be imported from a malformed array file")
}

// failingStore rejects every insert to exercise the skip-and-continue
// persistence policy.
type failingStore struct {
	store.TransactionStore
	failing map[string]bool
}

func (f *failingStore) Insert(ctx context.Context, t core.Transaction) (int64, error) {
	if f.failing[t.Category] {
		return 0, errors.New("disk full")
	}
	return f.TransactionStore.Insert(ctx, t)
}

func TestImportFileSkipsFailedInserts(t *testing.T) {
	st := &failingStore{TransactionStore: memory.New(), failing: map[string]bool{"Entertainment": true}}
	svc := NewService(st, nil)

	path := writeTemp(t, "records.txt",
		"2024-01-15|Food|1500.50\n"+
			"2024-02-05|Entertainment|1200.00\n"+
			"2024-02-10|Food|800.25\n")

	result, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported, "imported reflects only successful inserts")
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "insert failed")
}

type recordingPublisher struct {
	events []*amqp.ImportEvent
	err    error
}

func (p *recordingPublisher) PublishImportEvent(_ context.Context, e *amqp.ImportEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func TestImportFilePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(memory.New(), pub)

	path := writeTemp(t, "records.txt", "2024-01-15|Food|10.00\n")
	result, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, result.BatchID, pub.events[0].BatchID)
	assert.Equal(t, 1, pub.events[0].Imported)
}

func TestImportFilePublishFailureIsNonFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(memory.New(), pub)

	path := writeTemp(t, "records.txt", "2024-01-15|Food|10.00\n")
	result, err := svc.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestResultSummaryCapsMessages(t *testing.T) {
	r := Result{
		Imported: 1,
		Errors:   5,
		Messages: []string{"Line 1: a", "Line 2: b", "Line 3: c", "Line 4: d", "Line 5: e"},
	}
	got := r.Summary(2)
	assert.Contains(t, got, "Imported 1 record(s), 5 error(s)")
	assert.Contains(t, got, "Line 1: a")
	assert.Contains(t, got, "Line 2: b")
	assert.NotContains(t, got, "Line 3: c")
	assert.Contains(t, got, "... and 3 more")

	all := r.Summary(0)
	assert.Contains(t, all, "Line 5: e")
	assert.NotContains(t, all, "more")
}
