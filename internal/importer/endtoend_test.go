package importer

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/report"
	"fintrack/internal/store"
	"fintrack/internal/store/sqlite"
)

// Full pipeline against the default backend: import a delimited file,
// query it back, aggregate by category.
func TestEndToEndSQLite(t *testing.T) {
	ctx := context.Background()

	repo, err := sqlite.NewRepository(filepath.Join(t.TempDir(), "e2e.db"))
	require.NoError(t, err)
	defer repo.Close()

	path := filepath.Join(t.TempDir(), "records.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"2024-01-15|Food|1500.50|Groceries\n"+
			"2024-02-05|Entertainment|1200.00|\n"+
			"2024-02-10|Food|800.25|Restaurant\n"), 0644))

	result, err := NewService(repo, nil).ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Errors)

	food, total, err := repo.Select(ctx, store.Query{Category: "Food", Page: 1, PageSize: math.MaxInt64})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	sum := decimal.Zero
	for _, tx := range food {
		sum = sum.Add(tx.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("2300.75")), "got %s", sum)

	g := report.NewGenerator(repo, t.TempDir(), nil)
	sums, err := g.Summarize(ctx, store.DateRange{})
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "Food", sums[0].Category)
	assert.True(t, sums[0].TotalAmount.Equal(decimal.RequireFromString("2300.75")))
	assert.Equal(t, int64(2), sums[0].TransactionCount)
	assert.Equal(t, "Entertainment", sums[1].Category)
	assert.True(t, sums[1].TotalAmount.Equal(decimal.RequireFromString("1200.00")))
}
