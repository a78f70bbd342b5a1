// Package store defines the record store capability consumed by the
// import pipeline, query engine and report generator. Concrete backends
// live in subpackages and are selected by the backend factory.
package store

import (
	"context"
	"math"
	"strings"

	"fintrack/internal/core"
)

// SortField selects the column a query is ordered by.
type SortField string

const (
	SortDate     SortField = "date"
	SortAmount   SortField = "amount"
	SortCategory SortField = "category"
)

// ParseSortField maps case-insensitive user input to a sort field.
// Unknown values fall back to date.
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortAmount:
		return SortAmount
	case SortCategory:
		return SortCategory
	default:
		return SortDate
	}
}

// DateRange bounds dates inclusively. A zero bound is open.
type DateRange struct {
	Start core.Date
	End   core.Date
}

func (r DateRange) Contains(d core.Date) bool {
	if !r.Start.IsEmpty() && d.Before(r.Start.Time) {
		return false
	}
	if !r.End.IsEmpty() && d.After(r.End.Time) {
		return false
	}
	return true
}

// Query describes one filtered, sorted, paginated select.
//
// Page is 1-based. A PageSize of math.MaxInt64 means "everything"; it
// needs no special casing because the offset computation is guarded
// against overflow. Ties on the sort key are broken by id ascending in
// every backend so pagination stays stable across repeated queries.
type Query struct {
	Range      DateRange
	Category   string
	Sort       SortField
	Descending bool
	Page       int64
	PageSize   int64
}

// Offset returns the row offset for the query. ok is false when the
// multiplication would overflow, in which case the page is necessarily
// past the end of any result set.
func (q Query) Offset() (offset int64, ok bool) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	if q.PageSize <= 0 {
		return 0, true
	}
	if page-1 > math.MaxInt64/q.PageSize {
		return 0, false
	}
	return (page - 1) * q.PageSize, true
}

// Matches reports whether a transaction passes the query's filters.
func (q Query) Matches(t core.Transaction) bool {
	if !q.Range.Contains(t.Date) {
		return false
	}
	if q.Category != "" && t.Category != q.Category {
		return false
	}
	return true
}

// TransactionStore is the persistence capability. Inserts are
// independent single-record commits; there is no batch atomicity.
type TransactionStore interface {
	// Insert persists one transaction and returns the assigned id.
	Insert(ctx context.Context, t core.Transaction) (int64, error)

	// Select returns one page of matching transactions plus the total
	// number of matches before pagination. A page beyond the data
	// yields an empty slice and the correct total.
	Select(ctx context.Context, q Query) ([]core.Transaction, int64, error)

	// SumByCategory aggregates matching transactions per category,
	// ordered by total amount descending.
	SumByCategory(ctx context.Context, r DateRange) ([]core.CategorySummary, error)

	Close() error
}
