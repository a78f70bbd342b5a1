// Package memory is an in-memory TransactionStore. It is the reference
// implementation for filter/sort/pagination semantics and doubles as the
// store fake in importer and report tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Insert(_ context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.items = append(s.items, t)
	return t.ID, nil
}

func (s *Store) Select(_ context.Context, q store.Query) ([]core.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []core.Transaction
	for _, t := range s.items {
		if q.Matches(t) {
			matched = append(matched, t)
		}
	}
	total := int64(len(matched))

	sortTransactions(matched, q.Sort, q.Descending)

	offset, ok := q.Offset()
	if !ok || offset >= total || q.PageSize <= 0 {
		return nil, total, nil
	}
	end := offset + q.PageSize
	if end > total || end < offset { // end < offset guards addition overflow
		end = total
	}
	page := make([]core.Transaction, end-offset)
	copy(page, matched[offset:end])
	return page, total, nil
}

func (s *Store) SumByCategory(_ context.Context, r store.DateRange) ([]core.CategorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []core.Transaction
	for _, t := range s.items {
		if r.Contains(t.Date) {
			matched = append(matched, t)
		}
	}
	return core.SummarizeTransactions(matched), nil
}

func (s *Store) Close() error { return nil }

// sortTransactions orders by the requested key with id ascending as the
// tie break, matching the ORDER BY clauses of the SQL backends.
func sortTransactions(txns []core.Transaction, field store.SortField, descending bool) {
	keyCmp := func(a, b core.Transaction) int {
		switch field {
		case store.SortAmount:
			return a.Amount.Cmp(b.Amount)
		case store.SortCategory:
			switch {
			case a.Category < b.Category:
				return -1
			case a.Category > b.Category:
				return 1
			}
			return 0
		default:
			switch {
			case a.Date.Before(b.Date.Time):
				return -1
			case a.Date.After(b.Date.Time):
				return 1
			}
			return 0
		}
	}
	sort.SliceStable(txns, func(i, j int) bool {
		cmp := keyCmp(txns[i], txns[j])
		if descending {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		return txns[i].ID < txns[j].ID
	})
}
