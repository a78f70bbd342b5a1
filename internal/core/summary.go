package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategorySummary is the per-category aggregate over a set of
// transactions. It is derived on demand and never persisted.
type CategorySummary struct {
	Category         string          `json:"category" xml:"category"`
	TotalAmount      decimal.Decimal `json:"total_amount" xml:"total_amount"`
	TransactionCount int64           `json:"transaction_count" xml:"transaction_count"`
}

// SummarizeTransactions groups transactions by category, summing amounts
// and counting records. The result is ordered by total amount descending;
// equal totals fall back to category name ascending so the ordering is
// deterministic.
func SummarizeTransactions(txns []Transaction) []CategorySummary {
	byCategory := make(map[string]*CategorySummary)
	order := make([]string, 0)
	for _, t := range txns {
		s, ok := byCategory[t.Category]
		if !ok {
			s = &CategorySummary{Category: t.Category, TotalAmount: decimal.Zero}
			byCategory[t.Category] = s
			order = append(order, t.Category)
		}
		s.TotalAmount = s.TotalAmount.Add(t.Amount)
		s.TransactionCount++
	}

	out := make([]CategorySummary, 0, len(order))
	for _, cat := range order {
		out = append(out, *byCategory[cat])
	}
	sort.SliceStable(out, func(i, j int) bool {
		cmp := out[i].TotalAmount.Cmp(out[j].TotalAmount)
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
