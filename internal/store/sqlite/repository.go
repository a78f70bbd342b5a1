// Package sqlite is the default TransactionStore backend. Dates are
// stored as YYYY-MM-DD text (lexicographic order equals calendar order)
// and amounts as integer cents so SUM stays exact.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (tx_date, category, amount_cents, note) VALUES (?, ?, ?, ?)`,
		t.Date.String(), t.Category, core.AmountToCents(t.Amount), t.Note)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"id", id,
		"date", t.Date.String(),
		"category", t.Category,
		"amount_cents", core.AmountToCents(t.Amount))

	return id, nil
}

func (r *Repository) Select(ctx context.Context, q store.Query) ([]core.Transaction, int64, error) {
	where, args := buildWhere(q.Range, q.Category)

	var total int64
	countQuery := "SELECT COUNT(*) FROM transactions" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset, ok := q.Offset()
	if !ok || q.PageSize <= 0 {
		return nil, total, nil
	}

	query := "SELECT id, tx_date, category, amount_cents, note FROM transactions" + where +
		" ORDER BY " + orderClause(q.Sort, q.Descending) +
		" LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.PageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
			cents   int64
		)
		if err := rows.Scan(&t.ID, &dateStr, &t.Category, &cents, &t.Note); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, 0, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		t.Amount = core.AmountFromCents(cents)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}

	return txns, total, nil
}

func (r *Repository) SumByCategory(ctx context.Context, dr store.DateRange) ([]core.CategorySummary, error) {
	where, args := buildWhere(dr, "")

	query := "SELECT category, SUM(amount_cents), COUNT(*) FROM transactions" + where +
		" GROUP BY category ORDER BY SUM(amount_cents) DESC, category ASC"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var sums []core.CategorySummary
	for rows.Next() {
		var (
			s     core.CategorySummary
			cents int64
		)
		if err := rows.Scan(&s.Category, &cents, &s.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.TotalAmount = core.AmountFromCents(cents)
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return sums, nil
}

func buildWhere(r store.DateRange, category string) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if !r.Start.IsEmpty() {
		clauses = append(clauses, "tx_date >= ?")
		args = append(args, r.Start.String())
	}
	if !r.End.IsEmpty() {
		clauses = append(clauses, "tx_date <= ?")
		args = append(args, r.End.String())
	}
	if category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, category)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(field store.SortField, descending bool) string {
	col := "tx_date"
	switch field {
	case store.SortAmount:
		col = "amount_cents"
	case store.SortCategory:
		col = "category"
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	return col + " " + dir + ", id ASC"
}
