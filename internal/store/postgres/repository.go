// Package postgres is the Postgres TransactionStore backend. It keeps
// the same storage contract as the sqlite backend: amounts as integer
// cents, sort-key ties broken by id ascending.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    tx_date DATE NOT NULL,
    category TEXT NOT NULL,
    amount_cents BIGINT NOT NULL,
    note TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_transactions_tx_date ON transactions (tx_date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions (category);
`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, connString string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Insert(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (tx_date, category, amount_cents, note)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		t.Date.Time, t.Category, core.AmountToCents(t.Amount), t.Note).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

func (r *Repository) Select(ctx context.Context, q store.Query) ([]core.Transaction, int64, error) {
	where, args := buildWhere(q.Range, q.Category)

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset, ok := q.Offset()
	if !ok || q.PageSize <= 0 {
		return nil, total, nil
	}

	query := fmt.Sprintf(
		"SELECT id, tx_date, category, amount_cents, note FROM transactions%s ORDER BY %s LIMIT $%d OFFSET $%d",
		where, orderClause(q.Sort, q.Descending), len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, q.PageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var (
			t     core.Transaction
			day   time.Time
			cents int64
		)
		if err := rows.Scan(&t.ID, &day, &t.Category, &cents, &t.Note); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = core.NewDate(day.Year(), int(day.Month()), day.Day())
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
	rows, err := r.pool.Query(ctx, query, args...)
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
		args = append(args, r.Start.Time)
		clauses = append(clauses, fmt.Sprintf("tx_date >= $%d", len(args)))
	}
	if !r.End.IsEmpty() {
		args = append(args, r.End.Time)
		clauses = append(clauses, fmt.Sprintf("tx_date <= $%d", len(args)))
	}
	if category != "" {
		args = append(args, category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
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
