// Package selectionstore implements contracts.DataSource against the
// engine's Postgres schema, following the teacher's repository
// convention (one struct wrapping a pgxpool.Pool, one query per method,
// no query builder).
package selectionstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantselect/engine/internal/contracts"
)

// Store is the Postgres-backed implementation of contracts.DataSource.
// This is the only place that queries quant.prices and
// quant.index_membership.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ contracts.DataSource = (*Store)(nil)

// DistinctDates returns the sorted, deduplicated set of calendar days for
// which at least one price row exists in [start, end].
func (s *Store) DistinctDates(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT trade_date
		FROM quant.prices
		WHERE trade_date BETWEEN $1 AND $2
		ORDER BY trade_date ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query distinct dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan distinct date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distinct dates: %w", err)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// MembershipsActiveAt returns every symbol with an open or closed
// membership interval covering day d.
func (s *Store) MembershipsActiveAt(ctx context.Context, d time.Time) ([]string, error) {
	query := `
		SELECT symbol
		FROM quant.index_membership
		WHERE start_date <= $1 AND (end_date IS NULL OR end_date >= $1)
		ORDER BY symbol ASC
	`

	rows, err := s.pool.Query(ctx, query, d)
	if err != nil {
		return nil, fmt.Errorf("query active memberships: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan membership symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	return symbols, nil
}

// Prices returns every (symbol, date, price) row for the given symbols in
// [start, end]. price_adj is stored as Postgres numeric and scanned
// through pgtype.Numeric before conversion to float64.
func (s *Store) Prices(ctx context.Context, symbols []string, start, end time.Time) ([]contracts.Price, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	query := `
		SELECT symbol, trade_date, price_adj
		FROM quant.prices
		WHERE symbol = ANY($1) AND trade_date BETWEEN $2 AND $3
	`

	rows, err := s.pool.Query(ctx, query, symbols, start, end)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var out []contracts.Price
	for rows.Next() {
		var symbol string
		var date time.Time
		var priceAdj pgtype.Numeric

		if err := rows.Scan(&symbol, &date, &priceAdj); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}

		value, err := numericToFloat64(priceAdj)
		if err != nil {
			return nil, fmt.Errorf("convert price_adj for %s on %s: %w", symbol, date.Format("2006-01-02"), err)
		}

		out = append(out, contracts.Price{Symbol: symbol, Date: date, PriceAdj: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price rows: %w", err)
	}
	return out, nil
}

// numericToFloat64 converts a pgtype.Numeric scanned from price_adj into a
// float64. The engine operates in 64-bit floating point after this single
// conversion point; round-off below 1e-12 is expected and tolerated by
// every downstream comparison.
func numericToFloat64(n pgtype.Numeric) (float64, error) {
	if !n.Valid {
		return 0, fmt.Errorf("numeric value is not valid")
	}
	f, err := n.Float64Value()
	if err != nil {
		return 0, err
	}
	return f.Float64, nil
}
