package selection

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Snapshot records the provenance of one completed run: which strategy
// configuration produced it, which rebalance date it covers, and the
// resulting symbol/weight set. This is additive bookkeeping; nothing in
// the core reads it back.
type Snapshot struct {
	ConfigHash    string
	RebalanceDate time.Time
	Symbols       []string
	Weights       map[string]float64
	CreatedAt     time.Time
}

// Repository persists selection snapshots. This is the only place that
// writes to quant.selection_snapshots.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection snapshot repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveSnapshot inserts or replaces the snapshot for (ConfigHash,
// RebalanceDate).
func (r *Repository) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	symbols := make([]string, len(snap.Symbols))
	copy(symbols, snap.Symbols)

	weights := make([]float64, len(snap.Symbols))
	for i, s := range snap.Symbols {
		weights[i] = snap.Weights[s]
	}

	query := `
		INSERT INTO quant.selection_snapshots (
			config_hash, rebalance_date, symbols, weights, created_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (config_hash, rebalance_date) DO UPDATE SET
			symbols = EXCLUDED.symbols,
			weights = EXCLUDED.weights,
			created_at = EXCLUDED.created_at
	`

	_, err := r.pool.Exec(ctx, query, snap.ConfigHash, snap.RebalanceDate, symbols, weights, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("save selection snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves the snapshot for (configHash, rebalanceDate), if
// any was recorded.
func (r *Repository) GetSnapshot(ctx context.Context, configHash string, rebalanceDate time.Time) (*Snapshot, error) {
	query := `
		SELECT config_hash, rebalance_date, symbols, weights, created_at
		FROM quant.selection_snapshots
		WHERE config_hash = $1 AND rebalance_date = $2
	`

	var snap Snapshot
	var symbols []string
	var weights []float64

	err := r.pool.QueryRow(ctx, query, configHash, rebalanceDate).Scan(
		&snap.ConfigHash, &snap.RebalanceDate, &symbols, &weights, &snap.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no selection snapshot for config %s at %s", configHash, rebalanceDate.Format("2006-01-02"))
	}
	if err != nil {
		return nil, fmt.Errorf("get selection snapshot: %w", err)
	}

	snap.Symbols = symbols
	snap.Weights = make(map[string]float64, len(symbols))
	for i, s := range symbols {
		snap.Weights[s] = weights[i]
	}

	return &snap, nil
}
