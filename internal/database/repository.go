package database

import (
	"context"
	"fmt"
	"time"

	"stock-advisor/internal/advisor"
)

// SignalRecord is a persisted signal log row.
type SignalRecord struct {
	ID              int64     `json:"id"`
	Ticker          string    `json:"ticker"`
	SignalType      string    `json:"signal_type"`
	Category        string    `json:"category"`
	Strength        int       `json:"strength"`
	StrengthLabel   string    `json:"strength_label"`
	Priority        int       `json:"priority"`
	PriceAtSignal   float64   `json:"price_at_signal"`
	CompositeScore  int       `json:"composite_score"`
	DipScore        int       `json:"dip_score"`
	ConvictionScore int       `json:"conviction_score"`
	Mode            string    `json:"mode"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

// Repository provides signal log access.
type Repository struct {
	db *DB
}

// NewRepository creates a repository over the connection pool.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// HealthCheck pings the database.
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

// LogSignals inserts one row per projected signal.
func (r *Repository) LogSignals(ctx context.Context, entries []advisor.SignalLogEntry) error {
	query := `
		INSERT INTO signal_log (ticker, signal_type, category, strength, strength_label,
			priority, price_at_signal, composite_score, dip_score, conviction_score, mode, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, e := range entries {
		if _, err := r.db.Pool.Exec(ctx, query,
			e.Ticker, e.SignalType, e.Category, e.Strength, e.StrengthLabel, e.Priority,
			e.PriceAtSignal, e.CompositeScore, e.DipScore, e.ConvictionScore,
			e.Mode, e.Description,
		); err != nil {
			return fmt.Errorf("insert signal for %s: %w", e.Ticker, err)
		}
	}
	return nil
}

// RecentSignals returns signals emitted in the trailing number of days,
// newest first, capped at limit.
func (r *Repository) RecentSignals(ctx context.Context, days, limit int) ([]SignalRecord, error) {
	query := `
		SELECT id, ticker, signal_type, category, strength, strength_label,
			priority, price_at_signal, composite_score, dip_score, conviction_score,
			mode, COALESCE(description, ''), created_at
		FROM signal_log
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 day')
		ORDER BY created_at DESC, priority ASC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, days, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// SignalsByTicker returns the signal history for one ticker, newest first.
func (r *Repository) SignalsByTicker(ctx context.Context, ticker string, limit int) ([]SignalRecord, error) {
	query := `
		SELECT id, ticker, signal_type, category, strength, strength_label,
			priority, price_at_signal, composite_score, dip_score, conviction_score,
			mode, COALESCE(description, ''), created_at
		FROM signal_log
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals for %s: %w", ticker, err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSignals(rows pgxRows) ([]SignalRecord, error) {
	var out []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		if err := rows.Scan(
			&rec.ID, &rec.Ticker, &rec.SignalType, &rec.Category, &rec.Strength,
			&rec.StrengthLabel, &rec.Priority, &rec.PriceAtSignal, &rec.CompositeScore, &rec.DipScore,
			&rec.ConvictionScore, &rec.Mode, &rec.Description, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan signal row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
