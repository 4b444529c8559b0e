package snapshots

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/database/repositories"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
)

// Repository stores analysis snapshot summaries
type Repository struct {
	*repositories.BaseRepository
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		BaseRepository: repositories.NewBase(db, log.With().Str("repo", "snapshots").Logger()),
	}
}

// Save persists one snapshot row
func (r *Repository) Save(s Snapshot) error {
	statuses, err := json.Marshal(s.Statuses)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot statuses: %w", err)
	}

	query := `
		INSERT INTO analysis_snapshots
		(id, created_at, total_value, sharpe_ratio, success_rate, statuses)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.DB().Exec(query,
		s.ID,
		s.CreatedAt.UTC().Format(time.RFC3339Nano),
		s.TotalValue,
		repositories.NullFloat(s.SharpeRatio),
		s.SuccessRate,
		string(statuses),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.Log().Debug().
		Str("id", s.ID).
		Float64("total_value", s.TotalValue).
		Msg("Snapshot saved")

	return nil
}

// List returns up to limit snapshots, newest first
func (r *Repository) List(limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, created_at, total_value, sharpe_ratio, success_rate, statuses
		FROM analysis_snapshots
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.DB().Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Latest returns the most recent snapshot, or nil when none exists
func (r *Repository) Latest() (*Snapshot, error) {
	query := `
		SELECT id, created_at, total_value, sharpe_ratio, success_rate, statuses
		FROM analysis_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := r.DB().QueryRow(query)
	snapshot, err := scanSnapshot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Prune deletes all but the most recent keep rows
func (r *Repository) Prune(keep int) error {
	if keep <= 0 {
		return nil
	}

	query := `
		DELETE FROM analysis_snapshots
		WHERE id NOT IN (
			SELECT id FROM analysis_snapshots
			ORDER BY created_at DESC
			LIMIT ?
		)
	`
	result, err := r.DB().Exec(query, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	if deleted, err := result.RowsAffected(); err == nil && deleted > 0 {
		r.Log().Debug().Int64("deleted", deleted).Msg("Pruned old snapshots")
	}
	return nil
}

func scanSnapshot(scan func(dest ...interface{}) error) (Snapshot, error) {
	var s Snapshot
	var createdAt, statuses string
	var sharpe sql.NullFloat64

	if err := scan(&s.ID, &createdAt, &s.TotalValue, &sharpe, &s.SuccessRate, &statuses); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
	}
	s.CreatedAt = parsed
	s.SharpeRatio = repositories.FloatPtr(sharpe)

	s.Statuses = make(map[diagnostics.Category]CategorySummary)
	if err := json.Unmarshal([]byte(statuses), &s.Statuses); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot statuses: %w", err)
	}

	return s, nil
}
