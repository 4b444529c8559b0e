package settings

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

// Settings keys in the key/value store.
const (
	keyAssumptions   = "assumptions"
	keyScoringConfig = "scoring_config"
)

// Repository persists model assumptions and the scoring configuration
// in the operational database. Load and save happen only at the
// boundary; the loaded values are threaded explicitly into the engine.
type Repository struct {
	*repositories.BaseRepository
	loader *diagnostics.ConfigLoader
}

// NewRepository creates a new settings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		BaseRepository: repositories.NewBase(db, log.With().Str("repo", "settings").Logger()),
		loader:         diagnostics.NewConfigLoader(log),
	}
}

// SeedDefaults writes the default assumptions and scoring config for
// any key that has never been saved. Existing values are left alone.
func (r *Repository) SeedDefaults() error {
	if _, err := r.get(keyAssumptions); errors.Is(err, sql.ErrNoRows) {
		if err := r.SaveAssumptions(DefaultAssumptions()); err != nil {
			return fmt.Errorf("failed to seed assumptions: %w", err)
		}
		r.Log().Info().Msg("Seeded default assumptions")
	} else if err != nil {
		return err
	}

	if _, err := r.get(keyScoringConfig); errors.Is(err, sql.ErrNoRows) {
		if err := r.SaveScoringConfig(diagnostics.DefaultScoringConfig()); err != nil {
			return fmt.Errorf("failed to seed scoring config: %w", err)
		}
		r.Log().Info().Msg("Seeded default scoring config")
	} else if err != nil {
		return err
	}

	return nil
}

// Assumptions loads the stored model parameters, falling back to the
// defaults when nothing has been saved
func (r *Repository) Assumptions() (Assumptions, error) {
	raw, err := r.get(keyAssumptions)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultAssumptions(), nil
	}
	if err != nil {
		return Assumptions{}, err
	}

	var a Assumptions
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Assumptions{}, fmt.Errorf("failed to parse stored assumptions: %w", err)
	}
	return a, nil
}

// SaveAssumptions validates and persists the model parameters
func (r *Repository) SaveAssumptions(a Assumptions) error {
	if err := a.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}
	return r.set(keyAssumptions, string(raw))
}

// ScoringConfig loads the stored scoring configuration, falling back
// to the defaults when nothing has been saved. The stored document is
// revalidated on every load so a bad write can never silently corrupt
// classification.
func (r *Repository) ScoringConfig() (diagnostics.ScoringConfig, error) {
	raw, err := r.get(keyScoringConfig)
	if errors.Is(err, sql.ErrNoRows) {
		return diagnostics.DefaultScoringConfig(), nil
	}
	if err != nil {
		return diagnostics.ScoringConfig{}, err
	}

	cfg, err := r.loader.LoadFromString(raw)
	if err != nil {
		return diagnostics.ScoringConfig{}, fmt.Errorf("stored scoring config is invalid: %w", err)
	}
	return *cfg, nil
}

// SaveScoringConfig validates and persists a scoring configuration
func (r *Repository) SaveScoringConfig(cfg diagnostics.ScoringConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring config: %w", err)
	}
	return r.set(keyScoringConfig, string(raw))
}

func (r *Repository) get(key string) (string, error) {
	var value string
	err := r.DB().QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

func (r *Repository) set(key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := r.DB().Exec(query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
