package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/database"
	"github.com/meridianfp/checkup/internal/modules/history"
	"github.com/meridianfp/checkup/internal/modules/snapshots"
)

// HealthCheckJob verifies both SQLite databases are reachable and
// intact, and logs how stale the analysis trend is
type HealthCheckJob struct {
	log       zerolog.Logger
	db        *database.DB
	history   *history.Store
	snapshots *snapshots.Repository
}

// NewHealthCheckJob creates a new health check job
func NewHealthCheckJob(
	db *database.DB,
	historyStore *history.Store,
	snapshotsRepo *snapshots.Repository,
	log zerolog.Logger,
) *HealthCheckJob {
	return &HealthCheckJob{
		log:       log.With().Str("job", "health_check").Logger(),
		db:        db,
		history:   historyStore,
		snapshots: snapshotsRepo,
	}
}

// Name returns the job name
func (j *HealthCheckJob) Name() string {
	return "health_check"
}

// Run executes the health check
func (j *HealthCheckJob) Run() error {
	started := time.Now()

	if err := j.checkIntegrity(); err != nil {
		return err
	}

	if err := j.history.Ping(); err != nil {
		return fmt.Errorf("history database unreachable: %w", err)
	}

	latest, err := j.snapshots.Latest()
	if err != nil {
		return fmt.Errorf("failed to read latest snapshot: %w", err)
	}
	if latest == nil {
		j.log.Info().Msg("No analysis snapshots yet")
	} else {
		j.log.Info().
			Str("snapshot_id", latest.ID).
			Dur("age", time.Since(latest.CreatedAt)).
			Msg("Latest analysis snapshot")
	}

	j.log.Info().
		Dur("duration", time.Since(started)).
		Msg("Health check completed")

	return nil
}

// checkIntegrity runs SQLite's integrity check on the operational DB
func (j *HealthCheckJob) checkIntegrity() error {
	var result string
	if err := j.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed to run: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("operational database integrity check failed: %s", result)
	}
	return nil
}
