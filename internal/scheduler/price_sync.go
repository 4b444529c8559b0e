package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/clients/marketdata"
	"github.com/meridianfp/checkup/internal/modules/clientdata"
	"github.com/meridianfp/checkup/internal/modules/history"
)

// PriceSyncJob pulls daily closes for every stored holding into the
// price-history database. With history populated, the metrics
// calculator gets real return series instead of simulated ones.
type PriceSyncJob struct {
	log        zerolog.Logger
	client     *marketdata.Client
	store      *history.Store
	clientData *clientdata.Repository
	period     string
}

// NewPriceSyncJob creates a new price sync job. Period is the chart
// range fetched per ticker (e.g. "1y").
func NewPriceSyncJob(
	client *marketdata.Client,
	store *history.Store,
	clientData *clientdata.Repository,
	period string,
	log zerolog.Logger,
) *PriceSyncJob {
	if period == "" {
		period = "1y"
	}
	return &PriceSyncJob{
		log:        log.With().Str("job", "price_sync").Logger(),
		client:     client,
		store:      store,
		clientData: clientData,
		period:     period,
	}
}

// Name returns the job name
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Run fetches and stores closes for every stored holding. A ticker
// that fails is logged and skipped; the job only fails when no ticker
// could be synced at all.
func (j *PriceSyncJob) Run() error {
	holdings, err := j.clientData.Holdings()
	if err != nil {
		return fmt.Errorf("failed to load holdings: %w", err)
	}
	if len(holdings) == 0 {
		j.log.Debug().Msg("No holdings stored, skipping price sync")
		return nil
	}

	seen := make(map[string]bool)
	synced, failed := 0, 0
	for _, h := range holdings {
		if seen[h.Ticker] {
			continue
		}
		seen[h.Ticker] = true

		if err := j.syncTicker(h.Ticker); err != nil {
			j.log.Warn().Err(err).Str("ticker", h.Ticker).Msg("Price sync failed for ticker")
			failed++
			continue
		}
		synced++
	}

	j.log.Info().
		Int("synced", synced).
		Int("failed", failed).
		Msg("Price sync completed")

	if synced == 0 && failed > 0 {
		return fmt.Errorf("price sync failed for all %d tickers", failed)
	}
	return nil
}

func (j *PriceSyncJob) syncTicker(ticker string) error {
	closes, err := j.client.GetDailyCloses(ticker, j.period)
	if err != nil {
		return err
	}
	if len(closes) == 0 {
		return fmt.Errorf("no closes returned for %s", ticker)
	}

	prices := make([]history.DailyPrice, 0, len(closes))
	for _, c := range closes {
		prices = append(prices, history.DailyPrice{
			Date:  c.Date.Format("2006-01-02"),
			Close: c.Close,
		})
	}

	return j.store.SaveDailyCloses(ticker, prices)
}
