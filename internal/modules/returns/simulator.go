package returns

import (
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/pkg/logger"
)

// Simulator synthesizes plausible daily return series per holding from
// its asset class. The output is explicitly simulated data, used where
// true historical series are unavailable.
type Simulator struct {
	cfg Config
	log zerolog.Logger
}

// NewSimulator creates a new return simulator
func NewSimulator(cfg Config, log zerolog.Logger) *Simulator {
	if cfg.TradingDays <= 0 {
		cfg.TradingDays = DefaultTradingDays
	}
	if cfg.IntraClassCorrelation <= 0 || cfg.IntraClassCorrelation >= 1 {
		cfg.IntraClassCorrelation = DefaultIntraClassCorrelation
	}

	return &Simulator{
		cfg: cfg,
		log: logger.ForService(log, "returns_simulator"),
	}
}

// Config returns the simulation assumptions in effect
func (s *Simulator) Config() Config {
	return s.cfg
}

// Simulate generates one daily return series per distinct ticker.
//
// Each period draws one shock per asset class present plus one
// idiosyncratic shock per ticker. A ticker's standardized shock is
//
//	z = sqrt(rho)*classShock + sqrt(1-rho)*ownShock
//
// so same-class tickers co-move with correlation rho while different
// classes stay independent. The random source is injected so a fixed
// seed reproduces the series exactly.
func (s *Simulator) Simulate(holdings []domain.Holding, src rand.Source) map[string][]float64 {
	tickers, classByTicker := uniqueTickers(holdings)
	if len(tickers) == 0 {
		return map[string][]float64{}
	}

	// Classes in first-appearance order, so draw order is deterministic
	// for a given input.
	var classes []domain.AssetClass
	seenClass := make(map[domain.AssetClass]bool)
	for _, ticker := range tickers {
		class := classByTicker[ticker]
		if !seenClass[class] {
			seenClass[class] = true
			classes = append(classes, class)
		}
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	rho := s.cfg.IntraClassCorrelation
	classWeight := math.Sqrt(rho)
	ownWeight := math.Sqrt(1 - rho)

	series := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		series[ticker] = make([]float64, s.cfg.TradingDays)
	}

	// Per-day parameters always use the 252-day basis; TradingDays only
	// controls how many days are generated.
	days := float64(DefaultTradingDays)
	classShocks := make(map[domain.AssetClass]float64, len(classes))

	for day := 0; day < s.cfg.TradingDays; day++ {
		for _, class := range classes {
			classShocks[class] = normal.Rand()
		}

		for _, ticker := range tickers {
			class := classByTicker[ticker]
			params := s.cfg.ParamsForClass(class)

			dailyMean := params.AnnualReturn / days
			dailyVol := params.AnnualVolatility / math.Sqrt(days)

			shock := classWeight*classShocks[class] + ownWeight*normal.Rand()
			series[ticker][day] = dailyMean + dailyVol*shock
		}
	}

	s.log.Debug().
		Int("tickers", len(tickers)).
		Int("classes", len(classes)).
		Int("days", s.cfg.TradingDays).
		Msg("Simulated return series")

	return series
}

// uniqueTickers de-duplicates holdings by ticker, keeping input order.
// The first occurrence of a ticker decides its asset class.
func uniqueTickers(holdings []domain.Holding) ([]string, map[string]domain.AssetClass) {
	var tickers []string
	classByTicker := make(map[string]domain.AssetClass)

	for _, h := range holdings {
		if h.Ticker == "" {
			continue
		}
		if _, seen := classByTicker[h.Ticker]; seen {
			continue
		}
		tickers = append(tickers, h.Ticker)
		classByTicker[h.Ticker] = h.AssetClass
	}

	return tickers, classByTicker
}
