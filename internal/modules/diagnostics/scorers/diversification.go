package scorers

import (
	"fmt"
	"sort"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/correlation"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
)

// topPositionsShown bounds the position list carried in the details
const topPositionsShown = 5

// DiversificationScorer grades concentration risk: single-position
// weight, effective number of holdings, sector tilts, and pairs of
// holdings that move together.
type DiversificationScorer struct{}

// NewDiversificationScorer creates a new diversification scorer
func NewDiversificationScorer() *DiversificationScorer {
	return &DiversificationScorer{}
}

// Calculate scores diversification from 100 down. Penalties:
// - Top position above the concentration limit (up to 40)
// - Fewer than 5 effective holdings by inverse Herfindahl (up to 30)
// - Highly correlated pairs, 12 points each (up to 30)
// - Largest sector above the sector limit (up to 20)
func (ds *DiversificationScorer) Calculate(
	holdings []domain.Holding,
	highCorrelationPairs []correlation.Pair,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	totalValue := domain.TotalValue(holdings)
	if totalValue <= 0 {
		status, severity := config.Classify(diagnostics.CategoryDiversification, 0)
		return diagnostics.DiagnosticResult{
			Category:       diagnostics.CategoryDiversification,
			Status:         status,
			Severity:       severity,
			Score:          0,
			Finding:        "No holdings to assess",
			HeadlineMetric: "0 holdings",
			Details:        diagnostics.DiversificationDetails{},
		}
	}

	positions := positionWeights(holdings, totalValue)
	sectors := sectorWeights(holdings, totalValue)

	herfindahl := 0.0
	for _, p := range positions {
		herfindahl += p.Weight * p.Weight
	}
	effectiveHoldings := 0.0
	if herfindahl > 0 {
		effectiveHoldings = 1 / herfindahl
	}

	topWeight := positions[0].Weight
	topSectorWeight := 0.0
	if len(sectors) > 0 {
		topSectorWeight = sectors[0].Weight
	}

	score := 100.0
	if topWeight > config.ConcentrationLimit {
		score -= minFloat(40, (topWeight-config.ConcentrationLimit)*200)
	}
	if effectiveHoldings < 5 {
		score -= minFloat(30, (5-effectiveHoldings)*8)
	}
	if len(highCorrelationPairs) > 0 {
		score -= minFloat(30, float64(len(highCorrelationPairs))*12)
	}
	if topSectorWeight > config.SectorLimit {
		score -= minFloat(20, (topSectorWeight-config.SectorLimit)*100)
	}
	score = round1(clampScore(score))

	status, severity := config.Classify(diagnostics.CategoryDiversification, score)

	finding := fmt.Sprintf("Concentration within limits across %d positions", len(positions))
	switch {
	case topWeight > config.ConcentrationLimit:
		finding = fmt.Sprintf("%s is %.0f%% of the portfolio, above the %.0f%% limit",
			positions[0].Ticker, topWeight*100, config.ConcentrationLimit*100)
	case len(highCorrelationPairs) > 0:
		finding = fmt.Sprintf("%d highly correlated pairs reduce effective diversification",
			len(highCorrelationPairs))
	case topSectorWeight > config.SectorLimit:
		finding = fmt.Sprintf("%s is %.0f%% of the portfolio, above the %.0f%% sector limit",
			sectors[0].Sector, topSectorWeight*100, config.SectorLimit*100)
	}

	shown := positions
	if len(shown) > topPositionsShown {
		shown = shown[:topPositionsShown]
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryDiversification,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: fmt.Sprintf("Top position %.0f%%", topWeight*100),
		Details: diagnostics.DiversificationDetails{
			TopPositions:         shown,
			SectorWeights:        sectors,
			Herfindahl:           herfindahl,
			EffectiveHoldings:    effectiveHoldings,
			TopPositionWeight:    topWeight,
			HighCorrelationPairs: highCorrelationPairs,
		},
	}
}

// positionWeights aggregates holding values by ticker and returns the
// weights sorted largest first.
func positionWeights(holdings []domain.Holding, totalValue float64) []diagnostics.PositionWeight {
	valueByTicker := make(map[string]float64)
	order := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, seen := valueByTicker[h.Ticker]; !seen {
			order = append(order, h.Ticker)
		}
		valueByTicker[h.Ticker] += h.Value()
	}

	positions := make([]diagnostics.PositionWeight, 0, len(order))
	for _, ticker := range order {
		positions = append(positions, diagnostics.PositionWeight{
			Ticker: ticker,
			Weight: valueByTicker[ticker] / totalValue,
		})
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].Weight > positions[j].Weight
	})
	return positions
}

// sectorWeights aggregates holding values by sector, largest first.
// Holdings without a sector tag are grouped under "Unclassified".
func sectorWeights(holdings []domain.Holding, totalValue float64) []diagnostics.SectorWeight {
	valueBySector := make(map[string]float64)
	order := make([]string, 0)
	for _, h := range holdings {
		sector := "Unclassified"
		if h.Sector != nil && *h.Sector != "" {
			sector = *h.Sector
		}
		if _, seen := valueBySector[sector]; !seen {
			order = append(order, sector)
		}
		valueBySector[sector] += h.Value()
	}

	sectors := make([]diagnostics.SectorWeight, 0, len(order))
	for _, sector := range order {
		sectors = append(sectors, diagnostics.SectorWeight{
			Sector: sector,
			Weight: valueBySector[sector] / totalValue,
		})
	}
	sort.SliceStable(sectors, func(i, j int) bool {
		return sectors[i].Weight > sectors[j].Weight
	})
	return sectors
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
