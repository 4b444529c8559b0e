package scorers

import (
	"fmt"
	"sort"

	"github.com/meridianfp/checkup/internal/domain"
	"github.com/meridianfp/checkup/internal/modules/diagnostics"
)

// bondLocationLimit is the share of the taxable bucket in bonds above
// which asset location is flagged. Bond interest is taxed as ordinary
// income, so bonds belong in tax-advantaged accounts first.
const bondLocationLimit = 0.10

// TaxScorer grades account location and unharvested losses. Only
// taxable accounts can harvest, so everything here keys off the
// Brokerage bucket.
type TaxScorer struct{}

// NewTaxScorer creates a new tax efficiency scorer
func NewTaxScorer() *TaxScorer {
	return &TaxScorer{}
}

// Calculate starts at 100 and deducts 25 points when more than 10% of
// the taxable bucket sits in bonds and 15 points when losses are
// sitting unharvested. A portfolio with no taxable accounts has
// nothing to optimize and scores 100.
func (ts *TaxScorer) Calculate(
	holdings []domain.Holding,
	config diagnostics.ScoringConfig,
) diagnostics.DiagnosticResult {
	taxableValue := 0.0
	advantagedValue := 0.0
	taxableBonds := 0.0
	candidates := make([]diagnostics.HarvestCandidate, 0)

	for _, h := range holdings {
		value := h.Value()
		if !h.AccountType.IsTaxable() {
			advantagedValue += value
			continue
		}

		taxableValue += value
		if h.AssetClass == domain.ClassBonds {
			taxableBonds += value
		}
		if gain := h.UnrealizedGain(); gain < 0 {
			candidates = append(candidates, diagnostics.HarvestCandidate{
				Ticker:         h.Ticker,
				UnrealizedLoss: -gain,
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UnrealizedLoss > candidates[j].UnrealizedLoss
	})

	totalValue := taxableValue + advantagedValue
	taxableShare := 0.0
	if totalValue > 0 {
		taxableShare = taxableValue / totalValue
	}
	bondsInTaxable := 0.0
	if taxableValue > 0 {
		bondsInTaxable = taxableBonds / taxableValue
	}

	score := 100.0
	if bondsInTaxable > bondLocationLimit {
		score -= 25
	}
	if len(candidates) > 0 {
		score -= 15
	}
	score = round1(clampScore(score))

	status, severity := config.Classify(diagnostics.CategoryTaxEfficiency, score)

	finding := "Asset location looks efficient"
	switch {
	case taxableValue <= 0:
		finding = "No taxable accounts, so location and harvesting are not a factor"
	case bondsInTaxable > bondLocationLimit:
		finding = fmt.Sprintf("%.0f%% of the taxable account sits in bonds, whose interest is taxed as ordinary income",
			bondsInTaxable*100)
	case len(candidates) > 0:
		finding = fmt.Sprintf("%d taxable positions hold unharvested losses", len(candidates))
	}

	return diagnostics.DiagnosticResult{
		Category:       diagnostics.CategoryTaxEfficiency,
		Status:         status,
		Severity:       severity,
		Score:          score,
		Finding:        finding,
		HeadlineMetric: fmt.Sprintf("Taxable share %.0f%%", taxableShare*100),
		Details: diagnostics.TaxDetails{
			TaxableValue:      taxableValue,
			AdvantagedValue:   advantagedValue,
			TaxableShare:      taxableShare,
			HarvestCandidates: candidates,
			BondsInTaxable:    bondsInTaxable,
		},
	}
}
