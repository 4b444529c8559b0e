package diagnostics

import (
	"sort"

	"github.com/meridianfp/checkup/internal/domain"
)

// cardCopy is the fixed presentation text for one category
type cardCopy struct {
	Title        string
	WhyItMatters string
}

var cardCopyByCategory = map[Category]cardCopy{
	CategoryDiversification: {
		Title:        "Diversification",
		WhyItMatters: "Concentrated portfolios swing harder and recover slower when a single bet goes wrong.",
	},
	CategoryDownsideResilience: {
		Title:        "Downside Resilience",
		WhyItMatters: "How far the portfolio can fall decides whether spending plans survive a bad market.",
	},
	CategoryBenchmarkPerformance: {
		Title:        "Benchmark Performance",
		WhyItMatters: "Trailing a passive index year after year compounds into a meaningfully smaller balance.",
	},
	CategoryFeeDrag: {
		Title:        "Fee Drag",
		WhyItMatters: "Every basis point of cost comes straight out of returns, in good years and bad.",
	},
	CategoryTaxEfficiency: {
		Title:        "Tax Efficiency",
		WhyItMatters: "Where assets sit determines how much of their return survives taxes.",
	},
	CategoryRiskAdjustedReturn: {
		Title:        "Risk-Adjusted Return",
		WhyItMatters: "Return only counts when measured against the risk taken to earn it.",
	},
	CategoryPlanningChecklist: {
		Title:        "Planning Checklist",
		WhyItMatters: "Reserves and documents keep a market event from becoming a life event.",
	},
	CategoryLifetimeIncomeSecurity: {
		Title:        "Lifetime Income",
		WhyItMatters: "Guaranteed income that covers the essentials makes the portfolio's job far easier.",
	},
	CategoryPerformanceMetrics: {
		Title:        "Performance Metrics",
		WhyItMatters: "The raw numbers behind every other diagnostic, each graded against its target.",
	},
}

// accountOrder fixes the tie-break when two account buckets look
// equally responsible for a finding
var accountOrder = []domain.AccountType{
	domain.AccountBrokerage,
	domain.AccountTraditionalIRA,
	domain.AccountRothIRA,
}

// BuildCards wraps each diagnostic result in its presentation
// contract. Actions are drawn from the pooled action plan, account
// context is attributed only when holdings span at least two account
// types, and the cards come back most-urgent-first.
func BuildCards(analysis PortfolioAnalysis, holdings []domain.Holding) []CardContract {
	cards := make([]CardContract, 0, len(analysis.Diagnostics))

	for _, category := range AllCategories() {
		result, ok := analysis.Diagnostics[category]
		if !ok {
			continue
		}
		text := cardCopyByCategory[category]
		cards = append(cards, CardContract{
			Category:       category,
			Title:          text.Title,
			WhyItMatters:   text.WhyItMatters,
			Status:         result.Status,
			Severity:       result.Severity,
			Score:          result.Score,
			Finding:        result.Finding,
			HeadlineMetric: result.HeadlineMetric,
			AccountContext: accountContext(category, result.Status, holdings),
			Actions:        actionsFor(category, analysis.ActionPlan),
			Details:        result.Details,
		})
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Status.Rank() != cards[j].Status.Rank() {
			return cards[i].Status.Rank() < cards[j].Status.Rank()
		}
		return cards[i].Category.displayOrder() < cards[j].Category.displayOrder()
	})
	return cards
}

// actionsFor filters the pooled plan down to one category, keeping
// plan order
func actionsFor(category Category, plan []Recommendation) []Recommendation {
	actions := make([]Recommendation, 0)
	for _, rec := range plan {
		if rec.Category == category {
			actions = append(actions, rec)
		}
	}
	return actions
}

// accountContext names the account most responsible for a finding.
// Attribution only makes sense when there is more than one account to
// tell apart, and only for categories where an account is actually
// the lever: concentration, fees, and tax location.
func accountContext(category Category, status Status, holdings []domain.Holding) *string {
	if status == StatusGreen {
		return nil
	}
	buckets := holdingsByAccount(holdings)
	if len(buckets) < 2 {
		return nil
	}

	switch category {
	case CategoryDiversification:
		return worstConcentrationAccount(buckets)
	case CategoryFeeDrag:
		return highestFeeAccount(buckets)
	case CategoryTaxEfficiency:
		if _, ok := buckets[domain.AccountBrokerage]; ok {
			return accountName(domain.AccountBrokerage)
		}
	}
	return nil
}

func holdingsByAccount(holdings []domain.Holding) map[domain.AccountType][]domain.Holding {
	buckets := make(map[domain.AccountType][]domain.Holding)
	for _, h := range holdings {
		buckets[h.AccountType] = append(buckets[h.AccountType], h)
	}
	return buckets
}

// worstConcentrationAccount picks the account whose single largest
// position is the biggest share of that account's value
func worstConcentrationAccount(buckets map[domain.AccountType][]domain.Holding) *string {
	best := ""
	bestWeight := 0.0
	for _, account := range accountOrder {
		bucket, ok := buckets[account]
		if !ok {
			continue
		}
		total := 0.0
		byTicker := make(map[string]float64)
		for _, h := range bucket {
			total += h.Value()
			byTicker[h.Ticker] += h.Value()
		}
		if total <= 0 {
			continue
		}
		top := 0.0
		for _, value := range byTicker {
			if value > top {
				top = value
			}
		}
		if weight := top / total; weight > bestWeight {
			bestWeight = weight
			best = string(account)
		}
	}
	if best == "" {
		return nil
	}
	return &best
}

// highestFeeAccount picks the account with the highest blended expense
// ratio; holdings without a published ratio count as free
func highestFeeAccount(buckets map[domain.AccountType][]domain.Holding) *string {
	best := ""
	bestBlended := 0.0
	for _, account := range accountOrder {
		bucket, ok := buckets[account]
		if !ok {
			continue
		}
		total := 0.0
		cost := 0.0
		for _, h := range bucket {
			total += h.Value()
			if h.ExpenseRatio != nil {
				cost += h.Value() * *h.ExpenseRatio
			}
		}
		if total <= 0 {
			continue
		}
		if blended := cost / total; blended > bestBlended {
			bestBlended = blended
			best = string(account)
		}
	}
	if best == "" {
		return nil
	}
	return &best
}

func accountName(account domain.AccountType) *string {
	name := string(account)
	return &name
}
