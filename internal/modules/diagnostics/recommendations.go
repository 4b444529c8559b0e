package diagnostics

import (
	"fmt"
	"sort"

	"github.com/meridianfp/checkup/internal/modules/montecarlo"
)

// Priority bases by urgency tier. The category display order is added
// on top, so priorities stay unique within a tier and ties across
// tiers cannot happen.
const (
	priorityExtreme = 10
	priorityRed     = 20
	priorityYellow  = 30
)

// BuildActionPlan pools recommendations from every non-green category,
// adds a goal-funding action when the simulation success rate misses
// its target, sorts by priority (ties broken by category order), and
// truncates to the configured plan size.
func BuildActionPlan(results map[Category]DiagnosticResult, goal montecarlo.Result, config ScoringConfig) []Recommendation {
	plan := make([]Recommendation, 0)

	for _, category := range AllCategories() {
		result, ok := results[category]
		if !ok {
			continue
		}
		plan = append(plan, recommendationsFor(result)...)
	}

	if goal.Simulations > 0 && goal.SuccessRate < config.SuccessTarget {
		plan = append(plan, goalRecommendation(goal, config))
	}

	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].Priority != plan[j].Priority {
			return plan[i].Priority < plan[j].Priority
		}
		return plan[i].Category.displayOrder() < plan[j].Category.displayOrder()
	})

	if len(plan) > config.MaxActionPlanSize {
		plan = plan[:config.MaxActionPlanSize]
	}
	return plan
}

// recommendationsFor derives the suggested actions for one diagnostic.
// Green categories need no action. A category can emit more than one
// recommendation when independent problems coexist.
func recommendationsFor(result DiagnosticResult) []Recommendation {
	if result.Status == StatusGreen {
		return nil
	}

	priority := priorityFor(result)

	switch details := result.Details.(type) {
	case DiversificationDetails:
		recs := make([]Recommendation, 0, 2)
		if len(details.TopPositions) > 0 && details.TopPositionWeight > 0.25 {
			top := details.TopPositions[0]
			recs = append(recs, Recommendation{
				Category: CategoryDiversification,
				Title:    "Trim the largest position",
				Description: fmt.Sprintf("%s is %.0f%% of the portfolio; selling it down spreads single-name risk.",
					top.Ticker, top.Weight*100),
				Priority: priority,
				Impact:   "Lower single-position drawdown risk",
			})
		}
		if len(details.HighCorrelationPairs) > 0 {
			pair := details.HighCorrelationPairs[0]
			recs = append(recs, Recommendation{
				Category: CategoryDiversification,
				Title:    "Consolidate overlapping funds",
				Description: fmt.Sprintf("%s and %s move almost in lockstep (%.2f); holding both adds cost without spreading risk.",
					pair.Ticker1, pair.Ticker2, pair.Correlation),
				Priority: priority + 1,
				Impact:   "More real diversification per dollar",
			})
		}
		if len(recs) == 0 {
			recs = append(recs, Recommendation{
				Category:    CategoryDiversification,
				Title:       "Broaden the holding mix",
				Description: "Too few effective holdings concentrate outcomes; adding distinct asset classes smooths the ride.",
				Priority:    priority,
				Impact:      "Smoother portfolio behavior",
			})
		}
		return recs

	case ResilienceDetails:
		return []Recommendation{{
			Category: CategoryDownsideResilience,
			Title:    "Add defensive ballast",
			Description: fmt.Sprintf("Only %.0f%% of the portfolio sits in bonds and cash; a larger sleeve cushions drawdowns.",
				details.DefensiveAllocation*100),
			Priority: priority,
			Impact:   "Shallower drawdowns in bad markets",
		}}

	case BenchmarkDetails:
		description := "The portfolio is not keeping pace with its reference index; review the active tilts causing the gap."
		if details.ExcessReturn != nil {
			description = fmt.Sprintf("The portfolio trails its benchmark by %.1f points annually; review the active tilts causing the gap.",
				-*details.ExcessReturn*100)
		}
		return []Recommendation{{
			Category:    CategoryBenchmarkPerformance,
			Title:       "Close the benchmark gap",
			Description: description,
			Priority:    priority,
			Impact:      "Capture market return instead of lagging it",
		}}

	case FeeDetails:
		description := fmt.Sprintf("Total cost runs %.2f%% per year, about $%.0f; cheaper share classes or indexing recover most of it.",
			details.TotalCostRatio*100, details.AnnualCost)
		if len(details.Rows) > 0 && details.HighFeeCount > 0 {
			top := details.Rows[0]
			description = fmt.Sprintf("%s alone costs $%.0f per year in fees; cheaper share classes or indexing recover most of it.",
				top.Ticker, top.AnnualCost)
		}
		return []Recommendation{{
			Category:    CategoryFeeDrag,
			Title:       "Cut fund costs",
			Description: description,
			Priority:    priority,
			Impact:      "Recurring savings every year",
		}}

	case TaxDetails:
		recs := make([]Recommendation, 0, 2)
		if details.BondsInTaxable > 0.10 {
			recs = append(recs, Recommendation{
				Category: CategoryTaxEfficiency,
				Title:    "Move bonds into tax-advantaged accounts",
				Description: fmt.Sprintf("%.0f%% of the taxable account is in bonds; relocating them shelters ordinary-income interest.",
					details.BondsInTaxable*100),
				Priority: priority,
				Impact:   "Less tax drag on interest income",
			})
		}
		if len(details.HarvestCandidates) > 0 {
			total := 0.0
			for _, c := range details.HarvestCandidates {
				total += c.UnrealizedLoss
			}
			recs = append(recs, Recommendation{
				Category: CategoryTaxEfficiency,
				Title:    "Harvest available losses",
				Description: fmt.Sprintf("%d taxable positions hold about $%.0f of unrealized losses that could offset gains.",
					len(details.HarvestCandidates), total),
				Priority: priority + 1,
				Impact:   "Offset realized gains this tax year",
			})
		}
		if len(recs) == 0 {
			recs = append(recs, Recommendation{
				Category:    CategoryTaxEfficiency,
				Title:       "Review asset location",
				Description: "Account placement is costing after-tax return; revisit which assets sit in which bucket.",
				Priority:    priority,
				Impact:      "Higher after-tax return",
			})
		}
		return recs

	case RiskAdjustedDetails:
		description := "Risk-adjusted return is weak; rebalancing toward the target mix usually improves return per unit of risk."
		if details.Sharpe != nil {
			description = fmt.Sprintf("Sharpe of %.2f is below the %.2f target; rebalancing toward the target mix usually improves return per unit of risk.",
				*details.Sharpe, details.SharpeTarget)
		}
		return []Recommendation{{
			Category:    CategoryRiskAdjustedReturn,
			Title:       "Improve return per unit of risk",
			Description: description,
			Priority:    priority,
			Impact:      "Same return for less volatility",
		}}

	case ChecklistDetails:
		missing := ""
		for _, item := range details.Items {
			if !item.Done {
				missing = item.Label
				break
			}
		}
		description := "Several foundational planning tasks are unfinished."
		if missing != "" {
			description = fmt.Sprintf("Start with: %s. %d of %d planning tasks remain open.",
				missing, details.Total-details.Completed, details.Total)
		}
		return []Recommendation{{
			Category:    CategoryPlanningChecklist,
			Title:       "Close planning gaps",
			Description: description,
			Priority:    priority,
			Impact:      "Resilience to life events, not just markets",
		}}

	case IncomeSecurityDetails:
		return []Recommendation{{
			Category: CategoryLifetimeIncomeSecurity,
			Title:    "Shore up guaranteed income",
			Description: fmt.Sprintf("Guaranteed sources cover %.0f%% of core expenses today; delaying benefits or adding an annuity raises the floor.",
				details.CoverageToday),
			Priority: priority,
			Impact:   "Essential spending secured for life",
		}}

	case PerformanceDetails:
		return []Recommendation{{
			Category: CategoryPerformanceMetrics,
			Title:    "Review flagged metrics",
			Description: fmt.Sprintf("%d of %d gradable metrics are below target; the underlying causes show up in the other diagnostics.",
				details.Warning+details.Poor, details.Good+details.Warning+details.Poor),
			Priority: priority,
			Impact:   "Targets the weakest numbers first",
		}}
	}

	return nil
}

// goalRecommendation flags an underfunded retirement goal. It rides
// under lifetime income security since funding the goal is what
// ultimately secures retirement spending.
func goalRecommendation(goal montecarlo.Result, config ScoringConfig) Recommendation {
	// The -1 slots it just ahead of the category's own action.
	priority := priorityYellow + CategoryLifetimeIncomeSecurity.displayOrder() - 1
	if goal.SuccessRate < config.SuccessTarget-0.15 {
		priority = priorityRed + CategoryLifetimeIncomeSecurity.displayOrder() - 1
	}

	return Recommendation{
		Category: CategoryLifetimeIncomeSecurity,
		Title:    "Retirement goal underfunded",
		Description: fmt.Sprintf("Only %.0f%% of simulated paths reach the goal against a %.0f%% target; raising contributions or extending the horizon moves the odds most.",
			goal.SuccessRate*100, config.SuccessTarget*100),
		Priority: priority,
		Impact:   "Better odds of reaching the goal",
	}
}

func priorityFor(result DiagnosticResult) int {
	base := priorityYellow
	if result.Status == StatusRed {
		base = priorityRed
		if result.Severity == SeverityExtreme {
			base = priorityExtreme
		}
	}
	return base + result.Category.displayOrder()
}
