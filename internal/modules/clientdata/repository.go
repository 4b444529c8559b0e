package clientdata

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meridianfp/checkup/internal/database/repositories"
	"github.com/meridianfp/checkup/internal/domain"
)

// Repository stores the service's own operational inputs: holdings,
// the client profile, the planning checklist, the expense profile and
// guaranteed income sources. The consuming dashboard keeps its own
// schema; this one only feeds the engine.
type Repository struct {
	*repositories.BaseRepository
}

// NewRepository creates a new client data repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		BaseRepository: repositories.NewBase(db, log.With().Str("repo", "clientdata").Logger()),
	}
}

// Holdings returns the stored portfolio snapshot
func (r *Repository) Holdings() ([]domain.Holding, error) {
	query := `
		SELECT ticker, name, shares, price, cost_basis, account_type,
		       asset_class, expense_ratio, sector
		FROM holdings
		ORDER BY shares * price DESC, ticker
	`

	rows, err := r.DB().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		var accountType, assetClass string
		var expenseRatio sql.NullFloat64
		var sector sql.NullString

		if err := rows.Scan(&h.Ticker, &h.Name, &h.Shares, &h.Price, &h.CostBasis,
			&accountType, &assetClass, &expenseRatio, &sector); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}

		h.AccountType = domain.AccountType(accountType)
		h.AssetClass = domain.AssetClass(assetClass)
		h.ExpenseRatio = repositories.FloatPtr(expenseRatio)
		h.Sector = repositories.StringPtr(sector)

		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// ReplaceHoldings swaps the stored snapshot for a new one in a single
// transaction. Account types and risk inputs are validated before
// anything is written.
func (r *Repository) ReplaceHoldings(holdings []domain.Holding) error {
	for _, h := range holdings {
		if strings.TrimSpace(h.Ticker) == "" {
			return errors.New("holding ticker is required")
		}
		if _, err := domain.ParseAccountType(string(h.AccountType)); err != nil {
			return fmt.Errorf("holding %s: %w", h.Ticker, err)
		}
	}

	tx, err := r.DB().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM holdings"); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO holdings
		(ticker, name, shares, price, cost_basis, account_type, asset_class, expense_ratio, sector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range holdings {
		_, err := stmt.Exec(
			strings.ToUpper(strings.TrimSpace(h.Ticker)),
			h.Name,
			h.Shares,
			h.Price,
			h.CostBasis,
			string(h.AccountType),
			string(h.AssetClass),
			repositories.NullFloat(h.ExpenseRatio),
			repositories.NullString(h.Sector),
		)
		if err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit holdings: %w", err)
	}

	r.Log().Info().Int("count", len(holdings)).Msg("Holdings replaced")
	return nil
}

// Profile returns the stored client profile, or the default when no
// record has been saved yet
func (r *Repository) Profile() (ClientProfile, error) {
	query := `
		SELECT risk_tolerance, target_amount, years_to_goal, current_age,
		       advice_model, advisor_fee, annual_contribution
		FROM client_profile WHERE id = 1
	`

	var p ClientProfile
	var tolerance, advice string
	err := r.DB().QueryRow(query).Scan(
		&tolerance,
		&p.Params.TargetAmount,
		&p.Params.YearsToGoal,
		&p.Params.CurrentAge,
		&advice,
		&p.AdvisorFee,
		&p.AnnualContribution,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return ClientProfile{}, fmt.Errorf("failed to get client profile: %w", err)
	}

	p.Params.RiskTolerance = domain.RiskTolerance(tolerance)
	p.AdviceModel = domain.AdviceModel(advice)
	return p, nil
}

// SaveProfile upserts the single client profile row
func (r *Repository) SaveProfile(p ClientProfile) error {
	if _, err := domain.ParseRiskTolerance(string(p.Params.RiskTolerance)); err != nil {
		return err
	}
	if _, err := domain.ParseAdviceModel(string(p.AdviceModel)); err != nil {
		return err
	}

	query := `
		INSERT INTO client_profile
		(id, risk_tolerance, target_amount, years_to_goal, current_age,
		 advice_model, advisor_fee, annual_contribution)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			risk_tolerance = excluded.risk_tolerance,
			target_amount = excluded.target_amount,
			years_to_goal = excluded.years_to_goal,
			current_age = excluded.current_age,
			advice_model = excluded.advice_model,
			advisor_fee = excluded.advisor_fee,
			annual_contribution = excluded.annual_contribution
	`

	_, err := r.DB().Exec(query,
		string(p.Params.RiskTolerance),
		p.Params.TargetAmount,
		p.Params.YearsToGoal,
		p.Params.CurrentAge,
		string(p.AdviceModel),
		p.AdvisorFee,
		p.AnnualContribution,
	)
	if err != nil {
		return fmt.Errorf("failed to save client profile: %w", err)
	}

	r.Log().Info().
		Str("risk_tolerance", string(p.Params.RiskTolerance)).
		Float64("target_amount", p.Params.TargetAmount).
		Msg("Client profile saved")
	return nil
}

// Checklist returns the stored planning checklist (zero value when
// nothing is saved yet)
func (r *Repository) Checklist() (domain.PlanningChecklist, error) {
	query := `
		SELECT has_emergency_fund, has_estate_documents, has_beneficiary_check,
		       has_insurance_review, has_tax_plan, has_rebalance_plan
		FROM planning_checklist WHERE id = 1
	`

	var c domain.PlanningChecklist
	err := r.DB().QueryRow(query).Scan(
		&c.HasEmergencyFund,
		&c.HasEstateDocuments,
		&c.HasBeneficiaryCheck,
		&c.HasInsuranceReview,
		&c.HasTaxPlan,
		&c.HasRebalancePlan,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlanningChecklist{}, nil
	}
	if err != nil {
		return domain.PlanningChecklist{}, fmt.Errorf("failed to get checklist: %w", err)
	}

	return c, nil
}

// SaveChecklist upserts the single checklist row
func (r *Repository) SaveChecklist(c domain.PlanningChecklist) error {
	query := `
		INSERT INTO planning_checklist
		(id, has_emergency_fund, has_estate_documents, has_beneficiary_check,
		 has_insurance_review, has_tax_plan, has_rebalance_plan)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			has_emergency_fund = excluded.has_emergency_fund,
			has_estate_documents = excluded.has_estate_documents,
			has_beneficiary_check = excluded.has_beneficiary_check,
			has_insurance_review = excluded.has_insurance_review,
			has_tax_plan = excluded.has_tax_plan,
			has_rebalance_plan = excluded.has_rebalance_plan
	`

	_, err := r.DB().Exec(query,
		c.HasEmergencyFund,
		c.HasEstateDocuments,
		c.HasBeneficiaryCheck,
		c.HasInsuranceReview,
		c.HasTaxPlan,
		c.HasRebalancePlan,
	)
	if err != nil {
		return fmt.Errorf("failed to save checklist: %w", err)
	}
	return nil
}

// Expenses returns the stored expense profile (zero value when
// nothing is saved yet)
func (r *Repository) Expenses() (domain.ExpenseProfile, error) {
	query := `
		SELECT core_monthly, discretionary_monthly, healthcare_monthly
		FROM expense_profile WHERE id = 1
	`

	var e domain.ExpenseProfile
	err := r.DB().QueryRow(query).Scan(&e.CoreMonthly, &e.DiscretionaryMonthly, &e.HealthcareMonthly)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ExpenseProfile{}, nil
	}
	if err != nil {
		return domain.ExpenseProfile{}, fmt.Errorf("failed to get expense profile: %w", err)
	}

	return e, nil
}

// SaveExpenses upserts the single expense profile row
func (r *Repository) SaveExpenses(e domain.ExpenseProfile) error {
	if e.CoreMonthly < 0 || e.DiscretionaryMonthly < 0 || e.HealthcareMonthly < 0 {
		return errors.New("expense figures must be non-negative")
	}

	query := `
		INSERT INTO expense_profile
		(id, core_monthly, discretionary_monthly, healthcare_monthly)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			core_monthly = excluded.core_monthly,
			discretionary_monthly = excluded.discretionary_monthly,
			healthcare_monthly = excluded.healthcare_monthly
	`

	if _, err := r.DB().Exec(query, e.CoreMonthly, e.DiscretionaryMonthly, e.HealthcareMonthly); err != nil {
		return fmt.Errorf("failed to save expense profile: %w", err)
	}
	return nil
}

// IncomeSources returns all stored guaranteed income sources
func (r *Repository) IncomeSources() ([]domain.IncomeSource, error) {
	query := `
		SELECT name, monthly_amount, start_age, cola_adjusted, lifetime_guarantee, end_age
		FROM income_sources
		ORDER BY start_age, name
	`

	rows, err := r.DB().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query income sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.IncomeSource
	for rows.Next() {
		var s domain.IncomeSource
		var endAge sql.NullInt64

		if err := rows.Scan(&s.Name, &s.MonthlyAmount, &s.StartAge,
			&s.COLAAdjusted, &s.LifetimeGuarantee, &endAge); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}

		s.EndAge = repositories.IntPtr(endAge)
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income sources: %w", err)
	}

	return sources, nil
}

// ReplaceIncomeSources swaps the stored income sources in a single
// transaction
func (r *Repository) ReplaceIncomeSources(sources []domain.IncomeSource) error {
	for _, s := range sources {
		if strings.TrimSpace(s.Name) == "" {
			return errors.New("income source name is required")
		}
		if s.MonthlyAmount < 0 {
			return fmt.Errorf("income source %s: monthly amount must be non-negative", s.Name)
		}
	}

	tx, err := r.DB().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM income_sources"); err != nil {
		return fmt.Errorf("failed to clear income sources: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO income_sources
		(name, monthly_amount, start_age, cola_adjusted, lifetime_guarantee, end_age)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sources {
		_, err := stmt.Exec(
			strings.TrimSpace(s.Name),
			s.MonthlyAmount,
			s.StartAge,
			s.COLAAdjusted,
			s.LifetimeGuarantee,
			repositories.NullInt(s.EndAge),
		)
		if err != nil {
			return fmt.Errorf("failed to insert income source %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit income sources: %w", err)
	}

	r.Log().Info().Int("count", len(sources)).Msg("Income sources replaced")
	return nil
}
