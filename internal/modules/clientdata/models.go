package clientdata

import "github.com/meridianfp/checkup/internal/domain"

// ClientProfile is the stored client record: goal parameters plus the
// advice arrangement that feeds the fee-drag scorer and the annual
// contribution that feeds the goal simulator.
type ClientProfile struct {
	Params             domain.ClientParameters `json:"params"`
	AdviceModel        domain.AdviceModel      `json:"advice_model"`
	AdvisorFee         float64                 `json:"advisor_fee"`
	AnnualContribution float64                 `json:"annual_contribution"`
}

// DefaultProfile is used until a client record is saved
func DefaultProfile() ClientProfile {
	return ClientProfile{
		Params: domain.ClientParameters{
			RiskTolerance: domain.RiskModerate,
			TargetAmount:  1_000_000,
			YearsToGoal:   20,
			CurrentAge:    50,
		},
		AdviceModel: domain.AdviceSelfDirected,
	}
}
