package advisor

// Debt plan notes.
const (
	debtPlanMissingInputsNote = "Provide a positive total_debt and monthly_extra to get a payoff estimate."
	debtPlanDisclaimerNote    = "This is a rough estimate. Real payoff time will depend on interest rates and fees."
)

// EstimateDebtPayoff estimates months to pay off totalDebt given a monthly
// extra payment, scaled by the risk level's factor. Non-positive inputs are a
// defined degenerate output with a nil estimate, not an error. Callers are
// expected to have normalized risk via ParseRiskLevel.
func EstimateDebtPayoff(totalDebt, monthlyExtra float64, risk RiskLevel) DebtPlan {
	if totalDebt <= 0 || monthlyExtra <= 0 {
		return DebtPlan{
			TotalDebt:    totalDebt,
			MonthlyExtra: monthlyExtra,
			RiskStyle:    risk,
			Note:         debtPlanMissingInputsNote,
		}
	}

	effectivePayment := monthlyExtra * riskFactors[risk]
	months := totalDebt / effectivePayment

	return DebtPlan{
		TotalDebt:        round2(totalDebt),
		MonthlyExtra:     round2(monthlyExtra),
		EffectivePayment: ptr(round2(effectivePayment)),
		EstimatedMonths:  ptr(round1(months)),
		RiskStyle:        risk,
		Note:             debtPlanDisclaimerNote,
	}
}
