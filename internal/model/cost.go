package model

import (
	"github.com/hydrocast/hydrocast/pkg/finance"
)

// CostBreakdown decomposes the levelized cost of hydrogen into its per-unit
// components. All values are currency per unit of hydrogen; TaxCredit is the
// per-unit credit subtracted from the gross cost.
type CostBreakdown struct {
	AnnualizedCAPEX float64 `json:"annualizedCapex"`
	FixedOPEX       float64 `json:"fixedOpex"`
	VariableOPEX    float64 `json:"variableOpex"`
	Electricity     float64 `json:"electricity"`
	CarbonTax       float64 `json:"carbonTax"`
	TaxCredit       float64 `json:"taxCredit"`
	LCOH            float64 `json:"lcoh"`
}

// ComputeLCOH calculates the levelized cost of hydrogen for the given
// parameter set. The annualized capital charge uses the capital recovery
// factor derived from the discount rate and plant lifetime. The function is
// deterministic and has no side effects; it validates its inputs and never
// computes on an out-of-domain parameter set.
func ComputeLCOH(params ParameterSet) (CostBreakdown, error) {
	if err := params.Validate(); err != nil {
		return CostBreakdown{}, err
	}

	output := params.AnnualOutput()
	crf := finance.CapitalRecoveryFactor(params.DiscountRate, params.LifetimeYears)

	breakdown := CostBreakdown{
		AnnualizedCAPEX: params.CAPEX * crf / output,
		FixedOPEX:       params.FixedOPEX / output,
		VariableOPEX:    params.VariableOPEX,
		Electricity:     params.ElectricityPrice * params.ElectricityConsumption,
		CarbonTax:       params.CarbonTaxRate * params.EmissionFactor,
		TaxCredit:       params.TaxCredit,
	}
	breakdown.LCOH = breakdown.AnnualizedCAPEX +
		breakdown.FixedOPEX +
		breakdown.VariableOPEX +
		breakdown.Electricity +
		breakdown.CarbonTax -
		breakdown.TaxCredit

	return breakdown, nil
}
