package model

import (
	"github.com/hydrocast/hydrocast/pkg/finance"
)

// YearCashflow holds the revenue, cost, and discounted net cashflow for one
// operating year. Year is 1-based.
type YearCashflow struct {
	Year       int     `json:"year"`
	Revenue    float64 `json:"revenue"`
	TotalCost  float64 `json:"totalCost"`
	Net        float64 `json:"net"`
	Discounted float64 `json:"discounted"`
}

// CashflowSeries is the per-year cashflow over the plant lifetime.
type CashflowSeries []YearCashflow

// Evaluation bundles the full result of evaluating one parameter set: the
// cost breakdown, the cashflow series, the net present value, and the margin
// between selling price and levelized cost.
type Evaluation struct {
	Params    ParameterSet   `json:"params"`
	Breakdown CostBreakdown  `json:"breakdown"`
	Cashflows CashflowSeries `json:"cashflows"`
	NPV       float64        `json:"npv"`
	Margin    float64        `json:"margin"`
}

// Profitable reports whether the plant sells hydrogen above its levelized
// cost.
func (e Evaluation) Profitable() bool {
	return e.Margin > 0
}

// ComputeNPV builds the discounted cashflow series for the given parameters
// and levelized cost and returns it together with the net present value.
//
// Annual output is held constant across the plant lifetime; no degradation
// or ramp-up schedule is modeled. This is a deliberate simplification of the
// underlying techno-economic model, not an oversight: extending it means
// introducing a per-year output multiplier here and nowhere else.
func ComputeNPV(params ParameterSet, lcoh float64) (CashflowSeries, float64, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}

	output := params.AnnualOutput()
	series := make(CashflowSeries, 0, params.LifetimeYears)
	npv := 0.0

	for t := 1; t <= params.LifetimeYears; t++ {
		revenue := params.SellingPrice * output
		totalCost := lcoh * output
		net := revenue - totalCost
		discounted := net * finance.DiscountFactor(params.DiscountRate, t)
		series = append(series, YearCashflow{
			Year:       t,
			Revenue:    revenue,
			TotalCost:  totalCost,
			Net:        net,
			Discounted: discounted,
		})
		npv += discounted
	}

	return series, npv, nil
}

// Evaluate validates the parameter set and computes the cost breakdown,
// cashflow series, and NPV in one pass. This is the single evaluation path
// shared by the CLI, the server, the optimizer, and the sweeper.
func Evaluate(params ParameterSet) (Evaluation, error) {
	breakdown, err := ComputeLCOH(params)
	if err != nil {
		return Evaluation{}, err
	}

	series, npv, err := ComputeNPV(params, breakdown.LCOH)
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Params:    params,
		Breakdown: breakdown,
		Cashflows: series,
		NPV:       npv,
		Margin:    params.SellingPrice - breakdown.LCOH,
	}, nil
}
