package optimizer

import (
	"math"
	"strings"
	"testing"

	"github.com/hydrocast/hydrocast/internal/config"
	"github.com/hydrocast/hydrocast/internal/model"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 {
	return &v
}

// profitablePlant sells well above its levelized cost (~19.4), so the
// starting point satisfies the cost constraint.
func profitablePlant() model.ParameterSet {
	return model.ParameterSet{
		CAPEX:                  1000000.0,
		FixedOPEX:              50000.0,
		Capacity:               10000.0,
		CapacityFactor:         0.9,
		ElectricityPrice:       0.05,
		ElectricityConsumption: 50.0,
		SellingPrice:           25.0,
		DiscountRate:           0.08,
		LifetimeYears:          20,
	}
}

func specFor(directives ...config.OptimizeDirective) config.OptimizationConfig {
	return config.OptimizationConfig{
		Enabled:   true,
		Variables: directives,
	}
}

func TestRunImprovesNPV(t *testing.T) {
	params := profitablePlant()
	initialEval, err := model.Evaluate(params)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// Cheaper electricity can only raise the NPV; the optimum sits at the
	// lower bound.
	spec := specFor(config.OptimizeDirective{
		Field: model.FieldElectricityPrice,
		Min:   floatPtr(0.01),
		Max:   floatPtr(0.05),
	})

	runner, err := NewRunner(zap.NewNop(), params, spec)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Evaluation.NPV < initialEval.NPV {
		t.Errorf("optimized NPV %.2f is below initial NPV %.2f", result.Evaluation.NPV, initialEval.NPV)
	}
	if result.Params.ElectricityPrice > params.ElectricityPrice {
		t.Errorf("optimized electricityPrice %.4f exceeds the starting value %.4f",
			result.Params.ElectricityPrice, params.ElectricityPrice)
	}
	if len(result.Summaries) != 1 {
		t.Fatalf("len(Summaries) = %d, expected 1", len(result.Summaries))
	}
	summary := result.Summaries[0]
	if summary.Field != model.FieldElectricityPrice {
		t.Errorf("Summary.Field = %s, expected %s", summary.Field, model.FieldElectricityPrice)
	}
	if summary.Value < summary.Min || summary.Value > summary.Max {
		t.Errorf("Summary.Value %.4f lies outside bounds [%.4f, %.4f]", summary.Value, summary.Min, summary.Max)
	}
}

func TestRunHonorsConstraintOnSuccess(t *testing.T) {
	params := profitablePlant()

	spec := specFor(
		config.OptimizeDirective{
			Field: model.FieldSellingPrice,
			Min:   floatPtr(20.0),
			Max:   floatPtr(30.0),
		},
		config.OptimizeDirective{
			Field: model.FieldCapacityFactor,
			Min:   floatPtr(0.5),
			Max:   floatPtr(1.0),
		},
	)

	runner, err := NewRunner(zap.NewNop(), params, spec)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The invariant: never report success with a violated constraint.
	if result.Converged &&
		result.Evaluation.Breakdown.LCOH > result.Params.SellingPrice+1e-4 {
		t.Errorf("Converged=true with LCOH %.4f above selling price %.4f",
			result.Evaluation.Breakdown.LCOH, result.Params.SellingPrice)
	}

	for _, summary := range result.Summaries {
		if summary.Value < summary.Min || summary.Value > summary.Max {
			t.Errorf("field %s value %.4f lies outside bounds [%.4f, %.4f]",
				summary.Field, summary.Value, summary.Min, summary.Max)
		}
	}
}

func TestRunInfeasibleStart(t *testing.T) {
	params := profitablePlant()
	params.SellingPrice = 6.0 // well below the ~19.4 levelized cost

	spec := specFor(config.OptimizeDirective{
		Field: model.FieldElectricityPrice,
		Min:   floatPtr(0.01),
		Max:   floatPtr(0.05),
	})

	runner, err := NewRunner(zap.NewNop(), params, spec)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v, expected infeasibility to be reportable", err)
	}

	if result.Converged {
		t.Errorf("Converged = true for an infeasible starting point")
	}
	if !strings.Contains(result.Status, "infeasible") {
		t.Errorf("Status = %q, expected a diagnostic mentioning infeasibility", result.Status)
	}
	// The returned parameter set is the (clamped) initial guess.
	if result.Params.ElectricityPrice != 0.05 {
		t.Errorf("Params.ElectricityPrice = %v, expected the initial guess 0.05", result.Params.ElectricityPrice)
	}
}

func TestRunInitialGuessClampedIntoBounds(t *testing.T) {
	params := profitablePlant()
	params.ElectricityPrice = 0.5 // far above the allowed band

	spec := specFor(config.OptimizeDirective{
		Field: model.FieldElectricityPrice,
		Min:   floatPtr(0.01),
		Max:   floatPtr(0.05),
	})

	runner, err := NewRunner(zap.NewNop(), params, spec)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	result, err := runner.Run()
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Params.ElectricityPrice < 0.01 || result.Params.ElectricityPrice > 0.05 {
		t.Errorf("optimized electricityPrice %.4f lies outside bounds [0.01, 0.05]",
			result.Params.ElectricityPrice)
	}
}

func TestRunDeterministic(t *testing.T) {
	params := profitablePlant()
	spec := specFor(config.OptimizeDirective{
		Field: model.FieldCapacityFactor,
		Min:   floatPtr(0.5),
		Max:   floatPtr(1.0),
	})

	run := func() *Result {
		runner, err := NewRunner(zap.NewNop(), params, spec)
		if err != nil {
			t.Fatalf("NewRunner() error = %v", err)
		}
		result, err := runner.Run()
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return result
	}

	first := run()
	second := run()

	if math.Abs(first.Evaluation.NPV-second.Evaluation.NPV) > 1e-9 {
		t.Errorf("NPV differs between identical runs: %.9f vs %.9f",
			first.Evaluation.NPV, second.Evaluation.NPV)
	}
	if first.Converged != second.Converged {
		t.Errorf("Converged differs between identical runs: %v vs %v",
			first.Converged, second.Converged)
	}
}

func TestNewRunnerRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		params model.ParameterSet
		spec   config.OptimizationConfig
	}{
		{
			name:   "No variables",
			params: profitablePlant(),
			spec:   config.OptimizationConfig{Enabled: true},
		},
		{
			name:   "Missing bound",
			params: profitablePlant(),
			spec: specFor(config.OptimizeDirective{
				Field: model.FieldElectricityPrice,
				Min:   floatPtr(0.01),
			}),
		},
		{
			name:   "Inverted bounds",
			params: profitablePlant(),
			spec: specFor(config.OptimizeDirective{
				Field: model.FieldElectricityPrice,
				Min:   floatPtr(0.5),
				Max:   floatPtr(0.1),
			}),
		},
		{
			name:   "Unoptimizable field",
			params: profitablePlant(),
			spec: specFor(config.OptimizeDirective{
				Field: model.FieldLifetimeYears,
				Min:   floatPtr(10),
				Max:   floatPtr(30),
			}),
		},
		{
			name: "Invalid parameters",
			params: func() model.ParameterSet {
				p := profitablePlant()
				p.LifetimeYears = 0
				return p
			}(),
			spec: specFor(config.OptimizeDirective{
				Field: model.FieldElectricityPrice,
				Min:   floatPtr(0.01),
				Max:   floatPtr(0.05),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(zap.NewNop(), tt.params, tt.spec); err == nil {
				t.Errorf("NewRunner() succeeded, expected an error")
			}
		})
	}
}
