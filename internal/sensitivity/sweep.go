// Package sensitivity re-evaluates the plant model across a linearly spaced
// range of one parameter, holding all others fixed, producing curves for
// charting.
package sensitivity

import (
	"fmt"

	"github.com/hydrocast/hydrocast/internal/config"
	"github.com/hydrocast/hydrocast/internal/model"
	"github.com/hydrocast/hydrocast/pkg/mathutil"
	"go.uber.org/zap"
)

// Point is one sample of a sensitivity curve. Err is set when the sampled
// value produced an invalid parameter set; such points carry no LCOH or NPV
// but keep their place in the curve.
type Point struct {
	Value float64 `json:"value"`
	LCOH  float64 `json:"lcoh"`
	NPV   float64 `json:"npv"`
	Err   string  `json:"error,omitempty"`
}

// Curve holds the swept parameter name and its ordered samples.
type Curve struct {
	Field  string  `json:"field"`
	Points []Point `json:"points"`
}

// Valid returns the samples that evaluated successfully, in order.
func (c Curve) Valid() []Point {
	valid := make([]Point, 0, len(c.Points))
	for _, p := range c.Points {
		if p.Err == "" {
			valid = append(valid, p)
		}
	}
	return valid
}

// Sweep evaluates LCOH and NPV for each value of the swept field, in input
// order. The base parameter set is never mutated; each sample evaluates an
// independent copy, so samples cannot influence one another. A sample that
// lands on an invalid parameter combination is recorded with its error
// instead of aborting the sweep.
func Sweep(logger *zap.Logger, params model.ParameterSet, sweep config.SweepConfig) (Curve, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := sweep.Validate(); err != nil {
		return Curve{}, err
	}
	if err := params.Validate(); err != nil {
		return Curve{}, err
	}

	curve := Curve{
		Field:  sweep.Field,
		Points: make([]Point, 0, sweep.Points),
	}

	for _, value := range mathutil.Linspace(sweep.Min, sweep.Max, sweep.Points) {
		candidate, err := params.WithField(sweep.Field, value)
		if err != nil {
			return Curve{}, err
		}

		eval, err := model.Evaluate(candidate)
		if err != nil {
			logger.Debug("sensitivity sample not evaluable",
				zap.String("op", "sensitivity.Sweep"),
				zap.String("field", sweep.Field),
				zap.Float64("value", value),
				zap.Error(err),
			)
			curve.Points = append(curve.Points, Point{Value: value, Err: err.Error()})
			continue
		}

		curve.Points = append(curve.Points, Point{
			Value: value,
			LCOH:  eval.Breakdown.LCOH,
			NPV:   eval.NPV,
		})
	}

	logger.Debug("sensitivity sweep complete",
		zap.String("op", "sensitivity.Sweep"),
		zap.String("field", sweep.Field),
		zap.Int("points", len(curve.Points)),
	)

	return curve, nil
}

// SweepAll runs every configured sweep and returns the curves in directive
// order.
func SweepAll(logger *zap.Logger, params model.ParameterSet, sweeps []config.SweepConfig) ([]Curve, error) {
	if len(sweeps) == 0 {
		return nil, fmt.Errorf("no sensitivity sweeps configured")
	}

	curves := make([]Curve, 0, len(sweeps))
	for _, sweep := range sweeps {
		curve, err := Sweep(logger, params, sweep)
		if err != nil {
			return nil, err
		}
		curves = append(curves, curve)
	}
	return curves, nil
}
