package config

import (
	"fmt"

	"github.com/hydrocast/hydrocast/internal/model"
	"github.com/hydrocast/hydrocast/pkg/constants"
)

// OptimizationConfig describes the NPV maximization request: which plant
// parameters the solver may vary, with what bounds, and the solver's
// stopping criteria.
type OptimizationConfig struct {
	Enabled             bool                `yaml:"enabled,omitempty" mapstructure:"enabled"`
	Tolerance           float64             `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations       int                 `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
	ConstraintTolerance float64             `yaml:"constraintTolerance,omitempty" mapstructure:"constraintTolerance"`
	Variables           []OptimizeDirective `yaml:"variables,omitempty" mapstructure:"variables"`
}

// OptimizeDirective flags one plant parameter as optimizable within
// inclusive bounds.
type OptimizeDirective struct {
	Field string   `yaml:"field" mapstructure:"field"`
	Min   *float64 `yaml:"min" mapstructure:"min"`
	Max   *float64 `yaml:"max" mapstructure:"max"`
}

// SweepConfig describes one sensitivity sweep: vary Field linearly from Min
// to Max inclusive across Points samples.
type SweepConfig struct {
	Field  string  `yaml:"field" mapstructure:"field"`
	Min    float64 `yaml:"min" mapstructure:"min"`
	Max    float64 `yaml:"max" mapstructure:"max"`
	Points int     `yaml:"points,omitempty" mapstructure:"points"`
}

// Normalize ensures defaults and canonical values are applied before
// validation.
func (o *OptimizationConfig) Normalize() {
	if o == nil {
		return
	}
	if o.Tolerance <= 0 {
		o.Tolerance = constants.DefaultSolverTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = constants.DefaultSolverMaxIterations
	}
	if o.ConstraintTolerance <= 0 {
		o.ConstraintTolerance = constants.DefaultConstraintTolerance
	}
	for i := range o.Variables {
		o.Variables[i].Normalize()
	}
}

// Validate returns an error when the optimization configuration is
// unsupported.
func (o *OptimizationConfig) Validate() error {
	if o == nil {
		return nil
	}
	o.Normalize()
	seen := make(map[string]struct{}, len(o.Variables))
	for i := range o.Variables {
		if err := o.Variables[i].Validate(); err != nil {
			return fmt.Errorf("optimization variable %d: %w", i+1, err)
		}
		if _, dup := seen[o.Variables[i].Field]; dup {
			return fmt.Errorf("optimization variable %s appears more than once", o.Variables[i].Field)
		}
		seen[o.Variables[i].Field] = struct{}{}
	}
	return nil
}

// Normalize applies the canonical field name.
func (d *OptimizeDirective) Normalize() {
	if d == nil {
		return
	}
	d.Field = model.CanonicalField(d.Field)
}

// Validate returns an error when the directive is unsupported.
func (d *OptimizeDirective) Validate() error {
	if d == nil {
		return fmt.Errorf("optimizer directive cannot be nil")
	}
	d.Normalize()

	if !model.IsAdjustableField(d.Field) {
		return fmt.Errorf("field %q is not optimizable", d.Field)
	}
	if d.Min == nil {
		return fmt.Errorf("field %s requires a minimum bound", d.Field)
	}
	if d.Max == nil {
		return fmt.Errorf("field %s requires a maximum bound", d.Field)
	}
	if *d.Min > *d.Max {
		return fmt.Errorf("field %s minimum %.4f must not exceed maximum %.4f", d.Field, *d.Min, *d.Max)
	}
	return nil
}

// Normalize applies the canonical field name and the default sample count.
func (s *SweepConfig) Normalize() {
	if s == nil {
		return
	}
	s.Field = model.CanonicalField(s.Field)
	if s.Points <= 0 {
		s.Points = constants.DefaultSweepPoints
	}
}

// Validate returns an error when the sweep directive is unsupported.
func (s *SweepConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("sweep directive cannot be nil")
	}
	s.Normalize()

	if !model.IsAdjustableField(s.Field) {
		return fmt.Errorf("field %q cannot be swept", s.Field)
	}
	if s.Min > s.Max {
		return fmt.Errorf("field %s minimum %.4f must not exceed maximum %.4f", s.Field, s.Min, s.Max)
	}
	if s.Points < 2 {
		return fmt.Errorf("field %s requires at least 2 sample points, got %d", s.Field, s.Points)
	}
	return nil
}
