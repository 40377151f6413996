// Package model defines the plant parameter set and the pure cost and
// cashflow calculations performed on it.
package model

import (
	"fmt"
	"strings"
)

// Canonical parameter field identifiers. These match the YAML keys used in
// configuration files and are the names accepted by the optimizer and the
// sensitivity sweeper.
const (
	FieldCAPEX                  = "capex"
	FieldFixedOPEX              = "fixedOpex"
	FieldVariableOPEX           = "variableOpex"
	FieldCapacity               = "capacity"
	FieldCapacityFactor         = "capacityFactor"
	FieldElectricityPrice       = "electricityPrice"
	FieldElectricityConsumption = "electricityConsumption"
	FieldCarbonTaxRate          = "carbonTaxRate"
	FieldEmissionFactor         = "emissionFactor"
	FieldTaxCredit              = "taxCredit"
	FieldSellingPrice           = "sellingPrice"
	FieldDiscountRate           = "discountRate"
	FieldLifetimeYears          = "lifetimeYears"
)

// ParameterSet holds the techno-economic parameters describing a hydrogen
// production plant. Values are in consistent units: currency per unit
// capacity for CAPEX, currency per year for fixed OPEX, units of hydrogen
// per year for capacity, and currency per unit hydrogen for prices and
// credits.
type ParameterSet struct {
	CAPEX                  float64 `yaml:"capex" json:"capex"`
	FixedOPEX              float64 `yaml:"fixedOpex" json:"fixedOpex"`
	VariableOPEX           float64 `yaml:"variableOpex" json:"variableOpex"`
	Capacity               float64 `yaml:"capacity" json:"capacity"`
	CapacityFactor         float64 `yaml:"capacityFactor" json:"capacityFactor"`
	ElectricityPrice       float64 `yaml:"electricityPrice" json:"electricityPrice"`
	ElectricityConsumption float64 `yaml:"electricityConsumption" json:"electricityConsumption"`
	CarbonTaxRate          float64 `yaml:"carbonTaxRate" json:"carbonTaxRate"`
	EmissionFactor         float64 `yaml:"emissionFactor" json:"emissionFactor"`
	TaxCredit              float64 `yaml:"taxCredit" json:"taxCredit"`
	SellingPrice           float64 `yaml:"sellingPrice" json:"sellingPrice"`
	DiscountRate           float64 `yaml:"discountRate" json:"discountRate"`
	LifetimeYears          int     `yaml:"lifetimeYears" json:"lifetimeYears"`
}

// InvalidParameterError reports a parameter that is missing or outside its
// documented domain. It is surfaced before any computation takes place.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// CanonicalField returns the canonical identifier for a parameter field,
// accepting a few common spelling variants.
func CanonicalField(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "capex":
		return FieldCAPEX
	case "fixedopex", "fixed_opex", "opex":
		return FieldFixedOPEX
	case "variableopex", "variable_opex":
		return FieldVariableOPEX
	case "capacity":
		return FieldCapacity
	case "capacityfactor", "capacity_factor":
		return FieldCapacityFactor
	case "electricityprice", "electricity_price":
		return FieldElectricityPrice
	case "electricityconsumption", "electricity_consumption":
		return FieldElectricityConsumption
	case "carbontaxrate", "carbon_tax_rate", "carbontax":
		return FieldCarbonTaxRate
	case "emissionfactor", "emission_factor":
		return FieldEmissionFactor
	case "taxcredit", "tax_credit":
		return FieldTaxCredit
	case "sellingprice", "selling_price":
		return FieldSellingPrice
	case "discountrate", "discount_rate":
		return FieldDiscountRate
	case "lifetimeyears", "lifetime_years", "lifetime":
		return FieldLifetimeYears
	default:
		return trimmed
	}
}

// Field returns the value of the named parameter. Integer fields are
// returned as float64 so callers can treat all parameters uniformly.
func (p ParameterSet) Field(name string) (float64, error) {
	switch CanonicalField(name) {
	case FieldCAPEX:
		return p.CAPEX, nil
	case FieldFixedOPEX:
		return p.FixedOPEX, nil
	case FieldVariableOPEX:
		return p.VariableOPEX, nil
	case FieldCapacity:
		return p.Capacity, nil
	case FieldCapacityFactor:
		return p.CapacityFactor, nil
	case FieldElectricityPrice:
		return p.ElectricityPrice, nil
	case FieldElectricityConsumption:
		return p.ElectricityConsumption, nil
	case FieldCarbonTaxRate:
		return p.CarbonTaxRate, nil
	case FieldEmissionFactor:
		return p.EmissionFactor, nil
	case FieldTaxCredit:
		return p.TaxCredit, nil
	case FieldSellingPrice:
		return p.SellingPrice, nil
	case FieldDiscountRate:
		return p.DiscountRate, nil
	case FieldLifetimeYears:
		return float64(p.LifetimeYears), nil
	default:
		return 0, fmt.Errorf("parameter field %q is not recognized", name)
	}
}

// WithField returns a copy of the parameter set with the named parameter
// replaced. The lifetime is an integer and cannot be addressed this way;
// continuous search over a whole-year horizon is not meaningful.
func (p ParameterSet) WithField(name string, value float64) (ParameterSet, error) {
	out := p
	switch CanonicalField(name) {
	case FieldCAPEX:
		out.CAPEX = value
	case FieldFixedOPEX:
		out.FixedOPEX = value
	case FieldVariableOPEX:
		out.VariableOPEX = value
	case FieldCapacity:
		out.Capacity = value
	case FieldCapacityFactor:
		out.CapacityFactor = value
	case FieldElectricityPrice:
		out.ElectricityPrice = value
	case FieldElectricityConsumption:
		out.ElectricityConsumption = value
	case FieldCarbonTaxRate:
		out.CarbonTaxRate = value
	case FieldEmissionFactor:
		out.EmissionFactor = value
	case FieldTaxCredit:
		out.TaxCredit = value
	case FieldSellingPrice:
		out.SellingPrice = value
	case FieldDiscountRate:
		out.DiscountRate = value
	case FieldLifetimeYears:
		return out, fmt.Errorf("parameter field %s is not continuously adjustable", FieldLifetimeYears)
	default:
		return out, fmt.Errorf("parameter field %q is not recognized", name)
	}
	return out, nil
}

// AdjustableFields lists the parameters the optimizer and sweeper may vary.
func AdjustableFields() []string {
	return []string{
		FieldCAPEX,
		FieldFixedOPEX,
		FieldVariableOPEX,
		FieldCapacity,
		FieldCapacityFactor,
		FieldElectricityPrice,
		FieldElectricityConsumption,
		FieldCarbonTaxRate,
		FieldEmissionFactor,
		FieldTaxCredit,
		FieldSellingPrice,
		FieldDiscountRate,
	}
}

// IsAdjustableField reports whether the named parameter may be varied by the
// optimizer or the sensitivity sweeper.
func IsAdjustableField(name string) bool {
	canonical := CanonicalField(name)
	for _, field := range AdjustableFields() {
		if field == canonical {
			return true
		}
	}
	return false
}

// Validate checks every parameter against its documented domain and returns
// an InvalidParameterError for the first violation found. Validation happens
// before any cost or cashflow computation; out-of-domain values are never
// silently clamped.
func (p ParameterSet) Validate() error {
	nonNegative := []struct {
		field string
		value float64
	}{
		{FieldCAPEX, p.CAPEX},
		{FieldFixedOPEX, p.FixedOPEX},
		{FieldVariableOPEX, p.VariableOPEX},
		{FieldCapacity, p.Capacity},
		{FieldElectricityPrice, p.ElectricityPrice},
		{FieldElectricityConsumption, p.ElectricityConsumption},
		{FieldCarbonTaxRate, p.CarbonTaxRate},
		{FieldEmissionFactor, p.EmissionFactor},
		{FieldTaxCredit, p.TaxCredit},
		{FieldSellingPrice, p.SellingPrice},
	}
	for _, check := range nonNegative {
		if check.value < 0 {
			return &InvalidParameterError{
				Field:  check.field,
				Reason: fmt.Sprintf("must be non-negative, got %v", check.value),
			}
		}
	}

	if p.CapacityFactor < 0 || p.CapacityFactor > 1 {
		return &InvalidParameterError{
			Field:  FieldCapacityFactor,
			Reason: fmt.Sprintf("must be within [0, 1], got %v", p.CapacityFactor),
		}
	}
	if p.DiscountRate < 0 || p.DiscountRate > 1 {
		return &InvalidParameterError{
			Field:  FieldDiscountRate,
			Reason: fmt.Sprintf("must be within [0, 1], got %v", p.DiscountRate),
		}
	}
	if p.LifetimeYears < 1 {
		return &InvalidParameterError{
			Field:  FieldLifetimeYears,
			Reason: fmt.Sprintf("must be a positive integer, got %d", p.LifetimeYears),
		}
	}
	if p.AnnualOutput() <= 0 {
		return &InvalidParameterError{
			Field:  FieldCapacity,
			Reason: "annual output (capacity x capacityFactor) must be positive",
		}
	}

	return nil
}

// AnnualOutput returns the units of hydrogen produced per year.
func (p ParameterSet) AnnualOutput() float64 {
	return p.Capacity * p.CapacityFactor
}
