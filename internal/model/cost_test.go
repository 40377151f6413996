package model

import (
	"errors"
	"math"
	"testing"
)

// referenceParams is a plausible green hydrogen plant used across tests.
func referenceParams() ParameterSet {
	return ParameterSet{
		CAPEX:                  1000000.0,
		FixedOPEX:              50000.0,
		Capacity:               10000.0,
		CapacityFactor:         0.9,
		ElectricityPrice:       0.05,
		ElectricityConsumption: 50.0,
		SellingPrice:           6.0,
		DiscountRate:           0.08,
		LifetimeYears:          20,
	}
}

func TestComputeLCOHReferencePlant(t *testing.T) {
	params := referenceParams()

	breakdown, err := ComputeLCOH(params)
	if err != nil {
		t.Fatalf("ComputeLCOH() error = %v", err)
	}

	if math.IsNaN(breakdown.LCOH) || math.IsInf(breakdown.LCOH, 0) {
		t.Fatalf("ComputeLCOH() = %v, expected a finite value", breakdown.LCOH)
	}
	if breakdown.LCOH <= 0 {
		t.Errorf("ComputeLCOH() = %v, expected strictly positive", breakdown.LCOH)
	}

	// CRF at 8% over 20 years is 0.101852; annual output is 9000 units.
	expectedCapex := 1000000.0 * 0.1018522 / 9000.0
	if math.Abs(breakdown.AnnualizedCAPEX-expectedCapex) > 1e-3 {
		t.Errorf("AnnualizedCAPEX = %.4f, expected %.4f", breakdown.AnnualizedCAPEX, expectedCapex)
	}
	expectedElectricity := 0.05 * 50.0
	if math.Abs(breakdown.Electricity-expectedElectricity) > 1e-9 {
		t.Errorf("Electricity = %.4f, expected %.4f", breakdown.Electricity, expectedElectricity)
	}

	// Components must sum to the levelized cost.
	sum := breakdown.AnnualizedCAPEX + breakdown.FixedOPEX + breakdown.VariableOPEX +
		breakdown.Electricity + breakdown.CarbonTax - breakdown.TaxCredit
	if math.Abs(sum-breakdown.LCOH) > 1e-9 {
		t.Errorf("component sum %.6f does not match LCOH %.6f", sum, breakdown.LCOH)
	}
}

func TestComputeLCOHPositivity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ParameterSet)
	}{
		{
			name:   "Reference plant",
			mutate: func(p *ParameterSet) {},
		},
		{
			name:   "Low capacity factor",
			mutate: func(p *ParameterSet) { p.CapacityFactor = 0.05 },
		},
		{
			name:   "Full utilization",
			mutate: func(p *ParameterSet) { p.CapacityFactor = 1.0 },
		},
		{
			name:   "Zero discount rate",
			mutate: func(p *ParameterSet) { p.DiscountRate = 0.0 },
		},
		{
			name:   "Carbon taxed plant",
			mutate: func(p *ParameterSet) { p.CarbonTaxRate = 50.0; p.EmissionFactor = 0.01 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := referenceParams()
			tt.mutate(&params)
			breakdown, err := ComputeLCOH(params)
			if err != nil {
				t.Fatalf("ComputeLCOH() error = %v", err)
			}
			if breakdown.LCOH <= 0 {
				t.Errorf("ComputeLCOH() = %v, expected strictly positive", breakdown.LCOH)
			}
		})
	}
}

func TestComputeLCOHZeroDiscountRate(t *testing.T) {
	params := referenceParams()
	params.DiscountRate = 0.0

	breakdown, err := ComputeLCOH(params)
	if err != nil {
		t.Fatalf("ComputeLCOH() error = %v", err)
	}

	// CRF degenerates to 1/n, so the capital charge is CAPEX/n spread over
	// the annual output.
	expected := 1000000.0 / 20.0 / 9000.0
	if math.Abs(breakdown.AnnualizedCAPEX-expected) > 1e-9 {
		t.Errorf("AnnualizedCAPEX = %.6f, expected %.6f", breakdown.AnnualizedCAPEX, expected)
	}
}

func TestComputeLCOHTaxCreditReducesCost(t *testing.T) {
	params := referenceParams()
	base, err := ComputeLCOH(params)
	if err != nil {
		t.Fatalf("ComputeLCOH() error = %v", err)
	}

	params.TaxCredit = 1.0
	credited, err := ComputeLCOH(params)
	if err != nil {
		t.Fatalf("ComputeLCOH() error = %v", err)
	}

	if math.Abs((base.LCOH-credited.LCOH)-1.0) > 1e-9 {
		t.Errorf("tax credit of 1.0 reduced LCOH by %.6f, expected 1.0", base.LCOH-credited.LCOH)
	}
}

func TestComputeLCOHInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ParameterSet)
		field  string
	}{
		{
			name:   "Zero lifetime",
			mutate: func(p *ParameterSet) { p.LifetimeYears = 0 },
			field:  FieldLifetimeYears,
		},
		{
			name:   "Capacity factor above one",
			mutate: func(p *ParameterSet) { p.CapacityFactor = 1.5 },
			field:  FieldCapacityFactor,
		},
		{
			name:   "Negative capacity",
			mutate: func(p *ParameterSet) { p.Capacity = -100 },
			field:  FieldCapacity,
		},
		{
			name:   "Zero annual output",
			mutate: func(p *ParameterSet) { p.CapacityFactor = 0 },
			field:  FieldCapacity,
		},
		{
			name:   "Discount rate above one",
			mutate: func(p *ParameterSet) { p.DiscountRate = 1.2 },
			field:  FieldDiscountRate,
		},
		{
			name:   "Negative electricity price",
			mutate: func(p *ParameterSet) { p.ElectricityPrice = -0.01 },
			field:  FieldElectricityPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := referenceParams()
			tt.mutate(&params)

			_, err := ComputeLCOH(params)
			if err == nil {
				t.Fatalf("ComputeLCOH() succeeded, expected InvalidParameterError for %s", tt.field)
			}

			var invalid *InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("ComputeLCOH() error = %v, expected *InvalidParameterError", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("InvalidParameterError.Field = %s, expected %s", invalid.Field, tt.field)
			}
		})
	}
}
