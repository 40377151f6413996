// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"

	"github.com/hydrocast/hydrocast/internal/model"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for hydrocast.
type Configuration struct {
	Plant        PlantConfig        `yaml:"plant"`
	Optimization OptimizationConfig `yaml:"optimization,omitempty"`
	Sensitivity  []SweepConfig      `yaml:"sensitivity,omitempty"`
	Logging      LoggingConfig      `yaml:"logging,omitempty"`
	Output       OutputConfig       `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// PlantConfig holds the techno-economic parameters of the plant as they
// appear in the config file.
type PlantConfig struct {
	CAPEX                  float64 `yaml:"capex" mapstructure:"capex"`
	FixedOPEX              float64 `yaml:"fixedOpex" mapstructure:"fixedOpex"`
	VariableOPEX           float64 `yaml:"variableOpex" mapstructure:"variableOpex"`
	Capacity               float64 `yaml:"capacity" mapstructure:"capacity"`
	CapacityFactor         float64 `yaml:"capacityFactor" mapstructure:"capacityFactor"`
	ElectricityPrice       float64 `yaml:"electricityPrice" mapstructure:"electricityPrice"`
	ElectricityConsumption float64 `yaml:"electricityConsumption" mapstructure:"electricityConsumption"`
	CarbonTaxRate          float64 `yaml:"carbonTaxRate" mapstructure:"carbonTaxRate"`
	EmissionFactor         float64 `yaml:"emissionFactor" mapstructure:"emissionFactor"`
	TaxCredit              float64 `yaml:"taxCredit" mapstructure:"taxCredit"`
	SellingPrice           float64 `yaml:"sellingPrice" mapstructure:"sellingPrice"`
	DiscountRate           float64 `yaml:"discountRate" mapstructure:"discountRate"`
	LifetimeYears          int     `yaml:"lifetimeYears" mapstructure:"lifetimeYears"`
}

// ToParameterSet converts the plant configuration into the model's
// parameter set.
func (p PlantConfig) ToParameterSet() model.ParameterSet {
	return model.ParameterSet{
		CAPEX:                  p.CAPEX,
		FixedOPEX:              p.FixedOPEX,
		VariableOPEX:           p.VariableOPEX,
		Capacity:               p.Capacity,
		CapacityFactor:         p.CapacityFactor,
		ElectricityPrice:       p.ElectricityPrice,
		ElectricityConsumption: p.ElectricityConsumption,
		CarbonTaxRate:          p.CarbonTaxRate,
		EmissionFactor:         p.EmissionFactor,
		TaxCredit:              p.TaxCredit,
		SellingPrice:           p.SellingPrice,
		DiscountRate:           p.DiscountRate,
		LifetimeYears:          p.LifetimeYears,
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from the
// provided reader; used by the HTTP server for uploaded configs.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Normalize applies defaults and canonical field names to all optimizer and
// sweep directives. Call before Validate or any computation.
func (c *Configuration) Normalize() {
	c.Optimization.Normalize()
	for i := range c.Sensitivity {
		c.Sensitivity[i].Normalize()
	}
}

// Validate checks the directive sections of the configuration. Plant
// parameter domains are checked separately by model.Validate so that the
// same errors surface for configs and API payloads alike.
func (c *Configuration) Validate() error {
	if err := c.Optimization.Validate(); err != nil {
		return err
	}
	for i := range c.Sensitivity {
		if err := c.Sensitivity[i].Validate(); err != nil {
			return fmt.Errorf("sensitivity directive %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns human-readable warnings. Warnings flag likely mistakes; hard
// domain violations are rejected later as invalid parameters.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Plant.CarbonTaxRate > 0 && c.Plant.EmissionFactor == 0 {
		warnings = append(warnings, "carbonTaxRate is set but emissionFactor is zero - the carbon tax term will be zero")
	}
	if c.Plant.EmissionFactor > 0 && c.Plant.CarbonTaxRate == 0 {
		warnings = append(warnings, "emissionFactor is set but carbonTaxRate is zero - the carbon tax term will be zero")
	}
	if c.Plant.SellingPrice == 0 {
		warnings = append(warnings, "sellingPrice is zero - every produced unit is revenue-free and NPV will be negative")
	}
	if c.Plant.TaxCredit > 0 && c.Plant.TaxCredit >= c.Plant.SellingPrice && c.Plant.SellingPrice > 0 {
		warnings = append(warnings, fmt.Sprintf("taxCredit %.2f meets or exceeds sellingPrice %.2f - check the units", c.Plant.TaxCredit, c.Plant.SellingPrice))
	}

	params := c.Plant.ToParameterSet()
	for _, directive := range c.Optimization.Variables {
		value, err := params.Field(directive.Field)
		if err != nil {
			continue // unsupported fields are rejected by Validate
		}
		if directive.Min != nil && directive.Max != nil && (value < *directive.Min || value > *directive.Max) {
			warnings = append(warnings, fmt.Sprintf("plant value %.4f for %s lies outside optimizer bounds [%.4f, %.4f] and will be clamped as the initial guess",
				value, directive.Field, *directive.Min, *directive.Max))
		}
	}

	for _, sweep := range c.Sensitivity {
		if sweep.Min == sweep.Max {
			warnings = append(warnings, fmt.Sprintf("sensitivity sweep for %s has equal min and max - the curve will be flat", sweep.Field))
		}
	}

	return warnings
}
