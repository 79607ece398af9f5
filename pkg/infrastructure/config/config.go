// Package config loads and validates the planning knobs from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/orchestration"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/placement"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/selection"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// Config mirrors the planning configuration file
type Config struct {
	AlphaThreshold float64 `yaml:"alpha_threshold"`

	AllowOpenNewReeferA bool    `yaml:"allow_open_new_reefer_A"`
	AllowColdInDryB     bool    `yaml:"allow_cold_in_dry_B"`
	AllowOpenNewDryC    bool    `yaml:"allow_open_new_dry_C"`
	PerTruckCoolerM3    float64 `yaml:"per_truck_cooler_m3"`

	ReeferSchemeA []string `yaml:"reefer_scheme_A"`
	ReeferSchemeB []string `yaml:"reefer_scheme_B"`
	DrySchemeB    []string `yaml:"dry_scheme_B"`
	DrySchemeC    []string `yaml:"dry_scheme_C"`

	OrderScheme []string `yaml:"order_scheme"`
	ItemScheme  []string `yaml:"item_scheme"`

	DepartureStrategy string  `yaml:"departure_strategy"`
	MinUtilSlack      float64 `yaml:"min_util_slack"`
	DepartTime        string  `yaml:"depart_time"`

	MaxColdFraction float64 `yaml:"max_cold_fraction"`
}

// Default returns the reference configuration
func Default() Config {
	return Config{
		AlphaThreshold:      0.5,
		AllowOpenNewReeferA: true,
		AllowColdInDryB:     false,
		AllowOpenNewDryC:    true,
		PerTruckCoolerM3:    0,
		ReeferSchemeA:       []string{"cold", "volume", "weight"},
		ReeferSchemeB:       []string{"cold", "volume", "weight"},
		DrySchemeB:          []string{"volume", "weight"},
		DrySchemeC:          []string{"volume", "weight"},
		OrderScheme:         []string{"vip", "due", "alpha", "v_eff", "weight", "order_id"},
		ItemScheme:          []string{"cold", "weight", "v_eff", "liquid", "stack_limit", "fragile", "upright", "item_id"},
		DepartureStrategy:   placement.DepartNone,
		MinUtilSlack:        0,
		DepartTime:          "",
		MaxColdFraction:     0,
	}
}

// Load reads a YAML config file over the defaults and validates the result
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every knob, reporting the offending field path
func (c Config) Validate() error {
	if c.AlphaThreshold <= 0 || c.AlphaThreshold > 1 {
		return entities.NewValidationError("alpha_threshold", "must be in (0,1], got %g", c.AlphaThreshold)
	}
	if c.PerTruckCoolerM3 < 0 {
		return entities.NewValidationError("per_truck_cooler_m3", "must be >= 0, got %g", c.PerTruckCoolerM3)
	}
	if _, err := placement.ParseResidualScheme(c.ReeferSchemeA, entities.Reefer, "reefer_scheme_A"); err != nil {
		return err
	}
	if _, err := placement.ParseResidualScheme(c.ReeferSchemeB, entities.Reefer, "reefer_scheme_B"); err != nil {
		return err
	}
	if _, err := placement.ParseResidualScheme(c.DrySchemeB, entities.Dry, "dry_scheme_B"); err != nil {
		return err
	}
	if _, err := placement.ParseResidualScheme(c.DrySchemeC, entities.Dry, "dry_scheme_C"); err != nil {
		return err
	}
	if _, err := selection.ParseOrderScheme(c.OrderScheme); err != nil {
		return err
	}
	if _, err := selection.ParseItemScheme(c.ItemScheme); err != nil {
		return err
	}
	switch c.DepartureStrategy {
	case placement.DepartNone, placement.DepartMinUtil:
	case placement.DepartTime:
		if _, err := entities.ParseHHMM(c.DepartTime); err != nil {
			return entities.NewValidationError("depart_time", "must be 'HH:MM' (24h) under the time strategy, got %q", c.DepartTime)
		}
	default:
		return entities.NewValidationError("departure_strategy", "must be one of none, min_util, time; got %q", c.DepartureStrategy)
	}
	if c.MinUtilSlack < 0 {
		return entities.NewValidationError("min_util_slack", "must be >= 0, got %g", c.MinUtilSlack)
	}
	if c.MaxColdFraction < 0 || c.MaxColdFraction > 1 {
		return entities.NewValidationError("max_cold_fraction", "must be in [0,1], got %g", c.MaxColdFraction)
	}
	return nil
}

// PlannerOptions converts the validated config into planner options
func (c Config) PlannerOptions() (orchestration.Options, error) {
	if err := c.Validate(); err != nil {
		return orchestration.Options{}, err
	}
	reeferA, _ := placement.ParseResidualScheme(c.ReeferSchemeA, entities.Reefer, "reefer_scheme_A")
	reeferB, _ := placement.ParseResidualScheme(c.ReeferSchemeB, entities.Reefer, "reefer_scheme_B")
	dryB, _ := placement.ParseResidualScheme(c.DrySchemeB, entities.Dry, "dry_scheme_B")
	dryC, _ := placement.ParseResidualScheme(c.DrySchemeC, entities.Dry, "dry_scheme_C")

	return orchestration.Options{
		OrderScheme: c.OrderScheme,
		ItemScheme:  c.ItemScheme,
		Policy: placement.Policy{
			AlphaThreshold:      c.AlphaThreshold,
			AllowOpenNewReeferA: c.AllowOpenNewReeferA,
			AllowColdInDryB:     c.AllowColdInDryB,
			AllowOpenNewDryC:    c.AllowOpenNewDryC,
			PerTruckCoolerM3:    c.PerTruckCoolerM3,
			ReeferSchemeA:       reeferA,
			ReeferSchemeB:       reeferB,
			DrySchemeB:          dryB,
			DrySchemeC:          dryC,
		},
		DepartureStrategy: c.DepartureStrategy,
		MinUtilSlack:      c.MinUtilSlack,
		DepartTime:        c.DepartTime,
		MaxColdFraction:   c.MaxColdFraction,
	}, nil
}
