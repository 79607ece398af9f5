package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/placement"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	content := `
alpha_threshold: 0.35
allow_cold_in_dry_B: true
per_truck_cooler_m3: 0.4
reefer_scheme_A: [volume, cold, weight]
departure_strategy: min_util
min_util_slack: 0.05
max_cold_fraction: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.35, cfg.AlphaThreshold)
	assert.True(t, cfg.AllowColdInDryB)
	assert.Equal(t, 0.4, cfg.PerTruckCoolerM3)
	assert.Equal(t, []string{"volume", "cold", "weight"}, cfg.ReeferSchemeA)
	assert.Equal(t, placement.DepartMinUtil, cfg.DepartureStrategy)
	assert.Equal(t, 0.05, cfg.MinUtilSlack)
	assert.Equal(t, 0.8, cfg.MaxColdFraction)

	// Untouched knobs keep their defaults.
	assert.True(t, cfg.AllowOpenNewReeferA)
	assert.Equal(t, Default().OrderScheme, cfg.OrderScheme)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"alpha threshold zero", func(c *Config) { c.AlphaThreshold = 0 }, "alpha_threshold"},
		{"alpha threshold above one", func(c *Config) { c.AlphaThreshold = 1.5 }, "alpha_threshold"},
		{"negative cooler", func(c *Config) { c.PerTruckCoolerM3 = -1 }, "per_truck_cooler_m3"},
		{"cold on dry scheme", func(c *Config) { c.DrySchemeC = []string{"cold", "volume"} }, "dry_scheme_C"},
		{"unknown reefer dim", func(c *Config) { c.ReeferSchemeA = []string{"height"} }, "reefer_scheme_A"},
		{"duplicate reefer dim", func(c *Config) { c.ReeferSchemeB = []string{"cold", "cold"} }, "reefer_scheme_B"},
		{"unknown order dim", func(c *Config) { c.OrderScheme = []string{"priority"} }, "order_scheme"},
		{"unknown item dim", func(c *Config) { c.ItemScheme = []string{"color"} }, "item_scheme"},
		{"unknown departure strategy", func(c *Config) { c.DepartureStrategy = "sunset" }, "departure_strategy"},
		{"time strategy without clock", func(c *Config) { c.DepartureStrategy = "time"; c.DepartTime = "" }, "depart_time"},
		{"negative slack", func(c *Config) { c.MinUtilSlack = -0.1 }, "min_util_slack"},
		{"cold fraction above one", func(c *Config) { c.MaxColdFraction = 1.2 }, "max_cold_fraction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var vErr *entities.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestPlannerOptions(t *testing.T) {
	cfg := Default()
	cfg.AlphaThreshold = 0.4
	cfg.AllowColdInDryB = true
	cfg.ReeferSchemeB = []string{"volume", "weight"}
	cfg.DepartureStrategy = placement.DepartTime
	cfg.DepartTime = "16:30"

	opts, err := cfg.PlannerOptions()
	require.NoError(t, err)

	assert.Equal(t, 0.4, opts.Policy.AlphaThreshold)
	assert.True(t, opts.Policy.AllowColdInDryB)
	assert.Equal(t, []placement.ResidualDim{placement.DimVolume, placement.DimWeight}, opts.Policy.ReeferSchemeB)
	assert.Equal(t, []placement.ResidualDim{placement.DimCold, placement.DimVolume, placement.DimWeight}, opts.Policy.ReeferSchemeA)
	assert.Equal(t, placement.DepartTime, opts.DepartureStrategy)
	assert.Equal(t, "16:30", opts.DepartTime)
	assert.Equal(t, cfg.OrderScheme, opts.OrderScheme)
}

func TestPlannerOptionsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.AlphaThreshold = 0
	_, err := cfg.PlannerOptions()
	assert.Error(t, err)
}
