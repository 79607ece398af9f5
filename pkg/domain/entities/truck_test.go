package entities

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func reeferFixture() *Truck {
	return &Truck{
		TruckID:         "TR001",
		Type:            Reefer,
		TotalCapacityM3: 24,
		ColdCapacityM3:  12,
		WeightLimitKg:   9500,
		FixedCost:       decimal.NewFromInt(500),
		MinUtilization:  0.6,
		ReserveFraction: 0.06,
	}
}

func TestTruckResiduals(t *testing.T) {
	tr := reeferFixture()
	tr.UsedVolumeM3 = 2
	tr.UsedColdM3 = 11.7
	tr.UsedWeightKg = 1000

	if got, want := tr.ResidualVolumeM3(), 24*0.94-2; math.Abs(got-want) > 1e-9 {
		t.Errorf("ResidualVolumeM3 = %g, want %g", got, want)
	}
	if got, want := tr.ResidualColdM3(), 0.3; math.Abs(got-want) > 1e-9 {
		t.Errorf("ResidualColdM3 = %g, want %g", got, want)
	}
	if got, want := tr.ResidualWeightKg(), 8500.0; got != want {
		t.Errorf("ResidualWeightKg = %g, want %g", got, want)
	}

	// Residuals floor at zero even when the ledger overshoots.
	tr.UsedColdM3 = 13
	if got := tr.ResidualColdM3(); got != 0 {
		t.Errorf("overshot ResidualColdM3 = %g, want 0", got)
	}
}

func TestDryTruckResiduals(t *testing.T) {
	dry := &Truck{
		TruckID:          "TD001",
		Type:             Dry,
		TotalCapacityM3:  30,
		WeightLimitKg:    10000,
		FixedCost:        decimal.NewFromInt(400),
		CoolerCapacityM3: 0.4,
	}
	if got := dry.ResidualColdM3(); got != 0 {
		t.Errorf("dry ResidualColdM3 = %g, want 0", got)
	}
	dry.UsedCoolerM3 = 0.15
	if got, want := dry.ResidualCoolerM3(), 0.25; math.Abs(got-want) > 1e-9 {
		t.Errorf("ResidualCoolerM3 = %g, want %g", got, want)
	}

	reefer := reeferFixture()
	if got := reefer.ResidualCoolerM3(); got != 0 {
		t.Errorf("reefer ResidualCoolerM3 = %g, want 0", got)
	}
}

func TestTruckValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Truck)
	}{
		{"dry with cold capacity", func(tr *Truck) { tr.Type = Dry; tr.ColdCapacityM3 = 5 }},
		{"zero total capacity", func(tr *Truck) { tr.TotalCapacityM3 = 0 }},
		{"negative weight limit", func(tr *Truck) { tr.WeightLimitKg = -1 }},
		{"reserve fraction one", func(tr *Truck) { tr.ReserveFraction = 1 }},
		{"min utilization above one", func(tr *Truck) { tr.MinUtilization = 1.5 }},
		{"negative fixed cost", func(tr *Truck) { tr.FixedCost = decimal.NewFromInt(-10) }},
		{"negative cooler", func(tr *Truck) { tr.CoolerCapacityM3 = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := reeferFixture()
			tt.mutate(tr)
			err := tr.Validate()
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}

	if err := reeferFixture().Validate(); err != nil {
		t.Errorf("valid truck rejected: %v", err)
	}
}

func TestTruckCloneIsolation(t *testing.T) {
	tr := reeferFixture()
	tr.AssignedOrders = []string{"O1"}
	tr.UsedVolumeM3 = 3

	c := tr.Clone()
	c.UsedVolumeM3 = 9
	c.AssignedOrders = append(c.AssignedOrders, "O2")

	if tr.UsedVolumeM3 != 3 {
		t.Error("clone mutation leaked into original ledger")
	}
	if len(tr.AssignedOrders) != 1 {
		t.Error("clone mutation leaked into original assigned orders")
	}
}

func TestTruckResetRuntime(t *testing.T) {
	tr := reeferFixture()
	tr.UsedVolumeM3 = 5
	tr.UsedQ = 4.5
	tr.UsedColdM3 = 2
	tr.UsedWeightKg = 100
	tr.AssignedOrders = []string{"O1"}
	tr.Departed = true
	tr.DepartureTime = "16:00"

	tr.ResetRuntime()
	if tr.UsedVolumeM3 != 0 || tr.UsedQ != 0 || tr.UsedColdM3 != 0 || tr.UsedWeightKg != 0 ||
		len(tr.AssignedOrders) != 0 || tr.Departed || tr.DepartureTime != "" {
		t.Errorf("ResetRuntime left ledger state behind: %+v", tr)
	}
}
