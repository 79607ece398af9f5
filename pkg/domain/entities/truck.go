package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Truck represents a vehicle resource with capacity, cold-chain limits and a
// utilisation policy. The static spec is immutable for the day; the runtime
// ledger fields are mutated exclusively by the placer orchestrator.
type Truck struct {
	TruckID          string
	Type             TruckType
	TotalCapacityM3  float64 // Q
	ColdCapacityM3   float64 // Q_cold, 0 for Dry
	WeightLimitKg    float64 // W
	FixedCost        decimal.Decimal
	MinUtilization   float64 // tau_min
	ReserveFraction  float64 // fraction of Q never consumed by planning
	CoolerCapacityM3 float64 // portable cooler on Dry trucks, 0 for Reefer

	// Runtime ledger, reset between days.
	AssignedOrders []string
	UsedVolumeM3   float64 // effective volume loaded
	UsedQ          float64 // geometric volume loaded
	UsedColdM3     float64
	UsedWeightKg   float64
	UsedCoolerM3   float64
	Departed       bool
	DepartureTime  string // "HH:MM" or the day stamp, empty while at the depot
}

// Validate checks the static truck invariants
func (t *Truck) Validate() error {
	if t.TruckID == "" {
		return NewValidationError("trucks[].truck_id", "must not be empty")
	}
	field := func(name string) string { return fmt.Sprintf("trucks[%s].%s", t.TruckID, name) }
	if t.TotalCapacityM3 <= 0 {
		return NewValidationError(field("total_capacity_m3"), "must be > 0, got %g", t.TotalCapacityM3)
	}
	if t.WeightLimitKg <= 0 {
		return NewValidationError(field("weight_limit_kg"), "must be > 0, got %g", t.WeightLimitKg)
	}
	if t.Type == Dry && t.ColdCapacityM3 != 0 {
		return NewValidationError(field("cold_capacity_m3"), "must be 0 for Dry trucks, got %g", t.ColdCapacityM3)
	}
	if t.ColdCapacityM3 < 0 {
		return NewValidationError(field("cold_capacity_m3"), "must be >= 0, got %g", t.ColdCapacityM3)
	}
	if t.ReserveFraction < 0 || t.ReserveFraction >= 1 {
		return NewValidationError(field("reserve_fraction"), "must be in [0,1), got %g", t.ReserveFraction)
	}
	if t.MinUtilization < 0 || t.MinUtilization > 1 {
		return NewValidationError(field("min_utilization"), "must be in [0,1], got %g", t.MinUtilization)
	}
	if t.CoolerCapacityM3 < 0 {
		return NewValidationError(field("cooler_capacity_m3"), "must be >= 0, got %g", t.CoolerCapacityM3)
	}
	if t.FixedCost.IsNegative() {
		return NewValidationError(field("fixed_cost"), "must be >= 0, got %s", t.FixedCost)
	}
	return nil
}

// ResidualVolumeM3 returns the remaining usable effective volume after the
// reserve fraction is honoured: Q*(1-reserve) - used_v_eff.
func (t *Truck) ResidualVolumeM3() float64 {
	available := t.TotalCapacityM3 * (1.0 - t.ReserveFraction)
	r := available - t.UsedVolumeM3
	if r < 0 {
		return 0
	}
	return r
}

// ResidualColdM3 returns the remaining refrigerated capacity (always 0 on Dry)
func (t *Truck) ResidualColdM3() float64 {
	if t.Type == Dry {
		return 0
	}
	r := t.ColdCapacityM3 - t.UsedColdM3
	if r < 0 {
		return 0
	}
	return r
}

// ResidualWeightKg returns the remaining payload weight
func (t *Truck) ResidualWeightKg() float64 {
	r := t.WeightLimitKg - t.UsedWeightKg
	if r < 0 {
		return 0
	}
	return r
}

// ResidualCoolerM3 returns the remaining portable-cooler volume (Dry only)
func (t *Truck) ResidualCoolerM3() float64 {
	if t.Type != Dry {
		return 0
	}
	r := t.CoolerCapacityM3 - t.UsedCoolerM3
	if r < 0 {
		return 0
	}
	return r
}

// Utilization returns used effective volume over total capacity
func (t *Truck) Utilization() float64 {
	if t.TotalCapacityM3 <= 0 {
		return 0
	}
	return t.UsedVolumeM3 / t.TotalCapacityM3
}

// ResetRuntime clears the per-day ledger fields
func (t *Truck) ResetRuntime() {
	t.AssignedOrders = nil
	t.UsedVolumeM3 = 0
	t.UsedQ = 0
	t.UsedColdM3 = 0
	t.UsedWeightKg = 0
	t.UsedCoolerM3 = 0
	t.Departed = false
	t.DepartureTime = ""
}

// Clone returns a deep copy. Batch planning gives every day its own clones
// so that days never share mutable truck state.
func (t *Truck) Clone() *Truck {
	c := *t
	c.AssignedOrders = append([]string(nil), t.AssignedOrders...)
	return &c
}
