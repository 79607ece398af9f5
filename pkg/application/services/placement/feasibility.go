package placement

import (
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// EPS is the slack applied to capacity comparisons. Residuals are derived
// from sums of products of doubles, so strict comparisons would reject
// exact-fit orders.
const EPS = 1e-9

// Checker holds the stateless feasibility predicates of Phase 2. Both
// predicates read residuals only and never mutate anything.
type Checker struct {
	Policy Policy
}

// Fits reports whether the order's full demand fits the truck's current
// residuals. For orders carrying cold volume the cold chain must hold: a
// reefer needs residual cold capacity, a dry truck needs cooler feasibility.
func (c Checker) Fits(d OrderDemand, t *entities.Truck) bool {
	if d.VEff > t.ResidualVolumeM3()+EPS {
		return false
	}
	if d.W > t.ResidualWeightKg()+EPS {
		return false
	}
	if d.QCold > 0 {
		if t.Type == entities.Reefer {
			return d.QCold <= t.ResidualColdM3()+EPS
		}
		return c.CoolerFeasible(d, t)
	}
	return true
}

// CoolerFeasible reports whether the order's cold portion can ride a dry
// truck's portable cooler: requires the cold-in-dry policy flag, a dry
// truck, a positive cold demand, and enough residual cooler volume.
func (c Checker) CoolerFeasible(d OrderDemand, t *entities.Truck) bool {
	if !c.Policy.AllowColdInDryB {
		return false
	}
	if t.Type != entities.Dry {
		return false
	}
	if d.QCold <= 0 {
		return false
	}
	return d.QCold <= t.ResidualCoolerM3()+EPS
}
