// Package placement implements Phase 2: bucket routing, best-fit placement
// on reefer and dry trucks, packing, and the commit path that mutates truck
// ledgers and the day tracker.
package placement

import (
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// ResidualDim names one dimension of a best-fit leftover scheme
type ResidualDim string

// Leftover dimensions. "cold" is only meaningful on reefer schemes since dry
// trucks carry no native cold capacity.
const (
	DimCold   ResidualDim = "cold"
	DimVolume ResidualDim = "volume"
	DimWeight ResidualDim = "weight"
)

// ParseResidualScheme validates a leftover scheme for the given truck type
func ParseResidualScheme(dims []string, truckType entities.TruckType, field string) ([]ResidualDim, error) {
	allowed := map[ResidualDim]bool{DimVolume: true, DimWeight: true}
	if truckType == entities.Reefer {
		allowed[DimCold] = true
	}
	seen := map[ResidualDim]bool{}
	out := make([]ResidualDim, 0, len(dims))
	for _, raw := range dims {
		d := ResidualDim(raw)
		if !allowed[d] {
			return nil, entities.NewValidationError(field, "unknown residual dimension %q", raw)
		}
		if seen[d] {
			return nil, entities.NewValidationError(field, "duplicate residual dimension %q", raw)
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

// Policy carries the day-level placement knobs read by the placers
type Policy struct {
	AlphaThreshold float64

	AllowOpenNewReeferA bool
	AllowColdInDryB     bool
	AllowOpenNewDryC    bool

	// Default portable cooler volume applied when a dry truck record omits
	// its own cooler capacity.
	PerTruckCoolerM3 float64

	ReeferSchemeA []ResidualDim
	ReeferSchemeB []ResidualDim
	DrySchemeB    []ResidualDim
	DrySchemeC    []ResidualDim
}

// DefaultPolicy returns the reference knobs: tight-fit schemes
// [cold, volume, weight] on reefers and [volume, weight] on dry trucks.
func DefaultPolicy() Policy {
	return Policy{
		AlphaThreshold:      0.5,
		AllowOpenNewReeferA: true,
		AllowColdInDryB:     false,
		AllowOpenNewDryC:    true,
		PerTruckCoolerM3:    0,
		ReeferSchemeA:       []ResidualDim{DimCold, DimVolume, DimWeight},
		ReeferSchemeB:       []ResidualDim{DimCold, DimVolume, DimWeight},
		DrySchemeB:          []ResidualDim{DimVolume, DimWeight},
		DrySchemeC:          []ResidualDim{DimVolume, DimWeight},
	}
}
