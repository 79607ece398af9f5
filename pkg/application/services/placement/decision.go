package placement

import (
	"fmt"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/selection"
)

// Bucket classifies an order by its cold fraction against the threshold
type Bucket int

// Buckets: A cold-mandatory, B mixed-flexible, C dry-only.
const (
	BucketA Bucket = iota
	BucketB
	BucketC
)

func (b Bucket) String() string {
	switch b {
	case BucketA:
		return "A"
	case BucketB:
		return "B"
	case BucketC:
		return "C"
	default:
		return "?"
	}
}

// bucketEps separates a genuinely dry order from float dust in alpha
const bucketEps = 1e-12

// DetermineBucket routes an order by cold fraction: alpha <= eps is dry-only
// C, alpha >= threshold is cold-mandatory A, anything between is flexible B.
func DetermineBucket(alpha, alphaThreshold float64) Bucket {
	if alpha <= bucketEps {
		return BucketC
	}
	if alpha >= alphaThreshold {
		return BucketA
	}
	return BucketB
}

// Placement steps recorded on successful assignments.
const (
	StepOpenReeferBestFit = "open_reefer_best_fit"
	StepNewReefer         = "new_reefer"
	StepOpenDryBestFit    = "open_dry_best_fit"
	StepNewDry            = "new_dry"
)

// Failure reasons. The order ledger records the per-bucket infeasible_*
// form; the more specific causes returned by the placers surface as log
// detail. Planning failures are non-fatal; the day continues with
// subsequent orders.
const (
	ReasonInfeasibleBucketA       = "infeasible_in_bucket_A"
	ReasonInfeasibleBucketB       = "infeasible_in_bucket_B"
	ReasonInfeasibleBucketC       = "infeasible_in_bucket_C"
	ReasonNoOpenReeferFits        = "no_open_reefer_fits"
	ReasonOpenNewReeferDisallowed = "open_new_reefer_disallowed"
	ReasonCoolerCapacityExceeded  = "cooler_capacity_exceeded"
	ReasonPackingRefused          = "packing_refused"
)

// InfeasibleReason returns the per-bucket failure reason
func InfeasibleReason(b Bucket) string {
	return fmt.Sprintf("infeasible_in_bucket_%s", b)
}

// Rationale is the machine-readable explanation attached to an assignment:
// the scheme used, the order's demand triple, and the chosen truck's
// residuals before the commit.
type Rationale struct {
	Scheme         []ResidualDim
	DemandVEffM3   float64
	DemandColdM3   float64
	DemandWeightKg float64
	ResidVolumeM3  float64
	ResidColdM3    float64
	ResidWeightKg  float64
}

func (r Rationale) String() string {
	return fmt.Sprintf("scheme=%v; order v_eff=%.4f, q_cold=%.4f, w=%.1f; truck dQ=%.4f, dQ_cold=%.4f, dW=%.1f",
		r.Scheme, r.DemandVEffM3, r.DemandColdM3, r.DemandWeightKg,
		r.ResidVolumeM3, r.ResidColdM3, r.ResidWeightKg)
}

// Assignment is a placer decision before commit: which truck takes the
// order, under which bucket and step, with the packing plan attached.
type Assignment struct {
	OrderID        string
	TruckID        string
	Bucket         Bucket
	Step           string
	OpenedNewTruck bool
	Plan           *LoadingPlan
	Rationale      Rationale
}

// leftoverKey builds the best-fit key for one candidate truck: the tuple of
// residual minus demand per scheme dimension. Smaller is a tighter fit. A
// negative leftover in any scheme dimension disqualifies the candidate even
// when the overall fit passed, since the scheme may rank a dimension the
// feasibility slack glossed over.
func leftoverKey(scheme []ResidualDim, d OrderDemand, residVol, residCold, residW float64) (selection.Key, bool) {
	var key selection.Key
	for _, dim := range scheme {
		var left float64
		switch dim {
		case DimCold:
			left = residCold - d.QCold
		case DimVolume:
			left = residVol - d.VEff
		case DimWeight:
			left = residW - d.W
		}
		if left < 0 {
			return selection.Key{}, false
		}
		key.AppendNum(left)
	}
	return key, true
}
