package placement

import (
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/selection"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// Placer holds the shared dependencies of the bucket placers. It reads state
// and decides; it never commits. The orchestrator owns apply.
type Placer struct {
	State   StateView
	Checker Checker
	Policy  Policy
	Packer  PackingPolicy
}

// chooseBestOpen picks the tightest-fitting truck among candidates: the one
// with the lexicographically smallest leftover key under the scheme.
// Candidates arrive in ascending id order and the comparison is strict, so
// ties resolve to the lower truck id.
func (p *Placer) chooseBestOpen(candidates []*entities.Truck, d OrderDemand, scheme []ResidualDim) *entities.Truck {
	var best *entities.Truck
	var bestKey selection.Key
	for _, t := range candidates {
		if !p.Checker.Fits(d, t) {
			continue
		}
		key, ok := leftoverKey(scheme, d, t.ResidualVolumeM3(), t.ResidualColdM3(), t.ResidualWeightKg())
		if !ok {
			continue
		}
		if best == nil || key.Less(bestKey) {
			best, bestKey = t, key
		}
	}
	return best
}

// ChooseBestOpenReefer returns the best-fitting open reefer, or nil
func (p *Placer) ChooseBestOpenReefer(d OrderDemand, scheme []ResidualDim) *entities.Truck {
	return p.chooseBestOpen(p.State.OpenTrucks(entities.Reefer), d, scheme)
}

// MaybeOpenNewReefer scans available-but-not-open reefers in ascending id
// order and returns the first that fits, or nil. The policy gate belongs to
// the caller.
func (p *Placer) MaybeOpenNewReefer(d OrderDemand) *entities.Truck {
	for _, t := range p.State.AvailableTrucks(entities.Reefer) {
		if p.Checker.Fits(d, t) {
			return t
		}
	}
	return nil
}

// AssignBucketA places a cold-mandatory order: best-fit among open reefers
// first, then optionally the first available reefer if policy allows opening
// one. Returns the assignment, or nil with a failure reason.
func (p *Placer) AssignBucketA(d OrderDemand) (*Assignment, string) {
	truck := p.ChooseBestOpenReefer(d, p.Policy.ReeferSchemeA)
	openedNew := false
	if truck == nil {
		if !p.Policy.AllowOpenNewReeferA {
			return nil, ReasonOpenNewReeferDisallowed
		}
		truck = p.MaybeOpenNewReefer(d)
		openedNew = true
	}
	if truck == nil {
		return nil, InfeasibleReason(BucketA)
	}
	return p.decide(d, truck, BucketA, stepFor(entities.Reefer, openedNew), openedNew, p.Policy.ReeferSchemeA)
}

func stepFor(t entities.TruckType, openedNew bool) string {
	switch {
	case t == entities.Reefer && openedNew:
		return StepNewReefer
	case t == entities.Reefer:
		return StepOpenReeferBestFit
	case openedNew:
		return StepNewDry
	default:
		return StepOpenDryBestFit
	}
}

// decide packs the order on the chosen truck and materialises the
// Assignment with its rationale, capturing residuals before commit.
func (p *Placer) decide(d OrderDemand, truck *entities.Truck, bucket Bucket, step string, openedNew bool, scheme []ResidualDim) (*Assignment, string) {
	plan, ok := p.Packer.Pack(d.OrderID, truck.TruckID, p.State.RankedItems(d.OrderID))
	if !ok {
		return nil, ReasonPackingRefused
	}
	return &Assignment{
		OrderID:        d.OrderID,
		TruckID:        truck.TruckID,
		Bucket:         bucket,
		Step:           step,
		OpenedNewTruck: openedNew,
		Plan:           plan,
		Rationale: Rationale{
			Scheme:         scheme,
			DemandVEffM3:   d.VEff,
			DemandColdM3:   d.QCold,
			DemandWeightKg: d.W,
			ResidVolumeM3:  truck.ResidualVolumeM3(),
			ResidColdM3:    truck.ResidualColdM3(),
			ResidWeightKg:  truck.ResidualWeightKg(),
		},
	}, ""
}
