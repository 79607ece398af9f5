package placement

import (
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// ChooseBestOpenDry returns the best-fitting open dry truck, or nil. For
// orders carrying cold volume, Fits already enforced cooler feasibility.
func (p *Placer) ChooseBestOpenDry(d OrderDemand, scheme []ResidualDim) *entities.Truck {
	return p.chooseBestOpen(p.State.OpenTrucks(entities.Dry), d, scheme)
}

// MaybeOpenNewDry scans available-but-not-open dry trucks in ascending id
// order and returns the first feasible one, or nil. Gated on the
// open-new-dry policy flag; orders with cold volume additionally require
// cooler feasibility on the candidate.
func (p *Placer) MaybeOpenNewDry(d OrderDemand) *entities.Truck {
	if !p.Policy.AllowOpenNewDryC {
		return nil
	}
	for _, t := range p.State.AvailableTrucks(entities.Dry) {
		if !p.Checker.Fits(d, t) {
			continue
		}
		if d.QCold > 0 && !p.Checker.CoolerFeasible(d, t) {
			continue
		}
		return t
	}
	return nil
}

// AssignBucketB places a flexible order, preferring not to occupy a reefer:
// existing reefers first (never opening a new one for B), then open dry
// trucks, then optionally a new dry truck.
func (p *Placer) AssignBucketB(d OrderDemand) (*Assignment, string) {
	if truck := p.ChooseBestOpenReefer(d, p.Policy.ReeferSchemeB); truck != nil {
		return p.decide(d, truck, BucketB, StepOpenReeferBestFit, false, p.Policy.ReeferSchemeB)
	}
	if truck := p.ChooseBestOpenDry(d, p.Policy.DrySchemeB); truck != nil {
		return p.decide(d, truck, BucketB, StepOpenDryBestFit, false, p.Policy.DrySchemeB)
	}
	if truck := p.MaybeOpenNewDry(d); truck != nil {
		return p.decide(d, truck, BucketB, StepNewDry, true, p.Policy.DrySchemeB)
	}
	if d.QCold > 0 && !p.Policy.AllowColdInDryB {
		// Reefers were the only legal hosts for this order's cold portion.
		return nil, ReasonNoOpenReeferFits
	}
	return nil, InfeasibleReason(BucketB)
}

// AssignBucketC places a dry-only order: open dry trucks first, then
// optionally a new dry truck.
func (p *Placer) AssignBucketC(d OrderDemand) (*Assignment, string) {
	truck := p.ChooseBestOpenDry(d, p.Policy.DrySchemeC)
	openedNew := false
	if truck == nil {
		truck = p.MaybeOpenNewDry(d)
		openedNew = true
	}
	if truck == nil {
		return nil, InfeasibleReason(BucketC)
	}
	return p.decide(d, truck, BucketC, stepFor(entities.Dry, openedNew), openedNew, p.Policy.DrySchemeC)
}
