package placement

import (
	"go.uber.org/zap"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/tracking"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// Departure strategies for the optional end-of-run sweep.
const (
	DepartNone    = "none"
	DepartMinUtil = "min_util"
	DepartTime    = "time"
)

// Orchestrator drives Phase 2: per-order bucket routing, placement, and the
// single commit path that mutates truck ledgers and the day tracker.
type Orchestrator struct {
	state   *PlannerState
	tracker *tracking.DayTracker
	placer  *Placer
	logger  *zap.Logger

	// Stamp labels assignment rows and time departures, typically the
	// planning day's date. Kept injectable so runs are reproducible.
	Stamp string
}

// NewOrchestrator wires the Phase-2 components together
func NewOrchestrator(state *PlannerState, tracker *tracking.DayTracker, policy Policy, packer PackingPolicy, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	checker := Checker{Policy: policy}
	return &Orchestrator{
		state:   state,
		tracker: tracker,
		placer:  &Placer{State: state, Checker: checker, Policy: policy, Packer: packer},
		logger:  logger,
	}
}

// PlaceOne routes a single order to its bucket placer and records the
// outcome. A placement failure is recorded on the order ledger and returns
// a nil assignment; only ledger invariant violations surface as errors.
func (o *Orchestrator) PlaceOne(orderID string) (*Assignment, error) {
	d, err := o.state.Demand(orderID)
	if err != nil {
		return nil, err
	}
	bucket := DetermineBucket(d.Alpha, o.placer.Policy.AlphaThreshold)

	var a *Assignment
	var reason string
	switch bucket {
	case BucketA:
		a, reason = o.placer.AssignBucketA(d)
	case BucketB:
		a, reason = o.placer.AssignBucketB(d)
	default:
		a, reason = o.placer.AssignBucketC(d)
	}

	if a == nil {
		// The order ledger always carries the per-bucket reason; the
		// placer's specific cause goes to the log as detail.
		recorded := InfeasibleReason(bucket)
		o.tracker.OnFailure(orderID, d.VIP, false, nil, recorded)
		o.logger.Info("order not placed",
			zap.String("order_id", orderID),
			zap.Stringer("bucket", bucket),
			zap.String("reason", recorded),
			zap.String("detail", reason),
		)
		return nil, nil
	}

	if err := o.applyDecision(a, d); err != nil {
		return nil, err
	}
	o.logger.Debug("order placed",
		zap.String("order_id", orderID),
		zap.String("truck_id", a.TruckID),
		zap.Stringer("bucket", bucket),
		zap.String("step", a.Step),
		zap.Bool("opened_new_truck", a.OpenedNewTruck),
	)
	return a, nil
}

// PlaceAll places a fixed sequence of order ids, typically the Phase-1
// queue, returning the successful assignments in queue order.
func (o *Orchestrator) PlaceAll(orderIDs []string) ([]*Assignment, error) {
	out := make([]*Assignment, 0, len(orderIDs))
	for _, id := range orderIDs {
		a, err := o.PlaceOne(id)
		if err != nil {
			return out, err
		}
		if a != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

// applyDecision is the only path that mutates state. Atomic from the
// caller's viewpoint: truck ledger, tracker registration, order record, and
// packing rows all move together.
func (o *Orchestrator) applyDecision(a *Assignment, d OrderDemand) error {
	truck, ok := o.state.Truck(a.TruckID)
	if !ok {
		return tracking.NewInvariantError("decision targets unknown truck %q", a.TruckID)
	}

	if err := o.tracker.OpenTruck(truck.TruckID, tracking.TruckSpec{
		IsReefer:         truck.Type == entities.Reefer,
		Q:                truck.TotalCapacityM3,
		QCold:            truck.ColdCapacityM3,
		W:                truck.WeightLimitKg,
		FixedCost:        truck.FixedCost,
		TauMin:           truck.MinUtilization,
		CoolerCapacityM3: truck.CoolerCapacityM3,
	}); err != nil {
		return err
	}
	o.state.MarkOpen(truck.TruckID)

	coldOnDry := truck.Type == entities.Dry && d.QCold > 0

	truck.UsedVolumeM3 += d.VEff
	truck.UsedQ += d.Q
	truck.UsedWeightKg += d.W
	truck.UsedColdM3 += d.QCold
	if coldOnDry {
		truck.UsedCoolerM3 += d.QCold
	}
	truck.AssignedOrders = append(truck.AssignedOrders, a.OrderID)

	if err := o.checkTruckInvariants(truck); err != nil {
		return err
	}

	if err := o.tracker.OnAssign(a.OrderID, truck.TruckID, d.Q, d.QCold, d.W, d.VEff, d.VIP, nil, nil, coldOnDry); err != nil {
		return err
	}

	if a.Plan != nil {
		rows := make([]tracking.AssignmentPlacement, len(a.Plan.Placements))
		for i, p := range a.Plan.Placements {
			rows[i] = tracking.AssignmentPlacement{
				ItemID: p.ItemID,
				Qty:    p.Qty,
				Zone:   p.Slot.Zone,
				Lane:   p.Slot.Lane,
				Layer:  p.Slot.Layer,
				Pos:    p.Slot.Pos,
			}
		}
		o.tracker.RecordPlacements(a.OrderID, truck.TruckID, o.Stamp, rows)
	}
	return nil
}

// checkTruckInvariants verifies the post-commit capacity ledger
func (o *Orchestrator) checkTruckInvariants(t *entities.Truck) error {
	usable := t.TotalCapacityM3 * (1 - t.ReserveFraction)
	if t.UsedVolumeM3 > usable+EPS {
		return tracking.NewInvariantError("truck %q effective volume %.6f exceeds usable capacity %.6f", t.TruckID, t.UsedVolumeM3, usable)
	}
	if t.UsedWeightKg > t.WeightLimitKg+EPS {
		return tracking.NewInvariantError("truck %q weight %.3f exceeds limit %.3f", t.TruckID, t.UsedWeightKg, t.WeightLimitKg)
	}
	switch t.Type {
	case entities.Reefer:
		if t.UsedColdM3 > t.ColdCapacityM3+EPS {
			return tracking.NewInvariantError("truck %q cold volume %.6f exceeds cold capacity %.6f", t.TruckID, t.UsedColdM3, t.ColdCapacityM3)
		}
	case entities.Dry:
		if t.UsedCoolerM3 > t.CoolerCapacityM3+EPS {
			return tracking.NewInvariantError("truck %q cooler volume %.6f exceeds cooler capacity %.6f", t.TruckID, t.UsedCoolerM3, t.CoolerCapacityM3)
		}
		if t.UsedCoolerM3 > 0 && !o.placer.Policy.AllowColdInDryB {
			return tracking.NewInvariantError("truck %q carries cold volume while cold-in-dry is disabled", t.TruckID)
		}
	}
	return nil
}

// DepartTrucks sweeps opened, not-yet-departed trucks under the given
// strategy and returns the ids just departed. A departed truck receives no
// further assignments and its utilisation snapshot is frozen.
func (o *Orchestrator) DepartTrucks(strategy string, minUtilSlack float64, departTime string) ([]string, error) {
	switch strategy {
	case DepartNone:
		return nil, nil
	case DepartMinUtil, DepartTime:
	default:
		return nil, entities.NewValidationError("departure_strategy", "unknown strategy %q", strategy)
	}
	var departed []string
	for _, id := range o.state.OpenTruckIDs() {
		truck, ok := o.state.Truck(id)
		if !ok || truck.Departed {
			continue
		}
		if strategy == DepartMinUtil {
			if truck.Utilization()+EPS < truck.MinUtilization+minUtilSlack {
				continue
			}
			truck.DepartureTime = o.Stamp
		} else {
			truck.DepartureTime = departTime
		}
		truck.Departed = true
		if err := o.tracker.OnDeparture(id, truck.DepartureTime); err != nil {
			return departed, err
		}
		departed = append(departed, id)
	}
	if len(departed) > 0 {
		o.logger.Info("trucks departed",
			zap.String("strategy", strategy),
			zap.Strings("truck_ids", departed),
		)
	}
	return departed, nil
}

// FinalizeDay freezes and returns the day KPI snapshot
func (o *Orchestrator) FinalizeDay() tracking.DaySummary {
	return o.tracker.Summarize()
}
