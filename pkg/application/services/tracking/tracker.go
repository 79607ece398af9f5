// Package tracking accumulates the per-day ledger: per-truck loads, per-order
// outcomes, selection queue logs, and the day KPI snapshot.
package tracking

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/services/kpi"
)

// InvariantError reports a ledger invariant violation: these indicate a bug
// in the engine, are never swallowed, and map to exit code 3.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "invariant violation: " + e.Msg }

// NewInvariantError creates an InvariantError with a formatted message.
func NewInvariantError(format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}

// TruckSpec is the static part of a truck captured at first assignment
type TruckSpec struct {
	IsReefer         bool
	Q                float64
	QCold            float64
	W                float64
	FixedCost        decimal.Decimal
	TauMin           float64
	CoolerCapacityM3 float64
}

func (s TruckSpec) equal(o TruckSpec) bool {
	return s.IsReefer == o.IsReefer &&
		s.Q == o.Q && s.QCold == o.QCold && s.W == o.W &&
		s.FixedCost.Equal(o.FixedCost) &&
		s.TauMin == o.TauMin && s.CoolerCapacityM3 == o.CoolerCapacityM3
}

// TruckLedger is the runtime ledger of one opened truck
type TruckLedger struct {
	TruckID string
	Spec    TruckSpec

	UsedVEff     float64
	UsedQ        float64
	UsedQCold    float64
	UsedW        float64
	UsedCoolerM3 float64

	Departed      bool
	DepartureTime string

	// Utilisations frozen when the truck departs.
	UVolAtDeparture  float64
	UWAtDeparture    float64
	UColdAtDeparture float64
	UBnAtDeparture   float64
}

// OrderRecord is the per-order ledger entry (assigned or failed)
type OrderRecord struct {
	Q                  float64
	QCold              float64
	W                  float64
	VEff               float64
	IsVIP              bool
	AssignedTruckCount int
	DueMet             *bool    // nil = not evaluated
	DelayMin           *float64 // nil = no recorded delay
	Placed             bool
	Reason             string
}

// AssignmentPlacement is one packed line destined for assignments.csv
type AssignmentPlacement struct {
	ItemID string
	Qty    int
	Zone   string
	Lane   string
	Layer  int
	Pos    int
}

// AssignmentRow is a flat item-level placement row
type AssignmentRow struct {
	Time    string
	OrderID string
	TruckID string
	ItemID  string
	Qty     int
	Zone    string
	Lane    string
	Layer   int
	Pos     int
}

// OrderQueueRow mirrors one order_queue.csv line
type OrderQueueRow struct {
	RunID   string
	Rank    int
	OrderID string
	VIP     bool
	Due     string
	Alpha   float64
	VEff    float64
	Weight  float64
	SortKey string
}

// ItemQueueRow mirrors one item_rankings.csv line
type ItemQueueRow struct {
	RunID        string
	OrderID      string
	Rank         int
	ItemID       string
	Qty          int
	Cold01       float64
	WIJ          float64
	VIJEff       float64
	Liquid01     float64
	StackLimit   float64
	FragileScore float64
	Upright01    float64
	SortKey      string
}

// QueueMeta captures which ranker produced a queue log
type QueueMeta struct {
	Name   string
	Scheme []string
	RunID  string
}

type coldOnDryPair struct {
	orderID string
	truckID string
}

// DayTracker is the incremental KPI accumulator for a single planning day.
// Call OpenTruck at a truck's first assignment, OnAssign per commit,
// OnFailure for unplaceable orders, OnDeparture under a departure sweep, and
// Summarize at any point for the KPI snapshot.
type DayTracker struct {
	trucks map[string]*TruckLedger
	orders map[string]*OrderRecord

	coldOnDry map[coldOnDryPair]struct{}

	sumQ    float64
	sumVEff float64
	sumW    float64

	assignmentRows []AssignmentRow

	orderQueueLog  []OrderQueueRow
	itemQueueLog   []ItemQueueRow
	orderQueueMeta QueueMeta
	itemQueueMeta  QueueMeta
}

// NewDayTracker creates an empty tracker
func NewDayTracker() *DayTracker {
	return &DayTracker{
		trucks:    make(map[string]*TruckLedger),
		orders:    make(map[string]*OrderRecord),
		coldOnDry: make(map[coldOnDryPair]struct{}),
	}
}

// OpenTruck registers a truck as opened; its fixed cost counts exactly once
// in the day totals. Re-opening with an identical spec is a no-op; a
// differing spec for the same id is an invariant violation.
func (d *DayTracker) OpenTruck(truckID string, spec TruckSpec) error {
	if existing, ok := d.trucks[truckID]; ok {
		if !existing.Spec.equal(spec) {
			return NewInvariantError("truck %q re-opened with different specs", truckID)
		}
		return nil
	}
	d.trucks[truckID] = &TruckLedger{TruckID: truckID, Spec: spec}
	return nil
}

// IsOpen reports whether a truck has been registered as opened
func (d *DayTracker) IsOpen(truckID string) bool {
	_, ok := d.trucks[truckID]
	return ok
}

// Truck returns the ledger of an opened truck
func (d *DayTracker) Truck(truckID string) (*TruckLedger, bool) {
	t, ok := d.trucks[truckID]
	return t, ok
}

// Order returns the ledger record of an order seen so far
func (d *DayTracker) Order(orderID string) (*OrderRecord, bool) {
	o, ok := d.orders[orderID]
	return o, ok
}

// OnAssign records an order→truck assignment: truck loads, order ledger, and
// day totals all move together, monotonically.
func (d *DayTracker) OnAssign(orderID, truckID string, q, qCold, w, vEff float64, isVIP bool, dueMet *bool, delayMin *float64, coldOnDry bool) error {
	t, ok := d.trucks[truckID]
	if !ok {
		return NewInvariantError("assignment of order %q to unregistered truck %q", orderID, truckID)
	}
	if t.Departed {
		return NewInvariantError("assignment of order %q to departed truck %q", orderID, truckID)
	}

	t.UsedQ += q
	t.UsedQCold += qCold
	t.UsedW += w
	t.UsedVEff += vEff
	if !t.Spec.IsReefer && qCold > 0 {
		t.UsedCoolerM3 += qCold
	}

	rec, ok := d.orders[orderID]
	if !ok {
		rec = &OrderRecord{
			Q: q, QCold: qCold, W: w, VEff: vEff,
			IsVIP:  isVIP,
			Placed: true,
		}
		d.orders[orderID] = rec
	}
	rec.AssignedTruckCount++
	rec.Placed = true
	rec.DueMet = dueMet
	rec.DelayMin = delayMin

	d.sumQ += q
	d.sumVEff += vEff
	d.sumW += w

	if coldOnDry {
		d.coldOnDry[coldOnDryPair{orderID, truckID}] = struct{}{}
	}
	return nil
}

// OnFailure records that an order could not be planned under current policy.
// Non-fatal: the day continues with subsequent orders.
func (d *DayTracker) OnFailure(orderID string, isVIP bool, dueMissed bool, delayMin *float64, reason string) {
	rec, ok := d.orders[orderID]
	if !ok {
		rec = &OrderRecord{IsVIP: isVIP}
		d.orders[orderID] = rec
	}
	rec.Placed = false
	rec.Reason = reason
	rec.IsVIP = rec.IsVIP || isVIP
	if dueMissed {
		f := false
		rec.DueMet = &f
		rec.DelayMin = delayMin
	}
}

// OnDeparture marks a truck as departed and freezes its utilisation
// snapshot. Idempotent per truck.
func (d *DayTracker) OnDeparture(truckID, when string) error {
	t, ok := d.trucks[truckID]
	if !ok {
		return NewInvariantError("departure of unregistered truck %q", truckID)
	}
	if t.Departed {
		return nil
	}
	t.UVolAtDeparture = kpi.UVol(t.UsedVEff, t.Spec.Q)
	t.UWAtDeparture = kpi.UW(t.UsedW, t.Spec.W)
	t.UColdAtDeparture = kpi.UCold(t.UsedQCold, t.Spec.QCold)
	t.UBnAtDeparture = kpi.UBn(t.UVolAtDeparture, t.UWAtDeparture)
	t.Departed = true
	t.DepartureTime = when
	return nil
}

// RecordPlacements appends flat assignment rows for the packed lines of one
// order.
func (d *DayTracker) RecordPlacements(orderID, truckID, when string, placements []AssignmentPlacement) {
	for _, p := range placements {
		d.assignmentRows = append(d.assignmentRows, AssignmentRow{
			Time:    when,
			OrderID: orderID,
			TruckID: truckID,
			ItemID:  p.ItemID,
			Qty:     p.Qty,
			Zone:    p.Zone,
			Lane:    p.Lane,
			Layer:   p.Layer,
			Pos:     p.Pos,
		})
	}
}

// RecordOrderQueue appends the ranked order queue for audit export
func (d *DayTracker) RecordOrderQueue(rows []OrderQueueRow, name string, scheme []string, runID string, reset bool) {
	if reset {
		d.orderQueueLog = nil
		d.itemQueueLog = nil
	}
	d.orderQueueMeta = QueueMeta{Name: name, Scheme: scheme, RunID: runID}
	d.orderQueueLog = append(d.orderQueueLog, rows...)
}

// RecordItemQueue appends one order's ranked item rows for audit export
func (d *DayTracker) RecordItemQueue(rows []ItemQueueRow, name string, scheme []string, runID string) {
	d.itemQueueMeta = QueueMeta{Name: name, Scheme: scheme, RunID: runID}
	d.itemQueueLog = append(d.itemQueueLog, rows...)
}

// OrderQueueLog returns the recorded order queue rows
func (d *DayTracker) OrderQueueLog() []OrderQueueRow { return d.orderQueueLog }

// ItemQueueLog returns the recorded item ranking rows across all orders
func (d *DayTracker) ItemQueueLog() []ItemQueueRow { return d.itemQueueLog }

// OrderQueueMeta returns the ranker metadata of the order queue
func (d *DayTracker) OrderQueueMeta() QueueMeta { return d.orderQueueMeta }

// ItemQueueMeta returns the ranker metadata of the item rankings
func (d *DayTracker) ItemQueueMeta() QueueMeta { return d.itemQueueMeta }

// AssignmentRows returns the flat item placement rows
func (d *DayTracker) AssignmentRows() []AssignmentRow { return d.assignmentRows }

// TruckIDs returns opened truck ids in ascending order
func (d *DayTracker) TruckIDs() []string {
	ids := make([]string, 0, len(d.trucks))
	for id := range d.trucks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OrderIDs returns seen order ids (assigned and failed) in ascending order
func (d *DayTracker) OrderIDs() []string {
	ids := make([]string, 0, len(d.orders))
	for id := range d.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
