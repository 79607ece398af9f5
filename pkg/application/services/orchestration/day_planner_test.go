package orchestration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/placement"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

func planningDay() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func instanceFixture(t *testing.T) Request {
	t.Helper()
	items := map[string]*entities.Item{
		"MILK":  {ItemID: "MILK", CategoryCold: true, UnitWeightKg: 1.05, UnitVolumeM3: 0.0021, PaddingFactor: 0.05},
		"WATER": {ItemID: "WATER", UnitWeightKg: 9.0, UnitVolumeM3: 0.012, IsLiquid: true},
	}
	customers := map[string]*entities.Customer{
		"C1": {CustomerID: "C1", VIP: true},
		"C2": {CustomerID: "C2"},
	}

	orders := map[string]*entities.CustomerOrder{}
	for _, spec := range []struct {
		id, customer, due string
		lines             map[string]int
	}{
		{"O1", "C1", "12:00", map[string]int{"MILK": 100}},
		{"O2", "C2", "10:00", map[string]int{"WATER": 3}},
		{"O3", "C2", "09:00", map[string]int{"WATER": 10000}}, // fits no truck
	} {
		o, err := entities.NewCustomerOrder(spec.id, spec.customer, spec.lines, spec.due, items)
		require.NoError(t, err)
		orders[spec.id] = o
	}

	depot := &entities.Depot{
		DepotID: "DEP1",
		AvailableTrucks: map[string]*entities.Truck{
			"R1": {
				TruckID: "R1", Type: entities.Reefer,
				TotalCapacityM3: 24, ColdCapacityM3: 12, WeightLimitKg: 9500,
				FixedCost: decimal.NewFromInt(500), MinUtilization: 0.6, ReserveFraction: 0.06,
			},
			"D1": {
				TruckID: "D1", Type: entities.Dry,
				TotalCapacityM3: 30, WeightLimitKg: 10000,
				FixedCost: decimal.NewFromInt(400), MinUtilization: 0.75, ReserveFraction: 0.05,
			},
		},
	}

	return Request{Items: items, Customers: customers, Orders: orders, Depot: depot, Day: planningDay()}
}

func TestPlanFullPipeline(t *testing.T) {
	planner := NewDayPlanner(nil)
	opts := DefaultOptions()
	opts.RunID = "run-1"

	res, err := planner.Plan(context.Background(), instanceFixture(t), opts)
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)

	// VIP first, then the remaining orders by due time.
	require.Len(t, res.Queue, 3)
	assert.Equal(t, "O1", res.Queue[0].OrderID)
	assert.Equal(t, "O3", res.Queue[1].OrderID)
	assert.Equal(t, "O2", res.Queue[2].OrderID)

	// O1 is all cold and lands on the reefer, O2 on the dry truck, the
	// oversized O3 fails without stopping the day.
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, "O1", res.Assignments[0].OrderID)
	assert.Equal(t, "R1", res.Assignments[0].TruckID)
	assert.Equal(t, placement.BucketA, res.Assignments[0].Bucket)
	assert.Equal(t, "O2", res.Assignments[1].OrderID)
	assert.Equal(t, "D1", res.Assignments[1].TruckID)

	assert.Equal(t, 2, res.Summary.Fleet.NTrucksUsed)
	assert.True(t, res.Summary.Fleet.CTotal.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 0, res.Summary.Fleet.MissVIP)

	rec, ok := res.Tracker.Order("O3")
	require.True(t, ok)
	assert.False(t, rec.Placed)

	// No departure sweep under the default strategy.
	assert.Empty(t, res.Departed)
}

func TestPlanDeterministic(t *testing.T) {
	planner := NewDayPlanner(nil)
	opts := DefaultOptions()
	opts.RunID = "run-1"

	base := instanceFixture(t)
	first, err := planner.Plan(context.Background(), CloneRequest(base), opts)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := planner.Plan(context.Background(), CloneRequest(base), opts)
		require.NoError(t, err)
		assert.Equal(t, first.Queue, again.Queue)
		require.Len(t, again.Assignments, len(first.Assignments))
		for j := range first.Assignments {
			assert.Equal(t, first.Assignments[j].TruckID, again.Assignments[j].TruckID)
			assert.Equal(t, first.Assignments[j].Step, again.Assignments[j].Step)
		}
		assert.Equal(t, first.Summary.Fleet.NTrucksUsed, again.Summary.Fleet.NTrucksUsed)
		assert.Equal(t, first.Summary.Fleet.SumVEff, again.Summary.Fleet.SumVEff)
	}
}

func TestCloneRequestIsolation(t *testing.T) {
	base := instanceFixture(t)
	clone := CloneRequest(base)

	planner := NewDayPlanner(nil)
	_, err := planner.Plan(context.Background(), clone, DefaultOptions())
	require.NoError(t, err)

	// Planning the clone leaves the base depot untouched.
	r1, _ := base.Depot.Truck("R1")
	assert.Zero(t, r1.UsedVolumeM3)
	assert.Empty(t, r1.AssignedOrders)

	// And the base orders keep their unbound due times.
	assert.True(t, base.Orders["O1"].DueAt.IsZero())
}

func TestCloneRequestResetsTruckLedgers(t *testing.T) {
	base := instanceFixture(t)
	r1, _ := base.Depot.Truck("R1")
	r1.UsedVolumeM3 = 5
	r1.UsedQ = 4.5
	r1.AssignedOrders = []string{"OX"}
	r1.Departed = true
	r1.DepartureTime = "16:00"

	// Clones start a fresh day even when the source request already ran one.
	clone := CloneRequest(base)
	c1, _ := clone.Depot.Truck("R1")
	assert.Zero(t, c1.UsedVolumeM3)
	assert.Zero(t, c1.UsedQ)
	assert.Empty(t, c1.AssignedOrders)
	assert.False(t, c1.Departed)
	assert.Empty(t, c1.DepartureTime)

	// The source ledger stays as it was.
	assert.Equal(t, 5.0, r1.UsedVolumeM3)
	assert.True(t, r1.Departed)
}

func TestPlanMaxColdFractionClamp(t *testing.T) {
	planner := NewDayPlanner(nil)
	opts := DefaultOptions()
	opts.MaxColdFraction = 0.3

	req := instanceFixture(t)
	_, err := planner.Plan(context.Background(), req, opts)
	require.NoError(t, err)

	o1 := req.Orders["O1"]
	assert.InDelta(t, 0.3, o1.ColdFraction, 1e-9)
	assert.InDelta(t, 0.3*o1.TotalVolumeM3, o1.ColdVolumeM3, 1e-9)
}

func TestPlanBatch(t *testing.T) {
	planner := NewDayPlanner(nil)
	base := instanceFixture(t)

	reqs := []Request{CloneRequest(base), CloneRequest(base)}
	reqs[1].Day = planningDay().AddDate(0, 0, 1)

	results, err := planner.PlanBatch(context.Background(), reqs, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Results come back in request order with distinct run ids.
	assert.Equal(t, planningDay(), results[0].Day)
	assert.Equal(t, planningDay().AddDate(0, 0, 1), results[1].Day)
	assert.NotEqual(t, results[0].RunID, results[1].RunID)

	// Independent days plan identically on identical instances.
	assert.Equal(t, results[0].Summary.Fleet.NTrucksUsed, results[1].Summary.Fleet.NTrucksUsed)
	assert.Equal(t, results[0].Summary.Fleet.SumVEff, results[1].Summary.Fleet.SumVEff)
}

func TestPlanRejectsBadScheme(t *testing.T) {
	planner := NewDayPlanner(nil)
	opts := DefaultOptions()
	opts.OrderScheme = []string{"vip", "priority"}

	_, err := planner.Plan(context.Background(), instanceFixture(t), opts)
	var vErr *entities.ValidationError
	require.ErrorAs(t, err, &vErr)
}
