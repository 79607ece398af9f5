package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

func reeferTruck(id string, q, qCold, w float64) *entities.Truck {
	return &entities.Truck{
		TruckID:         id,
		Type:            entities.Reefer,
		TotalCapacityM3: q,
		ColdCapacityM3:  qCold,
		WeightLimitKg:   w,
		MinUtilization:  0.6,
		ReserveFraction: 0.06,
	}
}

func dryTruck(id string, q, w, cooler float64) *entities.Truck {
	return &entities.Truck{
		TruckID:          id,
		Type:             entities.Dry,
		TotalCapacityM3:  q,
		WeightLimitKg:    w,
		MinUtilization:   0.75,
		ReserveFraction:  0.05,
		CoolerCapacityM3: cooler,
	}
}

func newPlacer(policy Policy, trucks ...*entities.Truck) (*Placer, *PlannerState) {
	depot := &entities.Depot{DepotID: "D1", AvailableTrucks: map[string]*entities.Truck{}}
	for _, t := range trucks {
		depot.AvailableTrucks[t.TruckID] = t
	}
	state := NewPlannerState(depot, nil, nil, nil)
	return &Placer{
		State:   state,
		Checker: Checker{Policy: policy},
		Policy:  policy,
		Packer:  ZonePacker{},
	}, state
}

// coldDemand is 100 milk units: 0.21 m3 all cold, 5% padding, 105 kg.
func coldDemand() OrderDemand {
	return OrderDemand{
		OrderID: "O1",
		Q:       0.21,
		QCold:   0.21,
		W:       105,
		VEff:    0.2205,
		Alpha:   1.0,
	}
}

func TestDetermineBucket(t *testing.T) {
	tests := []struct {
		alpha float64
		want  Bucket
	}{
		{0, BucketC},
		{1e-13, BucketC},
		{0.0001, BucketB},
		{0.49, BucketB},
		{0.5, BucketA},
		{1.0, BucketA},
	}
	for _, tt := range tests {
		if got := DetermineBucket(tt.alpha, 0.5); got != tt.want {
			t.Errorf("DetermineBucket(%g, 0.5) = %v, want %v", tt.alpha, got, tt.want)
		}
	}
}

func TestBucketAPrefersTighterColdFit(t *testing.T) {
	// R1 has 0.3 m3 of cold residual left, R2 has 2.5. Under the
	// cold-first scheme the 0.09 cold leftover on R1 beats 2.29 on R2
	// even though R1 has far more free volume.
	r1 := reeferTruck("R1", 24, 12, 9500)
	r1.UsedVolumeM3, r1.UsedColdM3, r1.UsedWeightKg = 2, 11.7, 1000
	r2 := reeferTruck("R2", 28, 14, 10500)
	r2.UsedVolumeM3, r2.UsedColdM3, r2.UsedWeightKg = 23.9, 11.5, 1000

	p, state := newPlacer(DefaultPolicy(), r1, r2)
	state.MarkOpen("R1")
	state.MarkOpen("R2")

	a, reason := p.AssignBucketA(coldDemand())
	require.NotNil(t, a, "unexpected failure: %s", reason)
	assert.Equal(t, "R1", a.TruckID)
	assert.Equal(t, StepOpenReeferBestFit, a.Step)
	assert.False(t, a.OpenedNewTruck)
	assert.InDelta(t, 0.3, a.Rationale.ResidColdM3, 1e-9)
	assert.InDelta(t, 0.21, a.Rationale.DemandColdM3, 1e-9)
}

func TestBucketASchemeOverride(t *testing.T) {
	// Same trucks, volume-first scheme: R2's 2.1995 volume leftover is
	// tighter than R1's 20.3395, so the choice flips.
	r1 := reeferTruck("R1", 24, 12, 9500)
	r1.UsedVolumeM3, r1.UsedColdM3, r1.UsedWeightKg = 2, 11.7, 1000
	r2 := reeferTruck("R2", 28, 14, 10500)
	r2.UsedVolumeM3, r2.UsedColdM3, r2.UsedWeightKg = 23.9, 11.5, 1000

	policy := DefaultPolicy()
	policy.ReeferSchemeA = []ResidualDim{DimVolume, DimCold, DimWeight}
	p, state := newPlacer(policy, r1, r2)
	state.MarkOpen("R1")
	state.MarkOpen("R2")

	a, reason := p.AssignBucketA(coldDemand())
	require.NotNil(t, a, "unexpected failure: %s", reason)
	assert.Equal(t, "R2", a.TruckID)
}

func TestBucketAOpensNewReefer(t *testing.T) {
	p, _ := newPlacer(DefaultPolicy(),
		reeferTruck("TR001", 24, 12, 9500),
		reeferTruck("TR002", 24, 12, 9500),
	)

	a, reason := p.AssignBucketA(coldDemand())
	require.NotNil(t, a, "unexpected failure: %s", reason)
	// First available reefer in id order.
	assert.Equal(t, "TR001", a.TruckID)
	assert.Equal(t, StepNewReefer, a.Step)
	assert.True(t, a.OpenedNewTruck)
}

func TestBucketANewReeferDisallowed(t *testing.T) {
	policy := DefaultPolicy()
	policy.AllowOpenNewReeferA = false
	p, _ := newPlacer(policy, reeferTruck("TR001", 24, 12, 9500))

	a, reason := p.AssignBucketA(coldDemand())
	assert.Nil(t, a)
	assert.Equal(t, ReasonOpenNewReeferDisallowed, reason)
}

func TestBucketAInfeasible(t *testing.T) {
	// The only reefer's cold capacity is below the demand.
	p, _ := newPlacer(DefaultPolicy(), reeferTruck("TR001", 24, 0.1, 9500))

	a, reason := p.AssignBucketA(coldDemand())
	assert.Nil(t, a)
	assert.Equal(t, ReasonInfeasibleBucketA, reason)
}

func TestBucketBColdRidesDryCooler(t *testing.T) {
	// The open reefer is cold-full, the open dry truck has cooler room:
	// with cold-in-dry enabled the flexible order lands on the dry truck
	// and its cold portion books the cooler.
	r1 := reeferTruck("R1", 24, 12, 9500)
	r1.UsedColdM3 = 11.95
	d1 := dryTruck("D1", 30, 10000, 0.4)

	policy := DefaultPolicy()
	policy.AllowColdInDryB = true
	p, state := newPlacer(policy, r1, d1)
	state.MarkOpen("R1")
	state.MarkOpen("D1")

	// 40 milk + 3 water: 0.084 m3 cold of 0.12 m3 total, 69 kg.
	d := OrderDemand{OrderID: "O2", Q: 0.12, QCold: 0.084, W: 69, VEff: 0.1242, Alpha: 0.7}

	a, reason := p.AssignBucketB(d)
	require.NotNil(t, a, "unexpected failure: %s", reason)
	assert.Equal(t, "D1", a.TruckID)
	assert.Equal(t, StepOpenDryBestFit, a.Step)
}

func TestBucketBColdInDryDisabled(t *testing.T) {
	r1 := reeferTruck("R1", 24, 12, 9500)
	r1.UsedColdM3 = 11.95
	d1 := dryTruck("D1", 30, 10000, 0.4)

	p, state := newPlacer(DefaultPolicy(), r1, d1)
	state.MarkOpen("R1")
	state.MarkOpen("D1")

	d := OrderDemand{OrderID: "O2", Q: 0.12, QCold: 0.084, W: 69, VEff: 0.1242, Alpha: 0.7}

	a, reason := p.AssignBucketB(d)
	assert.Nil(t, a)
	assert.Equal(t, ReasonNoOpenReeferFits, reason)
}

func TestBucketCOpensNewDry(t *testing.T) {
	p, _ := newPlacer(DefaultPolicy(), dryTruck("TD001", 30, 10000, 0))

	d := OrderDemand{OrderID: "O3", Q: 0.5, W: 200, VEff: 0.5}
	a, reason := p.AssignBucketC(d)
	require.NotNil(t, a, "unexpected failure: %s", reason)
	assert.Equal(t, "TD001", a.TruckID)
	assert.Equal(t, StepNewDry, a.Step)
	assert.True(t, a.OpenedNewTruck)
}

func TestBucketCNewDryDisallowed(t *testing.T) {
	policy := DefaultPolicy()
	policy.AllowOpenNewDryC = false
	p, _ := newPlacer(policy, dryTruck("TD001", 30, 10000, 0))

	d := OrderDemand{OrderID: "O3", Q: 0.5, W: 200, VEff: 0.5}
	a, reason := p.AssignBucketC(d)
	assert.Nil(t, a)
	assert.Equal(t, ReasonInfeasibleBucketC, reason)
}

func TestBucketCBestFitTieBreaksToLowerID(t *testing.T) {
	// Identical residuals on both open dry trucks: the strict comparison
	// keeps the first candidate, which is the lower id.
	p, state := newPlacer(DefaultPolicy(),
		dryTruck("TD001", 30, 10000, 0),
		dryTruck("TD002", 30, 10000, 0),
	)
	state.MarkOpen("TD001")
	state.MarkOpen("TD002")

	d := OrderDemand{OrderID: "O3", Q: 0.5, W: 200, VEff: 0.5}
	a, reason := p.AssignBucketC(d)
	require.NotNil(t, a, "unexpected failure: %s", reason)
	assert.Equal(t, "TD001", a.TruckID)
}

func TestLeftoverKeyNegativeDisqualifies(t *testing.T) {
	d := OrderDemand{VEff: 1, QCold: 0.5, W: 300}
	// Weight leftover would be negative even though volume fits.
	_, ok := leftoverKey([]ResidualDim{DimVolume, DimWeight}, d, 10, 1, 200)
	assert.False(t, ok)

	key, ok := leftoverKey([]ResidualDim{DimCold, DimVolume, DimWeight}, d, 10, 1, 400)
	require.True(t, ok)
	assert.Equal(t, "(0.5,9,100)", key.String())
}
