package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

func day() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func rankerState(t *testing.T) *State {
	t.Helper()
	orders := map[string]*entities.CustomerOrder{
		"O1": {OrderID: "O1", CustomerID: "C1", DueTimeStr: "12:00", ColdFraction: 0.5, EffectiveVolumeM3: 2, WeightKg: 100},
		"O2": {OrderID: "O2", CustomerID: "C2", DueTimeStr: "10:00", ColdFraction: 0.9, EffectiveVolumeM3: 5, WeightKg: 300},
		"O3": {OrderID: "O3", CustomerID: "C3", DueTimeStr: "12:00", ColdFraction: 0.2, EffectiveVolumeM3: 3, WeightKg: 200},
	}
	customers := map[string]*entities.Customer{
		"C1": {CustomerID: "C1", VIP: true},
		"C2": {CustomerID: "C2", VIP: false},
		"C3": {CustomerID: "C3", VIP: true},
	}
	state, err := NewState(orders, customers, nil, day())
	require.NoError(t, err)
	return state
}

func queueIDs(rows []OrderRankRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.OrderID
	}
	return ids
}

func TestOrderRankerDefaultScheme(t *testing.T) {
	ranker, err := NewOrderRanker([]string{"vip", "due", "alpha", "v_eff", "weight", "order_id"})
	require.NoError(t, err)

	rows, err := ranker.Rank(rankerState(t))
	require.NoError(t, err)

	// VIPs first; equal due 12:00, so the higher alpha wins among them.
	assert.Equal(t, []string{"O1", "O3", "O2"}, queueIDs(rows))
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "12:00", rows[0].Due)
	assert.NotEmpty(t, rows[0].SortKey)
}

func TestOrderRankerDueAscending(t *testing.T) {
	ranker, err := NewOrderRanker([]string{"due", "order_id"})
	require.NoError(t, err)

	rows, err := ranker.Rank(rankerState(t))
	require.NoError(t, err)

	// Earliest due first; the id tie-break settles the 12:00 pair.
	assert.Equal(t, []string{"O2", "O1", "O3"}, queueIDs(rows))
}

func TestOrderRankerWeightDescending(t *testing.T) {
	ranker, err := NewOrderRanker([]string{"weight", "order_id"})
	require.NoError(t, err)

	rows, err := ranker.Rank(rankerState(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"O2", "O3", "O1"}, queueIDs(rows))
}

func TestOrderRankerDeterminism(t *testing.T) {
	ranker, err := NewOrderRanker([]string{"vip", "due", "alpha", "v_eff", "weight", "order_id"})
	require.NoError(t, err)

	first, err := ranker.Rank(rankerState(t))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ranker.Rank(rankerState(t))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestOrderSchemeValidation(t *testing.T) {
	_, err := NewOrderRanker([]string{"vip", "priority"})
	var vErr *entities.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "order_scheme", vErr.Field)

	_, err = NewOrderRanker([]string{"vip", "vip"})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "duplicate")
}

func TestStateRemove(t *testing.T) {
	state := rankerState(t)
	state.Remove("O2")
	assert.Equal(t, []string{"O1", "O3"}, state.RemainingOrders())

	// Removing an absent id is a no-op.
	state.Remove("O9")
	assert.Equal(t, []string{"O1", "O3"}, state.RemainingOrders())
}
