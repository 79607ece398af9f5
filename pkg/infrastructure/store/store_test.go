package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/tracking"
)

func summaryFixture(t *testing.T) (tracking.DaySummary, []tracking.AssignmentRow) {
	t.Helper()
	d := tracking.NewDayTracker()
	require.NoError(t, d.OpenTruck("R1", tracking.TruckSpec{
		IsReefer: true, Q: 24, QCold: 12, W: 9500,
		FixedCost: decimal.NewFromInt(500), TauMin: 0.6,
	}))
	require.NoError(t, d.OnAssign("O1", "R1", 0.21, 0.21, 105, 0.2205, true, nil, nil, false))
	rows := []tracking.AssignmentRow{
		{Time: "2026-03-02", OrderID: "O1", TruckID: "R1", ItemID: "MILK", Qty: 100, Zone: "cold", Lane: "left", Layer: 1, Pos: 0},
	}
	return d.Summarize(), rows
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	s := openStore(t)
	summary, assignments := summaryFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun("run-1", day, summary, assignments))

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, "2026-03-02", runs[0].Day)
	assert.Equal(t, 1, runs[0].NTrucks)
	assert.Equal(t, "500", runs[0].CTotal)
	assert.Equal(t, 0, runs[0].MissVIP)

	// Truck KPIs and assignment rows landed alongside the run.
	var truckRows, asgRows int
	require.NoError(t, s.sql.QueryRow(`SELECT COUNT(*) FROM truck_kpis WHERE run_id = ?`, "run-1").Scan(&truckRows))
	require.NoError(t, s.sql.QueryRow(`SELECT COUNT(*) FROM assignments WHERE run_id = ?`, "run-1").Scan(&asgRows))
	assert.Equal(t, 1, truckRows)
	assert.Equal(t, 1, asgRows)
}

func TestSaveRunDuplicateID(t *testing.T) {
	s := openStore(t)
	summary, assignments := summaryFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun("run-1", day, summary, assignments))
	assert.Error(t, s.SaveRun("run-1", day, summary, assignments))
}

func TestListRunsLimitAndOrder(t *testing.T) {
	s := openStore(t)
	summary, _ := summaryFixture(t)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if i > 0 {
			time.Sleep(1100 * time.Millisecond) // created_at has second resolution
		}
		day := time.Date(2026, 3, 2+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.SaveRun(id, day, summary, nil))
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].RunID)
	assert.Equal(t, "run-b", runs[1].RunID)
}

func TestOpenReusesExistingDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	summary, _ := summaryFixture(t)
	require.NoError(t, s.SaveRun("run-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), summary, nil))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	runs, err := reopened.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
}
