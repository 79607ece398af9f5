// Package reports exports the per-run CSV artefacts: selection queues,
// per-truck and fleet KPIs, item placements, and per-order status.
package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/tracking"
)

// Report file names inside the output directory.
const (
	OrderQueueFile   = "order_queue.csv"
	ItemRankingsFile = "item_rankings.csv"
	PerTruckFile     = "per_truck.csv"
	FleetFile        = "fleet.csv"
	AssignmentsFile  = "assignments.csv"
	OrderStatusFile  = "order_status.csv"
)

// WriteAll writes every report into dir and returns a label to path map
func WriteAll(dir string, tracker *tracking.DayTracker, summary tracking.DaySummary) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", dir, err)
	}
	out := map[string]string{}
	writers := []struct {
		label string
		file  string
		write func(path string) error
	}{
		{"order_queue", OrderQueueFile, func(p string) error { return WriteOrderQueue(p, tracker.OrderQueueLog()) }},
		{"item_rankings", ItemRankingsFile, func(p string) error { return WriteItemRankings(p, tracker.ItemQueueLog()) }},
		{"per_truck", PerTruckFile, func(p string) error { return WritePerTruck(p, summary.PerTruck) }},
		{"fleet", FleetFile, func(p string) error { return WriteFleet(p, summary.Fleet) }},
		{"assignments", AssignmentsFile, func(p string) error { return WriteAssignments(p, tracker.AssignmentRows()) }},
		{"order_status", OrderStatusFile, func(p string) error { return WriteOrderStatus(p, tracker) }},
	}
	for _, w := range writers {
		path := filepath.Join(dir, w.file)
		if err := w.write(path); err != nil {
			return out, err
		}
		out[w.label] = path
	}
	return out, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func ffloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
func fbool(v bool) string     { return strconv.FormatBool(v) }
func fint(v int) string       { return strconv.Itoa(v) }

// WriteOrderQueue writes the Phase-1 order queue audit log
func WriteOrderQueue(path string, rows []tracking.OrderQueueRow) error {
	header := []string{"run_id", "rank", "order_id", "vip", "due", "alpha", "v_eff", "weight", "sort_key"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.RunID, fint(r.Rank), r.OrderID, fbool(r.VIP), r.Due,
			ffloat(r.Alpha), ffloat(r.VEff), ffloat(r.Weight), r.SortKey,
		}
	}
	return writeCSV(path, header, out)
}

// WriteItemRankings writes the per-order item ranking audit log
func WriteItemRankings(path string, rows []tracking.ItemQueueRow) error {
	header := []string{"order_id", "rank", "item_id", "qty", "cold01", "w_ij", "v_ij_eff", "liquid01", "stack_limit", "fragile_score", "upright01", "sort_key"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.OrderID, fint(r.Rank), r.ItemID, fint(r.Qty),
			ffloat(r.Cold01), ffloat(r.WIJ), ffloat(r.VIJEff), ffloat(r.Liquid01),
			ffloat(r.StackLimit), ffloat(r.FragileScore), ffloat(r.Upright01), r.SortKey,
		}
	}
	return writeCSV(path, header, out)
}

// WritePerTruck writes one KPI row per opened truck
func WritePerTruck(path string, trucks []tracking.TruckKPIs) error {
	header := []string{
		"truck_id", "is_reefer", "Q", "Q_cold", "W",
		"used_v_eff", "used_q", "used_q_cold", "used_w", "used_cooler_m3",
		"U_vol", "U_w", "U_cold", "U_bn",
		"under_min", "cap_violation", "fixed_cost", "departed", "departure_time",
	}
	out := make([][]string, len(trucks))
	for i, t := range trucks {
		out[i] = []string{
			t.TruckID, fbool(t.IsReefer), ffloat(t.Q), ffloat(t.QCold), ffloat(t.W),
			ffloat(t.UsedVEff), ffloat(t.UsedQ), ffloat(t.UsedQCold), ffloat(t.UsedW), ffloat(t.UsedCoolerM3),
			ffloat(t.UVol), ffloat(t.UW), ffloat(t.UCold), ffloat(t.UBn),
			fint(t.UnderMin), fint(t.CapViolation), t.FixedCost.String(), fbool(t.Departed), t.DepartureTime,
		}
	}
	return writeCSV(path, header, out)
}

// WriteFleet writes the single day-level KPI row
func WriteFleet(path string, fleet tracking.FleetKPIs) error {
	header := []string{
		"n_trucks", "c_total", "c_per_vol", "c_per_w", "e_pack", "cv_u_vol",
		"miss_vip", "miss_due", "avg_delay", "vip_ontime",
		"cold_on_dry", "under_min", "cap_viols", "splits",
		"sum_q", "sum_v_eff", "sum_w",
	}
	row := []string{
		fint(fleet.NTrucksUsed), fleet.CTotal.String(), ffloat(fleet.CPerVol), ffloat(fleet.CPerW),
		ffloat(fleet.EPack), ffloat(fleet.CVUVol),
		fint(fleet.MissVIP), fint(fleet.MissDue), ffloat(fleet.AvgDelay), ffloat(fleet.VIPOnTime),
		fint(fleet.ColdOnDryCount), fint(fleet.UnderMinCount), fint(fleet.CapViolations), fint(fleet.SplitsCount),
		ffloat(fleet.SumQ), ffloat(fleet.SumVEff), ffloat(fleet.SumW),
	}
	return writeCSV(path, header, [][]string{row})
}

// WriteAssignments writes the flat item placement rows
func WriteAssignments(path string, rows []tracking.AssignmentRow) error {
	header := []string{"time", "order_id", "truck_id", "item_id", "qty", "zone", "lane", "layer", "pos"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Time, r.OrderID, r.TruckID, r.ItemID, fint(r.Qty),
			r.Zone, r.Lane, fint(r.Layer), fint(r.Pos),
		}
	}
	return writeCSV(path, header, out)
}

// WriteOrderStatus writes the per-order outcome ledger, failed orders
// included. due_met and delay_min stay empty when never evaluated.
func WriteOrderStatus(path string, tracker *tracking.DayTracker) error {
	header := []string{"order_id", "placed", "assigned_truck_count", "reason", "is_vip", "due_met", "delay_min"}
	ids := tracker.OrderIDs()
	out := make([][]string, 0, len(ids))
	for _, id := range ids {
		rec, ok := tracker.Order(id)
		if !ok {
			continue
		}
		dueMet := ""
		if rec.DueMet != nil {
			dueMet = fbool(*rec.DueMet)
		}
		delay := ""
		if rec.DelayMin != nil {
			delay = ffloat(*rec.DelayMin)
		}
		out = append(out, []string{
			id, fbool(rec.Placed), fint(rec.AssignedTruckCount), rec.Reason,
			fbool(rec.IsVIP), dueMet, delay,
		})
	}
	return writeCSV(path, header, out)
}
