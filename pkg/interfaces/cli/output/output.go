// Package output renders planning results for the terminal.
package output

import (
	"fmt"
	"io"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/orchestration"
)

// PrintDaySummary writes a compact KPI report for one planned day
func PrintDaySummary(w io.Writer, instanceLabel string, result *orchestration.Result) {
	f := result.Summary.Fleet

	fmt.Fprintf(w, "\n=== Day Plan: %s ===\n", instanceLabel)
	fmt.Fprintf(w, "Run:       %s (%s)\n", result.RunID, result.Day.Format("2006-01-02"))
	fmt.Fprintf(w, "Orders:    %d ranked, %d assigned, %d failed\n",
		len(result.Queue), len(result.Assignments), len(result.Queue)-len(result.Assignments))
	fmt.Fprintf(w, "Trucks:    %d used, %d departed\n", f.NTrucksUsed, len(result.Departed))
	fmt.Fprintf(w, "Cost:      total=%s  per_vol=%.2f  per_w=%.4f\n", f.CTotal.StringFixed(2), f.CPerVol, f.CPerW)
	fmt.Fprintf(w, "Packing:   E_pack=%.3f  CV(U_vol)=%.3f  sum_q=%.3f m3  sum_w=%.1f kg\n",
		f.EPack, f.CVUVol, f.SumQ, f.SumW)
	fmt.Fprintf(w, "Service:   miss_vip=%d  miss_due=%d  vip_ontime=%.2f  avg_delay=%.1f min\n",
		f.MissVIP, f.MissDue, f.VIPOnTime, f.AvgDelay)
	fmt.Fprintf(w, "Flags:     cold_on_dry=%d  under_min=%d  cap_viols=%d  splits=%d\n",
		f.ColdOnDryCount, f.UnderMinCount, f.CapViolations, f.SplitsCount)

	if len(result.Summary.PerTruck) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%-8s %-7s %8s %8s %8s %8s %6s\n", "TRUCK", "TYPE", "U_VOL", "U_W", "U_COLD", "U_BN", "DEP")
	for _, t := range result.Summary.PerTruck {
		truckType := "Dry"
		if t.IsReefer {
			truckType = "Reefer"
		}
		dep := "-"
		if t.Departed {
			dep = t.DepartureTime
			if dep == "" {
				dep = "yes"
			}
		}
		fmt.Fprintf(w, "%-8s %-7s %7.1f%% %7.1f%% %7.1f%% %7.1f%% %6s\n",
			t.TruckID, truckType, t.UVol*100, t.UW*100, t.UCold*100, t.UBn*100, dep)
	}
}
