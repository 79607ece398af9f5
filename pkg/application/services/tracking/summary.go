package tracking

import (
	"github.com/shopspring/decimal"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/services/kpi"
)

// TruckKPIs is the per-truck slice of the day snapshot
type TruckKPIs struct {
	TruckID  string
	IsReefer bool

	Q     float64
	QCold float64
	W     float64

	UsedVEff     float64
	UsedQ        float64
	UsedQCold    float64
	UsedW        float64
	UsedCoolerM3 float64

	UVol  float64
	UW    float64
	UCold float64
	UBn   float64

	UnderMin     int
	CapViolation int

	FixedCost     decimal.Decimal
	Departed      bool
	DepartureTime string
}

// FleetKPIs is the day-level aggregate slice of the snapshot
type FleetKPIs struct {
	NTrucksUsed int

	CTotal  decimal.Decimal
	CPerVol float64
	CPerW   float64

	EPack  float64
	CVUVol float64

	MissVIP   int
	MissDue   int
	AvgDelay  float64
	VIPOnTime float64

	ColdOnDryCount int
	UnderMinCount  int
	CapViolations  int
	SplitsCount    int

	SumQ    float64
	SumVEff float64
	SumW    float64
}

// DaySummary is the full KPI snapshot of one planning day
type DaySummary struct {
	PerTruck []TruckKPIs
	Fleet    FleetKPIs
}

// Summarize computes the KPI snapshot from the current ledgers. Pure read:
// calling it mid-run is safe and later calls only grow the totals. Departed
// trucks report their frozen utilisation snapshot.
func (d *DayTracker) Summarize() DaySummary {
	var s DaySummary
	s.Fleet.NTrucksUsed = len(d.trucks)

	var uVols, tauMins []float64
	var fixedCosts []decimal.Decimal
	for _, id := range d.TruckIDs() {
		t := d.trucks[id]
		fixedCosts = append(fixedCosts, t.Spec.FixedCost)

		var uVol, uw, uCold, uBn float64
		if t.Departed {
			uVol, uw, uCold, uBn = t.UVolAtDeparture, t.UWAtDeparture, t.UColdAtDeparture, t.UBnAtDeparture
		} else {
			uVol = kpi.UVol(t.UsedVEff, t.Spec.Q)
			uw = kpi.UW(t.UsedW, t.Spec.W)
			uCold = kpi.UCold(t.UsedQCold, t.Spec.QCold)
			uBn = kpi.UBn(uVol, uw)
		}

		coldCap := t.Spec.QCold
		if !t.Spec.IsReefer {
			coldCap = t.Spec.CoolerCapacityM3
		}
		capViolation := kpi.CapViolationFlag(t.UsedVEff, t.Spec.Q, t.UsedW, t.Spec.W, t.UsedQCold, coldCap)

		s.PerTruck = append(s.PerTruck, TruckKPIs{
			TruckID:       id,
			IsReefer:      t.Spec.IsReefer,
			Q:             t.Spec.Q,
			QCold:         t.Spec.QCold,
			W:             t.Spec.W,
			UsedVEff:      t.UsedVEff,
			UsedQ:         t.UsedQ,
			UsedQCold:     t.UsedQCold,
			UsedW:         t.UsedW,
			UsedCoolerM3:  t.UsedCoolerM3,
			UVol:          uVol,
			UW:            uw,
			UCold:         uCold,
			UBn:           uBn,
			UnderMin:      kpi.UnderMinFlag(uVol, t.Spec.TauMin),
			CapViolation:  capViolation,
			FixedCost:     t.Spec.FixedCost,
			Departed:      t.Departed,
			DepartureTime: t.DepartureTime,
		})
		uVols = append(uVols, uVol)
		tauMins = append(tauMins, t.Spec.TauMin)
		s.Fleet.CapViolations += capViolation
	}

	s.Fleet.UnderMinCount = kpi.UnderMinCount(uVols, tauMins)
	s.Fleet.CVUVol = kpi.CV(uVols)

	s.Fleet.SumQ = d.sumQ
	s.Fleet.SumVEff = d.sumVEff
	s.Fleet.SumW = d.sumW
	s.Fleet.EPack = kpi.EPack(d.sumQ, d.sumVEff)
	s.Fleet.CTotal = kpi.CTotal(fixedCosts)
	s.Fleet.CPerVol = kpi.CPerVol(s.Fleet.CTotal, d.sumQ)
	s.Fleet.CPerW = kpi.CPerW(s.Fleet.CTotal, d.sumW)
	s.Fleet.ColdOnDryCount = len(d.coldOnDry)

	assignedCounts := make(map[string]int)
	var delays []float64
	nVIP, nVIPMissed := 0, 0
	for _, id := range d.OrderIDs() {
		rec := d.orders[id]
		assignedCounts[id] = rec.AssignedTruckCount
		late := rec.DueMet != nil && !*rec.DueMet
		if late {
			s.Fleet.MissDue++
			if rec.DelayMin != nil {
				delays = append(delays, *rec.DelayMin)
			}
		}
		if rec.IsVIP {
			nVIP++
			if late || !rec.Placed {
				nVIPMissed++
			}
		}
	}
	s.Fleet.MissVIP = nVIPMissed
	s.Fleet.AvgDelay = kpi.AvgDelay(delays)
	s.Fleet.VIPOnTime = kpi.VIPOnTime(nVIP, nVIPMissed)
	s.Fleet.SplitsCount = kpi.SplitsCount(assignedCounts)

	return s
}
