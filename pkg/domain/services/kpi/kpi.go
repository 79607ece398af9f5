// Package kpi holds the pure utilisation, cost, and service formulas for a
// planning day. Everything here is stateless; the day tracker feeds it.
package kpi

import (
	"math"

	"github.com/shopspring/decimal"
)

// EPS guards denominators and strict comparisons in the KPI formulas.
const EPS = 1e-12

// UVol returns the volume utilisation used_v_eff / Q, clamped to [0,1]
// (0 when Q <= 0).
func UVol(usedVEff, q float64) float64 {
	if q <= EPS {
		return 0
	}
	return clamp01(usedVEff / q)
}

// UW returns the weight utilisation used_w / W (0 when W <= 0)
func UW(usedW, w float64) float64 {
	if w <= EPS {
		return 0
	}
	u := usedW / w
	if u < 0 {
		return 0
	}
	return u
}

// UCold returns the cold-compartment utilisation, clamped to [0,1]
// (0 on Dry trucks, whose Q_cold is 0).
func UCold(usedQCold, qCold float64) float64 {
	if qCold <= EPS {
		return 0
	}
	return clamp01(usedQCold / qCold)
}

// UBn returns the bottleneck utilisation min(U_vol, U_w)
func UBn(uVol, uW float64) float64 {
	return math.Min(uVol, uW)
}

// UnderMinFlag returns 1 when a deployed truck sits below its minimum
// utilisation threshold.
func UnderMinFlag(uVol, tauMin float64) int {
	if uVol+EPS < tauMin {
		return 1
	}
	return 0
}

// CapViolationFlag returns 1 when any capacity limit is strictly exceeded
func CapViolationFlag(usedVEff, q, usedW, w, usedQCold, qCold float64) int {
	vBad := q > EPS && usedVEff-q > EPS
	wBad := w > EPS && usedW-w > EPS
	cBad := qCold > EPS && usedQCold-qCold > EPS
	if vBad || wBad || cBad {
		return 1
	}
	return 0
}

// EPack returns the packing efficiency sum(q) / sum(v_eff)
func EPack(sumQ, sumVEff float64) float64 {
	if sumVEff <= EPS {
		return 0
	}
	e := sumQ / sumVEff
	if e < 0 {
		return 0
	}
	return e
}

// CTotal sums the fixed deployment costs of the opened trucks
func CTotal(fixedCosts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range fixedCosts {
		total = total.Add(c)
	}
	return total
}

// CPerVol returns cost per loaded geometric volume (0 when sum(q) is ~0)
func CPerVol(cTotal decimal.Decimal, sumQ float64) float64 {
	if sumQ <= EPS {
		return 0
	}
	return cTotal.InexactFloat64() / sumQ
}

// CPerW returns cost per loaded weight (0 when sum(w) is ~0)
func CPerW(cTotal decimal.Decimal, sumW float64) float64 {
	if sumW <= EPS {
		return 0
	}
	return cTotal.InexactFloat64() / sumW
}

// CV returns the coefficient of variation (population stddev over mean) of
// the values; 0 for an empty list or a ~0 mean.
func CV(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if mean <= EPS {
		return 0
	}
	var varSum float64
	for _, v := range values {
		d := v - mean
		varSum += d * d
	}
	return math.Sqrt(varSum/float64(n)) / mean
}

// AvgDelay returns the mean of the recorded delays in minutes (0 if none)
func AvgDelay(delaysMin []float64) float64 {
	if len(delaysMin) == 0 {
		return 0
	}
	var sum float64
	for _, d := range delaysMin {
		sum += d
	}
	return sum / float64(len(delaysMin))
}

// VIPOnTime returns 1 - missed/total over VIP orders; 1.0 when there are no
// VIP orders, by convention.
func VIPOnTime(nVIPTotal, nVIPMissed int) float64 {
	if nVIPTotal <= 0 {
		return 1.0
	}
	onTime := nVIPTotal - nVIPMissed
	if onTime < 0 {
		onTime = 0
	}
	return float64(onTime) / float64(nVIPTotal)
}

// UnderMinCount counts deployed trucks below their minimum utilisation
func UnderMinCount(uVols, tauMins []float64) int {
	n := 0
	for i := range uVols {
		n += UnderMinFlag(uVols[i], tauMins[i])
	}
	return n
}

// SplitsCount counts orders whose assigned-truck count differs from 1
func SplitsCount(assignedTruckCounts map[string]int) int {
	n := 0
	for _, cnt := range assignedTruckCounts {
		if cnt != 1 {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
