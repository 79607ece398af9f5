package entities

import (
	"fmt"
	"time"
)

const epsDenominator = 1e-12

// CustomerOrder represents a daily order placed by one customer.
//
// Aggregates, computed once from the catalogue and invariant for the day:
//
//	q_i     total geometric volume (m3)
//	q_cold  cold portion of q_i (m3)
//	w_i     total weight (kg)
//	v_eff   effective (padded) volume (m3)
//	alpha   cold fraction q_cold / q_i, in [0,1]
type CustomerOrder struct {
	OrderID    string
	CustomerID string

	// ItemList maps item id to an integer quantity (each >= 1).
	ItemList   map[string]int
	DueTimeStr string // "HH:MM", 24h

	// Computed aggregates.
	TotalVolumeM3     float64 // q_i
	ColdVolumeM3      float64 // q_cold
	WeightKg          float64 // w_i
	EffectiveVolumeM3 float64 // v_eff
	ColdFraction      float64 // alpha

	// DueAt is DueTimeStr bound to the planning day's date.
	DueAt time.Time
}

// NewCustomerOrder creates an order and computes its aggregates from the
// catalogue. The zero due time convention of the original data ("23:59" when
// absent) is the loader's concern, not this constructor's.
func NewCustomerOrder(orderID, customerID string, itemList map[string]int, dueTimeStr string, catalog map[string]*Item) (*CustomerOrder, error) {
	o := &CustomerOrder{
		OrderID:    orderID,
		CustomerID: customerID,
		ItemList:   itemList,
		DueTimeStr: dueTimeStr,
	}
	if err := o.ComputeFromItems(catalog); err != nil {
		return nil, err
	}
	return o, nil
}

// ComputeFromItems computes (q_i, q_cold, w_i, v_eff, alpha) from ItemList
// and the item catalogue. Fails fast on unknown items and non-positive
// quantities.
func (o *CustomerOrder) ComputeFromItems(catalog map[string]*Item) error {
	if o.OrderID == "" {
		return NewValidationError("orders[].order_id", "must not be empty")
	}
	if len(o.ItemList) == 0 {
		return NewValidationError(fmt.Sprintf("orders[%s].item_list", o.OrderID), "must contain at least one line")
	}

	var q, qCold, w, vEff float64
	for itemID, qty := range o.ItemList {
		if qty < 1 {
			return NewValidationError(
				fmt.Sprintf("orders[%s].item_list[%s]", o.OrderID, itemID),
				"quantity must be >= 1, got %d", qty)
		}
		item, ok := catalog[itemID]
		if !ok {
			return NewValidationError(
				fmt.Sprintf("orders[%s].item_list[%s]", o.OrderID, itemID),
				"item not found in catalogue")
		}

		line := float64(qty)
		q += line * item.UnitVolumeM3
		w += line * item.UnitWeightKg
		vEff += line * item.EffectiveUnitVolume()
		if item.CategoryCold {
			qCold += line * item.UnitVolumeM3
		}
	}

	o.TotalVolumeM3 = q
	o.ColdVolumeM3 = qCold
	o.WeightKg = w
	o.EffectiveVolumeM3 = vEff
	if q > epsDenominator {
		o.ColdFraction = qCold / q
	} else {
		o.ColdFraction = 0
	}
	if o.ColdFraction < 0 || o.ColdFraction > 1 {
		return fmt.Errorf("order %s: computed cold fraction %.4f out of [0,1]", o.OrderID, o.ColdFraction)
	}
	return nil
}

// ClampColdFraction caps alpha at alphaMax. The clamped alpha is
// authoritative: q_cold is recomputed as alphaMax * q_i so that
// alpha = q_cold / q_i keeps holding after the clamp.
func (o *CustomerOrder) ClampColdFraction(alphaMax float64) {
	if alphaMax <= 0 || o.ColdFraction <= alphaMax {
		return
	}
	o.ColdFraction = alphaMax
	o.ColdVolumeM3 = alphaMax * o.TotalVolumeM3
}

// BindDueTime binds the "HH:MM" due time to the date of dayStart
func (o *CustomerOrder) BindDueTime(dayStart time.Time) error {
	hm, err := ParseHHMM(o.DueTimeStr)
	if err != nil {
		return NewValidationError(
			fmt.Sprintf("orders[%s].due_time_str", o.OrderID),
			"must be 'HH:MM' (24h), got %q", o.DueTimeStr)
	}
	o.DueAt = time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), hm.Hour(), hm.Minute(), 0, 0, dayStart.Location())
	return nil
}

// ParseHHMM parses a 24h "HH:MM" clock string
func ParseHHMM(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}

// IsCold reports whether the order carries any cold volume
func (o *CustomerOrder) IsCold() bool {
	return o.ColdVolumeM3 > 0
}
