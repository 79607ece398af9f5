package selection

import (
	"fmt"
	"sort"
	"time"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// OrderFeatures is the read-only feature view the order ranker consumes
type OrderFeatures struct {
	VIP    bool
	DueAt  time.Time
	Alpha  float64 // cold fraction
	VEff   float64 // effective volume m3
	Weight float64 // kg
}

// ItemLine pairs a catalogue item with the ordered quantity
type ItemLine struct {
	Item *entities.Item
	Qty  int
}

// State is the read-only projection Phase-1 rankers work against. It binds
// due times once at construction and keeps the remaining-order set in
// ascending id order for deterministic iteration.
type State struct {
	orders    map[string]*entities.CustomerOrder
	customers map[string]*entities.Customer
	items     map[string]*entities.Item
	remaining []string
}

// NewState builds a selection state over the instance and binds every
// order's "HH:MM" due time to dayStart's date.
func NewState(
	orders map[string]*entities.CustomerOrder,
	customers map[string]*entities.Customer,
	items map[string]*entities.Item,
	dayStart time.Time,
) (*State, error) {
	remaining := make([]string, 0, len(orders))
	for id, o := range orders {
		if o.DueAt.IsZero() {
			if err := o.BindDueTime(dayStart); err != nil {
				return nil, err
			}
		}
		remaining = append(remaining, id)
	}
	sort.Strings(remaining)
	return &State{orders: orders, customers: customers, items: items, remaining: remaining}, nil
}

// RemainingOrders returns a copy of the pending order ids, ascending
func (s *State) RemainingOrders() []string {
	return append([]string(nil), s.remaining...)
}

// Remove drops an order from the remaining set
func (s *State) Remove(orderID string) {
	for i, id := range s.remaining {
		if id == orderID {
			s.remaining = append(s.remaining[:i], s.remaining[i+1:]...)
			return
		}
	}
}

// OrderFeatures returns the ranking features for one order. A missing
// customer record degrades to VIP=false rather than failing the day.
func (s *State) OrderFeatures(orderID string) (OrderFeatures, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return OrderFeatures{}, fmt.Errorf("order %q not in selection state", orderID)
	}
	vip := false
	if c, ok := s.customers[o.CustomerID]; ok {
		vip = c.VIP
	}
	return OrderFeatures{
		VIP:    vip,
		DueAt:  o.DueAt,
		Alpha:  o.ColdFraction,
		VEff:   o.EffectiveVolumeM3,
		Weight: o.WeightKg,
	}, nil
}

// ItemLines returns the (item, qty) pairs of an order in ascending item-id
// order.
func (s *State) ItemLines(orderID string) ([]ItemLine, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %q not in selection state", orderID)
	}
	ids := make([]string, 0, len(o.ItemList))
	for id := range o.ItemList {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]ItemLine, 0, len(ids))
	for _, id := range ids {
		item, ok := s.items[id]
		if !ok {
			return nil, fmt.Errorf("order %q references unknown item %q", orderID, id)
		}
		lines = append(lines, ItemLine{Item: item, Qty: o.ItemList[id]})
	}
	return lines, nil
}
