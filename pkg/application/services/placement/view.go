package placement

import (
	"fmt"
	"sort"
	"time"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/selection"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// OrderDemand is the capacity demand view the placers consume
type OrderDemand struct {
	OrderID string
	Q       float64 // geometric volume m3
	QCold   float64 // cold portion m3
	W       float64 // weight kg
	VEff    float64 // effective volume m3
	Alpha   float64 // cold fraction
	VIP     bool
	DueAt   time.Time
}

// StateView is the read side the placers depend on. PlannerState is the
// concrete implementation; tests substitute fixtures.
type StateView interface {
	Demand(orderID string) (OrderDemand, error)
	Truck(truckID string) (*entities.Truck, bool)
	OpenTrucks(t entities.TruckType) []*entities.Truck
	AvailableTrucks(t entities.TruckType) []*entities.Truck
	RankedItems(orderID string) []selection.ItemRank
}

// PlannerState is the mutable Phase-2 state: the depot's trucks, the order
// demand view, the set of opened trucks, and the per-order loading sequences
// produced by Phase 1. All truck enumerations are in ascending id order.
type PlannerState struct {
	depot       *entities.Depot
	orders      map[string]*entities.CustomerOrder
	customers   map[string]*entities.Customer
	rankedItems map[string][]selection.ItemRank
	open        map[string]bool
}

// NewPlannerState builds the Phase-2 state over a depot and instance
func NewPlannerState(
	depot *entities.Depot,
	orders map[string]*entities.CustomerOrder,
	customers map[string]*entities.Customer,
	rankedItems map[string][]selection.ItemRank,
) *PlannerState {
	return &PlannerState{
		depot:       depot,
		orders:      orders,
		customers:   customers,
		rankedItems: rankedItems,
		open:        make(map[string]bool),
	}
}

// Demand returns the placement demand view of one order
func (s *PlannerState) Demand(orderID string) (OrderDemand, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return OrderDemand{}, fmt.Errorf("order %q not in planner state", orderID)
	}
	vip := false
	if c, ok := s.customers[o.CustomerID]; ok {
		vip = c.VIP
	}
	return OrderDemand{
		OrderID: orderID,
		Q:       o.TotalVolumeM3,
		QCold:   o.ColdVolumeM3,
		W:       o.WeightKg,
		VEff:    o.EffectiveVolumeM3,
		Alpha:   o.ColdFraction,
		VIP:     vip,
		DueAt:   o.DueAt,
	}, nil
}

// Truck returns a depot truck by id
func (s *PlannerState) Truck(truckID string) (*entities.Truck, bool) {
	return s.depot.Truck(truckID)
}

// MarkOpen records that a truck received its first assignment
func (s *PlannerState) MarkOpen(truckID string) { s.open[truckID] = true }

// IsOpen reports whether a truck has been opened this day
func (s *PlannerState) IsOpen(truckID string) bool { return s.open[truckID] }

// OpenTrucks returns the opened, not-yet-departed trucks of the given type
// in ascending id order.
func (s *PlannerState) OpenTrucks(t entities.TruckType) []*entities.Truck {
	return s.trucksWhere(t, func(id string, tr *entities.Truck) bool {
		return s.open[id] && !tr.Departed
	})
}

// AvailableTrucks returns the available-but-not-open trucks of the given
// type in ascending id order. These are the open-new-truck candidates.
func (s *PlannerState) AvailableTrucks(t entities.TruckType) []*entities.Truck {
	return s.trucksWhere(t, func(id string, tr *entities.Truck) bool {
		return !s.open[id]
	})
}

func (s *PlannerState) trucksWhere(t entities.TruckType, keep func(string, *entities.Truck) bool) []*entities.Truck {
	var out []*entities.Truck
	for _, id := range s.depot.TruckIDs() {
		tr, _ := s.depot.Truck(id)
		if tr.Type != t {
			continue
		}
		if keep(id, tr) {
			out = append(out, tr)
		}
	}
	return out
}

// RankedItems returns the Phase-1 loading sequence of an order
func (s *PlannerState) RankedItems(orderID string) []selection.ItemRank {
	return s.rankedItems[orderID]
}

// OpenTruckIDs returns all opened truck ids in ascending order, departed
// included.
func (s *PlannerState) OpenTruckIDs() []string {
	ids := make([]string, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
