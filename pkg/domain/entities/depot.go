package entities

import "sort"

// Depot represents the central facility for a delivery day. It exclusively
// owns its trucks for the day; planners mutate them only through the placer
// orchestrator.
type Depot struct {
	DepotID         string
	Location        string
	AvailableTrucks map[string]*Truck
}

// TruckIDs returns the available truck ids in ascending order. Deterministic
// traversal matters: open-new-truck tie-breaks depend on it.
func (d *Depot) TruckIDs() []string {
	ids := make([]string, 0, len(d.AvailableTrucks))
	for id := range d.AvailableTrucks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Truck looks up an available truck by id
func (d *Depot) Truck(truckID string) (*Truck, bool) {
	t, ok := d.AvailableTrucks[truckID]
	return t, ok
}

// Clone returns a deep copy with cloned trucks, for per-day isolation
func (d *Depot) Clone() *Depot {
	trucks := make(map[string]*Truck, len(d.AvailableTrucks))
	for id, t := range d.AvailableTrucks {
		trucks[id] = t.Clone()
	}
	return &Depot{DepotID: d.DepotID, Location: d.Location, AvailableTrucks: trucks}
}
