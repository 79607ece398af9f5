package placement

import (
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/selection"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// Loading zones and lanes.
const (
	ZoneCold    = "cold"
	ZoneAmbient = "ambient"
	ZoneHaz     = "haz"

	LaneLeft  = "left"
	LaneRight = "right"
)

// Slot is one position inside a truck
type Slot struct {
	Zone  string
	Lane  string
	Layer int // >= 1, 1 is the floor
	Pos   int // index of the line in the ranked sequence
}

// Placement assigns one ranked item line to a slot
type Placement struct {
	ItemID string
	Qty    int
	Slot   Slot
}

// LoadingPlan is the packed layout of one order on one truck
type LoadingPlan struct {
	OrderID    string
	TruckID    string
	Placements []Placement
}

// PackingPolicy turns a pre-ranked item sequence into a LoadingPlan, or
// refuses. Must be deterministic given its inputs.
type PackingPolicy interface {
	Pack(orderID, truckID string, ranked []selection.ItemRank) (*LoadingPlan, bool)
}

// ZonePacker is the reference packing policy. Zone from the item (haz, then
// cold, then ambient), lane by per-zone weight balance with ties to the
// left, fragile and upright-only lines stacked onto a growing top layer.
type ZonePacker struct{}

type laneLoads struct {
	left  float64
	right float64
}

// Pack implements PackingPolicy. It never refuses: the ranked sequence was
// already found feasible, so every line gets a slot.
func (ZonePacker) Pack(orderID, truckID string, ranked []selection.ItemRank) (*LoadingPlan, bool) {
	plan := &LoadingPlan{
		OrderID:    orderID,
		TruckID:    truckID,
		Placements: make([]Placement, 0, len(ranked)),
	}

	lanes := map[string]*laneLoads{}
	topLayer := map[string]int{}

	for i, line := range ranked {
		zone := ZoneAmbient
		switch {
		case line.Features.SepTag == entities.TagHazardous:
			zone = ZoneHaz
		case line.Features.LineColdM3 > 0:
			zone = ZoneCold
		}

		load, ok := lanes[zone]
		if !ok {
			load = &laneLoads{}
			lanes[zone] = load
		}
		lane := LaneLeft
		if load.right < load.left {
			lane = LaneRight
			load.right += line.Features.LineWeightKg
		} else {
			load.left += line.Features.LineWeightKg
		}

		layer := 1
		if line.Features.FragileScore >= 1 || line.Features.Upright01 >= 1 {
			top, ok := topLayer[zone]
			if !ok {
				top = 2
			}
			layer = top
			topLayer[zone] = top + 1
		}

		plan.Placements = append(plan.Placements, Placement{
			ItemID: line.ItemID,
			Qty:    line.Qty,
			Slot:   Slot{Zone: zone, Lane: lane, Layer: layer, Pos: i},
		})
	}
	return plan, true
}
