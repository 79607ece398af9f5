package selection

import (
	"sort"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// ItemRankDim names one dimension of the within-order item-ranking scheme
type ItemRankDim string

// Item ranking dimensions. Fixed directions: cold desc, weight desc,
// v_eff desc, liquid desc, stack_limit desc, fragile asc (less fragile
// first), upright asc (non-upright first), item_id asc.
const (
	ItemDimCold       ItemRankDim = "cold"
	ItemDimWeight     ItemRankDim = "weight"
	ItemDimVEff       ItemRankDim = "v_eff"
	ItemDimLiquid     ItemRankDim = "liquid"
	ItemDimStackLimit ItemRankDim = "stack_limit"
	ItemDimFragile    ItemRankDim = "fragile"
	ItemDimUpright    ItemRankDim = "upright"
	ItemDimItemID     ItemRankDim = "item_id"
)

// ParseItemScheme validates an item scheme the same way as order schemes
func ParseItemScheme(dims []string) ([]ItemRankDim, error) {
	allowed := map[ItemRankDim]bool{
		ItemDimCold: true, ItemDimWeight: true, ItemDimVEff: true,
		ItemDimLiquid: true, ItemDimStackLimit: true, ItemDimFragile: true,
		ItemDimUpright: true, ItemDimItemID: true,
	}
	seen := map[ItemRankDim]bool{}
	out := make([]ItemRankDim, 0, len(dims))
	for _, raw := range dims {
		d := ItemRankDim(raw)
		if !allowed[d] {
			return nil, entities.NewValidationError("item_scheme", "unknown rank dimension %q", raw)
		}
		if seen[d] {
			return nil, entities.NewValidationError("item_scheme", "duplicate rank dimension %q", raw)
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

// ItemFeatures is the per-line feature bundle behind an item's rank. The
// packing policy reads it to choose zone, lane, and layer.
type ItemFeatures struct {
	Cold01       float64
	LineWeightKg float64 // w_ij = qty * w_unit
	LineVolEffM3 float64 // v_ij_eff = qty * v_eff_unit
	LineColdM3   float64 // qty * v_unit on cold items, else 0
	Liquid01     float64
	StackLimitKg float64
	FragileScore float64 // Regular=0, Delicate=1, Fragile=2
	Upright01    float64
	SepTag       entities.SeparationTag
}

// ItemRank is one entry of an order's loading sequence
type ItemRank struct {
	ItemID   string
	Qty      int
	Features ItemFeatures
}

// ItemRankRow is the audit form of an ItemRank with rank and literal key
type ItemRankRow struct {
	Rank         int
	ItemID       string
	Qty          int
	Cold01       float64
	WIJ          float64
	VIJEff       float64
	Liquid01     float64
	StackLimit   float64
	FragileScore float64
	Upright01    float64
	SortKey      string
}

// ItemRanker orders the item lines of a single order for loading. The
// resulting sequence encodes a bottom-to-top, back-to-front preference:
// cold early (reefer zone), heavy and large on the floor, fragile and
// upright-only pushed to the top layer by the packing policy.
type ItemRanker struct {
	Scheme []ItemRankDim
}

// NewItemRanker creates a ranker with a validated scheme
func NewItemRanker(scheme []string) (*ItemRanker, error) {
	dims, err := ParseItemScheme(scheme)
	if err != nil {
		return nil, err
	}
	return &ItemRanker{Scheme: dims}, nil
}

// SchemeNames returns the scheme as plain strings for logs and metadata
func (r *ItemRanker) SchemeNames() []string {
	out := make([]string, len(r.Scheme))
	for i, d := range r.Scheme {
		out[i] = string(d)
	}
	return out
}

// Rank computes the ranked item sequence for orderID, returning both the
// placer-facing sequence and the audit rows.
func (r *ItemRanker) Rank(state *State, orderID string) ([]ItemRank, []ItemRankRow, error) {
	lines, err := state.ItemLines(orderID)
	if err != nil {
		return nil, nil, err
	}

	type keyed struct {
		rank ItemRank
		key  Key
	}
	rows := make([]keyed, 0, len(lines))
	for _, line := range lines {
		f := lineFeatures(line)
		rows = append(rows, keyed{
			rank: ItemRank{ItemID: line.Item.ItemID, Qty: line.Qty, Features: f},
			key:  r.sortKey(line.Item.ItemID, f),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].key.Less(rows[j].key) })

	ranked := make([]ItemRank, len(rows))
	audit := make([]ItemRankRow, len(rows))
	for i, kr := range rows {
		ranked[i] = kr.rank
		f := kr.rank.Features
		audit[i] = ItemRankRow{
			Rank:         i + 1,
			ItemID:       kr.rank.ItemID,
			Qty:          kr.rank.Qty,
			Cold01:       f.Cold01,
			WIJ:          f.LineWeightKg,
			VIJEff:       f.LineVolEffM3,
			Liquid01:     f.Liquid01,
			StackLimit:   f.StackLimitKg,
			FragileScore: f.FragileScore,
			Upright01:    f.Upright01,
			SortKey:      kr.key.String(),
		}
	}
	return ranked, audit, nil
}

func lineFeatures(line ItemLine) ItemFeatures {
	item := line.Item
	qty := float64(line.Qty)
	f := ItemFeatures{
		LineWeightKg: qty * item.UnitWeightKg,
		LineVolEffM3: qty * item.EffectiveUnitVolume(),
		StackLimitKg: item.MaxStackLoadKg,
		FragileScore: float64(item.Fragility),
		SepTag:       item.SeparationTag,
	}
	if item.CategoryCold && qty*item.UnitVolumeM3 > 0 {
		f.Cold01 = 1
		f.LineColdM3 = qty * item.UnitVolumeM3
	}
	if item.IsLiquid {
		f.Liquid01 = 1
	}
	if item.UprightOnly {
		f.Upright01 = 1
	}
	return f
}

func (r *ItemRanker) sortKey(itemID string, f ItemFeatures) Key {
	var key Key
	for _, dim := range r.Scheme {
		switch dim {
		case ItemDimCold:
			key.AppendNum(-f.Cold01)
		case ItemDimWeight:
			key.AppendNum(-f.LineWeightKg)
		case ItemDimVEff:
			key.AppendNum(-f.LineVolEffM3)
		case ItemDimLiquid:
			key.AppendNum(-f.Liquid01)
		case ItemDimStackLimit:
			key.AppendNum(-f.StackLimitKg)
		case ItemDimFragile:
			key.AppendNum(f.FragileScore)
		case ItemDimUpright:
			key.AppendNum(f.Upright01)
		case ItemDimItemID:
			key.AppendStr(itemID)
		}
	}
	return key
}
