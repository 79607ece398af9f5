package selection

import (
	"sort"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// OrderRankDim names one dimension of the global order-ranking scheme
type OrderRankDim string

// Order ranking dimensions. Direction is fixed per dimension:
// vip desc (true first), due asc, alpha desc, v_eff desc, weight desc,
// order_id asc (stable terminal tie-break).
const (
	OrderDimVIP     OrderRankDim = "vip"
	OrderDimDue     OrderRankDim = "due"
	OrderDimAlpha   OrderRankDim = "alpha"
	OrderDimVEff    OrderRankDim = "v_eff"
	OrderDimWeight  OrderRankDim = "weight"
	OrderDimOrderID OrderRankDim = "order_id"
)

// ParseOrderScheme validates a scheme: every dimension must be known and
// appear at most once.
func ParseOrderScheme(dims []string) ([]OrderRankDim, error) {
	allowed := map[OrderRankDim]bool{
		OrderDimVIP: true, OrderDimDue: true, OrderDimAlpha: true,
		OrderDimVEff: true, OrderDimWeight: true, OrderDimOrderID: true,
	}
	seen := map[OrderRankDim]bool{}
	out := make([]OrderRankDim, 0, len(dims))
	for _, raw := range dims {
		d := OrderRankDim(raw)
		if !allowed[d] {
			return nil, entities.NewValidationError("order_scheme", "unknown rank dimension %q", raw)
		}
		if seen[d] {
			return nil, entities.NewValidationError("order_scheme", "duplicate rank dimension %q", raw)
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

// OrderRankRow is one line of the ranked order queue, carrying the literal
// sort key for reproducible audit logs.
type OrderRankRow struct {
	Rank    int
	OrderID string
	VIP     bool
	Due     string // "HH:MM"
	Alpha   float64
	VEff    float64
	Weight  float64
	SortKey string
}

// OrderRanker builds the global priority queue over pending orders using a
// configurable lexicographic scheme.
type OrderRanker struct {
	Scheme []OrderRankDim
}

// NewOrderRanker creates a ranker with a validated scheme
func NewOrderRanker(scheme []string) (*OrderRanker, error) {
	dims, err := ParseOrderScheme(scheme)
	if err != nil {
		return nil, err
	}
	return &OrderRanker{Scheme: dims}, nil
}

// SchemeNames returns the scheme as plain strings for logs and metadata
func (r *OrderRanker) SchemeNames() []string {
	out := make([]string, len(r.Scheme))
	for i, d := range r.Scheme {
		out[i] = string(d)
	}
	return out
}

// Rank builds the full ranked queue over the state's remaining orders.
// Keys are precomputed once per order; ties beyond the scheme keep the
// ascending-id input order (stable sort).
func (r *OrderRanker) Rank(state *State) ([]OrderRankRow, error) {
	ids := state.RemainingOrders()
	if len(ids) == 0 {
		return nil, nil
	}

	type keyed struct {
		row OrderRankRow
		key Key
	}
	rows := make([]keyed, 0, len(ids))
	for _, id := range ids {
		f, err := state.OrderFeatures(id)
		if err != nil {
			return nil, err
		}
		key := r.sortKey(id, f)
		rows = append(rows, keyed{
			row: OrderRankRow{
				OrderID: id,
				VIP:     f.VIP,
				Due:     f.DueAt.Format("15:04"),
				Alpha:   f.Alpha,
				VEff:    f.VEff,
				Weight:  f.Weight,
				SortKey: key.String(),
			},
			key: key,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].key.Less(rows[j].key) })

	out := make([]OrderRankRow, len(rows))
	for i, kr := range rows {
		kr.row.Rank = i + 1
		out[i] = kr.row
	}
	return out, nil
}

func (r *OrderRanker) sortKey(orderID string, f OrderFeatures) Key {
	var key Key
	for _, dim := range r.Scheme {
		switch dim {
		case OrderDimVIP:
			if f.VIP {
				key.AppendNum(-1)
			} else {
				key.AppendNum(0)
			}
		case OrderDimDue:
			key.AppendNum(float64(f.DueAt.Unix()))
		case OrderDimAlpha:
			key.AppendNum(-f.Alpha)
		case OrderDimVEff:
			key.AppendNum(-f.VEff)
		case OrderDimWeight:
			key.AppendNum(-f.Weight)
		case OrderDimOrderID:
			key.AppendStr(orderID)
		}
	}
	return key
}
