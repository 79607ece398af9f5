package selection

import (
	"go.uber.org/zap"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/tracking"
)

// Orchestrator runs Phase 1: it builds the global order queue, ranks each
// order's items for loading, and records both queues on the day tracker for
// audit export. Ranking never mutates order or truck data.
type Orchestrator struct {
	state       *State
	tracker     *tracking.DayTracker
	orderRanker *OrderRanker
	itemRanker  *ItemRanker
	logger      *zap.Logger

	queue       []OrderRankRow
	rankedItems map[string][]ItemRank
}

// NewOrchestrator wires the Phase-1 components together
func NewOrchestrator(state *State, tracker *tracking.DayTracker, orderRanker *OrderRanker, itemRanker *ItemRanker, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		state:       state,
		tracker:     tracker,
		orderRanker: orderRanker,
		itemRanker:  itemRanker,
		logger:      logger,
	}
}

// Run ranks all remaining orders and their items, records the queues on the
// tracker, and returns the ordered order ids for Phase 2.
func (o *Orchestrator) Run(runID string, resetLogs bool) ([]string, error) {
	queue, err := o.orderRanker.Rank(o.state)
	if err != nil {
		return nil, err
	}
	o.queue = queue

	orderRows := make([]tracking.OrderQueueRow, len(queue))
	ids := make([]string, len(queue))
	for i, row := range queue {
		ids[i] = row.OrderID
		orderRows[i] = tracking.OrderQueueRow{
			RunID:   runID,
			Rank:    row.Rank,
			OrderID: row.OrderID,
			VIP:     row.VIP,
			Due:     row.Due,
			Alpha:   row.Alpha,
			VEff:    row.VEff,
			Weight:  row.Weight,
			SortKey: row.SortKey,
		}
	}
	o.tracker.RecordOrderQueue(orderRows, "lexicographic", o.orderRanker.SchemeNames(), runID, resetLogs)

	o.rankedItems = make(map[string][]ItemRank, len(queue))
	for _, row := range queue {
		ranked, audit, err := o.itemRanker.Rank(o.state, row.OrderID)
		if err != nil {
			return nil, err
		}
		o.rankedItems[row.OrderID] = ranked

		itemRows := make([]tracking.ItemQueueRow, len(audit))
		for i, a := range audit {
			itemRows[i] = tracking.ItemQueueRow{
				RunID:        runID,
				OrderID:      row.OrderID,
				Rank:         a.Rank,
				ItemID:       a.ItemID,
				Qty:          a.Qty,
				Cold01:       a.Cold01,
				WIJ:          a.WIJ,
				VIJEff:       a.VIJEff,
				Liquid01:     a.Liquid01,
				StackLimit:   a.StackLimit,
				FragileScore: a.FragileScore,
				Upright01:    a.Upright01,
				SortKey:      a.SortKey,
			}
		}
		o.tracker.RecordItemQueue(itemRows, "lexicographic", o.itemRanker.SchemeNames(), runID)
	}

	o.logger.Info("order queue built",
		zap.String("run_id", runID),
		zap.Int("orders", len(ids)),
		zap.Strings("order_scheme", o.orderRanker.SchemeNames()),
		zap.Strings("item_scheme", o.itemRanker.SchemeNames()),
	)
	return ids, nil
}

// OrderQueue returns the last ranked order queue
func (o *Orchestrator) OrderQueue() []OrderRankRow { return o.queue }

// RankedItems returns the per-order loading sequences from the last Run
func (o *Orchestrator) RankedItems() map[string][]ItemRank { return o.rankedItems }

// State exposes the underlying selection state
func (o *Orchestrator) State() *State { return o.state }
