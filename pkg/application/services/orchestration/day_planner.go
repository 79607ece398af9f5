// Package orchestration runs the full planning pipeline for one delivery
// day: Phase-1 ranking, Phase-2 placement, the departure sweep, and the
// final KPI snapshot.
package orchestration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/placement"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/selection"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/application/services/tracking"
	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// Request carries one day's instance data. The planner mutates orders
// (due-time binding, cold-fraction clamp) and trucks (runtime ledgers), so
// batch callers hand each day its own clones.
type Request struct {
	Items     map[string]*entities.Item
	Customers map[string]*entities.Customer
	Orders    map[string]*entities.CustomerOrder
	Depot     *entities.Depot
	Day       time.Time
}

// Options are the planning knobs of one run
type Options struct {
	OrderScheme []string
	ItemScheme  []string
	Policy      placement.Policy

	DepartureStrategy string
	MinUtilSlack      float64
	DepartTime        string

	// MaxColdFraction caps each order's alpha before ranking; 0 disables
	// the clamp.
	MaxColdFraction float64

	// RunID tags queue logs and reports; generated when empty.
	RunID string
}

// DefaultOptions returns the reference knobs
func DefaultOptions() Options {
	return Options{
		OrderScheme:       []string{"vip", "due", "alpha", "v_eff", "weight", "order_id"},
		ItemScheme:        []string{"cold", "weight", "v_eff", "liquid", "stack_limit", "fragile", "upright", "item_id"},
		Policy:            placement.DefaultPolicy(),
		DepartureStrategy: placement.DepartNone,
	}
}

// Result is the outcome of one planned day
type Result struct {
	RunID       string
	Day         time.Time
	Queue       []selection.OrderRankRow
	Assignments []*placement.Assignment
	Departed    []string
	Summary     tracking.DaySummary
	Tracker     *tracking.DayTracker
}

// DayPlanner wires the two phases together
type DayPlanner struct {
	logger *zap.Logger
}

// NewDayPlanner creates a planner
func NewDayPlanner(logger *zap.Logger) *DayPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DayPlanner{logger: logger}
}

// Plan runs the full pipeline for one day
func (p *DayPlanner) Plan(ctx context.Context, req Request, opts Options) (*Result, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := p.logger.With(zap.String("run_id", runID), zap.String("day", req.Day.Format("2006-01-02")))

	if opts.MaxColdFraction > 0 {
		for _, o := range req.Orders {
			o.ClampColdFraction(opts.MaxColdFraction)
		}
	}

	selState, err := selection.NewState(req.Orders, req.Customers, req.Items, req.Day)
	if err != nil {
		return nil, err
	}
	tracker := tracking.NewDayTracker()

	orderRanker, err := selection.NewOrderRanker(opts.OrderScheme)
	if err != nil {
		return nil, err
	}
	itemRanker, err := selection.NewItemRanker(opts.ItemScheme)
	if err != nil {
		return nil, err
	}

	selOrch := selection.NewOrchestrator(selState, tracker, orderRanker, itemRanker, logger)
	orderIDs, err := selOrch.Run(runID, true)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plannerState := placement.NewPlannerState(req.Depot, req.Orders, req.Customers, selOrch.RankedItems())
	placeOrch := placement.NewOrchestrator(plannerState, tracker, opts.Policy, placement.ZonePacker{}, logger)
	placeOrch.Stamp = req.Day.Format("2006-01-02")

	assignments, err := placeOrch.PlaceAll(orderIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		selState.Remove(a.OrderID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	departed, err := placeOrch.DepartTrucks(opts.DepartureStrategy, opts.MinUtilSlack, opts.DepartTime)
	if err != nil {
		return nil, err
	}

	summary := placeOrch.FinalizeDay()
	logger.Info("day planned",
		zap.Int("orders", len(orderIDs)),
		zap.Int("assigned", len(assignments)),
		zap.Int("trucks_used", summary.Fleet.NTrucksUsed),
		zap.String("c_total", summary.Fleet.CTotal.String()),
	)

	return &Result{
		RunID:       runID,
		Day:         req.Day,
		Queue:       selOrch.OrderQueue(),
		Assignments: assignments,
		Departed:    departed,
		Summary:     summary,
		Tracker:     tracker,
	}, nil
}

// PlanBatch plans independent days concurrently. Every request must carry
// its own order and depot clones; results come back in request order.
func (p *DayPlanner) PlanBatch(ctx context.Context, reqs []Request, opts Options) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			dayOpts := opts
			if len(reqs) > 1 {
				// Each day gets its own run id.
				dayOpts.RunID = ""
			}
			r, err := p.Plan(ctx, req, dayOpts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CloneRequest deep-copies the mutable parts of a request so that one
// instance can feed several concurrent days. Cloned trucks start with a
// clean runtime ledger, so a request that already ran a day can still seed
// new ones.
func CloneRequest(req Request) Request {
	orders := make(map[string]*entities.CustomerOrder, len(req.Orders))
	for id, o := range req.Orders {
		c := *o
		c.ItemList = make(map[string]int, len(o.ItemList))
		for k, v := range o.ItemList {
			c.ItemList[k] = v
		}
		orders[id] = &c
	}
	depot := req.Depot.Clone()
	for _, id := range depot.TruckIDs() {
		if tr, ok := depot.Truck(id); ok {
			tr.ResetRuntime()
		}
	}
	return Request{
		Items:     req.Items,
		Customers: req.Customers,
		Orders:    orders,
		Depot:     depot,
		Day:       req.Day,
	}
}
