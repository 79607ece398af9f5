// Package generator builds synthetic planning instances for experiments and
// tests. Generation is fully seeded: one seed reproduces one instance.
package generator

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// Range is an inclusive float interval
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// IntRange is an inclusive integer interval
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemsConfig controls catalogue generation
type ItemsConfig struct {
	NumItems  int     `yaml:"num_items"`
	ColdRatio float64 `yaml:"cold_ratio"`
	WeightKg  Range   `yaml:"weight_kg"`
	VolumeM3  Range   `yaml:"volume_m3"`
	Padding   Range   `yaml:"padding"`
}

// CustomersConfig controls customer generation
type CustomersConfig struct {
	NumCustomers int     `yaml:"num_customers"`
	VIPFraction  float64 `yaml:"vip_fraction"`
}

// OrdersConfig controls order generation. ItemsPerOrder counts distinct item
// types; QtyPerItem is the per-line quantity range.
type OrdersConfig struct {
	NumOrders       int      `yaml:"num_orders"`
	ItemsPerOrder   IntRange `yaml:"items_per_order"`
	QtyPerItem      IntRange `yaml:"qty_per_item"`
	EarliestDue     string   `yaml:"earliest_due"`
	LatestDue       string   `yaml:"latest_due"`
	MaxColdFraction float64  `yaml:"max_cold_fraction"`
}

// TruckSpec is an explicit truck definition overriding template generation
type TruckSpec struct {
	ID               string  `yaml:"id"`
	Type             string  `yaml:"type"`
	TotalCapacityM3  float64 `yaml:"total_capacity_m3"`
	ColdCapacityM3   float64 `yaml:"cold_capacity_m3"`
	WeightLimitKg    float64 `yaml:"weight_limit_kg"`
	FixedCost        float64 `yaml:"fixed_cost"`
	MinUtilization   float64 `yaml:"min_utilization"`
	ReserveFraction  float64 `yaml:"reserve_fraction"`
	CoolerCapacityM3 float64 `yaml:"cooler_capacity_m3"`
}

// TrucksConfig controls fleet generation. When TruckSpecs is non-empty it is
// used as-is and the counts and ranges are ignored.
type TrucksConfig struct {
	NumTrucksCold int `yaml:"num_trucks_cold"`
	NumTrucksDry  int `yaml:"num_trucks_dry"`

	TotalCapacityM3 Range `yaml:"total_capacity_m3"`
	ColdCapacityM3  Range `yaml:"cold_capacity_m3"`
	WeightLimitKg   Range `yaml:"weight_limit_kg"`
	FixedCost       Range `yaml:"fixed_cost"`
	ReserveFraction Range `yaml:"reserve_fraction"`
	CoolerM3        Range `yaml:"cooler_m3"`

	MinUtilCold float64 `yaml:"min_util_cold"`
	MinUtilDry  float64 `yaml:"min_util_dry"`

	TruckSpecs []TruckSpec `yaml:"truck_specs"`
}

// DepotsConfig controls depot generation. Availability is "all" or "sample";
// under "sample", SampleK trucks are drawn per depot.
type DepotsConfig struct {
	NumDepots    int    `yaml:"num_depots"`
	Availability string `yaml:"availability"`
	SampleK      int    `yaml:"sample_k"`
}

// Config is the full generation recipe
type Config struct {
	Seed      int64           `yaml:"seed"`
	Items     ItemsConfig     `yaml:"items"`
	Customers CustomersConfig `yaml:"customers"`
	Orders    OrdersConfig    `yaml:"orders"`
	Trucks    TrucksConfig    `yaml:"trucks"`
	Depots    DepotsConfig    `yaml:"depots"`
}

// Default returns a small but representative recipe
func Default() Config {
	return Config{
		Seed: 1,
		Items: ItemsConfig{
			NumItems:  12,
			ColdRatio: 0.40,
			WeightKg:  Range{0.5, 10.0},
			VolumeM3:  Range{0.001, 0.020},
			Padding:   Range{0.00, 0.10},
		},
		Customers: CustomersConfig{NumCustomers: 10, VIPFraction: 0.25},
		Orders: OrdersConfig{
			NumOrders:       20,
			ItemsPerOrder:   IntRange{2, 4},
			QtyPerItem:      IntRange{1, 4},
			EarliestDue:     "10:00",
			LatestDue:       "22:00",
			MaxColdFraction: 0.60,
		},
		Trucks: TrucksConfig{
			NumTrucksCold:   2,
			NumTrucksDry:    2,
			TotalCapacityM3: Range{20.0, 35.0},
			ColdCapacityM3:  Range{8.0, 15.0},
			WeightLimitKg:   Range{8000.0, 12000.0},
			FixedCost:       Range{380.0, 620.0},
			ReserveFraction: Range{0.05, 0.08},
			CoolerM3:        Range{0.0, 0.0},
			MinUtilCold:     0.60,
			MinUtilDry:      0.75,
		},
		Depots: DepotsConfig{NumDepots: 1, Availability: "all"},
	}
}

// Validate checks every generation knob, reporting the offending field path
func (c Config) Validate() error {
	if c.Items.NumItems < 1 {
		return entities.NewValidationError("items.num_items", "must be >= 1, got %d", c.Items.NumItems)
	}
	if c.Items.ColdRatio < 0 || c.Items.ColdRatio > 1 {
		return entities.NewValidationError("items.cold_ratio", "must be in [0,1], got %g", c.Items.ColdRatio)
	}
	if err := checkRange(c.Items.WeightKg, true, "items.weight_kg"); err != nil {
		return err
	}
	if err := checkRange(c.Items.VolumeM3, true, "items.volume_m3"); err != nil {
		return err
	}
	if c.Items.Padding.Min < 0 || c.Items.Padding.Min > c.Items.Padding.Max || c.Items.Padding.Max > 1 {
		return entities.NewValidationError("items.padding", "must satisfy 0 <= min <= max <= 1")
	}

	if c.Customers.NumCustomers < 1 {
		return entities.NewValidationError("customers.num_customers", "must be >= 1, got %d", c.Customers.NumCustomers)
	}
	if c.Customers.VIPFraction < 0 || c.Customers.VIPFraction > 1 {
		return entities.NewValidationError("customers.vip_fraction", "must be in [0,1], got %g", c.Customers.VIPFraction)
	}

	if c.Orders.NumOrders < 0 {
		return entities.NewValidationError("orders.num_orders", "must be >= 0, got %d", c.Orders.NumOrders)
	}
	if c.Orders.ItemsPerOrder.Min < 1 || c.Orders.ItemsPerOrder.Min > c.Orders.ItemsPerOrder.Max {
		return entities.NewValidationError("orders.items_per_order", "must satisfy 1 <= min <= max")
	}
	if c.Orders.QtyPerItem.Min < 1 || c.Orders.QtyPerItem.Min > c.Orders.QtyPerItem.Max {
		return entities.NewValidationError("orders.qty_per_item", "must satisfy 1 <= min <= max")
	}
	earliest, err := entities.ParseHHMM(c.Orders.EarliestDue)
	if err != nil {
		return entities.NewValidationError("orders.earliest_due", "must be 'HH:MM' (24h), got %q", c.Orders.EarliestDue)
	}
	latest, err := entities.ParseHHMM(c.Orders.LatestDue)
	if err != nil {
		return entities.NewValidationError("orders.latest_due", "must be 'HH:MM' (24h), got %q", c.Orders.LatestDue)
	}
	if earliest.After(latest) {
		return entities.NewValidationError("orders.earliest_due", "must be <= latest_due")
	}
	if c.Orders.MaxColdFraction < 0 || c.Orders.MaxColdFraction > 1 {
		return entities.NewValidationError("orders.max_cold_fraction", "must be in [0,1], got %g", c.Orders.MaxColdFraction)
	}

	if len(c.Trucks.TruckSpecs) == 0 {
		if err := checkRange(c.Trucks.TotalCapacityM3, true, "trucks.total_capacity_m3"); err != nil {
			return err
		}
		if err := checkRange(c.Trucks.ColdCapacityM3, true, "trucks.cold_capacity_m3"); err != nil {
			return err
		}
		if err := checkRange(c.Trucks.WeightLimitKg, true, "trucks.weight_limit_kg"); err != nil {
			return err
		}
		if err := checkRange(c.Trucks.FixedCost, false, "trucks.fixed_cost"); err != nil {
			return err
		}
		if c.Trucks.ReserveFraction.Min < 0 || c.Trucks.ReserveFraction.Min > c.Trucks.ReserveFraction.Max || c.Trucks.ReserveFraction.Max >= 1 {
			return entities.NewValidationError("trucks.reserve_fraction", "must satisfy 0 <= min <= max < 1")
		}
		if c.Trucks.MinUtilCold < 0 || c.Trucks.MinUtilCold > 1 {
			return entities.NewValidationError("trucks.min_util_cold", "must be in [0,1], got %g", c.Trucks.MinUtilCold)
		}
		if c.Trucks.MinUtilDry < 0 || c.Trucks.MinUtilDry > 1 {
			return entities.NewValidationError("trucks.min_util_dry", "must be in [0,1], got %g", c.Trucks.MinUtilDry)
		}
	}
	for _, spec := range c.Trucks.TruckSpecs {
		if _, err := entities.ParseTruckType(spec.Type); err != nil {
			return entities.NewValidationError(fmt.Sprintf("trucks.truck_specs[%s].type", spec.ID), "%v", err)
		}
	}

	if c.Depots.NumDepots < 1 {
		return entities.NewValidationError("depots.num_depots", "must be >= 1, got %d", c.Depots.NumDepots)
	}
	switch c.Depots.Availability {
	case "all":
	case "sample":
		if c.Depots.SampleK < 1 {
			return entities.NewValidationError("depots.sample_k", "must be >= 1 under the sample policy, got %d", c.Depots.SampleK)
		}
	default:
		return entities.NewValidationError("depots.availability", "must be \"all\" or \"sample\", got %q", c.Depots.Availability)
	}
	return nil
}

func checkRange(r Range, strictPositive bool, field string) error {
	lo := 0.0
	if strictPositive {
		if r.Min <= lo || r.Min > r.Max {
			return entities.NewValidationError(field, "must satisfy 0 < min <= max")
		}
		return nil
	}
	if r.Min < lo || r.Min > r.Max {
		return entities.NewValidationError(field, "must satisfy 0 <= min <= max")
	}
	return nil
}

// Instance is one generated planning instance
type Instance struct {
	Items     map[string]*entities.Item
	Customers map[string]*entities.Customer
	Orders    map[string]*entities.CustomerOrder
	Depot     *entities.Depot

	// Trucks holds the full fleet, superset of the depot's availability.
	Trucks map[string]*entities.Truck
}

// Generate builds a complete synthetic instance from the recipe
func Generate(cfg Config) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	items := genItems(rng, cfg.Items)
	customers := genCustomers(rng, cfg.Customers)
	orders, err := genOrders(rng, cfg.Orders, customers, items)
	if err != nil {
		return nil, err
	}
	trucks := genTrucks(rng, cfg.Trucks)
	depot := genDepot(rng, cfg.Depots, trucks)

	return &Instance{
		Items:     items,
		Customers: customers,
		Orders:    orders,
		Depot:     depot,
		Trucks:    trucks,
	}, nil
}

func genItems(rng *rand.Rand, cfg ItemsConfig) map[string]*entities.Item {
	stackLoads := []float64{5, 10, 20, 50, 100, 150}
	items := make(map[string]*entities.Item, cfg.NumItems)
	for i := 1; i <= cfg.NumItems; i++ {
		id := fmt.Sprintf("I%03d", i)
		items[id] = &entities.Item{
			ItemID:         id,
			Name:           fmt.Sprintf("Item_%d", i),
			CategoryCold:   rng.Float64() < cfg.ColdRatio,
			UnitWeightKg:   uniform(rng, cfg.WeightKg),
			UnitVolumeM3:   uniform(rng, cfg.VolumeM3),
			DimsM:          entities.Dimensions{L: 0.2, W: 0.2, H: 0.2},
			Fragility:      entities.Fragility(rng.Intn(3)),
			MaxStackLoadKg: stackLoads[rng.Intn(len(stackLoads))],
			IsLiquid:       rng.Float64() < 0.2,
			UprightOnly:    rng.Float64() < 0.2,
			SeparationTag:  entities.SeparationTag(rng.Intn(4)),
			PaddingFactor:  uniform(rng, cfg.Padding),
		}
	}
	return items
}

func genCustomers(rng *rand.Rand, cfg CustomersConfig) map[string]*entities.Customer {
	customers := make(map[string]*entities.Customer, cfg.NumCustomers)
	for i := 1; i <= cfg.NumCustomers; i++ {
		id := fmt.Sprintf("C%03d", i)
		customers[id] = &entities.Customer{
			CustomerID: id,
			Name:       fmt.Sprintf("Customer_%d", i),
			Email:      fmt.Sprintf("customer%d@example.com", i),
			VIP:        rng.Float64() < cfg.VIPFraction,
			Address:    fmt.Sprintf("Street %d, City", i),
		}
	}
	return customers
}

func genOrders(rng *rand.Rand, cfg OrdersConfig, customers map[string]*entities.Customer, items map[string]*entities.Item) (map[string]*entities.CustomerOrder, error) {
	customerIDs := sortedKeys(customers)
	itemIDs := sortedKeys(items)

	orders := make(map[string]*entities.CustomerOrder, cfg.NumOrders)
	for i := 1; i <= cfg.NumOrders; i++ {
		id := fmt.Sprintf("O%04d", i)
		customerID := customerIDs[rng.Intn(len(customerIDs))]

		kTypes := randBetween(rng, cfg.ItemsPerOrder)
		if kTypes > len(itemIDs) {
			kTypes = len(itemIDs)
		}
		perm := rng.Perm(len(itemIDs))
		itemList := make(map[string]int, kTypes)
		for _, idx := range perm[:kTypes] {
			itemList[itemIDs[idx]] = randBetween(rng, cfg.QtyPerItem)
		}

		order, err := entities.NewCustomerOrder(id, customerID, itemList, randDue(rng, cfg.EarliestDue, cfg.LatestDue), items)
		if err != nil {
			return nil, err
		}
		order.ClampColdFraction(cfg.MaxColdFraction)
		orders[id] = order
	}
	return orders, nil
}

func genTrucks(rng *rand.Rand, cfg TrucksConfig) map[string]*entities.Truck {
	trucks := make(map[string]*entities.Truck)
	if len(cfg.TruckSpecs) > 0 {
		for _, spec := range cfg.TruckSpecs {
			truckType, _ := entities.ParseTruckType(spec.Type)
			cold := 0.0
			cooler := 0.0
			if truckType == entities.Reefer {
				cold = spec.ColdCapacityM3
			} else {
				cooler = spec.CoolerCapacityM3
			}
			trucks[spec.ID] = &entities.Truck{
				TruckID:          spec.ID,
				Type:             truckType,
				TotalCapacityM3:  spec.TotalCapacityM3,
				ColdCapacityM3:   cold,
				WeightLimitKg:    spec.WeightLimitKg,
				FixedCost:        decimal.NewFromFloat(spec.FixedCost),
				MinUtilization:   spec.MinUtilization,
				ReserveFraction:  spec.ReserveFraction,
				CoolerCapacityM3: cooler,
			}
		}
		return trucks
	}

	for i := 1; i <= cfg.NumTrucksCold; i++ {
		id := fmt.Sprintf("TR%03d", i)
		trucks[id] = &entities.Truck{
			TruckID:         id,
			Type:            entities.Reefer,
			TotalCapacityM3: uniform(rng, cfg.TotalCapacityM3),
			ColdCapacityM3:  uniform(rng, cfg.ColdCapacityM3),
			WeightLimitKg:   uniform(rng, cfg.WeightLimitKg),
			FixedCost:       decimal.NewFromFloat(uniform(rng, cfg.FixedCost)).Round(2),
			MinUtilization:  cfg.MinUtilCold,
			ReserveFraction: uniform(rng, cfg.ReserveFraction),
		}
	}
	for i := 1; i <= cfg.NumTrucksDry; i++ {
		id := fmt.Sprintf("TD%03d", i)
		trucks[id] = &entities.Truck{
			TruckID:          id,
			Type:             entities.Dry,
			TotalCapacityM3:  uniform(rng, cfg.TotalCapacityM3),
			ColdCapacityM3:   0,
			WeightLimitKg:    uniform(rng, cfg.WeightLimitKg),
			FixedCost:        decimal.NewFromFloat(uniform(rng, cfg.FixedCost)).Round(2),
			MinUtilization:   cfg.MinUtilDry,
			ReserveFraction:  uniform(rng, cfg.ReserveFraction),
			CoolerCapacityM3: uniform(rng, cfg.CoolerM3),
		}
	}
	return trucks
}

func genDepot(rng *rand.Rand, cfg DepotsConfig, trucks map[string]*entities.Truck) *entities.Depot {
	truckIDs := sortedKeys(trucks)

	available := make(map[string]*entities.Truck)
	switch cfg.Availability {
	case "sample":
		k := cfg.SampleK
		if k > len(truckIDs) {
			k = len(truckIDs)
		}
		perm := rng.Perm(len(truckIDs))
		for _, idx := range perm[:k] {
			available[truckIDs[idx]] = trucks[truckIDs[idx]]
		}
	default:
		for _, id := range truckIDs {
			available[id] = trucks[id]
		}
	}
	return &entities.Depot{
		DepotID:         "D001",
		Location:        "Depot_1 City",
		AvailableTrucks: available,
	}
}

func uniform(rng *rand.Rand, r Range) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func randBetween(rng *rand.Rand, r IntRange) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

func randDue(rng *rand.Rand, earliest, latest string) string {
	s, _ := entities.ParseHHMM(earliest)
	e, _ := entities.ParseHHMM(latest)
	if e.Before(s) {
		e = s
	}
	total := int(e.Sub(s) / time.Minute)
	offset := 0
	if total > 0 {
		offset = rng.Intn(total + 1)
	}
	return s.Add(time.Duration(offset) * time.Minute).Format("15:04")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
