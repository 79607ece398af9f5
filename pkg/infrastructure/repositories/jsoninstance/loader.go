// Package jsoninstance loads a planning instance from its five JSON
// artefacts: items, customers, orders, trucks, and depots.
package jsoninstance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// Instance is a fully validated in-memory planning instance
type Instance struct {
	Items     map[string]*entities.Item
	Customers map[string]*entities.Customer
	Orders    map[string]*entities.CustomerOrder
	Depot     *entities.Depot
}

// Default due time applied when an order omits both due spellings.
const defaultDueTime = "23:59"

type itemRecord struct {
	ItemID         string  `json:"item_id"`
	Name           string  `json:"name"`
	CategoryCold   bool    `json:"category_cold"`
	UnitWeightKg   float64 `json:"unit_weight_kg"`
	UnitVolumeM3   float64 `json:"unit_volume_m3"`
	DimsM          struct {
		L float64 `json:"L"`
		W float64 `json:"W"`
		H float64 `json:"H"`
	} `json:"dims_m"`
	Fragility      string  `json:"fragility"`
	MaxStackLoadKg float64 `json:"max_stack_load_kg"`
	IsLiquid       bool    `json:"is_liquid"`
	UprightOnly    bool    `json:"upright_only"`
	SeparationTag  string  `json:"separation_tag"`
	PaddingFactor  float64 `json:"padding_factor"`
}

type customerRecord struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	VIP        bool   `json:"vip"`
	Address    string `json:"address"`
}

type orderRecord struct {
	OrderID    string         `json:"order_id"`
	CustomerID string         `json:"customer_id"`
	ItemList   map[string]int `json:"item_list"`
	Items      map[string]int `json:"items"` // legacy alias of item_list
	DueTimeStr string         `json:"due_time_str"`
	Due        string         `json:"due"` // legacy alias of due_time_str
}

type truckRecord struct {
	TruckID          string   `json:"truck_id"`
	Type             string   `json:"type"`
	TotalCapacityM3  float64  `json:"total_capacity_m3"`
	ColdCapacityM3   float64  `json:"cold_capacity_m3"`
	WeightLimitKg    float64  `json:"weight_limit_kg"`
	FixedCost        float64  `json:"fixed_cost"`
	MinUtilization   float64  `json:"min_utilization"`
	ReserveFraction  float64  `json:"reserve_fraction"`
	CoolerCapacityM3 *float64 `json:"cooler_capacity_m3"`
}

type depotRecord struct {
	DepotID         string   `json:"depot_id"`
	Location        string   `json:"location"`
	AvailableTrucks []string `json:"available_trucks"`
}

// LoadDir loads an instance from the conventional file names inside dir:
// items.json, customers.json, orders.json, trucks.json, depots.json.
// defaultCoolerM3 fills in the portable cooler of dry trucks whose record
// omits cooler_capacity_m3.
func LoadDir(dir string, defaultCoolerM3 float64) (*Instance, error) {
	return Load(
		filepath.Join(dir, "items.json"),
		filepath.Join(dir, "customers.json"),
		filepath.Join(dir, "orders.json"),
		filepath.Join(dir, "trucks.json"),
		filepath.Join(dir, "depots.json"),
		defaultCoolerM3,
	)
}

// Load loads and validates the five instance artefacts
func Load(itemsPath, customersPath, ordersPath, trucksPath, depotsPath string, defaultCoolerM3 float64) (*Instance, error) {
	items, err := loadItems(itemsPath)
	if err != nil {
		return nil, err
	}
	customers, err := loadCustomers(customersPath)
	if err != nil {
		return nil, err
	}
	orders, err := loadOrders(ordersPath, items)
	if err != nil {
		return nil, err
	}
	depot, err := loadDepot(trucksPath, depotsPath, defaultCoolerM3)
	if err != nil {
		return nil, err
	}
	return &Instance{Items: items, Customers: customers, Orders: orders, Depot: depot}, nil
}

func readJSON[T any](path string, out *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadItems(path string) (map[string]*entities.Item, error) {
	var records []itemRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	items := make(map[string]*entities.Item, len(records))
	for _, r := range records {
		fragility, err := entities.ParseFragility(r.Fragility)
		if err != nil {
			return nil, entities.NewValidationError(
				fmt.Sprintf("items[%s].fragility", r.ItemID), "%v", err)
		}
		tag, err := entities.ParseSeparationTag(r.SeparationTag)
		if err != nil {
			return nil, entities.NewValidationError(
				fmt.Sprintf("items[%s].separation_tag", r.ItemID), "%v", err)
		}
		item := &entities.Item{
			ItemID:         r.ItemID,
			Name:           r.Name,
			CategoryCold:   r.CategoryCold,
			UnitWeightKg:   r.UnitWeightKg,
			UnitVolumeM3:   r.UnitVolumeM3,
			DimsM:          entities.Dimensions{L: r.DimsM.L, W: r.DimsM.W, H: r.DimsM.H},
			Fragility:      fragility,
			MaxStackLoadKg: r.MaxStackLoadKg,
			IsLiquid:       r.IsLiquid,
			UprightOnly:    r.UprightOnly,
			SeparationTag:  tag,
			PaddingFactor:  r.PaddingFactor,
		}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := items[item.ItemID]; dup {
			return nil, entities.NewValidationError(
				fmt.Sprintf("items[%s]", item.ItemID), "duplicate item id")
		}
		items[item.ItemID] = item
	}
	return items, nil
}

func loadCustomers(path string) (map[string]*entities.Customer, error) {
	var records []customerRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	customers := make(map[string]*entities.Customer, len(records))
	for _, r := range records {
		if r.CustomerID == "" {
			return nil, entities.NewValidationError("customers[].customer_id", "must not be empty")
		}
		customers[r.CustomerID] = &entities.Customer{
			CustomerID: r.CustomerID,
			Name:       r.Name,
			Email:      r.Email,
			VIP:        r.VIP,
			Address:    r.Address,
		}
	}
	return customers, nil
}

func loadOrders(path string, catalog map[string]*entities.Item) (map[string]*entities.CustomerOrder, error) {
	var records []orderRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	orders := make(map[string]*entities.CustomerOrder, len(records))
	for _, r := range records {
		itemList := r.ItemList
		if len(itemList) == 0 {
			itemList = r.Items
		}
		due := r.DueTimeStr
		if due == "" {
			due = r.Due
		}
		if due == "" {
			due = defaultDueTime
		}
		order, err := entities.NewCustomerOrder(r.OrderID, r.CustomerID, itemList, due, catalog)
		if err != nil {
			return nil, err
		}
		if _, dup := orders[order.OrderID]; dup {
			return nil, entities.NewValidationError(
				fmt.Sprintf("orders[%s]", order.OrderID), "duplicate order id")
		}
		orders[order.OrderID] = order
	}
	return orders, nil
}

func loadDepot(trucksPath, depotsPath string, defaultCoolerM3 float64) (*entities.Depot, error) {
	var truckRecords []truckRecord
	if err := readJSON(trucksPath, &truckRecords); err != nil {
		return nil, err
	}
	trucks := make(map[string]*entities.Truck, len(truckRecords))
	for _, r := range truckRecords {
		truckType, err := entities.ParseTruckType(r.Type)
		if err != nil {
			return nil, entities.NewValidationError(
				fmt.Sprintf("trucks[%s].type", r.TruckID), "%v", err)
		}
		cooler := 0.0
		if truckType == entities.Dry {
			cooler = defaultCoolerM3
			if r.CoolerCapacityM3 != nil {
				cooler = *r.CoolerCapacityM3
			}
		}
		truck := &entities.Truck{
			TruckID:          r.TruckID,
			Type:             truckType,
			TotalCapacityM3:  r.TotalCapacityM3,
			ColdCapacityM3:   r.ColdCapacityM3,
			WeightLimitKg:    r.WeightLimitKg,
			FixedCost:        decimal.NewFromFloat(r.FixedCost),
			MinUtilization:   r.MinUtilization,
			ReserveFraction:  r.ReserveFraction,
			CoolerCapacityM3: cooler,
		}
		if err := truck.Validate(); err != nil {
			return nil, err
		}
		if _, dup := trucks[truck.TruckID]; dup {
			return nil, entities.NewValidationError(
				fmt.Sprintf("trucks[%s]", truck.TruckID), "duplicate truck id")
		}
		trucks[truck.TruckID] = truck
	}

	var depotRecords []depotRecord
	if err := readJSON(depotsPath, &depotRecords); err != nil {
		return nil, err
	}
	if len(depotRecords) == 0 {
		return nil, entities.NewValidationError("depots", "must contain at least one depot")
	}
	// Single-depot planning: the first depot record is the day's depot.
	r := depotRecords[0]
	available := make(map[string]*entities.Truck, len(r.AvailableTrucks))
	for _, id := range r.AvailableTrucks {
		t, ok := trucks[id]
		if !ok {
			return nil, entities.NewValidationError(
				fmt.Sprintf("depots[%s].available_trucks", r.DepotID),
				"unknown truck id %q", id)
		}
		available[id] = t
	}
	return &entities.Depot{
		DepotID:         r.DepotID,
		Location:        r.Location,
		AvailableTrucks: available,
	}, nil
}
