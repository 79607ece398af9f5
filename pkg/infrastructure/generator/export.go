package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

// SaveJSON writes the instance as the five JSON artefacts the loader reads:
// items.json, customers.json, orders.json, trucks.json, depots.json.
// Records are emitted in ascending id order so regenerating with the same
// seed produces byte-identical files.
func (inst *Instance) SaveJSON(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create instance dir %s: %w", dir, err)
	}

	items := make([]map[string]any, 0, len(inst.Items))
	for _, id := range sortedKeys(inst.Items) {
		it := inst.Items[id]
		items = append(items, map[string]any{
			"item_id":           it.ItemID,
			"name":              it.Name,
			"category_cold":     it.CategoryCold,
			"unit_weight_kg":    it.UnitWeightKg,
			"unit_volume_m3":    it.UnitVolumeM3,
			"dims_m":            map[string]float64{"L": it.DimsM.L, "W": it.DimsM.W, "H": it.DimsM.H},
			"fragility":         it.Fragility.String(),
			"max_stack_load_kg": it.MaxStackLoadKg,
			"is_liquid":         it.IsLiquid,
			"upright_only":      it.UprightOnly,
			"separation_tag":    it.SeparationTag.String(),
			"padding_factor":    it.PaddingFactor,
		})
	}

	customers := make([]map[string]any, 0, len(inst.Customers))
	for _, id := range sortedKeys(inst.Customers) {
		c := inst.Customers[id]
		customers = append(customers, map[string]any{
			"customer_id": c.CustomerID,
			"name":        c.Name,
			"email":       c.Email,
			"vip":         c.VIP,
			"address":     c.Address,
		})
	}

	orders := make([]map[string]any, 0, len(inst.Orders))
	for _, id := range sortedKeys(inst.Orders) {
		o := inst.Orders[id]
		orders = append(orders, map[string]any{
			"order_id":     o.OrderID,
			"customer_id":  o.CustomerID,
			"item_list":    o.ItemList,
			"due_time_str": o.DueTimeStr,
		})
	}

	trucks := make([]map[string]any, 0, len(inst.Trucks))
	for _, id := range sortedKeys(inst.Trucks) {
		t := inst.Trucks[id]
		rec := map[string]any{
			"truck_id":          t.TruckID,
			"type":              t.Type.String(),
			"total_capacity_m3": t.TotalCapacityM3,
			"cold_capacity_m3":  t.ColdCapacityM3,
			"weight_limit_kg":   t.WeightLimitKg,
			"fixed_cost":        t.FixedCost.InexactFloat64(),
			"min_utilization":   t.MinUtilization,
			"reserve_fraction":  t.ReserveFraction,
		}
		if t.Type == entities.Dry {
			rec["cooler_capacity_m3"] = t.CoolerCapacityM3
		}
		trucks = append(trucks, rec)
	}

	depots := []map[string]any{{
		"depot_id":         inst.Depot.DepotID,
		"location":         inst.Depot.Location,
		"available_trucks": inst.Depot.TruckIDs(),
	}}

	files := map[string]any{
		"items.json":     items,
		"customers.json": customers,
		"orders.json":    orders,
		"trucks.json":    trucks,
		"depots.json":    depots,
	}
	for _, name := range []string{"items.json", "customers.json", "orders.json", "trucks.json", "depots.json"} {
		data, err := json.MarshalIndent(files[name], "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
