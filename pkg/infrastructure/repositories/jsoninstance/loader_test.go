package jsoninstance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ofekirsh/grocery-delivery-operation/pkg/domain/entities"
)

const itemsJSON = `[
  {"item_id": "MILK", "name": "Milk 1L", "category_cold": true,
   "unit_weight_kg": 1.05, "unit_volume_m3": 0.0021,
   "fragility": "Regular", "separation_tag": "Food", "padding_factor": 0.05},
  {"item_id": "WATER", "name": "Water 6x1.5L", "category_cold": false,
   "unit_weight_kg": 9.0, "unit_volume_m3": 0.012, "is_liquid": true,
   "fragility": "Regular", "separation_tag": "Food", "max_stack_load_kg": 100},
  {"item_id": "EGGS", "name": "Eggs 12", "category_cold": false,
   "unit_weight_kg": 0.7, "unit_volume_m3": 0.004, "upright_only": true,
   "fragility": "Fragile", "separation_tag": "Food"}
]`

const customersJSON = `[
  {"customer_id": "C001", "name": "Ada", "vip": true},
  {"customer_id": "C002", "name": "Ben"}
]`

const trucksJSON = `[
  {"truck_id": "TR001", "type": "Reefer", "total_capacity_m3": 24,
   "cold_capacity_m3": 12, "weight_limit_kg": 9500, "fixed_cost": 500,
   "min_utilization": 0.6, "reserve_fraction": 0.06},
  {"truck_id": "TD001", "type": "Dry", "total_capacity_m3": 30,
   "weight_limit_kg": 10000, "fixed_cost": 400, "min_utilization": 0.75,
   "reserve_fraction": 0.05},
  {"truck_id": "TD002", "type": "Dry", "total_capacity_m3": 30,
   "weight_limit_kg": 10000, "fixed_cost": 400, "min_utilization": 0.75,
   "reserve_fraction": 0.05, "cooler_capacity_m3": 0.8}
]`

const depotsJSON = `[
  {"depot_id": "DEP1", "location": "North",
   "available_trucks": ["TR001", "TD001", "TD002"]}
]`

func writeInstance(t *testing.T, ordersJSON string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"items.json":     itemsJSON,
		"customers.json": customersJSON,
		"orders.json":    ordersJSON,
		"trucks.json":    trucksJSON,
		"depots.json":    depotsJSON,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeInstance(t, `[
	  {"order_id": "O0001", "customer_id": "C001",
	   "item_list": {"MILK": 10, "WATER": 2}, "due_time_str": "12:30"}
	]`)

	inst, err := LoadDir(dir, 0.4)
	require.NoError(t, err)

	assert.Len(t, inst.Items, 3)
	assert.True(t, inst.Customers["C001"].VIP)

	o := inst.Orders["O0001"]
	require.NotNil(t, o)
	assert.Equal(t, "12:30", o.DueTimeStr)
	assert.InDelta(t, 10*0.0021+2*0.012, o.TotalVolumeM3, 1e-9)
	assert.InDelta(t, 10*0.0021, o.ColdVolumeM3, 1e-9)
	assert.InDelta(t, 10*1.05+2*9.0, o.WeightKg, 1e-9)

	require.NotNil(t, inst.Depot)
	assert.Equal(t, "DEP1", inst.Depot.DepotID)
	assert.Equal(t, []string{"TD001", "TD002", "TR001"}, inst.Depot.TruckIDs())

	// TD001 omits its cooler and receives the default; TD002 keeps its own.
	td1, _ := inst.Depot.Truck("TD001")
	assert.Equal(t, 0.4, td1.CoolerCapacityM3)
	td2, _ := inst.Depot.Truck("TD002")
	assert.Equal(t, 0.8, td2.CoolerCapacityM3)
	// Reefers never carry a portable cooler.
	tr1, _ := inst.Depot.Truck("TR001")
	assert.Zero(t, tr1.CoolerCapacityM3)
}

func TestLoadOrderAliases(t *testing.T) {
	dir := writeInstance(t, `[
	  {"order_id": "O0001", "customer_id": "C001",
	   "items": {"WATER": 1}, "due": "09:15"},
	  {"order_id": "O0002", "customer_id": "C002",
	   "item_list": {"MILK": 5}, "items": {"MILK": 999},
	   "due_time_str": "10:00", "due": "22:00"}
	]`)

	inst, err := LoadDir(dir, 0)
	require.NoError(t, err)

	// Legacy spellings are honoured when the canonical keys are absent.
	o1 := inst.Orders["O0001"]
	assert.Equal(t, map[string]int{"WATER": 1}, o1.ItemList)
	assert.Equal(t, "09:15", o1.DueTimeStr)

	// The canonical keys win when both spellings are present.
	o2 := inst.Orders["O0002"]
	assert.Equal(t, map[string]int{"MILK": 5}, o2.ItemList)
	assert.Equal(t, "10:00", o2.DueTimeStr)
}

func TestLoadDefaultDueTime(t *testing.T) {
	dir := writeInstance(t, `[
	  {"order_id": "O0001", "customer_id": "C001", "item_list": {"WATER": 1}}
	]`)

	inst, err := LoadDir(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, "23:59", inst.Orders["O0001"].DueTimeStr)
}

func TestLoadUnknownItem(t *testing.T) {
	dir := writeInstance(t, `[
	  {"order_id": "O0001", "customer_id": "C001",
	   "item_list": {"CAVIAR": 1}, "due_time_str": "12:00"}
	]`)

	_, err := LoadDir(dir, 0)
	var vErr *entities.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Field, "CAVIAR")
}

func TestLoadDuplicateOrderID(t *testing.T) {
	dir := writeInstance(t, `[
	  {"order_id": "O0001", "customer_id": "C001", "item_list": {"WATER": 1}},
	  {"order_id": "O0001", "customer_id": "C002", "item_list": {"MILK": 1}}
	]`)

	_, err := LoadDir(dir, 0)
	var vErr *entities.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "duplicate")
}

func TestLoadUnknownTruckInDepot(t *testing.T) {
	dir := writeInstance(t, `[
	  {"order_id": "O0001", "customer_id": "C001", "item_list": {"WATER": 1}}
	]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "depots.json"), []byte(`[
	  {"depot_id": "DEP1", "available_trucks": ["TR999"]}
	]`), 0o644))

	_, err := LoadDir(dir, 0)
	var vErr *entities.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "TR999")
}

func TestLoadBadFragility(t *testing.T) {
	dir := writeInstance(t, `[]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte(`[
	  {"item_id": "X", "unit_weight_kg": 1, "unit_volume_m3": 0.001,
	   "fragility": "Shatterproof", "separation_tag": "Food"}
	]`), 0o644))

	_, err := LoadDir(dir, 0)
	var vErr *entities.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items[X].fragility", vErr.Field)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadDir(t.TempDir(), 0)
	assert.Error(t, err)
}
