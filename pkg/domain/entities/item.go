package entities

import "fmt"

// TruckType represents the refrigeration class of a truck
type TruckType int

const (
	Reefer TruckType = iota
	Dry
)

// String method for TruckType enum
func (t TruckType) String() string {
	switch t {
	case Reefer:
		return "Reefer"
	case Dry:
		return "Dry"
	default:
		return "Unknown"
	}
}

// ParseTruckType parses the JSON spelling of a truck type
func ParseTruckType(s string) (TruckType, error) {
	switch s {
	case "Reefer":
		return Reefer, nil
	case "Dry":
		return Dry, nil
	default:
		return 0, fmt.Errorf("unknown truck type %q (want \"Reefer\" or \"Dry\")", s)
	}
}

// Fragility represents the handling class of an item. The numeric value is
// the fragility score used by the item ranker (less fragile sorts first).
type Fragility int

const (
	Regular Fragility = iota
	Delicate
	Fragile
)

// String method for Fragility enum
func (f Fragility) String() string {
	switch f {
	case Regular:
		return "Regular"
	case Delicate:
		return "Delicate"
	case Fragile:
		return "Fragile"
	default:
		return "Unknown"
	}
}

// ParseFragility parses the JSON spelling of a fragility class
func ParseFragility(s string) (Fragility, error) {
	switch s {
	case "Regular":
		return Regular, nil
	case "Delicate":
		return Delicate, nil
	case "Fragile":
		return Fragile, nil
	default:
		return 0, fmt.Errorf("unknown fragility %q", s)
	}
}

// SeparationTag represents segregation classes for safety and food rules
type SeparationTag int

const (
	TagFood SeparationTag = iota
	TagNonFood
	TagAllergen
	TagHazardous
)

// String method for SeparationTag enum
func (s SeparationTag) String() string {
	switch s {
	case TagFood:
		return "Food"
	case TagNonFood:
		return "Non-Food"
	case TagAllergen:
		return "Allergen"
	case TagHazardous:
		return "Hazardous"
	default:
		return "Unknown"
	}
}

// ParseSeparationTag parses the JSON spelling of a separation tag
func ParseSeparationTag(s string) (SeparationTag, error) {
	switch s {
	case "Food":
		return TagFood, nil
	case "Non-Food":
		return TagNonFood, nil
	case "Allergen":
		return TagAllergen, nil
	case "Hazardous":
		return TagHazardous, nil
	default:
		return 0, fmt.Errorf("unknown separation tag %q", s)
	}
}

// Dimensions holds physical dimensions in meters (length x width x height)
type Dimensions struct {
	L float64
	W float64
	H float64
}

// VolumeM3 returns the geometric volume in cubic meters
func (d Dimensions) VolumeM3() float64 {
	return d.L * d.W * d.H
}

// Item represents a catalogue entry with handling and safety attributes.
// Immutable once the instance is loaded.
type Item struct {
	ItemID         string
	Name           string
	CategoryCold   bool
	UnitWeightKg   float64
	UnitVolumeM3   float64
	DimsM          Dimensions
	Fragility      Fragility
	MaxStackLoadKg float64
	IsLiquid       bool
	UprightOnly    bool
	SeparationTag  SeparationTag
	PaddingFactor  float64
}

// EffectiveUnitVolume returns the nominal unit volume inflated by the
// padding factor: v_eff = v_unit * (1 + padding_factor).
func (i *Item) EffectiveUnitVolume() float64 {
	p := i.PaddingFactor
	if p < 0 {
		p = 0
	}
	return i.UnitVolumeM3 * (1.0 + p)
}

// Validate checks the catalogue invariants for this item
func (i *Item) Validate() error {
	if i.ItemID == "" {
		return NewValidationError("items[].item_id", "must not be empty")
	}
	field := func(name string) string { return fmt.Sprintf("items[%s].%s", i.ItemID, name) }
	if i.UnitWeightKg <= 0 {
		return NewValidationError(field("unit_weight_kg"), "must be > 0, got %g", i.UnitWeightKg)
	}
	if i.UnitVolumeM3 <= 0 {
		return NewValidationError(field("unit_volume_m3"), "must be > 0, got %g", i.UnitVolumeM3)
	}
	if i.PaddingFactor < 0 || i.PaddingFactor > 1 {
		return NewValidationError(field("padding_factor"), "must be in [0,1], got %g", i.PaddingFactor)
	}
	if i.MaxStackLoadKg < 0 {
		return NewValidationError(field("max_stack_load_kg"), "must be >= 0, got %g", i.MaxStackLoadKg)
	}
	return nil
}
