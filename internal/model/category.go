package model

import "fmt"

// Category is one of the three equipment kinds a configuration can hold.
// Keep these values stable; they appear in URLs, CSV output and SQL rows.
type Category string

const (
	CategorySolar    Category = "solar"
	CategoryHeatPump Category = "heatPump"
	CategoryBattery  Category = "battery"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySolar, CategoryHeatPump, CategoryBattery}

func ParseCategory(s string) (Category, error) {
	switch s {
	case "solar", "solarPanel", "solar-panels":
		return CategorySolar, nil
	case "heatPump", "heat-pump", "heatpump":
		return CategoryHeatPump, nil
	case "battery", "batteries":
		return CategoryBattery, nil
	default:
		return "", fmt.Errorf("unknown equipment category %q", s)
	}
}

// EquipmentFlags records which categories the user asked for ("has-flags").
type EquipmentFlags struct {
	SolarPanels    bool `json:"solarPanels" yaml:"solar_panels" toml:"solar_panels"`
	HeatPump       bool `json:"heatPump" yaml:"heat_pump" toml:"heat_pump"`
	BatteryStorage bool `json:"batteryStorage" yaml:"battery_storage" toml:"battery_storage"`
}

// Has reports whether the category was requested.
func (f EquipmentFlags) Has(c Category) bool {
	switch c {
	case CategorySolar:
		return f.SolarPanels
	case CategoryHeatPump:
		return f.HeatPump
	case CategoryBattery:
		return f.BatteryStorage
	}
	return false
}

func (f EquipmentFlags) Any() bool {
	return f.SolarPanels || f.HeatPump || f.BatteryStorage
}
