package model

import "strconv"

// CatalogItem is one piece of equipment offered by the catalog service.
//
// Solar panels are priced by Price; heat pumps and batteries by Cost. Both are kept
// because the upstream service reports them under different names per category.
type CatalogItem struct {
	ID           int64    `json:"id" yaml:"id"`
	Category     Category `json:"category,omitempty" yaml:"category,omitempty"`
	Name         string   `json:"name" yaml:"name"`
	Manufacturer string   `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`

	Price float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Cost  float64 `json:"cost,omitempty" yaml:"cost,omitempty"`

	// Solar
	Efficiency         float64 `json:"efficiency,omitempty" yaml:"efficiency,omitempty"`
	RatedPowerPerPanel float64 `json:"ratedPowerPerPanel,omitempty" yaml:"rated_power_per_panel,omitempty"`
	PanelSize          float64 `json:"panelSize,omitempty" yaml:"panel_size,omitempty"`

	// Heat pump
	COP              float64 `json:"cop,omitempty" yaml:"cop,omitempty"`
	InstallationCost float64 `json:"installationCost,omitempty" yaml:"installation_cost,omitempty"`

	// Battery
	CapacityKwh float64 `json:"capacityKwh,omitempty" yaml:"capacity_kwh,omitempty"`
}

// UnitPrice returns the price field that applies to the item's category.
func (it CatalogItem) UnitPrice() float64 {
	if it.Category == CategorySolar {
		return it.Price
	}
	return it.Cost
}

// Key is the selection value that refers to this item.
func (it CatalogItem) Key() string {
	return strconv.FormatInt(it.ID, 10)
}

// Catalog holds the equipment available for a session. It is loaded once and never mutated.
type Catalog struct {
	Solar    []CatalogItem `json:"solarPanels" yaml:"solar_panels"`
	HeatPump []CatalogItem `json:"heatPumps" yaml:"heat_pumps"`
	Battery  []CatalogItem `json:"batteries" yaml:"batteries"`
}

func (c *Catalog) Items(cat Category) []CatalogItem {
	if c == nil {
		return nil
	}
	switch cat {
	case CategorySolar:
		return c.Solar
	case CategoryHeatPump:
		return c.HeatPump
	case CategoryBattery:
		return c.Battery
	}
	return nil
}

// Find looks up an item by its selection key.
func (c *Catalog) Find(cat Category, key string) (CatalogItem, bool) {
	for _, it := range c.Items(cat) {
		if it.Key() == key {
			return it, true
		}
	}
	return CatalogItem{}, false
}

// Normalize stamps each item with its category so UnitPrice works on items loaded
// from sources that omit it.
func (c *Catalog) Normalize() {
	for i := range c.Solar {
		c.Solar[i].Category = CategorySolar
	}
	for i := range c.HeatPump {
		c.HeatPump[i].Category = CategoryHeatPump
	}
	for i := range c.Battery {
		c.Battery[i].Category = CategoryBattery
	}
}

func (c *Catalog) Set(cat Category, items []CatalogItem) {
	switch cat {
	case CategorySolar:
		c.Solar = items
	case CategoryHeatPump:
		c.HeatPump = items
	case CategoryBattery:
		c.Battery = items
	}
}
