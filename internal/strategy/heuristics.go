package strategy

import (
	"sort"

	"github.com/xuefei993/renewables/internal/model"
)

// CostEffective picks the cheapest item per category. Items without a price never
// take part in the comparison, so a list whose first item is unpriced keeps it.
type CostEffective struct{}

func (CostEffective) Name() string { return "Most Cost-Effective" }

func (CostEffective) Description() string {
	return "Lowest upfront cost in every category"
}

func (CostEffective) Select(catalog *model.Catalog, flags model.EquipmentFlags) model.EquipmentSelection {
	return selectWith(catalog, flags, func(model.Category) pickFunc {
		return func(items []model.CatalogItem) model.CatalogItem {
			return reduce(items, func(cand, cur model.CatalogItem) bool {
				p, q := cand.UnitPrice(), cur.UnitPrice()
				return p != 0 && q != 0 && p < q
			})
		}
	})
}

// EcoFriendly picks the highest-performing item: panel efficiency (then rated power),
// heat pump COP, battery capacity.
type EcoFriendly struct{}

func (EcoFriendly) Name() string { return "Most Eco-Friendly" }

func (EcoFriendly) Description() string {
	return "Highest efficiency, COP and storage capacity"
}

func (EcoFriendly) Select(catalog *model.Catalog, flags model.EquipmentFlags) model.EquipmentSelection {
	return selectWith(catalog, flags, func(c model.Category) pickFunc {
		var better func(cand, cur model.CatalogItem) bool
		switch c {
		case model.CategorySolar:
			better = func(cand, cur model.CatalogItem) bool {
				if greater(cand.Efficiency, cur.Efficiency) {
					return true
				}
				return greater(cand.RatedPowerPerPanel, cur.RatedPowerPerPanel)
			}
		case model.CategoryHeatPump:
			better = func(cand, cur model.CatalogItem) bool { return greater(cand.COP, cur.COP) }
		default:
			better = func(cand, cur model.CatalogItem) bool { return greater(cand.CapacityKwh, cur.CapacityKwh) }
		}
		return func(items []model.CatalogItem) model.CatalogItem {
			return reduce(items, better)
		}
	})
}

// greater is a strict comparison that ignores missing (zero) values on either side.
func greater(a, b float64) bool {
	return a != 0 && b != 0 && a > b
}

// Balanced picks the middle item by price, upper middle for even counts.
type Balanced struct{}

func (Balanced) Name() string { return "Balanced Option" }

func (Balanced) Description() string {
	return "Mid-priced equipment in every category"
}

func (Balanced) Select(catalog *model.Catalog, flags model.EquipmentFlags) model.EquipmentSelection {
	return selectWith(catalog, flags, func(model.Category) pickFunc {
		return func(items []model.CatalogItem) model.CatalogItem {
			sorted := make([]model.CatalogItem, len(items))
			copy(sorted, items)
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].UnitPrice() < sorted[j].UnitPrice()
			})
			return sorted[len(sorted)/2]
		}
	})
}
