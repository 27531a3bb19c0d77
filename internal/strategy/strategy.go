package strategy

import (
	"fmt"
	"strings"

	"github.com/xuefei993/renewables/internal/model"
)

// Strategy picks one catalog item per requested category.
type Strategy interface {
	Name() string
	Description() string
	Select(catalog *model.Catalog, flags model.EquipmentFlags) model.EquipmentSelection
}

// Recommended returns the three heuristics in the order their configurations are shown.
func Recommended() []Strategy {
	return []Strategy{CostEffective{}, EcoFriendly{}, Balanced{}}
}

// ByName resolves a strategy by display name or short key.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cost-effective", "cost_effective", "cheapest", strings.ToLower(CostEffective{}.Name()):
		return CostEffective{}, nil
	case "eco-friendly", "eco_friendly", "eco", strings.ToLower(EcoFriendly{}.Name()):
		return EcoFriendly{}, nil
	case "balanced", strings.ToLower(Balanced{}.Name()):
		return Balanced{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// pickFunc chooses one item from a non-empty list.
type pickFunc func(items []model.CatalogItem) model.CatalogItem

// selectWith applies pick to every requested category. A requested category with an
// empty catalog is left unset ("") and an unrequested one stays nil.
func selectWith(catalog *model.Catalog, flags model.EquipmentFlags, pick func(model.Category) pickFunc) model.EquipmentSelection {
	var sel model.EquipmentSelection
	for _, c := range model.Categories {
		if !flags.Has(c) {
			continue
		}
		items := stamped(c, catalog.Items(c))
		if len(items) == 0 {
			sel = sel.With(c, model.Pick(""))
			continue
		}
		sel = sel.With(c, model.Pick(pick(c)(items).Key()))
	}
	return sel
}

// reduce folds items left to right, starting from the first one. better reports whether
// the candidate replaces the current pick; ties keep the earlier item.
func reduce(items []model.CatalogItem, better func(cand, cur model.CatalogItem) bool) model.CatalogItem {
	cur := items[0]
	for _, cand := range items[1:] {
		if better(cand, cur) {
			cur = cand
		}
	}
	return cur
}

func stamped(c model.Category, items []model.CatalogItem) []model.CatalogItem {
	out := make([]model.CatalogItem, len(items))
	for i, it := range items {
		it.Category = c
		out[i] = it
	}
	return out
}
