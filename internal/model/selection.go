package model

import "strings"

// EquipmentSelection holds one pick per category.
//
// A nil pick means the category was not requested. An empty string means it was
// requested but nothing is chosen yet. Anything else is a catalog item key.
type EquipmentSelection struct {
	Solar    *string `json:"solar"`
	HeatPump *string `json:"heatPump"`
	Battery  *string `json:"battery"`
}

func Pick(key string) *string {
	return &key
}

func (s EquipmentSelection) Get(c Category) *string {
	switch c {
	case CategorySolar:
		return s.Solar
	case CategoryHeatPump:
		return s.HeatPump
	case CategoryBattery:
		return s.Battery
	}
	return nil
}

// With returns a copy with the category's pick replaced.
func (s EquipmentSelection) With(c Category, pick *string) EquipmentSelection {
	out := s.Clone()
	switch c {
	case CategorySolar:
		out.Solar = pick
	case CategoryHeatPump:
		out.HeatPump = pick
	case CategoryBattery:
		out.Battery = pick
	}
	return out
}

// Clone deep-copies the picks so snapshots never alias store state.
func (s EquipmentSelection) Clone() EquipmentSelection {
	cp := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	return EquipmentSelection{Solar: cp(s.Solar), HeatPump: cp(s.HeatPump), Battery: cp(s.Battery)}
}

// HasValid reports whether at least one category has a non-empty pick.
func (s EquipmentSelection) HasValid() bool {
	for _, p := range []*string{s.Solar, s.HeatPump, s.Battery} {
		if p != nil && strings.TrimSpace(*p) != "" {
			return true
		}
	}
	return false
}

// EmptySelection returns "" for every requested category and nil otherwise.
func EmptySelection(flags EquipmentFlags) EquipmentSelection {
	var s EquipmentSelection
	for _, c := range Categories {
		if flags.Has(c) {
			s = s.With(c, Pick(""))
		}
	}
	return s
}
