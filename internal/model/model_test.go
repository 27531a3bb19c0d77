package model

import (
	"encoding/json"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func TestNumberFloat(t *testing.T) {
	tests := []struct {
		in     Number
		want   float64
		wantOK bool
	}{
		{"120", 120, true},
		{" 51.5 ", 51.5, true},
		{"-0.1", -0.1, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"true", 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.in.Float()
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Number(%q).Float() = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNumberUnmarshalJSON(t *testing.T) {
	var p UserProfile
	data := `{"houseArea": 120, "occupants": "3", "roofArea": null, "latitude": "", "gasRate": true}`
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.HouseArea != "120" || p.Occupants != "3" || p.RoofArea != "" || p.Latitude != "" {
		t.Errorf("profile = %+v", p)
	}
	if _, ok := p.GasRate.Float(); ok {
		t.Error("boolean should not parse as a number")
	}

	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: " 3.50", B: ""})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":3.5,"b":null}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestNumberUnmarshalYAMLAndTOML(t *testing.T) {
	var fromYAML UserProfile
	if err := yaml.Unmarshal([]byte("roof_area: 40\nexport_rate: \"0.15\"\nlatitude: ~\n"), &fromYAML); err != nil {
		t.Fatalf("yaml error = %v", err)
	}
	if fromYAML.RoofArea != "40" || fromYAML.ExportRate != "0.15" || fromYAML.Latitude != "" {
		t.Errorf("yaml profile = %+v", fromYAML)
	}

	var fromTOML UserProfile
	if _, err := toml.Decode("roof_area = 40\nexport_rate = 0.15\noccupants = \"4\"\n", &fromTOML); err != nil {
		t.Fatalf("toml error = %v", err)
	}
	if fromTOML.RoofArea != "40" || fromTOML.ExportRate != "0.15" || fromTOML.Occupants != "4" {
		t.Errorf("toml profile = %+v", fromTOML)
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var opt OptionResult
	data := `{"installationCost": "8060", "annualGeneration": "n/a", "annualCostSavings": 1200.5,
		"annualExportRevenue": true, "monthlyGeneration": [1, "2", "x"]}`
	if err := json.Unmarshal([]byte(data), &opt); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if opt.InstallationCost != 8060 || opt.AnnualGeneration != 0 || opt.AnnualCostSavings != 1200.5 || opt.AnnualExportRevenue != 0 {
		t.Errorf("option = %+v", opt)
	}
	want := []Amount{1, 2, 0}
	for i, v := range want {
		if opt.MonthlyGeneration[i] != v {
			t.Errorf("monthlyGeneration[%d] = %v, want %v", i, opt.MonthlyGeneration[i], v)
		}
	}
}

func TestComparisonResponseToleratesBadLists(t *testing.T) {
	var r ComparisonResponse
	data := `{"solarPanelOptions": [{"installationCost": 100}], "heatPumpOptions": "none", "batteryOptions": null}`
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(r.SolarPanelOptions) != 1 || r.HeatPumpOptions != nil || r.BatteryOptions != nil {
		t.Errorf("response = %+v", r)
	}
}

func TestComparisonResponseKeepsOptionsWithBadFields(t *testing.T) {
	data := `{"solarPanelOptions": [
		{"installationCost": 5000, "annualCostSavings": 400, "monthlyGeneration": "n/a", "monthlyCostSavings": [10, "x", 30]},
		{"equipmentName": {"brand": "Acme"}, "equipmentId": "seven", "installationCost": "1200.5"},
		"broken"
	]}`
	var r ComparisonResponse
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(r.SolarPanelOptions) != 3 {
		t.Fatalf("got %d options, want 3", len(r.SolarPanelOptions))
	}

	first := r.SolarPanelOptions[0]
	if first.InstallationCost != 5000 || first.AnnualCostSavings != 400 {
		t.Errorf("first option = %+v", first)
	}
	if first.MonthlyGeneration != nil {
		t.Errorf("MonthlyGeneration = %v, want nil", first.MonthlyGeneration)
	}
	if len(first.MonthlyCostSavings) != 3 || first.MonthlyCostSavings[1] != 0 || first.MonthlyCostSavings[2] != 30 {
		t.Errorf("MonthlyCostSavings = %v", first.MonthlyCostSavings)
	}

	second := r.SolarPanelOptions[1]
	if second.InstallationCost != 1200.5 || second.EquipmentName != "" || second.EquipmentID != 0 {
		t.Errorf("second option = %+v", second)
	}
	if r.SolarPanelOptions[2].InstallationCost != 0 {
		t.Errorf("non-object option = %+v", r.SolarPanelOptions[2])
	}
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"solar":        CategorySolar,
		"solar-panels": CategorySolar,
		"heatPump":     CategoryHeatPump,
		"heat-pump":    CategoryHeatPump,
		"batteries":    CategoryBattery,
		"battery":      CategoryBattery,
	} {
		got, err := ParseCategory(in)
		if err != nil || got != want {
			t.Errorf("ParseCategory(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseCategory("wind"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestSelection(t *testing.T) {
	flags := EquipmentFlags{SolarPanels: true, BatteryStorage: true}
	sel := EmptySelection(flags)
	if sel.Solar == nil || *sel.Solar != "" || sel.HeatPump != nil {
		t.Fatalf("EmptySelection() = %+v", sel)
	}
	if sel.HasValid() {
		t.Error("empty selection should not be valid")
	}

	next := sel.With(CategorySolar, Pick("3"))
	if !next.HasValid() || *next.Solar != "3" {
		t.Errorf("With() = %+v", next)
	}
	if *sel.Solar != "" {
		t.Error("With() must not modify the receiver")
	}

	clone := next.Clone()
	*clone.Solar = "9"
	if *next.Solar != "3" {
		t.Error("Clone() shares pointers")
	}
}

func TestCatalogFind(t *testing.T) {
	cat := &Catalog{
		Solar:   []CatalogItem{{ID: 1, Price: 200}},
		Battery: []CatalogItem{{ID: 1, Cost: 4000}},
	}
	cat.Normalize()

	it, ok := cat.Find(CategoryBattery, "1")
	if !ok || it.UnitPrice() != 4000 {
		t.Errorf("Find(battery, 1) = %+v, %v", it, ok)
	}
	if it, _ := cat.Find(CategorySolar, "1"); it.UnitPrice() != 200 {
		t.Errorf("solar unit price = %v", it.UnitPrice())
	}
	if _, ok := cat.Find(CategoryHeatPump, "1"); ok {
		t.Error("heat pump catalog is empty")
	}
}
