package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuefei993/renewables/internal/catalog"
	"github.com/xuefei993/renewables/internal/model"
)

func writeFixtures(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()

	cat := &model.Catalog{
		Solar: []model.CatalogItem{
			{ID: 1, Name: "Premium 450W", Price: 380, Efficiency: 22, RatedPowerPerPanel: 450},
			{ID: 2, Name: "Value 410W", Price: 310, Efficiency: 20.5, RatedPowerPerPanel: 410},
		},
		HeatPump: []model.CatalogItem{
			{ID: 7, Name: "Air Source 8kW", Cost: 9500, COP: 3.6, InstallationCost: 3000},
		},
	}
	if err := catalog.WriteFile(filepath.Join(dir, "catalog.yaml"), cat); err != nil {
		t.Fatal(err)
	}

	config := `demo_mode: true
catalog:
  source: file
  file: catalog.yaml
household:
  profile:
    roof_area: 40
    electricity_rate: "0.30"
`
	configPath = filepath.Join(dir, "renewables.yaml")
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, configPath
}

func TestParseSetting(t *testing.T) {
	tests := []struct {
		in      string
		want    setting
		wantErr bool
	}{
		{in: "2:solar=1", want: setting{ConfigID: 2, Category: model.CategorySolar, EquipmentID: "1"}},
		{in: "1:heat-pump=", want: setting{ConfigID: 1, Category: model.CategoryHeatPump}},
		{in: "solar=1", wantErr: true},
		{in: "x:solar=1", wantErr: true},
		{in: "1:wind=1", wantErr: true},
		{in: "1:solar", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseSetting(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSetting(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseSetting(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRunCompare(t *testing.T) {
	dir, configPath := writeFixtures(t)
	outPath := filepath.Join(dir, "results", "ranking.csv")
	monthlyPath := filepath.Join(dir, "results", "monthly.csv")

	var out bytes.Buffer
	err := runCompare(context.Background(), compareOptions{
		ConfigPath:     configPath,
		Flags:          model.EquipmentFlags{SolarPanels: true, HeatPump: true},
		Settings:       []string{"4:solar=2"},
		CheckSubsidies: true,
		OutPath:        outPath,
		MonthlyPath:    monthlyPath,
	}, &out)
	if err != nil {
		t.Fatalf("runCompare() error = %v\n%s", err, out.String())
	}

	text := out.String()
	for _, want := range []string{"Applied Boiler Upgrade Scheme", "Net Installation Cost", "Configuration 4", "Value 410W"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Errorf("got %d csv records, want header + 4", len(records))
	}

	if _, err := os.Stat(monthlyPath); err != nil {
		t.Errorf("monthly csv not written: %v", err)
	}
}

func TestRunCompareNeedsEquipment(t *testing.T) {
	_, configPath := writeFixtures(t)
	err := runCompare(context.Background(), compareOptions{ConfigPath: configPath}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "no equipment requested") {
		t.Errorf("err = %v", err)
	}
}

func TestRunCompareRejectsUnknownEquipment(t *testing.T) {
	_, configPath := writeFixtures(t)
	err := runCompare(context.Background(), compareOptions{
		ConfigPath: configPath,
		Flags:      model.EquipmentFlags{SolarPanels: true},
		Settings:   []string{"1:solar=99"},
	}, &bytes.Buffer{})
	if err == nil {
		t.Error("expected an error for unknown equipment")
	}
}

func TestCatalogSyncAndSeed(t *testing.T) {
	dir, configPath := writeFixtures(t)
	synced := filepath.Join(dir, "synced.yaml")

	var out bytes.Buffer
	if err := runCatalogSync(context.Background(), configPath, synced, &out); err != nil {
		t.Fatalf("runCatalogSync() error = %v", err)
	}
	if !strings.Contains(out.String(), "2 solar panels, 1 heat pumps, 0 batteries") {
		t.Errorf("sync output = %q", out.String())
	}

	sqlConfig := filepath.Join(dir, "sql.yaml")
	body := "demo_mode: true\ncatalog:\n  source: sql\n  dsn: " + filepath.Join(dir, "catalog.db") + "\n"
	if err := os.WriteFile(sqlConfig, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := runCatalogSeed(context.Background(), sqlConfig, synced, &out); err != nil {
		t.Fatalf("runCatalogSeed() error = %v", err)
	}
	if !strings.Contains(out.String(), "Seeded 3 items (3 in catalog)") {
		t.Errorf("seed output = %q", out.String())
	}

	if err := runCatalogSeed(context.Background(), configPath, synced, &out); err == nil {
		t.Error("seeding a file catalog should fail")
	}
}
