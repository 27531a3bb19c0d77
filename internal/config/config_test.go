package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAMLWithProfileFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "home.yaml", `
household:
  profile:
    roof_area: 40
    occupants: "4"
    electricity_rate: 28
  equipment:
    solar_panels: true
`)
	path := writeFile(t, dir, "app.yaml", `
profile_file: home.yaml
household:
  profile:
    electricity_rate: 31
  equipment:
    battery_storage: true
service:
  base_url: http://calc.internal:9000
  timeout: 5s
catalog:
  source: file
  file: catalog.yaml
cache:
  enabled: true
`)
	writeFile(t, dir, "catalog.yaml", "solar_panels: []\n")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Service.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", c.Service.Timeout)
	}
	if c.Cache.TTL != time.Hour {
		t.Errorf("cache ttl default = %v", c.Cache.TTL)
	}
	if c.Catalog.File != filepath.Join(dir, "catalog.yaml") {
		t.Errorf("catalog file not resolved: %s", c.Catalog.File)
	}
	p := c.Household.Profile
	if v, _ := p.RoofArea.Float(); v != 40 {
		t.Errorf("roof area = %v", v)
	}
	if v, _ := p.ElectricityRate.Float(); v != 31 {
		t.Errorf("electricity rate = %v, want override 31", v)
	}
	if v, _ := p.Occupants.Float(); v != 4 {
		t.Errorf("occupants = %v", v)
	}
	eq := c.Household.Equipment
	if !eq.SolarPanels || !eq.BatteryStorage || eq.HeatPump {
		t.Errorf("equipment = %+v", eq)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.toml", `
demo_mode = true

[server]
port = "9090"
allowed_origins = ["http://localhost:3000"]
session_ttl = "30m"

[catalog]
source = "sql"
dsn = "file:catalog.db"

[household.profile]
roof_area = 55.5
latitude = "53.4"

[household.equipment]
heat_pump = true
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !c.DemoMode || c.Server.Port != "9090" || c.Server.SessionTTL != 30*time.Minute {
		t.Errorf("config = %+v", c)
	}
	if c.Catalog.Driver != "sqlite" {
		t.Errorf("driver default = %q", c.Catalog.Driver)
	}
	if v, _ := c.Household.Profile.RoofArea.Float(); v != 55.5 {
		t.Errorf("roof area = %v", v)
	}
	if v, _ := c.Household.Profile.Latitude.Float(); v != 53.4 {
		t.Errorf("latitude = %v", v)
	}
	if !c.Household.Equipment.HeatPump {
		t.Error("heat pump not requested")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Catalog.Source = "ftp" }},
		{"file without path", func(c *Config) { c.Catalog.Source = SourceFile }},
		{"sql without dsn", func(c *Config) { c.Catalog.Source = SourceSQL; c.Catalog.Driver = "sqlite" }},
		{"bad driver", func(c *Config) { c.Catalog.Source = SourceSQL; c.Catalog.DSN = "x"; c.Catalog.Driver = "mysql" }},
		{"negative timeout", func(c *Config) { c.Service.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.ApplyDefaults()
			tt.mod(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := (*Config)(nil).Validate(); err == nil {
		t.Error("nil config should be invalid")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("CALC_SERVICE_URL", "http://calc:1")
	t.Setenv("DEMO_MODE", "true")
	c := Default()
	if c.Server.Port != "7000" || c.Service.BaseURL != "http://calc:1" || !c.DemoMode {
		t.Errorf("env not applied: %+v", c)
	}
}
