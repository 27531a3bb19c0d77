package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/xuefei993/renewables/internal/model"
)

// Config is the on-disk configuration shape (YAML, or TOML for *.toml files).
type Config struct {
	Server   ServerConfig  `yaml:"server" toml:"server"`
	Service  ServiceConfig `yaml:"service" toml:"service"`
	Catalog  CatalogConfig `yaml:"catalog" toml:"catalog"`
	Cache    CacheConfig   `yaml:"cache" toml:"cache"`
	DemoMode bool          `yaml:"demo_mode" toml:"demo_mode"`

	// Optional: household profile for the CLI, loaded from a separate file.
	// If both ProfileFile and Household are provided, Household fields override the file.
	ProfileFile string    `yaml:"profile_file" toml:"profile_file"`
	Household   Household `yaml:"household" toml:"household"`
}

type ServerConfig struct {
	Port           string        `yaml:"port" toml:"port"`
	Env            string        `yaml:"env" toml:"env"`
	AllowedOrigins []string      `yaml:"allowed_origins" toml:"allowed_origins"`
	SessionTTL     time.Duration `yaml:"session_ttl" toml:"session_ttl"`
}

type ServiceConfig struct {
	BaseURL string        `yaml:"base_url" toml:"base_url"`
	APIKey  string        `yaml:"api_key" toml:"api_key"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// CatalogConfig selects where equipment comes from: "http" (the service), "file" (YAML)
// or "sql" (sqlite or postgres).
type CatalogConfig struct {
	Source string `yaml:"source" toml:"source"`
	File   string `yaml:"file" toml:"file"`
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled" toml:"enabled"`
	TTL     time.Duration `yaml:"ttl" toml:"ttl"`
}

// Household is a user profile plus the equipment categories of interest.
type Household struct {
	Profile   model.UserProfile    `yaml:"profile" toml:"profile"`
	Equipment model.EquipmentFlags `yaml:"equipment" toml:"equipment"`
}

const (
	SourceHTTP = "http"
	SourceFile = "file"
	SourceSQL  = "sql"
)

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	var c Config
	if err := decodeFile(path, &c); err != nil {
		return nil, err
	}
	if c.ProfileFile != "" {
		loaded, err := LoadHousehold(resolveRelative(path, c.ProfileFile))
		if err != nil {
			return nil, err
		}
		c.Household = MergeHousehold(loaded, c.Household)
	}
	if c.Catalog.File != "" {
		c.Catalog.File = resolveRelative(path, c.Catalog.File)
	}
	return &c, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.ApplyEnv()
	c.ApplyDefaults()
	return c
}

// ApplyEnv overrides fields from API_PORT, API_ENV, CALC_SERVICE_URL, CATALOG_DSN and DEMO_MODE.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("CALC_SERVICE_URL"); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv("CATALOG_DSN"); v != "" {
		c.Catalog.DSN = v
	}
	if v := os.Getenv("DEMO_MODE"); v == "true" || v == "1" {
		c.DemoMode = true
	}
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = 2 * time.Hour
	}
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = "http://localhost:8080"
	}
	if c.Service.Timeout == 0 {
		c.Service.Timeout = 30 * time.Second
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceHTTP
	}
	if c.Catalog.Source == SourceSQL && c.Catalog.Driver == "" {
		c.Catalog.Driver = "sqlite"
	}
	if c.Cache.Enabled && c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Service.Timeout < 0 {
		return errors.New("service.timeout must not be negative")
	}
	switch c.Catalog.Source {
	case SourceHTTP:
		if c.Service.BaseURL == "" {
			return errors.New("service.base_url is required for the http catalog")
		}
	case SourceFile:
		if c.Catalog.File == "" {
			return errors.New("catalog.file is required for the file catalog")
		}
	case SourceSQL:
		if c.Catalog.DSN == "" {
			return errors.New("catalog.dsn is required for the sql catalog")
		}
		if c.Catalog.Driver != "sqlite" && c.Catalog.Driver != "postgres" {
			return fmt.Errorf("catalog.driver %q must be sqlite or postgres", c.Catalog.Driver)
		}
	default:
		return fmt.Errorf("catalog.source %q must be http, file or sql", c.Catalog.Source)
	}
	if !c.DemoMode && c.Service.BaseURL == "" {
		return errors.New("service.base_url is required unless demo_mode is on")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

type householdFileWrapper struct {
	Household Household `yaml:"household" toml:"household"`
}

// LoadHousehold reads a household profile file (YAML or TOML).
func LoadHousehold(path string) (Household, error) {
	var w householdFileWrapper
	if err := decodeFile(path, &w); err != nil {
		return Household{}, err
	}
	return w.Household, nil
}

// MergeHousehold overlays set fields from override onto base. Equipment flags are
// combined, so a category requested in either place is requested.
func MergeHousehold(base, override Household) Household {
	out := base
	out.Profile = MergeProfile(base.Profile, override.Profile)
	out.Equipment.SolarPanels = base.Equipment.SolarPanels || override.Equipment.SolarPanels
	out.Equipment.HeatPump = base.Equipment.HeatPump || override.Equipment.HeatPump
	out.Equipment.BatteryStorage = base.Equipment.BatteryStorage || override.Equipment.BatteryStorage
	return out
}

// MergeProfile overlays non-empty fields from override onto base.
func MergeProfile(base, override model.UserProfile) model.UserProfile {
	out := base
	pick := func(dst *model.Number, v model.Number) {
		if strings.TrimSpace(string(v)) != "" {
			*dst = v
		}
	}
	pick(&out.HouseArea, override.HouseArea)
	pick(&out.Occupants, override.Occupants)
	pick(&out.RoofArea, override.RoofArea)
	pick(&out.Latitude, override.Latitude)
	pick(&out.Longitude, override.Longitude)
	pick(&out.AnnualElectricityUsage, override.AnnualElectricityUsage)
	pick(&out.AnnualGasUsage, override.AnnualGasUsage)
	pick(&out.MonthlyElectricityUsage, override.MonthlyElectricityUsage)
	pick(&out.HomeOccupancyFactor, override.HomeOccupancyFactor)
	pick(&out.ElectricityRate, override.ElectricityRate)
	pick(&out.GasRate, override.GasRate)
	pick(&out.ExportRate, override.ExportRate)
	pick(&out.PeakElectricityRate, override.PeakElectricityRate)
	pick(&out.OffPeakElectricityRate, override.OffPeakElectricityRate)
	pick(&out.SolarInstallationComplexity, override.SolarInstallationComplexity)
	pick(&out.HeatPumpInstallationComplexity, override.HeatPumpInstallationComplexity)
	pick(&out.BatteryInstallationComplexity, override.BatteryInstallationComplexity)
	return out
}

func decodeFile(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(raw), out); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// resolveRelative interprets rel relative to the config file's directory when that file
// exists, falling back to the path as given (relative to cwd).
func resolveRelative(configPath, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	cand := filepath.Join(filepath.Dir(configPath), rel)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return rel
}
