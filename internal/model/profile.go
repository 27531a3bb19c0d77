package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a loosely typed numeric input as collected by the wizard. It accepts
// JSON/YAML/TOML numbers, numeric strings, empty strings and null, and keeps the raw
// text so the request builder can decide what an unusable value falls back to.
type Number string

func NumberOf(f float64) Number {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float parses the value. It reports false for empty, unparseable and non-finite input.
func (n Number) Float() (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*n = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*n = Number(str)
	default:
		// Booleans, objects and arrays are kept verbatim and fail Float later.
		*n = Number(s)
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if f, ok := n.Float(); ok {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	if n == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(n))
}

func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar number", value.Line)
	}
	if value.Tag == "!!null" {
		*n = ""
		return nil
	}
	*n = Number(value.Value)
	return nil
}

// UnmarshalTOML satisfies toml.Unmarshaler.
func (n *Number) UnmarshalTOML(v interface{}) error {
	switch x := v.(type) {
	case int64:
		*n = Number(strconv.FormatInt(x, 10))
	case float64:
		*n = NumberOf(x)
	case string:
		*n = Number(x)
	default:
		return fmt.Errorf("unsupported numeric value %v (%T)", v, v)
	}
	return nil
}

// UserProfile is the household data gathered by earlier wizard steps. Every field may
// be missing or malformed.
type UserProfile struct {
	HouseArea                      Number `json:"houseArea" yaml:"house_area" toml:"house_area"`
	Occupants                      Number `json:"occupants" yaml:"occupants" toml:"occupants"`
	RoofArea                       Number `json:"roofArea" yaml:"roof_area" toml:"roof_area"`
	Latitude                       Number `json:"latitude" yaml:"latitude" toml:"latitude"`
	Longitude                      Number `json:"longitude" yaml:"longitude" toml:"longitude"`
	AnnualElectricityUsage         Number `json:"annualElectricityUsage" yaml:"annual_electricity_usage" toml:"annual_electricity_usage"`
	AnnualGasUsage                 Number `json:"annualGasUsage" yaml:"annual_gas_usage" toml:"annual_gas_usage"`
	MonthlyElectricityUsage        Number `json:"monthlyElectricityUsage" yaml:"monthly_electricity_usage" toml:"monthly_electricity_usage"`
	HomeOccupancyFactor            Number `json:"homeOccupancyFactor" yaml:"home_occupancy_factor" toml:"home_occupancy_factor"`
	ElectricityRate                Number `json:"electricityRate" yaml:"electricity_rate" toml:"electricity_rate"`
	GasRate                        Number `json:"gasRate" yaml:"gas_rate" toml:"gas_rate"`
	ExportRate                     Number `json:"exportRate" yaml:"export_rate" toml:"export_rate"`
	PeakElectricityRate            Number `json:"peakElectricityRate" yaml:"peak_electricity_rate" toml:"peak_electricity_rate"`
	OffPeakElectricityRate         Number `json:"offPeakElectricityRate" yaml:"off_peak_electricity_rate" toml:"off_peak_electricity_rate"`
	SolarInstallationComplexity    Number `json:"solarInstallationComplexity" yaml:"solar_installation_complexity" toml:"solar_installation_complexity"`
	HeatPumpInstallationComplexity Number `json:"heatPumpInstallationComplexity" yaml:"heat_pump_installation_complexity" toml:"heat_pump_installation_complexity"`
	BatteryInstallationComplexity  Number `json:"batteryInstallationComplexity" yaml:"battery_installation_complexity" toml:"battery_installation_complexity"`
}
