package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MonthsPerYear is the fixed length of every monthly series.
const MonthsPerYear = 12

// MonthLabels are the chart labels for a Monthly series, January first.
var MonthLabels = [MonthsPerYear]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Monthly is a calendar-year series indexed from January.
type Monthly [MonthsPerYear]float64

func (m Monthly) Sum() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Amount is a number reported by the calculation service. Malformed values (strings
// that do not parse, booleans, non-finite numbers) decode to zero instead of failing
// the whole response.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// Series is a monthly series as reported by the service. A value that is not an array
// decodes to nil.
type Series []Amount

func (s *Series) UnmarshalJSON(data []byte) error {
	var out []Amount
	if err := json.Unmarshal(data, &out); err != nil {
		*s = nil
		return nil
	}
	*s = out
	return nil
}

// OptionResult is the service's metrics for one selected equipment item.
type OptionResult struct {
	EquipmentID   int64  `json:"equipmentId,omitempty"`
	EquipmentName string `json:"equipmentName,omitempty"`

	InstallationCost      Amount `json:"installationCost"`
	AnnualGeneration      Amount `json:"annualGeneration"`
	AnnualCostSavings     Amount `json:"annualCostSavings"`
	AnnualExportRevenue   Amount `json:"annualExportRevenue"`
	AnnualTotalCO2Savings Amount `json:"annualTotalCO2Savings"`

	MonthlyGeneration         Series `json:"monthlyGeneration"`
	MonthlyCostSavings        Series `json:"monthlyCostSavings"`
	MonthlyExportRevenue      Series `json:"monthlyExportRevenue"`
	MonthlyDirectCO2Savings   Series `json:"monthlyDirectCO2Savings"`
	MonthlyIndirectCO2Savings Series `json:"monthlyIndirectCO2Savings"`
}

// UnmarshalJSON decodes each field on its own so one mistyped field leaves the rest of
// the option intact.
func (o *OptionResult) UnmarshalJSON(data []byte) error {
	*o = OptionResult{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	fields := map[string]interface{}{
		"equipmentId":               &o.EquipmentID,
		"equipmentName":             &o.EquipmentName,
		"installationCost":          &o.InstallationCost,
		"annualGeneration":          &o.AnnualGeneration,
		"annualCostSavings":         &o.AnnualCostSavings,
		"annualExportRevenue":       &o.AnnualExportRevenue,
		"annualTotalCO2Savings":     &o.AnnualTotalCO2Savings,
		"monthlyGeneration":         &o.MonthlyGeneration,
		"monthlyCostSavings":        &o.MonthlyCostSavings,
		"monthlyExportRevenue":      &o.MonthlyExportRevenue,
		"monthlyDirectCO2Savings":   &o.MonthlyDirectCO2Savings,
		"monthlyIndirectCO2Savings": &o.MonthlyIndirectCO2Savings,
	}
	for key, dst := range fields {
		if msg, ok := raw[key]; ok {
			_ = json.Unmarshal(msg, dst)
		}
	}
	return nil
}

// ComparisonResponse groups option results per category. Synthetic is set only by the
// demo calculator so callers can label the numbers as illustrative.
type ComparisonResponse struct {
	SolarPanelOptions []OptionResult `json:"solarPanelOptions"`
	HeatPumpOptions   []OptionResult `json:"heatPumpOptions"`
	BatteryOptions    []OptionResult `json:"batteryOptions"`
	Synthetic         bool           `json:"synthetic,omitempty"`
}

// UnmarshalJSON tolerates option lists that are not arrays by treating them as empty,
// and decodes every option independently.
func (r *ComparisonResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decode := func(key string) []OptionResult {
		msg, ok := raw[key]
		if !ok {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(msg, &items); err != nil || len(items) == 0 {
			return nil
		}
		out := make([]OptionResult, len(items))
		for i, item := range items {
			_ = json.Unmarshal(item, &out[i])
		}
		return out
	}
	r.SolarPanelOptions = decode("solarPanelOptions")
	r.HeatPumpOptions = decode("heatPumpOptions")
	r.BatteryOptions = decode("batteryOptions")
	r.Synthetic = false
	if msg, ok := raw["synthetic"]; ok {
		_ = json.Unmarshal(msg, &r.Synthetic)
	}
	return nil
}

// MonthlyData is the per-month breakdown of an aggregated configuration.
type MonthlyData struct {
	Generation    Monthly `json:"generation"`
	Savings       Monthly `json:"savings"`
	ExportRevenue Monthly `json:"exportRevenue"`
	CO2Savings    Monthly `json:"co2Savings"`
}

// AggregatedCalculation is the whole-configuration view of a calculation response.
type AggregatedCalculation struct {
	InstallationCost    float64     `json:"installationCost"`
	AnnualGeneration    float64     `json:"annualGeneration"`
	AnnualSavings       float64     `json:"annualSavings"`
	AnnualExportRevenue float64     `json:"annualExportRevenue"`
	AnnualCO2Savings    float64     `json:"annualCO2Savings"`
	PaybackPeriod       float64     `json:"paybackPeriod"`
	MonthlyData         MonthlyData `json:"monthlyData"`
	Synthetic           bool        `json:"synthetic,omitempty"`
}
