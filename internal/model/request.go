package model

// CalculationRequest is the body sent to the calculation service. Every numeric field
// is finite and the id lists are never nil, so they encode as [] rather than null.
type CalculationRequest struct {
	HouseArea                      float64 `json:"houseArea"`
	Occupants                      int     `json:"occupants"`
	RoofArea                       float64 `json:"roofArea"`
	Latitude                       float64 `json:"latitude"`
	Longitude                      float64 `json:"longitude"`
	AnnualElectricityUsageKwh      float64 `json:"annualElectricityUsageKwh"`
	AnnualGasUsageKwh              float64 `json:"annualGasUsageKwh"`
	MonthlyElectricityUsageKwh     float64 `json:"monthlyElectricityUsageKwh"`
	HomeOccupancyFactor            float64 `json:"homeOccupancyFactor"`
	ElectricityRate                float64 `json:"electricityRate"`
	GasRate                        float64 `json:"gasRate"`
	ExportRate                     float64 `json:"exportRate"`
	PeakElectricityRate            float64 `json:"peakElectricityRate"`
	OffPeakElectricityRate         float64 `json:"offPeakElectricityRate"`
	SolarInstallationComplexity    float64 `json:"solarInstallationComplexity"`
	HeatPumpInstallationComplexity float64 `json:"heatPumpInstallationComplexity"`
	BatteryInstallationComplexity  float64 `json:"batteryInstallationComplexity"`

	HasSolarPanels bool `json:"hasSolarPanels"`
	HasHeatPump    bool `json:"hasHeatPump"`
	HasBattery     bool `json:"hasBattery"`

	SolarPanelTypeIDs []int64 `json:"solarPanelTypeIds"`
	HeatPumpTypeIDs   []int64 `json:"heatPumpTypeIds"`
	BatteryIDs        []int64 `json:"batteryIds"`
}

// IDs returns the id list sent for a category.
func (r CalculationRequest) IDs(c Category) []int64 {
	switch c {
	case CategorySolar:
		return r.SolarPanelTypeIDs
	case CategoryHeatPump:
		return r.HeatPumpTypeIDs
	case CategoryBattery:
		return r.BatteryIDs
	}
	return nil
}
