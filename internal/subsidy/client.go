package subsidy

import (
	"context"
	"fmt"

	"github.com/xuefei993/renewables/internal/data"
	"github.com/xuefei993/renewables/internal/model"
)

// CheckPath is the eligibility endpoint on the renewables service.
const CheckPath = "/api/subsidies"

// CheckRequest describes the household and planned equipment for an eligibility check.
type CheckRequest struct {
	HasSolarPanels           bool    `json:"hasSolarPanels"`
	HasHeatPump              bool    `json:"hasHeatPump"`
	HasBattery               bool    `json:"hasBattery"`
	HouseType                string  `json:"houseType,omitempty"`
	EPCRating                string  `json:"epcRating"`
	RegionCode               string  `json:"regionCode"`
	Postcode                 string  `json:"postcode,omitempty"`
	SolarCapacityKw          float64 `json:"solarCapacityKw"`
	HeatPumpCapacityKw       float64 `json:"heatPumpCapacityKw"`
	BatteryCapacityKwh       float64 `json:"batteryCapacityKwh"`
	TotalInstallationCost    float64 `json:"totalInstallationCost"`
	SolarInstallationCost    float64 `json:"solarInstallationCost"`
	HeatPumpInstallationCost float64 `json:"heatPumpInstallationCost"`
	BatteryInstallationCost  float64 `json:"batteryInstallationCost"`
}

// WithDefaults fills the estimates the wizard uses when the user has not sized the system.
func (r CheckRequest) WithDefaults() CheckRequest {
	if r.EPCRating == "" {
		r.EPCRating = "D"
	}
	if r.RegionCode == "" {
		r.RegionCode = "UK"
	}
	if r.SolarCapacityKw == 0 {
		r.SolarCapacityKw = 5.0
	}
	if r.HeatPumpCapacityKw == 0 {
		r.HeatPumpCapacityKw = 8.0
	}
	if r.BatteryCapacityKwh == 0 {
		r.BatteryCapacityKwh = 10.0
	}
	if r.TotalInstallationCost == 0 {
		r.TotalInstallationCost = 25000
	}
	if r.SolarInstallationCost == 0 {
		r.SolarInstallationCost = 15000
	}
	if r.HeatPumpInstallationCost == 0 {
		r.HeatPumpInstallationCost = 8000
	}
	if r.BatteryInstallationCost == 0 {
		r.BatteryInstallationCost = 8000
	}
	return r
}

type CheckResult struct {
	AvailableSubsidies    []model.Subsidy `json:"availableSubsidies"`
	TotalPotentialSavings float64         `json:"totalPotentialSavings"`
	ApplicableSubsidies   int             `json:"applicableSubsidies"`
}

// Checker decides which subsidies a household qualifies for.
type Checker interface {
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)
}

// Client looks up subsidy eligibility on the renewables service.
type Client struct {
	Service *data.ServiceClient
}

func NewClient(service *data.ServiceClient) *Client {
	return &Client{Service: service}
}

func (c *Client) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	var out CheckResult
	if err := c.Service.PostJSON(ctx, CheckPath, req.WithDefaults(), &out); err != nil {
		return nil, fmt.Errorf("subsidy check: %w", err)
	}
	if out.AvailableSubsidies == nil {
		out.AvailableSubsidies = []model.Subsidy{}
	}
	return &out, nil
}
