package subsidy

import (
	"context"

	"github.com/xuefei993/renewables/internal/model"
)

// DemoChecker offers the Boiler Upgrade Scheme to heat pump installs. It stands in for
// the eligibility service in demo mode only.
type DemoChecker struct{}

func (DemoChecker) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &CheckResult{AvailableSubsidies: []model.Subsidy{}}
	if req.HasHeatPump {
		res.AvailableSubsidies = append(res.AvailableSubsidies, model.Subsidy{
			SubsidyID:        "bus-2024",
			Name:             "Boiler Upgrade Scheme",
			ShortDescription: "Get £7,500 towards replacing a fossil fuel heating system with a heat pump",
			IsEligible:       true,
			EstimatedAmount:  7500,
			Deadline:         "2025-03-31",
			ApplicationURL:   "https://www.gov.uk/apply-boiler-upgrade-scheme",
		})
	}
	if !req.HasHeatPump && !req.HasSolarPanels && !req.HasBattery {
		res.AvailableSubsidies = append(res.AvailableSubsidies, model.Subsidy{
			SubsidyID:           "general-eco4-2024",
			Name:                "ECO4 Scheme",
			ShortDescription:    "Support for home energy efficiency improvements",
			IneligibilityReason: "No qualifying measures selected",
			ApplicationURL:      "https://www.gov.uk/energy-company-obligation",
		})
	}
	for _, s := range res.AvailableSubsidies {
		res.TotalPotentialSavings += s.EstimatedAmount
		if s.IsEligible {
			res.ApplicableSubsidies++
		}
	}
	return res, nil
}
