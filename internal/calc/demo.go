package calc

import (
	"context"
	"log"
	"math"
	"strconv"

	"github.com/xuefei993/renewables/internal/model"
)

// Reference figures for the demo calculator. They describe a "standard" UK install
// (8.2 kW array of 20.5% panels, COP 3.8 heat pump, 9.8 kWh battery).
const (
	demoBaseGenerationKwh = 8200.0
	demoBaseEfficiency    = 20.5
	demoBaseSystemKW      = 8.2
	demoPanelAreaM2       = 2.0
	demoInstallMarkup     = 0.3
	demoSelfUseRatio      = 0.65
	demoExportRatio       = 0.35
	demoElectricityRate   = 0.28  // £/kWh
	demoExportRate        = 0.15  // £/kWh
	demoCO2Intensity      = 0.233 // kg CO2/kWh
	demoDirectCO2Share    = 0.7

	demoHeatPumpSavings = 850.0
	demoHeatPumpCO2     = 1800.0
	demoBaseCOP         = 3.8

	demoBatterySavings      = 420.0
	demoBaseCapacityKwh     = 9.8
	demoBatteryInstallation = 1500.0
	demoBatteryExportLoss   = 0.3
)

var (
	solarMonthlyShare    = [model.MonthsPerYear]float64{0.05, 0.07, 0.10, 0.13, 0.16, 0.17, 0.16, 0.15, 0.12, 0.08, 0.05, 0.04}
	heatPumpMonthlyShare = [model.MonthsPerYear]float64{0.15, 0.13, 0.11, 0.08, 0.05, 0.03, 0.03, 0.03, 0.05, 0.08, 0.12, 0.14}
)

// DemoClient produces illustrative results from catalog specifications without a
// calculation service. Every response is marked Synthetic. It is only used when demo
// mode is switched on explicitly, never as a stand-in for a failed service call.
type DemoClient struct {
	Catalog *model.Catalog
}

func NewDemoClient(catalog *model.Catalog) *DemoClient {
	return &DemoClient{Catalog: catalog}
}

func (d *DemoClient) Compute(ctx context.Context, req model.CalculationRequest) (*model.ComparisonResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp := &model.ComparisonResponse{
		SolarPanelOptions: []model.OptionResult{},
		HeatPumpOptions:   []model.OptionResult{},
		BatteryOptions:    []model.OptionResult{},
		Synthetic:         true,
	}
	if req.HasSolarPanels {
		for _, id := range req.SolarPanelTypeIDs {
			if it, ok := d.find(model.CategorySolar, id); ok {
				resp.SolarPanelOptions = append(resp.SolarPanelOptions, demoSolar(it, req.RoofArea))
			}
		}
	}
	if req.HasHeatPump {
		for _, id := range req.HeatPumpTypeIDs {
			if it, ok := d.find(model.CategoryHeatPump, id); ok {
				resp.HeatPumpOptions = append(resp.HeatPumpOptions, demoHeatPump(it))
			}
		}
	}
	if req.HasBattery {
		for _, id := range req.BatteryIDs {
			if it, ok := d.find(model.CategoryBattery, id); ok {
				resp.BatteryOptions = append(resp.BatteryOptions, demoBattery(it))
			}
		}
	}
	log.Printf("[Demo] Synthetic result: %d solar, %d heat pump, %d battery options",
		len(resp.SolarPanelOptions), len(resp.HeatPumpOptions), len(resp.BatteryOptions))
	return resp, nil
}

func (d *DemoClient) find(c model.Category, id int64) (model.CatalogItem, bool) {
	return d.Catalog.Find(c, strconv.FormatInt(id, 10))
}

func demoSolar(panel model.CatalogItem, roofArea float64) model.OptionResult {
	panelCount := math.Floor(roofArea / demoPanelAreaM2)
	systemKW := panelCount * panel.RatedPowerPerPanel / 1000
	systemCost := panel.Price * panelCount
	generation := math.Round(demoBaseGenerationKwh * (panel.Efficiency / demoBaseEfficiency) * (systemKW / demoBaseSystemKW))

	opt := model.OptionResult{
		EquipmentID:           panel.ID,
		EquipmentName:         panel.Name,
		InstallationCost:      model.Amount(math.Round(systemCost * (1 + demoInstallMarkup))),
		AnnualGeneration:      model.Amount(generation),
		AnnualCostSavings:     model.Amount(math.Round(generation * demoSelfUseRatio * demoElectricityRate)),
		AnnualExportRevenue:   model.Amount(math.Round(generation * demoExportRatio * demoExportRate)),
		AnnualTotalCO2Savings: model.Amount(math.Round(generation * demoCO2Intensity)),
	}
	for _, share := range solarMonthlyShare {
		gen := math.Round(generation * share)
		opt.MonthlyGeneration = append(opt.MonthlyGeneration, model.Amount(gen))
		opt.MonthlyCostSavings = append(opt.MonthlyCostSavings, model.Amount(math.Round(gen*demoSelfUseRatio*demoElectricityRate)))
		opt.MonthlyExportRevenue = append(opt.MonthlyExportRevenue, model.Amount(math.Round(gen*demoExportRatio*demoExportRate)))
		opt.MonthlyDirectCO2Savings = append(opt.MonthlyDirectCO2Savings, model.Amount(math.Round(gen*demoCO2Intensity*demoDirectCO2Share)))
		opt.MonthlyIndirectCO2Savings = append(opt.MonthlyIndirectCO2Savings, model.Amount(math.Round(gen*demoCO2Intensity*(1-demoDirectCO2Share))))
	}
	return opt
}

func demoHeatPump(hp model.CatalogItem) model.OptionResult {
	ratio := hp.COP / demoBaseCOP
	savings := math.Round(demoHeatPumpSavings * ratio)
	co2 := math.Round(demoHeatPumpCO2 * ratio)

	opt := model.OptionResult{
		EquipmentID:           hp.ID,
		EquipmentName:         hp.Name,
		InstallationCost:      model.Amount(hp.Cost + hp.InstallationCost),
		AnnualCostSavings:     model.Amount(savings),
		AnnualTotalCO2Savings: model.Amount(co2),
	}
	for _, share := range heatPumpMonthlyShare {
		opt.MonthlyCostSavings = append(opt.MonthlyCostSavings, model.Amount(math.Round(savings*share)))
		opt.MonthlyDirectCO2Savings = append(opt.MonthlyDirectCO2Savings, model.Amount(math.Round(co2*share)))
	}
	return opt
}

func demoBattery(b model.CatalogItem) model.OptionResult {
	savings := math.Round(demoBatterySavings * b.CapacityKwh / demoBaseCapacityKwh)
	exportLoss := math.Round(savings * demoBatteryExportLoss)

	opt := model.OptionResult{
		EquipmentID:         b.ID,
		EquipmentName:       b.Name,
		InstallationCost:    model.Amount(b.Cost + demoBatteryInstallation),
		AnnualCostSavings:   model.Amount(savings),
		AnnualExportRevenue: model.Amount(-exportLoss),
	}
	for i := 0; i < model.MonthsPerYear; i++ {
		opt.MonthlyCostSavings = append(opt.MonthlyCostSavings, model.Amount(math.Round(savings/model.MonthsPerYear)))
		opt.MonthlyExportRevenue = append(opt.MonthlyExportRevenue, model.Amount(math.Round(-exportLoss/model.MonthsPerYear)))
	}
	return opt
}
