package analysis

import "github.com/xuefei993/renewables/internal/model"

// NotViablePayback is reported when a configuration never pays for itself.
const NotViablePayback = 999

// Payback returns years until installation cost is recovered by annual savings plus
// export revenue. A non-positive annual benefit yields NotViablePayback.
func Payback(installationCost, annualSavings, annualExportRevenue float64) float64 {
	benefit := annualSavings + annualExportRevenue
	if benefit <= 0 {
		return NotViablePayback
	}
	return installationCost / benefit
}

// Empty is the calculation shown before any result has arrived. Payback is left at zero
// so an uncalculated configuration is distinguishable from a non-viable one.
func Empty() model.AggregatedCalculation {
	return model.AggregatedCalculation{}
}

// Aggregate reduces every option in resp into one whole-configuration calculation.
//
// Monthly series are summed element-wise over exactly twelve months: missing arrays
// count as zeros, short arrays are zero-padded and extra elements are ignored. Monthly
// CO2 is direct plus indirect savings. Sums are order independent.
func Aggregate(resp *model.ComparisonResponse) model.AggregatedCalculation {
	var out model.AggregatedCalculation
	if resp == nil {
		out.PaybackPeriod = NotViablePayback
		return out
	}
	out.Synthetic = resp.Synthetic

	for _, opt := range Options(resp) {
		out.InstallationCost += float64(opt.InstallationCost)
		out.AnnualGeneration += float64(opt.AnnualGeneration)
		out.AnnualSavings += float64(opt.AnnualCostSavings)
		out.AnnualExportRevenue += float64(opt.AnnualExportRevenue)
		out.AnnualCO2Savings += float64(opt.AnnualTotalCO2Savings)

		addMonthly(&out.MonthlyData.Generation, opt.MonthlyGeneration)
		addMonthly(&out.MonthlyData.Savings, opt.MonthlyCostSavings)
		addMonthly(&out.MonthlyData.ExportRevenue, opt.MonthlyExportRevenue)
		addMonthly(&out.MonthlyData.CO2Savings, opt.MonthlyDirectCO2Savings)
		addMonthly(&out.MonthlyData.CO2Savings, opt.MonthlyIndirectCO2Savings)
	}

	out.PaybackPeriod = Payback(out.InstallationCost, out.AnnualSavings, out.AnnualExportRevenue)
	return out
}

// Options flattens the per-category option lists of resp.
func Options(resp *model.ComparisonResponse) []model.OptionResult {
	if resp == nil {
		return nil
	}
	all := make([]model.OptionResult, 0, len(resp.SolarPanelOptions)+len(resp.HeatPumpOptions)+len(resp.BatteryOptions))
	all = append(all, resp.SolarPanelOptions...)
	all = append(all, resp.HeatPumpOptions...)
	all = append(all, resp.BatteryOptions...)
	return all
}

func addMonthly(dst *model.Monthly, src []model.Amount) {
	for i := 0; i < model.MonthsPerYear && i < len(src); i++ {
		dst[i] += float64(src[i])
	}
}
