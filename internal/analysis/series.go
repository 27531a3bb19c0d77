package analysis

import (
	"errors"

	"github.com/xuefei993/renewables/internal/model"
)

// Metric names one monthly series of an aggregated calculation.
type Metric string

const (
	MetricGeneration    Metric = "generation"
	MetricSavings       Metric = "savings"
	MetricExportRevenue Metric = "exportRevenue"
	MetricCO2Savings    Metric = "co2Savings"
)

var ErrUnknownMetric = errors.New("unknown metric")

// Series returns the monthly values for metric.
func Series(calc model.AggregatedCalculation, metric Metric) (model.Monthly, error) {
	switch metric {
	case MetricGeneration:
		return calc.MonthlyData.Generation, nil
	case MetricSavings:
		return calc.MonthlyData.Savings, nil
	case MetricExportRevenue:
		return calc.MonthlyData.ExportRevenue, nil
	case MetricCO2Savings:
		return calc.MonthlyData.CO2Savings, nil
	default:
		return model.Monthly{}, ErrUnknownMetric
	}
}
