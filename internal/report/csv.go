package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuefei993/renewables/internal/analysis"
	"github.com/xuefei993/renewables/internal/model"
)

// WriteRankingCSV writes one row per ranked configuration.
func WriteRankingCSV(out io.Writer, ranked []analysis.RankedConfiguration, subsidyTotal float64) error {
	w := csv.NewWriter(out)

	header := []string{
		"rank",
		"configuration_id",
		"name",
		"solar",
		"heat_pump",
		"battery",
		"installation_cost",
		"subsidy_total",
		"net_installation_cost",
		"annual_generation_kwh",
		"annual_savings",
		"annual_export_revenue",
		"annual_co2_savings_kg",
		"payback_years",
		"synthetic",
		"last_error",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ranked {
		c := r.Configuration
		calc := c.Calculations
		row := []string{
			strconv.Itoa(r.Rank),
			strconv.Itoa(c.ID),
			c.Name,
			fmtPick(c.Selections.Solar),
			fmtPick(c.Selections.HeatPump),
			fmtPick(c.Selections.Battery),
			fmtFloat(calc.InstallationCost),
			fmtFloat(subsidyTotal),
			fmtFloat(r.NetCost),
			fmtFloat(calc.AnnualGeneration),
			fmtFloat(calc.AnnualSavings),
			fmtFloat(calc.AnnualExportRevenue),
			fmtFloat(calc.AnnualCO2Savings),
			fmtFloat(calc.PaybackPeriod),
			strconv.FormatBool(calc.Synthetic),
			c.LastError,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteMonthlyCSV writes the monthly series of every configuration, one row per month.
func WriteMonthlyCSV(out io.Writer, configs []model.Configuration) error {
	w := csv.NewWriter(out)

	header := []string{"configuration_id", "name", "month", "generation_kwh", "savings", "export_revenue", "co2_savings_kg"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, c := range configs {
		m := c.Calculations.MonthlyData
		for i, label := range model.MonthLabels {
			row := []string{
				strconv.Itoa(c.ID),
				c.Name,
				label,
				fmtFloat(m.Generation[i]),
				fmtFloat(m.Savings[i]),
				fmtFloat(m.ExportRevenue[i]),
				fmtFloat(m.CO2Savings[i]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// WriteCSVFile writes the ranking to path, creating parent directories as needed.
func WriteCSVFile(path string, configs []model.Configuration, subsidyTotal float64) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteRankingCSV(f, analysis.RankByPayback(configs, subsidyTotal), subsidyTotal)
}

func fmtPick(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
