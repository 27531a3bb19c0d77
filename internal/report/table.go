package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/xuefei993/renewables/internal/analysis"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/subsidy"
)

// WriteTable renders a ranking for a terminal. Equipment keys are shown by name when
// the catalog has them.
func WriteTable(out io.Writer, ranked []analysis.RankedConfiguration, catalog *model.Catalog, subsidyTotal float64) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	configs := make([]model.Configuration, len(ranked))
	for i, r := range ranked {
		configs[i] = r.Configuration
	}
	costs := subsidy.Present(configs, subsidyTotal)

	fmt.Fprintf(tw, "#\tConfiguration\tSolar\tHeat Pump\tBattery\t%s\tAnnual Savings\tPayback\n", subsidy.CostLabel(subsidyTotal))
	for i, r := range ranked {
		c := r.Configuration
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t£%s\t£%s\t%s\n",
			r.Rank,
			c.Name,
			equipmentName(catalog, model.CategorySolar, c.Selections.Solar),
			equipmentName(catalog, model.CategoryHeatPump, c.Selections.HeatPump),
			equipmentName(catalog, model.CategoryBattery, c.Selections.Battery),
			humanize.CommafWithDigits(costs[i].NetCost, 0),
			humanize.CommafWithDigits(c.Calculations.AnnualSavings, 0),
			fmtPayback(c),
		)
	}
	if subsidyTotal > 0 {
		fmt.Fprintf(tw, "\nSubsidies applied: £%s\n", humanize.CommafWithDigits(subsidyTotal, 0))
	}
	return tw.Flush()
}

func equipmentName(catalog *model.Catalog, cat model.Category, pick *string) string {
	switch {
	case pick == nil:
		return "-"
	case *pick == "":
		return "(none)"
	}
	if catalog != nil {
		if it, ok := catalog.Find(cat, *pick); ok && it.Name != "" {
			return it.Name
		}
	}
	return *pick
}

func fmtPayback(c model.Configuration) string {
	p := c.Calculations.PaybackPeriod
	switch {
	case c.LastError != "":
		return "error"
	case !analysis.Calculated(c.Calculations):
		return "-"
	case p >= analysis.NotViablePayback:
		return "not viable"
	}
	return fmt.Sprintf("%.1f yrs", p)
}
