package analysis

import (
	"sort"

	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/subsidy"
)

type RankedConfiguration struct {
	Rank          int                 `json:"rank"`
	Configuration model.Configuration `json:"configuration"`
	NetCost       float64             `json:"netCost"`
}

// RankByPayback orders configurations by payback period ascending, then by net cost.
// Configurations without a completed calculation sort last, by id.
func RankByPayback(configs []model.Configuration, subsidyTotal float64) []RankedConfiguration {
	out := make([]RankedConfiguration, 0, len(configs))
	for _, c := range configs {
		out = append(out, RankedConfiguration{
			Configuration: c,
			NetCost:       subsidy.NetCost(c.Calculations.InstallationCost, subsidyTotal),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ca, cb := Calculated(a.Configuration.Calculations), Calculated(b.Configuration.Calculations)
		if ca != cb {
			return ca
		}
		if !ca {
			return a.Configuration.ID < b.Configuration.ID
		}
		pa, pb := a.Configuration.Calculations.PaybackPeriod, b.Configuration.Calculations.PaybackPeriod
		if pa != pb {
			return pa < pb
		}
		if a.NetCost != b.NetCost {
			return a.NetCost < b.NetCost
		}
		return a.Configuration.ID < b.Configuration.ID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Calculated reports whether calc holds a result rather than the Empty placeholder.
// A free installation with positive savings has a zero payback and still counts.
func Calculated(calc model.AggregatedCalculation) bool {
	return calc != Empty()
}
