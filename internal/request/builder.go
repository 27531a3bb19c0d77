package request

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xuefei993/renewables/internal/model"
)

// Defaults are substituted for profile fields that are missing, zero or unparseable.
type Defaults struct {
	HouseArea                      float64
	Occupants                      int
	RoofArea                       float64
	Latitude                       float64
	Longitude                      float64
	AnnualElectricityUsageKwh      float64
	AnnualGasUsageKwh              float64
	MonthlyElectricityUsageKwh     float64
	HomeOccupancyFactor            float64
	ElectricityRate                float64
	GasRate                        float64
	ExportRate                     float64
	PeakElectricityRate            float64
	OffPeakElectricityRate         float64
	SolarInstallationComplexity    float64
	HeatPumpInstallationComplexity float64
	BatteryInstallationComplexity  float64
}

// StandardDefaults describes a typical UK household.
var StandardDefaults = Defaults{
	HouseArea:                      120,
	Occupants:                      3,
	RoofArea:                       60,
	Latitude:                       51.5,
	Longitude:                      -0.1,
	AnnualElectricityUsageKwh:      3500,
	AnnualGasUsageKwh:              18000,
	MonthlyElectricityUsageKwh:     290,
	HomeOccupancyFactor:            0.6,
	ElectricityRate:                25,
	GasRate:                        8,
	ExportRate:                     15,
	PeakElectricityRate:            35,
	OffPeakElectricityRate:         12,
	SolarInstallationComplexity:    1.2,
	HeatPumpInstallationComplexity: 1.5,
	BatteryInstallationComplexity:  1.1,
}

// Builder turns a user profile plus a selection into a calculation request.
type Builder struct {
	Profile  model.UserProfile
	Flags    model.EquipmentFlags
	Defaults Defaults
}

func NewBuilder(profile model.UserProfile, flags model.EquipmentFlags) *Builder {
	return &Builder{Profile: profile, Flags: flags, Defaults: StandardDefaults}
}

// Build produces the full request for sel. The request is rebuilt from scratch on every
// call so it always reflects the current selections of all three categories.
func (b *Builder) Build(sel model.EquipmentSelection) model.CalculationRequest {
	p, d := b.Profile, b.Defaults
	return model.CalculationRequest{
		HouseArea:                      orDefault(p.HouseArea, d.HouseArea),
		Occupants:                      occupants(p.Occupants, d.Occupants),
		RoofArea:                       orDefault(p.RoofArea, d.RoofArea),
		Latitude:                       orDefault(p.Latitude, d.Latitude),
		Longitude:                      orDefault(p.Longitude, d.Longitude),
		AnnualElectricityUsageKwh:      orDefault(p.AnnualElectricityUsage, d.AnnualElectricityUsageKwh),
		AnnualGasUsageKwh:              orDefault(p.AnnualGasUsage, d.AnnualGasUsageKwh),
		MonthlyElectricityUsageKwh:     orDefault(p.MonthlyElectricityUsage, d.MonthlyElectricityUsageKwh),
		HomeOccupancyFactor:            orDefault(p.HomeOccupancyFactor, d.HomeOccupancyFactor),
		ElectricityRate:                orDefault(p.ElectricityRate, d.ElectricityRate),
		GasRate:                        orDefault(p.GasRate, d.GasRate),
		ExportRate:                     orDefault(p.ExportRate, d.ExportRate),
		PeakElectricityRate:            orDefault(p.PeakElectricityRate, d.PeakElectricityRate),
		OffPeakElectricityRate:         orDefault(p.OffPeakElectricityRate, d.OffPeakElectricityRate),
		SolarInstallationComplexity:    orDefault(p.SolarInstallationComplexity, d.SolarInstallationComplexity),
		HeatPumpInstallationComplexity: orDefault(p.HeatPumpInstallationComplexity, d.HeatPumpInstallationComplexity),
		BatteryInstallationComplexity:  orDefault(p.BatteryInstallationComplexity, d.BatteryInstallationComplexity),

		HasSolarPanels: b.Flags.SolarPanels,
		HasHeatPump:    b.Flags.HeatPump,
		HasBattery:     b.Flags.BatteryStorage,

		SolarPanelTypeIDs: ids(b.Flags.SolarPanels, sel.Solar),
		HeatPumpTypeIDs:   ids(b.Flags.HeatPump, sel.HeatPump),
		BatteryIDs:        ids(b.Flags.BatteryStorage, sel.Battery),
	}
}

// Fingerprint identifies a request by content. Two requests built from the same profile
// and selections always share a fingerprint.
func Fingerprint(req model.CalculationRequest) string {
	raw, err := json.Marshal(req)
	if err != nil {
		// Build never produces values json cannot encode.
		return ""
	}
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:])
}

func orDefault(n model.Number, def float64) float64 {
	f, ok := n.Float()
	if !ok || f == 0 {
		return def
	}
	return f
}

func occupants(n model.Number, def int) int {
	f, ok := n.Float()
	if !ok {
		return def
	}
	if v := int(f); v != 0 {
		return v
	}
	return def
}

// ids returns the id list for one category. A category that is not requested never
// sends a stale pick.
func ids(requested bool, pick *string) []int64 {
	out := []int64{}
	if !requested || pick == nil {
		return out
	}
	s := strings.TrimSpace(*pick)
	if s == "" {
		return out
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return out
	}
	return append(out, id)
}
