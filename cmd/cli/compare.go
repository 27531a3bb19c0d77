package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuefei993/renewables/internal/analysis"
	"github.com/xuefei993/renewables/internal/app"
	"github.com/xuefei993/renewables/internal/catalog"
	"github.com/xuefei993/renewables/internal/config"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/report"
	"github.com/xuefei993/renewables/internal/request"
	"github.com/xuefei993/renewables/internal/store"
	"github.com/xuefei993/renewables/internal/subsidy"
)

type compareOptions struct {
	ConfigPath     string
	ProfilePath    string
	Flags          model.EquipmentFlags
	Settings       []string
	Subsidy        float64
	CheckSubsidies bool
	OutPath        string
	MonthlyPath    string
	Demo           bool
}

// setting is a parsed --set value.
type setting struct {
	ConfigID    int
	Category    model.Category
	EquipmentID string
}

func parseSetting(s string) (setting, error) {
	id, rest, ok := strings.Cut(s, ":")
	if !ok {
		return setting{}, fmt.Errorf("--set %q: want CONFIG:CATEGORY=EQUIPMENT_ID", s)
	}
	cat, equipment, ok := strings.Cut(rest, "=")
	if !ok {
		return setting{}, fmt.Errorf("--set %q: want CONFIG:CATEGORY=EQUIPMENT_ID", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return setting{}, fmt.Errorf("--set %q: configuration id: %w", s, err)
	}
	c, err := model.ParseCategory(cat)
	if err != nil {
		return setting{}, fmt.Errorf("--set %q: %w", s, err)
	}
	return setting{ConfigID: n, Category: c, EquipmentID: strings.TrimSpace(equipment)}, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	return config.LoadUnchecked(path)
}

func runCompare(ctx context.Context, opts compareOptions, out io.Writer) error {
	settings := make([]setting, 0, len(opts.Settings))
	for _, s := range opts.Settings {
		parsed, err := parseSetting(s)
		if err != nil {
			return err
		}
		settings = append(settings, parsed)
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Demo {
		cfg.DemoMode = true
	}
	household := cfg.Household
	if opts.ProfilePath != "" {
		loaded, err := config.LoadHousehold(opts.ProfilePath)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		household = config.MergeHousehold(household, loaded)
	}
	household = config.MergeHousehold(household, config.Household{Equipment: opts.Flags})
	if !household.Equipment.Any() {
		return errors.New("no equipment requested: pass --solar, --heat-pump or --battery, or set household.equipment")
	}

	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	services, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	cat, err := catalog.Load(ctx, services.Catalog, household.Equipment)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	st := store.New(services.NewClient(cat), request.NewBuilder(household.Profile, household.Equipment), store.WithTimeout(cfg.Service.Timeout))
	defer st.Close()
	cancel := st.Subscribe(func(ev store.Event) {
		if ev.Kind == store.EventFailed {
			log.Printf("[Compare] %s: calculation failed: %s", ev.Configuration.Name, ev.Err)
		}
	})
	defer cancel()

	if err := st.Initialize(cat); err != nil {
		return err
	}
	for _, s := range settings {
		// Naming the next free id adds a configuration.
		if _, err := st.Get(s.ConfigID); errors.Is(err, store.ErrNotFound) && s.ConfigID == st.NextID() {
			st.Add()
		}
		if err := st.SetSelection(s.ConfigID, s.Category, s.EquipmentID); err != nil {
			return fmt.Errorf("configuration %d %s: %w", s.ConfigID, s.Category, err)
		}
	}
	st.Wait()

	ledger := subsidy.NewLedger()
	if opts.Subsidy > 0 {
		if err := ledger.Apply(model.Subsidy{SubsidyID: "manual", Name: "Manual subsidy", IsEligible: true, EstimatedAmount: opts.Subsidy}); err != nil {
			return err
		}
	}
	if opts.CheckSubsidies {
		if err := applyEligible(ctx, services.Subsidies, household, ledger, out); err != nil {
			return err
		}
	}

	configs := st.List()
	total := ledger.Total()
	if err := report.WriteTable(out, analysis.RankByPayback(configs, total), cat, total); err != nil {
		return err
	}

	if opts.OutPath != "" {
		if err := report.WriteCSVFile(opts.OutPath, configs, total); err != nil {
			return fmt.Errorf("write ranking: %w", err)
		}
		fmt.Fprintf(out, "Wrote %d configurations to %s\n", len(configs), opts.OutPath)
	}
	if opts.MonthlyPath != "" {
		if err := writeMonthly(opts.MonthlyPath, configs); err != nil {
			return fmt.Errorf("write monthly series: %w", err)
		}
		fmt.Fprintf(out, "Wrote monthly series to %s\n", opts.MonthlyPath)
	}

	for _, c := range configs {
		if c.LastError == "" {
			return nil
		}
	}
	return errors.New("every calculation failed")
}

func applyEligible(ctx context.Context, checker subsidy.Checker, household config.Household, ledger *subsidy.Ledger, out io.Writer) error {
	res, err := checker.Check(ctx, subsidy.CheckRequest{
		HasSolarPanels: household.Equipment.SolarPanels,
		HasHeatPump:    household.Equipment.HeatPump,
		HasBattery:     household.Equipment.BatteryStorage,
	})
	if err != nil {
		return err
	}
	for _, s := range res.AvailableSubsidies {
		if !s.IsEligible {
			fmt.Fprintf(out, "Not eligible for %s: %s\n", s.Name, s.IneligibilityReason)
			continue
		}
		if err := ledger.Apply(s); err != nil {
			return err
		}
		fmt.Fprintf(out, "Applied %s (£%.0f)\n", s.Name, s.EstimatedAmount)
	}
	return nil
}

func writeMonthly(path string, configs []model.Configuration) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.WriteMonthlyCSV(f, configs)
}
