package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "renewables",
		Short:        "Compare renewable equipment configurations for a household",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(catalogCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func compareCmd() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Build the recommended configurations, calculate them and print a ranking",
		Example: `  renewables compare --config renewables.yaml --profile household.yaml --solar --battery
  renewables compare --demo --solar --heat-pump --set 3:solar=2 --out results/ranking.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigPath, "config", os.Getenv("CONFIG_PATH"), "YAML or TOML config file")
	f.StringVar(&opts.ProfilePath, "profile", "", "household profile file (YAML or TOML)")
	f.BoolVar(&opts.Flags.SolarPanels, "solar", false, "include solar panels")
	f.BoolVar(&opts.Flags.HeatPump, "heat-pump", false, "include a heat pump")
	f.BoolVar(&opts.Flags.BatteryStorage, "battery", false, "include battery storage")
	f.StringArrayVar(&opts.Settings, "set", nil, "override a pick as CONFIG:CATEGORY=EQUIPMENT_ID (repeatable)")
	f.Float64Var(&opts.Subsidy, "subsidy", 0, "apply a fixed subsidy amount to installation costs")
	f.BoolVar(&opts.CheckSubsidies, "check-subsidies", false, "apply every subsidy the eligibility check returns")
	f.StringVar(&opts.OutPath, "out", "", "write the ranking as CSV")
	f.StringVar(&opts.MonthlyPath, "monthly", "", "write monthly series as CSV")
	f.BoolVar(&opts.Demo, "demo", false, "use illustrative calculations instead of the service")
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the equipment catalog",
	}
	cmd.AddCommand(catalogSyncCmd())
	cmd.AddCommand(catalogSeedCmd())
	return cmd
}

func catalogSyncCmd() *cobra.Command {
	var configPath, outPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the catalog from the configured source into a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogSync(cmd.Context(), configPath, outPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "YAML or TOML config file")
	cmd.Flags().StringVar(&outPath, "out", "catalog.yaml", "output YAML path")
	return cmd
}

func catalogSeedCmd() *cobra.Command {
	var configPath, fromPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML catalog into the configured SQL database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogSeed(cmd.Context(), configPath, fromPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "YAML or TOML config file")
	cmd.Flags().StringVar(&fromPath, "from", "catalog.yaml", "YAML catalog to import")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
