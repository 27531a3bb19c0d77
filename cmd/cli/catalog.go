package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xuefei993/renewables/internal/app"
	"github.com/xuefei993/renewables/internal/catalog"
	"github.com/xuefei993/renewables/internal/config"
)

func runCatalogSync(ctx context.Context, configPath, outPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
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

	cat, err := catalog.LoadAll(ctx, services.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if err := catalog.WriteFile(outPath, cat); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	fmt.Fprintf(out, "Wrote %d solar panels, %d heat pumps, %d batteries to %s\n",
		len(cat.Solar), len(cat.HeatPump), len(cat.Battery), outPath)
	return nil
}

func runCatalogSeed(ctx context.Context, configPath, fromPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	if cfg.Catalog.Source != config.SourceSQL {
		return errors.New("catalog seed needs catalog.source: sql")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cat, err := catalog.ReadFile(fromPath)
	if err != nil {
		return err
	}
	db, err := catalog.OpenSQL(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Seed(ctx, cat)
	if err != nil {
		return err
	}
	total, err := db.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded %d items (%d in catalog)\n", n, total)
	return nil
}
