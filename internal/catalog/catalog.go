package catalog

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/xuefei993/renewables/internal/model"
)

// Source provides the equipment list for one category.
type Source interface {
	Name() string
	Fetch(ctx context.Context, category model.Category) ([]model.CatalogItem, error)
}

// Load fetches the requested categories concurrently and returns an immutable catalog.
// Categories that were not requested stay empty.
func Load(ctx context.Context, src Source, flags model.EquipmentFlags) (*model.Catalog, error) {
	var wanted []model.Category
	for _, c := range model.Categories {
		if flags.Has(c) {
			wanted = append(wanted, c)
		}
	}
	return load(ctx, src, wanted)
}

// LoadAll fetches every category.
func LoadAll(ctx context.Context, src Source) (*model.Catalog, error) {
	return load(ctx, src, model.Categories)
}

func load(ctx context.Context, src Source, categories []model.Category) (*model.Catalog, error) {
	results := make([][]model.CatalogItem, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			items, err := src.Fetch(gctx, c)
			if err != nil {
				return fmt.Errorf("load %s catalog from %s: %w", c, src.Name(), err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat := &model.Catalog{}
	for i, c := range categories {
		cat.Set(c, results[i])
	}
	cat.Normalize()
	log.Printf("[Catalog] Loaded from %s: %d solar, %d heat pump, %d battery",
		src.Name(), len(cat.Solar), len(cat.HeatPump), len(cat.Battery))
	return cat, nil
}
