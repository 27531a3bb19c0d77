package catalog

import (
	"context"
	"fmt"

	"github.com/xuefei993/renewables/internal/data"
	"github.com/xuefei993/renewables/internal/model"
)

var servicePaths = map[model.Category]string{
	model.CategorySolar:    "/api/solar-capacity/panel-types",
	model.CategoryHeatPump: "/api/heat-pumps",
	model.CategoryBattery:  "/api/batteries",
}

// HTTPSource reads the catalog from the renewables service.
type HTTPSource struct {
	Service *data.ServiceClient
}

func (s *HTTPSource) Name() string { return s.Service.BaseURL }

func (s *HTTPSource) Fetch(ctx context.Context, category model.Category) ([]model.CatalogItem, error) {
	path, ok := servicePaths[category]
	if !ok {
		return nil, fmt.Errorf("no catalog endpoint for %s", category)
	}
	var items []model.CatalogItem
	if err := s.Service.GetJSON(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}
