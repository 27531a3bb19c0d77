package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/xuefei993/renewables/internal/model"
)

// FileSource reads a catalog from a YAML file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file " + filepath.Base(s.Path) }

func (s *FileSource) Fetch(ctx context.Context, category model.Category) ([]model.CatalogItem, error) {
	cat, err := ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return cat.Items(category), nil
}

func ReadFile(path string) (*model.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat model.Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	cat.Normalize()
	return &cat, nil
}

// WriteFile saves cat as YAML, creating parent directories as needed.
func WriteFile(path string, cat *model.Catalog) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := yaml.Marshal(cat)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
