package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/xuefei993/renewables/internal/model"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLSource stores the catalog in SQLite or PostgreSQL.
type SQLSource struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens dsn with driver ("sqlite" or "postgres") and makes sure the schema exists.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLSource, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &SQLSource{db: db, driver: driver}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *SQLSource) Name() string { return s.driver + " catalog" }

func (s *SQLSource) Close() error { return s.db.Close() }

func (s *SQLSource) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS equipment (
    category              TEXT NOT NULL,
    id                    BIGINT NOT NULL,
    name                  TEXT NOT NULL,
    manufacturer          TEXT NOT NULL DEFAULT '',
    price                 DOUBLE PRECISION NOT NULL DEFAULT 0,
    cost                  DOUBLE PRECISION NOT NULL DEFAULT 0,
    efficiency            DOUBLE PRECISION NOT NULL DEFAULT 0,
    rated_power_per_panel DOUBLE PRECISION NOT NULL DEFAULT 0,
    panel_size            DOUBLE PRECISION NOT NULL DEFAULT 0,
    cop                   DOUBLE PRECISION NOT NULL DEFAULT 0,
    installation_cost     DOUBLE PRECISION NOT NULL DEFAULT 0,
    capacity_kwh          DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (category, id)
);`)
	return err
}

// placeholders returns n bind markers in the driver's syntax.
func (s *SQLSource) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		if s.driver == DriverPostgres {
			marks[i] = "$" + strconv.Itoa(i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

func (s *SQLSource) Fetch(ctx context.Context, category model.Category) ([]model.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, manufacturer, price, cost, efficiency, rated_power_per_panel,
       panel_size, cop, installation_cost, capacity_kwh
FROM equipment
WHERE category = `+s.placeholders(1)+`
ORDER BY id`, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.CatalogItem{}
	for rows.Next() {
		it := model.CatalogItem{Category: category}
		if err := rows.Scan(&it.ID, &it.Name, &it.Manufacturer, &it.Price, &it.Cost, &it.Efficiency,
			&it.RatedPowerPerPanel, &it.PanelSize, &it.COP, &it.InstallationCost, &it.CapacityKwh); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Seed upserts every item of cat in one transaction and returns the number of rows written.
func (s *SQLSource) Seed(ctx context.Context, cat *model.Catalog) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO equipment (category, id, name, manufacturer, price, cost, efficiency,
    rated_power_per_panel, panel_size, cop, installation_cost, capacity_kwh)
VALUES (`+s.placeholders(12)+`)
ON CONFLICT (category, id) DO UPDATE SET
    name = excluded.name,
    manufacturer = excluded.manufacturer,
    price = excluded.price,
    cost = excluded.cost,
    efficiency = excluded.efficiency,
    rated_power_per_panel = excluded.rated_power_per_panel,
    panel_size = excluded.panel_size,
    cop = excluded.cop,
    installation_cost = excluded.installation_cost,
    capacity_kwh = excluded.capacity_kwh`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, c := range model.Categories {
		for _, it := range cat.Items(c) {
			if _, err := stmt.ExecContext(ctx, string(c), it.ID, it.Name, it.Manufacturer, it.Price, it.Cost,
				it.Efficiency, it.RatedPowerPerPanel, it.PanelSize, it.COP, it.InstallationCost, it.CapacityKwh); err != nil {
				return n, fmt.Errorf("seed %s %d: %w", c, it.ID, err)
			}
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Printf("[Catalog] Seeded %d items into %s", n, s.Name())
	return n, nil
}

// Count returns the number of stored items.
func (s *SQLSource) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment`).Scan(&n)
	return n, err
}
