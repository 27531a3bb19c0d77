package session

import (
	"context"
	"testing"
	"time"

	"github.com/xuefei993/renewables/internal/calc"
	"github.com/xuefei993/renewables/internal/model"
)

type staticSource struct{ cat *model.Catalog }

func (s staticSource) Name() string { return "static" }

func (s staticSource) Fetch(ctx context.Context, c model.Category) ([]model.CatalogItem, error) {
	return s.cat.Items(c), nil
}

func demoRegistry(ttl time.Duration) *Registry {
	cat := &model.Catalog{Solar: []model.CatalogItem{
		{ID: 1, Price: 380, Efficiency: 22, RatedPowerPerPanel: 450},
		{ID: 2, Price: 310, Efficiency: 20.5, RatedPowerPerPanel: 410},
	}}
	return NewRegistry(staticSource{cat}, func(c *model.Catalog) calc.Client { return calc.NewDemoClient(c) }, ttl, 0)
}

func TestCreateAndGet(t *testing.T) {
	r := demoRegistry(time.Hour)
	defer r.Close()

	s, err := r.Create(context.Background(), model.UserProfile{RoofArea: "40"}, model.EquipmentFlags{SolarPanels: true})
	if err != nil {
		t.Fatal(err)
	}
	s.Store.Wait()

	got, ok := r.Get(s.ID)
	if !ok || got != s {
		t.Fatal("session not found")
	}
	configs := got.Store.List()
	if len(configs) != 3 {
		t.Fatalf("got %d configurations", len(configs))
	}
	for _, c := range configs {
		if !c.Calculations.Synthetic || c.Calculations.InstallationCost == 0 {
			t.Errorf("config %d not calculated: %+v", c.ID, c.Calculations)
		}
	}
	if _, ok := r.Get("not-a-uuid"); ok {
		t.Error("invalid id should not resolve")
	}
}

func TestDeleteAndExpire(t *testing.T) {
	r := demoRegistry(time.Minute)
	defer r.Close()

	a, _ := r.Create(context.Background(), model.UserProfile{}, model.EquipmentFlags{SolarPanels: true})
	b, _ := r.Create(context.Background(), model.UserProfile{}, model.EquipmentFlags{SolarPanels: true})

	if !r.Delete(a.ID) || r.Delete(a.ID) {
		t.Error("Delete should succeed exactly once")
	}
	if n := r.expire(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("expired %d sessions, want 1", n)
	}
	if _, ok := r.Get(b.ID); ok {
		t.Error("expired session still reachable")
	}
	if r.Len() != 0 {
		t.Errorf("len = %d", r.Len())
	}
}
