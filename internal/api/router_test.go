package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xuefei993/renewables/internal/api/models"
	"github.com/xuefei993/renewables/internal/calc"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/session"
	"github.com/xuefei993/renewables/internal/store"
	"github.com/xuefei993/renewables/internal/subsidy"
)

type staticSource struct{ cat *model.Catalog }

func (s staticSource) Name() string { return "static" }

func (s staticSource) Fetch(ctx context.Context, c model.Category) ([]model.CatalogItem, error) {
	return s.cat.Items(c), nil
}

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Solar: []model.CatalogItem{
			{ID: 1, Name: "Premium 450W", Price: 380, Efficiency: 22, RatedPowerPerPanel: 450},
			{ID: 2, Name: "Value 410W", Price: 310, Efficiency: 20.5, RatedPowerPerPanel: 410},
		},
		HeatPump: []model.CatalogItem{
			{ID: 7, Name: "Air Source 8kW", Cost: 9500, COP: 3.6, InstallationCost: 3000},
		},
	}
}

func setupRouter(t *testing.T, checker subsidy.Checker) (*gin.Engine, *session.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := staticSource{testCatalog()}
	registry := session.NewRegistry(src, func(c *model.Catalog) calc.Client { return calc.NewDemoClient(c) }, time.Hour, 0)
	t.Cleanup(registry.Close)

	return NewRouter(Deps{Registry: registry, Catalog: src, Subsidies: checker}), registry
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router http.Handler, registry *session.Registry, equipment model.EquipmentFlags) models.SessionResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", models.CreateSessionRequest{
		Profile:   model.UserProfile{RoofArea: "40", ElectricityRate: "0.28"},
		Equipment: equipment,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status %d: %s", w.Code, w.Body.String())
	}
	var resp models.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	s, ok := registry.Get(resp.ID)
	if !ok {
		t.Fatalf("session %s not registered", resp.ID)
	}
	s.Store.Wait()
	return resp
}

func getSession(t *testing.T, router http.Handler, id string) models.SessionResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get session: status %d: %s", w.Code, w.Body.String())
	}
	var resp models.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error: %v (%s)", err, w.Body.String())
	}
	return resp.Error.Code
}

func TestHealthAndStrategies(t *testing.T) {
	router, _ := setupRouter(t, nil)

	if w := doJSON(t, router, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/strategies", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("strategies status = %d", w.Code)
	}
	var body struct {
		Strategies []models.StrategyInfo `json:"strategies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Strategies) != 3 || body.Strategies[0].Name != "Most Cost-Effective" {
		t.Errorf("strategies = %+v", body.Strategies)
	}
}

func TestGetStrategy(t *testing.T) {
	router, _ := setupRouter(t, nil)

	tests := []struct {
		name     string
		wantCode int
		wantName string
	}{
		{"balanced", http.StatusOK, "Balanced Option"},
		{"eco", http.StatusOK, "Most Eco-Friendly"},
		{"cheapest", http.StatusOK, "Most Cost-Effective"},
		{"oracle", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/api/v1/strategies/"+tt.name, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				if code := errorCode(t, w); code != "STRATEGY_NOT_FOUND" {
					t.Errorf("error code = %q", code)
				}
				return
			}
			var info models.StrategyInfo
			if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
				t.Fatal(err)
			}
			if info.Name != tt.wantName || info.Description == "" {
				t.Errorf("strategy = %+v", info)
			}
		})
	}
}

func TestGetCatalog(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var cat model.Catalog
	if err := json.Unmarshal(w.Body.Bytes(), &cat); err != nil {
		t.Fatal(err)
	}
	if len(cat.Solar) != 2 || len(cat.HeatPump) != 1 {
		t.Errorf("catalog = %+v", cat)
	}
}

func TestCreateSessionRecommendations(t *testing.T) {
	router, registry := setupRouter(t, nil)

	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true})
	if len(created.Configurations) != 3 {
		t.Fatalf("got %d configurations", len(created.Configurations))
	}

	got := getSession(t, router, created.ID)
	want := map[int]string{1: "2", 2: "1", 3: "1"}
	for _, c := range got.Configurations {
		if c.Selections.Solar == nil || *c.Selections.Solar != want[c.ID] {
			t.Errorf("config %d solar = %v, want %s", c.ID, c.Selections.Solar, want[c.ID])
		}
		if c.Selections.HeatPump != nil {
			t.Errorf("config %d: heat pump was not requested", c.ID)
		}
		if c.Loading || c.Calculations.InstallationCost == 0 || !c.Calculations.Synthetic {
			t.Errorf("config %d not calculated: %+v", c.ID, c)
		}
		if c.NetCost != c.Calculations.InstallationCost {
			t.Errorf("config %d: net cost %v without subsidies", c.ID, c.NetCost)
		}
	}
	if got.CostLabel != subsidy.LabelGross {
		t.Errorf("cost label = %q", got.CostLabel)
	}
}

func TestSessionNotFound(t *testing.T) {
	router, _ := setupRouter(t, nil)

	for _, path := range []string{
		"/api/v1/sessions/not-a-session",
		"/api/v1/sessions/6f1c2a0e-8a55-4a4e-9a55-2d2f7d3c1b10",
	} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound || errorCode(t, w) != "SESSION_NOT_FOUND" {
			t.Errorf("%s: status %d %s", path, w.Code, w.Body.String())
		}
	}
}

func TestSetSelection(t *testing.T) {
	router, registry := setupRouter(t, nil)
	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true, HeatPump: true})
	s, _ := registry.Get(created.ID)
	base := "/api/v1/sessions/" + created.ID + "/configurations/1/selections/"

	tests := []struct {
		name     string
		category string
		body     string
		status   int
		code     string
	}{
		{"numeric id", "solar", `{"equipmentId": 1}`, http.StatusAccepted, ""},
		{"string id", "heat-pump", `{"equipmentId": "7"}`, http.StatusAccepted, ""},
		{"unknown equipment", "solar", `{"equipmentId": 99}`, http.StatusBadRequest, "UNKNOWN_EQUIPMENT"},
		{"not requested", "battery", `{"equipmentId": 1}`, http.StatusBadRequest, "CATEGORY_NOT_REQUESTED"},
		{"bad category", "wind", `{"equipmentId": 1}`, http.StatusBadRequest, "INVALID_CATEGORY"},
		{"malformed body", "solar", `{`, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, base+tt.category, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.code != "" && errorCode(t, w) != tt.code {
				t.Errorf("code = %s, want %s", errorCode(t, w), tt.code)
			}
		})
	}

	s.Store.Wait()
	cfg, err := s.Store.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg.Selections.Solar != "1" || *cfg.Selections.HeatPump != "7" {
		t.Errorf("selections = %v / %v", *cfg.Selections.Solar, *cfg.Selections.HeatPump)
	}
	if cfg.Loading || cfg.Calculations.InstallationCost == 0 {
		t.Errorf("configuration not recalculated: %+v", cfg)
	}
}

func TestConfigurationLifecycle(t *testing.T) {
	router, registry := setupRouter(t, nil)
	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true})
	base := "/api/v1/sessions/" + created.ID + "/configurations"

	w := doJSON(t, router, http.MethodPost, base, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d", w.Code)
	}
	var added models.ConfigurationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &added); err != nil {
		t.Fatal(err)
	}
	if added.ID != 4 || added.Name != "Configuration 4" {
		t.Errorf("added = %+v", added.Configuration)
	}
	if added.Selections.Solar == nil || *added.Selections.Solar != "" {
		t.Errorf("new configuration should start empty for requested categories: %+v", added.Selections)
	}

	w = doJSON(t, router, http.MethodPatch, base+"/4", models.RenameRequest{Name: "My pick"})
	if w.Code != http.StatusOK {
		t.Fatalf("rename status = %d: %s", w.Code, w.Body.String())
	}
	if w = doJSON(t, router, http.MethodPatch, base+"/4", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("rename without name: status = %d", w.Code)
	}

	if w = doJSON(t, router, http.MethodDelete, base+"/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d", w.Code)
	}
	if w = doJSON(t, router, http.MethodDelete, base+"/42", nil); w.Code != http.StatusNotFound || errorCode(t, w) != "CONFIGURATION_NOT_FOUND" {
		t.Errorf("unknown id: status = %d %s", w.Code, w.Body.String())
	}

	for _, id := range []string{"1", "2", "3"} {
		if w = doJSON(t, router, http.MethodDelete, base+"/"+id, nil); w.Code != http.StatusNoContent {
			t.Fatalf("remove %s: status = %d", id, w.Code)
		}
	}
	w = doJSON(t, router, http.MethodDelete, base+"/4", nil)
	if w.Code != http.StatusConflict || errorCode(t, w) != "LAST_CONFIGURATION" {
		t.Errorf("removing last: status = %d %s", w.Code, w.Body.String())
	}

	got := getSession(t, router, created.ID)
	if len(got.Configurations) != 1 || got.Configurations[0].Name != "My pick" {
		t.Errorf("configurations = %+v", got.Configurations)
	}
}

func TestMonthlySeriesAndRanking(t *testing.T) {
	router, registry := setupRouter(t, nil)
	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true})
	base := "/api/v1/sessions/" + created.ID

	w := doJSON(t, router, http.MethodGet, base+"/configurations/1/monthly/generation", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("series status = %d: %s", w.Code, w.Body.String())
	}
	var series models.SeriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &series); err != nil {
		t.Fatal(err)
	}
	if series.Labels[0] != "Jan" || series.Values.Sum() == 0 || !series.Synthetic {
		t.Errorf("series = %+v", series)
	}

	if w = doJSON(t, router, http.MethodGet, base+"/configurations/1/monthly/wind", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown metric: status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, base+"/ranking", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ranking status = %d", w.Code)
	}
	var ranking models.RankingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &ranking); err != nil {
		t.Fatal(err)
	}
	if len(ranking.Ranking) != 3 {
		t.Fatalf("ranking = %+v", ranking)
	}
	for i := 1; i < len(ranking.Ranking); i++ {
		prev, cur := ranking.Ranking[i-1], ranking.Ranking[i]
		if prev.Configuration.Calculations.PaybackPeriod > cur.Configuration.Calculations.PaybackPeriod {
			t.Errorf("ranking not ordered by payback at %d", i)
		}
	}
}

func TestSubsidies(t *testing.T) {
	router, registry := setupRouter(t, subsidy.DemoChecker{})
	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true, HeatPump: true})
	base := "/api/v1/sessions/" + created.ID + "/subsidies"

	w := doJSON(t, router, http.MethodPost, base+"/check", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check status = %d: %s", w.Code, w.Body.String())
	}
	var checked subsidy.CheckResult
	if err := json.Unmarshal(w.Body.Bytes(), &checked); err != nil {
		t.Fatal(err)
	}
	if checked.ApplicableSubsidies == 0 {
		t.Fatalf("expected an eligible subsidy: %+v", checked)
	}
	grant := checked.AvailableSubsidies[0]

	w = doJSON(t, router, http.MethodPost, base, models.ApplySubsidyRequest{
		SubsidyID:       grant.SubsidyID,
		Name:            grant.Name,
		IsEligible:      true,
		EstimatedAmount: grant.EstimatedAmount,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("apply status = %d: %s", w.Code, w.Body.String())
	}
	var applied models.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &applied); err != nil {
		t.Fatal(err)
	}
	if applied.CostLabel != subsidy.LabelNet || applied.SubsidyTotal != grant.EstimatedAmount {
		t.Errorf("after apply: label %q total %v", applied.CostLabel, applied.SubsidyTotal)
	}
	for _, c := range applied.Configurations {
		if want := subsidy.NetCost(c.Calculations.InstallationCost, grant.EstimatedAmount); c.NetCost != want {
			t.Errorf("config %d net cost = %v, want %v", c.ID, c.NetCost, want)
		}
		if c.Calculations.InstallationCost == c.NetCost {
			t.Errorf("config %d: stored cost should stay gross", c.ID)
		}
	}
	if len(applied.Costs) != len(applied.Configurations) {
		t.Fatalf("got %d cost rows for %d configurations", len(applied.Costs), len(applied.Configurations))
	}
	for i, row := range applied.Costs {
		c := applied.Configurations[i]
		if row.ConfigurationID != c.ID || row.Label != subsidy.LabelNet || row.NetCost != c.NetCost || row.GrossCost != c.Calculations.InstallationCost {
			t.Errorf("cost row %d = %+v, configuration %d net %v", i, row, c.ID, c.NetCost)
		}
	}

	w = doJSON(t, router, http.MethodPost, base, models.ApplySubsidyRequest{SubsidyID: "eco4", IsEligible: false, EstimatedAmount: 100})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("ineligible apply: status = %d", w.Code)
	}

	if w = doJSON(t, router, http.MethodDelete, base+"/"+grant.SubsidyID, nil); w.Code != http.StatusOK {
		t.Fatalf("remove status = %d", w.Code)
	}
	if w = doJSON(t, router, http.MethodDelete, base+"/"+grant.SubsidyID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second remove: status = %d", w.Code)
	}
	if got := getSession(t, router, created.ID); got.CostLabel != subsidy.LabelGross || got.SubsidyTotal != 0 {
		t.Errorf("after remove: %q %v", got.CostLabel, got.SubsidyTotal)
	}
}

func TestCheckSubsidiesWithoutChecker(t *testing.T) {
	router, registry := setupRouter(t, nil)
	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true})

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+created.ID+"/subsidies/check", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", w.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	router, registry := setupRouter(t, nil)
	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true})
	path := "/api/v1/sessions/" + created.ID

	if w := doJSON(t, router, http.MethodDelete, path, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodDelete, path, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", w.Code)
	}
}

func TestStream(t *testing.T) {
	router, registry := setupRouter(t, nil)
	created := createSession(t, router, registry, model.EquipmentFlags{SolarPanels: true})

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/sessions/" + created.ID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot struct {
		Type    string                 `json:"type"`
		Session models.SessionResponse `json:"session"`
	}
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if snapshot.Type != "snapshot" || len(snapshot.Session.Configurations) != 3 {
		t.Fatalf("snapshot = %+v", snapshot)
	}

	req, _ := http.NewRequest(http.MethodPut,
		server.URL+"/api/v1/sessions/"+created.ID+"/configurations/2/selections/solar",
		strings.NewReader(`{"equipmentId": 2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("set selection status = %d", resp.StatusCode)
	}

	var kinds []store.EventKind
	for len(kinds) < 2 {
		var msg struct {
			Type  string      `json:"type"`
			Event store.Event `json:"event"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("reading event: %v", err)
		}
		if msg.Event.Configuration.ID != 2 {
			t.Errorf("event for configuration %d", msg.Event.Configuration.ID)
		}
		kinds = append(kinds, msg.Event.Kind)
	}
	if kinds[0] != store.EventLoading || kinds[1] != store.EventUpdated {
		t.Errorf("events = %v, want [loading updated]", kinds)
	}
}
