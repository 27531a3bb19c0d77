package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xuefei993/renewables/internal/analysis"
	"github.com/xuefei993/renewables/internal/api/models"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/session"
	"github.com/xuefei993/renewables/internal/subsidy"
)

// SessionHandler exposes comparison sessions and their configurations
type SessionHandler struct {
	registry  *session.Registry
	subsidies subsidy.Checker
}

// NewSessionHandler creates a new session handler. checker may be nil when no
// eligibility service is configured.
func NewSessionHandler(registry *session.Registry, checker subsidy.Checker) *SessionHandler {
	return &SessionHandler{registry: registry, subsidies: checker}
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	s, err := h.registry.Create(c.Request.Context(), req.Profile, req.Equipment)
	if err != nil {
		log.Printf("SessionHandler: create failed: %v", err)
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(s))
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if !h.registry.Delete(c.Param("id")) {
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddConfiguration handles POST /api/v1/sessions/:id/configurations
func (h *SessionHandler) AddConfiguration(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	cfg := s.Store.Add()
	c.JSON(http.StatusCreated, models.NewConfigurationResponse(cfg, s.Subsidies.Total()))
}

// RenameConfiguration handles PATCH /api/v1/sessions/:id/configurations/:configId
func (h *SessionHandler) RenameConfiguration(c *gin.Context) {
	s, id, ok := h.configuration(c)
	if !ok {
		return
	}
	var req models.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := s.Store.Rename(id, req.Name); err != nil {
		respondDomainError(c, err)
		return
	}
	h.respondConfiguration(c, s, id, http.StatusOK)
}

// RemoveConfiguration handles DELETE /api/v1/sessions/:id/configurations/:configId
func (h *SessionHandler) RemoveConfiguration(c *gin.Context) {
	s, id, ok := h.configuration(c)
	if !ok {
		return
	}
	if err := s.Store.Remove(id); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetSelection handles PUT /api/v1/sessions/:id/configurations/:configId/selections/:category
func (h *SessionHandler) SetSelection(c *gin.Context) {
	s, id, ok := h.configuration(c)
	if !ok {
		return
	}
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CATEGORY", err.Error())
		return
	}
	var req models.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := s.Store.SetSelection(id, category, req.Key()); err != nil {
		respondDomainError(c, err)
		return
	}
	h.respondConfiguration(c, s, id, http.StatusAccepted)
}

// Recalculate handles POST /api/v1/sessions/:id/configurations/:configId/recalculate
func (h *SessionHandler) Recalculate(c *gin.Context) {
	s, id, ok := h.configuration(c)
	if !ok {
		return
	}
	if err := s.Store.Recalculate(id); err != nil {
		respondDomainError(c, err)
		return
	}
	h.respondConfiguration(c, s, id, http.StatusAccepted)
}

// MonthlySeries handles GET /api/v1/sessions/:id/configurations/:configId/monthly/:metric
func (h *SessionHandler) MonthlySeries(c *gin.Context) {
	s, id, ok := h.configuration(c)
	if !ok {
		return
	}
	metric := analysis.Metric(c.Param("metric"))
	values, err := s.Store.Series(id, metric)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	cfg, _ := s.Store.Get(id)
	c.JSON(http.StatusOK, models.SeriesResponse{
		ConfigurationID: id,
		Metric:          metric,
		Labels:          model.MonthLabels,
		Values:          values,
		Synthetic:       cfg.Calculations.Synthetic,
	})
}

// Ranking handles GET /api/v1/sessions/:id/ranking
func (h *SessionHandler) Ranking(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	total := s.Subsidies.Total()
	c.JSON(http.StatusOK, models.RankingResponse{
		CostLabel: subsidy.CostLabel(total),
		Ranking:   analysis.RankByPayback(s.Store.List(), total),
	})
}

// ApplySubsidy handles POST /api/v1/sessions/:id/subsidies
func (h *SessionHandler) ApplySubsidy(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req models.ApplySubsidyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := s.Subsidies.Apply(req.ToModel()); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

// RemoveSubsidy handles DELETE /api/v1/sessions/:id/subsidies/:subsidyId
func (h *SessionHandler) RemoveSubsidy(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if !s.Subsidies.Remove(c.Param("subsidyId")) {
		respondError(c, http.StatusNotFound, "SUBSIDY_NOT_FOUND", "subsidy is not applied")
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

// CheckSubsidies handles POST /api/v1/sessions/:id/subsidies/check
func (h *SessionHandler) CheckSubsidies(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if h.subsidies == nil {
		respondError(c, http.StatusServiceUnavailable, "SUBSIDY_SERVICE_DISABLED", "no subsidy eligibility service is configured")
		return
	}
	var req models.SubsidyCheckRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}
	res, err := h.subsidies.Check(c.Request.Context(), subsidy.CheckRequest{
		HasSolarPanels: s.Flags.SolarPanels,
		HasHeatPump:    s.Flags.HeatPump,
		HasBattery:     s.Flags.BatteryStorage,
		HouseType:      req.HouseType,
		EPCRating:      req.EPCRating,
		Postcode:       req.Postcode,
	})
	if err != nil {
		log.Printf("SessionHandler: subsidy check failed: %v", err)
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	s, ok := h.registry.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found")
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) configuration(c *gin.Context) (*session.Session, int, bool) {
	s, ok := h.session(c)
	if !ok {
		return nil, 0, false
	}
	id, err := strconv.Atoi(c.Param("configId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CONFIGURATION_ID", "configuration id must be an integer")
		return nil, 0, false
	}
	return s, id, true
}

func (h *SessionHandler) respondConfiguration(c *gin.Context, s *session.Session, id, status int) {
	cfg, err := s.Store.Get(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(status, models.NewConfigurationResponse(cfg, s.Subsidies.Total()))
}

func sessionResponse(s *session.Session) models.SessionResponse {
	total := s.Subsidies.Total()
	configs := s.Store.List()
	out := models.SessionResponse{
		ID:             s.ID,
		CreatedAt:      s.CreatedAt,
		Equipment:      s.Flags,
		CostLabel:      subsidy.CostLabel(total),
		SubsidyTotal:   total,
		Subsidies:      s.Subsidies.Applied(),
		Configurations: make([]models.ConfigurationResponse, 0, len(configs)),
		Costs:          subsidy.Present(configs, total),
	}
	for _, cfg := range configs {
		out.Configurations = append(out.Configurations, models.NewConfigurationResponse(cfg, total))
	}
	return out
}
