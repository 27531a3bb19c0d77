package models

import (
	"time"

	"github.com/xuefei993/renewables/internal/analysis"
	"github.com/xuefei993/renewables/internal/model"
	"github.com/xuefei993/renewables/internal/subsidy"
)

// SessionResponse is the full comparison state of a session
type SessionResponse struct {
	ID             string                  `json:"id"`
	CreatedAt      time.Time               `json:"createdAt"`
	Equipment      model.EquipmentFlags    `json:"equipment"`
	CostLabel      string                  `json:"costLabel"`
	SubsidyTotal   float64                 `json:"subsidyTotal"`
	Subsidies      []model.Subsidy         `json:"subsidies"`
	Configurations []ConfigurationResponse `json:"configurations"`
	Costs          []subsidy.Row           `json:"costs"`
}

// ConfigurationResponse is a configuration with its display cost.
type ConfigurationResponse struct {
	model.Configuration
	NetCost float64 `json:"netCost"`
}

func NewConfigurationResponse(c model.Configuration, subsidyTotal float64) ConfigurationResponse {
	return ConfigurationResponse{
		Configuration: c,
		NetCost:       subsidy.NetCost(c.Calculations.InstallationCost, subsidyTotal),
	}
}

// SeriesResponse feeds one chart
type SeriesResponse struct {
	ConfigurationID int                         `json:"configurationId"`
	Metric          analysis.Metric             `json:"metric"`
	Labels          [model.MonthsPerYear]string `json:"labels"`
	Values          model.Monthly               `json:"values"`
	Synthetic       bool                        `json:"synthetic,omitempty"`
}

// RankingResponse lists configurations best first
type RankingResponse struct {
	CostLabel string                         `json:"costLabel"`
	Ranking   []analysis.RankedConfiguration `json:"ranking"`
}

// StrategyInfo describes a selection heuristic
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
