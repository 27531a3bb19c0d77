package models

import (
	"strings"

	"github.com/xuefei993/renewables/internal/model"
)

// CreateSessionRequest starts a comparison for a household.
type CreateSessionRequest struct {
	Profile   model.UserProfile    `json:"profile"`
	Equipment model.EquipmentFlags `json:"equipment"`
}

// RenameRequest represents the request body for renaming a configuration
type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// SelectionRequest picks equipment for one category. The id may be sent as a number or
// a string; null or "" clears the pick.
type SelectionRequest struct {
	EquipmentID model.Number `json:"equipmentId"`
}

// Key returns the catalog key the request refers to.
func (r SelectionRequest) Key() string {
	return strings.TrimSpace(string(r.EquipmentID))
}

// ApplySubsidyRequest records a subsidy returned by the eligibility check.
type ApplySubsidyRequest struct {
	SubsidyID       string  `json:"subsidyId" binding:"required"`
	Name            string  `json:"name"`
	IsEligible      bool    `json:"isEligible"`
	EstimatedAmount float64 `json:"estimatedAmount" binding:"gte=0"`
	Deadline        string  `json:"deadline,omitempty"`
	ApplicationURL  string  `json:"applicationUrl,omitempty"`
}

func (r ApplySubsidyRequest) ToModel() model.Subsidy {
	return model.Subsidy{
		SubsidyID:       r.SubsidyID,
		Name:            r.Name,
		IsEligible:      r.IsEligible,
		EstimatedAmount: r.EstimatedAmount,
		Deadline:        r.Deadline,
		ApplicationURL:  r.ApplicationURL,
	}
}

// SubsidyCheckRequest carries the household details the eligibility service needs.
// Equipment flags come from the session.
type SubsidyCheckRequest struct {
	HouseType string `json:"houseType,omitempty"`
	EPCRating string `json:"epcRating,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
}
