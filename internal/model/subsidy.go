package model

// Subsidy is a grant the user may apply to lower installation cost. Eligibility is
// decided by the subsidy service.
type Subsidy struct {
	SubsidyID           string  `json:"subsidyId"`
	Name                string  `json:"name"`
	ShortDescription    string  `json:"shortDescription,omitempty"`
	IsEligible          bool    `json:"isEligible"`
	EstimatedAmount     float64 `json:"estimatedAmount"`
	Deadline            string  `json:"deadline,omitempty"`
	ApplicationURL      string  `json:"applicationUrl,omitempty"`
	IneligibilityReason string  `json:"ineligibilityReason,omitempty"`
}
