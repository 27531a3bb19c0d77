package model

// Configuration is one candidate equipment set under comparison.
//
// While Loading is true, Calculations still holds the last completed result.
type Configuration struct {
	ID           int                   `json:"id"`
	Name         string                `json:"name"`
	Selections   EquipmentSelection    `json:"selections"`
	Calculations AggregatedCalculation `json:"calculations"`
	Loading      bool                  `json:"loading"`
	LastError    string                `json:"lastError,omitempty"`
}

// Clone returns a snapshot that shares no mutable state with c.
func (c Configuration) Clone() Configuration {
	out := c
	out.Selections = c.Selections.Clone()
	return out
}
