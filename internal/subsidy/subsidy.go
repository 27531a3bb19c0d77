package subsidy

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xuefei993/renewables/internal/model"
)

var (
	ErrNotEligible = errors.New("subsidy is not eligible")
	ErrInvalid     = errors.New("subsidy id is required")
)

const (
	LabelGross = "Installation Cost"
	LabelNet   = "Net Installation Cost"
)

// NetCost subtracts the subsidy total from a gross installation cost, floored at zero.
func NetCost(gross, subsidyTotal float64) float64 {
	net := decimal.NewFromFloat(gross).Sub(decimal.NewFromFloat(subsidyTotal))
	if net.IsNegative() {
		return 0
	}
	return net.InexactFloat64()
}

// CostLabel is the heading for the cost column given the applied subsidy total.
func CostLabel(subsidyTotal float64) string {
	if subsidyTotal > 0 {
		return LabelNet
	}
	return LabelGross
}

// Ledger tracks the subsidies the user applied. It is global to a session, not per
// configuration.
type Ledger struct {
	mu      sync.RWMutex
	applied map[string]model.Subsidy
}

func NewLedger() *Ledger {
	return &Ledger{applied: make(map[string]model.Subsidy)}
}

// Apply records s. Applying the same subsidy twice is a no-op.
func (l *Ledger) Apply(s model.Subsidy) error {
	if s.SubsidyID == "" {
		return ErrInvalid
	}
	if !s.IsEligible {
		return fmt.Errorf("%s: %w", s.SubsidyID, ErrNotEligible)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.applied[s.SubsidyID]; ok {
		return nil
	}
	l.applied[s.SubsidyID] = s
	return nil
}

func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.applied[id]; !ok {
		return false
	}
	delete(l.applied, id)
	return true
}

// Applied returns applied subsidies sorted by id.
func (l *Ledger) Applied() []model.Subsidy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Subsidy, 0, len(l.applied))
	for _, s := range l.applied {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubsidyID < out[j].SubsidyID })
	return out
}

// Total is the sum of estimated amounts of applied subsidies.
func (l *Ledger) Total() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	amounts := make([]decimal.Decimal, 0, len(l.applied))
	for _, s := range l.applied {
		amounts = append(amounts, decimal.NewFromFloat(s.EstimatedAmount))
	}
	if len(amounts) == 0 {
		return 0
	}
	return decimal.Sum(amounts[0], amounts[1:]...).InexactFloat64()
}

// Row is the display view of one configuration's cost.
type Row struct {
	ConfigurationID int     `json:"configurationId"`
	Name            string  `json:"name"`
	Label           string  `json:"label"`
	GrossCost       float64 `json:"grossCost"`
	SubsidyTotal    float64 `json:"subsidyTotal"`
	NetCost         float64 `json:"netCost"`
}

// Present builds cost rows for display. Stored calculations are never modified.
func Present(configs []model.Configuration, subsidyTotal float64) []Row {
	label := CostLabel(subsidyTotal)
	rows := make([]Row, 0, len(configs))
	for _, c := range configs {
		gross := c.Calculations.InstallationCost
		rows = append(rows, Row{
			ConfigurationID: c.ID,
			Name:            c.Name,
			Label:           label,
			GrossCost:       gross,
			SubsidyTotal:    subsidyTotal,
			NetCost:         NetCost(gross, subsidyTotal),
		})
	}
	return rows
}
