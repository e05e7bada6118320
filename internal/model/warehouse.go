package model

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Warehouse represents a warehouse listing joined with its detail record
type Warehouse struct {
	ID                 int64         `json:"id" db:"id"`
	WarehouseType      *string       `json:"warehouse_type,omitempty" db:"warehouseType"`
	City               *string       `json:"city,omitempty" db:"city"`
	State              *string       `json:"state,omitempty" db:"state"`
	TotalSpaceSqft     pq.Int64Array `json:"total_space_sqft,omitempty" db:"totalSpaceSqft"`
	RatePerSqft        *string       `json:"rate_per_sqft,omitempty" db:"ratePerSqft"`
	NumberOfDocks      *string       `json:"number_of_docks,omitempty" db:"numberOfDocks"`
	ClearHeightFt      *string       `json:"clear_height_ft,omitempty" db:"clearHeightFt"`
	Compliances        *string       `json:"compliances,omitempty" db:"compliances"`
	FireNocAvailable   *bool         `json:"fire_noc_available,omitempty" db:"fireNocAvailable"`
	FireSafetyMeasures *string       `json:"fire_safety_measures,omitempty" db:"fireSafetyMeasures"`
	LandType           *string       `json:"land_type,omitempty" db:"landType"`
	MatchedReasons     []string      `json:"matched_reasons,omitempty" db:"-"`
}

// Location returns "City, State" with missing parts omitted
func (w Warehouse) Location() string {
	var parts []string
	if w.City != nil && *w.City != "" {
		parts = append(parts, *w.City)
	}
	if w.State != nil && *w.State != "" {
		parts = append(parts, *w.State)
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, ", ")
}

// SpaceLabel renders the available space options, e.g. "40,000 / 65,000 sqft"
func (w Warehouse) SpaceLabel() string {
	if len(w.TotalSpaceSqft) == 0 {
		return "N/A"
	}
	labels := make([]string, 0, len(w.TotalSpaceSqft))
	for _, s := range w.TotalSpaceSqft {
		labels = append(labels, FormatThousands(s))
	}
	return strings.Join(labels, " / ") + " sqft"
}

// FormatThousands formats n with comma separators
func FormatThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
