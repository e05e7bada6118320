package service

import (
	"strconv"
	"strings"

	"wareongo/internal/model"
)

// Match reason constants
const (
	ReasonLocationMatch = "Location match"
	ReasonSizeFits      = "Size fits"
	ReasonWithinBudget  = "Within budget"
	ReasonTypeMatch     = "Type match"
	ReasonDocks         = "Enough docks"
	ReasonClearHeight   = "Clear height"
	ReasonFireNOC       = "Fire NOC available"
	ReasonIndustrial    = "Industrial land"
	ReasonOwnerListing  = "Owner listing"
	ReasonGeneralMatch  = "General match"
)

// Annotator explains why each warehouse matched the filters. It never
// reorders results; the store already returns them newest first.
type Annotator struct{}

// Annotate fills MatchedReasons on every warehouse in place
func (a Annotator) Annotate(warehouses []model.Warehouse, filters *model.WarehouseFilters) {
	for i := range warehouses {
		warehouses[i].MatchedReasons = a.reasons(warehouses[i], filters)
	}
}

func (a Annotator) reasons(w model.Warehouse, f *model.WarehouseFilters) []string {
	reasons := []string{}
	if f == nil {
		return append(reasons, ReasonGeneralMatch)
	}

	if w.City != nil && len(f.Cities) > 0 {
		for _, c := range f.Cities {
			if strings.Contains(strings.ToLower(*w.City), strings.ToLower(c)) {
				reasons = append(reasons, ReasonLocationMatch)
				break
			}
		}
	} else if w.State != nil && f.State != nil && strings.Contains(strings.ToLower(*w.State), strings.ToLower(*f.State)) {
		reasons = append(reasons, ReasonLocationMatch)
	}

	if (f.SizeMin != nil || f.SizeMax != nil) && sizeFits(w.TotalSpaceSqft, f.SizeMin, f.SizeMax) {
		reasons = append(reasons, ReasonSizeFits)
	}

	if f.RateMax != nil {
		if rate, ok := numeric(w.RatePerSqft); ok && rate <= float64(*f.RateMax) {
			reasons = append(reasons, ReasonWithinBudget)
		}
	}

	if f.WarehouseType != nil && w.WarehouseType != nil &&
		strings.Contains(strings.ToLower(*w.WarehouseType), strings.ToLower(*f.WarehouseType)) {
		reasons = append(reasons, ReasonTypeMatch)
	}

	if f.MinDocks != nil {
		if docks, ok := numeric(w.NumberOfDocks); ok && docks >= float64(*f.MinDocks) {
			reasons = append(reasons, ReasonDocks)
		}
	}

	if f.MinClearHeight != nil {
		if h, ok := numeric(w.ClearHeightFt); ok && h >= float64(*f.MinClearHeight) {
			reasons = append(reasons, ReasonClearHeight)
		}
	}

	if f.FireNOCRequired && w.FireNocAvailable != nil && *w.FireNocAvailable {
		reasons = append(reasons, ReasonFireNOC)
	}

	if f.LandTypeIndustrial && w.LandType != nil && strings.Contains(strings.ToLower(*w.LandType), "industrial") {
		reasons = append(reasons, ReasonIndustrial)
	}

	if f.IsBroker != nil && !*f.IsBroker {
		reasons = append(reasons, ReasonOwnerListing)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}
	return reasons
}

// sizeFits reports whether any offered unit satisfies every present bound
func sizeFits(spaces []int64, lo, hi *int) bool {
	for _, s := range spaces {
		if lo != nil && s < int64(*lo) {
			continue
		}
		if hi != nil && s > int64(*hi) {
			continue
		}
		return true
	}
	return false
}

// numeric parses free-text numeric columns such as "28" or "32.5"
func numeric(s *string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	return f, err == nil
}
