package agent

import (
	"slices"
)

// SizeBand widens a single target size into the searched range
// [floor(t*0.8), ceil(t*1.2)]. It depends only on t, so repeating it is a no-op.
func SizeBand(target int) (int, int) {
	return target * 8 / 10, (target*12 + 9) / 10
}

// apply writes the update into the state and returns the slots whose value
// actually changed. Any change revokes confirmation and restarts paging;
// a new location also drops the resolved location and cached results.
func (s *RequirementState) apply(u SlotUpdate) []Slot {
	var changed []Slot

	sizeMin, hasMin := u.intValue(SlotSizeMin)
	sizeMax, hasMax := u.intValue(SlotSizeMax)
	if t, ok := u.intValue(SlotSizeTarget); ok && t > 0 {
		sizeMin, sizeMax = SizeBand(t)
		hasMin, hasMax = true, true
	} else if hasMin && hasMax && sizeMin == sizeMax && sizeMin > 0 {
		sizeMin, sizeMax = SizeBand(sizeMin)
	}

	if v, ok := u.Values[SlotLocation].(string); ok && v != "" {
		setValue(&s.LocationQuery, v, SlotLocation, &changed)
	}
	if hasMin {
		setValue(&s.SizeMin, sizeMin, SlotSizeMin, &changed)
	}
	if hasMax {
		setValue(&s.SizeMax, sizeMax, SlotSizeMax, &changed)
	}
	setIntSlot(u, SlotBudgetMin, &s.BudgetMin, &changed)
	setIntSlot(u, SlotBudgetMax, &s.BudgetMax, &changed)
	setStringSlot(u, SlotWarehouseType, &s.WarehouseType, &changed)
	setStringSlot(u, SlotCompliances, &s.CompliancesText, &changed)
	setIntSlot(u, SlotMinDocks, &s.MinDocks, &changed)
	setIntSlot(u, SlotMinClearHeight, &s.MinClearHeight, &changed)
	setStringSlot(u, SlotAvailability, &s.AvailabilityText, &changed)
	setStringSlot(u, SlotZone, &s.ZoneText, &changed)
	if v, ok := u.Values[SlotBroker].(bool); ok {
		setValue(&s.IsBrokerPreference, v, SlotBroker, &changed)
	}
	if v, ok := u.Values[SlotFireNOC].(bool); ok {
		setValue(&s.FireNOCRequired, v, SlotFireNOC, &changed)
	}
	if v, ok := u.Values[SlotLandType].(LandPreference); ok && v != LandUndecided && v != s.LandTypeIndustrial {
		s.LandTypeIndustrial = v
		changed = append(changed, SlotLandType)
	}

	for _, slot := range u.Clear {
		if _, set := u.Values[slot]; set {
			continue
		}
		if s.clearSlot(slot) && !slices.Contains(changed, slot) {
			changed = append(changed, slot)
		}
	}

	orderBounds(s.SizeMin, s.SizeMax)
	orderBounds(s.BudgetMin, s.BudgetMax)

	if len(changed) > 0 {
		s.RequirementsConfirmed = false
		s.CurrentPage = 1
		s.SearchResultsCache = nil
	}
	if slices.Contains(changed, SlotLocation) {
		s.ResolvedCities = nil
		s.ResolvedState = nil
		s.ResolvedArea = nil
		s.ResolvedFor = nil
	}
	return changed
}

func (s *RequirementState) clearSlot(slot Slot) bool {
	switch slot {
	case SlotSizeMin:
		return clearPtr(&s.SizeMin)
	case SlotSizeMax:
		return clearPtr(&s.SizeMax)
	case SlotBudgetMin:
		return clearPtr(&s.BudgetMin)
	case SlotBudgetMax:
		return clearPtr(&s.BudgetMax)
	case SlotWarehouseType:
		return clearPtr(&s.WarehouseType)
	case SlotCompliances:
		return clearPtr(&s.CompliancesText)
	case SlotMinDocks:
		return clearPtr(&s.MinDocks)
	case SlotMinClearHeight:
		return clearPtr(&s.MinClearHeight)
	case SlotAvailability:
		return clearPtr(&s.AvailabilityText)
	case SlotZone:
		return clearPtr(&s.ZoneText)
	case SlotBroker:
		return clearPtr(&s.IsBrokerPreference)
	case SlotFireNOC:
		return clearPtr(&s.FireNOCRequired)
	}
	return false
}

func setIntSlot(u SlotUpdate, slot Slot, field **int, changed *[]Slot) {
	if v, ok := u.intValue(slot); ok {
		setValue(field, v, slot, changed)
	}
}

func setStringSlot(u SlotUpdate, slot Slot, field **string, changed *[]Slot) {
	if v, ok := u.Values[slot].(string); ok && v != "" {
		setValue(field, v, slot, changed)
	}
}

func setValue[T comparable](field **T, v T, slot Slot, changed *[]Slot) {
	if *field != nil && **field == v {
		return
	}
	*field = &v
	*changed = append(*changed, slot)
}

func clearPtr[T any](field **T) bool {
	if *field == nil {
		return false
	}
	*field = nil
	return true
}

func orderBounds(lo, hi *int) {
	if lo != nil && hi != nil && *lo > *hi {
		*lo, *hi = *hi, *lo
	}
}

// coreChanged reports whether a change touched location or size
func coreChanged(changed []Slot) bool {
	for _, s := range changed {
		if s == SlotLocation || s == SlotSizeMin || s == SlotSizeMax {
			return true
		}
	}
	return false
}
