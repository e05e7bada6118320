package agent

import "strings"

// Slot names a requirement field. Values double as extraction schema keys.
type Slot string

const (
	SlotLocation       Slot = "location_query"
	SlotSize           Slot = "size"
	SlotSizeMin        Slot = "size_min"
	SlotSizeMax        Slot = "size_max"
	SlotSizeTarget     Slot = "size_target"
	SlotBudget         Slot = "budget"
	SlotBudgetMin      Slot = "budget_min"
	SlotBudgetMax      Slot = "budget_max"
	SlotWarehouseType  Slot = "warehouse_type"
	SlotCompliances    Slot = "compliances_text"
	SlotMinDocks       Slot = "min_docks"
	SlotMinClearHeight Slot = "min_clear_height"
	SlotAvailability   Slot = "availability_text"
	SlotZone           Slot = "zone_text"
	SlotBroker         Slot = "is_broker_preference"
	SlotFireNOC        Slot = "fire_noc_required"
	SlotLandType       Slot = "land_type_industrial"
)

type slotKind int

const (
	kindInt slotKind = iota
	kindString
	kindBool
	kindLand
)

var slotKinds = map[Slot]slotKind{
	SlotLocation:       kindString,
	SlotSizeMin:        kindInt,
	SlotSizeMax:        kindInt,
	SlotSizeTarget:     kindInt,
	SlotBudgetMin:      kindInt,
	SlotBudgetMax:      kindInt,
	SlotWarehouseType:  kindString,
	SlotCompliances:    kindString,
	SlotMinDocks:       kindInt,
	SlotMinClearHeight: kindInt,
	SlotAvailability:   kindString,
	SlotZone:           kindString,
	SlotBroker:         kindBool,
	SlotFireNOC:        kindBool,
	SlotLandType:       kindLand,
}

var (
	areaSchema = []Slot{SlotLocation, SlotSizeMin, SlotSizeMax, SlotSizeTarget}
	landSchema = []Slot{SlotLandType}
	fullSchema = []Slot{
		SlotLocation, SlotSizeMin, SlotSizeMax, SlotSizeTarget,
		SlotBudgetMin, SlotBudgetMax, SlotWarehouseType, SlotCompliances,
		SlotMinDocks, SlotMinClearHeight, SlotAvailability, SlotZone,
		SlotBroker, SlotFireNOC, SlotLandType,
	}
)

// SchemaFor returns the slot subset the extractor fills at a stage
func SchemaFor(stage Stage) []Slot {
	switch stage {
	case StageAreaAndSize:
		return areaSchema
	case StageLandTypePreference:
		return landSchema
	default:
		return fullSchema
	}
}

// MissingSlots lists unmet required slots for stage in the order they
// should be asked.
func (s *RequirementState) MissingSlots(stage Stage) []Slot {
	var missing []Slot
	switch stage {
	case StageAreaAndSize:
		if !s.locationKnown() {
			missing = append(missing, SlotLocation)
		}
		if s.SizeMin == nil && s.SizeMax == nil {
			missing = append(missing, SlotSize)
		}
	case StageLandTypePreference:
		if s.LandTypeIndustrial == LandUndecided {
			missing = append(missing, SlotLandType)
		}
	}
	return missing
}

// ReadyToAdvance reports whether stage has all its required slots
func (s *RequirementState) ReadyToAdvance(stage Stage) bool {
	return len(s.MissingSlots(stage)) == 0
}

// ReadyToSearch reports whether Specifics can hand off to confirmation
func (s *RequirementState) ReadyToSearch() bool {
	return s.Stage == StageSpecifics && s.requirementsComplete()
}

// requirementsComplete is ReadyToSearch without the stage condition
func (s *RequirementState) requirementsComplete() bool {
	bounded := s.SizeMin != nil || s.SizeMax != nil || s.BudgetMin != nil || s.BudgetMax != nil
	return s.locationKnown() && bounded && s.LandTypeIndustrial != LandUndecided
}

func (s *RequirementState) locationKnown() bool {
	if s.LocationQuery != nil && strings.TrimSpace(*s.LocationQuery) != "" {
		return true
	}
	return len(s.ResolvedCities) > 0 || s.ResolvedState != nil
}

// firstIncompleteStage is the earliest gathering stage with missing slots
func (s *RequirementState) firstIncompleteStage() (Stage, bool) {
	for _, st := range []Stage{StageAreaAndSize, StageLandTypePreference} {
		if !s.ReadyToAdvance(st) {
			return st, true
		}
	}
	return 0, false
}
