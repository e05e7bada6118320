package agent

import (
	"fmt"

	"wareongo/internal/utils"
)

var (
	relaxTriggers = []string{
		"relax", "loosen", "expand", "widen", "broaden", "more options",
		"flexible", "adjust", "less strict", "open up",
	}
	relaxKeywords = map[relaxCategory][]string{
		relaxLand:   {"land type", "land", "industrial", "clu", "commercial"},
		relaxFire:   {"fire noc", "fire", "noc", "compliance"},
		relaxSize:   {"size", "sqft", "square feet", "space", "area"},
		relaxBudget: {"budget", "price", "rate", "cost", "rent", "cheaper", "expensive"},
		relaxType:   {"warehouse type", "type", "structure", "peb", "rcc", "shed"},
	}
)

// relaxationRequest recognizes a request to loosen filters and returns the
// categories it names in priority order. A request naming no category is
// still a request. Right after the relaxation menu a bare category name
// ("budget") counts too.
func relaxationRequest(text string, afterMenu bool) ([]relaxCategory, bool) {
	// "expand to 80000 sqft" is a new value, not a relaxation
	if hasDigit(text) {
		return nil, false
	}

	var named []relaxCategory
	for _, c := range relaxPriority {
		if utils.ContainsAny(text, relaxKeywords[c]) {
			named = append(named, c)
		}
	}

	if utils.ContainsAny(text, relaxTriggers) {
		return named, true
	}
	if afterMenu && len(named) > 0 && len(utils.Tokens(text)) <= 4 {
		return named, true
	}
	return nil, false
}

// relax loosens exactly one restrictive filter and searches again
func (o *Orchestrator) relax(t *turn, named []relaxCategory) {
	s := t.state

	target, ok := pickRelaxation(s, named)
	if !ok {
		msg, kind := "Your search doesn't have any filters I can loosen right now. Try a different location, or tell me what to change.", KindNotice
		if len(named) > 0 {
			msg = fmt.Sprintf("The %s filter isn't narrowing your search at the moment.\n\n%s", categoryLabel(named[0]), s.relaxationMenu())
			kind = KindRelaxationMenu
		}
		s.appendAssistant(msg, kind)
		s.NextAction = ActionWaitForUser
		return
	}

	note := s.loosen(target)
	o.logger.Info("Relaxed search filter", "category", target, "note", note)
	t.notes = append(t.notes, note)

	s.CurrentPage = 1
	s.RequirementsConfirmed = false
	s.SearchResultsCache = nil
	s.NextAction = ActionSearchDatabase
}

// pickRelaxation chooses the highest-priority restrictive category among
// the named ones, or among all when none is named.
func pickRelaxation(s *RequirementState, named []relaxCategory) (relaxCategory, bool) {
	candidates := named
	if len(candidates) == 0 {
		candidates = relaxPriority
	}
	for _, c := range candidates {
		if s.restrictive(c) {
			return c, true
		}
	}
	return "", false
}

func categoryLabel(c relaxCategory) string {
	switch c {
	case relaxLand:
		return "land type"
	case relaxFire:
		return "fire NOC"
	case relaxBudget:
		return "budget"
	case relaxType:
		return "warehouse type"
	}
	return "size"
}

// loosen applies one relaxation rule and describes it
func (s *RequirementState) loosen(c relaxCategory) string {
	switch c {
	case relaxLand:
		s.LandTypeIndustrial = LandEither
		return "🏭 I've opened the search to both industrial and commercial land."

	case relaxFire:
		s.FireNOCRequired = ptr(false)
		return "🔥 I've dropped the fire NOC requirement."

	case relaxSize:
		s.SizeMin, s.SizeMax = RelaxSize(s.SizeMin, s.SizeMax)
		return "📦 I've widened the size range to " + rangeLabel(s.SizeMin, s.SizeMax, "", " sqft", "any size") + "."

	case relaxBudget:
		s.BudgetMin, s.BudgetMax = RelaxBudget(s.BudgetMin, s.BudgetMax)
		return "💰 I've stretched the budget to " + rangeLabel(s.BudgetMin, s.BudgetMax, "₹", "/sqft", "any budget") + "."

	case relaxType:
		s.WarehouseType = nil
		return "🏗️ I'm now including every warehouse structure type."
	}
	return ""
}

// RelaxSize widens the size bounds by 30%: the minimum drops to 70% and the
// maximum grows to 130%, rounding outward.
func RelaxSize(lo, hi *int) (*int, *int) {
	return scaleBounds(lo, hi, 7, 13)
}

// RelaxBudget loosens the budget bounds by 20% in the same way
func RelaxBudget(lo, hi *int) (*int, *int) {
	return scaleBounds(lo, hi, 8, 12)
}

// scaleBounds multiplies lo by loTenths/10 (rounded down) and hi by
// hiTenths/10 (rounded up).
func scaleBounds(lo, hi *int, loTenths, hiTenths int) (*int, *int) {
	var nlo, nhi *int
	if lo != nil {
		nlo = ptr(max(0, *lo*loTenths/10))
	}
	if hi != nil {
		nhi = ptr((*hi*hiTenths + 9) / 10)
	}
	return nlo, nhi
}
