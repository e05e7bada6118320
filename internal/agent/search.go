package agent

import (
	"context"
	"fmt"
	"strings"

	"wareongo/internal/model"
)

// relaxCategory names a filter the user can ask to loosen
type relaxCategory string

const (
	relaxLand   relaxCategory = "land"
	relaxFire   relaxCategory = "fire"
	relaxSize   relaxCategory = "size"
	relaxBudget relaxCategory = "budget"
	relaxType   relaxCategory = "type"
)

// relaxPriority is both the menu order and the tie-break order when a
// request names several categories.
var relaxPriority = []relaxCategory{relaxLand, relaxFire, relaxSize, relaxBudget, relaxType}

// Filters builds search filters from the non-null slots
func (s *RequirementState) Filters() model.WarehouseFilters {
	f := model.WarehouseFilters{
		SizeMin:        clonePtr(s.SizeMin),
		SizeMax:        clonePtr(s.SizeMax),
		RateMin:        clonePtr(s.BudgetMin),
		RateMax:        clonePtr(s.BudgetMax),
		WarehouseType:  clonePtr(s.WarehouseType),
		Compliances:    clonePtr(s.CompliancesText),
		MinDocks:       clonePtr(s.MinDocks),
		MinClearHeight: clonePtr(s.MinClearHeight),
		Availability:   clonePtr(s.AvailabilityText),
		Zone:           clonePtr(s.ZoneText),
		IsBroker:       clonePtr(s.IsBrokerPreference),
	}
	switch {
	case len(s.ResolvedCities) > 0:
		f.Cities = append([]string(nil), s.ResolvedCities...)
	case s.ResolvedState != nil:
		f.State = clonePtr(s.ResolvedState)
	case s.LocationQuery != nil:
		f.Cities = []string{*s.LocationQuery}
	}
	f.FireNOCRequired = s.FireNOCRequired != nil && *s.FireNOCRequired
	f.LandTypeIndustrial = s.LandTypeIndustrial == LandIndustrial
	return f
}

// resolveLocation resolves the location query once per distinct value
func (o *Orchestrator) resolveLocation(ctx context.Context, s *RequirementState) {
	if s.LocationQuery == nil {
		return
	}
	query := *s.LocationQuery
	if s.ResolvedFor != nil && *s.ResolvedFor == query && (len(s.ResolvedCities) > 0 || s.ResolvedState != nil) {
		return
	}

	s.ResolvedCities, s.ResolvedState, s.ResolvedArea = nil, nil, nil
	s.ResolvedFor = ptr(query)

	var (
		res model.LocationResolution
		err error
	)
	if o.resolver == nil {
		err = ErrResolution
	} else {
		res, err = o.resolver.Resolve(ctx, query)
	}
	if err == nil && res.Empty() {
		err = ErrResolution
	}
	if err != nil {
		o.logger.Warn("Location resolution failed, searching the raw location as a city",
			"location", query, "error", err)
		if o.resolver != nil {
			o.observer.ObserveFailure("resolution")
		}
		s.ResolvedCities = []string{query}
		return
	}

	if len(res.Cities) > 0 {
		s.ResolvedCities = append([]string(nil), res.Cities...)
		if res.Area != nil && *res.Area != "" {
			s.ResolvedArea = ptr(*res.Area)
		}
	} else {
		s.ResolvedState = ptr(*res.State)
	}
	o.logger.Info("Location resolved", "location", query,
		"cities", s.ResolvedCities, "state", s.ResolvedState)
}

func (o *Orchestrator) searchDatabase(ctx context.Context, t *turn) {
	s := t.state
	o.resolveLocation(ctx, s)

	filters := s.Filters()
	page := max(s.CurrentPage, 1)
	results, err := o.searcher.Search(ctx, filters, page)
	if err != nil {
		o.logger.Error("Warehouse search failed", "page", page, "error", err)
		o.observer.ObserveFailure("search")
		s.appendAssistant(fmt.Sprintf(
			"Uh oh, I hit a snag while searching: %v. Please try again in a moment, or adjust your requirements.", err),
			KindNotice)
		s.NextAction = ActionWaitForUser
		return
	}

	s.Stage = StageSearching
	s.SearchResultsCache = results
	s.NextAction = ActionWaitForUser

	outcome, text, kind := o.presentResults(s, results, page)
	o.observer.ObserveSearch(outcome, len(results))
	o.logger.Info("Search completed", "page", page, "results", len(results), "outcome", outcome)

	if len(t.notes) > 0 {
		text = strings.Join(t.notes, "\n") + "\n\n" + text
		t.notes = nil
	}
	s.appendAssistant(text, kind)
}

// presentResults classifies one page of results and renders the reply
func (o *Orchestrator) presentResults(s *RequirementState, results []model.Warehouse, page int) (string, string, MessageKind) {
	n := len(results)
	switch {
	case n == 0 && page == 1:
		return "none", "🔍 I couldn't find any warehouses matching your exact criteria.\n\n" + s.relaxationMenu(), KindRelaxationMenu

	case n == 0:
		return "exhausted", fmt.Sprintf(
			"📄 That's all the results I found - %d page(s) total. Want to try different search criteria to see more options?",
			page-1), KindNotice

	case n < o.cfg.PageSize && page == 1:
		return "partial", formatResults(results, page, o.cfg.PageSize) + "\n\n" + s.relaxationMenu(), KindRelaxationMenu

	case n >= o.cfg.PageSize:
		hint := "Type 'more' to see the next page."
		if page >= o.cfg.MaxPages {
			hint = fmt.Sprintf("That's the last page I can show (%d pages). Narrow your criteria to see different warehouses.", o.cfg.MaxPages)
		}
		return "full", formatResults(results, page, o.cfg.PageSize) + "\n\n" + hint, KindResults

	default:
		return "last", formatResults(results, page, o.cfg.PageSize) +
			"\n\n📄 That's the end of the results. Want to adjust your criteria to see more options?", KindResults
	}
}

func formatResults(results []model.Warehouse, page, pageSize int) string {
	var b strings.Builder
	if page == 1 {
		fmt.Fprintf(&b, "Here are %d warehouse(s) matching your requirements:\n", len(results))
	} else {
		fmt.Fprintf(&b, "Page %d:\n", page)
	}
	first := (page-1)*pageSize + 1
	for i, w := range results {
		fmt.Fprintf(&b, "\n%d. %s", first+i, formatWarehouse(w))
	}
	return b.String()
}

// formatWarehouse renders one listing on a few lines
func formatWarehouse(w model.Warehouse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏢 Warehouse #%d (%s)\n", w.ID, orNA(w.WarehouseType))
	fmt.Fprintf(&b, "   📍 %s\n", w.Location())
	fmt.Fprintf(&b, "   📦 %s\n", w.SpaceLabel())
	if w.RatePerSqft != nil && *w.RatePerSqft != "" {
		fmt.Fprintf(&b, "   💰 ₹%s/sqft\n", *w.RatePerSqft)
	}
	if w.NumberOfDocks != nil && *w.NumberOfDocks != "" {
		fmt.Fprintf(&b, "   🚚 %s docks\n", *w.NumberOfDocks)
	}
	if w.FireNocAvailable != nil {
		noc := "No"
		if *w.FireNocAvailable {
			noc = "Yes"
		}
		fmt.Fprintf(&b, "   🔥 Fire NOC: %s\n", noc)
	}
	if w.LandType != nil && *w.LandType != "" {
		fmt.Fprintf(&b, "   🏭 Land: %s\n", *w.LandType)
	}
	if len(w.MatchedReasons) > 0 {
		fmt.Fprintf(&b, "   ✅ Matches: %s\n", strings.Join(w.MatchedReasons, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

// restrictive reports whether category currently narrows the search
func (s *RequirementState) restrictive(c relaxCategory) bool {
	switch c {
	case relaxLand:
		return s.LandTypeIndustrial == LandIndustrial
	case relaxFire:
		return s.FireNOCRequired != nil && *s.FireNOCRequired
	case relaxSize:
		return s.SizeMin != nil || s.SizeMax != nil
	case relaxBudget:
		return s.BudgetMin != nil || s.BudgetMax != nil
	case relaxType:
		return s.WarehouseType != nil
	}
	return false
}

var relaxMenuLines = map[relaxCategory]string{
	relaxLand:   "• Land type: also include commercial land (say 'relax land type')",
	relaxFire:   "• Fire NOC: include warehouses without a fire NOC (say 'relax fire noc')",
	relaxSize:   "• Size: widen the size range by 30% (say 'relax size')",
	relaxBudget: "• Budget: stretch the budget by 20% (say 'relax budget')",
	relaxType:   "• Warehouse type: consider any structure (say 'relax type')",
}

// relaxationMenu offers the currently restrictive filters in priority order
func (s *RequirementState) relaxationMenu() string {
	var lines []string
	for _, c := range relaxPriority {
		if s.restrictive(c) {
			lines = append(lines, relaxMenuLines[c])
		}
	}
	if len(lines) == 0 {
		return "Try a different location, or tell me what else to change."
	}
	return "You could try relaxing one of these:\n" + strings.Join(lines, "\n") +
		"\n\nOr tell me any other change you'd like to make."
}
