package agent

import (
	"context"
	"fmt"
	"strings"

	"wareongo/internal/model"
)

const (
	confirmHeading = "Hope I captured your requirements well!"
	updateHeading  = "Updated requirements:"
)

// Summary renders the captured requirements in a fixed field order.
// Unset optional fields are left out.
func (s *RequirementState) Summary() string {
	var b strings.Builder
	line := func(icon, label, value string) {
		fmt.Fprintf(&b, "%s %s: %s\n", icon, label, value)
	}

	line("📍", "Location", s.locationLabel())
	line("📦", "Size", rangeLabel(s.SizeMin, s.SizeMax, "", " sqft", "Not specified"))
	if s.BudgetMin != nil || s.BudgetMax != nil {
		line("💰", "Budget", rangeLabel(s.BudgetMin, s.BudgetMax, "₹", "/sqft", ""))
	}
	if s.WarehouseType != nil {
		line("🏗️", "Type", *s.WarehouseType)
	}
	if s.MinDocks != nil {
		line("🚚", "Min Docks", fmt.Sprint(*s.MinDocks))
	}
	if s.MinClearHeight != nil {
		line("📏", "Min Height", fmt.Sprintf("%d ft", *s.MinClearHeight))
	}
	if s.CompliancesText != nil {
		line("📋", "Compliance", *s.CompliancesText)
	}
	if s.AvailabilityText != nil {
		line("⏰", "Availability", *s.AvailabilityText)
	}
	if s.ZoneText != nil {
		line("🗺️", "Zone", *s.ZoneText)
	}
	if s.IsBrokerPreference != nil {
		listing := "Owner listings only"
		if *s.IsBrokerPreference {
			listing = "Broker listings"
		}
		line("🏢", "Listing", listing)
	}
	if s.FireNOCRequired != nil {
		noc := "Not required"
		if *s.FireNOCRequired {
			noc = "Required"
		}
		line("🔥", "Fire NOC", noc)
	}
	line("🏭", "Land Type", s.LandTypeIndustrial.Label())
	return strings.TrimRight(b.String(), "\n")
}

func (s *RequirementState) locationLabel() string {
	switch {
	case s.ResolvedArea != nil && len(s.ResolvedCities) > 0:
		return fmt.Sprintf("%s, %s", *s.ResolvedArea, s.ResolvedCities[0])
	case s.LocationQuery != nil:
		return *s.LocationQuery
	case len(s.ResolvedCities) > 0:
		return strings.Join(s.ResolvedCities, ", ")
	case s.ResolvedState != nil:
		return *s.ResolvedState
	}
	return "Not specified"
}

func rangeLabel(lo, hi *int, prefix, unit, empty string) string {
	num := func(v int) string { return prefix + model.FormatThousands(int64(v)) }
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%s - %s%s", num(*lo), num(*hi), unit)
	case lo != nil:
		return fmt.Sprintf("at least %s%s", num(*lo), unit)
	case hi != nil:
		return fmt.Sprintf("up to %s%s", num(*hi), unit)
	}
	return empty
}

func (o *Orchestrator) confirmRequirements(_ context.Context, t *turn) {
	s := t.state
	heading := confirmHeading
	for _, m := range s.Transcript {
		if m.Role == RoleAssistant && m.Kind == KindConfirmation {
			heading = updateHeading
			break
		}
	}

	if s.Stage < StageConfirming {
		s.Stage = StageConfirming
	}
	s.RequirementsConfirmed = false
	s.appendAssistant(fmt.Sprintf("%s\n\n%s\n\n%s", heading, s.Summary(), confirmationPrompt), KindConfirmation)
	s.NextAction = ActionWaitForUser
}
