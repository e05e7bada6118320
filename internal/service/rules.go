package service

import (
	"context"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"wareongo/internal/agent"
	"wareongo/internal/utils"
)

// RuleExtractor reads slot values from the latest user message with
// keyword and pattern rules. It needs no network and is the fallback
// whenever the LLM is disabled or fails.
type RuleExtractor struct{}

// NewRuleExtractor creates a rule-based extractor
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

var (
	digitGroup = regexp.MustCompile(`(\d),(\d)`)

	unitPattern   = `(?:sq\.?\s*ft|sqft|sft|square\s+feet|square\s+foot)`
	scalePattern  = `(?:(k|thousand|lakhs?|lacs?)\b)?`
	numberPattern = `(\d+(?:\.\d+)?)`

	budgetRangeRe = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)?\s*` + numberPattern + `\s*(?:-|to|–)\s*(?:₹|\brs\.?|\binr)?\s*` + numberPattern + `\s*(?:/|per)\s*` + unitPattern)
	budgetUnitRe  = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)?\s*` + numberPattern + `\s*(?:/-)?\s*(?:/|per)\s*` + unitPattern)
	budgetCurRe   = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)\s*` + numberPattern)
	budgetWordRe  = regexp.MustCompile(`(?i)\b(?:budget|rent|rate|price)\b[^0-9]{0,20}` + numberPattern + `(?:\s*(?:-|to|–)\s*` + numberPattern + `)?`)

	docksRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:\+\s*)?(?:loading\s+)?(?:docks?|bays?)\b`)
	heightRe = regexp.MustCompile(`(?i)(?:(\d+(?:\.\d+)?)\s*(ft|feet|foot|m|mtrs?|meters?|metres?)\b\s*(?:of\s+)?(?:clear\s+)?height|(?:clear\s+)?height\s*(?:of\s*)?(?:at\s+least\s*)?(\d+(?:\.\d+)?)\s*(?:(ft|feet|foot|m|mtrs?|meters?|metres?)\b)?)`)

	sizeRangeRe  = regexp.MustCompile(`(?i)` + numberPattern + `\s*` + scalePattern + `\s*(?:-|to|–)\s*` + numberPattern + `\s*` + scalePattern + `\s*` + unitPattern + `?`)
	sizeSingleRe = regexp.MustCompile(`(?i)` + numberPattern + `\s*` + scalePattern + `\s*` + unitPattern + `?`)

	minQualifiers = []string{"at least", "atleast", "minimum", "min", "more than", "above", "over", "greater than", "starting"}
	maxQualifiers = []string{"up to", "upto", "maximum", "max", "under", "below", "less than", "within", "not more than"}

	locationPrepRe   = regexp.MustCompile(`(?i)\b(?:in|at|near|around)\s+([a-z][a-z .,'-]*)`)
	locationChangeRe = regexp.MustCompile(`(?i)\b(?:change|move|switch|shift)\w*\s+(?:the\s+)?(?:location\s+)?to\s+([a-z][a-z .,'-]*)`)
	unitRe           = regexp.MustCompile(`(?i)` + unitPattern)
	locationStop     = []string{
		" for ", " with ", " of ", " under ", " around ", " having ", " need", " budget", " and ",
		" size", " sqft", " warehouse", " space", " please", " area of",
	}
	nonLocationWords = []string{
		"yes", "no", "ok", "okay", "sure", "hi", "hello", "hey", "thanks", "thank you", "none", "nothing",
		"nope", "yeah", "yep", "more", "next", "help", "what", "why", "how", "hmm", "not sure", "no idea",
	}
	nonLocationFirst = []string{"hi", "hello", "hey", "thanks", "yes", "no", "ok", "okay", "sure", "what", "why", "how", "can", "could", "least", "most", "max", "min"}
	locationFiller   = []string{
		"i", "we", "need", "want", "looking", "for", "a", "an", "the", "warehouse", "warehouses",
		"space", "in", "at", "near", "around", "is", "it", "city", "location", "please", "my", "our",
		"change", "move", "to", "actually", "make", "switch", "instead",
	}

	fireRe         = regexp.MustCompile(`(?i)\bfire\s*(?:noc|safety|compliance|clearance|certificate)\b|\bnoc\b`)
	fireNegativeRe = regexp.MustCompile(`(?i)\b(?:no|not|without|don'?t|do not|doesn'?t|skip|optional)\b[^.]{0,25}\b(?:fire|noc)\b|\b(?:fire\s*noc|noc)\b[^.]{0,20}\b(?:not required|not needed|optional|not necessary|not mandatory|isn'?t needed)\b`)

	brokerNoRe  = regexp.MustCompile(`(?i)\b(?:no\s+brokers?|without\s+(?:a\s+)?brokers?|owners?\s+only|direct(?:ly)?\s+(?:from\s+)?owners?|only\s+owners?)\b`)
	brokerYesRe = regexp.MustCompile(`(?i)\b(?:brokers?\s+(?:is|are)?\s*(?:ok|okay|fine)|via\s+(?:a\s+)?brokers?|through\s+(?:a\s+)?brokers?|brokers?\s+listings?)\b`)

	availabilityRe = regexp.MustCompile(`(?i)\b(immediate(?:ly)?|ready\s+to\s+move|within\s+\d+\s+(?:days?|weeks?|months?)|next\s+month|available\s+now)\b`)
	zoneRe         = regexp.MustCompile(`(?i)\b([a-z]+(?:\s+[a-z]+)?)\s+zone\b`)
	complianceRe   = regexp.MustCompile(`(?i)\b(pollution|environmental|environment|fssai|factory\s+licen[cs]e|gst|trade\s+licen[cs]e|iso)\b`)
)

// Extract implements agent.IntentExtractor
func (e *RuleExtractor) Extract(_ context.Context, req agent.ExtractionRequest) (string, error) {
	text := latestUserText(req.Context)
	out := e.extract(text, req.Schema)
	return sonic.MarshalString(out)
}

func latestUserText(msgs []agent.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == agent.RoleUser {
			return msgs[i].Text
		}
	}
	return ""
}

func (e *RuleExtractor) extract(text string, schema []agent.Slot) map[string]any {
	out := map[string]any{}
	var clear []string
	has := func(s agent.Slot) bool { return slices.Contains(schema, s) }
	set := func(s agent.Slot, v any) {
		if has(s) {
			out[string(s)] = v
		}
	}

	work := " " + digitGroup.ReplaceAllString(strings.TrimSpace(text), "$1$2") + " "
	lower := strings.ToLower(work)

	// Numbers tied to a unit are consumed first so the size rules only see
	// what is left.
	if has(agent.SlotBudgetMax) {
		work = e.budget(work, set)
		if utils.ContainsAny(lower, []string{"any budget", "no budget", "budget doesn't matter", "budget is flexible", "flexible budget"}) {
			clear = append(clear, string(agent.SlotBudgetMin), string(agent.SlotBudgetMax))
		}
	}
	if has(agent.SlotMinDocks) {
		if m := docksRe.FindStringSubmatch(work); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				set(agent.SlotMinDocks, n)
			}
			work = strings.Replace(work, m[0], " ", 1)
		}
	}
	if has(agent.SlotMinClearHeight) {
		if m := heightRe.FindStringSubmatch(work); m != nil {
			value, unit := m[1], m[2]
			if value == "" {
				value, unit = m[3], m[4]
			}
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				if strings.HasPrefix(strings.ToLower(unit), "m") {
					f *= 3.28084
				}
				set(agent.SlotMinClearHeight, int(math.Round(f)))
			}
			work = strings.Replace(work, m[0], " ", 1)
		}
	}

	if has(agent.SlotSizeMin) {
		e.size(work, set)
		if utils.ContainsAny(lower, []string{"any size", "size doesn't matter", "size does not matter", "flexible size", "size is flexible"}) {
			clear = append(clear, string(agent.SlotSizeMin), string(agent.SlotSizeMax))
		}
	}

	if has(agent.SlotLocation) {
		if loc := extractLocation(text, len(schema) <= 4); loc != "" {
			set(agent.SlotLocation, loc)
		}
	}

	if has(agent.SlotLandType) {
		landOnly := len(schema) == 1
		if landOnly || utils.ContainsAny(lower, []string{"land", "clu", "industrial", "commercial"}) {
			if land := utils.NormalizeLandType(text); land != "" {
				set(agent.SlotLandType, land)
			}
		}
	}

	if has(agent.SlotFireNOC) && fireRe.MatchString(text) {
		set(agent.SlotFireNOC, !fireNegativeRe.MatchString(text))
	}

	if has(agent.SlotWarehouseType) {
		if t, ok := utils.MatchWarehouseType(text); ok {
			set(agent.SlotWarehouseType, t)
		} else if utils.ContainsAny(lower, []string{"any type", "any structure", "either peb or rcc", "peb or rcc"}) {
			clear = append(clear, string(agent.SlotWarehouseType))
		}
	}

	if has(agent.SlotBroker) {
		switch {
		case brokerNoRe.MatchString(text):
			set(agent.SlotBroker, false)
		case brokerYesRe.MatchString(text):
			set(agent.SlotBroker, true)
		}
	}

	if has(agent.SlotAvailability) {
		if m := availabilityRe.FindStringSubmatch(text); m != nil {
			set(agent.SlotAvailability, strings.ToLower(m[1]))
		}
	}
	if has(agent.SlotZone) {
		if m := zoneRe.FindStringSubmatch(text); m != nil && !strings.EqualFold(m[1], "any") {
			set(agent.SlotZone, strings.TrimSpace(m[0]))
		}
	}
	if has(agent.SlotCompliances) {
		if m := complianceRe.FindStringSubmatch(text); m != nil {
			set(agent.SlotCompliances, strings.ToLower(m[1]))
		}
	}

	if len(clear) > 0 {
		out["clear"] = clear
	}
	return out
}

// budget reads ₹/sqft rates, writes budget slots and returns text with the
// matched parts removed.
func (e *RuleExtractor) budget(work string, set func(agent.Slot, any)) string {
	if m := budgetRangeRe.FindStringSubmatch(work); m != nil {
		lo, hi := atoi(m[1]), atoi(m[2])
		set(agent.SlotBudgetMin, lo)
		set(agent.SlotBudgetMax, hi)
		return strings.Replace(work, m[0], " ", 1)
	}
	for _, re := range []*regexp.Regexp{budgetUnitRe, budgetCurRe} {
		if loc := re.FindStringSubmatchIndex(work); loc != nil {
			v := atoi(work[loc[2]:loc[3]])
			if qualifier(work[:loc[0]]) == "min" {
				set(agent.SlotBudgetMin, v)
			} else {
				set(agent.SlotBudgetMax, v)
			}
			return work[:loc[0]] + " " + work[loc[1]:]
		}
	}
	if m := budgetWordRe.FindStringSubmatchIndex(work); m != nil {
		v := atoi(work[m[2]:m[3]])
		// plain budget numbers above a few hundred are totals, not rates
		if v > 0 && v < 500 {
			if m[4] >= 0 {
				set(agent.SlotBudgetMin, v)
				set(agent.SlotBudgetMax, atoi(work[m[4]:m[5]]))
			} else if qualifier(work[:m[2]]) == "min" {
				set(agent.SlotBudgetMin, v)
			} else {
				set(agent.SlotBudgetMax, v)
			}
			return work[:m[0]] + " " + work[m[1]:]
		}
	}
	return work
}

// size reads a size range or single size from what is left of the message
func (e *RuleExtractor) size(work string, set func(agent.Slot, any)) {
	if m := sizeRangeRe.FindStringSubmatch(work); m != nil {
		loScale, hiScale := m[2], m[4]
		if loScale == "" && hiScale != "" {
			loScale = hiScale
		}
		lo, hi := scaled(m[1], loScale), scaled(m[3], hiScale)
		if hi >= 100 {
			set(agent.SlotSizeMin, lo)
			set(agent.SlotSizeMax, hi)
			return
		}
	}

	for _, loc := range sizeSingleRe.FindAllStringSubmatchIndex(work, -1) {
		whole := work[loc[0]:loc[1]]
		scale := ""
		if loc[4] >= 0 {
			scale = work[loc[4]:loc[5]]
		}
		v := scaled(work[loc[2]:loc[3]], scale)
		hasUnit := scale != "" || unitRe.MatchString(whole)
		// a bare small number is more likely a count than a size
		if !hasUnit && v < 1000 {
			continue
		}
		if v < 100 {
			continue
		}
		switch qualifier(work[:loc[0]]) {
		case "min":
			set(agent.SlotSizeMin, v)
		case "max":
			set(agent.SlotSizeMax, v)
		default:
			set(agent.SlotSizeTarget, v)
		}
		return
	}
}

// qualifier looks at the words right before a number
func qualifier(before string) string {
	tail := strings.ToLower(before)
	if len(tail) > 24 {
		tail = tail[len(tail)-24:]
	}
	for _, q := range minQualifiers {
		if strings.Contains(tail, q) {
			return "min"
		}
	}
	for _, q := range maxQualifiers {
		if strings.Contains(tail, q) {
			return "max"
		}
	}
	return ""
}

func scaled(num, scale string) int {
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(scale) {
	case "k", "thousand":
		f *= 1000
	case "":
	default:
		f *= 100000
	}
	return int(math.Round(f))
}

func atoi(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}

// extractLocation finds a place name. In the opening stage a short reply
// without a preposition ("Bangalore, 50k sqft") is taken as the location.
func extractLocation(text string, opening bool) string {
	for _, re := range []*regexp.Regexp{locationChangeRe, locationPrepRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if loc := cleanLocation(m[1]); loc != "" {
				return loc
			}
		}
	}
	if !opening {
		return ""
	}
	head := text
	if i := strings.IndexFunc(text, func(r rune) bool { return r >= '0' && r <= '9' }); i >= 0 {
		head = text[:i]
	}
	loc := cleanLocation(head)
	if loc == "" || len(strings.Fields(loc)) > 4 {
		return ""
	}
	return loc
}

func cleanLocation(raw string) string {
	s := " " + strings.ToLower(raw) + " "
	cut := len(s)
	for _, stop := range locationStop {
		if i := strings.Index(s, stop); i >= 0 && i < cut {
			cut = i
		}
	}
	// keep the original casing for the kept span
	keep := raw
	if cut < len(s) {
		keep = raw[:min(max(cut-1, 0), len(raw))]
	}
	keep = strings.Trim(keep, " ,.-'!?")

	words := strings.Fields(keep)
	for len(words) > 0 && slices.Contains(locationFiller, strings.ToLower(strings.Trim(words[0], ","))) {
		words = words[1:]
	}
	keep = strings.Trim(strings.Join(words, " "), " ,.-'!?")

	n := utils.NormalizeText(keep)
	if n == "" || slices.Contains(nonLocationFirst, strings.Fields(n)[0]) || slices.Contains(nonLocationWords, n) || utils.IsIndifferentAnswer(n) {
		return ""
	}
	if utils.ContainsAny(n, []string{"sqft", "sq ft", "budget", "docks", "noc", "industrial", "commercial", "peb", "rcc"}) {
		return ""
	}
	return keep
}
