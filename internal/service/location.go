package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wareongo/internal/agent"
	"wareongo/internal/model"
	"wareongo/internal/utils"
)

// cityAliases lists the spellings warehouse records use for major hubs.
// The first entry is the canonical name.
var cityAliases = [][]string{
	{"Bengaluru", "Bangalore", "Blr", "Bengalore"},
	{"Mumbai", "Bombay"},
	{"Navi Mumbai", "New Bombay"},
	{"Chennai", "Madras"},
	{"Kolkata", "Calcutta"},
	{"Delhi", "New Delhi", "NCR"},
	{"Gurugram", "Gurgaon", "Ggn"},
	{"Noida", "Greater Noida"},
	{"Hyderabad", "Hyd", "Secunderabad"},
	{"Pune", "Poona"},
	{"Ahmedabad", "Amdavad"},
	{"Bhiwandi"},
	{"Hosur"},
	{"Coimbatore", "Kovai"},
	{"Kochi", "Cochin"},
	{"Vadodara", "Baroda"},
	{"Thiruvananthapuram", "Trivandrum"},
	{"Visakhapatnam", "Vizag"},
	{"Jaipur"},
	{"Lucknow"},
	{"Indore"},
	{"Nagpur"},
	{"Surat"},
	{"Ludhiana"},
	{"Sriperumbudur"},
}

var states = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh", "Goa", "Gujarat",
	"Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh",
	"Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh",
	"Uttarakhand", "West Bengal",
}

var stateAliases = map[string]string{
	"tn":     "Tamil Nadu",
	"up":     "Uttar Pradesh",
	"mp":     "Madhya Pradesh",
	"ap":     "Andhra Pradesh",
	"wb":     "West Bengal",
	"orissa": "Odisha",
	"ka":     "Karnataka",
}

const locationPrompt = `You are a geography expert for India. Analyze the user's location query and determine its type.
1. If the query is a recognized state (e.g. "Tamil Nadu", "Karnataka"), set "state" to the canonical name and leave "cities" null.
2. If the query is a city, alias or abbreviation (e.g. "blr", "Chennai"), set "cities" to a list of all its common names and leave "state" null.
3. If the query is a sub-region (e.g. "South Karnataka"), set "cities" to the major hub cities in that region and leave "state" null.
Return ONLY a raw JSON object: {"cities": [...] or null, "state": "..." or null}`

// LocationService resolves free-text locations to city aliases or a state.
// Known names are answered from tables; anything else goes to the chat model.
type LocationService struct {
	aiClient AIClient
	logger   *slog.Logger
}

// NewLocationService creates a location resolver
func NewLocationService(aiClient AIClient, logger *slog.Logger) *LocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationService{aiClient: aiClient, logger: logger}
}

// Resolve implements agent.LocationResolver
func (s *LocationService) Resolve(ctx context.Context, raw string) (model.LocationResolution, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return model.LocationResolution{}, fmt.Errorf("%w: empty location", agent.ErrResolution)
	}

	if res, ok := lookupLocation(query); ok {
		return res, nil
	}

	if s.aiClient == nil || !s.aiClient.IsEnabled() {
		return model.LocationResolution{}, fmt.Errorf("%w: %q is not a known city or state", agent.ErrResolution, query)
	}

	reply, err := s.aiClient.Complete(ctx, ChatRequest{
		System:   locationPrompt,
		Messages: []ChatMessage{{Role: "user", Content: "User's location query: " + query}},
		JSON:     true,
	})
	if err != nil {
		return model.LocationResolution{}, fmt.Errorf("%w: %v", agent.ErrResolution, err)
	}

	var res model.LocationResolution
	if err := utils.ParseAIJSON(reply, &res); err != nil {
		return model.LocationResolution{}, fmt.Errorf("%w: %v", agent.ErrResolution, err)
	}
	res.Cities = dedupe(res.Cities)
	if res.Empty() {
		return model.LocationResolution{}, fmt.Errorf("%w: nothing usable for %q", agent.ErrResolution, query)
	}
	s.logger.Debug("Resolved location with AI", "query", query, "cities", res.Cities, "state", res.State)
	return res, nil
}

// lookupLocation answers known cities and states, including "Area, City"
func lookupLocation(query string) (model.LocationResolution, bool) {
	if cities, ok := matchCity(query); ok {
		return model.LocationResolution{Cities: cities}, true
	}
	if state, ok := matchState(query); ok {
		return model.LocationResolution{State: &state}, true
	}

	parts := strings.Split(query, ",")
	if len(parts) < 2 {
		return model.LocationResolution{}, false
	}
	area := strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		if cities, ok := matchCity(p); ok {
			res := model.LocationResolution{Cities: cities}
			if area != "" {
				res.Area = &area
			}
			return res, true
		}
	}
	return model.LocationResolution{}, false
}

func matchCity(text string) ([]string, bool) {
	n := utils.NormalizeText(text)
	for _, aliases := range cityAliases {
		for _, a := range aliases {
			if n == utils.NormalizeText(a) {
				return append([]string(nil), aliases...), true
			}
		}
	}
	return nil, false
}

func matchState(text string) (string, bool) {
	n := utils.NormalizeText(text)
	if s, ok := stateAliases[n]; ok {
		return s, true
	}
	for _, s := range states {
		if n == utils.NormalizeText(s) {
			return s, true
		}
	}
	return "", false
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		key := strings.ToLower(it)
		if it == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

var _ agent.LocationResolver = (*LocationService)(nil)
