package agent

import (
	"fmt"
	"slices"

	"wareongo/internal/model"
)

// Role identifies who authored a transcript entry
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind tags assistant prompts so later turns can tell what was asked
type MessageKind string

const (
	KindQuestion       MessageKind = "question"
	KindConfirmation   MessageKind = "confirmation"
	KindResults        MessageKind = "results"
	KindRelaxationMenu MessageKind = "relaxation_menu"
	KindNotice         MessageKind = "notice"
)

// Message is one transcript entry
type Message struct {
	Role Role        `json:"role"`
	Text string      `json:"text"`
	Kind MessageKind `json:"kind,omitempty"`
}

// Stage is the coarse phase of requirement gathering
type Stage int

const (
	StageAreaAndSize Stage = iota
	StageLandTypePreference
	StageSpecifics
	StageConfirming
	StageSearching
	StageDone
)

var stageNames = [...]string{
	StageAreaAndSize:        "area_and_size",
	StageLandTypePreference: "land_type_preference",
	StageSpecifics:          "specifics",
	StageConfirming:         "confirming",
	StageSearching:          "searching",
	StageDone:               "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// MarshalText implements encoding.TextMarshaler
func (s Stage) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stageNames) {
		return nil, fmt.Errorf("invalid workflow stage %d", int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Stage) UnmarshalText(b []byte) error {
	if i := slices.Index(stageNames[:], string(b)); i >= 0 {
		*s = Stage(i)
		return nil
	}
	return fmt.Errorf("invalid workflow stage %q", string(b))
}

// Action is the tag the router dispatches on
type Action int

const (
	ActionUnset Action = iota
	ActionGreet
	ActionGatherArea
	ActionGatherLandType
	ActionGatherSpecifics
	ActionChitchat
	ActionUpdateState
	ActionConfirmRequirements
	ActionSearchDatabase
	ActionWaitForUser
	ActionDone
)

var actionNames = [...]string{
	ActionUnset:               "",
	ActionGreet:               "greet",
	ActionGatherArea:          "gather_area",
	ActionGatherLandType:      "gather_land_type",
	ActionGatherSpecifics:     "gather_specifics",
	ActionChitchat:            "chitchat",
	ActionUpdateState:         "update_state",
	ActionConfirmRequirements: "confirm_requirements",
	ActionSearchDatabase:      "search_database",
	ActionWaitForUser:         "wait_for_user",
	ActionDone:                "done",
}

func (a Action) String() string {
	if a <= ActionUnset || int(a) >= len(actionNames) {
		return "unset"
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler
func (a Action) MarshalText() ([]byte, error) {
	if a < ActionUnset || int(a) >= len(actionNames) {
		return []byte(""), nil
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText decodes an action tag; unknown tags decode to ActionUnset
// and are routed by stage.
func (a *Action) UnmarshalText(b []byte) error {
	*a = ActionUnset
	if i := slices.Index(actionNames[:], string(b)); i > 0 {
		*a = Action(i)
	}
	return nil
}

// LandPreference records the land classification decision
type LandPreference string

const (
	LandUndecided  LandPreference = ""
	LandIndustrial LandPreference = "industrial"
	LandCommercial LandPreference = "commercial"
	LandEither     LandPreference = "either"
)

// Label is the human-readable form used in summaries
func (l LandPreference) Label() string {
	switch l {
	case LandIndustrial:
		return "Industrial"
	case LandCommercial:
		return "Commercial/Flexible"
	case LandEither:
		return "Either"
	}
	return "Not specified"
}

// RequirementState is the full conversation state. It holds no resources
// and round-trips through JSON, so callers own persistence.
type RequirementState struct {
	Transcript []Message `json:"transcript"`
	Stage      Stage     `json:"workflow_stage"`
	NextAction Action    `json:"next_action"`

	LocationQuery      *string        `json:"location_query,omitempty"`
	ResolvedCities     []string       `json:"resolved_cities,omitempty"`
	ResolvedState      *string        `json:"resolved_state,omitempty"`
	ResolvedArea       *string        `json:"resolved_area,omitempty"`
	ResolvedFor        *string        `json:"resolved_for,omitempty"`
	SizeMin            *int           `json:"size_min,omitempty"`
	SizeMax            *int           `json:"size_max,omitempty"`
	BudgetMin          *int           `json:"budget_min,omitempty"`
	BudgetMax          *int           `json:"budget_max,omitempty"`
	WarehouseType      *string        `json:"warehouse_type,omitempty"`
	CompliancesText    *string        `json:"compliances_text,omitempty"`
	MinDocks           *int           `json:"min_docks,omitempty"`
	MinClearHeight     *int           `json:"min_clear_height,omitempty"`
	AvailabilityText   *string        `json:"availability_text,omitempty"`
	ZoneText           *string        `json:"zone_text,omitempty"`
	IsBrokerPreference *bool          `json:"is_broker_preference,omitempty"`
	FireNOCRequired    *bool          `json:"fire_noc_required,omitempty"`
	LandTypeIndustrial LandPreference `json:"land_type_industrial,omitempty"`

	SpecificsAsked        bool              `json:"specifics_asked,omitempty"`
	RequirementsConfirmed bool              `json:"requirements_confirmed"`
	CurrentPage           int               `json:"current_page"`
	SearchResultsCache    []model.Warehouse `json:"search_results_cache,omitempty"`
	ConversationComplete  bool              `json:"conversation_complete"`
}

// NewState returns the state of a conversation that has not started
func NewState() RequirementState {
	return RequirementState{
		Transcript:  []Message{},
		Stage:       StageAreaAndSize,
		NextAction:  ActionUnset,
		CurrentPage: 1,
	}
}

// Append adds a transcript entry. Only user and assistant entries are
// accepted; any other role leaves the transcript unchanged.
func (s *RequirementState) Append(role Role, text string) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	s.Transcript = append(s.Transcript, Message{Role: role, Text: text})
	return nil
}

func (s *RequirementState) appendAssistant(text string, kind MessageKind) {
	s.Transcript = append(s.Transcript, Message{Role: RoleAssistant, Text: text, Kind: kind})
}

// lastAssistant returns the most recent assistant message before index end
func (s *RequirementState) lastAssistant(end int) (Message, bool) {
	for i := min(end, len(s.Transcript)) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleAssistant {
			return s.Transcript[i], true
		}
	}
	return Message{}, false
}

// lastUser returns the text of the most recent user message
func (s *RequirementState) lastUser() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleUser {
			return s.Transcript[i].Text
		}
	}
	return ""
}

// promptBeforeLastUser is the assistant message the latest user reply answers
func (s *RequirementState) promptBeforeLastUser() (Message, bool) {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleUser {
			return s.lastAssistant(i)
		}
	}
	return s.lastAssistant(len(s.Transcript))
}

func (s *RequirementState) hasAssistantMessages() bool {
	_, ok := s.lastAssistant(len(s.Transcript))
	return ok
}

// Clone returns a deep copy
func (s RequirementState) Clone() RequirementState {
	c := s
	c.Transcript = slices.Clone(s.Transcript)
	if c.Transcript == nil {
		c.Transcript = []Message{}
	}
	c.LocationQuery = clonePtr(s.LocationQuery)
	c.ResolvedCities = slices.Clone(s.ResolvedCities)
	c.ResolvedState = clonePtr(s.ResolvedState)
	c.ResolvedArea = clonePtr(s.ResolvedArea)
	c.ResolvedFor = clonePtr(s.ResolvedFor)
	c.SizeMin = clonePtr(s.SizeMin)
	c.SizeMax = clonePtr(s.SizeMax)
	c.BudgetMin = clonePtr(s.BudgetMin)
	c.BudgetMax = clonePtr(s.BudgetMax)
	c.WarehouseType = clonePtr(s.WarehouseType)
	c.CompliancesText = clonePtr(s.CompliancesText)
	c.MinDocks = clonePtr(s.MinDocks)
	c.MinClearHeight = clonePtr(s.MinClearHeight)
	c.AvailabilityText = clonePtr(s.AvailabilityText)
	c.ZoneText = clonePtr(s.ZoneText)
	c.IsBrokerPreference = clonePtr(s.IsBrokerPreference)
	c.FireNOCRequired = clonePtr(s.FireNOCRequired)
	if s.SearchResultsCache != nil {
		c.SearchResultsCache = make([]model.Warehouse, len(s.SearchResultsCache))
		for i, w := range s.SearchResultsCache {
			w.TotalSpaceSqft = slices.Clone(w.TotalSpaceSqft)
			w.MatchedReasons = slices.Clone(w.MatchedReasons)
			c.SearchResultsCache[i] = w
		}
	}
	if c.CurrentPage < 1 {
		c.CurrentPage = 1
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T { return &v }
