package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"wareongo/internal/model"
)

// scriptedExtractor returns queued payloads in order, then "{}"
type scriptedExtractor struct {
	mu       sync.Mutex
	payloads []string
	err      error
	requests []ExtractionRequest
}

func (e *scriptedExtractor) Extract(_ context.Context, req ExtractionRequest) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, req)
	if e.err != nil {
		return "", e.err
	}
	if len(e.payloads) == 0 {
		return "{}", nil
	}
	p := e.payloads[0]
	e.payloads = e.payloads[1:]
	return p, nil
}

func (e *scriptedExtractor) push(payloads ...string) { e.payloads = append(e.payloads, payloads...) }

type countingResolver struct {
	res   model.LocationResolution
	err   error
	calls []string
}

func (r *countingResolver) Resolve(_ context.Context, raw string) (model.LocationResolution, error) {
	r.calls = append(r.calls, raw)
	return r.res, r.err
}

type searchCall struct {
	filters model.WarehouseFilters
	page    int
}

type recordingSearcher struct {
	pages map[int][]model.Warehouse
	err   error
	calls []searchCall
}

func (s *recordingSearcher) Search(_ context.Context, f model.WarehouseFilters, page int) ([]model.Warehouse, error) {
	s.calls = append(s.calls, searchCall{filters: f, page: page})
	if s.err != nil {
		return nil, s.err
	}
	return s.pages[page], nil
}

type recordingObserver struct {
	actions  []Action
	searches []string
	failures []string
}

func (r *recordingObserver) ObserveAction(a Action)          { r.actions = append(r.actions, a) }
func (r *recordingObserver) ObserveSearch(outcome string, _ int) { r.searches = append(r.searches, outcome) }
func (r *recordingObserver) ObserveFailure(kind string)      { r.failures = append(r.failures, kind) }

type failingPhraser struct{}

func (failingPhraser) Question(context.Context, []Message, Slot) (string, error) {
	return "", errors.New("model unavailable")
}

func (failingPhraser) Chitchat(context.Context, string, string) (string, error) {
	return "", errors.New("model unavailable")
}

type harness struct {
	orch      *Orchestrator
	extractor *scriptedExtractor
	resolver  *countingResolver
	searcher  *recordingSearcher
	observer  *recordingObserver
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		extractor: &scriptedExtractor{},
		resolver:  &countingResolver{res: model.LocationResolution{Cities: []string{"Bengaluru"}}},
		searcher:  &recordingSearcher{pages: map[int][]model.Warehouse{}},
		observer:  &recordingObserver{},
	}
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithObserver(h.observer),
	}
	h.orch = New(h.extractor, h.resolver, h.searcher, append(base, opts...)...)
	return h
}

func warehouses(ids ...int64) []model.Warehouse {
	out := make([]model.Warehouse, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Warehouse{
			ID:             id,
			WarehouseType:  ptr("PEB"),
			City:           ptr("Bengaluru"),
			State:          ptr("Karnataka"),
			TotalSpaceSqft: []int64{50000},
			RatePerSqft:    ptr("24"),
		})
	}
	return out
}

// confirmingState is a complete requirement set waiting on the confirmation prompt
func confirmingState() RequirementState {
	s := NewState()
	s.Stage = StageConfirming
	s.LocationQuery = ptr("Bangalore")
	s.SizeMin = ptr(40000)
	s.SizeMax = ptr(60000)
	s.LandTypeIndustrial = LandEither
	s.SpecificsAsked = true
	s.Transcript = []Message{
		{Role: RoleAssistant, Text: greetingMessage, Kind: KindQuestion},
		{Role: RoleUser, Text: "Bangalore, 50000 sqft"},
		{Role: RoleAssistant, Text: landTypeQuestion, Kind: KindQuestion},
		{Role: RoleUser, Text: "either"},
		{Role: RoleAssistant, Text: specificsQuestion, Kind: KindQuestion},
		{Role: RoleUser, Text: "none"},
		{Role: RoleAssistant, Text: confirmHeading + "\n\n" + confirmationPrompt, Kind: KindConfirmation},
	}
	s.NextAction = ActionWaitForUser
	return s
}

// searchingState has shown one page of results
func searchingState(page int, cached int) RequirementState {
	s := confirmingState()
	s.Stage = StageSearching
	s.RequirementsConfirmed = true
	s.CurrentPage = page
	s.ResolvedCities = []string{"Bengaluru"}
	s.ResolvedFor = ptr("Bangalore")
	ids := make([]int64, cached)
	for i := range ids {
		ids[i] = int64(100 - i)
	}
	s.SearchResultsCache = warehouses(ids...)
	s.Transcript = append(s.Transcript,
		Message{Role: RoleUser, Text: "yes"},
		Message{Role: RoleAssistant, Text: "Here are some warehouses", Kind: KindResults},
	)
	return s
}
