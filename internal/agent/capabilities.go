package agent

import (
	"context"

	"wareongo/internal/model"
)

// ExtractionRequest asks for the slots in Schema, read from the recent transcript
type ExtractionRequest struct {
	Context []Message
	Schema  []Slot
}

// IntentExtractor turns recent dialogue into a raw JSON-ish payload of slot
// values. The payload may be fenced or wrapped in prose; the agent decodes
// and coerces it.
type IntentExtractor interface {
	Extract(ctx context.Context, req ExtractionRequest) (string, error)
}

// LocationResolver maps free-text locations to cities or a state
type LocationResolver interface {
	Resolve(ctx context.Context, raw string) (model.LocationResolution, error)
}

// Searcher returns one page of warehouses matching filters, newest first
type Searcher interface {
	Search(ctx context.Context, filters model.WarehouseFilters, page int) ([]model.Warehouse, error)
}

// Phraser words questions and acknowledgements. Failures fall back to templates.
type Phraser interface {
	Question(ctx context.Context, transcript []Message, slot Slot) (string, error)
	Chitchat(ctx context.Context, lastPrompt, reply string) (string, error)
}

// Observer receives turn events for metrics
type Observer interface {
	ObserveAction(action Action)
	ObserveSearch(outcome string, results int)
	ObserveFailure(kind string)
}

type noopObserver struct{}

func (noopObserver) ObserveAction(Action)       {}
func (noopObserver) ObserveSearch(string, int)  {}
func (noopObserver) ObserveFailure(kind string) {}
