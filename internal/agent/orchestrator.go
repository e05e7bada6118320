// Package agent runs the warehouse requirement dialogue: it gathers slots
// over several stages, confirms them with the user and pages through search
// results. All state lives in RequirementState; the Orchestrator only holds
// its capabilities and configuration, so one instance serves any number of
// concurrent sessions.
package agent

import (
	"context"
	"fmt"
	"log/slog"
)

// Config bounds a single turn and the result paging
type Config struct {
	MaxDepth      int
	MaxPages      int
	PageSize      int
	ContextWindow int
}

// DefaultConfig returns the production limits
func DefaultConfig() Config {
	return Config{
		MaxDepth:      50,
		MaxPages:      10,
		PageSize:      5,
		ContextWindow: 6,
	}
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithConfig overrides the limits; zero fields keep their defaults
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) {
		def := DefaultConfig()
		if cfg.MaxDepth <= 0 {
			cfg.MaxDepth = def.MaxDepth
		}
		if cfg.MaxPages <= 0 {
			cfg.MaxPages = def.MaxPages
		}
		if cfg.PageSize <= 0 {
			cfg.PageSize = def.PageSize
		}
		if cfg.ContextWindow <= 0 {
			cfg.ContextWindow = def.ContextWindow
		}
		o.cfg = cfg
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver sets the metrics observer
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithPhraser enables generated questions and acknowledgements
func WithPhraser(p Phraser) Option {
	return func(o *Orchestrator) { o.phraser = p }
}

type handler func(ctx context.Context, t *turn)

// turn is the scratch space of one Turn call
type turn struct {
	state *RequirementState
	// notes are prefixed to the next search message
	notes []string
}

// Orchestrator drives the dialogue state machine
type Orchestrator struct {
	extractor IntentExtractor
	resolver  LocationResolver
	searcher  Searcher
	phraser   Phraser
	observer  Observer
	logger    *slog.Logger
	cfg       Config

	handlers map[Action]handler
}

// TurnResult is the outcome of one Turn
type TurnResult struct {
	State    RequirementState
	Message  string
	Complete bool
}

// New builds an Orchestrator over the given capabilities
func New(extractor IntentExtractor, resolver LocationResolver, searcher Searcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		extractor: extractor,
		resolver:  resolver,
		searcher:  searcher,
		observer:  noopObserver{},
		logger:    slog.Default(),
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.handlers = map[Action]handler{
		ActionGreet:               o.greet,
		ActionGatherArea:          o.gather(StageAreaAndSize),
		ActionGatherLandType:      o.gather(StageLandTypePreference),
		ActionGatherSpecifics:     o.gather(StageSpecifics),
		ActionChitchat:            o.chitchat,
		ActionUpdateState:         o.updateState,
		ActionConfirmRequirements: o.confirmRequirements,
		ActionSearchDatabase:      o.searchDatabase,
		ActionDone:                o.done,
	}
	return o
}

// Config returns the effective limits
func (o *Orchestrator) Config() Config { return o.cfg }

// Turn advances the conversation by one user message. A nil message on a
// fresh state produces the greeting. The input state is never modified.
// Exactly one assistant message is produced per call.
func (o *Orchestrator) Turn(ctx context.Context, state RequirementState, userMessage *string) (TurnResult, error) {
	s := state.Clone()

	if s.ConversationComplete || s.Stage == StageDone {
		return TurnResult{State: s, Message: closedMessage, Complete: true}, nil
	}

	start := len(s.Transcript)
	switch {
	case userMessage != nil:
		_ = s.Append(RoleUser, *userMessage)
		start = len(s.Transcript)
		s.NextAction = ActionUpdateState
	case !s.hasAssistantMessages():
		s.NextAction = ActionGreet
	default:
		// nothing new to react to; repeat what we are waiting for. A stale
		// update tag must not reprocess the previous user message.
		if s.NextAction != ActionGreet {
			s.NextAction = ActionChitchat
		}
	}

	t := &turn{state: &s}
	for depth := 0; ; depth++ {
		action := Route(&s)
		if action == ActionWaitForUser {
			break
		}
		if depth >= o.cfg.MaxDepth {
			o.logger.Error("Workflow depth exceeded", "depth", depth, "action", action, "stage", s.Stage)
			o.observer.ObserveFailure("depth")
			return TurnResult{}, fmt.Errorf("%w: %d steps without waiting for the user (last action %s)",
				ErrWorkflowDepthExceeded, depth, action)
		}

		h, ok := o.handlers[action]
		if !ok {
			o.logger.Error("No handler for action", "action", action)
			s.NextAction = ActionWaitForUser
			break
		}
		o.observer.ObserveAction(action)
		o.logger.Debug("Running handler", "action", action, "stage", s.Stage, "depth", depth)
		h(ctx, t)

		if action == ActionDone {
			break
		}
	}

	msg := o.collapse(&s, start)
	return TurnResult{State: s, Message: msg, Complete: s.ConversationComplete}, nil
}

// collapse merges the assistant messages emitted since start into one, or
// adds a fallback when the turn produced none.
func (o *Orchestrator) collapse(s *RequirementState, start int) string {
	start = min(start, len(s.Transcript))
	emitted := s.Transcript[start:]
	switch len(emitted) {
	case 0:
		s.appendAssistant("Could you tell me a bit more?", KindQuestion)
		return s.Transcript[len(s.Transcript)-1].Text
	case 1:
		return emitted[0].Text
	}

	text := emitted[0].Text
	kind := emitted[len(emitted)-1].Kind
	for _, m := range emitted[1:] {
		text += "\n\n" + m.Text
	}
	s.Transcript = append(s.Transcript[:start], Message{Role: RoleAssistant, Text: text, Kind: kind})
	return text
}
