package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"wareongo/internal/utils"
)

var (
	exitPhrases       = []string{"exit", "quit", "bye", "bye bye", "goodbye", "good bye", "end chat", "stop", "q"}
	paginationPhrases = []string{"more", "next", "show more", "next page", "more results", "load more", "more please", "show next"}

	affirmativeWords = []string{
		"yes", "y", "yeah", "yep", "yup", "sure", "ok", "okay", "correct", "confirm", "confirmed",
		"proceed", "go", "search", "fine", "perfect", "absolutely", "alright", "exactly", "right", "good", "great",
	}
	// words that may accompany an affirmative without changing its meaning
	affirmativeFiller = []string{
		"please", "thanks", "thank", "you", "now", "it", "ahead", "do", "looks", "sounds", "all", "these",
		"are", "is", "that", "thats", "s", "those", "start", "the", "with", "of", "course", "lets", "let",
	}
	negativeWords = []string{"no", "nope", "nah", "not", "wrong", "incorrect", "change"}
)

// updateState interprets the latest user message
func (o *Orchestrator) updateState(ctx context.Context, t *turn) {
	s := t.state
	text := strings.TrimSpace(s.lastUser())
	norm := utils.NormalizeText(text)
	prompt, _ := s.promptBeforeLastUser()

	if slices.Contains(exitPhrases, norm) {
		s.ConversationComplete = true
		s.NextAction = ActionDone
		return
	}
	if norm == "" {
		s.NextAction = ActionChitchat
		return
	}

	// Paging only continues results the user is looking at; after an edit
	// the pending confirmation prompt comes first.
	if s.Stage == StageSearching && showsResults(prompt.Kind) && slices.Contains(paginationPhrases, norm) {
		o.paginate(s)
		return
	}

	// Only a reply to the confirmation prompt itself can confirm
	if prompt.Kind == KindConfirmation && isAffirmative(norm) {
		s.RequirementsConfirmed = true
		s.NextAction = ActionSearchDatabase
		return
	}

	if s.Stage == StageSearching {
		if categories, ok := relaxationRequest(text, prompt.Kind == KindRelaxationMenu); ok {
			o.relax(t, categories)
			return
		}
	}

	schema := SchemaFor(s.Stage)
	update, err := o.extract(ctx, s, schema)
	if err != nil {
		o.logger.Warn("Slot extraction failed, keeping previous values", "stage", s.Stage, "error", err)
		o.observer.ObserveFailure("extraction")
		s.appendAssistant("Sorry, I didn't quite catch that. "+o.repromptText(ctx, s), repromptKind(s))
		s.NextAction = ActionWaitForUser
		return
	}

	changed := s.apply(update)
	if len(changed) > 0 {
		o.logger.Debug("Slots updated", "stage", s.Stage, "changed", changed)
	}

	// An explicit location or size edit after Specifics reopens the requirements
	if coreChanged(changed) && s.Stage > StageSpecifics {
		s.Stage = StageSpecifics
	}
	if st, ok := s.firstIncompleteStage(); ok && st < s.Stage {
		s.Stage = st
	}

	switch s.Stage {
	case StageAreaAndSize, StageLandTypePreference:
		if len(changed) == 0 {
			s.NextAction = ActionChitchat
			return
		}
		s.NextAction = gatherAction(s.Stage)

	case StageSpecifics:
		s.NextAction = ActionConfirmRequirements

	default:
		switch {
		case len(changed) > 0:
			s.NextAction = ActionConfirmRequirements
		case prompt.Kind == KindConfirmation && isNegative(norm):
			s.appendAssistant("No problem. What would you like to change? You can update the location, size, budget, land type or any other requirement.", KindQuestion)
			s.NextAction = ActionWaitForUser
		default:
			s.NextAction = ActionChitchat
		}
	}
}

func (o *Orchestrator) extract(ctx context.Context, s *RequirementState, schema []Slot) (SlotUpdate, error) {
	payload, err := o.extractor.Extract(ctx, ExtractionRequest{
		Context: s.recent(o.cfg.ContextWindow),
		Schema:  schema,
	})
	if err != nil {
		return SlotUpdate{}, fmt.Errorf("extractor: %w", err)
	}
	return decodeExtraction(payload, schema)
}

// paginate moves to the next result page, bounded by MaxPages
func (o *Orchestrator) paginate(s *RequirementState) {
	switch {
	case s.CurrentPage >= o.cfg.MaxPages:
		s.appendAssistant(fmt.Sprintf(
			"You've reached the limit of %d pages. Try narrowing your criteria (a tighter size range, budget or structure type) to see different warehouses.",
			o.cfg.MaxPages), KindNotice)
		s.NextAction = ActionWaitForUser
	case len(s.SearchResultsCache) < o.cfg.PageSize:
		s.appendAssistant(fmt.Sprintf(
			"📄 That's all the results I found - %d page(s) total. Want to try different search criteria to see more options?",
			s.CurrentPage), KindNotice)
		s.NextAction = ActionWaitForUser
	default:
		s.CurrentPage++
		s.NextAction = ActionSearchDatabase
	}
}

func showsResults(kind MessageKind) bool {
	return kind == KindResults || kind == KindRelaxationMenu
}

func isAffirmative(norm string) bool {
	words := strings.Fields(norm)
	if len(words) == 0 || len(words) > 6 {
		return false
	}
	strong := false
	for _, w := range words {
		switch {
		case slices.Contains(affirmativeWords, w):
			strong = true
		case slices.Contains(affirmativeFiller, w):
		default:
			return false
		}
	}
	return strong
}

func isNegative(norm string) bool {
	words := strings.Fields(norm)
	for _, w := range words {
		if slices.Contains(negativeWords, w) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
