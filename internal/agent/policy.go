package agent

import (
	"context"
	"strings"
)

const (
	greetingMessage = "Hi! Let's find the right spot for your business. To begin, where are you looking for a warehouse?"
	farewellMessage = "Thanks for using WareOnGo! Good luck with your warehouse search."
	closedMessage   = "This conversation has ended. Start a new one to search again."

	landTypeQuestion = "What land classification do you require?\n\n" +
		"• Industrial CLU: for manufacturing, processing, chemical operations\n" +
		"• Commercial: for distribution, storage, retail operations\n\n" +
		"Please specify: industrial, commercial, or either."

	specificsQuestion = "Additional requirements:\n\n" +
		"• Fire NOC compliance\n" +
		"• Budget range (₹/sqft)\n" +
		"• Structure type (PEB/RCC)\n" +
		"• Loading docks and clear height\n" +
		"• Other specifications (availability, zone, broker or owner listings)\n\n" +
		"Please specify your requirements, or type 'none' if not applicable."

	confirmationPrompt = "Are these parameters fine? (yes/no)"
	searchingHint      = "Type 'more' for the next page, ask me to relax a filter, or tell me what to change."
)

var questionTemplates = map[Slot][]string{
	SlotLocation: {
		"Where should we hunt for warehouses? (City, state, or region)",
		"Which city or region are you eyeing for this warehouse?",
		"What's the preferred location? (e.g., Bangalore or South India)",
	},
	SlotSize: {
		"Roughly how much space are you thinking? (like 50k sqft or a range)",
		"What size works for you? You can give a single number or a range.",
	},
}

func (o *Orchestrator) greet(_ context.Context, t *turn) {
	s := t.state
	s.Stage = StageAreaAndSize
	s.appendAssistant(greetingMessage, KindQuestion)
	s.NextAction = ActionWaitForUser
}

// gather returns the handler for one gathering stage: ask about the first
// missing slot, or advance when nothing is missing.
func (o *Orchestrator) gather(stage Stage) handler {
	return func(ctx context.Context, t *turn) {
		s := t.state
		missing := s.MissingSlots(stage)
		if s.Stage > stage && len(missing) > 0 {
			s.Stage = stage
		}

		if stage == StageSpecifics {
			if !s.SpecificsAsked {
				s.SpecificsAsked = true
				s.appendAssistant(specificsQuestion, KindQuestion)
				s.NextAction = ActionWaitForUser
				return
			}
			s.NextAction = ActionConfirmRequirements
			return
		}

		if len(missing) == 0 {
			s.Stage = stage + 1
			s.NextAction = gatherAction(s.Stage)
			o.logger.Debug("Stage advanced", "stage", s.Stage)
			return
		}

		s.appendAssistant(o.question(ctx, s, missing[0]), KindQuestion)
		s.NextAction = ActionWaitForUser
	}
}

// question words the prompt for slot, preferring the phraser when present
func (o *Orchestrator) question(ctx context.Context, s *RequirementState, slot Slot) string {
	if slot == SlotLandType {
		return landTypeQuestion
	}
	if o.phraser != nil {
		q, err := o.phraser.Question(ctx, s.recent(o.cfg.ContextWindow), slot)
		if err == nil && strings.TrimSpace(q) != "" {
			return strings.TrimSpace(q)
		}
		if err != nil {
			o.logger.Warn("Question phrasing failed, using template", "slot", slot, "error", err)
			o.observer.ObserveFailure("phrasing")
		}
	}
	templates := questionTemplates[slot]
	if len(templates) == 0 {
		return "Could you tell me more about what you need?"
	}
	return templates[len(s.Transcript)%len(templates)]
}

// chitchat acknowledges an off-track reply and repeats the pending prompt
func (o *Orchestrator) chitchat(ctx context.Context, t *turn) {
	s := t.state
	prompt, _ := s.promptBeforeLastUser()

	if o.phraser != nil && prompt.Text != "" {
		reply, err := o.phraser.Chitchat(ctx, prompt.Text, s.lastUser())
		if err == nil && strings.TrimSpace(reply) != "" {
			// the phrased reply repeats the previous prompt, so it inherits its kind
			kind := prompt.Kind
			if kind == "" {
				kind = KindQuestion
			}
			s.appendAssistant(strings.TrimSpace(reply), kind)
			s.NextAction = ActionWaitForUser
			return
		}
		if err != nil {
			o.logger.Warn("Chit-chat phrasing failed, using template", "error", err)
			o.observer.ObserveFailure("phrasing")
		}
	}
	s.appendAssistant("Got it. "+o.repromptText(ctx, s), repromptKind(s))
	s.NextAction = ActionWaitForUser
}

// repromptText returns the question the current stage is waiting on
func (o *Orchestrator) repromptText(ctx context.Context, s *RequirementState) string {
	switch s.Stage {
	case StageAreaAndSize, StageLandTypePreference:
		if missing := s.MissingSlots(s.Stage); len(missing) > 0 {
			return o.question(ctx, s, missing[0])
		}
	case StageSpecifics:
		return specificsQuestion
	case StageConfirming:
		return confirmationPrompt
	case StageSearching:
		if prompt, _ := s.promptBeforeLastUser(); prompt.Kind == KindConfirmation {
			return confirmationPrompt
		}
		return searchingHint
	}
	return "What else can I help you with?"
}

// repromptKind keeps the kind of the prompt being repeated, so a
// confirmation asked again still accepts a plain "yes".
func repromptKind(s *RequirementState) MessageKind {
	switch s.Stage {
	case StageConfirming:
		return KindConfirmation
	case StageSearching:
		prompt, _ := s.promptBeforeLastUser()
		switch prompt.Kind {
		case KindConfirmation, KindRelaxationMenu:
			return prompt.Kind
		}
		return KindNotice
	}
	return KindQuestion
}

func (o *Orchestrator) done(_ context.Context, t *turn) {
	s := t.state
	s.ConversationComplete = true
	s.Stage = StageDone
	s.NextAction = ActionDone
	s.appendAssistant(farewellMessage, KindNotice)
}

// recent returns the last n transcript entries
func (s *RequirementState) recent(n int) []Message {
	if n <= 0 || n >= len(s.Transcript) {
		return s.Transcript
	}
	return s.Transcript[len(s.Transcript)-n:]
}
