package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wareongo/internal/agent"
)

// slotHints describe each extraction key to the model
var slotHints = map[agent.Slot]string{
	agent.SlotLocation:       "city, state or locality the user wants, as written",
	agent.SlotSizeMin:        "minimum area in sqft (integer)",
	agent.SlotSizeMax:        "maximum area in sqft (integer)",
	agent.SlotSizeTarget:     "a single approximate area in sqft when no range or bound is given (integer)",
	agent.SlotBudgetMin:      "minimum rent in rupees per sqft (integer)",
	agent.SlotBudgetMax:      "maximum rent in rupees per sqft (integer)",
	agent.SlotWarehouseType:  `"PEB", "RCC" or another named structure type`,
	agent.SlotCompliances:    "compliance needs other than fire safety",
	agent.SlotMinDocks:       "minimum number of loading docks (integer)",
	agent.SlotMinClearHeight: "minimum clear height in feet, converting meters (integer)",
	agent.SlotAvailability:   "when the space is needed",
	agent.SlotZone:           "zone preference",
	agent.SlotBroker:         "false for owner listings only, true if broker listings are fine",
	agent.SlotFireNOC:        "true if a fire NOC is required",
	agent.SlotLandType:       `"industrial" if industrial/CLU land is required, "either" if any land type is fine`,
}

const extractionPrompt = `You extract warehouse search requirements from a conversation.
Return ONLY a raw JSON object. Include a key only when the LATEST user message states or changes it.
Use numbers without units, commas or currency symbols. Convert "50k" to 50000 and "2 lakh" to 200000.
If the user asks to drop a requirement, add its key to a "clear" list.
If the user has nothing to add, return {}.

Keys:
%s`

// IntentParser extracts slot values with the chat model and falls back to
// rules when the model is unavailable.
type IntentParser struct {
	aiClient AIClient
	rules    *RuleExtractor
	logger   *slog.Logger
}

// NewIntentParser creates a new intent parser. A nil or disabled client
// makes every call rule-based.
func NewIntentParser(aiClient AIClient, logger *slog.Logger) *IntentParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &IntentParser{
		aiClient: aiClient,
		rules:    NewRuleExtractor(),
		logger:   logger,
	}
}

// Extract implements agent.IntentExtractor. The model's reply is returned
// raw; the agent decodes and coerces it.
func (p *IntentParser) Extract(ctx context.Context, req agent.ExtractionRequest) (string, error) {
	if p.aiClient == nil || !p.aiClient.IsEnabled() {
		return p.rules.Extract(ctx, req)
	}

	raw, err := p.aiClient.Complete(ctx, ChatRequest{
		System:   buildExtractionPrompt(req.Schema),
		Messages: transcriptMessages(req.Context),
		JSON:     true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("extraction cancelled: %w", ctx.Err())
		}
		p.logger.Warn("AI parsing failed, using rules", "error", err)
		return p.rules.Extract(ctx, req)
	}
	p.logger.Debug("Extracted slots", "payload", raw)
	return raw, nil
}

func buildExtractionPrompt(schema []agent.Slot) string {
	var b strings.Builder
	for _, s := range schema {
		fmt.Fprintf(&b, "- %s: %s\n", s, slotHints[s])
	}
	return fmt.Sprintf(extractionPrompt, b.String())
}

func transcriptMessages(msgs []agent.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ChatMessage{Role: string(m.Role), Content: m.Text})
	}
	return out
}

var _ agent.IntentExtractor = (*IntentParser)(nil)
