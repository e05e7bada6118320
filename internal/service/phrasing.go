package service

import (
	"context"
	"fmt"
	"strings"

	"wareongo/internal/agent"
)

var questionTopics = map[agent.Slot]string{
	agent.SlotLocation: "which city, state or area the warehouse should be in",
	agent.SlotSize:     "how much space they need in square feet (a range or an approximate size)",
	agent.SlotBudget:   "their rent budget in rupees per sqft",
}

const questionPrompt = `You are a friendly assistant helping a business find warehouse space in India.
Ask the user ONE short, conversational question about %s.
Do not repeat information they already gave. Do not greet. Reply with the question only.`

const chitchatPrompt = `You are a friendly assistant helping a business find warehouse space in India.
The user replied to your last question with something off-topic or unclear.
Acknowledge their reply in one short sentence, then ask the original question again, keeping its meaning.
Your last question was:
%s`

// Phraser words questions and chit-chat replies with the chat model
type Phraser struct {
	aiClient AIClient
}

// NewPhraser creates a phraser
func NewPhraser(aiClient AIClient) *Phraser {
	return &Phraser{aiClient: aiClient}
}

// Question implements agent.Phraser
func (p *Phraser) Question(ctx context.Context, transcript []agent.Message, slot agent.Slot) (string, error) {
	if p.aiClient == nil || !p.aiClient.IsEnabled() {
		return "", ErrAIDisabled
	}
	topic, ok := questionTopics[slot]
	if !ok {
		topic = strings.ReplaceAll(string(slot), "_", " ")
	}
	return p.aiClient.Complete(ctx, ChatRequest{
		System:      fmt.Sprintf(questionPrompt, topic),
		Messages:    transcriptMessages(transcript),
		Temperature: 0.7,
	})
}

// Chitchat implements agent.Phraser
func (p *Phraser) Chitchat(ctx context.Context, lastPrompt, reply string) (string, error) {
	if p.aiClient == nil || !p.aiClient.IsEnabled() {
		return "", ErrAIDisabled
	}
	return p.aiClient.Complete(ctx, ChatRequest{
		System:      fmt.Sprintf(chitchatPrompt, lastPrompt),
		Messages:    []ChatMessage{{Role: "user", Content: reply}},
		Temperature: 0.7,
	})
}

var _ agent.Phraser = (*Phraser)(nil)
