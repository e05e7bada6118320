package service

import (
	"context"
)

// AIClient is the interface for AI service providers
type AIClient interface {
	// Complete runs one chat completion and returns the assistant text
	Complete(ctx context.Context, req ChatRequest) (string, error)

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a provider-neutral completion request
type ChatRequest struct {
	System   string
	Messages []ChatMessage
	// JSON asks the provider for a JSON object response
	JSON bool
	// Temperature overrides the configured default when > 0
	Temperature float32
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
