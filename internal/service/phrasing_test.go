package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareongo/internal/agent"
)

func TestPhraserDisabled(t *testing.T) {
	p := NewPhraser(&fakeAI{enabled: false})

	_, err := p.Question(context.Background(), nil, agent.SlotLocation)
	assert.ErrorIs(t, err, ErrAIDisabled)

	_, err = NewPhraser(nil).Chitchat(context.Background(), "Which city?", "hello")
	assert.ErrorIs(t, err, ErrAIDisabled)
}

func TestPhraserQuestion(t *testing.T) {
	ai := &fakeAI{enabled: true, reply: "Which city are you looking in?"}
	p := NewPhraser(ai)

	q, err := p.Question(context.Background(), userSays("hi"), agent.SlotLocation)
	require.NoError(t, err)
	assert.Equal(t, "Which city are you looking in?", q)

	require.Len(t, ai.requests, 1)
	assert.Contains(t, ai.requests[0].System, "which city, state or area")
	assert.Len(t, ai.requests[0].Messages, 2)
	assert.False(t, ai.requests[0].JSON)
}

func TestPhraserChitchatRepeatsPrompt(t *testing.T) {
	ai := &fakeAI{enabled: true, reply: "Nice! Which city?"}
	_, err := NewPhraser(ai).Chitchat(context.Background(), "Which city do you need the warehouse in?", "lovely weather")
	require.NoError(t, err)

	require.Len(t, ai.requests, 1)
	assert.Contains(t, ai.requests[0].System, "Which city do you need the warehouse in?")
	assert.Equal(t, []ChatMessage{{Role: "user", Content: "lovely weather"}}, ai.requests[0].Messages)
}
