package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareongo/internal/agent"
)

type echoConversation struct {
	inputs []*string
}

func (e *echoConversation) Turn(_ context.Context, state agent.RequirementState, msg *string) (agent.TurnResult, error) {
	e.inputs = append(e.inputs, msg)
	s := state.Clone()
	reply := "Welcome!"
	if msg != nil {
		s.Append(agent.RoleUser, *msg)
		reply = "You said " + *msg
	}
	s.Append(agent.RoleAssistant, reply)
	return agent.TurnResult{State: s, Message: reply, Complete: msg != nil && *msg == "bye"}, nil
}

func TestRunChatFreshConversation(t *testing.T) {
	conv := &echoConversation{}
	var out bytes.Buffer
	var saved []agent.RequirementState

	err := runChat(context.Background(), conv, agent.NewState(),
		strings.NewReader("Pune\n  bye  \nnever read\n"), &out,
		func(s agent.RequirementState) error { saved = append(saved, s); return nil },
		slog.Default())
	require.NoError(t, err)

	require.Len(t, conv.inputs, 3)
	assert.Nil(t, conv.inputs[0])
	assert.Equal(t, "Pune", *conv.inputs[1])
	assert.Equal(t, "bye", *conv.inputs[2])

	assert.Len(t, saved, 3)
	assert.Len(t, saved[2].Transcript, 5)
	assert.Contains(t, out.String(), "Welcome!")
	assert.Contains(t, out.String(), "You said Pune")
}

func TestRunChatResumesWithoutGreeting(t *testing.T) {
	conv := &echoConversation{}
	state := agent.NewState()
	state.Append(agent.RoleAssistant, "Which city?")
	var out bytes.Buffer

	err := runChat(context.Background(), conv, state, strings.NewReader("Chennai\n"), &out,
		func(agent.RequirementState) error { return nil }, slog.Default())
	require.NoError(t, err)

	require.Len(t, conv.inputs, 1)
	assert.Equal(t, "Chennai", *conv.inputs[0])
	assert.Contains(t, out.String(), "Resuming your conversation")
}

func TestStateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	fresh, err := loadState(path)
	require.NoError(t, err)
	assert.Equal(t, agent.StageAreaAndSize, fresh.Stage)

	state := agent.NewState()
	state.Append(agent.RoleUser, "Hosur")
	loc := "Hosur"
	state.LocationQuery = &loc
	require.NoError(t, saveState(path, state))

	loaded, err := loadState(path)
	require.NoError(t, err)
	assert.Equal(t, state.Transcript, loaded.Transcript)
	require.NotNil(t, loaded.LocationQuery)
	assert.Equal(t, "Hosur", *loaded.LocationQuery)

	var out bytes.Buffer
	require.NoError(t, printState(&out, loaded, false))
	assert.Contains(t, out.String(), "Stage: area_and_size")
	assert.Contains(t, out.String(), "Hosur")
}
