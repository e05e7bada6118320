package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	complete := func() RequirementState {
		s := confirmingState()
		s.Stage = StageSpecifics
		return s
	}

	tests := []struct {
		name   string
		state  func() RequirementState
		action Action
		want   Action
	}{
		{name: "wait passes through", state: NewState, action: ActionWaitForUser, want: ActionWaitForUser},
		{name: "greet passes through", state: NewState, action: ActionGreet, want: ActionGreet},
		{name: "unset routes by stage", state: NewState, action: ActionUnset, want: ActionGatherArea},
		{name: "stale gather tag for a later stage", state: NewState, action: ActionGatherSpecifics, want: ActionGatherArea},
		{name: "search before specifics", state: NewState, action: ActionSearchDatabase, want: ActionGatherArea},
		{name: "confirm before specifics", state: NewState, action: ActionConfirmRequirements, want: ActionGatherArea},
		{name: "search when complete", state: complete, action: ActionSearchDatabase, want: ActionSearchDatabase},
		{name: "confirm when complete", state: complete, action: ActionConfirmRequirements, want: ActionConfirmRequirements},
		{
			name: "search with land type undecided",
			state: func() RequirementState {
				s := complete()
				s.LandTypeIndustrial = LandUndecided
				return s
			},
			action: ActionSearchDatabase,
			want:   ActionGatherLandType,
		},
		{
			name: "confirming with unknown tag",
			state: func() RequirementState {
				s := confirmingState()
				return s
			},
			action: ActionUnset,
			want:   ActionConfirmRequirements,
		},
		{
			name: "complete conversation",
			state: func() RequirementState {
				s := NewState()
				s.ConversationComplete = true
				return s
			},
			action: ActionGatherArea,
			want:   ActionDone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state()
			s.NextAction = tt.action
			before := s.Clone()

			assert.Equal(t, tt.want, Route(&s))
			assert.Equal(t, before, s, "Route must not modify state")
		})
	}
}
