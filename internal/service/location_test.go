package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareongo/internal/agent"
)

func TestLocationServiceKnownNames(t *testing.T) {
	svc := NewLocationService(nil, nil)

	tests := []struct {
		query  string
		cities []string
		state  string
		area   string
	}{
		{query: "blr", cities: []string{"Bengaluru", "Bangalore", "Blr", "Bengalore"}},
		{query: "Bombay", cities: []string{"Mumbai", "Bombay"}},
		{query: "gurgaon", cities: []string{"Gurugram", "Gurgaon", "Ggn"}},
		{query: "Karnataka", state: "Karnataka"},
		{query: "TN", state: "Tamil Nadu"},
		{query: "Whitefield, Bangalore", cities: []string{"Bengaluru", "Bangalore", "Blr", "Bengalore"}, area: "Whitefield"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res, err := svc.Resolve(context.Background(), tt.query)
			require.NoError(t, err)

			assert.Equal(t, tt.cities, res.Cities)
			if tt.state == "" {
				assert.Nil(t, res.State)
			} else {
				require.NotNil(t, res.State)
				assert.Equal(t, tt.state, *res.State)
			}
			if tt.area == "" {
				assert.Nil(t, res.Area)
			} else {
				require.NotNil(t, res.Area)
				assert.Equal(t, tt.area, *res.Area)
			}
		})
	}
}

func TestLocationServiceUnknownWithoutAI(t *testing.T) {
	_, err := NewLocationService(&fakeAI{enabled: false}, nil).Resolve(context.Background(), "South Karnataka")
	assert.ErrorIs(t, err, agent.ErrResolution)

	_, err = NewLocationService(nil, nil).Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, agent.ErrResolution)
}

func TestLocationServiceAsksModel(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		err     error
		cities  []string
		wantErr bool
	}{
		{
			name:   "fenced city list is deduplicated",
			reply:  "```json\n{\"cities\": [\"Mysuru\", \"Mysore\", \"mysuru\"], \"state\": null}\n```",
			cities: []string{"Mysuru", "Mysore"},
		},
		{
			name:    "empty answer",
			reply:   `{"cities": null, "state": null}`,
			wantErr: true,
		},
		{
			name:    "model failure",
			err:     errors.New("timeout"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := &fakeAI{enabled: true, reply: tt.reply, err: tt.err}
			res, err := NewLocationService(ai, nil).Resolve(context.Background(), "Mysore region")

			require.Len(t, ai.requests, 1)
			assert.True(t, ai.requests[0].JSON)
			assert.Contains(t, ai.requests[0].Messages[0].Content, "Mysore region")
			if tt.wantErr {
				assert.ErrorIs(t, err, agent.ErrResolution)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cities, res.Cities)
		})
	}
}

func TestLocationServiceSkipsModelForKnownCity(t *testing.T) {
	ai := &fakeAI{enabled: true}
	_, err := NewLocationService(ai, nil).Resolve(context.Background(), "Chennai")

	require.NoError(t, err)
	assert.Empty(t, ai.requests)
}
