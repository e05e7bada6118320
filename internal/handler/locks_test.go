package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareongo/internal/agent"
	"wareongo/internal/session"
)

// blockingConversation holds every turn until release is closed
type blockingConversation struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingConversation) Turn(_ context.Context, state agent.RequirementState, msg *string) (agent.TurnResult, error) {
	b.entered <- struct{}{}
	<-b.release
	s := state.Clone()
	if msg != nil {
		s.Append(agent.RoleUser, *msg)
	}
	s.Append(agent.RoleAssistant, "ok")
	return agent.TurnResult{State: s, Message: "ok"}, nil
}

func TestChatSerialisesTurnsPerSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conv := &blockingConversation{entered: make(chan struct{}, 2), release: make(chan struct{})}
	store := session.NewMemoryStore(time.Hour)
	h := NewChatHandler(conv, store, nil, nil)
	router := gin.New()
	router.POST("/api/v1/chat", h.Chat)

	id := uuid.NewString()
	post := func(msg string) *httptest.ResponseRecorder {
		body := `{"session_id":"` + id + `","message":"` + msg + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	var wg sync.WaitGroup
	codes := make([]int, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		codes[0] = post("Pune").Code
	}()
	select {
	case <-conv.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first turn never started")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		codes[1] = post("50000 sqft").Code
	}()
	select {
	case <-conv.entered:
		t.Error("second turn started while the first one held the session")
	case <-time.After(50 * time.Millisecond):
	}

	close(conv.release)
	wg.Wait()

	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
	stored, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, stored.Transcript, 4)
	assert.Equal(t, "Pune", stored.Transcript[0].Text)
	assert.Equal(t, "50000 sqft", stored.Transcript[2].Text)
	assert.Equal(t, 0, h.locks.len())
}

func TestSessionLockHonoursCancellation(t *testing.T) {
	locks := newSessionLocks()
	unlock, err := locks.lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, locks.len())

	other, err := locks.lock(context.Background(), "b")
	require.NoError(t, err)
	other()

	unlock()
	assert.Equal(t, 0, locks.len())
}
