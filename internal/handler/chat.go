package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wareongo/internal/agent"
	"wareongo/internal/session"
)

// Conversation advances one conversation by one turn
type Conversation interface {
	Turn(ctx context.Context, state agent.RequirementState, userMessage *string) (agent.TurnResult, error)
}

// TurnObserver records finished turns
type TurnObserver interface {
	ObserveTurn(took time.Duration, err error)
}

// ChatRequest is the body of POST /api/v1/chat. A caller either keeps the
// state itself and sends it back, or sends only the session id.
type ChatRequest struct {
	SessionID string                  `json:"session_id" binding:"omitempty,uuid"`
	Message   *string                 `json:"message"`
	State     *agent.RequirementState `json:"state"`
}

// ChatResponse is the reply to a chat turn
type ChatResponse struct {
	SessionID            string                 `json:"session_id"`
	Message              string                 `json:"message"`
	State                agent.RequirementState `json:"state"`
	ConversationComplete bool                   `json:"conversation_complete"`
}

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	conversation Conversation
	store        session.Store
	locks        *sessionLocks
	observer     TurnObserver
	logger       *slog.Logger
}

// NewChatHandler creates a new chat handler. observer may be nil.
func NewChatHandler(conversation Conversation, store session.Store, observer TurnObserver, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		conversation: conversation,
		store:        store,
		locks:        newSessionLocks(),
		observer:     observer,
		logger:       logger,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	resp, apiErr := h.turn(c)
	if apiErr != nil {
		c.JSON(apiErr.status, gin.H{"error": apiErr.message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChatStream handles POST /api/v1/chat/stream. The turn runs to completion;
// the reply, state and end marker are sent as separate events.
func (h *ChatHandler) ChatStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	resp, apiErr := h.turn(c)
	if apiErr != nil {
		sendSSE(c, "error", gin.H{"error": apiErr.message})
		flusher.Flush()
		return
	}

	sendSSE(c, "message", gin.H{"session_id": resp.SessionID, "message": resp.Message})
	flusher.Flush()
	sendSSE(c, "state", resp.State)
	flusher.Flush()
	sendSSE(c, "done", gin.H{"conversation_complete": resp.ConversationComplete})
	flusher.Flush()
}

type apiError struct {
	status  int
	message string
}

// turn loads the state, runs one turn and saves the result
func (h *ChatHandler) turn(c *gin.Context) (*ChatResponse, *apiError) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, &apiError{http.StatusBadRequest, "Invalid request: " + err.Error()}
	}
	ctx := c.Request.Context()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else {
		// load, turn and save must not interleave with another request for the same session
		unlock, err := h.locks.lock(ctx, sessionID)
		if err != nil {
			return nil, &apiError{http.StatusServiceUnavailable, "Request cancelled while waiting for session"}
		}
		defer unlock()
	}

	var state agent.RequirementState
	switch {
	case req.State != nil:
		state = *req.State
	case req.SessionID != "":
		stored, err := h.store.Get(ctx, sessionID)
		switch {
		case errors.Is(err, session.ErrNotFound):
			state = agent.NewState()
		case err != nil:
			h.logger.Error("Failed to load session", "session_id", sessionID, "error", err)
			return nil, &apiError{http.StatusInternalServerError, "Failed to load session"}
		default:
			state = stored
		}
	default:
		state = agent.NewState()
	}

	start := time.Now()
	result, err := h.conversation.Turn(ctx, state, req.Message)
	if h.observer != nil {
		h.observer.ObserveTurn(time.Since(start), err)
	}
	if err != nil {
		h.logger.Error("Chat turn failed", "session_id", sessionID, "error", err)
		return nil, &apiError{http.StatusInternalServerError, "Chat turn failed: " + err.Error()}
	}

	if err := h.store.Save(ctx, sessionID, result.State); err != nil {
		// the caller still gets the state back and can resend it
		h.logger.Warn("Failed to save session", "session_id", sessionID, "error", err)
	}

	return &ChatResponse{
		SessionID:            sessionID,
		Message:              result.Message,
		State:                result.State,
		ConversationComplete: result.Complete,
	}, nil
}

// GetSession handles GET /api/v1/sessions/:id
func (h *ChatHandler) GetSession(c *gin.Context) {
	id, ok := sessionParam(c)
	if !ok {
		return
	}

	state, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"state":      state,
		"summary":    state.Summary(),
	})
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	id, ok := sessionParam(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session: " + err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func sessionParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return "", false
	}
	return id, true
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	payload, err := sonic.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload)
}
