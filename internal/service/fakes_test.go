package service

import (
	"context"
	"sync"
)

type fakeAI struct {
	mu       sync.Mutex
	enabled  bool
	reply    string
	err      error
	requests []ChatRequest
}

func (f *fakeAI) Complete(_ context.Context, req ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAI) IsEnabled() bool { return f.enabled }
