package llm

import (
	"context"
	"sync"
)

// Mock is a canned-response Client for tests.
type Mock struct {
	mu       sync.Mutex
	Response string
	Err      error
	Calls    [][]Message
}

func (m *Mock) Complete(ctx context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, messages)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
