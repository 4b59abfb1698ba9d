package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/gourmetgo/internal/domain"
)

// MockLLM is an offline ModelClient. Without a script it chats back and
// emits a fenced order once the user asks to finalize; with a script it
// returns the scripted replies in order.
type MockLLM struct {
	mu        sync.Mutex
	script    []string
	createErr error
	sendErr   error
	calls     []string
}

type mockSession struct {
	items []string
}

func NewMockLLM(script ...string) *MockLLM {
	return &MockLLM{script: script}
}

// FailCreate makes every CreateSession call fail with err.
func (m *MockLLM) FailCreate(err error) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
	return m
}

// FailSend makes every Send call fail with err until cleared with nil.
func (m *MockLLM) FailSend(err error) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
	return m
}

// Calls returns the texts received by Send so far.
func (m *MockLLM) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockLLM) CreateSession(ctx context.Context, cfg domain.SessionConfig) (domain.SessionHandle, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrConnection, m.createErr)
	}
	return &mockSession{}, cfg.Welcome, nil
}

func (m *MockLLM) Send(ctx context.Context, handle domain.SessionHandle, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, text)

	if m.sendErr != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, m.sendErr)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if len(m.script) > 0 {
		reply := m.script[0]
		m.script = m.script[1:]
		return reply, nil
	}

	sess, ok := handle.(*mockSession)
	if !ok {
		return "", fmt.Errorf("%w: unexpected handle %T", domain.ErrTransport, handle)
	}
	return sess.reply(text), nil
}

func (s *mockSession) reply(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "finalize") || strings.Contains(lower, "confirm") {
		if len(s.items) == 0 {
			return "You haven't added anything yet. What would you like to order?"
		}
		details := domain.OrderDetails{DeliveryTime: "ASAP"}
		for _, it := range s.items {
			details.Items = append(details.Items, domain.OrderItem{Name: it, Quantity: 1})
		}
		payload, _ := json.Marshal(details)
		return "```json\n" + string(payload) + "\n```"
	}

	s.items = append(s.items, strings.TrimSpace(text))
	return fmt.Sprintf("Got it, %q. Anything else? Say \"finalize\" when you're done.", strings.TrimSpace(text))
}
