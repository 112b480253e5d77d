// Package testutil provides deterministic test doubles for the gateway and
// tool contracts.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/adler0/ragent/internal/conversation"
	"github.com/adler0/ragent/internal/gateway"
)

// MockGateway provides deterministic model responses for testing. It
// matches the latest turn's content against registered patterns
// (case-insensitive substring, registration order, first match wins) and
// returns the corresponding canned response.
//
// Thread-safe for concurrent use.
type MockGateway struct {
	mu       sync.Mutex
	rules    []mockRule
	fallback string
	calls    []GatewayCall
}

type mockRule struct {
	pattern    string
	response   string
	toolCalls  []conversation.ToolCall
	structured any
	err        error
}

// GatewayCall records a single invocation of the mock.
type GatewayCall struct {
	Mode   string // "generate", "tools" or "structured"
	Prompt string // latest turn content the mock matched against
}

// NewMockGateway creates a mock gateway with the given fallback text,
// returned when no pattern matches.
func NewMockGateway(fallback string) *MockGateway {
	return &MockGateway{fallback: fallback}
}

// AddResponse registers a pattern that yields a plain text reply.
func (m *MockGateway) AddResponse(pattern, response string) {
	m.add(mockRule{pattern: strings.ToLower(pattern), response: response})
}

// AddToolResponse registers a pattern that yields a reply carrying tool
// calls.
func (m *MockGateway) AddToolResponse(pattern string, calls []conversation.ToolCall, response string) {
	m.add(mockRule{pattern: strings.ToLower(pattern), response: response, toolCalls: calls})
}

// AddStructuredResponse registers a pattern for structured mode. value is
// marshaled to JSON and decoded into the caller's out parameter, so a
// map[string]any works for any target schema.
func (m *MockGateway) AddStructuredResponse(pattern string, value any) {
	m.add(mockRule{pattern: strings.ToLower(pattern), structured: value})
}

// AddError registers a pattern that fails with the given error in every
// mode.
func (m *MockGateway) AddError(pattern string, err error) {
	m.add(mockRule{pattern: strings.ToLower(pattern), err: err})
}

func (m *MockGateway) add(r mockRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, r)
}

// Calls returns a copy of all recorded invocations.
func (m *MockGateway) Calls() []GatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]GatewayCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// CallsInMode returns the recorded invocations of one mode.
func (m *MockGateway) CallsInMode(mode string) []GatewayCall {
	var out []GatewayCall
	for _, c := range m.Calls() {
		if c.Mode == mode {
			out = append(out, c)
		}
	}
	return out
}

// Generate implements gateway.Gateway.
func (m *MockGateway) Generate(_ context.Context, turns []conversation.Turn) (conversation.Turn, error) {
	rule, err := m.match("generate", turns)
	if err != nil {
		return conversation.Turn{}, &gateway.Error{Mode: "generate", Err: err}
	}
	return conversation.NewAssistantTurn(m.responseText(rule)), nil
}

// GenerateWithTools implements gateway.Gateway.
func (m *MockGateway) GenerateWithTools(_ context.Context, turns []conversation.Turn, _ []gateway.ToolSpec) (conversation.Turn, error) {
	rule, err := m.match("tools", turns)
	if err != nil {
		return conversation.Turn{}, &gateway.Error{Mode: "tools", Err: err}
	}

	turn := conversation.NewAssistantTurn(m.responseText(rule))
	if rule != nil {
		turn.ToolCalls = rule.toolCalls
	}
	return turn, nil
}

// GenerateStructured implements gateway.Gateway.
func (m *MockGateway) GenerateStructured(_ context.Context, turns []conversation.Turn, out any) error {
	rule, err := m.match("structured", turns)
	if err != nil {
		return &gateway.Error{Mode: "structured", Err: err}
	}
	if rule == nil || rule.structured == nil {
		return &gateway.Error{Mode: "structured", Err: fmt.Errorf("%w: no structured response registered", gateway.ErrSchemaViolation)}
	}

	data, err := json.Marshal(rule.structured)
	if err != nil {
		return &gateway.Error{Mode: "structured", Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &gateway.Error{Mode: "structured", Err: fmt.Errorf("%w: %v", gateway.ErrSchemaViolation, err)}
	}
	return nil
}

// match records the call and returns the first matching rule, nil when
// nothing matches, or the rule's registered error.
func (m *MockGateway) match(mode string, turns []conversation.Turn) (*mockRule, error) {
	var prompt string
	if len(turns) > 0 {
		prompt = turns[len(turns)-1].Content
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, GatewayCall{Mode: mode, Prompt: prompt})

	lower := strings.ToLower(prompt)
	for i := range m.rules {
		if strings.Contains(lower, m.rules[i].pattern) {
			if m.rules[i].err != nil {
				return nil, m.rules[i].err
			}
			return &m.rules[i], nil
		}
	}
	return nil, nil
}

func (m *MockGateway) responseText(rule *mockRule) string {
	if rule == nil {
		return m.fallback
	}
	return rule.response
}
