package testutil

import (
	"context"
	"sync/atomic"
)

// MockTool is a configurable Tool implementation. The zero value is not
// usable; set ToolName at minimum.
//
// Thread-safe: Invocations may be read while invocations are in flight.
type MockTool struct {
	ToolName string
	Output   string
	Err      error

	// InvokeFn, when set, replaces the default Output/Err behavior. Used
	// for blocking tools in ordering and cancellation tests.
	InvokeFn func(ctx context.Context, args map[string]any) (string, error)

	invocations atomic.Int32
}

// Name implements tool.Tool.
func (m *MockTool) Name() string { return m.ToolName }

// Description implements tool.Tool.
func (m *MockTool) Description() string { return "mock tool " + m.ToolName }

// InputSchema implements tool.Tool.
func (m *MockTool) InputSchema() map[string]any {
	return map[string]any{"type": "object"}
}

// Invoke implements tool.Tool.
func (m *MockTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	m.invocations.Add(1)
	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, args)
	}
	return m.Output, m.Err
}

// Invocations returns how many times the tool has been invoked.
func (m *MockTool) Invocations() int {
	return int(m.invocations.Load())
}
