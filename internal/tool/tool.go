// Package tool provides the named external capabilities a run may invoke
// and the registry that resolves them.
package tool

import (
	"context"
	"fmt"
	"sort"

	"github.com/adler0/ragent/internal/gateway"
)

// Tool is one invokable capability. Implementations must be safe for
// concurrent use: one assistant reply can fan out several invocations at
// once, and multiple runs share the same registry.
type Tool interface {
	Name() string
	Description() string

	// InputSchema returns the JSON schema fragment advertised to the model
	// for this tool's arguments.
	InputSchema() map[string]any

	// Invoke runs the tool. The returned content must be plain text;
	// structured results are serialized before they reach the log.
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// Registry resolves tools by name. It is built once and read-only
// afterwards, so lookups need no locking.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry from the given tools. Duplicate names are
// rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		if _, exists := m[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		m[t.Name()] = t
	}
	return &Registry{tools: m}, nil
}

// Lookup returns the tool with the given name, or false when no such tool
// is registered.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns the gateway-facing descriptions of all registered tools,
// in name order.
func (r *Registry) Specs() []gateway.ToolSpec {
	specs := make([]gateway.ToolSpec, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		specs = append(specs, gateway.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return specs
}
