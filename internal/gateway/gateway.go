// Package gateway abstracts the language-model capability behind three
// invocation modes: free-form generation, tool-call-augmented generation,
// and schema-constrained structured generation.
//
// The gateway never retries. Every failure surfaces as *Error so the
// orchestrator can terminate the run and report the originating node.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/adler0/ragent/internal/conversation"
)

// ErrSchemaViolation marks structured output that did not parse to the
// expected shape. The run fails rather than silently defaulting, so a broken
// grader is never masked as an "irrelevant" verdict.
var ErrSchemaViolation = errors.New("structured output does not match the expected shape")

// Error wraps any failure of the generation capability: transport errors,
// malformed responses, schema violations.
type Error struct {
	Mode string // "generate", "tools" or "structured"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Mode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ToolSpec describes an invokable tool to the model. InputSchema is a JSON
// schema fragment for the tool's arguments.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Gateway is the generation capability contract.
//
// Implementations must be stateless with respect to runs: multiple runs may
// share one Gateway concurrently without coordination.
type Gateway interface {
	// Generate produces a free-form assistant reply to the given turns.
	Generate(ctx context.Context, turns []conversation.Turn) (conversation.Turn, error)

	// GenerateWithTools produces an assistant reply that may carry zero or
	// more tool calls against the advertised specs.
	GenerateWithTools(ctx context.Context, turns []conversation.Turn, tools []ToolSpec) (conversation.Turn, error)

	// GenerateStructured produces a reply constrained to the schema derived
	// from out, which must be a non-nil pointer to a struct. The decoded
	// value is stored in out.
	GenerateStructured(ctx context.Context, turns []conversation.Turn, out any) error
}
