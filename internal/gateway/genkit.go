package gateway

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/adler0/ragent/internal/conversation"
	"github.com/adler0/ragent/internal/log"
)

// GenkitConfig contains all required parameters for the Genkit-backed
// gateway.
type GenkitConfig struct {
	Genkit    *genkit.Genkit
	ModelName string // e.g. "googleai/gemini-2.5-flash"
	Logger    log.Logger

	// RateLimiter throttles model calls proactively. nil uses a default of
	// 10 requests/sec sustained with a burst of 30.
	RateLimiter *rate.Limiter

	// Temperature is applied to every generation. nil leaves the provider
	// default in place.
	Temperature *float32
}

func (cfg GenkitConfig) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Genkit is the production Gateway implementation backed by a Genkit model.
//
// Tool-augmented calls use ai.WithReturnToolRequests so the model's tool
// calls come back to the caller unexecuted; resolving them is the
// orchestrator's job, not Genkit's.
//
// Safe for concurrent use by multiple runs: all fields are read-only after
// construction except the tool registration cache, which is mutex-guarded.
type Genkit struct {
	g         *genkit.Genkit
	modelName string
	limiter   *rate.Limiter
	logger    log.Logger
	genConfig *genai.GenerateContentConfig

	mu         sync.Mutex
	registered map[string]ai.Tool
}

// NewGenkit creates a Gateway backed by the configured Genkit model.
func NewGenkit(cfg GenkitConfig) (*Genkit, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}

	return &Genkit{
		g:          cfg.Genkit,
		modelName:  cfg.ModelName,
		limiter:    limiter,
		logger:     cfg.Logger,
		genConfig:  generationConfig(cfg.Temperature),
		registered: make(map[string]ai.Tool),
	}, nil
}

// generationConfig builds the provider config for the configured sampling
// parameters. nil when nothing is set, so the provider defaults apply.
func generationConfig(temperature *float32) *genai.GenerateContentConfig {
	if temperature == nil {
		return nil
	}
	return &genai.GenerateContentConfig{Temperature: genai.Ptr(*temperature)}
}

// Generate implements Gateway.
func (gw *Genkit) Generate(ctx context.Context, turns []conversation.Turn) (conversation.Turn, error) {
	resp, err := gw.generate(ctx, "generate",
		ai.WithMessages(toMessages(turns)...),
	)
	if err != nil {
		return conversation.Turn{}, err
	}
	return replyTurn(resp), nil
}

// GenerateWithTools implements Gateway.
func (gw *Genkit) GenerateWithTools(ctx context.Context, turns []conversation.Turn, tools []ToolSpec) (conversation.Turn, error) {
	refs := make([]ai.ToolRef, len(tools))
	for i, spec := range tools {
		refs[i] = gw.toolRef(spec)
	}

	resp, err := gw.generate(ctx, "tools",
		ai.WithMessages(toMessages(turns)...),
		ai.WithTools(refs...),
		ai.WithReturnToolRequests(true),
	)
	if err != nil {
		return conversation.Turn{}, err
	}

	reply := replyTurn(resp)
	gw.logger.Debug("model reply",
		"tool_calls", len(reply.ToolCalls),
		"content_length", len(reply.Content))
	return reply, nil
}

// GenerateStructured implements Gateway. out must be a non-nil pointer to a
// struct; its type drives the output schema sent to the model.
func (gw *Genkit) GenerateStructured(ctx context.Context, turns []conversation.Turn, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &Error{Mode: "structured", Err: fmt.Errorf("out must be a non-nil pointer, got %T", out)}
	}

	resp, err := gw.generate(ctx, "structured",
		ai.WithMessages(toMessages(turns)...),
		ai.WithOutputType(rv.Elem().Interface()),
	)
	if err != nil {
		return err
	}

	if err := resp.Output(out); err != nil {
		return &Error{Mode: "structured", Err: fmt.Errorf("%w: %v", ErrSchemaViolation, err)}
	}
	return nil
}

// generate is the shared model invocation path: rate limit, call, wrap
// failure. No retry by contract.
func (gw *Genkit) generate(ctx context.Context, mode string, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
	if err := gw.limiter.Wait(ctx); err != nil {
		return nil, &Error{Mode: mode, Err: err}
	}

	base := []ai.GenerateOption{ai.WithModelName(gw.modelName)}
	if gw.genConfig != nil {
		base = append(base, ai.WithConfig(gw.genConfig))
	}
	opts = append(base, opts...)
	resp, err := genkit.Generate(ctx, gw.g, opts...)
	if err != nil {
		return nil, &Error{Mode: mode, Err: err}
	}
	return resp, nil
}

// toolRef resolves a spec to a Genkit tool, registering it on first use.
// The handler is never invoked because every tool-augmented call sets
// ai.WithReturnToolRequests.
func (gw *Genkit) toolRef(spec ToolSpec) ai.Tool {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if t, ok := gw.registered[spec.Name]; ok {
		return t
	}

	t := genkit.DefineTool(gw.g, spec.Name, spec.Description,
		func(_ *ai.ToolContext, _ map[string]any) (string, error) {
			return "", errors.New("tool execution is owned by the orchestrator")
		})
	gw.registered[spec.Name] = t
	return t
}
