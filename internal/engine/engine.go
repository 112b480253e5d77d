package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adler0/ragent/internal/conversation"
	"github.com/adler0/ragent/internal/gateway"
	"github.com/adler0/ragent/internal/log"
	"github.com/adler0/ragent/internal/tool"
)

// DefaultToolTimeout bounds tool invocations when Config leaves
// ToolTimeout zero.
const DefaultToolTimeout = 30 * time.Second

// Config contains all required parameters for the Engine.
type Config struct {
	Gateway  gateway.Gateway
	Registry *tool.Registry
	Logger   log.Logger

	// MaxRewrites caps the Rewrite ⇄ QueryOrRespond cycle. A run that would
	// start one more rewrite beyond the cap fails with ErrRunAborted. Zero
	// forbids rewriting entirely: the first irrelevant verdict aborts.
	MaxRewrites int

	// ToolTimeout bounds each individual tool invocation. Zero uses
	// DefaultToolTimeout.
	ToolTimeout time.Duration
}

func (cfg Config) validate() error {
	if cfg.Gateway == nil {
		return errors.New("gateway is required")
	}
	if cfg.Registry == nil {
		return errors.New("tool registry is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.MaxRewrites < 0 {
		return errors.New("max rewrites must not be negative")
	}
	return nil
}

// Engine is the state-machine driver for one-question runs.
//
// All collaborators are injected and read-only after construction, so one
// Engine serves any number of concurrent runs; each run owns its own
// conversation log.
type Engine struct {
	gateway     gateway.Gateway
	registry    *tool.Registry
	logger      log.Logger
	maxRewrites int
	toolTimeout time.Duration
}

// New creates an Engine from the given configuration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	toolTimeout := cfg.ToolTimeout
	if toolTimeout == 0 {
		toolTimeout = DefaultToolTimeout
	}

	return &Engine{
		gateway:     cfg.Gateway,
		registry:    cfg.Registry,
		logger:      cfg.Logger,
		maxRewrites: cfg.MaxRewrites,
		toolTimeout: toolTimeout,
	}, nil
}

// Result is the outcome of one run. On failure Answer is empty and Turns
// still carries the last stable turn sequence for diagnostics.
type Result struct {
	RunID    string
	Answer   string
	Turns    []conversation.Turn
	Rewrites int
	Steps    int // node executions, including the terminal one
}

// Run executes the state machine for a single question until it terminates,
// aborts, or fails.
//
// Termination happens two ways: the decision node answers without
// consulting a tool, or Generate synthesizes an answer from graded
// retrieval output. Gateway failures are fatal and attributed to the
// originating node; tool failures are not fatal and surface only as
// error text in the log.
func (e *Engine) Run(ctx context.Context, question string) (*Result, error) {
	clog := conversation.NewLog(conversation.NewUserTurn(question))

	res := &Result{RunID: uuid.NewString()}
	fail := func(err error) (*Result, error) {
		res.Turns = clog.Turns()
		return res, err
	}

	logger := e.logger.With("run_id", res.RunID)
	logger.Info("run started", "question_length", len(question))

	state := StateQueryOrRespond
	for state != StateTerminated {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		res.Steps++
		logger.Debug("entering node", "node", state.String(), "step", res.Steps)

		switch state {
		case StateQueryOrRespond:
			decision, err := e.queryOrRespond(ctx, clog)
			if err != nil {
				return fail(&NodeError{Node: StateQueryOrRespond, Err: err})
			}
			state = RouteAfterQueryOrRespond(decision)

		case StateGradeDocuments:
			verdict, err := e.gradeDocuments(ctx, clog)
			if err != nil {
				return fail(&NodeError{Node: StateGradeDocuments, Err: err})
			}
			logger.Debug("grading complete", "verdict", verdict.String())
			state = RouteAfterGrade(verdict)

		case StateRewrite:
			if res.Rewrites >= e.maxRewrites {
				logger.Warn("rewrite cap exceeded", "rewrites", res.Rewrites)
				return fail(fmt.Errorf("%w: %d rewrite cycles without a relevant answer", ErrRunAborted, res.Rewrites))
			}
			if err := e.rewrite(ctx, clog); err != nil {
				return fail(&NodeError{Node: StateRewrite, Err: err})
			}
			res.Rewrites++
			state = RouteAfterRewrite()

		case StateGenerate:
			if err := e.generateAnswer(ctx, clog); err != nil {
				return fail(&NodeError{Node: StateGenerate, Err: err})
			}
			state = RouteAfterGenerate()
		}
	}

	res.Answer = clog.Latest().Content
	res.Turns = clog.Turns()

	logger.Info("run finished",
		"steps", res.Steps,
		"rewrites", res.Rewrites,
		"turns", len(res.Turns))
	return res, nil
}
