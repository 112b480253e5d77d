package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adler0/ragent/internal/conversation"
	"github.com/adler0/ragent/internal/gateway"
)

const gradePrompt = `You are a grader assessing the relevance of retrieved content to a user question.

Here is the retrieved content:

%s

Here is the user question: %s

If the content contains keywords or semantic meaning related to the question, grade it as relevant.
Give a binary score, 'yes' or 'no', to indicate whether the content is relevant to the question.`

const rewritePrompt = `Look at the input question and try to reason about its underlying semantic intent.

Here is the initial question:

%s

Formulate an improved question. Reply with the improved question only.`

const generatePrompt = `You are an assistant for question-answering tasks. Use the following retrieved context to answer the question. If the context does not contain the answer, say that you don't know. Use three sentences maximum and keep the answer concise.

Question: %s

Context: %s`

// relevanceGrade is the schema-constrained grading output: a single binary
// relevance label.
type relevanceGrade struct {
	BinaryScore string `json:"binary_score" jsonschema:"description=Relevance label: 'yes' if the content is relevant to the question and 'no' otherwise"`
}

// queryOrRespond runs the decision node. It calls the model in
// tool-augmented mode over the log view that excludes system priming turns.
//
// A reply without tool calls is appended as-is and ends the cycle. A reply
// with tool calls is resolved inline: all calls run concurrently, their
// results are appended in call order after the reply, and exactly one more
// gateway invocation over the extended log is appended. That follow-up is
// never re-scanned for tool calls here; any further tool use is picked up
// on the next pass through the state machine.
//
// The returned turn is the decision reply the router inspects.
func (e *Engine) queryOrRespond(ctx context.Context, clog *conversation.Log) (conversation.Turn, error) {
	view := clog.Filtered(func(r conversation.Role) bool { return r != conversation.RoleSystem })

	reply, err := e.gateway.GenerateWithTools(ctx, view, e.registry.Specs())
	if err != nil {
		return conversation.Turn{}, err
	}

	if !reply.HasToolCalls() {
		clog.Append(reply)
		return reply, nil
	}

	e.logger.Debug("resolving tool calls", "count", len(reply.ToolCalls))
	results, err := e.executeTools(ctx, reply.ToolCalls)
	if err != nil {
		return conversation.Turn{}, err
	}

	turns := make([]conversation.Turn, 0, len(results)+1)
	turns = append(turns, reply)
	for _, res := range results {
		turns = append(turns, conversation.NewToolTurn(res))
	}
	clog.Append(turns...)

	followUp, err := e.gateway.GenerateWithTools(ctx, clog.Filtered(func(r conversation.Role) bool {
		return r != conversation.RoleSystem
	}), e.registry.Specs())
	if err != nil {
		return conversation.Turn{}, err
	}
	clog.Append(followUp)

	return reply, nil
}

// executeTools dispatches all calls of one assistant reply concurrently and
// collects their results in the original call order, not completion order.
// A failing call never aborts its siblings; its failure becomes the textual
// content of its result.
//
// On context cancellation nothing is returned: in-flight invocations are
// waited out (they observe the same context and return promptly) and no
// partial results reach the log.
func (e *Engine) executeTools(ctx context.Context, calls []conversation.ToolCall) ([]conversation.ToolResult, error) {
	results := make([]conversation.ToolResult, len(calls))

	var g errgroup.Group
	for i, call := range calls {
		g.Go(func() error {
			results[i] = e.invokeTool(ctx, call)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// invokeTool resolves and runs one tool call. Unknown names and invocation
// errors are converted into error-content results rather than propagated.
func (e *Engine) invokeTool(ctx context.Context, call conversation.ToolCall) conversation.ToolResult {
	t, ok := e.registry.Lookup(call.Name)
	if !ok {
		e.logger.Warn("unknown tool requested", "tool", call.Name)
		return conversation.ToolResult{
			CallID:  call.CallID,
			Content: fmt.Sprintf("Error: tool %q is not registered.", call.Name),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.toolTimeout)
	defer cancel()

	content, err := t.Invoke(callCtx, call.Arguments)
	if err != nil {
		e.logger.Warn("tool invocation failed", "tool", call.Name, "error", err)
		return conversation.ToolResult{
			CallID:  call.CallID,
			Content: fmt.Sprintf("Error: tool %q failed: %v", call.Name, err),
		}
	}
	return conversation.ToolResult{CallID: call.CallID, Content: content}
}

// gradeDocuments classifies the latest turn's content as relevant or not to
// the seed question, via a schema-constrained gateway call. The verdict is
// returned to the router, never appended to the log.
//
// No precondition beyond a non-empty log: if grading runs out of sequence
// the latest content is graded as-is.
func (e *Engine) gradeDocuments(ctx context.Context, clog *conversation.Log) (Verdict, error) {
	question := clog.First().Content
	content := clog.Latest().Content

	prompt := fmt.Sprintf(gradePrompt, content, question)

	var grade relevanceGrade
	if err := e.gateway.GenerateStructured(ctx, []conversation.Turn{conversation.NewUserTurn(prompt)}, &grade); err != nil {
		return VerdictIrrelevant, err
	}

	switch strings.ToLower(strings.TrimSpace(grade.BinaryScore)) {
	case "yes":
		return VerdictRelevant, nil
	case "no":
		return VerdictIrrelevant, nil
	default:
		return VerdictIrrelevant, &gateway.Error{
			Mode: "structured",
			Err:  fmt.Errorf("%w: binary_score %q", gateway.ErrSchemaViolation, grade.BinaryScore),
		}
	}
}

// rewrite reformulates the seed question and appends the result as a new
// user turn. Intervening tool and grading activity is ignored on purpose:
// reformulation is always anchored to the original ask.
func (e *Engine) rewrite(ctx context.Context, clog *conversation.Log) error {
	prompt := fmt.Sprintf(rewritePrompt, clog.First().Content)

	reply, err := e.gateway.Generate(ctx, []conversation.Turn{conversation.NewUserTurn(prompt)})
	if err != nil {
		return err
	}

	rewritten := strings.TrimSpace(reply.Content)
	e.logger.Debug("question rewritten", "length", len(rewritten))
	clog.Append(conversation.NewUserTurn(rewritten))
	return nil
}

// generateAnswer synthesizes the final answer from the seed question and
// the latest content, then appends it. Always terminal.
func (e *Engine) generateAnswer(ctx context.Context, clog *conversation.Log) error {
	prompt := fmt.Sprintf(generatePrompt, clog.First().Content, clog.Latest().Content)

	reply, err := e.gateway.Generate(ctx, []conversation.Turn{conversation.NewUserTurn(prompt)})
	if err != nil {
		return err
	}

	clog.Append(reply)
	return nil
}
