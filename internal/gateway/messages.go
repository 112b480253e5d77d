package gateway

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/adler0/ragent/internal/conversation"
)

// toMessages converts conversation turns to Genkit messages.
//
// Tool turns carry only a call ID; the tool name required by ai.ToolResponse
// is recovered from the originating assistant turn in the same sequence.
func toMessages(turns []conversation.Turn) []*ai.Message {
	msgs := make([]*ai.Message, 0, len(turns))
	for i, t := range turns {
		switch t.Role {
		case conversation.RoleSystem:
			msgs = append(msgs, ai.NewMessage(ai.RoleSystem, nil, ai.NewTextPart(t.Content)))

		case conversation.RoleUser:
			msgs = append(msgs, ai.NewUserMessage(ai.NewTextPart(t.Content)))

		case conversation.RoleAssistant:
			var parts []*ai.Part
			if t.Content != "" {
				parts = append(parts, ai.NewTextPart(t.Content))
			}
			for _, call := range t.ToolCalls {
				parts = append(parts, ai.NewToolRequestPart(&ai.ToolRequest{
					Name:  call.Name,
					Ref:   call.CallID,
					Input: call.Arguments,
				}))
			}
			msgs = append(msgs, ai.NewModelMessage(parts...))

		case conversation.RoleTool:
			msgs = append(msgs, ai.NewMessage(ai.RoleTool, nil, ai.NewToolResponsePart(&ai.ToolResponse{
				Name:   toolNameForCall(turns[:i], t.ToolCallID),
				Ref:    t.ToolCallID,
				Output: t.Content,
			})))
		}
	}
	return msgs
}

// toolNameForCall finds the tool name of the call with the given ID among
// the preceding assistant turns. Returns "" when the log violates the
// linkage invariant; providers reject that, which is the correct failure.
func toolNameForCall(preceding []conversation.Turn, callID string) string {
	for i := len(preceding) - 1; i >= 0; i-- {
		for _, call := range preceding[i].ToolCalls {
			if call.CallID == callID {
				return call.Name
			}
		}
	}
	return ""
}

// replyTurn converts a model response into an assistant turn. Call IDs
// omitted by the provider are synthesized deterministically from the call's
// position in the batch.
func replyTurn(resp *ai.ModelResponse) conversation.Turn {
	turn := conversation.Turn{
		Role:    conversation.RoleAssistant,
		Content: resp.Text(),
	}
	for i, req := range resp.ToolRequests() {
		callID := req.Ref
		if callID == "" {
			callID = fmt.Sprintf("call-%d", i)
		}
		turn.ToolCalls = append(turn.ToolCalls, conversation.ToolCall{
			Name:      req.Name,
			Arguments: toArguments(req.Input),
			CallID:    callID,
		})
	}
	return turn
}

// toArguments normalizes a tool request input to the opaque key/value
// payload the registry expects.
func toArguments(input any) map[string]any {
	switch v := input.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	default:
		return map[string]any{"value": v}
	}
}
