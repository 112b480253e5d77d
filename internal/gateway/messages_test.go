package gateway

import (
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adler0/ragent/internal/conversation"
)

func TestToMessages_RoleMapping(t *testing.T) {
	t.Parallel()

	turns := []conversation.Turn{
		conversation.NewSystemTurn("priming"),
		conversation.NewUserTurn("question"),
		conversation.NewAssistantTurn("answer"),
	}

	msgs := toMessages(turns)
	require.Len(t, msgs, 3)
	assert.Equal(t, ai.RoleSystem, msgs[0].Role)
	assert.Equal(t, ai.RoleUser, msgs[1].Role)
	assert.Equal(t, ai.RoleModel, msgs[2].Role)
	assert.Equal(t, "answer", msgs[2].Text())
}

func TestToMessages_ToolCallRoundTrip(t *testing.T) {
	t.Parallel()

	turns := []conversation.Turn{
		conversation.NewUserTurn("question"),
		{
			Role: conversation.RoleAssistant,
			ToolCalls: []conversation.ToolCall{
				{Name: "retrieve_context", Arguments: map[string]any{"query": "q"}, CallID: "call-0"},
			},
		},
		conversation.NewToolTurn(conversation.ToolResult{CallID: "call-0", Content: "passages"}),
	}

	msgs := toMessages(turns)
	require.Len(t, msgs, 3)

	var req *ai.ToolRequest
	for _, p := range msgs[1].Content {
		if p.ToolRequest != nil {
			req = p.ToolRequest
		}
	}
	require.NotNil(t, req)
	assert.Equal(t, "retrieve_context", req.Name)
	assert.Equal(t, "call-0", req.Ref)

	var res *ai.ToolResponse
	for _, p := range msgs[2].Content {
		if p.ToolResponse != nil {
			res = p.ToolResponse
		}
	}
	require.NotNil(t, res)
	assert.Equal(t, "retrieve_context", res.Name, "tool name recovered from the originating call")
	assert.Equal(t, "call-0", res.Ref)
	assert.Equal(t, "passages", res.Output)
}

func TestToolNameForCall_UnknownID(t *testing.T) {
	t.Parallel()

	turns := []conversation.Turn{conversation.NewUserTurn("q")}
	assert.Empty(t, toolNameForCall(turns, "call-404"))
}

func TestReplyTurn_TextOnly(t *testing.T) {
	t.Parallel()

	resp := &ai.ModelResponse{
		Message: ai.NewModelMessage(ai.NewTextPart("plain answer")),
	}

	turn := replyTurn(resp)
	assert.Equal(t, conversation.RoleAssistant, turn.Role)
	assert.Equal(t, "plain answer", turn.Content)
	assert.False(t, turn.HasToolCalls())
}

func TestReplyTurn_SynthesizesMissingCallIDs(t *testing.T) {
	t.Parallel()

	resp := &ai.ModelResponse{
		Message: ai.NewModelMessage(
			ai.NewToolRequestPart(&ai.ToolRequest{Name: "a", Input: map[string]any{"x": 1}}),
			ai.NewToolRequestPart(&ai.ToolRequest{Name: "b", Ref: "provider-id"}),
		),
	}

	turn := replyTurn(resp)
	require.Len(t, turn.ToolCalls, 2)
	assert.Equal(t, "call-0", turn.ToolCalls[0].CallID)
	assert.Equal(t, "provider-id", turn.ToolCalls[1].CallID)
}

func TestToArguments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]any{}, toArguments(nil))
	assert.Equal(t, map[string]any{"query": "q"}, toArguments(map[string]any{"query": "q"}))
	assert.Equal(t, map[string]any{"value": "raw"}, toArguments("raw"))
}

func TestGenkitConfig_Validate(t *testing.T) {
	t.Parallel()

	err := GenkitConfig{}.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genkit instance")
}
