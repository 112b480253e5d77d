package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adler0/ragent/internal/conversation"
)

func TestRouteAfterQueryOrRespond(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		decision conversation.Turn
		want     State
	}{
		{
			name:     "no tool calls terminates",
			decision: conversation.NewAssistantTurn("direct answer"),
			want:     StateTerminated,
		},
		{
			name: "one tool call routes to grading",
			decision: conversation.Turn{
				Role:      conversation.RoleAssistant,
				ToolCalls: []conversation.ToolCall{{Name: "retrieve_context", CallID: "call-0"}},
			},
			want: StateGradeDocuments,
		},
		{
			name: "multiple tool calls route to grading",
			decision: conversation.Turn{
				Role: conversation.RoleAssistant,
				ToolCalls: []conversation.ToolCall{
					{Name: "a", CallID: "call-0"},
					{Name: "b", CallID: "call-1"},
				},
			},
			want: StateGradeDocuments,
		},
		{
			name:     "empty reply with no calls terminates",
			decision: conversation.Turn{Role: conversation.RoleAssistant},
			want:     StateTerminated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RouteAfterQueryOrRespond(tt.decision))
		})
	}
}

func TestRouteAfterGrade(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StateGenerate, RouteAfterGrade(VerdictRelevant))
	assert.Equal(t, StateRewrite, RouteAfterGrade(VerdictIrrelevant))
}

func TestRouteAfterRewrite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StateQueryOrRespond, RouteAfterRewrite())
}

func TestRouteAfterGenerate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StateTerminated, RouteAfterGenerate())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "query_or_respond", StateQueryOrRespond.String())
	assert.Equal(t, "grade_documents", StateGradeDocuments.String())
	assert.Equal(t, "rewrite", StateRewrite.String())
	assert.Equal(t, "generate", StateGenerate.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestVerdictString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "relevant", VerdictRelevant.String())
	assert.Equal(t, "irrelevant", VerdictIrrelevant.String())
}
