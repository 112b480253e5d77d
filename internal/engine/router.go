package engine

import "github.com/adler0/ragent/internal/conversation"

// State identifies a node of the run state machine. The set is closed: the
// orchestrator only ever moves between these values.
type State int

const (
	StateQueryOrRespond State = iota
	StateGradeDocuments
	StateRewrite
	StateGenerate
	StateTerminated
)

// String returns the node name used in logs and error reports.
func (s State) String() string {
	switch s {
	case StateQueryOrRespond:
		return "query_or_respond"
	case StateGradeDocuments:
		return "grade_documents"
	case StateRewrite:
		return "rewrite"
	case StateGenerate:
		return "generate"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Verdict is the binary outcome of document grading. It routes the run and
// is never stored as a conversation turn.
type Verdict int

const (
	VerdictIrrelevant Verdict = iota
	VerdictRelevant
)

func (v Verdict) String() string {
	if v == VerdictRelevant {
		return "relevant"
	}
	return "irrelevant"
}

// RouteAfterQueryOrRespond maps the node's decision reply to the next
// state: tool calls mean the freshly retrieved content needs grading, a
// plain reply ends the run.
func RouteAfterQueryOrRespond(decision conversation.Turn) State {
	if decision.HasToolCalls() {
		return StateGradeDocuments
	}
	return StateTerminated
}

// RouteAfterGrade maps a verdict to the next state. There is no third
// outcome: relevant goes to answer synthesis, anything else to rewrite.
func RouteAfterGrade(v Verdict) State {
	if v == VerdictRelevant {
		return StateGenerate
	}
	return StateRewrite
}

// RouteAfterRewrite always loops back to the decision node.
func RouteAfterRewrite() State {
	return StateQueryOrRespond
}

// RouteAfterGenerate always terminates the run.
func RouteAfterGenerate() State {
	return StateTerminated
}
