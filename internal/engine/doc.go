// Package engine drives the retrieval-augmented answer loop as an explicit
// finite-state machine over an append-only conversation log.
//
// One run walks a fixed set of states:
//
//	start ──▶ QueryOrRespond ──(no tool calls)──▶ Terminated
//	              │ (tool calls, resolved inline)
//	              ▼
//	        GradeDocuments ──(relevant)──▶ Generate ──▶ Terminated
//	              │ (irrelevant)
//	              ▼
//	           Rewrite ──▶ QueryOrRespond
//
// Node execution is strictly sequential; the only concurrency is the
// fan-out over the tool calls of a single assistant reply. The
// Rewrite ⇄ QueryOrRespond cycle is bounded by a configurable cap, and
// exceeding it aborts the run.
package engine
