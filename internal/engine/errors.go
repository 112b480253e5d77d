package engine

import (
	"errors"
	"fmt"
)

// ErrRunAborted marks a run that exceeded its rewrite cycle cap without
// producing an answer.
var ErrRunAborted = errors.New("run aborted")

// NodeError attributes a fatal run failure to the node that raised it.
// Tool invocation failures never become NodeErrors; they are recovered
// locally as error-content tool results.
type NodeError struct {
	Node State
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
