// Package walker implements the backtracking tree-walk matcher: given a
// compiled ast.Node and an input text, it finds the leftmost match by
// building and back-tracking over a tree of Steps, never recursing
// through the host call stack in proportion to match length — only in
// proportion to pattern nesting depth, since repetitions are held in
// flat Attempt slices rather than nested stack frames.
package walker

import "github.com/arkrow/rex/ast"

// Step is the walker's record of one node's match attempt: the node it
// matched against, the position where it started, and the list of
// repetitions ("attempts") accepted so far. Every Step, including
// leaves, goes through the same repetition machinery because every
// ast.Node carries Limits.
type Step struct {
	Node     *ast.Node
	Start    int
	Attempts []*Attempt
}

// Attempt is one accepted repetition of a Step's node. For compound
// nodes it also records the sub-structure that repetition produced, so
// back-off can resume inside it without rebuilding from scratch.
type Attempt struct {
	Start, End int

	// Populated only when Node.Kind == KindAnd: one Step per child, in
	// order.
	Children []*Step

	// Populated only when Node.Kind == KindOr: which alternative
	// matched, and its Step.
	AltIndex int
	AltStep  *Step
}

// End returns the position after the Step's last accepted repetition,
// or Start if it has none (a satisfied Limits.Min == 0 case).
func (s *Step) End() int {
	if len(s.Attempts) == 0 {
		return s.Start
	}
	return s.Attempts[len(s.Attempts)-1].End
}

// Reps returns the number of repetitions currently accepted.
func (s *Step) Reps() int { return len(s.Attempts) }
