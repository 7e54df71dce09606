package walker

import (
	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/trace"
)

// Result is the root-level outcome of a single successful match: the
// overall matched range plus the root Step, which the report builder
// walks to recover named sub-matches.
type Result struct {
	Start, End int
	Root       *Step
}

// Match attempts to match root against text starting at exactly pos,
// trying every backtracking alternative before giving up. It does not
// scan forward to later start positions; callers wanting leftmost-first
// scanning should use Search. tracer may be nil, in which case tracing
// is disabled.
func Match(root *ast.Node, text []rune, pos int, tracer *trace.Tracer) (*Result, bool) {
	if tracer == nil {
		tracer = &trace.Tracer{}
	}
	e := &engine{text: text, tracer: tracer}
	step, ok := e.buildStep(root, pos)
	if !ok {
		return nil, false
	}
	return &Result{Start: pos, End: step.End(), Root: step}, true
}

// Search finds the leftmost match of root in text at or after from,
// trying successive start positions in order (Perl-style leftmost-first,
// not POSIX leftmost-longest: the first position with any successful
// match wins, regardless of whether a later position would match more).
func Search(root *ast.Node, text []rune, from int, tracer *trace.Tracer) (*Result, bool) {
	for pos := from; pos <= len(text); pos++ {
		if res, ok := Match(root, text, pos, tracer); ok {
			return res, true
		}
	}
	return nil, false
}

// NextFrom computes the start position for the next call to Search
// after a match ending at prevEnd that began at prevStart, guaranteeing
// forward progress even when the previous match was zero-width.
func NextFrom(prevStart, prevEnd int) int {
	if prevEnd > prevStart {
		return prevEnd
	}
	return prevStart + 1
}
