package walker

import (
	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/trace"
)

// engine carries the per-match state threaded through every walker
// call: the text being matched and the trace sink. Nothing here is
// global or shared across calls, so concurrent Search calls against
// the same Pattern never interfere with each other.
type engine struct {
	text   []rune
	tracer *trace.Tracer
	depth  int
}

// buildStep performs the initial forward construction of node's Step
// at pos: for a lazy node it accepts exactly Limits.Min repetitions; for
// a greedy node it accepts repetitions until Limits.Max or the next
// repetition fails, then checks Limits.Min.
func (e *engine) buildStep(node *ast.Node, pos int) (*Step, bool) {
	e.depth++
	e.tracer.Emit(e.depth, trace.EventEnter, node, pos, 0)
	step := &Step{Node: node, Start: pos}

	if node.Limits.Lazy {
		for i := 0; i < node.Limits.Min; i++ {
			att, ok := e.oneUnitMatch(node, pos)
			if !ok {
				e.tracer.Emit(e.depth, trace.EventFail, node, pos, len(step.Attempts))
				e.depth--
				return nil, false
			}
			step.Attempts = append(step.Attempts, att)
			pos = att.End
		}
		e.tracer.Emit(e.depth, trace.EventSuccess, node, pos, len(step.Attempts))
		e.depth--
		return step, true
	}

	for !node.Limits.AtMax(len(step.Attempts)) {
		att, ok := e.oneUnitMatch(node, pos)
		if !ok {
			break
		}
		zeroWidth := att.Start == att.End
		step.Attempts = append(step.Attempts, att)
		pos = att.End
		if zeroWidth {
			// A repetition that consumed nothing will repeat
			// identically forever; one occurrence is enough to
			// satisfy any Min, so stop here rather than loop until Max
			// (which may be unbounded).
			break
		}
	}
	if !node.Limits.Satisfied(len(step.Attempts)) {
		e.tracer.Emit(e.depth, trace.EventFail, node, pos, len(step.Attempts))
		e.depth--
		return nil, false
	}
	e.tracer.Emit(e.depth, trace.EventSuccess, node, pos, len(step.Attempts))
	e.depth--
	return step, true
}

// oneUnitMatch attempts exactly one repetition of node at pos.
func (e *engine) oneUnitMatch(node *ast.Node, pos int) (*Attempt, bool) {
	switch node.Kind {
	case ast.KindChars:
		n, ok := matchesChars(node.Chars, e.text, pos)
		if !ok {
			return nil, false
		}
		return &Attempt{Start: pos, End: pos + n}, true

	case ast.KindSpecial:
		n, ok := matchesSpecial(node.Special, e.text, pos)
		if !ok {
			return nil, false
		}
		return &Attempt{Start: pos, End: pos + n}, true

	case ast.KindSet:
		if pos >= len(e.text) || !node.MatchesRune(e.text[pos]) {
			return nil, false
		}
		return &Attempt{Start: pos, End: pos + 1}, true

	case ast.KindAnd:
		children := make([]*Step, len(node.Children))
		end, ok := e.andAttempt(node.Children, children, 0, pos)
		if !ok {
			return nil, false
		}
		return &Attempt{Start: pos, End: end, Children: children}, true

	case ast.KindOr:
		for i, alt := range node.Children {
			step, ok := e.buildStep(alt, pos)
			if ok {
				return &Attempt{Start: pos, End: step.End(), AltIndex: i, AltStep: step}, true
			}
		}
		return nil, false

	default:
		return nil, false
	}
}

// andAttempt runs the concatenation's inner backtracking search: build
// children[idx:] forward from pos, backing off children[<idx] whenever
// a later child fails to find a match, until either every child has
// matched in sequence or the search is exhausted back past index 0.
//
// steps is reused across calls: pass a fresh all-nil slice with idx==0
// to build forward from scratch, or an already-fully-built slice with
// idx==len(children)-1 to ask the attempt to yield a different (later)
// solution. Either way the loop below is the same state machine.
func (e *engine) andAttempt(children []*ast.Node, steps []*Step, idx int, pos int) (int, bool) {
	for {
		if idx == len(children) {
			return pos, true
		}
		if idx < 0 {
			return 0, false
		}
		if steps[idx] == nil {
			step, ok := e.buildStep(children[idx], pos)
			if !ok {
				idx--
				continue
			}
			steps[idx] = step
			pos = step.End()
			idx++
			if idx < len(steps) {
				steps[idx] = nil
			}
			continue
		}

		newEnd, ok := e.backoffStep(steps[idx])
		if !ok {
			steps[idx] = nil
			idx--
			continue
		}
		pos = newEnd
		idx++
		if idx < len(steps) {
			steps[idx] = nil
		}
	}
}

// backoffStep asks step to yield a different match: a greedy step drops
// or shrinks its last repetition; a lazy step extends by one more
// repetition. Returns the new end position, or false if step has no
// more ground to give (the caller must then back off its own parent).
func (e *engine) backoffStep(step *Step) (int, bool) {
	node := step.Node
	e.depth++
	defer func() { e.depth-- }()

	if node.Limits.Lazy {
		if node.Limits.AtMax(len(step.Attempts)) {
			e.tracer.Emit(e.depth, trace.EventFail, node, step.End(), len(step.Attempts))
			return 0, false
		}
		if n := len(step.Attempts); n > 0 && step.Attempts[n-1].Start == step.Attempts[n-1].End {
			// The last extension consumed nothing, so trying again would
			// match the same zero-width repetition at the same position
			// forever without ever reaching Limits.Max. One zero-width
			// extension is enough; there is no more ground to give.
			e.tracer.Emit(e.depth, trace.EventFail, node, step.End(), len(step.Attempts))
			return 0, false
		}
		pos := step.End()
		att, ok := e.oneUnitMatch(node, pos)
		if !ok {
			e.tracer.Emit(e.depth, trace.EventFail, node, pos, len(step.Attempts))
			return 0, false
		}
		step.Attempts = append(step.Attempts, att)
		e.tracer.Emit(e.depth, trace.EventBackoff, node, att.End, len(step.Attempts))
		return att.End, true
	}

	for len(step.Attempts) > 0 {
		last := step.Attempts[len(step.Attempts)-1]
		if newEnd, ok := e.backoffAttemptInternal(node, last); ok {
			last.End = newEnd
			e.tracer.Emit(e.depth, trace.EventBackoff, node, newEnd, len(step.Attempts))
			return newEnd, true
		}
		step.Attempts = step.Attempts[:len(step.Attempts)-1]
		if node.Limits.Satisfied(len(step.Attempts)) {
			e.tracer.Emit(e.depth, trace.EventBackoff, node, step.End(), len(step.Attempts))
			return step.End(), true
		}
		e.tracer.Emit(e.depth, trace.EventFail, node, step.End(), len(step.Attempts))
		return 0, false
	}
	return 0, false
}

// backoffAttemptInternal tries to vary a compound attempt's internal
// structure without dropping the repetition entirely: And retries from
// its last child; Or retries the chosen alternative, then tries the
// next one. Leaves have no internal structure, so they always fail
// here, pushing the decision up to backoffStep's repetition-dropping
// path.
func (e *engine) backoffAttemptInternal(node *ast.Node, att *Attempt) (int, bool) {
	switch node.Kind {
	case ast.KindAnd:
		return e.andAttempt(node.Children, att.Children, len(node.Children)-1, 0)
	case ast.KindOr:
		return e.backoffOrAttempt(node, att)
	default:
		return 0, false
	}
}

func (e *engine) backoffOrAttempt(node *ast.Node, att *Attempt) (int, bool) {
	if newEnd, ok := e.backoffStep(att.AltStep); ok {
		att.End = newEnd
		return newEnd, true
	}
	for i := att.AltIndex + 1; i < len(node.Children); i++ {
		step, ok := e.buildStep(node.Children[i], att.Start)
		if ok {
			att.AltIndex = i
			att.AltStep = step
			return step.End(), true
		}
	}
	return 0, false
}
