// Package report builds the structured capture tree handed back to
// callers once the walker finds a match: a Report per named node,
// nested the way the pattern tree nested them, each holding the
// matched text and its character-offset range.
package report

import (
	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/walker"
)

// Report is one named capture, or the anonymous root of a match. Start
// and End are character offsets into the original text, not byte
// offsets, so they index correctly even over multi-byte runes.
type Report struct {
	name     string
	start    int
	end      int
	text     string
	children []*Report
}

// Name returns the capture's name, or "" for an anonymous or unnamed
// node (distinguish the two with Root's always-"" name versus a nested
// Report, which only exists in the tree because it was named).
func (r *Report) Name() string { return r.name }

// Range returns the matched span as character offsets [start, end).
func (r *Report) Range() (start, end int) { return r.start, r.end }

// Text returns the substring of the original text this capture matched.
func (r *Report) Text() string { return r.text }

// Children returns the capture's direct named descendants, in the
// order their patterns appeared.
func (r *Report) Children() []*Report { return r.children }

// Find returns the first descendant (depth-first, including r itself)
// with the given name, or nil if none matched.
func (r *Report) Find(name string) *Report {
	if r.name == name {
		return r
	}
	for _, c := range r.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Build walks a successful walker.Result's Step tree and produces the
// root Report for it. text must be the same []rune slice the walker
// matched against.
func Build(res *walker.Result, text []rune) *Report {
	root := &Report{start: res.Start, end: res.End, text: string(text[res.Start:res.End])}
	root.children = collectNamedChildren(res.Root, text)
	return root
}

// collectNamedChildren walks step's attempts looking for named nodes
// among its descendants, honoring the SpanAllReps/ReportEachRep flags
// that distinguish the three repeated-named-group reporting
// conventions. If step's own node is named, the result is a Report for
// that node with its named descendants nested inside; otherwise it is
// the node's named descendants, flattened up to this level.
func collectNamedChildren(step *walker.Step, text []rune) []*Report {
	if step == nil || len(step.Attempts) == 0 {
		return nil
	}

	node := step.Node

	if node.ReportEachRep {
		// "X<name>+": this wrapper And node is itself unnamed, but its
		// single child is named; emit one sibling Report per accepted
		// repetition instead of descending once into the last.
		var out []*Report
		for _, att := range step.Attempts {
			out = append(out, reportsFromAttempt(step, att, text)...)
		}
		return out
	}

	// Default convention, and SpanAllReps ("X+<name>"): only the last
	// attempt's internal structure is descended into for nested named
	// children. The difference between the two is purely in how THIS
	// node's own span is reported (see reportForNamed),
	// not in which attempts contribute descendants.
	last := step.Attempts[len(step.Attempts)-1]
	return reportsFromAttempt(step, last, text)
}

// reportsFromAttempt looks at one accepted repetition of step's node
// and returns the named Reports it directly or transitively
// contributes: if the node itself is named, a single Report for it
// (with its own children collected from inside); otherwise the node's
// named descendants, flattened up to the nearest enclosing name.
func reportsFromAttempt(step *walker.Step, att *walker.Attempt, text []rune) []*Report {
	node := step.Node
	if !node.Name.IsNone() {
		return []*Report{reportForNamed(step, node, att, text)}
	}
	return descendInto(node, att, text)
}

// reportForNamed builds the Report for a single named node's accepted
// attempt, choosing its span per the repetition convention and
// recursing for nested named children.
func reportForNamed(step *walker.Step, node *ast.Node, att *walker.Attempt, text []rune) *Report {
	start, end := att.Start, att.End
	if node.SpanAllReps {
		// "X+<name>": report the union of every repetition, not just
		// this (the last) one.
		start = step.Start
	}
	r := &Report{name: node.Name.String(), start: start, end: end, text: string(text[start:end])}
	r.children = descendInto(node, att, text)
	return r
}

// descendInto collects the named Reports found inside one accepted
// attempt of node, recursing through And/Or structure without
// requiring node itself to be named.
func descendInto(node *ast.Node, att *walker.Attempt, text []rune) []*Report {
	switch node.Kind {
	case ast.KindAnd:
		var out []*Report
		for i, childStep := range att.Children {
			if i >= len(node.Children) || childStep == nil {
				continue
			}
			out = append(out, collectNamedChildren(childStep, text)...)
		}
		return out
	case ast.KindOr:
		if att.AltStep == nil {
			return nil
		}
		return collectNamedChildren(att.AltStep, text)
	default:
		return nil
	}
}
