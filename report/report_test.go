package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/walker"
)

// flat is a go-cmp-friendly projection of a Report tree: only the
// fields a test cares about (name, text, children), so comparisons
// don't need to export Report's internals.
type flat struct {
	Name     string
	Text     string
	Children []flat
}

func flatten(r *Report) flat {
	var children []flat
	for _, c := range r.Children() {
		children = append(children, flatten(c))
	}
	return flat{Name: r.Name(), Text: r.Text(), Children: children}
}

func TestBuildSimpleNamedCapture(t *testing.T) {
	group := ast.NewChars([]rune("b"))
	group.Name = ast.NameSome("mid")
	root := ast.NewAnd([]*ast.Node{
		ast.NewChars([]rune("a")),
		group,
		ast.NewChars([]rune("c")),
	})

	text := []rune("abc")
	res, ok := walker.Match(root, text, 0, nil)
	require.True(t, ok)

	rep := Build(res, text)
	want := flat{
		Text: "abc",
		Children: []flat{
			{Name: "mid", Text: "b"},
		},
	}
	if diff := cmp.Diff(want, flatten(rep)); diff != "" {
		t.Fatalf("Report tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTraditionalRepeatedGroupReportsLastOnly(t *testing.T) {
	// a(b|c)+d on "abcd": group should report only the last repetition,
	// "c".
	group := ast.NewOr([]*ast.Node{
		ast.NewChars([]rune("b")),
		ast.NewChars([]rune("c")),
	})
	group.Name = ast.NameAnonymous()
	group.Limits = ast.Limits{Min: 1, Max: ast.Unbounded}

	root := ast.NewAnd([]*ast.Node{
		ast.NewChars([]rune("a")),
		group,
		ast.NewChars([]rune("d")),
	})

	text := []rune("abcd")
	res, ok := walker.Match(root, text, 0, nil)
	require.True(t, ok)

	rep := Build(res, text)
	want := flat{
		Text: "abcd",
		Children: []flat{
			{Text: "c"},
		},
	}
	if diff := cmp.Diff(want, flatten(rep)); diff != "" {
		t.Fatalf("default convention should report only the last repetition (-want +got):\n%s", diff)
	}
}

func TestBuildSpanAllRepsReportsFullRange(t *testing.T) {
	digit := ast.NewSpecial(ast.SpecialDigit)
	digit.Name = ast.NameSome("digits")
	digit.Limits = ast.Limits{Min: 1, Max: ast.Unbounded}
	digit.SpanAllReps = true

	text := []rune("123x")
	res, ok := walker.Match(digit, text, 0, nil)
	require.True(t, ok)

	rep := Build(res, text)
	named := rep.Find("digits")
	require.NotNil(t, named)
	assert.Equal(t, "123", named.Text(), "SpanAllReps should report the full repeated span")
}

func TestBuildReportEachRepEmitsOneSiblingPerRepetition(t *testing.T) {
	named := ast.NewChars([]rune("a"))
	named.Name = ast.NameSome("letter")
	wrapper := ast.NewAnd([]*ast.Node{named})
	wrapper.Limits = ast.Limits{Min: 1, Max: ast.Unbounded}
	wrapper.ReportEachRep = true

	text := []rune("aaa")
	res, ok := walker.Match(wrapper, text, 0, nil)
	require.True(t, ok)

	rep := Build(res, text)
	want := flat{
		Text: "aaa",
		Children: []flat{
			{Name: "letter", Text: "a"},
			{Name: "letter", Text: "a"},
			{Name: "letter", Text: "a"},
		},
	}
	if diff := cmp.Diff(want, flatten(rep)); diff != "" {
		t.Fatalf("ReportEachRep should emit one sibling per repetition (-want +got):\n%s", diff)
	}
}
