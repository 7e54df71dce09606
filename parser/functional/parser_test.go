package functional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkrow/rex/ast"
)

func mustParse(t *testing.T, pattern string) *ast.Node {
	t.Helper()
	n, err := New().Parse(pattern)
	require.NoError(t, err, "Parse(%q)", pattern)
	return n
}

func TestParseTxtAndBareWord(t *testing.T) {
	n := mustParse(t, `txt(hello)`)
	require.Equal(t, ast.KindChars, n.Kind)
	assert.Equal(t, "hello", string(n.Chars))

	n = mustParse(t, "hello")
	require.Equal(t, ast.KindChars, n.Kind)
	assert.Equal(t, "hello", string(n.Chars))
}

func TestParseAndOr(t *testing.T) {
	n := mustParse(t, `and(txt(a) txt(b))`)
	require.Equal(t, ast.KindAnd, n.Kind)
	assert.Len(t, n.Children, 2)

	n = mustParse(t, `or(txt(a) txt(b) txt(c))`)
	require.Equal(t, ast.KindOr, n.Kind)
	assert.Len(t, n.Children, 3)
}

func TestOrRequiresTwoAlternatives(t *testing.T) {
	_, err := New().Parse(`or(txt(a))`)
	assert.Error(t, err, "or(...) with a single alternative should fail")
}

func TestParseNameAnnotation(t *testing.T) {
	n := mustParse(t, `txt(hi)<greeting>`)
	require.False(t, n.Name.IsNone())
	assert.Equal(t, "greeting", n.Name.String())
}

func TestRepetitionBeforeNameSpansAllReps(t *testing.T) {
	n := mustParse(t, `txt(ab)+<x>`)
	assert.True(t, n.SpanAllReps, "X+<name> should set SpanAllReps")
	assert.False(t, n.ReportEachRep, "X+<name> should not set ReportEachRep")
	assert.Equal(t, 1, n.Limits.Min)
	assert.Equal(t, ast.Unbounded, n.Limits.Max)
}

func TestNameBeforeRepetitionWrapsWithReportEachRep(t *testing.T) {
	n := mustParse(t, `txt(ab)<x>+`)
	require.Equal(t, ast.KindAnd, n.Kind)
	assert.True(t, n.ReportEachRep, "X<name>+ should wrap in an unnamed And with ReportEachRep")
	assert.True(t, n.Name.IsNone(), "the wrapper And itself should be unnamed")
	require.Len(t, n.Children, 1)
	assert.Equal(t, "x", n.Children[0].Name.String(), "expected the wrapped child to carry the name")
}

func TestDefAndUse(t *testing.T) {
	n := mustParse(t, `and(def(greeting, txt(hi)) use(greeting) txt(!))`)
	require.Equal(t, ast.KindAnd, n.Kind)
	require.Len(t, n.Children, 2, "def(...) should yield no node, leaving 2 children")
	assert.Equal(t, "hi", string(n.Children[0].Chars), "use(greeting) should splice the defined body")
}

func TestUseUnknownNameWithoutLoaderFails(t *testing.T) {
	_, err := New().Parse(`use(nope)`)
	assert.Error(t, err, "use of an undefined name with no loader should fail")
}

func TestDefRecursiveUseFails(t *testing.T) {
	_, err := New().Parse(`def(r, and(txt(a) use(r)))`)
	assert.Error(t, err, "a definition that uses itself should fail")
}

func TestDuplicateDefFails(t *testing.T) {
	_, err := New().Parse(`and(def(x, txt(a)) def(x, txt(b)))`)
	assert.Error(t, err, "redefining the same name should fail")
}

type mapLoader map[string]string

func (m mapLoader) Load(path string) (*Definitions, error) {
	p := New()
	if _, err := p.Parse(m[path]); err != nil {
		return nil, err
	}
	return p.Definitions(), nil
}

func TestUseFileLoader(t *testing.T) {
	// The loader resolves the bare word "shared" to a file that itself
	// def()s a "shared" entry; use(shared) then splices it the same way
	// it would a locally-declared definition.
	loader := mapLoader{"shared": "def(shared, txt(hi))"}
	p := New(WithFileLoader(loader))
	n, err := p.Parse(`use(shared)`)
	require.NoError(t, err, "Parse with file loader")
	require.Equal(t, ast.KindChars, n.Kind)
	assert.Equal(t, "hi", string(n.Chars), "expected use(file) to splice the loaded def")
}
