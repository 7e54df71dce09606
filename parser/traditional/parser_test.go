package traditional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/rexerr"
)

func mustParse(t *testing.T, pattern string) *ast.Node {
	t.Helper()
	n, err := New().Parse(pattern)
	require.NoError(t, err, "Parse(%q)", pattern)
	return n
}

func TestParseEmptyPattern(t *testing.T) {
	n := mustParse(t, "")
	require.Equal(t, ast.KindAnd, n.Kind)
	require.Len(t, n.Children, 1)
	assert.Equal(t, ast.KindChars, n.Children[0].Kind)
}

func TestParseLiteralConcat(t *testing.T) {
	n := mustParse(t, "abc")
	require.Equal(t, ast.KindAnd, n.Kind)
	require.Len(t, n.Children, 3, "each literal character is its own atom")
	var got string
	for _, c := range n.Children {
		require.Equal(t, ast.KindChars, c.Kind)
		got += string(c.Chars)
	}
	assert.Equal(t, "abc", got)
}

func TestParseAlternation(t *testing.T) {
	n := mustParse(t, "ab|cd")
	require.Equal(t, ast.KindOr, n.Kind)
	assert.Len(t, n.Children, 2)
}

func TestParseNamedGroup(t *testing.T) {
	n := mustParse(t, `(?P<word>\w+)`)
	require.False(t, n.Name.IsNone())
	assert.Equal(t, "word", n.Name.String())
	assert.Equal(t, 1, n.Limits.Min)
	assert.Equal(t, ast.Unbounded, n.Limits.Max)
}

func TestParseNonCapturingGroup(t *testing.T) {
	n := mustParse(t, "(?:ab)+")
	assert.True(t, n.Name.IsNone(), "(?:...) group should not carry a name")
}

func TestParseAnonymousGroupIsNamedAnonymous(t *testing.T) {
	n := mustParse(t, "(ab)")
	require.False(t, n.Name.IsNone(), "plain (...) group should be anonymously named")
	assert.Equal(t, "", n.Name.String())
}

func TestParseRepetitionOperators(t *testing.T) {
	cases := []struct {
		pattern  string
		min, max int
		lazy     bool
	}{
		{"a?", 0, 1, false},
		{"a*", 0, ast.Unbounded, false},
		{"a+", 1, ast.Unbounded, false},
		{"a{2}", 2, 2, false},
		{"a{2,}", 2, ast.Unbounded, false},
		{"a{2,5}", 2, 5, false},
		{"a+?", 1, ast.Unbounded, true},
	}
	for _, c := range cases {
		n := mustParse(t, c.pattern)
		assert.Equal(t, c.min, n.Limits.Min, "Parse(%q).Limits.Min", c.pattern)
		assert.Equal(t, c.max, n.Limits.Max, "Parse(%q).Limits.Max", c.pattern)
		assert.Equal(t, c.lazy, n.Limits.Lazy, "Parse(%q).Limits.Lazy", c.pattern)
	}
}

func TestParseBraceAsLiteralWhenInvalid(t *testing.T) {
	n := mustParse(t, "a{x}")
	require.Equal(t, ast.KindAnd, n.Kind)
	assert.Len(t, n.Children, 4, "a{x} should parse as four literal atoms")
}

func TestParseCharacterClass(t *testing.T) {
	n := mustParse(t, "[a-z0-9_]")
	require.Equal(t, ast.KindSet, n.Kind)
	assert.False(t, n.Negated)
	assert.True(t, n.MatchesRune('m'))
	assert.True(t, n.MatchesRune('5'))
	assert.True(t, n.MatchesRune('_'))
	assert.False(t, n.MatchesRune('Z'))
}

func TestParseNegatedSet(t *testing.T) {
	n := mustParse(t, "[^abc]")
	assert.True(t, n.Negated)
}

func TestParseSetTrailingHyphenIsLiteral(t *testing.T) {
	n := mustParse(t, "[a-]")
	require.Equal(t, ast.KindSet, n.Kind)
	assert.Empty(t, n.SetRanges, "trailing '-' before ']' should be literal")
	assert.True(t, n.MatchesRune('-'))
	assert.True(t, n.MatchesRune('a'))
}

func TestParseEscapes(t *testing.T) {
	cases := map[string]ast.SpecialKind{
		`\d`: ast.SpecialDigit,
		`\D`: ast.SpecialNotDigit,
		`\w`: ast.SpecialWord,
		`\W`: ast.SpecialNotWord,
		`\s`: ast.SpecialSpace,
		`\S`: ast.SpecialNotSpace,
	}
	for pattern, want := range cases {
		n := mustParse(t, pattern)
		assert.Equal(t, ast.KindSpecial, n.Kind, "Parse(%q)", pattern)
		assert.Equal(t, want, n.Special, "Parse(%q)", pattern)
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{"(", "[a-z", "*a", "a{3,1}", `\`}
	for _, pattern := range bad {
		_, err := New().Parse(pattern)
		if !assert.Error(t, err, "Parse(%q) should have failed", pattern) {
			continue
		}
		switch err.(type) {
		case *rexerr.ParseError, *rexerr.CompileError:
		default:
			t.Errorf("Parse(%q) returned unexpected error type %T", pattern, err)
		}
	}
}

func TestMaxDepthExceeded(t *testing.T) {
	pattern := ""
	for i := 0; i < 10; i++ {
		pattern = "(" + pattern + "a)"
	}
	_, err := New().WithMaxDepth(3).Parse(pattern)
	require.Error(t, err, "expected a CompileError for exceeding max depth")
	assert.IsType(t, &rexerr.CompileError{}, err)
}
