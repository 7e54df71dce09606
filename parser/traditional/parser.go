// Package traditional implements the classic POSIX-ish front-end
// syntax: `()`, `|`, `[...]`, `*+?{}`. It is a hand-written
// recursive-descent parser over internal/reader, producing the same
// ast.Node tree the functional parser produces.
package traditional

import (
	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/internal/reader"
	"github.com/arkrow/rex/rexerr"
)

// MaxDepth is the default implementation-defined nesting-depth ceiling;
// exceeding it raises a CompileError rather than overflowing the Go
// call stack on a pathological pattern.
const MaxDepth = 256

// Parser holds per-compile state for one Parse call. It is not safe to
// reuse concurrently; callers needing concurrent compiles should use a
// new Parser per goroutine.
type Parser struct {
	r        *reader.Reader
	maxDepth int
	depth    int
}

// New returns a Parser with the default nesting-depth ceiling.
func New() *Parser { return &Parser{maxDepth: MaxDepth} }

// WithMaxDepth overrides the nesting-depth ceiling.
func (p *Parser) WithMaxDepth(n int) *Parser { p.maxDepth = n; return p }

// Parse compiles pattern into an ast.Node tree. Recovers internal
// panics raised via throw/throwf into a returned *rexerr.ParseError or
// *rexerr.CompileError, so callers never see a panic from a malformed
// pattern.
func (p *Parser) Parse(pattern string) (node *ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *rexerr.ParseError:
				err = e
			case *rexerr.CompileError:
				err = e
			default:
				panic(r)
			}
		}
	}()

	p.r = reader.New(pattern)
	p.depth = 0
	if pattern == "" {
		return ast.NewAnd([]*ast.Node{ast.NewChars(nil)}), nil
	}
	n := p.parseAlternation()
	if !p.r.Done() {
		p.throwf("unexpected '%c'", mustPeek(p.r))
	}
	return n, nil
}

func mustPeek(r *reader.Reader) rune {
	ch, ok := r.Peek()
	if !ok {
		return 0
	}
	return ch
}

func (p *Parser) throwf(format string, args ...any) {
	panic(rexerr.NewParseError(p.r.Pos(), format, args...))
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.maxDepth {
		panic(rexerr.NewCompileError("nesting depth exceeds %d", p.maxDepth))
	}
}

func (p *Parser) leave() { p.depth-- }

// parseAlternation implements or-expr := and-expr ('|' and-expr)*.
//
// A '|' at this level hoists whatever And has been accumulated into the
// first alternative of a new Or; subsequent '|'s extend the same Or.
func (p *Parser) parseAlternation() *ast.Node {
	p.enter()
	defer p.leave()

	alts := []*ast.Node{p.parseConcat()}
	for {
		ch, ok := p.r.Peek()
		if !ok || ch != '|' {
			break
		}
		p.r.Next()
		alts = append(alts, p.parseConcat())
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return ast.NewOr(alts)
}

// parseConcat implements and-expr := atom*.
func (p *Parser) parseConcat() *ast.Node {
	var children []*ast.Node
	for {
		ch, ok := p.r.Peek()
		if !ok || ch == '|' || ch == ')' {
			break
		}
		children = append(children, p.parseAtom())
	}
	if len(children) == 0 {
		return ast.NewChars(nil)
	}
	if len(children) == 1 {
		return children[0]
	}
	return ast.NewAnd(children)
}

// parseAtom parses one group/set/special/char atom, then an optional
// trailing repetition operator that binds only to that atom.
func (p *Parser) parseAtom() *ast.Node {
	start := p.r.Pos()
	ch, _ := p.r.Next()

	var n *ast.Node
	switch ch {
	case '(':
		n = p.parseGroup(start)
	case '[':
		n = p.parseSet(start)
	case '.':
		n = ast.NewSpecial(ast.SpecialAny)
	case '^':
		n = ast.NewSpecial(ast.SpecialStart)
	case '$':
		n = ast.NewSpecial(ast.SpecialEnd)
	case '\\':
		n = p.parseEscape(start)
	case '*', '+', '?':
		p.throwf("nothing to repeat")
		return nil
	case '{':
		// A '{' that doesn't open a valid repetition is a literal.
		n = ast.NewChars([]rune{ch})
	default:
		n = ast.NewChars([]rune{ch})
	}

	return p.parseRepetition(n)
}

// parseRepetition consumes a trailing '?', '*', '+', or '{m,n}', with an
// optional '?' making it lazy, and applies it to n's Limits.
func (p *Parser) parseRepetition(n *ast.Node) *ast.Node {
	ch, ok := p.r.Peek()
	if !ok {
		return n
	}

	var lim ast.Limits
	switch ch {
	case '?':
		p.r.Next()
		lim = ast.Limits{Min: 0, Max: 1}
	case '*':
		p.r.Next()
		lim = ast.Limits{Min: 0, Max: ast.Unbounded}
	case '+':
		p.r.Next()
		lim = ast.Limits{Min: 1, Max: ast.Unbounded}
	case '{':
		save := *p.r
		p.r.Next()
		min, max, ok2 := p.tryParseBraceRange()
		if !ok2 {
			*p.r = save
			return n
		}
		if max != ast.Unbounded && max < min {
			p.throwf("repetition range %d > %d", min, max)
		}
		lim = ast.Limits{Min: min, Max: max}
	default:
		return n
	}

	if lazy, _ := p.r.Peek(); lazy == '?' {
		p.r.Next()
		lim.Lazy = true
	}
	n.Limits = lim
	return n
}

// tryParseBraceRange parses the interior of "{m}", "{m,}", "{m,n}" after
// the opening '{' has been consumed. Returns ok=false (without
// consuming) if what follows isn't a valid repetition body, so the '{'
// is treated as a literal character instead.
func (p *Parser) tryParseBraceRange() (min, max int, ok bool) {
	min, ok = p.readDigits()
	if !ok {
		return 0, 0, false
	}
	ch, has := p.r.Peek()
	if has && ch == '}' {
		p.r.Next()
		return min, min, true
	}
	if !has || ch != ',' {
		return 0, 0, false
	}
	p.r.Next()
	max, hasMax := p.readDigits()
	ch, has = p.r.Peek()
	if !has || ch != '}' {
		return 0, 0, false
	}
	p.r.Next()
	if !hasMax {
		return min, ast.Unbounded, true
	}
	return min, max, true
}

func (p *Parser) readDigits() (int, bool) {
	n := 0
	any := false
	for {
		ch, ok := p.r.Peek()
		if !ok || ch < '0' || ch > '9' {
			break
		}
		p.r.Next()
		n = n*10 + int(ch-'0')
		any = true
	}
	return n, any
}

// parseGroup parses the interior of '(' ... ')': plain capture,
// non-capturing `(?:...)`, or named `(?P<name>...)`.
func (p *Parser) parseGroup(start int) *ast.Node {
	name := ast.NameAnonymous()

	if ch, ok := p.r.Peek(); ok && ch == '?' {
		p.r.Next()
		switch next, _ := p.r.Peek(); next {
		case ':':
			p.r.Next()
			name = ast.NameNone
		case 'P':
			p.r.Next()
			if !p.r.Accept('<') {
				p.throwf("expected '<' after '(?P'")
			}
			nameStart := p.r.Pos()
			for {
				ch, ok := p.r.Next()
				if !ok {
					p.throwf("unterminated group name")
				}
				if ch == '>' {
					break
				}
			}
			name = ast.NameSome(p.r.Slice(nameStart, p.r.Pos()-1))
		default:
			p.throwf("unsupported group syntax '(?%c'", next)
		}
	}

	var body *ast.Node
	if ch, ok := p.r.Peek(); ok && ch == ')' {
		body = ast.NewChars(nil)
	} else {
		body = p.parseAlternation()
	}

	if !p.r.Accept(')') {
		p.throwf("unmatched '('")
	}

	body.Name = name
	return body
}

// parseSet parses the interior of '[' ... ']'.
func (p *Parser) parseSet(start int) *ast.Node {
	negated := false
	if ch, ok := p.r.Peek(); ok && ch == '^' {
		p.r.Next()
		negated = true
	}

	var chars []rune
	var ranges []ast.RuneRange
	first := true
	for {
		ch, ok := p.r.Peek()
		if !ok {
			p.throwf("unterminated '['")
		}
		if ch == ']' && !first {
			p.r.Next()
			break
		}
		first = false

		lo := p.readSetItem()
		if next, ok := p.r.Peek(); ok && next == '-' {
			// Peek past '-' to decide range vs literal '-' before ']'.
			if after, ok2 := p.r.PeekAt(1); ok2 && after != ']' {
				p.r.Next()
				hi := p.readSetItem()
				if hi < lo {
					p.throwf("invalid character range (%c-%c)", lo, hi)
				}
				ranges = append(ranges, ast.RuneRange{Lo: lo, Hi: hi})
				continue
			}
		}
		chars = append(chars, lo)
	}

	n := ast.NewSet(negated, chars, ranges)
	return n
}

func (p *Parser) readSetItem() rune {
	ch, ok := p.r.Next()
	if !ok {
		p.throwf("unterminated '['")
	}
	if ch == '\\' {
		esc, ok := p.r.Next()
		if !ok {
			p.throwf("trailing '\\' in character class")
		}
		return esc
	}
	return ch
}

// parseEscape handles the character right after a consumed '\\'.
func (p *Parser) parseEscape(start int) *ast.Node {
	ch, ok := p.r.Next()
	if !ok {
		p.throwf("trailing '\\' in pattern")
	}
	switch ch {
	case 'd':
		return ast.NewSpecial(ast.SpecialDigit)
	case 'D':
		return ast.NewSpecial(ast.SpecialNotDigit)
	case 'w':
		return ast.NewSpecial(ast.SpecialWord)
	case 'W':
		return ast.NewSpecial(ast.SpecialNotWord)
	case 's':
		return ast.NewSpecial(ast.SpecialSpace)
	case 'S':
		return ast.NewSpecial(ast.SpecialNotSpace)
	case 'u':
		return ast.NewSpecial(ast.SpecialUpper)
	case 'l':
		return ast.NewSpecial(ast.SpecialLower)
	default:
		// Any other escaped character, including metacharacters and
		// numeric escapes, is a literal per the input reader's
		// "backslash consumes the next character as a literal" rule.
		return ast.NewChars([]rune{ch})
	}
}
