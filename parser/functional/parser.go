// Package functional implements the alternate "functional" front-end
// syntax — and(...), or(...), txt(...), def(...), use(...) — producing
// the same ast.Node tree as parser/traditional.
package functional

import (
	"strings"

	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/internal/reader"
	"github.com/arkrow/rex/rexerr"
)

// MaxDepth is the default implementation-defined nesting-depth ceiling.
const MaxDepth = 256

// FileLoader resolves use(path) to a Definitions table read from disk.
// internal/defsource implements this; it is injected rather than
// imported directly so this package stays free of file-system concerns.
type FileLoader interface {
	Load(path string) (*Definitions, error)
}

// Parser holds per-compile state for one Parse call.
type Parser struct {
	r        *reader.Reader
	defs     *Definitions
	loader   FileLoader
	maxDepth int
	depth    int
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithDefinitions shares an existing Definitions table across compiles.
// Without this option, New starts from an empty table.
func WithDefinitions(defs *Definitions) Option {
	return func(p *Parser) { p.defs = defs }
}

// WithFileLoader installs the collaborator that resolves use(path) to a
// file's definitions.
func WithFileLoader(l FileLoader) Option {
	return func(p *Parser) { p.loader = l }
}

// WithMaxDepth overrides the nesting-depth ceiling.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}

// New returns a Parser with an empty Definitions table unless
// WithDefinitions is given.
func New(opts ...Option) *Parser {
	p := &Parser{defs: NewDefinitions(), maxDepth: MaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Definitions returns the table this Parser consults and extends.
func (p *Parser) Definitions() *Definitions { return p.defs }

const reserved = "()<>+*?{["

// Parse compiles pattern into an ast.Node tree.
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
	units := p.parseSequence(false)
	p.r.SkipSpace()
	if !p.r.Done() {
		p.throwf("unexpected trailing input")
	}
	return sequenceToNode(units), nil
}

func sequenceToNode(units []*ast.Node) *ast.Node {
	switch len(units) {
	case 0:
		return ast.NewAnd([]*ast.Node{ast.NewChars(nil)})
	case 1:
		return units[0]
	default:
		return ast.NewAnd(units)
	}
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

// parseSequence reads whitespace-separated units until EOF, or until a
// closing ')' when stopAtParen is set (the caller consumes the ')').
// def(...) units emit no node and are omitted from the result.
func (p *Parser) parseSequence(stopAtParen bool) []*ast.Node {
	var units []*ast.Node
	for {
		p.r.SkipSpace()
		ch, ok := p.r.Peek()
		if !ok {
			break
		}
		if stopAtParen && ch == ')' {
			break
		}
		u := p.parseUnit()
		if u != nil {
			units = append(units, u)
		}
	}
	return units
}

// parseUnit parses one primary element plus its trailing annotations.
func (p *Parser) parseUnit() *ast.Node {
	p.enter()
	defer p.leave()

	ch, _ := p.r.Peek()
	var node *ast.Node
	switch {
	case ch == '"' || ch == '\'':
		node = ast.NewChars([]rune(p.parseQuoted(ch)))
	case isIdentStart(ch):
		node = p.parseCall()
	default:
		word := p.parseBareWord()
		if word == "" {
			p.throwf("unexpected '%c'", ch)
		}
		node = ast.NewChars([]rune(word))
	}

	return p.parseAnnotations(node)
}

func isIdentStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch rune) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func (p *Parser) parseBareWord() string {
	var b strings.Builder
	for {
		ch, ok := p.r.Peek()
		if !ok || isSpaceRune(ch) || strings.ContainsRune(reserved, ch) {
			break
		}
		p.r.Next()
		b.WriteRune(ch)
	}
	return b.String()
}

func isSpaceRune(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// parseIdentifier reads a keyword or def/use name: letters, digits,
// underscore.
func (p *Parser) parseIdentifier() string {
	var b strings.Builder
	for {
		ch, ok := p.r.Peek()
		if !ok || !isIdentChar(ch) {
			break
		}
		p.r.Next()
		b.WriteRune(ch)
	}
	return b.String()
}

func (p *Parser) parseQuoted(quote rune) string {
	p.r.Next() // opening quote
	var b strings.Builder
	for {
		ch, ok := p.r.Next()
		if !ok {
			p.throwf("unterminated quoted string")
		}
		if ch == '\\' {
			esc, ok := p.r.Next()
			if !ok {
				p.throwf("trailing '\\' in quoted string")
			}
			b.WriteRune(esc)
			continue
		}
		if ch == quote {
			break
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// parseCall dispatches a bare identifier immediately followed by '(' to
// one of the five built-in functions.
func (p *Parser) parseCall() *ast.Node {
	start := p.r.Pos()
	name := p.parseIdentifier()
	if ch, ok := p.r.Peek(); !ok || ch != '(' {
		// An identifier not followed by '(' is just a bare word.
		rest := p.parseBareWord()
		return ast.NewChars([]rune(name + rest))
	}
	p.r.Next() // consume '('

	switch name {
	case "and":
		children := p.parseSequence(true)
		p.expectRparen()
		if len(children) == 0 {
			return ast.NewChars(nil)
		}
		if len(children) == 1 {
			return children[0]
		}
		return ast.NewAnd(children)
	case "or":
		children := p.parseSequence(true)
		p.expectRparen()
		if len(children) < 2 {
			p.throwf("or(...) requires at least two alternatives")
		}
		return ast.NewOr(children)
	case "txt":
		body := p.parseTxtBody()
		p.expectRparen()
		return ast.NewChars([]rune(body))
	case "def":
		return p.parseDef(start)
	case "use":
		return p.parseUse(start)
	default:
		p.throwf("unknown function %q", name)
		return nil
	}
}

func (p *Parser) expectRparen() {
	p.r.SkipSpace()
	if !p.r.Accept(')') {
		p.throwf("expected ')'")
	}
}

// parseTxtBody reads raw text up to the matching ')', honouring '\)'
// and '\\' as escapes.
func (p *Parser) parseTxtBody() string {
	var b strings.Builder
	for {
		ch, ok := p.r.Peek()
		if !ok {
			p.throwf("unterminated txt(...)")
		}
		if ch == ')' {
			break
		}
		p.r.Next()
		if ch == '\\' {
			esc, ok := p.r.Next()
			if !ok {
				p.throwf("trailing '\\' in txt(...)")
			}
			b.WriteRune(esc)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// parseDef parses def(name, body) and registers it in the Definitions
// table. It yields no node.
func (p *Parser) parseDef(start int) *ast.Node {
	p.r.SkipSpace()
	name := p.parseIdentifier()
	if name == "" {
		p.throwf("def(...) requires a name")
	}
	p.r.SkipSpace()
	if !p.r.Accept(',') {
		p.throwf("expected ',' after def name")
	}
	p.r.SkipSpace()

	p.defs.BeginDefine(name)
	body := func() *ast.Node {
		defer p.defs.EndDefine(name)
		return p.parseUnit()
	}()

	p.expectRparen()

	if err := p.defs.Define(start, name, body); err != nil {
		panic(err)
	}
	return nil
}

// parseUse parses use(name) and splices the definition's subtree. When
// name is neither defined nor being defined, it is taken as a path: the
// file's definitions are merged into the table, and the definition of
// that same name is spliced if the file declares one; otherwise use
// emits no node, like def.
func (p *Parser) parseUse(start int) *ast.Node {
	p.r.SkipSpace()
	var arg string
	if ch, ok := p.r.Peek(); ok && (ch == '"' || ch == '\'') {
		arg = p.parseQuoted(ch)
	} else {
		arg = p.parseBareWord()
	}
	p.expectRparen()
	if arg == "" {
		p.throwf("use(...) requires a name or path")
	}

	if p.defs.Has(arg) || p.defs.expanding[arg] {
		node, err := p.defs.Use(start, arg)
		if err != nil {
			panic(err)
		}
		return node
	}

	if p.loader == nil {
		panic(rexerr.NewParseError(start, "unknown definition %q", arg))
	}
	loaded, err := p.loader.Load(arg)
	if err != nil {
		panic(rexerr.NewParseError(start, "loading definitions from %q: %s", arg, err))
	}
	if err := p.defs.Merge(start, loaded); err != nil {
		panic(err)
	}
	if !p.defs.Has(arg) {
		return nil
	}
	node, err := p.defs.Use(start, arg)
	if err != nil {
		panic(err)
	}
	return node
}

// parseAnnotations consumes trailing repetition/name annotations in the
// order they appear. Order matters: a repetition applied before a name
// annotation produces one named span over every repetition; a name
// applied before a repetition produces one repeated, separately-named
// sibling per repetition (see applyRepetition).
func (p *Parser) parseAnnotations(node *ast.Node) *ast.Node {
	for {
		ch, ok := p.r.Peek()
		if !ok {
			return node
		}
		switch ch {
		case '<':
			node = p.applyNameAnnotation(node)
		case '?', '*', '+', '{':
			lim, matched := p.tryParseRepetitionOp()
			if !matched {
				return node
			}
			node = applyRepetition(node, lim)
		default:
			return node
		}
	}
}

func (p *Parser) applyNameAnnotation(node *ast.Node) *ast.Node {
	p.r.Next() // '<'
	start := p.r.Pos()
	for {
		ch, ok := p.r.Next()
		if !ok {
			p.throwf("unterminated name annotation")
		}
		if ch == '>' {
			break
		}
	}
	s := p.r.Slice(start, p.r.Pos()-1)
	name := ast.NameAnonymous()
	if s != "" {
		name = ast.NameSome(s)
	}
	node.Name = name
	return node
}

// applyRepetition applies lim to node. If node already carries a name
// (a '<name>' annotation already attached), the repetition must wrap
// node in a fresh unnamed And so each repetition of the already-named
// node is reported as its own sibling (X<n>+ semantics) rather than
// being folded into node's own Limits, which would report one span
// covering every repetition (X+<n> semantics).
func applyRepetition(node *ast.Node, lim ast.Limits) *ast.Node {
	if node.Name.IsNone() {
		node.Limits = lim
		// If a name annotation follows, it lands on this same node
		// (the "X+<name>" order), so the eventual report must span
		// every repetition rather than just the last.
		node.SpanAllReps = true
		return node
	}
	wrapper := ast.NewAnd([]*ast.Node{node})
	wrapper.Limits = lim
	wrapper.ReportEachRep = true
	return wrapper
}

// tryParseRepetitionOp parses '?', '*', '+', or '{m,n}' with an
// optional trailing '?' for laziness. It returns false, consuming
// nothing, only when the next rune starts no repetition; '{' is always
// reserved in this dialect, so a malformed '{...}' is a parse error.
func (p *Parser) tryParseRepetitionOp() (ast.Limits, bool) {
	ch, _ := p.r.Peek()
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
		p.r.Next()
		min, ok := p.readDigits()
		if !ok {
			p.throwf("expected digits after '{'")
		}
		if next, _ := p.r.Peek(); next == '}' {
			p.r.Next()
			lim = ast.Limits{Min: min, Max: min}
			break
		}
		if !p.r.Accept(',') {
			p.throwf("expected ',' or '}' in repetition")
		}
		max, hasMax := p.readDigits()
		if !p.r.Accept('}') {
			p.throwf("expected '}' to close repetition")
		}
		if !hasMax {
			max = ast.Unbounded
		}
		if max != ast.Unbounded && max < min {
			p.throwf("repetition range %d > %d", min, max)
		}
		lim = ast.Limits{Min: min, Max: max}
	default:
		return ast.Limits{}, false
	}

	if lazy, _ := p.r.Peek(); lazy == '?' {
		p.r.Next()
		lim.Lazy = true
	}
	return lim, true
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
