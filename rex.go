// Package rex is the module's public facade: compile a pattern in
// either front-end dialect into a shared ast.Node tree, then search
// text against it and recover structured Reports of every named
// capture. The heavy lifting lives in ast, parser/traditional,
// parser/functional, walker, and report; this package only wires them
// together behind the API a caller actually wants to hold onto.
package rex

import (
	"context"
	"fmt"
	"iter"

	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/internal/defsource"
	"github.com/arkrow/rex/parser/functional"
	"github.com/arkrow/rex/parser/traditional"
	"github.com/arkrow/rex/report"
	"github.com/arkrow/rex/rexerr"
	"github.com/arkrow/rex/trace"
	"github.com/arkrow/rex/walker"
)

// Dialect selects which front-end syntax Compile parses pattern with.
// Both dialects produce the same ast.Node tree and are matched by the
// same walker.
type Dialect byte

const (
	// Traditional selects the POSIX-ish syntax: literals, |, (), [],
	// ?*+{m,n}, \d\w\s and friends.
	Traditional Dialect = iota
	// Functional selects the and()/or()/txt()/def()/use() syntax.
	Functional
)

func (d Dialect) String() string {
	switch d {
	case Traditional:
		return "traditional"
	case Functional:
		return "functional"
	default:
		return "unknown"
	}
}

// Pattern is a compiled, immutable ast.Node tree ready to search text.
// A Pattern is safe for concurrent use by multiple goroutines: Search
// and SearchAll allocate a fresh walker engine per call and never
// mutate the tree.
type Pattern struct {
	root    *ast.Node
	dialect Dialect
	tracer  *trace.Tracer
}

// Option configures Compile.
type Option func(*compileConfig)

type compileConfig struct {
	maxDepth   int
	defs       *functional.Definitions
	loader     functional.FileLoader
	traceLevel int
}

// WithMaxDepth overrides the implementation-defined nesting-depth
// ceiling both parsers enforce while descending a pattern.
func WithMaxDepth(n int) Option {
	return func(c *compileConfig) { c.maxDepth = n }
}

// WithDefinitions seeds the functional dialect's definition table,
// letting callers share def()s across several Compile calls. Ignored
// for Traditional.
func WithDefinitions(defs *functional.Definitions) Option {
	return func(c *compileConfig) { c.defs = defs }
}

// WithFileLoader installs the collaborator the functional dialect uses
// to resolve use("path/to/file"). Without it, Compile uses
// internal/defsource's filesystem loader.
func WithFileLoader(l functional.FileLoader) Option {
	return func(c *compileConfig) { c.loader = l }
}

// WithTrace turns on the walker's diagnostic trace at the given level
// (0 disables it). The trace is emitted by the *Tracer passed to
// Search/SearchAll internally; use Pattern.SetTraceLevel to change it
// after Compile.
func WithTrace(level int) Option {
	return func(c *compileConfig) { c.traceLevel = level }
}

// Compile parses pattern using the chosen dialect and returns a ready
// Pattern. A malformed pattern returns a *rexerr.ParseError or
// *rexerr.CompileError wrapped with context.
func Compile(pattern string, dialect Dialect, opts ...Option) (*Pattern, error) {
	cfg := &compileConfig{maxDepth: 0}
	for _, opt := range opts {
		opt(cfg)
	}

	var root *ast.Node
	var err error
	switch dialect {
	case Traditional:
		p := traditional.New()
		if cfg.maxDepth > 0 {
			p.WithMaxDepth(cfg.maxDepth)
		}
		root, err = p.Parse(pattern)
	case Functional:
		var fopts []functional.Option
		if cfg.maxDepth > 0 {
			fopts = append(fopts, functional.WithMaxDepth(cfg.maxDepth))
		}
		if cfg.defs != nil {
			fopts = append(fopts, functional.WithDefinitions(cfg.defs))
		}
		if cfg.loader != nil {
			fopts = append(fopts, functional.WithFileLoader(cfg.loader))
		} else {
			fopts = append(fopts, functional.WithFileLoader(defsource.New()))
		}
		p := functional.New(fopts...)
		root, err = p.Parse(pattern)
	default:
		return nil, rexerr.NewCompileError("unknown dialect %v", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("rex: compile %q: %w", pattern, err)
	}

	return &Pattern{root: root, dialect: dialect, tracer: trace.New(cfg.traceLevel)}, nil
}

// SetTraceLevel replaces the Pattern's tracer. 0 disables tracing.
func (p *Pattern) SetTraceLevel(level int) {
	p.tracer = trace.New(level)
}

// Dialect reports which front-end syntax produced this Pattern.
func (p *Pattern) Dialect() Dialect { return p.dialect }

// Search finds the leftmost match anywhere in text and builds its
// Report. The boolean result is false if no match exists anywhere in
// text.
func (p *Pattern) Search(text string) (*report.Report, bool) {
	runes := []rune(text)
	res, ok := walker.Search(p.root, runes, 0, p.tracer)
	if !ok {
		return nil, false
	}
	return report.Build(res, runes), true
}

// SearchAll lazily yields every non-overlapping leftmost-first match in
// text, left to right, each call to Search resuming at or after the
// previous match's end (advancing by one character on a zero-width
// match to guarantee progress).
func (p *Pattern) SearchAll(text string) iter.Seq[*report.Report] {
	runes := []rune(text)
	return func(yield func(*report.Report) bool) {
		pos := 0
		for pos <= len(runes) {
			res, ok := walker.Search(p.root, runes, pos, p.tracer)
			if !ok {
				return
			}
			if !yield(report.Build(res, runes)) {
				return
			}
			pos = walker.NextFrom(res.Start, res.End)
		}
	}
}

// SearchAllContext is SearchAll with early cancellation: the iteration
// stops (without yielding a further Report) once ctx is done. This is
// additive over the dialect-neutral external interface, useful for
// bounding a search over very large inputs from a caller that already
// has a context in hand.
func (p *Pattern) SearchAllContext(ctx context.Context, text string) iter.Seq[*report.Report] {
	runes := []rune(text)
	return func(yield func(*report.Report) bool) {
		pos := 0
		for pos <= len(runes) {
			select {
			case <-ctx.Done():
				return
			default:
			}
			res, ok := walker.Search(p.root, runes, pos, p.tracer)
			if !ok {
				return
			}
			if !yield(report.Build(res, runes)) {
				return
			}
			pos = walker.NextFrom(res.Start, res.End)
		}
	}
}
