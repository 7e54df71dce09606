package functional

import (
	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/rexerr"
)

// Definitions stores named sub-patterns declared by def(...) for
// splicing by use(...): initialised empty at the start of each compile,
// extended by def and by use(file), consulted by use(name) during
// parsing.
//
// A Definitions table is owned by the Parser that created it and is
// only shared across compiles when a caller opts in by passing the
// same table to New, rather than living behind process-wide globals.
type Definitions struct {
	nodes     map[string]*ast.Node
	order     []string
	expanding map[string]bool
}

// NewDefinitions returns an empty definition table.
func NewDefinitions() *Definitions {
	return &Definitions{
		nodes:     make(map[string]*ast.Node),
		expanding: make(map[string]bool),
	}
}

// Define registers name with the given node. Redefining an existing
// name is a parse error.
func (d *Definitions) Define(offset int, name string, node *ast.Node) error {
	if _, exists := d.nodes[name]; exists {
		return rexerr.NewParseError(offset, "definition %q already exists", name)
	}
	d.nodes[name] = node
	d.order = append(d.order, name)
	return nil
}

// Has reports whether name is already defined.
func (d *Definitions) Has(name string) bool {
	_, ok := d.nodes[name]
	return ok
}

// Names returns the defined names in declaration order.
func (d *Definitions) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Use returns a deep-cloned copy of name's subtree, so later
// annotations can decorate the splice site independently of the
// definition's other uses. Detects a definition that uses itself
// (directly or through another definition still being parsed) via the
// "currently expanding" set BeginDefine/EndDefine bracket around the
// body parse.
func (d *Definitions) Use(offset int, name string) (*ast.Node, error) {
	if d.expanding[name] {
		return nil, rexerr.NewParseError(offset, "recursive definition %q", name)
	}
	node, ok := d.nodes[name]
	if !ok {
		return nil, rexerr.NewParseError(offset, "unknown definition %q", name)
	}
	return node.Clone(), nil
}

// BeginDefine marks name as currently being parsed, so a use(name)
// encountered while parsing its own body is reported as a recursive
// definition instead of an unknown one. The caller must pair this with
// EndDefine once the body has been parsed, whether or not Define is
// ultimately called.
func (d *Definitions) BeginDefine(name string) { d.expanding[name] = true }

// EndDefine clears the in-progress marker BeginDefine set.
func (d *Definitions) EndDefine(name string) { delete(d.expanding, name) }

// Merge copies every definition from other into d, failing on the
// first name collision. Used by use(path) to fold in a loaded
// definitions file.
func (d *Definitions) Merge(offset int, other *Definitions) error {
	for _, name := range other.order {
		if err := d.Define(offset, name, other.nodes[name]); err != nil {
			return err
		}
	}
	return nil
}
