// Package defsource is the external collaborator that resolves
// use(path) in the functional dialect to a Definitions table loaded
// from disk. It implements functional.FileLoader.
//
// Two file forms are recognised. A plain-text file (any extension other
// than .yaml/.yml) is one or more def(name, body) forms, parsed
// directly. A .yaml/.yml file is instead a bulk-load sidecar: a mapping
// of arbitrary labels to paths of plain-text definitions files, each
// resolved relative to the sidecar's own directory and merged into one
// Definitions table. The raw def(...) body syntax itself is never YAML;
// only this indirection layer is.
package defsource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arkrow/rex/ast"
	"github.com/arkrow/rex/parser/functional"
)

// Loader reads plain-text definitions files, or .yaml/.yml bulk-load
// sidecars that reference several of them.
type Loader struct{}

// New returns a ready-to-use Loader.
func New() *Loader { return &Loader{} }

// Load reads path and returns the Definitions it declares, dispatching
// on its extension between the plain-text and YAML-sidecar forms.
func (l *Loader) Load(path string) (*functional.Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions file %q: %w", path, err)
	}
	if isSidecar(path) {
		return loadSidecar(path, data)
	}
	return parsePlain(path, data)
}

func isSidecar(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// parsePlain parses data as def(name, body)* plain-text. The top level
// must consist only of def(...) forms; any other content is a parse
// error, since use(path) only wants the declarations.
func parsePlain(path string, data []byte) (*functional.Definitions, error) {
	p := functional.New()
	node, err := p.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing definitions file %q: %w", path, err)
	}
	// A sequence of nothing but def(...) forms parses to the empty
	// placeholder And{Chars("")}; anything else means other content.
	if node.Kind != ast.KindAnd || len(node.Children) != 1 ||
		node.Children[0].Kind != ast.KindChars || len(node.Children[0].Chars) != 0 ||
		!node.Children[0].Name.IsNone() {
		return nil, fmt.Errorf("parsing definitions file %q: content other than def(...) forms", path)
	}
	return p.Definitions(), nil
}

// loadSidecar parses data as a YAML mapping of label -> definitions
// file path, loads each referenced file, and merges them into a single
// table. Labels only control load order (sorted, for determinism) and
// do not appear anywhere in the resulting Definitions.
func loadSidecar(path string, data []byte) (*functional.Definitions, error) {
	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing definitions sidecar %q: %w", path, err)
	}

	labels := make([]string, 0, len(entries))
	for label := range entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	dir := filepath.Dir(path)
	merged := functional.NewDefinitions()
	for _, label := range labels {
		ref := entries[label]
		full := ref
		if !filepath.IsAbs(ref) {
			full = filepath.Join(dir, ref)
		}
		fileData, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("sidecar %q: reading %q: %w", path, full, err)
		}
		defs, err := parsePlain(full, fileData)
		if err != nil {
			return nil, fmt.Errorf("sidecar %q: %w", path, err)
		}
		if err := merged.Merge(0, defs); err != nil {
			return nil, fmt.Errorf("sidecar %q: entry %q: %w", path, label, err)
		}
	}
	return merged, nil
}

var _ functional.FileLoader = (*Loader)(nil)
