package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/arkrow/rex/report"
)

// printReport renders a Report tree as indented "name: text [start,end)"
// lines, depth-first. The root match prints under the name "$0".
func printReport(w io.Writer, r *report.Report, depth int) {
	indent := strings.Repeat("  ", depth)
	name := r.Name()
	if depth == 0 && name == "" {
		name = "$0"
	}
	start, end := r.Range()
	fmt.Fprintf(w, "%s%s: %q [%d,%d)\n", indent, name, r.Text(), start, end)
	for _, child := range r.Children() {
		printReport(w, child, depth+1)
	}
}
