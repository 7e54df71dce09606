// Package repl implements the interactive loop the CLI's "match -i"
// flag drops into. It is a pure consumer of the rex library surface
// (Compile, Pattern.Search) — it never reuses the engine to parse its
// own command language, keeping the library itself free of any
// REPL-specific state.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/arkrow/rex"
)

// Run starts the loop: the first line entered is treated as the text
// buffer to search, and every subsequent line is compiled as a pattern
// and matched against that buffer. ":text <new buffer>" replaces it,
// ":quit" exits.
func Run(stdin io.Reader, stdout io.Writer, dialect rex.Dialect, traceLevel int) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rex> ",
		Stdin:           io.NopCloser(stdin),
		Stdout:          stdout,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("repl: starting readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(stdout, "enter the text to search, then patterns to match against it (:quit to exit)")
	text, err := rl.Readline()
	if err != nil {
		return nil
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == ":quit":
			return nil
		case strings.HasPrefix(line, ":text "):
			text = strings.TrimPrefix(line, ":text ")
			continue
		}

		pattern, err := rex.Compile(line, dialect, rex.WithTrace(traceLevel))
		if err != nil {
			fmt.Fprintln(stdout, err)
			continue
		}
		report, ok := pattern.Search(text)
		if !ok {
			fmt.Fprintln(stdout, "no match")
			continue
		}
		start, end := report.Range()
		fmt.Fprintf(stdout, "%q [%d,%d)\n", report.Text(), start, end)
		for _, child := range report.Children() {
			cs, ce := child.Range()
			fmt.Fprintf(stdout, "  %s: %q [%d,%d)\n", child.Name(), child.Text(), cs, ce)
		}
	}
}
