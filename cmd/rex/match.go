package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkrow/rex"
	"github.com/arkrow/rex/internal/config"
	"github.com/arkrow/rex/internal/repl"
)

func newMatchCmd(cfg *config.Config) *cobra.Command {
	var (
		alternate bool
		global    bool
		traceN    int
		interact  bool
		exprFlag  string
		fileFlag  string
	)

	cmd := &cobra.Command{
		Use:   "match [flags] [pattern] [file]",
		Short: "match a pattern against a file or stdin",
		Long: "The pattern comes from the first positional argument, or from -e.\n" +
			"The text comes from the second positional argument, from -f, or from stdin.",
		Args: func(cmd *cobra.Command, args []string) error {
			if exprFlag != "" {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect := rex.Traditional
			if alternate {
				dialect = rex.Functional
			}

			if interact {
				return repl.Run(cmd.InOrStdin(), cmd.OutOrStdout(), dialect, traceN)
			}

			patternStr := exprFlag
			fileArgs := args
			if patternStr == "" {
				patternStr = args[0]
				fileArgs = args[1:]
			}

			text, err := readInput(fileFlag, fileArgs)
			if err != nil {
				return err
			}

			pattern, err := rex.Compile(patternStr, dialect, rex.WithTrace(traceN))
			if err != nil {
				return &usageError{err}
			}

			return runMatch(cmd.OutOrStdout(), pattern, text, global)
		},
	}

	cmd.Flags().BoolVarP(&alternate, "alt", "a", cfg.Dialect == "functional", "use the functional dialect")
	cmd.Flags().BoolVarP(&global, "global", "g", false, "find all non-overlapping matches")
	cmd.Flags().IntVarP(&traceN, "trace", "t", cfg.TraceLevel, "walker trace level (0 disables)")
	cmd.Flags().BoolVarP(&interact, "interactive", "i", false, "drop into the REPL instead of matching once")
	cmd.Flags().StringVarP(&exprFlag, "expr", "e", "", "pattern, instead of the first positional argument")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "text file, instead of the second positional argument or stdin")
	return cmd
}

// readInput resolves the text to search: fileFlag (-f) wins if given,
// then the first remaining positional argument, then stdin.
func readInput(fileFlag string, fileArgs []string) (string, error) {
	switch {
	case fileFlag != "":
		return readFile(fileFlag)
	case len(fileArgs) > 0:
		return readFile(fileArgs[0])
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func runMatch(w io.Writer, pattern *rex.Pattern, text string, global bool) error {
	if !global {
		report, ok := pattern.Search(text)
		if !ok {
			return &noMatchError{}
		}
		printReport(w, report, 0)
		return nil
	}

	found := false
	for report := range pattern.SearchAll(text) {
		found = true
		printReport(w, report, 0)
	}
	if !found {
		return &noMatchError{}
	}
	return nil
}
