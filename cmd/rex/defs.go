package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/arkrow/rex/internal/defsource"
)

func newDefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defs",
		Short: "manage definitions files used by the functional dialect",
	}
	cmd.AddCommand(newDefsLoadCmd())
	return cmd
}

func newDefsLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <path>",
		Short: "validate a definitions file and list the names it declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := defsource.New().Load(args[0])
			if err != nil {
				var pathErr *fs.PathError
				if errors.As(err, &pathErr) {
					return err
				}
				return &usageError{err}
			}
			return listDefNames(cmd.OutOrStdout(), defs.Names())
		},
	}
}

func listDefNames(w io.Writer, names []string) error {
	if len(names) == 0 {
		fmt.Fprintln(w, "(no definitions)")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}
