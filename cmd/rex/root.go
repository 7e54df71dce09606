package main

import (
	"github.com/spf13/cobra"

	"github.com/arkrow/rex/internal/config"
)

func newRootCmd() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	root := &cobra.Command{
		Use:           "rex",
		Short:         "rex searches text with traditional or functional patterns",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMatchCmd(cfg))
	root.AddCommand(newDefsCmd())
	return root
}
