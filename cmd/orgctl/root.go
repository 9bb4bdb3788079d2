package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgctl",
		Short: "Organization hierarchy administration tools",
	}
	cmd.AddCommand(newTreeCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newDataSourcesCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
