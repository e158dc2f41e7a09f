package main

import (
	"fmt"

	"github.com/hupe1980/vecsim"
	"github.com/spf13/cobra"
)

func NewBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List backend selectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, b := range vecsim.Backends() {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nunknown selectors fall back to %s\n", vecsim.KindCosine)
			return nil
		},
	}
}
