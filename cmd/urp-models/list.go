package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/urp-models/internal/render"
)

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved custom models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				fmt.Fprint(a.stdout, render.JSON(store.Raw(), !a.settings.NoColor && isTerminal(a.stdout)))
				return nil
			}

			r := render.New(isTerminal(a.stdout))
			fmt.Fprint(a.stdout, r.Models(store.Entries(), a.env))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the raw models file")
	return cmd
}
