package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/urp-models/internal/models"
)

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved custom model",
		Long: `Remove a saved custom model by key.

The key is the one shown by 'urp-models list', e.g. custom-gpt-4o.
A bare model ID is accepted too. The API key stays in the secret store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()
			key := args[0]

			err := store.Remove(key)
			if errors.Is(err, models.ErrNotFound) && !strings.HasPrefix(key, models.KeyPrefix) {
				key = models.KeyFor(key)
				err = store.Remove(key)
			}
			if err != nil {
				return fmt.Errorf("remove %s: %w", args[0], err)
			}

			a.emitter().Success("Removed %s from configuration.", key)
			return nil
		},
	}
}
