package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/urp-models/internal/config"
	"github.com/joss/urp-models/internal/flow"
	"github.com/joss/urp-models/internal/prompt"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a custom OpenAI-compatible model",
		Long: `Open the add-model menu and register a custom endpoint.

Prompts for the API base URL, the model ID, the environment variable
holding the API key, and an optional context length. If the variable
is not set, its value is asked for and saved to the secret store.

Exits with status 1 when the flow is cancelled.`,
		Args: cobra.NoArgs,
		RunE: a.runAdd,
	}
}

func (a *app) runAdd(cmd *cobra.Command, args []string) error {
	f := flow.New(
		a.menu(),
		prompt.New(a.stdin, a.stdout),
		a.store(),
		config.NewSecretStore(a.settings.EnvFile),
		a.env,
		a.emitter(),
	)

	out, err := f.Run(a.ctx)
	if err != nil {
		return err
	}
	if !out.Saved {
		return errNotSaved
	}
	return nil
}
