// Package main provides the urp-models CLI entrypoint.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joss/urp-models/internal/config"
	"github.com/joss/urp-models/internal/flow"
	"github.com/joss/urp-models/internal/logging"
	"github.com/joss/urp-models/internal/models"
	"github.com/joss/urp-models/internal/render"
	"github.com/joss/urp-models/internal/tui"
)

var version = "0.1.0"

// app holds what the commands share after startup.
type app struct {
	v        *viper.Viper
	settings *config.Settings
	env      config.Environ

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// newMenu builds the display phase; replaced in tests.
	newMenu func() flow.Menu

	ctx     context.Context
	stop    context.CancelFunc
	logSink io.Closer
}

func newApp() *app {
	return &app{
		v:      config.NewViper(),
		env:    config.ProcessEnviron{},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		ctx:    context.Background(),
	}
}

func main() {
	os.Exit(run(newApp(), os.Args[1:]))
}

func run(a *app, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := a.recovery().WrapError(root.Execute)
	a.close()
	noColor := a.settings == nil || a.settings.NoColor || !isTerminal(a.stderr)
	return exitCode(render.NewEmitter(a.stderr, noColor), err)
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "urp-models",
		Short: "Register custom OpenAI-compatible model endpoints",
		Long: `urp-models: manage custom OpenAI-compatible models.

Usage modes:
  urp-models              Open the add-model menu
  urp-models add          Same as above
  urp-models list         Show saved models
  urp-models remove <key> Delete a saved model

Saved models live in ~/.urp-go/extra_models.json; API keys entered
during the flow are stored in ~/.urp-go/.env.`,
		Version:           version,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runAdd,
	}

	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyModelsFile, "", "Custom models file (default ~/.urp-go/extra_models.json)")
	pf.String(config.KeyEnvFile, "", "Secret store file (default ~/.urp-go/.env)")
	pf.String(config.KeyLogFile, "", "Log file (default ~/.urp-go/logs/urp-models.log)")
	pf.Bool(config.KeyNoColor, false, "Disable colored output")
	pf.BoolP(config.KeyVerbose, "v", false, "Log debug events")

	for _, key := range []string{
		config.KeyModelsFile,
		config.KeyEnvFile,
		config.KeyLogFile,
		config.KeyNoColor,
		config.KeyVerbose,
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(key))
	}

	rootCmd.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.removeCmd(),
	)
	return rootCmd
}

// setup resolves settings, moves logging off the terminal and loads
// stored secrets into the environment.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.settings = config.LoadSettings(a.v)

	if a.settings.Verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	if a.settings.LogFile != "" {
		sink, err := logging.OpenFile(a.settings.LogFile)
		if err != nil {
			// logs stay on stderr
			logging.New("cli").Warn("log_file_unavailable", map[string]interface{}{
				"path": a.settings.LogFile,
			}, err)
		} else {
			a.logSink = sink
		}
	}

	applied, err := config.NewSecretStore(a.settings.EnvFile).Apply(a.env)
	if err != nil {
		logging.New("cli").Warn("secrets_not_loaded", map[string]interface{}{
			"path": a.settings.EnvFile,
		}, err)
	} else {
		logging.New("cli").Debug("secrets_loaded", map[string]interface{}{
			"count": len(applied),
		})
	}

	ctx := logging.WithRunID(cmd.Context(), "")
	a.ctx, a.stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return nil
}

func (a *app) close() {
	if a.stop != nil {
		a.stop()
	}
	if a.logSink != nil {
		a.logSink.Close()
	}
}

func (a *app) recovery() *logging.RecoveryHandler {
	h := logging.NewRecoveryHandler("cli")
	h.OnPanic = func(interface{}, string) {
		tui.SetAwaitingInput(false)
	}
	return h
}

func (a *app) emitter() *render.Emitter {
	return render.NewEmitter(a.stdout, a.settings.NoColor)
}

func (a *app) store() *models.Store {
	return models.NewStore(a.settings.ModelsFile)
}

func (a *app) menu() flow.Menu {
	if a.newMenu != nil {
		return a.newMenu()
	}
	return tui.NewMenu(
		tui.WithInput(a.stdin),
		tui.WithOutput(a.stdout),
	)
}
