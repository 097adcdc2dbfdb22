// Package flow runs the add-model flow: the provider menu followed by the
// prompts that build a custom model entry and save it.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/joss/urp-models/internal/config"
	"github.com/joss/urp-models/internal/logging"
	"github.com/joss/urp-models/internal/models"
	"github.com/joss/urp-models/internal/prompt"
	"github.com/joss/urp-models/internal/render"
	"github.com/joss/urp-models/internal/tui"
)

// Prompt labels, in the order they are asked.
const (
	labelBaseURL       = "  API Base URL (e.g., https://api.openai.com/v1): "
	labelModelID       = "  Model ID (e.g., gpt-4o): "
	labelEnvVar        = "  Environment Variable for API Key (e.g., OPENAI_API_KEY): "
	labelContextLength = "  Context Length [128000]: "
	labelSecretFormat  = "  Enter value for %s (will be saved): "
)

// Menu is the display phase.
type Menu interface {
	Show(ctx context.Context) (tui.Selection, error)
}

// Prompter reads one answer per call.
type Prompter interface {
	Ask(ctx context.Context, label string) (string, error)
	AskSecret(ctx context.Context, label string) (string, error)
}

// ModelStore persists entries.
type ModelStore interface {
	Save(key string, entry models.ModelEntry) error
}

// SecretStore persists secret values outside the model registry.
type SecretStore interface {
	Set(key, value string) error
}

// Outcome is the result of one run.
type Outcome struct {
	// Saved is true only when an entry was written.
	Saved bool
	Key   string
	Entry models.ModelEntry
	// Env holds variables set during the run. Consumers of Entry should
	// resolve its API key reference from here before the process env.
	Env map[string]string
}

// Flow wires the menu, the prompts and the stores together.
type Flow struct {
	menu     Menu
	prompter Prompter
	store    ModelStore
	secrets  SecretStore
	env      config.Environ
	emit     *render.Emitter
}

// New creates a Flow.
func New(menu Menu, prompter Prompter, store ModelStore, secrets SecretStore, env config.Environ, emit *render.Emitter) *Flow {
	return &Flow{
		menu:     menu,
		prompter: prompter,
		store:    store,
		secrets:  secrets,
		env:      env,
		emit:     emit,
	}
}

type missingFieldError struct {
	field string
}

func (e *missingFieldError) Error() string {
	return e.field + " is required"
}

// Run shows the menu and, if confirmed, collects and saves one entry.
// Cancellation at any stage returns a zero Outcome and a nil error; only
// menu failures and write errors are returned.
func (f *Flow) Run(ctx context.Context) (Outcome, error) {
	ctx = logging.WithRunID(ctx, logging.RunID(ctx))
	log := logging.FromContext(ctx, "flow")
	start := time.Now()

	sel, err := f.menu.Show(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if sel != tui.SelectionConfirmed {
		log.Info("flow_cancelled", map[string]interface{}{"stage": "menu"})
		return Outcome{}, nil
	}

	out, err := f.collect(ctx)
	if err != nil {
		var missing *missingFieldError
		switch {
		case errors.Is(err, prompt.ErrCancelled):
			f.emit.Warning("\nCancelled.")
			log.Info("flow_cancelled", map[string]interface{}{"stage": "prompt"})
			return Outcome{}, nil
		case errors.As(err, &missing):
			f.emit.Warning("%s is required.", missing.field)
			log.Info("flow_cancelled", map[string]interface{}{
				"stage":   "prompt",
				"missing": missing.field,
			})
			return Outcome{}, nil
		default:
			log.Error("flow_failed", nil, err)
			return Outcome{}, err
		}
	}

	if err := f.store.Save(out.Key, out.Entry); err != nil {
		log.Error("save_failed", map[string]interface{}{"key": out.Key}, err)
		return Outcome{}, fmt.Errorf("save %s: %w", out.Key, err)
	}

	f.emit.Success("✅ Added %s to configuration.", out.Key)
	out.Saved = true

	log.TimedEvent("model_added", start, map[string]interface{}{
		"key":            out.Key,
		"context_length": out.Entry.ContextLength,
		"secret_stored":  len(out.Env) > 0,
	})
	return out, nil
}

func (f *Flow) collect(ctx context.Context) (Outcome, error) {
	f.emit.Info("\n✨ Add Custom OpenAI-Compatible Model\n")

	baseURL, err := f.required(ctx, labelBaseURL, "Base URL")
	if err != nil {
		return Outcome{}, err
	}
	modelID, err := f.required(ctx, labelModelID, "Model ID")
	if err != nil {
		return Outcome{}, err
	}
	envVar, err := f.required(ctx, labelEnvVar, "Environment variable name")
	if err != nil {
		return Outcome{}, err
	}

	ctxInput, err := f.prompter.Ask(ctx, labelContextLength)
	if err != nil {
		return Outcome{}, err
	}
	contextLength := parseContextLength(ctxInput)

	env := map[string]string{}
	if !config.IsSet(f.env, envVar) {
		value, err := f.prompter.AskSecret(ctx, fmt.Sprintf(labelSecretFormat, envVar))
		if err != nil {
			return Outcome{}, err
		}
		if value != "" {
			if err := f.storeSecret(envVar, value); err != nil {
				return Outcome{}, err
			}
			env[envVar] = value
		}
	}

	entry := models.NewCustomOpenAI(baseURL, modelID, envVar, contextLength)
	return Outcome{
		Key:   entry.Key(),
		Entry: entry,
		Env:   env,
	}, nil
}

func (f *Flow) required(ctx context.Context, label, field string) (string, error) {
	v, err := f.prompter.Ask(ctx, label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", &missingFieldError{field: field}
	}
	return v, nil
}

func (f *Flow) storeSecret(name, value string) error {
	if err := f.secrets.Set(name, value); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	if err := f.env.Setenv(name, value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// parseContextLength returns the default for blank, non-integer or
// non-positive input. Negative integers are rejected too, so a saved
// entry never carries a context length below 1.
func parseContextLength(s string) int {
	if s == "" {
		return models.DefaultContextLength
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return models.DefaultContextLength
	}
	return n
}
