package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/urp-models/internal/config"
	"github.com/joss/urp-models/internal/models"
	"github.com/joss/urp-models/internal/prompt"
	"github.com/joss/urp-models/internal/render"
	"github.com/joss/urp-models/internal/tui"
)

type fakeMenu struct {
	sel   tui.Selection
	err   error
	shown int
}

func (m *fakeMenu) Show(context.Context) (tui.Selection, error) {
	m.shown++
	return m.sel, m.err
}

// scriptedPrompter answers from a fixed list; running out behaves like EOF.
type scriptedPrompter struct {
	answers []string
	labels  []string
	secrets []string
}

func (p *scriptedPrompter) Ask(_ context.Context, label string) (string, error) {
	p.labels = append(p.labels, label)
	if len(p.answers) == 0 {
		return "", prompt.ErrCancelled
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) AskSecret(ctx context.Context, label string) (string, error) {
	p.secrets = append(p.secrets, label)
	return p.Ask(ctx, label)
}

type fakeStore struct {
	saved map[string]models.ModelEntry
	calls int
	err   error
}

func (s *fakeStore) Save(key string, entry models.ModelEntry) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if s.saved == nil {
		s.saved = map[string]models.ModelEntry{}
	}
	s.saved[key] = entry
	return nil
}

type fakeSecrets struct {
	values map[string]string
	err    error
}

func (s *fakeSecrets) Set(key, value string) error {
	if s.err != nil {
		return s.err
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

type harness struct {
	menu     *fakeMenu
	prompter *scriptedPrompter
	store    *fakeStore
	secrets  *fakeSecrets
	env      config.MapEnviron
	out      *bytes.Buffer
	flow     *Flow
}

func newHarness(answers ...string) *harness {
	h := &harness{
		menu:     &fakeMenu{sel: tui.SelectionConfirmed},
		prompter: &scriptedPrompter{answers: answers},
		store:    &fakeStore{},
		secrets:  &fakeSecrets{},
		env:      config.MapEnviron{},
		out:      &bytes.Buffer{},
	}
	h.flow = New(h.menu, h.prompter, h.store, h.secrets, h.env, render.NewEmitter(h.out, true))
	return h
}

func TestRunSavesEntry(t *testing.T) {
	h := newHarness("https://api.example.com/v1", "llama-3", "EXAMPLE_KEY", "", "sk-123")

	out, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Saved)
	assert.Equal(t, "custom-llama-3", out.Key)
	require.Contains(t, h.store.saved, "custom-llama-3")

	entry := h.store.saved["custom-llama-3"]
	assert.Equal(t, models.TypeCustomOpenAI, entry.Type)
	assert.Equal(t, "llama-3", entry.Name)
	assert.Equal(t, "https://api.example.com/v1", entry.Endpoint.URL)
	assert.Equal(t, "$EXAMPLE_KEY", entry.Endpoint.APIKey)
	assert.Equal(t, 128000, entry.ContextLength)
	assert.Equal(t, []string{"temperature", "top_p"}, entry.SupportedSettings)

	assert.Equal(t, "sk-123", h.secrets.values["EXAMPLE_KEY"])
	assert.Equal(t, "sk-123", h.env["EXAMPLE_KEY"])
	assert.Equal(t, map[string]string{"EXAMPLE_KEY": "sk-123"}, out.Env)

	assert.Contains(t, h.out.String(), "✨ Add Custom OpenAI-Compatible Model")
	assert.Contains(t, h.out.String(), "✅ Added custom-llama-3 to configuration.")
}

func TestRunPromptOrder(t *testing.T) {
	h := newHarness("u", "m", "E_KEY", "", "")

	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		labelBaseURL,
		labelModelID,
		labelEnvVar,
		labelContextLength,
		"  Enter value for E_KEY (will be saved): ",
	}, h.prompter.labels)
	assert.Len(t, h.prompter.secrets, 1)
}

func TestRunContextLength(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"blank", "", 128000},
		{"integer", "50000", 50000},
		{"not a number", "abc", 128000},
		{"float", "1.5", 128000},
		{"zero", "0", 128000},
		{"negative", "-10", 128000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("u", "m", "E_KEY", tt.input, "")

			out, err := h.flow.Run(context.Background())
			require.NoError(t, err)
			require.True(t, out.Saved)
			assert.Equal(t, tt.want, h.store.saved["custom-m"].ContextLength)
		})
	}
}

func TestParseContextLength(t *testing.T) {
	assert.Equal(t, 50000, parseContextLength("50000"))
	assert.Equal(t, 1, parseContextLength("1"))
	assert.Equal(t, models.DefaultContextLength, parseContextLength("-1"))
	assert.Equal(t, models.DefaultContextLength, parseContextLength("12k"))
}

func TestRunEnvAlreadySet(t *testing.T) {
	h := newHarness("u", "m", "FOO_KEY", "")
	h.env["FOO_KEY"] = "present"

	out, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Saved)
	assert.Empty(t, h.prompter.secrets)
	assert.Empty(t, h.secrets.values)
	assert.Empty(t, out.Env)
	assert.Equal(t, "$FOO_KEY", h.store.saved["custom-m"].Endpoint.APIKey)
}

func TestRunEnvSetButEmpty(t *testing.T) {
	h := newHarness("u", "m", "FOO_KEY", "", "filled")
	h.env["FOO_KEY"] = ""

	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, h.prompter.secrets, 1)
	assert.Equal(t, "filled", h.env["FOO_KEY"])
}

func TestRunBlankSecretLeavesVariableUnset(t *testing.T) {
	h := newHarness("u", "m", "E_KEY", "", "")

	out, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Saved)
	assert.Empty(t, h.secrets.values)
	_, ok := h.env["E_KEY"]
	assert.False(t, ok)
	assert.Equal(t, "$E_KEY", out.Entry.Endpoint.APIKey)
}

func TestRunRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		field   string
	}{
		{"base url", []string{""}, "Base URL"},
		{"model id", []string{"u", ""}, "Model ID"},
		{"env var", []string{"u", "m", ""}, "Environment variable name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.answers...)

			out, err := h.flow.Run(context.Background())
			require.NoError(t, err)

			assert.False(t, out.Saved)
			assert.Zero(t, h.store.calls)
			assert.Contains(t, h.out.String(), tt.field+" is required.")
		})
	}
}

func TestRunCancelledAtEachPrompt(t *testing.T) {
	full := []string{"u", "m", "E_KEY", "4096"}

	for i := range full {
		h := newHarness(full[:i]...)

		out, err := h.flow.Run(context.Background())
		require.NoError(t, err)

		assert.False(t, out.Saved, "prompt %d", i)
		assert.Zero(t, h.store.calls, "prompt %d", i)
		assert.Contains(t, h.out.String(), "Cancelled.", "prompt %d", i)
	}
}

func TestRunCancelledAtSecret(t *testing.T) {
	h := newHarness("u", "m", "E_KEY", "")

	out, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Saved)
	assert.Zero(t, h.store.calls)
	assert.Empty(t, h.secrets.values)
	assert.Contains(t, h.out.String(), "Cancelled.")
}

func TestRunMenuCancelled(t *testing.T) {
	h := newHarness("u", "m", "E_KEY", "", "")
	h.menu.sel = tui.SelectionCancelled

	out, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Saved)
	assert.Equal(t, 1, h.menu.shown)
	assert.Zero(t, h.store.calls)
	assert.Empty(t, h.prompter.labels)
	assert.Empty(t, h.out.String())
}

func TestRunMenuError(t *testing.T) {
	h := newHarness()
	h.menu.err = errors.New("no tty")

	out, err := h.flow.Run(context.Background())
	require.Error(t, err)
	assert.False(t, out.Saved)
	assert.Zero(t, h.store.calls)
}

func TestRunSaveError(t *testing.T) {
	h := newHarness("u", "m", "E_KEY", "", "")
	h.store.err = errors.New("permission denied")

	out, err := h.flow.Run(context.Background())
	require.Error(t, err)

	assert.False(t, out.Saved)
	assert.Contains(t, err.Error(), "custom-m")
	assert.Contains(t, err.Error(), "permission denied")
	assert.NotContains(t, h.out.String(), "✅")
}

func TestRunSecretStoreError(t *testing.T) {
	h := newHarness("u", "m", "E_KEY", "", "sk")
	h.secrets.err = errors.New("read-only")

	out, err := h.flow.Run(context.Background())
	require.Error(t, err)

	assert.False(t, out.Saved)
	assert.Zero(t, h.store.calls)
	_, ok := h.env["E_KEY"]
	assert.False(t, ok)
}

func TestRunWithFileStores(t *testing.T) {
	dir := t.TempDir()
	modelsPath := filepath.Join(dir, "extra_models.json")
	require.NoError(t, os.WriteFile(modelsPath, []byte(`{"a": {"type": "other", "name": "a"}}`), 0644))

	menu := &fakeMenu{sel: tui.SelectionConfirmed}
	p := &scriptedPrompter{answers: []string{"http://localhost:8000/v1", "b", "B_KEY", "", "sk-b"}}
	secrets := config.NewSecretStore(filepath.Join(dir, ".env"))
	env := config.MapEnviron{}
	var buf bytes.Buffer

	f := New(menu, p, models.NewStore(modelsPath), secrets, env, render.NewEmitter(&buf, true))

	out, err := f.Run(context.Background())
	require.NoError(t, err)
	require.True(t, out.Saved)

	data, err := os.ReadFile(modelsPath)
	require.NoError(t, err)

	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "other", doc["a"]["type"])
	assert.Equal(t, "custom_openai", doc["custom-b"]["type"])

	v, ok, err := secrets.Get("B_KEY")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sk-b", v)
}
