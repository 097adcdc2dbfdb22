package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomOpenAI(t *testing.T) {
	e := NewCustomOpenAI("https://api.example.com/v1", "llama-3", "FOO_KEY", 50000)

	assert.Equal(t, TypeCustomOpenAI, e.Type)
	assert.Equal(t, "llama-3", e.Name)
	assert.Equal(t, "https://api.example.com/v1", e.Endpoint.URL)
	assert.Equal(t, "$FOO_KEY", e.Endpoint.APIKey)
	assert.Equal(t, 50000, e.ContextLength)
	assert.Equal(t, []string{"temperature", "top_p"}, e.SupportedSettings)
}

func TestNewCustomOpenAIDefaultContext(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, DefaultContextLength},
		{"negative", -10, DefaultContextLength},
		{"positive", 8192, 8192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewCustomOpenAI("u", "m", "K", tt.in)
			assert.Equal(t, tt.want, e.ContextLength)
		})
	}
}

func TestSupportedSettingsNotShared(t *testing.T) {
	e := NewCustomOpenAI("u", "m", "K", 0)
	e.SupportedSettings[0] = "changed"

	assert.Equal(t, "temperature", DefaultSupportedSettings[0])
}

func TestEntryKeyAndEnvVar(t *testing.T) {
	e := NewCustomOpenAI("u", "gpt-4o", "OPENAI_API_KEY", 0)

	assert.Equal(t, "custom-gpt-4o", e.Key())
	assert.Equal(t, "OPENAI_API_KEY", e.EnvVar())

	e.Endpoint.APIKey = "literal"
	assert.Equal(t, "", e.EnvVar())
}

func TestEntryJSONShape(t *testing.T) {
	e := NewCustomOpenAI("https://h/v1", "m", "K", 0)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "custom_openai",
		"name": "m",
		"custom_endpoint": {"url": "https://h/v1", "api_key": "$K"},
		"context_length": 128000,
		"supported_settings": ["temperature", "top_p"]
	}`, string(data))
}

func TestProviders(t *testing.T) {
	providers := Providers()

	require.Len(t, providers, 1)
	assert.Equal(t, "custom-openai", providers[0].ID)
	assert.Equal(t, "Custom OpenAI Compatible", providers[0].Name)
	assert.Equal(t, []string{"CUSTOM_OPENAI_API_KEY"}, providers[0].Env)
}
