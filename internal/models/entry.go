package models

import "strings"

const (
	// TypeCustomOpenAI is the type tag of entries added through the menu.
	TypeCustomOpenAI = "custom_openai"

	// DefaultContextLength is used when no valid context length is given.
	DefaultContextLength = 128000

	// KeyPrefix prefixes the registry key derived from a model ID.
	KeyPrefix = "custom-"
)

// DefaultSupportedSettings are the sampling settings custom models accept.
var DefaultSupportedSettings = []string{"temperature", "top_p"}

// Endpoint is where a custom model is served and how it authenticates.
type Endpoint struct {
	URL string `json:"url"`
	// APIKey is a reference of the form $ENV_VAR_NAME, never the secret itself.
	APIKey string `json:"api_key"`
}

// ModelEntry is the persisted description of one custom model endpoint.
type ModelEntry struct {
	Type              string   `json:"type"`
	Name              string   `json:"name"`
	Endpoint          Endpoint `json:"custom_endpoint"`
	ContextLength     int      `json:"context_length"`
	SupportedSettings []string `json:"supported_settings"`
}

// NewCustomOpenAI builds an entry for an OpenAI-compatible endpoint.
// A non-positive contextLength falls back to DefaultContextLength.
func NewCustomOpenAI(baseURL, modelID, envVar string, contextLength int) ModelEntry {
	if contextLength <= 0 {
		contextLength = DefaultContextLength
	}
	settings := make([]string, len(DefaultSupportedSettings))
	copy(settings, DefaultSupportedSettings)

	return ModelEntry{
		Type: TypeCustomOpenAI,
		Name: modelID,
		Endpoint: Endpoint{
			URL:    baseURL,
			APIKey: EnvReference(envVar),
		},
		ContextLength:     contextLength,
		SupportedSettings: settings,
	}
}

// Key returns the registry key for the entry.
func (e ModelEntry) Key() string {
	return KeyFor(e.Name)
}

// EnvVar returns the variable name the API key references, or "" if the
// key is not an env reference.
func (e ModelEntry) EnvVar() string {
	if !strings.HasPrefix(e.Endpoint.APIKey, "$") {
		return ""
	}
	return strings.TrimPrefix(e.Endpoint.APIKey, "$")
}

// KeyFor derives the registry key for a model ID.
func KeyFor(modelID string) string {
	return KeyPrefix + modelID
}

// EnvReference formats an env var name as an API key reference.
func EnvReference(name string) string {
	return "$" + name
}
