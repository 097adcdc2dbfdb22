// Package models defines custom model entries and the JSON registry they live in.
package models

// ProviderDescriptor is static metadata for a model provider category.
type ProviderDescriptor struct {
	ID   string
	Name string
	// Env lists the environment variables the provider needs.
	Env []string
	API string
}

// CustomOpenAI describes any endpoint that speaks the OpenAI API format.
var CustomOpenAI = ProviderDescriptor{
	ID:   "custom-openai",
	Name: "Custom OpenAI Compatible",
	Env:  []string{"CUSTOM_OPENAI_API_KEY"},
	API:  "N/A",
}

// Providers returns the providers offered by the add-model menu.
func Providers() []ProviderDescriptor {
	return []ProviderDescriptor{CustomOpenAI}
}
