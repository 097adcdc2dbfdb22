// Package config provides centralized paths, settings and environment handling.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Setting keys. Each maps to a CLI flag of the same name and to a
// URP_-prefixed environment variable (models-file -> URP_MODELS_FILE).
const (
	KeyModelsFile = "models-file"
	KeyEnvFile    = "env-file"
	KeyLogFile    = "log-file"
	KeyNoColor    = "no-color"
	KeyVerbose    = "verbose"
)

// Paths holds standard URP directory paths.
type Paths struct {
	// Home is the URP home directory (~/.urp-go)
	Home string

	// ExtraModels is the custom model registry (~/.urp-go/extra_models.json)
	ExtraModels string

	// EnvFile is the .env file holding saved secrets (~/.urp-go/.env)
	EnvFile string

	// Logs is the log directory (~/.urp-go/logs)
	Logs string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		urpHome := filepath.Join(home, ".urp-go")

		paths = &Paths{
			Home:        urpHome,
			ExtraModels: filepath.Join(urpHome, "extra_models.json"),
			EnvFile:     filepath.Join(urpHome, ".env"),
			Logs:        filepath.Join(urpHome, "logs"),
		}
	})
	return paths
}

// ResetPaths drops the cached paths (for testing).
func ResetPaths() {
	pathsOnce = sync.Once{}
	paths = nil
}

// Path returns a path under the URP home directory.
func Path(parts ...string) string {
	p := GetPaths()
	allParts := append([]string{p.Home}, parts...)
	return filepath.Join(allParts...)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Settings is the resolved runtime configuration.
type Settings struct {
	ModelsFile string
	EnvFile    string
	LogFile    string
	NoColor    bool
	Verbose    bool
}

// NewViper returns a viper instance with defaults and URP_ env binding.
// Callers bind their flags on top of it.
func NewViper() *viper.Viper {
	p := GetPaths()

	v := viper.New()
	v.SetEnvPrefix("URP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyModelsFile, p.ExtraModels)
	v.SetDefault(KeyEnvFile, p.EnvFile)
	v.SetDefault(KeyLogFile, Path("logs", "urp-models.log"))
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyVerbose, false)
	return v
}

// LoadSettings resolves settings from v (flags > env > defaults).
func LoadSettings(v *viper.Viper) *Settings {
	return &Settings{
		ModelsFile: expandHome(v.GetString(KeyModelsFile)),
		EnvFile:    expandHome(v.GetString(KeyEnvFile)),
		LogFile:    expandHome(v.GetString(KeyLogFile)),
		NoColor:    v.GetBool(KeyNoColor),
		Verbose:    v.GetBool(KeyVerbose),
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
