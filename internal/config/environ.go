package config

import "os"

// Environ is the environment-variable table a command reads and writes.
// The process environment is one implementation; MapEnviron keeps values
// local so they can be handed to whatever consumes the model configuration.
type Environ interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
}

// ProcessEnviron reads and writes the real process environment.
type ProcessEnviron struct{}

// LookupEnv implements Environ.
func (ProcessEnviron) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Setenv implements Environ.
func (ProcessEnviron) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

// MapEnviron is an in-memory Environ.
type MapEnviron map[string]string

// LookupEnv implements Environ.
func (m MapEnviron) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Setenv implements Environ.
func (m MapEnviron) Setenv(key, value string) error {
	m[key] = value
	return nil
}

// IsSet reports whether key holds a non-empty value.
func IsSet(env Environ, key string) bool {
	v, ok := env.LookupEnv(key)
	return ok && v != ""
}
