package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// SecretStore persists KEY=value pairs in a dotenv file (~/.urp-go/.env).
type SecretStore struct {
	path string
}

// NewSecretStore returns a store backed by the dotenv file at path.
func NewSecretStore(path string) *SecretStore {
	return &SecretStore{path: path}
}

// Path returns the backing file.
func (s *SecretStore) Path() string {
	return s.path
}

// read returns the stored values. A missing file is an empty store.
func (s *SecretStore) read() (map[string]string, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

// Set stores value under key, keeping every other entry.
func (s *SecretStore) Set(key, value string) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	if err := EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("create env dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(marshalEnv(values)), 0600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	// Secrets only readable by the owner
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("chmod env file: %w", err)
	}
	return nil
}

// Get returns the stored value for key.
func (s *SecretStore) Get(key string) (string, bool, error) {
	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Apply copies stored values into env without overriding values already set.
// Returns the keys that were applied.
func (s *SecretStore) Apply(env Environ) ([]string, error) {
	values, err := s.read()
	if err != nil {
		return nil, err
	}

	var applied []string
	for k, v := range values {
		if IsSet(env, k) {
			continue
		}
		if err := env.Setenv(k, v); err != nil {
			return applied, fmt.Errorf("set %s: %w", k, err)
		}
		applied = append(applied, k)
	}
	return applied, nil
}

// dotenvEscaper escapes what godotenv unescapes inside double quotes.
var dotenvEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	`"`, `\"`,
	"!", `\!`,
	"$", `\$`,
	"`", "\\`",
)

// marshalEnv renders values as sorted KEY="value" lines. Every value is
// quoted so digit-only secrets keep their leading zeros.
func marshalEnv(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=\"%s\"\n", k, dotenvEscaper.Replace(values[k]))
	}
	return b.String()
}
