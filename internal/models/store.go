package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/joss/urp-models/internal/config"
	"github.com/joss/urp-models/internal/logging"
)

// ErrNotFound is returned when a key is not in the registry.
var ErrNotFound = errors.New("model not found")

// pathSpecial are the characters gjson/sjson interpret inside a path.
const pathSpecial = `\.*?|#@!=<>%:`

// NamedEntry is a registry value with its key, in file order.
type NamedEntry struct {
	Key   string
	Entry ModelEntry
	// Raw is the stored JSON value, kept for entries of other shapes.
	Raw string
}

// Store is the JSON object file mapping model keys to entries.
// Keys keep their file order; a new key is appended, an existing one is
// replaced in place.
type Store struct {
	path string
	log  *logging.Logger
}

// NewStore returns a store over the file at path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  logging.New("store"),
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// load returns the current document. A missing, unreadable or invalid file
// yields an empty object; for an invalid file the original bytes are
// returned as corrupt so they can be backed up before being replaced.
func (s *Store) load() (doc, corrupt []byte) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("store_unreadable", map[string]interface{}{"path": s.path}, err)
		}
		return []byte("{}"), nil
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		s.log.Warn("store_corrupt", map[string]interface{}{"path": s.path, "size": len(data)}, nil)
		return []byte("{}"), data
	}
	return data, nil
}

// Save sets key to entry and rewrites the file.
func (s *Store) Save(key string, entry ModelEntry) error {
	doc, corrupt := s.load()

	raw, err := marshalEntry(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	doc, err = sjson.SetRawBytes(doc, escapePath(key), raw)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if corrupt != nil {
		s.backup(corrupt)
	}
	if err := s.write(doc); err != nil {
		return err
	}

	s.log.Info("model_saved", map[string]interface{}{"key": key, "path": s.path})
	return nil
}

// Remove deletes key from the file.
func (s *Store) Remove(key string) error {
	doc, _ := s.load()

	path := escapePath(key)
	if !gjson.GetBytes(doc, path).Exists() {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	doc, err := sjson.DeleteBytes(doc, path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if err := s.write(doc); err != nil {
		return err
	}

	s.log.Info("model_removed", map[string]interface{}{"key": key, "path": s.path})
	return nil
}

// Entries returns every stored entry in file order.
func (s *Store) Entries() []NamedEntry {
	doc, _ := s.load()

	var entries []NamedEntry
	gjson.ParseBytes(doc).ForEach(func(k, v gjson.Result) bool {
		ne := NamedEntry{Key: k.String(), Raw: v.Raw}
		if v.IsObject() {
			// Entries of other shapes are listed with what decodes
			_ = json.Unmarshal([]byte(v.Raw), &ne.Entry)
		}
		entries = append(entries, ne)
		return true
	})
	return entries
}

// Raw returns the stored document, or an empty object.
func (s *Store) Raw() []byte {
	doc, _ := s.load()
	return doc
}

func (s *Store) write(doc []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(doc), "", "    "); err != nil {
		return fmt.Errorf("format models file: %w", err)
	}

	if err := config.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write models file: %w", err)
	}
	return nil
}

func (s *Store) backup(data []byte) {
	bak := s.path + ".bak"
	if err := os.WriteFile(bak, data, 0600); err != nil {
		s.log.Warn("store_backup_failed", map[string]interface{}{"path": bak}, err)
		return
	}
	s.log.Warn("store_backed_up", map[string]interface{}{"path": bak}, nil)
}

func marshalEntry(entry ModelEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// escapePath makes key a single literal gjson/sjson path component.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(pathSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
