package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Store lists and loads themes from a directory of JSON definitions,
// filename stem = theme name.
type Store struct {
	dir string
	log zerolog.Logger
}

func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("theme: create themes directory %q: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// List returns available theme names in lexicographic order.
func (s *Store) List() []string {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".json"))
	}
	sort.Strings(names)
	return names
}

// Load returns the named theme, or the built-in default on a missing file,
// parse error or validation error. It never fails the caller; a broken
// theme file degrades to default styling.
func (s *Store) Load(name string) Theme {
	path := filepath.Join(s.dir, name+".json")

	if _, err := os.Stat(path); err != nil {
		s.log.Warn().Str("theme", name).Msg("theme not found, using default")
		return Default()
	}

	t, err := FromFile(path)
	if err == nil {
		err = t.Validate()
	}
	if err != nil {
		s.log.Warn().Err(err).Str("theme", name).Msg("error loading theme, using default")
		return Default()
	}

	s.log.Info().Str("theme", t.Name).Msg("loaded theme")
	if t.Description != "" {
		s.log.Info().Msg(t.Description)
	}
	return t
}

// Info peeks at a definition's display name and description without a full
// load; any failure yields the raw name with an empty description.
func (s *Store) Info(name string) (display, description string) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if err != nil {
		return name, ""
	}
	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return name, ""
	}
	if meta.Name == "" {
		meta.Name = name
	}
	return meta.Name, meta.Description
}
