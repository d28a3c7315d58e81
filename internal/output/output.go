// Package output constructs timestamped output file paths for generated
// posters.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Namer struct {
	dir string
	now func() time.Time // for tests
}

func NewNamer(dir string) (*Namer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output: create output directory %q: %w", dir, err)
	}
	return &Namer{dir: dir, now: time.Now}, nil
}

// Filename builds {city_slug}_{theme}_{timestamp}.{ext} under the output
// directory.
func (n *Namer) Filename(city, themeName, format string) string {
	timestamp := n.now().Format("20060102_150405")
	slug := strings.ReplaceAll(strings.ToLower(city), " ", "_")
	ext := strings.ToLower(format)
	return filepath.Join(n.dir, fmt.Sprintf("%s_%s_%s.%s", slug, themeName, timestamp, ext))
}
