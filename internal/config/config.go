// Package config loads system settings from environment variables with
// install-relative path defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	CacheDir  string
	ThemesDir string
	FontsDir  string
	OutputDir string

	GeocodingUserAgent string
	GeocodingTimeout   time.Duration
	GeocodingRateLimit time.Duration
	NominatimURL       string

	GraphRateLimit    time.Duration
	FeaturesRateLimit time.Duration
	OverpassURL       string
	FetchTimeout      time.Duration

	// Figure dimensions in inches.
	FigureWidth  float64
	FigureHeight float64
	DPI          int

	// Map radius in meters.
	DefaultDistance int

	CacheMemoryEntries int
	LogLevel           string
}

func FromEnv() Config {
	base := installDir()

	return Config{
		CacheDir:  getenv("CACHE_DIR", filepath.Join(base, ".cache")),
		ThemesDir: getenv("THEMES_DIR", filepath.Join(base, "themes")),
		FontsDir:  getenv("FONTS_DIR", filepath.Join(base, "fonts")),
		OutputDir: getenv("OUTPUT_DIR", filepath.Join(base, "posters")),

		GeocodingUserAgent: getenv("GEOCODING_USER_AGENT", "city_map_poster"),
		GeocodingTimeout:   getduration("GEOCODING_TIMEOUT", 10*time.Second),
		GeocodingRateLimit: getduration("GEOCODING_RATE_LIMIT", time.Second),
		NominatimURL:       getenv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),

		GraphRateLimit:    getduration("GRAPH_RATE_LIMIT", 500*time.Millisecond),
		FeaturesRateLimit: getduration("FEATURES_RATE_LIMIT", 300*time.Millisecond),
		OverpassURL:       getenv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		FetchTimeout:      getduration("FETCH_TIMEOUT", 90*time.Second),

		FigureWidth:  getfloat("FIGURE_WIDTH", 12.0),
		FigureHeight: getfloat("FIGURE_HEIGHT", 16.0),
		DPI:          getint("DPI", 300),

		DefaultDistance: getint("DEFAULT_DISTANCE", 12000),

		CacheMemoryEntries: getint("CACHE_MEMORY_ENTRIES", 32),
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}
}

// Validate checks numeric settings and creates the working directories.
func (c Config) Validate() error {
	if c.GeocodingTimeout <= 0 {
		return fmt.Errorf("config: geocoding timeout must be positive")
	}
	if c.GeocodingRateLimit < 0 || c.GraphRateLimit < 0 || c.FeaturesRateLimit < 0 {
		return fmt.Errorf("config: rate limits must be non-negative")
	}
	if c.DPI <= 0 {
		return fmt.Errorf("config: dpi must be positive")
	}
	if c.DefaultDistance <= 0 {
		return fmt.Errorf("config: default distance must be positive")
	}
	if c.FigureWidth <= 0 || c.FigureHeight <= 0 {
		return fmt.Errorf("config: figure dimensions must be positive")
	}

	for _, dir := range []string{c.CacheDir, c.ThemesDir, c.FontsDir, c.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory %q: %w", dir, err)
		}
	}
	return nil
}

// directory the binary lives in; falls back to the working directory
func installDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
