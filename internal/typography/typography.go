// Package typography handles font loading, text formatting and dynamic
// sizing for poster text elements.
package typography

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// Text sizes in points.
const (
	TitleBaseSize   = 60.0
	TitleMinSize    = 24.0
	CountrySize     = 22.0
	CoordsSize      = 14.0
	AttributionSize = 8.0

	// titles longer than this shrink by 10/length
	titleScaleThreshold = 10
)

// Font is one weight of the poster face. It carries the parsed font for
// raster faces, the raw TTF for PDF embedding and a family name for SVG.
type Font struct {
	Weight string
	Family string
	Data   []byte

	parsed *opentype.Font
}

// Face creates a sized face for raster drawing.
func (f *Font) Face(size, dpi float64) (font.Face, error) {
	return opentype.NewFace(f.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

// FontSet binds the three weight classes used on a poster.
type FontSet struct {
	Bold    Font
	Regular Font
	Light   Font

	// Fallback reports that the whole set is the generic family.
	Fallback bool
}

// Load resolves the Roboto set from the fonts directory. If any weight is
// missing or unparsable the whole set falls back to the generic mono
// family; mixing loaded and fallback weights would look mismatched.
func Load(fontsDir string, log zerolog.Logger) *FontSet {
	files := []struct {
		weight string
		file   string
	}{
		{"bold", "Roboto-Bold.ttf"},
		{"regular", "Roboto-Regular.ttf"},
		{"light", "Roboto-Light.ttf"},
	}

	set := &FontSet{}
	for _, f := range files {
		path := filepath.Join(fontsDir, f.file)
		fnt, err := loadFont(f.weight, "Roboto", path)
		if err != nil {
			log.Warn().Str("path", path).Msg("font not found")
			log.Warn().Msg("using fallback system fonts")
			return fallbackSet()
		}
		switch f.weight {
		case "bold":
			set.Bold = fnt
		case "regular":
			set.Regular = fnt
		case "light":
			set.Light = fnt
		}
	}
	return set
}

func loadFont(weight, family, path string) (Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return Font{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return Font{Weight: weight, Family: family, Data: data, parsed: parsed}, nil
}

func fallbackSet() *FontSet {
	bold, _ := parseEmbedded("bold", gomonobold.TTF)
	regular, _ := parseEmbedded("regular", gomono.TTF)
	light, _ := parseEmbedded("light", gomono.TTF)
	return &FontSet{Bold: bold, Regular: regular, Light: light, Fallback: true}
}

func parseEmbedded(weight string, ttf []byte) (Font, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return Font{}, err
	}
	return Font{Weight: weight, Family: "monospace", Data: ttf, parsed: parsed}, nil
}

// TitleSize scales the title inversely with character count past the
// threshold, floored at the minimum legible size. Short titles use the
// base size unmodified.
func TitleSize(city string) float64 {
	chars := len([]rune(city))
	if chars <= titleScaleThreshold {
		return TitleBaseSize
	}
	size := TitleBaseSize * titleScaleThreshold / float64(chars)
	if size < TitleMinSize {
		return TitleMinSize
	}
	return size
}

// FormatTitle uppercases the city name and interleaves a double space
// between every character.
func FormatTitle(city string) string {
	upper := []rune(strings.ToUpper(city))
	parts := make([]string, len(upper))
	for i, r := range upper {
		parts[i] = string(r)
	}
	return strings.Join(parts, "  ")
}

// FormatCoordinates renders 4-decimal degrees with hemisphere letters
// derived from sign, independent of locale.
func FormatCoordinates(lat, lon float64) string {
	latDir, lonDir := "N", "E"
	if lat < 0 {
		latDir = "S"
	}
	if lon < 0 {
		lonDir = "W"
	}
	if lat < 0 {
		lat = -lat
	}
	if lon < 0 {
		lon = -lon
	}
	return fmt.Sprintf("%.4f° %s / %.4f° %s", lat, latDir, lon, lonDir)
}
