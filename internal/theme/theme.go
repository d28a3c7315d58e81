// Package theme loads named styling profiles for map posters.
package theme

import (
	"encoding/json"
	"errors"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Theme is one styling profile: background, text, gradient, water, parks
// and the six road-hierarchy colors. Every color is a 6-hex-digit string.
type Theme struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	BG            string `json:"bg"`
	Text          string `json:"text"`
	GradientColor string `json:"gradient_color"`
	Water         string `json:"water"`
	Parks         string `json:"parks"`

	RoadMotorway    string `json:"road_motorway"`
	RoadPrimary     string `json:"road_primary"`
	RoadSecondary   string `json:"road_secondary"`
	RoadTertiary    string `json:"road_tertiary"`
	RoadResidential string `json:"road_residential"`
	RoadDefault     string `json:"road_default"`
}

// Default is the built-in fallback profile. Loading always degrades to it
// rather than failing the caller.
func Default() Theme {
	return Theme{
		Name:        "Feature-Based Shading",
		Description: "Default theme with road hierarchy coloring",

		BG:            "#FFFFFF",
		Text:          "#000000",
		GradientColor: "#FFFFFF",
		Water:         "#C0C0C0",
		Parks:         "#F0F0F0",

		RoadMotorway:    "#0A0A0A",
		RoadPrimary:     "#1A1A1A",
		RoadSecondary:   "#2A2A2A",
		RoadTertiary:    "#3A3A3A",
		RoadResidential: "#4A4A4A",
		RoadDefault:     "#3A3A3A",
	}
}

// Validate checks that every color field is valid hex syntax. Violations
// are reported, never coerced.
func (t Theme) Validate() error {
	color := []validation.Rule{validation.Required, validation.Match(hexColor)}
	return validation.ValidateStruct(&t,
		validation.Field(&t.BG, color...),
		validation.Field(&t.Text, color...),
		validation.Field(&t.GradientColor, color...),
		validation.Field(&t.Water, color...),
		validation.Field(&t.Parks, color...),
		validation.Field(&t.RoadMotorway, color...),
		validation.Field(&t.RoadPrimary, color...),
		validation.Field(&t.RoadSecondary, color...),
		validation.Field(&t.RoadTertiary, color...),
		validation.Field(&t.RoadResidential, color...),
		validation.Field(&t.RoadDefault, color...),
	)
}

// FromFile parses a theme definition. Fields absent from the file keep the
// default styling values; a missing name is an error.
func FromFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}

	t := Default()
	t.Name = ""
	t.Description = ""
	if err := json.Unmarshal(data, &t); err != nil {
		return Theme{}, err
	}
	if t.Name == "" {
		return Theme{}, errors.New("theme definition has no name")
	}
	return t, nil
}

// Save writes the definition back as an indented JSON file.
func (t Theme) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
