package shoecard

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Token names referenced by the card.
const (
	ColorPrimary   = "primary"
	ColorSecondary = "secondary"
	ColorWhite     = "white"
	ColorGray700   = "gray.700"
	ColorGray900   = "gray.900"

	WeightNormal = "normal"
	WeightMedium = "medium"
	WeightBold   = "bold"
)

// Theme holds the design tokens the card refers to by name.
type Theme struct {
	Colors  map[string]string `yaml:"colors"`
	Weights map[string]string `yaml:"weights"`
}

// DefaultTheme returns the storefront palette and type weights.
func DefaultTheme() Theme {
	return Theme{
		Colors: map[string]string{
			ColorWhite:     "hsl(0deg 0% 100%)",
			"gray.100":     "hsl(185deg 5% 95%)",
			"gray.300":     "hsl(190deg 5% 80%)",
			"gray.500":     "hsl(196deg 4% 60%)",
			ColorGray700:   "hsl(220deg 5% 40%)",
			ColorGray900:   "hsl(220deg 3% 20%)",
			ColorPrimary:   "hsl(340deg 65% 47%)",
			ColorSecondary: "hsl(240deg 60% 63%)",
		},
		Weights: map[string]string{
			WeightNormal: "500",
			WeightMedium: "600",
			WeightBold:   "800",
		},
	}
}

// Color resolves a colour token, or "inherit" when the token is unknown or
// its value is unsafe.
func (t Theme) Color(name string) string {
	if v, ok := t.Colors[name]; ok && v != "" && !unsafeTokenValue(v) {
		return v
	}
	return "inherit"
}

// Weight resolves a font-weight token, or "normal" when the token is unknown
// or its value is unsafe.
func (t Theme) Weight(name string) string {
	if v, ok := t.Weights[name]; ok && v != "" && !unsafeTokenValue(v) {
		return v
	}
	return "normal"
}

// ThemeError lists tokens whose values cannot be placed in a style declaration.
type ThemeError struct {
	tokens []string
}

// Error implements the error interface.
func (e *ThemeError) Error() string {
	return fmt.Sprintf("theme: unsafe token values [%s]", strings.Join(e.tokens, ", "))
}

// Tokens returns a copy of the rejected token names.
func (e *ThemeError) Tokens() []string {
	out := make([]string, len(e.tokens))
	copy(out, e.tokens)
	return out
}

// Validate rejects token values that could escape the surrounding CSS
// declaration.
func (t Theme) Validate() error {
	var bad []string
	check := func(group string, values map[string]string) {
		for name, value := range values {
			if unsafeTokenValue(value) {
				bad = append(bad, group+"."+name)
			}
		}
	}
	check("colors", t.Colors)
	check("weights", t.Weights)
	if len(bad) > 0 {
		sort.Strings(bad)
		return &ThemeError{tokens: bad}
	}
	return nil
}

// unsafeTokenValue reports whether value could end the declaration it is
// placed in or open a new one.
func unsafeTokenValue(value string) bool {
	return strings.ContainsAny(value, ";{}<>\"'\\")
}

// Merge returns a copy of t with the non-empty tokens of override applied.
func (t Theme) Merge(override Theme) Theme {
	out := Theme{
		Colors:  make(map[string]string, len(t.Colors)+len(override.Colors)),
		Weights: make(map[string]string, len(t.Weights)+len(override.Weights)),
	}
	for k, v := range t.Colors {
		out.Colors[k] = v
	}
	for k, v := range t.Weights {
		out.Weights[k] = v
	}
	for k, v := range override.Colors {
		if k = strings.TrimSpace(k); k != "" && strings.TrimSpace(v) != "" {
			out.Colors[k] = strings.TrimSpace(v)
		}
	}
	for k, v := range override.Weights {
		if k = strings.TrimSpace(k); k != "" && strings.TrimSpace(v) != "" {
			out.Weights[k] = strings.TrimSpace(v)
		}
	}
	return out
}

// LoadTheme reads a YAML token file and merges it over DefaultTheme. An empty
// path returns the defaults.
func LoadTheme(path string) (Theme, error) {
	base := DefaultTheme()
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	var override Theme
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return Theme{}, fmt.Errorf("theme: parse %s: %w", path, err)
	}
	theme := base.Merge(override)
	if err := theme.Validate(); err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}
