package models

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultPaletteID = "default"
	CustomPaletteID  = "custom"
)

type Palette struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

var palettes = []Palette{
	{ID: DefaultPaletteID, Name: "Smart (AI)", Colors: []string{"slate-700", "slate-500", "slate-300"}},
	{ID: "high-contrast", Name: "High Impact", Colors: []string{"yellow-400", "black", "red-500"}},
	{ID: "aesthetic", Name: "Minimal / Luxury", Colors: []string{"stone-100", "stone-300", "stone-800"}},
	{ID: "neon", Name: "Cyber / GenZ", Colors: []string{"pink-500", "cyan-400", "purple-600"}},
	{ID: "nature", Name: "Organic / Eco", Colors: []string{"green-700", "green-300", "amber-100"}},
	{ID: "pastel", Name: "Soft / Care", Colors: []string{"rose-200", "blue-200", "purple-200"}},
	{ID: CustomPaletteID, Name: "Custom", Colors: []string{"white", "gray-400", "black"}},
}

var DefaultCustomColors = []string{"#ffffff", "#888888", "#000000"}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func Palettes() []Palette {
	out := make([]Palette, len(palettes))
	copy(out, palettes)
	return out
}

// FindPalette falls back to the default palette for unknown ids.
func FindPalette(id string) Palette {
	for _, p := range palettes {
		if p.ID == id {
			return p
		}
	}
	return palettes[0]
}

// ValidCustomColors reports whether colors is exactly three hex strings.
func ValidCustomColors(colors []string) bool {
	if len(colors) != 3 {
		return false
	}
	for _, c := range colors {
		if !hexColor.MatchString(c) {
			return false
		}
	}
	return true
}

// ColorDirective is the instruction that steers lighting and overlays.
func ColorDirective(paletteID string, customColors []string) string {
	if paletteID == CustomPaletteID && len(customColors) > 0 {
		return fmt.Sprintf("Use a CUSTOM COLOR PALETTE with these HEX codes: %s. Use these exact colors for text overlays, backgrounds, or clothing.",
			strings.Join(customColors, ", "))
	}
	p := FindPalette(paletteID)
	return fmt.Sprintf("Use a color palette inspired by: %q (%s). Ensure these colors guide the lighting and mood.",
		p.Name, strings.Join(p.Colors, ", "))
}
