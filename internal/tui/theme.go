package tui

import (
	"image/color"
	"slices"

	"charm.land/lipgloss/v2"
	"github.com/hylla/todoboard/internal/domain"
)

// Theme names a color palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// palette holds the colors one theme renders with.
type palette struct {
	accent      color.Color
	text        color.Color
	muted       color.Color
	dim         color.Color
	success     color.Color
	destructive color.Color
	particle    color.Color
	low         color.Color
	medium      color.Color
	high        color.Color
}

// Swatch is one named palette color in both themes.
type Swatch struct {
	Name  string
	Light string
	Dark  string
}

var swatches = []Swatch{
	{Name: "accent", Light: "#7c3aed", Dark: "#a78bfa"},
	{Name: "text", Light: "#1f2937", Dark: "#f3f4f6"},
	{Name: "muted", Light: "#6b7280", Dark: "#9ca3af"},
	{Name: "dim", Light: "#d1d5db", Dark: "#4b5563"},
	{Name: "success", Light: "#16a34a", Dark: "#4ade80"},
	{Name: "destructive", Light: "#dc2626", Dark: "#dc2626"},
	{Name: "particle", Light: "#d1d5db", Dark: "#4b5563"},
	{Name: "priority low", Light: "#6b7280", Dark: "#6b7280"},
	{Name: "priority medium", Light: "#eab308", Dark: "#eab308"},
	{Name: "priority high", Light: "#ef4444", Dark: "#ef4444"},
}

// Swatches returns every palette color in render order.
func Swatches() []Swatch {
	return slices.Clone(swatches)
}

// Hex returns the swatch color for theme.
func (s Swatch) Hex(theme Theme) string {
	if theme == ThemeDark {
		return s.Dark
	}
	return s.Light
}

func paletteFor(theme Theme) palette {
	colors := make(map[string]color.Color, len(swatches))
	for _, s := range swatches {
		colors[s.Name] = lipgloss.Color(s.Hex(theme))
	}
	return palette{
		accent:      colors["accent"],
		text:        colors["text"],
		muted:       colors["muted"],
		dim:         colors["dim"],
		success:     colors["success"],
		destructive: colors["destructive"],
		particle:    colors["particle"],
		low:         colors["priority low"],
		medium:      colors["priority medium"],
		high:        colors["priority high"],
	}
}

func (p palette) priority(priority domain.Priority) color.Color {
	switch priority {
	case domain.PriorityLow:
		return p.low
	case domain.PriorityHigh:
		return p.high
	default:
		return p.medium
	}
}

func (t Theme) toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// glamourStyle returns the glamour standard style matching the theme.
func (t Theme) glamourStyle() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}
