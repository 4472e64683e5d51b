// Package main prints the board palettes so theme tweaks can be checked in a real terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hylla/todoboard/internal/tui"
)

func main() {
	fmt.Println("=== TODOBOARD THEMES ===")
	fmt.Println(renderPalette(tui.Swatches()))

	fmt.Println("\n\n=== ANSI 256 COLORS ===")
	display256Colors(os.Stdout)
}

// renderPalette builds the light/dark table for swatches.
func renderPalette(swatches []tui.Swatch) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("Name", "Light", "Dark", "Sample").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
			}
			return lipgloss.NewStyle()
		})

	for _, s := range swatches {
		light := s.Hex(tui.ThemeLight)
		dark := s.Hex(tui.ThemeDark)
		sample := swatchSample(light, "0") + " " + swatchSample(dark, "15")
		t.Row(s.Name, light, dark, sample)
	}
	return t.Render()
}

func swatchSample(hex, fg string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(fg)).
		Width(10).
		Align(lipgloss.Center).
		Render(hex)
}

func display256Colors(w io.Writer) {
	fmt.Fprintln(w, "Standard 16 Colors:")
	fmt.Fprint(w, colorBlock(0, 15, 8))

	fmt.Fprintln(w, "\n216 Color Cube (16-231):")
	for i := 0; i < 6; i++ {
		fmt.Fprintln(w, colorBlock(16+i*36, 16+(i+1)*36-1, 6))
	}

	fmt.Fprintln(w, "Grayscale (232-255):")
	fmt.Fprint(w, colorBlock(232, 255, 12))
}

// colorBlock renders colors start..end, perRow to a line.
func colorBlock(start, end, perRow int) string {
	var b strings.Builder
	count := 0
	for i := start; i <= end; i++ {
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(strconv.Itoa(i))).
			Foreground(contrastColor(i)).
			Width(6).
			Align(lipgloss.Center)
		b.WriteString(style.Render(fmt.Sprintf("%3d", i)))

		count++
		if count%perRow == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	if count%perRow != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// contrastColor picks white text for dark backgrounds and black otherwise.
func contrastColor(colorIndex int) lipgloss.Color {
	switch {
	case colorIndex < 16:
		if colorIndex == 0 || colorIndex == 1 || colorIndex == 4 || colorIndex == 5 || colorIndex == 8 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	case colorIndex >= 232:
		if colorIndex < 244 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	default:
		return lipgloss.Color("15")
	}
}
