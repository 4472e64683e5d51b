package tui

import (
	"math/rand/v2"
	"strings"

	"charm.land/lipgloss/v2"
)

const (
	defaultParticleCount = 100
	particleBandHeight   = 3
	// particleStep scales per-frame velocity into terminal cells.
	particleStep = 0.2
)

type particle struct {
	x, y   float64
	dx, dy float64
	size   float64
}

// particleField is the decorative band drawn above the board. It has no
// effect on board state.
type particleField struct {
	width     int
	height    int
	particles []particle
}

func newParticleField(count, width, height int, rng *rand.Rand) particleField {
	f := particleField{width: max(width, 0), height: max(height, 0)}
	if count <= 0 || f.width == 0 || f.height == 0 {
		return f
	}
	f.particles = make([]particle, 0, count)
	for range count {
		f.particles = append(f.particles, particle{
			x:    rng.Float64() * float64(f.width),
			y:    rng.Float64() * float64(f.height),
			dx:   rng.Float64()*3 - 1.5,
			dy:   rng.Float64()*3 - 1.5,
			size: rng.Float64()*5 + 1,
		})
	}
	return f
}

// step advances every particle one frame, wrapping at the edges.
func (f particleField) step() particleField {
	next := particleField{width: f.width, height: f.height, particles: make([]particle, len(f.particles))}
	w, h := float64(f.width), float64(f.height)
	for idx, p := range f.particles {
		p.x += p.dx * particleStep
		p.y += p.dy * particleStep
		if p.x > w {
			p.x = 0
		} else if p.x < 0 {
			p.x = w
		}
		if p.y > h {
			p.y = 0
		} else if p.y < 0 {
			p.y = h
		}
		next.particles[idx] = p
	}
	return next
}

func (f particleField) render(style lipgloss.Style) string {
	if f.width <= 0 || f.height <= 0 {
		return ""
	}
	grid := make([][]rune, f.height)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", f.width))
	}
	for _, p := range f.particles {
		col := min(int(p.x), f.width-1)
		row := min(int(p.y), f.height-1)
		grid[row][col] = particleGlyph(p.size)
	}
	lines := make([]string, 0, f.height)
	for _, row := range grid {
		lines = append(lines, style.Render(string(row)))
	}
	return strings.Join(lines, "\n")
}

func particleGlyph(size float64) rune {
	switch {
	case size < 2.5:
		return '·'
	case size < 4.5:
		return '•'
	default:
		return '●'
	}
}
