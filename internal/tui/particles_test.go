package tui

import (
	"math/rand/v2"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestNewParticleFieldDeterministic(t *testing.T) {
	a := newParticleField(defaultParticleCount, 40, particleBandHeight, rand.New(rand.NewPCG(7, 11)))
	b := newParticleField(defaultParticleCount, 40, particleBandHeight, rand.New(rand.NewPCG(7, 11)))
	if len(a.particles) != defaultParticleCount {
		t.Fatalf("expected %d particles, got %d", defaultParticleCount, len(a.particles))
	}
	for idx := range a.particles {
		if a.particles[idx] != b.particles[idx] {
			t.Fatalf("particle %d differs for the same seed", idx)
		}
		p := a.particles[idx]
		if p.dx < -1.5 || p.dx >= 1.5 || p.size < 1 || p.size >= 6 {
			t.Fatalf("particle %d out of range: %#v", idx, p)
		}
	}
}

func TestNewParticleFieldEmpty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	if f := newParticleField(0, 40, 3, rng); len(f.particles) != 0 {
		t.Fatalf("expected no particles, got %d", len(f.particles))
	}
	if f := newParticleField(10, 0, 3, rng); f.render(lipgloss.NewStyle()) != "" {
		t.Fatal("expected empty render for zero width")
	}
}

func TestParticleFieldStepWraps(t *testing.T) {
	f := particleField{width: 10, height: 3, particles: []particle{
		{x: 9.9, y: 1, dx: 1.5, dy: 0, size: 1},
		{x: 0.1, y: 2.95, dx: -1.5, dy: 1, size: 3},
	}}
	next := f.step()
	if got := next.particles[0].x; got != 0 {
		t.Fatalf("expected wrap to left edge, got %v", got)
	}
	if got := next.particles[1].x; got != 10 {
		t.Fatalf("expected wrap to right edge, got %v", got)
	}
	if got := next.particles[1].y; got != 0 {
		t.Fatalf("expected wrap to top edge, got %v", got)
	}
	if f.particles[0].x != 9.9 {
		t.Fatal("expected step to leave the source field untouched")
	}
}

func TestParticleFieldRender(t *testing.T) {
	f := particleField{width: 5, height: 2, particles: []particle{
		{x: 0, y: 0, size: 1},
		{x: 4.9, y: 1.9, size: 5},
	}}
	lines := strings.Split(f.render(lipgloss.NewStyle()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "·    " || lines[1] != "    ●" {
		t.Fatalf("unexpected render %q", lines)
	}
}
