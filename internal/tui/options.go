package tui

import (
	"math/rand/v2"
	"time"

	"github.com/hylla/todoboard/internal/domain"
)

type Option func(*Model)

// WithTheme selects the initial palette. Unknown names keep the light theme.
func WithTheme(theme Theme) Option {
	return func(m *Model) {
		switch theme {
		case ThemeLight, ThemeDark:
			m.theme = theme
		}
	}
}

// WithParticles enables the animated particle band with count particles.
func WithParticles(count int, seed uint64) Option {
	return func(m *Model) {
		if count <= 0 {
			m.particleCount = 0
			return
		}
		m.particleCount = count
		m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithToastTTL sets how long notifications stay visible.
func WithToastTTL(ttl time.Duration) Option {
	return func(m *Model) {
		if ttl > 0 {
			m.toastTTL = ttl
		}
	}
}

// WithClock overrides the time source used for toasts and due presets.
func WithClock(clock func() time.Time) Option {
	return func(m *Model) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithKeyConfig applies user key overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClipboard sets the function used to copy task text.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithShowNotes toggles note previews under each task.
func WithShowNotes(show bool) Option {
	return func(m *Model) {
		m.showNotes = show
	}
}

// WithDefaultPriority sets the priority new task forms start with.
func WithDefaultPriority(priority domain.Priority) Option {
	return func(m *Model) {
		if p, err := domain.ParsePriority(string(priority)); err == nil {
			m.defaultPriority = p
		}
	}
}
