package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Theme names a color palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Config holds every setting read from config.toml.
type Config struct {
	Board       BoardConfig       `toml:"board"`
	UI          UIConfig          `toml:"ui"`
	Attachments AttachmentsConfig `toml:"attachments"`
	Logging     LoggingConfig     `toml:"logging"`
	Keys        KeyConfig         `toml:"keys"`
}

type BoardConfig struct {
	DefaultPriority string   `toml:"default_priority"` // low | medium | high
	Categories      []string `toml:"categories"`
}

type UIConfig struct {
	Theme         Theme `toml:"theme"`
	Particles     bool  `toml:"particles"`
	ParticleCount int   `toml:"particle_count"`
	ToastSeconds  int   `toml:"toast_seconds"`
	ShowNotes     bool  `toml:"show_notes"`
}

type AttachmentsConfig struct {
	DownloadDir string `toml:"download_dir"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type KeyConfig struct {
	AddTask       string `toml:"add_task"`
	AddCategory   string `toml:"add_category"`
	ToggleDone    string `toml:"toggle_done"`
	RemoveTask    string `toml:"remove_task"`
	CompletedView string `toml:"completed_view"`
	ToggleTheme   string `toml:"toggle_theme"`
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in configuration. downloadDir and logDir come
// from the resolved platform paths.
func Default(downloadDir, logDir string) Config {
	return Config{
		Board: BoardConfig{
			DefaultPriority: "medium",
		},
		UI: UIConfig{
			Theme:         ThemeLight,
			Particles:     true,
			ParticleCount: 100,
			ToastSeconds:  4,
			ShowNotes:     true,
		},
		Attachments: AttachmentsConfig{
			DownloadDir: downloadDir,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: false,
				Dir:     logDir,
			},
		},
		Keys: KeyConfig{
			AddTask:       "n",
			AddCategory:   "N",
			ToggleDone:    "x",
			RemoveTask:    "d",
			CompletedView: "c",
			ToggleTheme:   "t",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.TrimSpace(strings.ToLower(c.Board.DefaultPriority)) {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("invalid board.default_priority: %q", c.Board.DefaultPriority)
	}
	seen := map[string]struct{}{"personal": {}, "work": {}, "completed": {}}
	for idx, name := range c.Board.Categories {
		id := strings.ToLower(strings.TrimSpace(name))
		if id == "" {
			return fmt.Errorf("board.categories[%d] is empty", idx)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("board.categories[%d] is duplicated: %s", idx, id)
		}
		seen[id] = struct{}{}
	}

	switch c.UI.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}
	if c.UI.ParticleCount < 0 || c.UI.ParticleCount > 1000 {
		return fmt.Errorf("ui.particle_count must be between 0 and 1000")
	}
	if c.UI.ToastSeconds < 1 {
		return errors.New("ui.toast_seconds must be >= 1")
	}

	if !slices.Contains(validLogLevels, strings.TrimSpace(strings.ToLower(c.Logging.Level))) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when enabled")
	}

	keys := map[string]string{
		"add_task":       c.Keys.AddTask,
		"add_category":   c.Keys.AddCategory,
		"toggle_done":    c.Keys.ToggleDone,
		"remove_task":    c.Keys.RemoveTask,
		"completed_view": c.Keys.CompletedView,
		"toggle_theme":   c.Keys.ToggleTheme,
	}
	bound := map[string]string{}
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		key := strings.TrimSpace(keys[name])
		if key == "" {
			continue
		}
		if other, ok := bound[key]; ok {
			return fmt.Errorf("keys.%s conflicts with keys.%s on %q", name, other, key)
		}
		bound[key] = name
	}

	return nil
}

// ToastDuration returns how long a notification stays visible.
func (c Config) ToastDuration() time.Duration {
	return time.Duration(max(c.UI.ToastSeconds, 1)) * time.Second
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
