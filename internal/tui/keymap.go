package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig carries user overrides for the configurable bindings.
type KeyConfig struct {
	AddTask       string
	AddCategory   string
	ToggleDone    string
	RemoveTask    string
	CompletedView string
	ToggleTheme   string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit          key.Binding
	toggleHelp    key.Binding
	prevCategory  key.Binding
	nextCategory  key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	addTask       key.Binding
	addCategory   key.Binding
	toggleDone    key.Binding
	removeTask    key.Binding
	completedView key.Binding
	taskInfo      key.Binding
	preview       key.Binding
	download      key.Binding
	copyText      key.Binding
	toggleTheme   key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		prevCategory:  key.NewBinding(key.WithKeys("h", "left", "shift+tab"), key.WithHelp("h/←", "prev category")),
		nextCategory:  key.NewBinding(key.WithKeys("l", "right", "tab"), key.WithHelp("l/→", "next category")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		addCategory:   key.NewBinding(key.WithKeys("N", "shift+n"), key.WithHelp("N", "new category")),
		toggleDone:    key.NewBinding(key.WithKeys("x", " ", "space"), key.WithHelp("x/space", "toggle done")),
		removeTask:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove task")),
		completedView: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed tasks")),
		taskInfo:      key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		preview:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview file")),
		download:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "download file")),
		copyText:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		toggleTheme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "light/dark")),
	}
}

// applyConfig rebinds the configurable actions. Blank values and values equal
// to the built-in key keep the default binding with its aliases.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	overrides := []struct {
		binding  *key.Binding
		raw      string
		fallback string
		desc     string
	}{
		{&k.addTask, cfg.AddTask, "n", "new task"},
		{&k.addCategory, cfg.AddCategory, "N", "new category"},
		{&k.toggleDone, cfg.ToggleDone, "x", "toggle done"},
		{&k.removeTask, cfg.RemoveTask, "d", "remove task"},
		{&k.completedView, cfg.CompletedView, "c", "completed tasks"},
		{&k.toggleTheme, cfg.ToggleTheme, "t", "light/dark"},
	}
	for _, o := range overrides {
		raw := strings.TrimSpace(o.raw)
		if raw == "" || raw == o.fallback {
			continue
		}
		configureBinding(o.binding, raw, o.fallback, o.desc)
	}
}

// parseBindingKeys turns a configured key into matcher keys and help text.
// Single uppercase runes also match their shift alias.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = fallback
	}
	switch {
	case value == " " || strings.EqualFold(value, "space"):
		return []string{" ", "space"}, "space"
	case utf8.RuneCountInString(value) == 1:
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	default:
		return []string{strings.ToLower(value)}, value
	}
}

// configureBinding replaces b's keys with the configured override.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.toggleDone, k.removeTask, k.completedView, k.addCategory, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.addCategory, k.toggleDone, k.removeTask, k.completedView},
		{k.prevCategory, k.nextCategory, k.moveUp, k.moveDown},
		{k.taskInfo, k.preview, k.download, k.copyText},
		{k.toggleTheme, k.toggleHelp, k.quit},
	}
}
