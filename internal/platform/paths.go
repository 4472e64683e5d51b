package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultAppName is the directory name used when no override is given.
const DefaultAppName = "todoboard"

// Paths represents paths data used by this package.
type Paths struct {
	ConfigPath  string
	DataDir     string
	LogDir      string
	DownloadDir string
}

// Options defines optional settings for configuration.
type Options struct {
	AppName string
	DevMode bool
}

// DefaultPaths returns default paths.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{AppName: DefaultAppName})
}

// DefaultPathsWithOptions returns default paths with options.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	appName := strings.TrimSpace(opts.AppName)
	if appName == "" {
		appName = DefaultAppName
	}
	if opts.DevMode {
		appName += "-dev"
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user home dir: %w", err)
	}
	dataDir := configDir
	if runtime.GOOS == "linux" {
		dataDir = filepath.Join(home, ".local", "share")
	}

	env := map[string]string{
		"XDG_CONFIG_HOME":  os.Getenv("XDG_CONFIG_HOME"),
		"XDG_DATA_HOME":    os.Getenv("XDG_DATA_HOME"),
		"XDG_DOWNLOAD_DIR": os.Getenv("XDG_DOWNLOAD_DIR"),
		"APPDATA":          os.Getenv("APPDATA"),
		"LOCALAPPDATA":     os.Getenv("LOCALAPPDATA"),
	}
	return PathsFor(runtime.GOOS, env, Bases{Config: configDir, Data: dataDir, Home: home}, appName)
}

// Bases holds the per-user base directories paths are derived from.
type Bases struct {
	Config string
	Data   string
	Home   string
}

// PathsFor resolves application paths for goos from env and the user bases.
func PathsFor(goos string, env map[string]string, bases Bases, appName string) (Paths, error) {
	if bases.Config == "" || bases.Data == "" || bases.Home == "" {
		return Paths{}, fmt.Errorf("empty base dirs")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}

	configBase := bases.Config
	dataBase := bases.Data
	downloads := filepath.Join(bases.Home, "Downloads")

	switch goos {
	case "linux":
		if v := env["XDG_CONFIG_HOME"]; v != "" {
			configBase = v
		}
		if v := env["XDG_DATA_HOME"]; v != "" {
			dataBase = v
		}
		if v := env["XDG_DOWNLOAD_DIR"]; v != "" {
			downloads = v
		}
	case "windows":
		if v := env["APPDATA"]; v != "" {
			configBase = v
		}
		if v := env["LOCALAPPDATA"]; v != "" {
			dataBase = v
		}
	case "darwin":
		// Keep os.UserConfigDir defaults for macOS.
	}

	appDataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath:  filepath.Join(configBase, appName, "config.toml"),
		DataDir:     appDataDir,
		LogDir:      filepath.Join(appDataDir, "logs"),
		DownloadDir: downloads,
	}, nil
}
