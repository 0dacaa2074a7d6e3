// Package platform resolves where hemma keeps its config file and household
// database on each desktop OS.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths locates the config file, the data directory, and the sqlite database
// inside it.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
}

// Options selects the app name and whether dev-mode paths are used.
type Options struct {
	AppName string
	DevMode bool
}

const defaultAppName = "hemma"

// qualifiedName applies the dev-mode suffix so a dev build never shares its
// config or database with an installed copy.
func (o Options) qualifiedName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = defaultAppName
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// Per-OS environment overrides for the base directories. macOS keeps the
// os.UserConfigDir defaults.
var (
	configOverrideKeys = map[string]string{
		"linux":   "XDG_CONFIG_HOME",
		"windows": "APPDATA",
	}
	dataOverrideKeys = map[string]string{
		"linux":   "XDG_DATA_HOME",
		"windows": "LOCALAPPDATA",
	}
)

// DefaultPaths returns the standard paths for the current OS.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves paths for the current OS and options.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir, err := userDataDir(runtime.GOOS, configDir)
	if err != nil {
		return Paths{}, err
	}

	env := map[string]string{
		"XDG_CONFIG_HOME": os.Getenv("XDG_CONFIG_HOME"),
		"XDG_DATA_HOME":   os.Getenv("XDG_DATA_HOME"),
		"APPDATA":         os.Getenv("APPDATA"),
		"LOCALAPPDATA":    os.Getenv("LOCALAPPDATA"),
	}
	return PathsFor(runtime.GOOS, env, configDir, dataDir, opts.qualifiedName())
}

// userDataDir picks the per-OS data root used when no environment override
// is present.
func userDataDir(goos, configDir string) (string, error) {
	switch goos {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("user home dir: %w", err)
		}
		return filepath.Join(home, ".local", "share"), nil
	case "windows":
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			return v, nil
		}
	}
	return configDir, nil
}

// PathsFor resolves the app's paths from explicit base directories and
// environment values. The config file and database live under per-app
// subdirectories, and the database file carries the app name so dev and
// installed databases stay distinguishable in the data dir.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, errors.New("empty base dirs")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, errors.New("empty app name")
	}

	configBase := overrideBase(goos, env, configOverrideKeys, userConfigDir)
	dataBase := overrideBase(goos, env, dataOverrideKeys, userDataDir)

	appDataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    appDataDir,
		DBPath:     filepath.Join(appDataDir, appName+".db"),
	}, nil
}

// overrideBase returns the environment override for one base directory when
// the OS defines one and it is set.
func overrideBase(goos string, env map[string]string, keys map[string]string, fallback string) string {
	key, ok := keys[goos]
	if !ok {
		return fallback
	}
	if v := env[key]; v != "" {
		return v
	}
	return fallback
}
