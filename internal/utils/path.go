package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// AppName names the config directory.
const AppName = "wordgrid"

// UserConfigDir returns the platform config directory for the app.
func UserConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, ".config", AppName)
	}
}

// WithExtension lowercases path and appends ext unless it already ends with it.
func WithExtension(path, ext string) string {
	path = strings.ToLower(path)
	if !strings.HasSuffix(path, ext) {
		path += ext
	}
	return path
}

// ResolveFile finds a relative path under the working directory, the
// executable directory or any of extraDirs, in that order. Absolute paths
// and paths that cannot be found anywhere come back unchanged so the caller
// reports the original name.
func ResolveFile(path string, extraDirs ...string) string {
	if path == "" || filepath.IsAbs(path) || FileExists(path) {
		return path
	}

	var candidates []string
	if execDir, err := GetExecutableDir(); err == nil {
		candidates = append(candidates, execDir)
	}
	candidates = append(candidates, extraDirs...)

	for _, dir := range candidates {
		full := filepath.Join(dir, path)
		if FileExists(full) {
			log.Debugf("Resolved %s to %s", path, full)
			return full
		}
		log.Debugf("Candidate not found: %s", full)
	}
	return path
}
