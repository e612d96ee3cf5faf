// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/samber/lo"
)

// Environment variable identifiers used to override the default directories.
const (
	EnvConfigPath = "EPISODL_CONFIG_PATH"
	EnvDataPath   = "EPISODL_DATA_PATH"
)

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It can be explicitly overridden via the EPISODL_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Episodl))
}

// Data resolves the directory holding persisted state such as the ad-block extension and its version marker.
// It can be explicitly overridden via the EPISODL_DATA_PATH environment variable.
func Data() string {
	if custom, ok := os.LookupEnv(EnvDataPath); ok {
		return ensureDir(custom)
	}

	base, err := os.UserHomeDir()
	if err != nil {
		return ensureDir(filepath.Join(Config(), "data"))
	}
	return ensureDir(filepath.Join(base, ".local", "share", constant.Episodl))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		// Fallback: Revert to a localized cache directory if the system-provided path is inaccessible.
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Episodl))
}

// Browsers resolves the directory where downloaded Chrome and ChromeDriver builds are unpacked.
func Browsers() string {
	return ensureDir(filepath.Join(Cache(), "browsers"))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Temp resolves a volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Episodl))
}
