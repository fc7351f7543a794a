// Package where resolves the filesystem locations used by vidshelf.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vidshelf/vidshelf/constant"
	"github.com/vidshelf/vidshelf/filesystem"
)

// Environment overrides for the configuration and data directories.
const (
	EnvConfigPath = "VIDSHELF_CONFIG_PATH"
	EnvDataPath   = "VIDSHELF_DATA_PATH"
)

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honouring VIDSHELF_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Data resolves the directory holding the persisted library state.
// It defaults to a "data" directory next to the configuration.
func Data() string {
	if custom, ok := os.LookupEnv(EnvDataPath); ok {
		return ensureDir(custom)
	}

	return ensureDir(filepath.Join(Config(), "data"))
}

// Store resolves the file backing a single storage key.
func Store(key string) string {
	return filepath.Join(Data(), key+".json")
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Queries resolves the remembered search terms file.
func Queries() string {
	return filepath.Join(Data(), "queries.json")
}

// Temp resolves the volatile directory for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}

// Handles resolves the directory holding local-file handles. Handles outlive a
// session because library entries refer to them, so they sit next to the data.
func Handles() string {
	return ensureDir(filepath.Join(Data(), "handles"))
}
