// Package config loads the runtime configuration for the search service
// from the environment.
package config

import (
	"os"

	"github.com/gcbaptista/dirsearch/internal/errors"
)

const (
	defaultServerPort = "8080"
	defaultWatchDir    = "./watched_directory"
)

// Settings holds the environment-derived configuration for the service.
type Settings struct {
	ServerPort string
	WatchDir   string
}

// Load reads SERVER_PORT and WATCH_DIR from the environment, applying
// defaults, and validates that the watch directory exists.
func Load() (*Settings, error) {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = defaultServerPort
	}

	dir := os.Getenv("WATCH_DIR")
	if dir == "" {
		dir = defaultWatchDir
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewConfigError("WATCH_DIR", "directory '"+dir+"' does not exist: "+err.Error())
	}
	if !info.IsDir() {
		return nil, errors.NewConfigError("WATCH_DIR", "'"+dir+"' is not a directory")
	}

	return &Settings{ServerPort: port, WatchDir: dir}, nil
}
