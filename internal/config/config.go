package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

// EnvFile is the local environment file consulted before the process
// environment. Its absence is not an error.
const EnvFile = ".env"

// ErrMissingAPIKey is returned when VPNAPI_KEY is unset or empty after
// loading the environment.
var ErrMissingAPIKey = errors.New("VPNAPI_KEY environment variable is required")

// Config holds the process configuration. The API key is carried explicitly
// so lookups never reach into ambient process state.
type Config struct {
	APIKey   string
	MMDBPath string
	Port     string
	LogLevel string
}

// Load reads configuration from the local env file (if present) and the
// process environment. A missing API key is a fatal precondition for the
// caller; no network activity may happen before this succeeds.
func Load() (*Config, error) {
	_ = godotenv.Load(EnvFile)

	key := os.Getenv("VPNAPI_KEY")
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		APIKey:   key,
		MMDBPath: os.Getenv("MMDB_PATH"),
		Port:     port,
		LogLevel: os.Getenv("LOG_LEVEL"),
	}, nil
}

// ReloadAPIKey re-reads the env file, letting its values override the
// current environment, and returns the fresh key. Used on watcher events.
func ReloadAPIKey() (string, error) {
	_ = godotenv.Overload(EnvFile)

	key := os.Getenv("VPNAPI_KEY")
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}

// Watch invokes onChange whenever the env file is written or recreated.
// The parent directory is watched because editors typically replace the
// file instead of writing it in place. The returned watcher must be closed
// by the caller.
func Watch(path string, onChange func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return watcher, nil
}
