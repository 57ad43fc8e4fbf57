package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment toggles.
const (
	EnvSkipBuild = "BOOKSTAGE_SKIP_BUILD"
	EnvLogLevel  = "BOOKSTAGE_LOG_LEVEL"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local when present. Variables already set in
// the process environment win.
func loadEnvFiles() {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to load env file", "file", f, "error", err)
			}
			continue
		}
		slog.Debug("Loaded environment variables", "file", f)
	}
}

func applyEnv(cfg *Config) {
	if truthy(os.Getenv(EnvSkipBuild)) && !cfg.Build.Skip {
		slog.Info("Skipping external build due to environment", "var", EnvSkipBuild)
		cfg.Build.Skip = true
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// LogLevel resolves the slog level from the verbose flag and BOOKSTAGE_LOG_LEVEL.
func LogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
