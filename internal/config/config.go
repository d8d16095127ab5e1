package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by QGF_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// Variables already set in the process environment win.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("QGF_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; every setting has a default.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

// DatabasePath returns the SQLite game log path.
// Empty means no game log is recorded.
func DatabasePath() string {
	return os.Getenv("QGF_DB")
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := strings.ToLower(os.Getenv("QGF_LOG_LEVEL"))
	if level == "" {
		return "info"
	}
	return level
}

// SlogLevel maps LogLevel onto a slog.Level. Unknown values mean info.
func SlogLevel() slog.Level {
	switch LogLevel() {
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

// DefaultDifficulty returns the display difficulty used when a setup
// file leaves it unset. Defaults to 0; out-of-range values also mean 0.
func DefaultDifficulty() int {
	d, err := strconv.Atoi(os.Getenv("QGF_DIFFICULTY"))
	if err != nil || d < 0 || d > 3 {
		return 0
	}
	return d
}
