package internal

import (
	"log/slog"
	"strconv"
	"sync/atomic"
)

var (
	quietMode   atomic.Bool // Only warnings and errors are logged.
	debugMode   atomic.Bool // Debug records, including streamed command output, are logged.
	verboseMode atomic.Bool // Log records carry source locations.
)

// Seeds the runtime modes from linker flags.
//
// rawQuiet, rawDebug and rawVerbose are set with -ldflags -X. Values that do
// not parse as booleans are ignored.
func init() {
	seeds := []struct {
		raw  string
		mode *atomic.Bool
	}{
		{rawQuiet, &quietMode},
		{rawDebug, &debugMode},
		{rawVerbose, &verboseMode},
	}
	for _, s := range seeds {
		if v, err := strconv.ParseBool(s.raw); err == nil {
			s.mode.Store(v)
		}
	}
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) {
	quietMode.Store(enabled)
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Enables or disables debug mode.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Enables or disables verbose logging.
func SetVerbose(enabled bool) {
	verboseMode.Store(enabled)
}

// Returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}

// Returns the log level implied by the current modes. Debug wins over quiet.
func LogLevel() slog.Level {
	if IsDebug() {
		return slog.LevelDebug
	}
	if IsQuiet() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
