package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// autoLogFile is the value --log-file takes when given without a path.
const autoLogFile = "auto"

// debugConfig is read from the environment before flags are parsed.
type debugConfig struct {
	LogFile  string `env:"MDHTML_LOG_FILE"`
	LogLevel string `env:"MDHTML_LOG_LEVEL" envDefault:"warn"`
}

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "mdhtml").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mdhtml.log"), nil
}

// setupLog builds the CLI logger. Records go to stderr unless a log file is
// configured; verbose forces the debug level.
func setupLog(stderr io.Writer, logFile, level string, verbose bool) (*log.Logger, func() error, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if verbose {
		lvl = log.DebugLevel
	}
	closer := func() error { return nil }
	out := stderr
	if logFile != "" {
		if logFile == autoLogFile {
			if logFile, err = getLogFilePath(); err != nil {
				return nil, nil, err
			}
		}
		logFile = normalizePath(logFile)
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closer = f.Close
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           lvl,
		Prefix:          "mdhtml",
		ReportTimestamp: logFile != "",
	})
	return logger, closer, nil
}

func loadDebugConfig() (debugConfig, error) {
	cfg, err := env.ParseAs[debugConfig]()
	if err != nil {
		return debugConfig{}, fmt.Errorf("error parsing environment: %w", err)
	}
	return cfg, nil
}
