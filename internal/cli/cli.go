package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/citypath/pkg/logger"
)

// SetupLogging sends logs to stderr, and to logFile as well when set.
// Verbose runs log at debug level; quiet ones only warnings and errors.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
	}

	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for routes-cli.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `citypath route lookup tool
==========================

Runs route searches against a route service (or a citypath server, which
proxies the same endpoint) the way the web form does.

Usage:
  routes-cli -from CITY -to CITY [options]
  routes-cli -all-pairs [options]

Options:
  -url string
        Base URL of the route service (default "http://localhost:8000")
  -from string
        Start city
  -to string
        End city
  -format string
        Output of a single lookup: text or html (default "text")
  -all-pairs
        Search every ordered pair of cities and print counts by outcome
  -cities string
        Comma separated cities for -all-pairs (default: the built-in list)
  -workers int
        Concurrent searches during -all-pairs (default CPU cores * 2)
  -timeout duration
        Per-request timeout (default 30s)
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging and progress lines
  -help
        Show this help message

Examples:
  routes-cli -from Nouakchott -to Atar
  routes-cli -from Nouakchott -to Atar -format html > routes.html
  routes-cli -all-pairs -workers 16 -url http://localhost:8080
`)
}
