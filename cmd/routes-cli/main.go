package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/citypath/internal/cli"
	"github.com/okian/citypath/internal/config"
)

// Default configuration constants.
const (
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultTimeout = 30 * time.Second
	defaultRunTime = 30 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8000", "Base URL of the route service")
		from     = flag.String("from", "", "Start city")
		to       = flag.String("to", "", "End city")
		format   = flag.String("format", cli.FormatText, "Output of a single lookup: text or html")
		allPairs = flag.Bool("all-pairs", false, "Search every ordered pair of cities")
		cities   = flag.String("cities", "", "Comma separated cities for -all-pairs")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent searches during -all-pairs")
		timeout  = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		logFile  = flag.String("log", "", "Also write logs to this file")
		verbose  = flag.Bool("verbose", false, "Enable debug logging and progress lines")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	if err := cli.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTime)
	defer cancel()

	cfg := &cli.Config{
		BaseURL:  *baseURL,
		From:     *from,
		To:       *to,
		Format:   *format,
		AllPairs: *allPairs,
		Cities:   config.DefaultCities,
		Workers:  *workers,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}
	if *cities != "" {
		cfg.Cities = splitCities(*cities)
	}

	if err := cli.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		os.Stderr.WriteString("routes-cli: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func splitCities(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
