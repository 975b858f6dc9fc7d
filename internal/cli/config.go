package cli

import "time"

// Config holds the flags of one routes-cli invocation.
type Config struct {
	BaseURL  string        // Base URL of the route service or of a citypath server
	From     string        // Start city for a single lookup
	To       string        // End city for a single lookup
	Format   string        // Output format of a single lookup: text or html
	AllPairs bool          // Sweep every ordered pair of Cities instead of one lookup
	Cities   []string      // Cities swept by AllPairs
	Workers  int           // Concurrent searches during a sweep
	Timeout  time.Duration // Per-request timeout
	LogFile  string        // Optional file receiving a copy of the log
	Verbose  bool          // Enable debug logging and progress lines
}

// Stats holds sweep statistics.
type Stats struct {
	Pairs     int
	ByOutcome map[string]int64
	Paths     int64
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
