package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/citypath/pkg/logger"
)

// Run executes a single lookup or, with AllPairs, a sweep.
func Run(ctx context.Context, cfg *Config, out, progress io.Writer) error {
	if !cfg.Verbose {
		progress = nil
	}

	if cfg.AllPairs {
		stats, err := Sweep(ctx, cfg, progress)
		if stats != nil {
			if werr := WriteSummary(out, stats); werr != nil {
				return werr
			}
		}
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		return nil
	}

	if cfg.From == "" && cfg.To == "" {
		return fmt.Errorf("%w: -from and -to are required unless -all-pairs is set", ErrUsage)
	}

	outcome, err := Lookup(ctx, cfg, out, progress)
	logger.Get().Debug(ctx, "lookup finished",
		logger.String("from", cfg.From),
		logger.String("to", cfg.To),
		logger.String("outcome", string(outcome)))
	return err
}
