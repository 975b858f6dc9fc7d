package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/citypath/internal/adapters/http/routeclient"
	"github.com/okian/citypath/internal/domain/inflight"
	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/internal/form"
	"github.com/okian/citypath/internal/render"
	"github.com/okian/citypath/pkg/logger"
)

// pair is one ordered, distinct city pair.
type pair struct {
	from string
	to   string
}

func (p pair) key() string { return p.from + "→" + p.to }

// pairs lists every ordered pair of distinct cities.
func pairs(cities []string) []pair {
	out := make([]pair, 0, len(cities)*(len(cities)-1))
	for _, a := range cities {
		for _, b := range cities {
			if a != b {
				out = append(out, pair{from: a, to: b})
			}
		}
	}
	return out
}

// outcomeOrder fixes the order of the summary lines.
var outcomeOrder = []route.Outcome{
	route.OutcomeRoutes,
	route.OutcomeNoRoutes,
	route.OutcomeServerError,
	route.OutcomeTransport,
	route.OutcomeRejected,
	route.OutcomeInvalid,
}

// Sweep submits every ordered pair of cfg.Cities through a worker pool and
// counts the outcomes. Each pair goes through the same form handler flow as
// the page, so the counts match what a user would see.
func Sweep(ctx context.Context, cfg *Config, progress io.Writer) (*Stats, error) {
	if len(cfg.Cities) < 2 {
		return nil, fmt.Errorf("%w: at least two cities are required for a sweep", ErrUsage)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	client, err := routeclient.New(cfg.BaseURL,
		routeclient.WithTimeout(cfg.Timeout),
		routeclient.WithLogger(logger.Get().Named("routeclient")),
	)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(render.WithLogger(logger.Get().Named("render")))
	if err != nil {
		return nil, err
	}
	guard := inflight.NewMemoryGuard(inflight.WithMaxInFlight(workers))

	all := pairs(cfg.Cities)
	stats := &Stats{Pairs: len(all), ByOutcome: make(map[string]int64), StartTime: time.Now()}

	logger.Get().Info(ctx, "starting sweep",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("pairs", len(all)),
		logger.Int("workers", workers))

	var (
		mu         sync.Mutex
		submitted  int64
		paths      int64
		lastReport atomic.Int64
	)

	pairChan := make(chan pair, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for p := range pairChan {
				if ctx.Err() != nil {
					return
				}
				view := &form.State{}
				h := form.NewHandler(view, client,
					form.WithRenderer(renderer),
					form.WithGuard(guard, p.key()),
				)
				outcome, err := h.Submit(ctx, form.Selection{Start: p.from, End: p.to})
				if err != nil {
					logger.Get().Debug(ctx, "pair failed",
						logger.String("from", p.from), logger.String("to", p.to), logger.Error(err))
				}

				mu.Lock()
				stats.ByOutcome[string(outcome)]++
				mu.Unlock()
				if outcome == route.OutcomeRoutes {
					atomic.AddInt64(&paths, int64(countCards(view)))
				}

				done := atomic.AddInt64(&submitted, 1)
				now := time.Now().UnixNano()
				last := lastReport.Load()
				if progress != nil && time.Duration(now-last) >= progressInterval && lastReport.CompareAndSwap(last, now) {
					fmt.Fprintf(progress, "Searched: %d/%d\n", done, len(all))
				}
			}
		}()
	}

	go func() {
		defer close(pairChan)
		for _, p := range all {
			select {
			case <-ctx.Done():
				return
			case pairChan <- p:
			}
		}
	}()

	wg.Wait()

	stats.Paths = atomic.LoadInt64(&paths)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// countCards counts the path cards in the rendered result slot.
func countCards(v *form.State) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(v.Snapshot().Result)))
	if err != nil {
		return 0
	}
	return doc.Find(".path-card").Length()
}

// WriteSummary prints the sweep counts, one line per outcome seen.
func WriteSummary(w io.Writer, s *Stats) error {
	if _, err := fmt.Fprintf(w, "Pairs searched: %d in %s\n", s.Pairs, s.Duration.Round(time.Millisecond)); err != nil {
		return err
	}
	for _, o := range outcomeOrder {
		if n := s.ByOutcome[string(o)]; n > 0 {
			if _, err := fmt.Fprintf(w, "  %-16s %d\n", o, n); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Paths rendered: %d\n", s.Paths)
	return err
}
