package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/citypath/internal/adapters/http/routeclient"
	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/internal/form"
	"github.com/okian/citypath/pkg/logger"
)

// Lookup runs one search for cfg.From → cfg.To and prints the outcome to out.
// Validation messages and server-reported errors are printed like any other
// outcome; the returned error is the submission error, if any.
func Lookup(ctx context.Context, cfg *Config, out, progress io.Writer) (route.Outcome, error) {
	if cfg.Format != "" && cfg.Format != FormatText && cfg.Format != FormatHTML {
		return "", fmt.Errorf("%w: %s", ErrUnknownFmt, cfg.Format)
	}

	client, err := routeclient.New(cfg.BaseURL,
		routeclient.WithTimeout(cfg.Timeout),
		routeclient.WithLogger(logger.Get().Named("routeclient")),
	)
	if err != nil {
		return "", err
	}

	view := NewTerminalView(progress)
	h := form.NewHandler(view, client, form.WithLogger(logger.Get().Named("form")))
	outcome, submitErr := h.Submit(ctx, form.Selection{Start: cfg.From, End: cfg.To})

	if err := view.Print(out, cfg.Format); err != nil {
		return outcome, err
	}
	return outcome, submitErr
}
