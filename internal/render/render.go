// Package render turns route responses and messages into HTML fragments.
//
// Rendered output depends only on the arguments. Markup lives in embedded html/template files; values are escaped by the
// template engine.
package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/okian/citypath/internal/domain/route"
	"github.com/okian/citypath/pkg/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const imagePrefix = "data:image/png;base64,"

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl   *template.Template
	logger logger.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used to report dropped image payloads.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New parses the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	tmpl, err := template.New("citypath").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	r := &Renderer{tmpl: tmpl, logger: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNew is New for package initialization; it panics on a broken template.
func MustNew(opts ...Option) *Renderer {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// card is the view model of one path.
type card struct {
	Rank       int
	Optimal    bool
	Badge      string
	BadgeClass string
	Route      string
	Distance   string
	Difference string
	Percentage string
}

type resultsView struct {
	Cards    []card
	ImageSrc template.URL
}

// Results renders the path list, in the order received, followed by the
// visualization when the response carries a valid base64 image.
func (r *Renderer) Results(resp route.Response) (template.HTML, error) {
	view := resultsView{Cards: make([]card, 0, len(resp.AllPaths))}

	for i, p := range resp.AllPaths {
		view.Cards = append(view.Cards, newCard(i, p))
	}
	src, err := imageSource(resp.ImageData)
	if err != nil {
		r.logger.Debug(context.Background(), "dropping invalid image payload",
			logger.Int("payload_bytes", len(resp.ImageData)), logger.Error(err))
	}
	view.ImageSrc = src

	return r.execute("results", view)
}

// Error renders a message into the error slot markup.
func (r *Renderer) Error(message string) template.HTML {
	out, err := r.execute("error", message)
	if err != nil {
		// The error template has no failure mode besides a broken writer.
		return template.HTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`) //nolint:gosec // escaped above
	}
	return out
}

// PageData is everything the full document needs.
type PageData struct {
	Title          string
	Cities         []string
	Start          string
	End            string
	Loading        bool
	SubmitDisabled bool
	Result         template.HTML
	Error          template.HTML
}

// Page writes the full document hosting the form and the result slots.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("%w: page: %w", ErrExecute, err)
	}
	return nil
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExecute, name, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

func newCard(index int, p route.Path) card {
	c := card{
		Rank:     index + 1,
		Optimal:  p.Optimal,
		Route:    p.RouteStr,
		Distance: FormatNumber(p.Distance),
	}
	if p.Optimal {
		c.Badge = "⭐ Optimal"
		c.BadgeClass = "optimal"
		return c
	}

	c.Badge = fmt.Sprintf("Alternative %d", index)
	c.BadgeClass = "alternative"
	c.Difference = FormatNumber(deref(p.Difference))
	c.Percentage = FormatPercent(deref(p.Percentage))
	return c
}

// imageSource builds the data URL for a base64 PNG payload. An empty payload
// yields no image; an invalid one yields no image and ErrImagePayload.
func imageSource(payload string) (template.URL, error) {
	if payload == "" {
		return "", nil
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return "", fmt.Errorf("%w: %w", ErrImagePayload, err)
	}
	return template.URL(imagePrefix + payload), nil //nolint:gosec // validated base64 alphabet
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
