package cli

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/citypath/internal/form"
)

// TerminalView is the form view of the CLI. Slot contents are kept in memory
// and printed once the submission completes; the loading indicator goes to
// the progress writer as it happens.
type TerminalView struct {
	form.State
	progress io.Writer
}

// NewTerminalView creates a view; progress may be nil.
func NewTerminalView(progress io.Writer) *TerminalView {
	return &TerminalView{progress: progress}
}

// SetLoading records the indicator and announces the search.
func (v *TerminalView) SetLoading(active bool) {
	v.State.SetLoading(active)
	if active && v.progress != nil {
		fmt.Fprintln(v.progress, "Searching for routes...")
	}
}

// Print writes the error or the result slot to w in the given format.
func (v *TerminalView) Print(w io.Writer, format string) error {
	snap := v.Snapshot()
	switch format {
	case FormatHTML:
		if snap.Error != "" {
			_, err := fmt.Fprintln(w, snap.Error)
			return err
		}
		_, err := fmt.Fprintln(w, snap.Result)
		return err
	case FormatText, "":
		if snap.Error != "" {
			msg, err := textOf(snap.Error)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, "Error: "+msg)
			return err
		}
		return writeResultText(w, snap.Result)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFmt, format)
	}
}

func textOf(fragment template.HTML) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(fragment)))
	if err != nil {
		return "", err
	}
	return collapse(doc.Text()), nil
}

// writeResultText prints one block per path card:
//
//	⭐ Optimal  Route 1
//	  Nouakchott → Atar  400 km
func writeResultText(w io.Writer, fragment template.HTML) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(fragment)))
	if err != nil {
		return err
	}

	var b strings.Builder
	if h := collapse(doc.Find(".result h3").Text()); h != "" {
		b.WriteString(h + "\n")
	}
	doc.Find(".path-card").Each(func(_ int, card *goquery.Selection) {
		badge := collapse(card.Find(".badge").Text())
		title := collapse(card.Find(".path-header strong").Text())
		fmt.Fprintf(&b, "%s  %s\n", badge, title)

		line := collapse(card.Find(".route").Text()) + "  " + collapse(card.Find(".distance").Text()) + " km"
		if diff := collapse(card.Find(".difference").Text()); diff != "" {
			line += " " + diff
		}
		b.WriteString("  " + line + "\n")
	})
	if doc.Find("img.route-image").Length() > 0 {
		b.WriteString("Route visualization available with -format html\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
