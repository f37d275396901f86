// Package report renders forecast results for the terminal or as JSON.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format selects the rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want %s or %s)", s, FormatTable, FormatJSON)
}

// Column padding for tables.
const tabwriterPadding = 2

// Decimal places for emissions values.
const co2Precision = 3

// NoComparableMessage is printed when a related-rates run finds no
// benchmark country.
const NoComparableMessage = "no comparable country: %s has no benchmark with a similar GDP per capita"

// Renderer writes reports to one writer in one format.
type Renderer struct {
	w       io.Writer
	format  Format
	printer *message.Printer
	title   lipgloss.Style
	muted   lipgloss.Style
}

// New returns a Renderer writing to w. Styles are dropped automatically
// when w is not a terminal.
func New(w io.Writer, format Format) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:       w,
		format:  format,
		printer: message.NewPrinter(language.English),
		title:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Faint(true),
	}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format {
	return r.format
}

// number formats v with thousand separators and the given precision.
// Example: number(1234.5, 2) returns "1,234.50".
func (r *Renderer) number(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	whole, frac, _ := strings.Cut(s, ".")
	negative := strings.HasPrefix(whole, "-")

	n, err := strconv.ParseInt(strings.TrimPrefix(whole, "-"), 10, 64)
	if err != nil {
		return s
	}
	out := r.printer.Sprintf("%d", n)
	if negative {
		out = "-" + out
	}
	if frac != "" {
		out += "." + frac
	}
	return out
}

func (r *Renderer) integer(n int64) string {
	return r.printer.Sprintf("%d", n)
}

func (r *Renderer) heading(format string, args ...any) error {
	_, err := fmt.Fprintln(r.w, r.title.Render(fmt.Sprintf(format, args...)))
	return err
}

func (r *Renderer) note(format string, args ...any) error {
	_, err := fmt.Fprintln(r.w, r.muted.Render(fmt.Sprintf(format, args...)))
	return err
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, tabwriterPadding, ' ', 0)
}

func (r *Renderer) writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	out = append(out, '\n')
	_, err = r.w.Write(out)
	return err
}
