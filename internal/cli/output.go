package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/princespaghetti/hfetch/internal/fetcher"
	"github.com/princespaghetti/hfetch/internal/logging"
)

// Styles for the diagnostic stream. They are only applied when it is a terminal.
var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// printer writes the human-readable diagnostics. The response body never
// goes through it.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styled: logging.IsTerminal(w)}
}

func (p *printer) colorize(style lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return style.Render(text)
}

// Notice prints an informational line.
func (p *printer) Notice(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...) // Ignore write errors - diagnostics only
}

// Fetching announces the address about to be requested.
func (p *printer) Fetching(url string) {
	_, _ = fmt.Fprintf(p.w, "%s %q...\n", p.colorize(labelStyle, "Fetching"), url)
}

// Status prints the protocol version and status line.
func (p *printer) Status(resp *fetcher.Response) {
	_, _ = fmt.Fprintf(p.w, "%s %s %s\n",
		p.colorize(labelStyle, "Response:"),
		resp.Proto,
		p.colorize(statusStyle(resp.StatusCode), resp.Status))
}

// Headers prints every header field in the order given, then a blank line.
func (p *printer) Headers(h fetcher.Header) {
	_, _ = fmt.Fprintln(p.w, p.colorize(labelStyle, "Headers:"))
	for _, f := range h {
		_, _ = fmt.Fprintf(p.w, "  %s %s\n", p.colorize(nameStyle, f.Name+":"), f.Value)
	}
	_, _ = fmt.Fprintln(p.w)
}

func statusStyle(code int) lipgloss.Style {
	switch {
	case code >= 200 && code < 400:
		return successStyle
	case code >= 400 && code < 500:
		return warningStyle
	case code >= 500:
		return errorStyle
	default:
		return labelStyle
	}
}
