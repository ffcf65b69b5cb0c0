package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/feluda/pkg/licenses"
)

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorBad    = lipgloss.Color("167")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

// Styles shared by the report, the cache commands and the results browser.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
	StyleDanger  = lipgloss.NewStyle().Foreground(colorBad)

	styleHeader  = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// marker is the colored glyph that prefixes a status line.
type marker struct {
	glyph string
	style lipgloss.Style
	tint  bool // also color the message
}

var (
	markOK   = marker{"✓", StyleSuccess, false}
	markFail = marker{"✗", StyleDanger, false}
	markWarn = marker{"!", StyleWarning, true}
	markNote = marker{"›", lipgloss.NewStyle().Foreground(colorMuted), false}
)

func (m marker) println(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if m.tint {
		msg = m.style.Render(msg)
	}
	fmt.Fprintln(w, m.style.Render(m.glyph)+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) { markOK.println(w, format, args...) }
func printError(w io.Writer, format string, args ...any)   { markFail.println(w, format, args...) }
func printWarning(w io.Writer, format string, args ...any) { markWarn.println(w, format, args...) }
func printInfo(w io.Writer, format string, args ...any)    { markNote.println(w, format, args...) }

// printDetail prints an indented, dimmed line under a status message.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// licenseStyle colors a record by its worst finding.
func licenseStyle(info licenses.Info) lipgloss.Style {
	switch {
	case info.Compatibility == licenses.Incompatible, info.Restrictive:
		return StyleDanger
	case !info.Known():
		return StyleWarning
	default:
		return StyleValue
	}
}

// statusLabel is the short verdict column of the report.
func statusLabel(info licenses.Info) string {
	switch {
	case info.Compatibility == licenses.Incompatible:
		return "incompatible"
	case info.Restrictive:
		return "restrictive"
	case !info.Known():
		return "unknown"
	default:
		return "ok"
	}
}
