package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/detent/runview/internal/icons"
	"github.com/mattn/go-isatty"
)

// Semantic color palette.
const (
	ColorBrand   = "42"  // Green
	ColorMuted   = "240" // Dark gray
	ColorSuccess = "42"  // Green
	ColorError   = "203" // Red
	ColorWarning = "214" // Orange
	ColorAccent  = "45"  // Cyan
)

var (
	brandStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrand)).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// glyphs maps built-in icon names to terminal symbols.
var glyphs = map[string]string{
	icons.BuiltinPass:          "✓",
	icons.BuiltinError:         "✗",
	icons.BuiltinCircleSlash:   "⊘",
	icons.BuiltinPrimitiveDot:  "•",
	icons.BuiltinBell:          "🔔",
	icons.BuiltinSyncSpin:      "↻",
	icons.BuiltinCircle:        "○",
	icons.BuiltinCircleOutline: "◌",
}

// Glyph returns the terminal symbol for a built-in icon name.
func Glyph(name string) string {
	if g, ok := glyphs[name]; ok {
		return g
	}
	return glyphs[icons.BuiltinCircle]
}

func glyphStyle(name string) lipgloss.Style {
	switch name {
	case icons.BuiltinPass:
		return successStyle
	case icons.BuiltinError:
		return errorStyle
	case icons.BuiltinBell, icons.BuiltinPrimitiveDot:
		return warningStyle
	case icons.BuiltinSyncSpin:
		return accentStyle
	}
	return mutedStyle
}

// Printer writes human-readable output, styling it only when the
// destination is a terminal.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a Printer for w. Color is enabled when w is a terminal
// and NO_COLOR is unset.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: isTerminal(w) && os.Getenv("NO_COLOR") == ""}
}

// NewPlainPrinter creates a Printer that never emits color.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}
