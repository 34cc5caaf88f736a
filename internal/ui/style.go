package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// CriticalMarker flags critical activities in tables.
const CriticalMarker = "⚡"

// PrintLogo renders the colored netzplan banner.
func PrintLogo(w io.Writer) {
	frame := color.New(color.FgCyan)
	nodes := color.New(color.FgYellow)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +-----------------------------+")
	nodes.Fprintln(w, "   |  [ ]--[ ]--[ ]--[ ]--[ ]    |")
	nodes.Fprintln(w, "   |    \\______[ ]______/        |")
	brand.Fprintln(w, "   |  N  E  T  Z  P  L  A  N     |")
	frame.Fprintln(w, "   +-----------------------------+")
	tag.Fprintln(w, "   Critical path scheduling")
	fmt.Fprintln(w)
}

// SetEnabled forces colored output on or off.
func SetEnabled(enabled bool) {
	color.NoColor = !enabled
}

// Critical returns the highlighted marker for critical activities, or a blank
// of the same width.
func Critical(critical bool) string {
	if critical {
		return BoldYellow(CriticalMarker)
	}
	return " "
}

// Float colors a float value: red when zero, dim otherwise.
func Float(v int) string {
	s := fmt.Sprintf("%d", v)
	if v == 0 {
		return Red(s)
	}
	return Dim(s)
}

// WaveStatus returns a colored label for a wave.
func WaveStatus(critical bool) string {
	if critical {
		return BoldRed("critical")
	}
	return Green("slack")
}
