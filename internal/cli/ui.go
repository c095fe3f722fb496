package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kbmatrix/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes styled summary lines for humans. Records never go through
// it; they are written by the pipeline.
type printer struct {
	w io.Writer
}

func (p printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// success prints a success message.
func (p printer) success(format string, args ...any) {
	p.println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// errorf prints an error message.
func (p printer) errorf(format string, args ...any) {
	p.println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// warning prints a warning message.
func (p printer) warning(format string, args ...any) {
	p.println(styleIconWarning.Render(iconWarning) + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

// info prints an info/status message.
func (p printer) info(format string, args ...any) {
	p.println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line.
func (p printer) detail(format string, args ...any) {
	p.println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints an output file line.
func (p printer) file(path string) {
	p.println("  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

// nextStep prints a suggested next command.
func (p printer) nextStep(description, cmd string) {
	p.println(styleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func (p printer) newline() {
	p.println("")
}

// =============================================================================
// Summaries
// =============================================================================

// counts prints a one-line summary such as "2 found · 1 written · 1 skipped".
func (p printer) counts(found, written, skipped int) {
	parts := []string{
		styleNumber.Render(fmt.Sprint(found)) + styleDim.Render(" found"),
		styleNumber.Render(fmt.Sprint(written)) + styleDim.Render(" written"),
	}
	if skipped > 0 {
		parts = append(parts, styleWarning.Render(fmt.Sprintf("%d skipped", skipped)))
	}
	p.println("  " + strings.Join(parts, styleDim.Render(" · ")))
}

// skips prints one detail line per error code, most frequent first.
func (p printer) skips(counts map[errors.Code]int) {
	codes := make([]errors.Code, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	for _, code := range codes {
		p.detail("%d × %s", counts[code], code)
	}
}
