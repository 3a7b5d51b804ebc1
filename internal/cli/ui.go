package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/skilltree/pkg/progression"
)

// stdout receives all command output except logs and the spinner.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Shared styles.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// stateStyles colours progression states in tables and the play view.
var stateStyles = map[progression.State]lipgloss.Style{
	progression.StateLocked:   lipgloss.NewStyle().Foreground(colorDim),
	progression.StateEligible: lipgloss.NewStyle().Foreground(colorBlue),
	progression.StatePartial:  lipgloss.NewStyle().Foreground(colorYellow),
	progression.StateMaxed:    lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
}

// renderState renders a state as its icon and label.
func renderState(st progression.State) string {
	return stateStyles[st].Render(st.Icon() + " " + st.Label())
}

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func outln(s string) {
	fmt.Fprintln(stdout, s)
}

func outf(format string, args ...any) {
	fmt.Fprintf(stdout, format, args...)
}

func printSuccess(format string, args ...any) {
	outln(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	outln(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	outln(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	outln(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under the previous message.
func printDetail(format string, args ...any) {
	outln("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	outln("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	outln(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints skill and connection counts and whether the result came
// from the cache, e.g. "3 skills · 2 connections · cached".
func printStats(skillCount, connectionCount int, cached bool) {
	var parts []string
	if skillCount > 0 {
		parts = append(parts, fmt.Sprintf("%d skills", skillCount))
	}
	if connectionCount > 0 {
		parts = append(parts, fmt.Sprintf("%d connections", connectionCount))
	}
	if cached {
		parts = append(parts, "cached")
	} else {
		parts = append(parts, "fresh")
	}
	outln("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	outln(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	outln("")
}
