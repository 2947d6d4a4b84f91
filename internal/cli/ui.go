package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all user-facing output.
var stdout io.Writer = os.Stdout

// Palette, named after what it colors in the sky.
var (
	colorStar   = lipgloss.Color("221") // pale gold
	colorAurora = lipgloss.Color("43")  // green-teal
	colorNebula = lipgloss.Color("141") // violet
	colorFlare  = lipgloss.Color("203") // red
	colorLink   = lipgloss.Color("111") // sky blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorStar)
	StyleLink    = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorNebula)

	styleSpinner = lipgloss.NewStyle().Foreground(colorStar)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// status is a one-line message kind: its icon, icon color and whether the
// message body is tinted too.
type status struct {
	icon  string
	style lipgloss.Style
	tint  bool
}

var (
	statusOK   = status{icon: "✓", style: lipgloss.NewStyle().Foreground(colorAurora)}
	statusFail = status{icon: "✗", style: lipgloss.NewStyle().Foreground(colorFlare)}
	statusWarn = status{icon: "!", style: StyleWarning, tint: true}
	statusInfo = status{icon: "›", style: lipgloss.NewStyle().Foreground(colorMuted)}
)

func (s status) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.tint {
		msg = s.style.Render(msg)
	}
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusOK.print(format, args...) }
func printError(format string, args ...any)   { statusFail.print(format, args...) }
func printWarning(format string, args ...any) { statusWarn.print(format, args...) }
func printInfo(format string, args ...any)    { statusInfo.print(format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N nodes · M links · T ticks"; ticks is omitted when zero.
func printStats(nodes, links, ticks int) {
	parts := []string{fmt.Sprintf("%d nodes", nodes), fmt.Sprintf("%d links", links)}
	if ticks > 0 {
		parts = append(parts, fmt.Sprintf("%d ticks", ticks))
	}
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}
