package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Color palette
const (
	ColorBorder = "240"
	ColorHeader = "252"
	ColorID     = "214"
	ColorName   = "81"
	ColorOK     = "82"
	ColorFail   = "196"
	ColorWarn   = "214"
	ColorMuted  = "240"
	ColorHint   = "245"
	ColorLink   = "75"
)

// Shared styles
var (
	BorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeader))
	IDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorID))
	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorName))
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOK))
	FailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorFail))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	HintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint))
	LinkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLink))
)

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// padToWidth pads or truncates a line to exactly the given width
func padToWidth(s string, width int) string {
	return padRight(s, width)
}
