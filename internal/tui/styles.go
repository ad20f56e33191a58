package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/placedesk/placedesk/internal/placement"
)

// Palette.
const (
	ColorHeader    = lipgloss.Color("12")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("14")
	ColorSuccess   = lipgloss.Color("10")
	ColorWarning   = lipgloss.Color("11")
	ColorCritical  = lipgloss.Color("9")
	ColorBorder    = lipgloss.Color("62")
)

//nolint:gochecknoglobals // lipgloss styles are immutable values shared by every view.
var (
	HeaderStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	InfoStyle     = lipgloss.NewStyle().Foreground(ColorHighlight)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	CriticalStyle = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)
)

//nolint:gochecknoglobals // See above.
var BoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

//nolint:gochecknoglobals // See above.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorHeader).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(ColorMuted)

//nolint:gochecknoglobals // See above.
var TableSelectedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("229")).
	Background(ColorBorder)

// LevelStyle returns the style a notification level renders with.
func LevelStyle(level string) lipgloss.Style {
	switch level {
	case placement.LevelSuccess:
		return SuccessStyle
	case placement.LevelError:
		return CriticalStyle
	default:
		return InfoStyle
	}
}
