package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how a command renders to the terminal.
type OutputMode int

const (
	// OutputModePlain writes unstyled text. Used for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without an event loop.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

const fallbackTerminalWidth = 80

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInputTTY reports whether stdin is a terminal.
func IsInputTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// TerminalWidth returns the width of stdout, or 80 when it cannot be determined.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTerminalWidth
	}
	return width
}

// DetectOutputMode picks the output mode for stdout.
//
// plain always wins. noColor or NO_COLOR, TERM=dumb and CI environments
// downgrade to plain. Otherwise a terminal on both stdin and stdout is
// interactive, and forceColor styles non-terminal output.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain || noColor {
		return OutputModePlain
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return OutputModePlain
	}
	if os.Getenv("TERM") == "dumb" || os.Getenv("CI") != "" {
		return OutputModePlain
	}
	if !IsTTY() {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if IsInputTTY() {
		return OutputModeInteractive
	}
	return OutputModeStyled
}
