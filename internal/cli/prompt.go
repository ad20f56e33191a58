package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/placedesk/placedesk/internal/placement"
	"github.com/placedesk/placedesk/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading input failed.
	Cancelled bool
}

// Confirm writes message followed by "[y/N]" and reads one line from reader.
// Anything other than y or yes declines, including an empty line and EOF.
// When reader is the process stdin and stdin is not a terminal, it declines
// without prompting.
func Confirm(writer io.Writer, reader io.Reader, message string) PromptResult {
	if f, ok := reader.(*os.File); ok && f == os.Stdin && !tui.IsInputTTY() {
		return PromptResult{Accepted: false}
	}

	fmt.Fprintf(writer, "%s [y/N] ", message)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// promptConfirmer asks on the terminal before a batch action is sent.
type promptConfirmer struct {
	writer io.Writer
	reader io.Reader
}

// Confirm implements placement.Confirmer.
func (p promptConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	result := Confirm(p.writer, p.reader, message)
	if result.Cancelled {
		return false, fmt.Errorf("reading confirmation: %w", io.ErrUnexpectedEOF)
	}
	return result.Accepted, nil
}

// newConfirmer returns AutoConfirm for --yes and a terminal prompt otherwise.
func newConfirmer(yes bool, writer io.Writer, reader io.Reader) placement.Confirmer {
	if yes {
		return placement.AutoConfirm
	}
	return promptConfirmer{writer: writer, reader: reader}
}

// writerNotifier prints one line per notification. Batch workers notify
// concurrently, so writes are serialized.
type writerNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newWriterNotifier(w io.Writer) *writerNotifier {
	return &writerNotifier{w: w}
}

// Notify implements placement.Notifier.
func (n *writerNotifier) Notify(_ context.Context, note placement.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, tui.LevelStyle(note.Level).Render(note.Message))
}
