package placement

import (
	"context"
	"sync"
	"time"
)

// Notification levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// MsgNoSelection is shown when an action is attempted with nothing selected.
const MsgNoSelection = "No row selected"

// Notification is a short user-facing message, shown as a toast in the dashboard
// and as a line on stderr in the CLI.
type Notification struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Notifier receives notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Confirmer asks the user to approve a batch action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, message string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AutoConfirm approves every action. Used for --yes and for a dashboard that has
// already shown its own confirmation.
var AutoConfirm Confirmer = ConfirmerFunc(func(context.Context, string) (bool, error) { //nolint:gochecknoglobals // Stateless.
	return true, nil
})

// History is a Notifier that keeps every notification in arrival order.
type History struct {
	mu    sync.Mutex
	items []Notification
	next  Notifier
}

// NewHistory returns a History that also forwards to next when it is non-nil.
func NewHistory(next Notifier) *History {
	return &History{next: next}
}

// Notify implements Notifier.
func (h *History) Notify(ctx context.Context, n Notification) {
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	h.mu.Lock()
	h.items = append(h.items, n)
	h.mu.Unlock()
	if h.next != nil {
		h.next.Notify(ctx, n)
	}
}

// Items returns a copy of the notifications received so far.
func (h *History) Items() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Notification, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of notifications received.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}
