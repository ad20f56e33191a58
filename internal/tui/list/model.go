package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item. cursor is true for the item under the cursor.
type RenderFunc[T any] func(item T, cursor bool) string

// Model is a scrollable list with a cursor.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]

	cursor int
	// offset is the index of the first row in the viewport.
	offset int

	height int
	width  int
}

// New creates a list showing height rows at a time.
func New[T any](items []T, height, width int, render RenderFunc[T]) *Model[T] {
	m := &Model[T]{
		items:  items,
		render: render,
		height: max(height, 1),
		width:  width,
	}
	m.clamp()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and follows resizes.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.height = max(msg.Height, 1)
		m.width = msg.Width
		m.clamp()
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys move the cursor.
func (m *Model[T]) handleKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyUp:
		m.cursor--
	case tea.KeyDown:
		m.cursor++
	case tea.KeyPgUp:
		m.cursor -= m.height
	case tea.KeyPgDown:
		m.cursor += m.height
	case tea.KeyHome:
		m.cursor = 0
	case tea.KeyEnd:
		m.cursor = len(m.items) - 1
	case tea.KeyRunes:
		switch msg.String() {
		case "k":
			m.cursor--
		case "j":
			m.cursor++
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.items) - 1
		}
	default:
	}
	m.clamp()
}

// clamp keeps the cursor on an item and inside the viewport.
func (m *Model[T]) clamp() {
	if len(m.items) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(m.cursor, 0), len(m.items)-1)

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = min(max(m.offset, 0), max(len(m.items)-m.height, 0))
}

// SetItems replaces the items. A cursor on the last item follows new items
// appended at the end.
func (m *Model[T]) SetItems(items []T) {
	tail := len(m.items) == 0 || m.cursor == len(m.items)-1
	m.items = items
	if tail {
		m.cursor = len(items) - 1
	}
	m.clamp()
}

// View renders the rows inside the viewport.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	end := min(m.offset+m.height, len(m.items))

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.render(m.items[i], i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

// Len returns the number of items.
func (m *Model[T]) Len() int { return len(m.items) }

// Cursor returns the index under the cursor.
func (m *Model[T]) Cursor() int { return m.cursor }

// Offset returns the index of the first visible row.
func (m *Model[T]) Offset() int { return m.offset }

// Height returns the viewport height in rows.
func (m *Model[T]) Height() int { return m.height }

// Width returns the viewport width in columns.
func (m *Model[T]) Width() int { return m.width }

// SetCursor moves the cursor, clamped to the items.
func (m *Model[T]) SetCursor(i int) {
	m.cursor = i
	m.clamp()
}

// SelectedItem returns the item under the cursor.
func (m *Model[T]) SelectedItem() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}
