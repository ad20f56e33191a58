package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/placedesk/placedesk/internal/engine/batch"
	"github.com/placedesk/placedesk/internal/grid"
	"github.com/placedesk/placedesk/internal/logging"
	"github.com/placedesk/placedesk/internal/metrics"
	"github.com/placedesk/placedesk/internal/placement"
	"github.com/placedesk/placedesk/internal/strapi"
	listview "github.com/placedesk/placedesk/internal/tui/list"
)

const toastDuration = 4 * time.Second

// Record is a grid row that batch actions can name.
type Record interface {
	grid.Row
	Subject() string
}

// ActionKey binds a key to a batch action.
type ActionKey struct {
	Key    string
	Action placement.Action
}

// Screen describes one dashboard grid.
type Screen[T Record] struct {
	Title   string
	Columns []grid.Column[T]
	// Details are extra fields shown only in the detail panel, after Columns.
	Details []grid.Column[T]
	// Fetch loads every row. It runs on open, on refresh and after each batch.
	Fetch   func(ctx context.Context) ([]T, error)
	Actions []ActionKey
	// Dispatcher sends batch actions. The dashboard asks for confirmation
	// itself, so build it with placement.AutoConfirm.
	Dispatcher *placement.Dispatcher
	// History receives every notification. The dispatcher should notify into it.
	History *placement.History
	// Download saves the resume archive for rows. Nil disables the key.
	Download  func(ctx context.Context, rows []T) (string, error)
	ExportDir string
	Metrics   *metrics.Metrics
}

type filterMode int

const (
	filterNone filterMode = iota
	filterQuick
	filterColumn
)

type rowsLoadedMsg[T any] struct {
	rows []T
	err  error
}

type dispatchDoneMsg struct {
	report placement.Report
	err    error
}

// dispatchProgressMsg carries one progress update and the channel to keep reading.
type dispatchProgressMsg struct {
	snapshot batch.ProgressSnapshot
	updates  <-chan batch.ProgressSnapshot
}

type downloadDoneMsg struct {
	path string
	err  error
}

type toastExpiredMsg struct {
	seq int
}

// GridModel is the Bubble Tea model for one selectable, filterable grid.
type GridModel[T Record] struct {
	ctx     context.Context
	screen  Screen[T]
	grid    *grid.Grid[T]
	history *placement.History

	state   ViewState
	loading *LoadingState
	err     error

	table   table.Model
	visible []T
	detail  int

	textInput  textinput.Model
	filterMode filterMode
	// sortStep cycles through every column ascending then descending. -1 is unsorted.
	sortStep int

	pendingAction  placement.Action
	pendingTargets []placement.Target
	// busy is set while a batch, download or refetch is in flight.
	busy bool
	// progress is the latest update of the running batch, read from progressCh.
	progress   *batch.ProgressSnapshot
	progressCh <-chan batch.ProgressSnapshot

	notices  *listview.Model[placement.Notification]
	toast    *placement.Notification
	toastSeq int
	toastTTL time.Duration
	// seen is how many notifications have already been toasted.
	seen int

	width  int
	height int
}

// NewGridModel creates a model that starts loading rows on Init.
func NewGridModel[T Record](ctx context.Context, screen Screen[T]) *GridModel[T] {
	history := screen.History
	if history == nil {
		history = placement.NewHistory(nil)
	}
	m := &GridModel[T]{
		ctx:       ctx,
		screen:    screen,
		grid:      grid.New(screen.Columns),
		history:   history,
		state:     ViewStateLoading,
		loading:   NewLoadingState(),
		textInput: newTextInput(""),
		sortStep:  -1,
		toastTTL:  toastDuration,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.notices = listview.New(history.Items(), m.height-summaryHeight, m.width, renderNotification)
	return m
}

// Init starts the spinner and the first fetch.
func (m *GridModel[T]) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.fetchCmd())
}

// State returns the current view state.
func (m *GridModel[T]) State() ViewState { return m.state }

// Grid returns the underlying grid.
func (m *GridModel[T]) Grid() *grid.Grid[T] { return m.grid }

// Visible returns the rows in table order.
func (m *GridModel[T]) Visible() []T { return m.visible }

// Err returns the load error shown in the error state.
func (m *GridModel[T]) Err() error { return m.err }

// Busy reports whether a batch, download or refetch is in flight.
func (m *GridModel[T]) Busy() bool { return m.busy }

// Toast returns the notification currently shown.
func (m *GridModel[T]) Toast() (placement.Notification, bool) {
	if m.toast == nil {
		return placement.Notification{}, false
	}
	return *m.toast, true
}

// Notifications returns every notification so far.
func (m *GridModel[T]) Notifications() []placement.Notification {
	return m.history.Items()
}

// Update handles messages and updates the model state.
func (m *GridModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.notices.Update(tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-summaryHeight, minHeight)})
		m.rebuildTable()
		return m, nil
	case rowsLoadedMsg[T]:
		return m.handleRowsLoaded(msg)
	case dispatchDoneMsg:
		return m.handleDispatchDone(msg)
	case dispatchProgressMsg:
		return m.handleDispatchProgress(msg)
	case downloadDoneMsg:
		return m.handleDownloadDone(msg)
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil
	}

	switch m.state {
	case ViewStateLoading:
		if isQuitKey(msg) {
			return m.quit()
		}
		return m, m.loading.Update(msg)
	case ViewStateError:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && (isQuitKey(msg) || keyMsg.String() == keyEsc) {
			return m.quit()
		}
		return m, nil
	case ViewStateDetail:
		return m.handleDetailKeypress(msg)
	case ViewStateConfirm:
		return m.handleConfirmKeypress(msg)
	case ViewStateHistory:
		return m.handleHistoryKeypress(msg)
	case ViewStateQuitting:
		return m, nil
	case ViewStateList:
	}

	if m.filterMode != filterNone {
		return m.handleFilterInput(msg)
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleListKeypress(keyMsg)
	}
	return m, nil
}

func isQuitKey(msg tea.Msg) bool {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	s := keyMsg.String()
	return s == keyQuit || s == keyCtrlC
}

func (m *GridModel[T]) quit() (tea.Model, tea.Cmd) {
	m.state = ViewStateQuitting
	return m, tea.Quit
}

func (m *GridModel[T]) handleRowsLoaded(msg rowsLoadedMsg[T]) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		logging.FromContext(m.ctx).Error().Ctx(m.ctx).
			Str("component", "tui").
			Str("operation", "fetch").
			Err(msg.err).
			Msg("loading rows failed")
		if m.state == ViewStateLoading {
			m.state = ViewStateError
			m.err = msg.err
			return m, nil
		}
		return m, m.notify(placement.LevelError, "Refresh failed: "+errorMessage(msg.err))
	}

	m.grid.Replace(msg.rows)
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}
	m.rebuildTable()
	return m, nil
}

func (m *GridModel[T]) handleDispatchDone(msg dispatchDoneMsg) (tea.Model, tea.Cmd) {
	logging.FromContext(m.ctx).Debug().Ctx(m.ctx).
		Str("component", "tui").
		Str("operation", "dispatch").
		Str("action", msg.report.Action).
		Int("succeeded", msg.report.Succeeded).
		Int("failed", msg.report.Failed).
		Msg("batch settled, refetching")

	m.progress = nil
	m.progressCh = nil
	cmds := []tea.Cmd{m.syncNotifications()}
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, placement.ErrNoSelection):
		cmds = append(cmds, m.notify(placement.LevelInfo, placement.MsgNoSelection))
	case errors.Is(msg.err, placement.ErrDeclined):
	default:
		cmds = append(cmds, m.notify(placement.LevelError, errorMessage(msg.err)))
	}

	// Every PUT has settled; reload once.
	m.busy = true
	cmds = append(cmds, m.fetchCmd())
	return m, tea.Batch(cmds...)
}

// handleDispatchProgress keeps the furthest update; callbacks from parallel rows
// can arrive out of order. Updates from an earlier batch are dropped.
func (m *GridModel[T]) handleDispatchProgress(msg dispatchProgressMsg) (tea.Model, tea.Cmd) {
	if msg.updates != m.progressCh {
		return m, nil
	}
	if m.progress == nil || msg.snapshot.ProcessedItems > m.progress.ProcessedItems {
		snapshot := msg.snapshot
		m.progress = &snapshot
	}
	return m, waitForProgress(msg.updates)
}

func waitForProgress(updates <-chan batch.ProgressSnapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return nil
		}
		return dispatchProgressMsg{snapshot: snapshot, updates: updates}
	}
}

func (m *GridModel[T]) handleDownloadDone(msg downloadDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	switch {
	case msg.err == nil:
		return m, m.notify(placement.LevelSuccess, "Resumes saved to "+msg.path)
	case errors.Is(msg.err, placement.ErrNoSelection):
		return m, m.notify(placement.LevelInfo, placement.MsgNoSelection)
	default:
		return m, m.notify(placement.LevelError, errorMessage(msg.err))
	}
}

// errorMessage prefers the server's own message for API errors.
func errorMessage(err error) string {
	var apiErr *strapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (m *GridModel[T]) handleListKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		return m.quit()
	case keyEnter:
		if len(m.visible) > 0 {
			m.detail = m.table.Cursor()
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		return m.openFilter(filterQuick, "Search all columns...", m.grid.QuickFilter())
	case keyF:
		return m.openFilter(filterColumn, "column=value, e.g. status=applied", "")
	case keyS:
		m.cycleSort()
		return m, nil
	case keyEsc:
		m.grid.ClearFilters()
		m.rebuildTable()
		return m, nil
	case keySpace:
		if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.visible) {
			m.grid.Toggle(m.visible[cursor].RowID())
			m.rebuildTable()
		}
		return m, nil
	case keyA:
		if m.grid.AllVisibleSelected() {
			m.grid.DeselectVisible()
		} else {
			m.grid.SelectAllVisible()
		}
		m.rebuildTable()
		return m, nil
	case keyC:
		m.grid.ClearSelection()
		m.rebuildTable()
		return m, nil
	case keyR:
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.fetchCmd()
	case keyE:
		return m, m.export(grid.FormatCSV)
	case keyUpperE:
		return m, m.export(grid.FormatXLSX)
	case keyD:
		return m.startDownload()
	case keyN:
		m.notices.SetItems(m.history.Items())
		m.state = ViewStateHistory
		return m, nil
	}

	for _, binding := range m.screen.Actions {
		if msg.String() == binding.Key {
			return m.startAction(binding.Action)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *GridModel[T]) openFilter(mode filterMode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.filterMode = mode
	m.textInput.Placeholder = placeholder
	m.textInput.SetValue(value)
	m.textInput.Focus()
	return m, textinput.Blink
}

func (m *GridModel[T]) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			var cmd tea.Cmd
			if m.filterMode == filterColumn && strings.TrimSpace(m.textInput.Value()) != "" {
				if err := m.grid.ApplyFilterExpression(m.textInput.Value()); err != nil {
					cmd = m.notify(placement.LevelError, err.Error())
				}
			}
			m.closeFilter()
			return m, cmd
		case keyEsc:
			m.closeFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.filterMode == filterQuick {
		m.grid.SetQuickFilter(m.textInput.Value())
		m.rebuildTable()
	}
	return m, cmd
}

func (m *GridModel[T]) closeFilter() {
	m.filterMode = filterNone
	m.textInput.Blur()
	m.rebuildTable()
}

// cycleSort steps key ascending, key descending, next key, and back to unsorted.
func (m *GridModel[T]) cycleSort() {
	keys := m.grid.ColumnKeys()
	m.sortStep++
	if m.sortStep >= 2*len(keys) {
		m.sortStep = -1
		_ = m.grid.SetSort("", "")
		m.rebuildTable()
		return
	}
	order := grid.SortOrderAsc
	if m.sortStep%2 == 1 {
		order = grid.SortOrderDesc
	}
	_ = m.grid.SetSort(keys[m.sortStep/2], order)
	m.rebuildTable()
}

func (m *GridModel[T]) startAction(action placement.Action) (tea.Model, tea.Cmd) {
	rows := m.grid.SelectionSet()
	if len(rows) == 0 {
		return m, m.notify(placement.LevelInfo, placement.MsgNoSelection)
	}
	if m.busy {
		return m, m.notify(placement.LevelInfo, "Wait for the running operation to finish")
	}
	if m.screen.Dispatcher == nil {
		return m, m.notify(placement.LevelError, "Batch actions are not available")
	}
	m.pendingAction = action
	m.pendingTargets = placement.Targets(rows)
	m.state = ViewStateConfirm
	return m, nil
}

func (m *GridModel[T]) handleConfirmKeypress(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyCtrlC:
		return m.quit()
	case keyY, keyUpperY:
		m.state = ViewStateList
		m.busy = true
		m.progress = &batch.ProgressSnapshot{TotalItems: len(m.pendingTargets)}
		// One update per row, so sends never block.
		updates := make(chan batch.ProgressSnapshot, len(m.pendingTargets))
		m.progressCh = updates
		return m, tea.Batch(m.dispatchCmd(m.pendingAction, m.pendingTargets, updates), waitForProgress(updates))
	default:
		m.state = ViewStateList
		m.pendingTargets = nil
		return m, nil
	}
}

func (m *GridModel[T]) dispatchCmd(
	action placement.Action,
	targets []placement.Target,
	updates chan<- batch.ProgressSnapshot,
) tea.Cmd {
	ctx, d := m.ctx, m.screen.Dispatcher
	return func() tea.Msg {
		defer close(updates)
		report, err := d.DispatchWithProgress(ctx, action, targets, func(s batch.ProgressSnapshot) {
			updates <- s
		})
		return dispatchDoneMsg{report: report, err: err}
	}
}

func (m *GridModel[T]) startDownload() (tea.Model, tea.Cmd) {
	if m.screen.Download == nil {
		return m, nil
	}
	if m.busy {
		return m, m.notify(placement.LevelInfo, "Wait for the running operation to finish")
	}
	m.busy = true
	ctx, download, rows := m.ctx, m.screen.Download, m.grid.SelectionSet()
	return m, func() tea.Msg {
		path, err := download(ctx, rows)
		return downloadDoneMsg{path: path, err: err}
	}
}

// export writes the export rows synchronously; the grid is not safe to read
// from a command goroutine.
func (m *GridModel[T]) export(format string) tea.Cmd {
	path := filepath.Join(m.screen.ExportDir, placement.DefaultExportName(format))
	n, err := placement.Export(m.ctx, m.grid, format, path, m.screen.Metrics)
	if err != nil {
		return m.notify(placement.LevelError, err.Error())
	}
	return m.notify(placement.LevelSuccess, fmt.Sprintf("Exported %d rows to %s", n, path))
}

func (m *GridModel[T]) handleDetailKeypress(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyCtrlC:
		return m.quit()
	case keyEsc, keyQuit, keyEnter:
		m.state = ViewStateList
	case keySpace:
		if m.detail < len(m.visible) {
			m.grid.Toggle(m.visible[m.detail].RowID())
			m.rebuildTable()
		}
	}
	return m, nil
}

func (m *GridModel[T]) handleHistoryKeypress(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyCtrlC:
			return m.quit()
		case keyEsc, keyQuit, keyN:
			m.state = ViewStateList
			return m, nil
		}
	}
	m.notices.Update(msg)
	return m, nil
}

func (m *GridModel[T]) fetchCmd() tea.Cmd {
	ctx, fetch := m.ctx, m.screen.Fetch
	return func() tea.Msg {
		rows, err := fetch(ctx)
		return rowsLoadedMsg[T]{rows: rows, err: err}
	}
}

func (m *GridModel[T]) notify(level, message string) tea.Cmd {
	m.history.Notify(m.ctx, placement.Notification{Level: level, Message: message})
	return m.syncNotifications()
}

// syncNotifications refreshes the history panel and toasts the newest entry.
func (m *GridModel[T]) syncNotifications() tea.Cmd {
	items := m.history.Items()
	m.notices.SetItems(items)
	if len(items) <= m.seen {
		return nil
	}
	m.seen = len(items)
	last := items[len(items)-1]
	m.toast = &last
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *GridModel[T]) rebuildTable() {
	m.visible = m.grid.Visible()
	columns := m.grid.Columns()

	headerBox := checkbox(m.grid.AllVisibleSelected())
	tableColumns := make([]table.Column, 0, len(columns)+2)
	tableColumns = append(tableColumns,
		table.Column{Title: "S.No.", Width: serialColumnWidth},
		table.Column{Title: headerBox, Width: checkboxColumnWidth},
	)
	for _, c := range columns {
		tableColumns = append(tableColumns, table.Column{Title: c.Title, Width: c.Width})
	}

	rows := make([]table.Row, len(m.visible))
	for i, r := range m.visible {
		row := make(table.Row, 0, len(tableColumns))
		row = append(row, strconv.Itoa(i+1), checkbox(m.grid.IsSelected(r.RowID())))
		for _, c := range columns {
			row = append(row, c.Value(r))
		}
		rows[i] = row
	}

	cursor := m.table.Cursor()
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-summaryHeight, minHeight)),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	if len(rows) > 0 {
		t.SetCursor(min(max(cursor, 0), len(rows)-1))
	}
	m.table = t
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func renderNotification(n placement.Notification, cursor bool) string {
	prefix := "  "
	if cursor {
		prefix = "> "
	}
	return prefix + SubtleStyle.Render(n.Time.Format(time.TimeOnly)) + "  " + LevelStyle(n.Level).Render(n.Message)
}

// View renders the current state.
func (m *GridModel[T]) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateError:
		return CriticalStyle.Render("Error: "+errorMessage(m.err)) + "\n\n" + SubtleStyle.Render("Press q to quit")
	case ViewStateDetail:
		return m.renderDetail()
	case ViewStateConfirm:
		return m.renderConfirm()
	case ViewStateHistory:
		return m.renderHistory()
	case ViewStateList:
	}
	return m.renderList()
}

func (m *GridModel[T]) renderList() string {
	parts := []string{m.renderTitle()}
	if m.filterMode != filterNone {
		parts = append(parts, LabelStyle.Render("Filter: ")+m.textInput.View())
	}
	parts = append(parts, m.table.View(), m.renderStatusBar())
	if m.toast != nil {
		parts = append(parts, LevelStyle(m.toast.Level).Render(m.toast.Message))
	}
	parts = append(parts, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *GridModel[T]) renderTitle() string {
	counts := fmt.Sprintf("  %d rows, %d visible, %d selected", m.grid.Len(), len(m.visible), m.grid.SelectedCount())
	title := HeaderStyle.Render(m.screen.Title) + SubtleStyle.Render(counts)
	switch {
	case m.progress != nil:
		title += "  " + InfoStyle.Render(fmt.Sprintf("%d/%d settled, %d failed",
			m.progress.ProcessedItems, m.progress.TotalItems, m.progress.FailedItems))
	case m.busy:
		title += "  " + InfoStyle.Render("working...")
	}
	return title
}

func (m *GridModel[T]) renderStatusBar() string {
	sortText := "none"
	if key, order := m.grid.Sort(); key != "" {
		sortText = key + " " + order
	}
	status := "Sort: " + sortText

	filters := m.grid.Filters()
	if len(filters) > 0 {
		pairs := make([]string, 0, len(filters))
		for _, key := range m.grid.ColumnKeys() {
			if v, ok := filters[key]; ok {
				pairs = append(pairs, key+"="+v)
			}
		}
		status += " | Filters: " + strings.Join(pairs, ", ")
	}
	if q := m.grid.QuickFilter(); q != "" {
		status += " | Search: " + q
	}
	return SubtleStyle.Render(status)
}

func (m *GridModel[T]) renderHelp() string {
	help := make([]string, 0, len(m.screen.Actions)+1)
	for _, binding := range m.screen.Actions {
		help = append(help, binding.Key+" "+binding.Action.Verb)
	}
	if m.screen.Download != nil {
		help = append(help, "d resumes")
	}
	keys := "space select | a all visible | / search | f filter | s sort | e csv | E xlsx | n notifications | r refresh | q quit"
	return SubtleStyle.Render(strings.Join(help, " | ") + "\n" + keys)
}

func (m *GridModel[T]) renderDetail() string {
	if m.detail < 0 || m.detail >= len(m.visible) {
		return CriticalStyle.Render(msgSelectedOutOfBounds)
	}
	r := m.visible[m.detail]

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(r.Subject()))
	content.WriteString("\n\n")
	for _, c := range append(slices.Clip(m.grid.Columns()), m.screen.Details...) {
		content.WriteString(LabelStyle.Render(fmt.Sprintf("%-24s", c.Title+":")))
		content.WriteString(ValueStyle.Render(c.Value(r)))
		content.WriteString("\n")
	}
	content.WriteString(LabelStyle.Render(fmt.Sprintf("%-24s", "Selected:")))
	content.WriteString(ValueStyle.Render(checkbox(m.grid.IsSelected(r.RowID()))))
	content.WriteString("\n\n")
	content.WriteString(SubtleStyle.Render("Press space to toggle selection, ESC to return"))

	return BoxStyle.Width(max(m.width-borderPadding, filterInputWidth)).Render(content.String())
}

func (m *GridModel[T]) renderConfirm() string {
	content := WarningStyle.Render(m.pendingAction.ConfirmMessage(subjects(m.pendingTargets))) +
		"\n\n" + SubtleStyle.Render("Press y to confirm, any other key to cancel")
	return BoxStyle.Width(max(m.width-borderPadding, filterInputWidth)).Render(content)
}

func subjects(targets []placement.Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.Subject
	}
	return out
}

func (m *GridModel[T]) renderHistory() string {
	body := m.notices.View()
	if body == "" {
		body = SubtleStyle.Render("No notifications yet")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render(fmt.Sprintf("Notifications (%d)", m.notices.Len())),
		body,
		SubtleStyle.Render("Press ESC to return"),
	)
}
