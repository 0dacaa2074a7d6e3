// Package tui renders the household board and drives keyboard dragging.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"

	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/dnd"
	"github.com/hylla/hemma/internal/domain"
)

// Service represents service data used by this package.
type Service interface {
	BuildBoard(context.Context) (domain.Board, error)
	ApplyMove(context.Context, dnd.Move) error
	CreateTask(context.Context, app.CreateTaskInput) (domain.Task, error)
	CompleteTask(context.Context, string) (domain.Task, error)
	ReopenTask(context.Context, string) (domain.Task, error)
	DeleteTask(context.Context, string, app.DeleteMode) error
	DeleteEvent(context.Context, string, app.DeleteMode) error
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddTask
	modeItemInfo
)

// moveInbox buffers the move emitted by the tracker during DragEnd so the
// update loop can turn it into a command. The tracker emits synchronously
// and at most once per session, so a single slot suffices.
type moveInbox struct {
	move dnd.Move
	set  bool
}

func (b *moveInbox) put(mv dnd.Move) {
	b.move = mv
	b.set = true
}

func (b *moveInbox) take() (dnd.Move, bool) {
	if !b.set {
		return dnd.Move{}, false
	}
	mv := b.move
	b.move = dnd.Move{}
	b.set = false
	return mv, true
}

// Model represents model data used by this package.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	sensors           dnd.SensorConfig
	defaultDeleteMode app.DeleteMode

	board        domain.Board
	selectedLane int
	selectedItem int

	tracker *dnd.Tracker
	inbox   *moveInbox
	// hoverLane/hoverIndex track the keyboard drag cursor. hoverIndex may
	// equal the lane's item count, which targets the bottom of the lane.
	hoverLane  int
	hoverIndex int

	mode       inputMode
	titleInput textinput.Model
	infoItemID string

	renderer *markdownRenderer
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	board domain.Board
	err   error
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err    error
	status string
	reload bool
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, logger *log.Logger, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	titleInput := textinput.New()
	titleInput.Prompt = "title: "
	titleInput.Placeholder = "what needs doing?"
	titleInput.CharLimit = 160

	inbox := &moveInbox{}
	m := Model{
		svc:               svc,
		status:            "loading...",
		help:              h,
		keys:              newKeyMap(defaultKeyBindings()),
		sensors:           dnd.DefaultSensors(),
		defaultDeleteMode: app.DeleteModeArchive,
		tracker:           dnd.NewTracker(inbox.put, logger),
		inbox:             inbox,
		titleInput:        titleInput,
		renderer:          &markdownRenderer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadBoard
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.board = msg.board
		m.clampSelection()
		if m.tracker.Dragging() {
			// The dragged item may have vanished in the reload.
			if _, ok := m.board.ItemByID(m.activeDragID()); !ok {
				m.tracker.DragCancel()
				m.status = "drag canceled: item disappeared"
			}
		}
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.reload {
			return m, m.loadBoard
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		if m.tracker.Dragging() {
			return m.handleDragModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// handleNormalModeKey handles one key press outside drag and input modes.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadBoard
	case key.Matches(msg, m.keys.left):
		if m.selectedLane > 0 {
			m.selectedLane--
			m.selectedItem = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.right):
		if m.selectedLane < len(m.board.Columns)-1 {
			m.selectedLane++
			m.selectedItem = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if items := m.laneItems(m.selectedLane); m.selectedItem < len(items)-1 {
			m.selectedItem++
		}
		return m, nil
	case key.Matches(msg, m.keys.up):
		if m.selectedItem > 0 {
			m.selectedItem--
		}
		return m, nil
	case key.Matches(msg, m.keys.pickUp):
		return m.startDrag()
	case key.Matches(msg, m.keys.addTask):
		m.mode = modeAddTask
		m.titleInput.SetValue("")
		m.status = "new task"
		return m, m.titleInput.Focus()
	case key.Matches(msg, m.keys.itemInfo):
		if item, ok := m.currentItem(); ok {
			m.mode = modeItemInfo
			m.infoItemID = item.ID
		}
		return m, nil
	case key.Matches(msg, m.keys.toggleDone):
		return m.toggleDone()
	case key.Matches(msg, m.keys.deleteItem):
		return m.deleteCurrent()
	case key.Matches(msg, m.keys.copyID):
		if item, ok := m.currentItem(); ok {
			return m, copyIDCmd(item.ID)
		}
		return m, nil
	default:
		return m, nil
	}
}

// handleDragModeKey handles one key press while a drag session is active.
// arrows steer the hover target, drop ends the session, cancel discards it.
func (m Model) handleDragModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.tracker.DragCancel()
		m.status = "drag canceled"
		return m, nil
	case key.Matches(msg, m.keys.quit):
		m.tracker.DragCancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.left):
		if m.hoverLane > 0 {
			m.hoverLane--
			m.hoverIndex = m.clampHover(m.hoverLane, m.hoverIndex)
		}
		m.tracker.DragOver(m.board, m.hoverTargetID())
		return m, nil
	case key.Matches(msg, m.keys.right):
		if m.hoverLane < len(m.board.Columns)-1 {
			m.hoverLane++
			m.hoverIndex = m.clampHover(m.hoverLane, m.hoverIndex)
		}
		m.tracker.DragOver(m.board, m.hoverTargetID())
		return m, nil
	case key.Matches(msg, m.keys.down):
		if m.hoverIndex < len(m.laneItems(m.hoverLane)) {
			m.hoverIndex++
		}
		m.tracker.DragOver(m.board, m.hoverTargetID())
		return m, nil
	case key.Matches(msg, m.keys.up):
		if m.hoverIndex > 0 {
			m.hoverIndex--
		}
		m.tracker.DragOver(m.board, m.hoverTargetID())
		return m, nil
	case key.Matches(msg, m.keys.drop), key.Matches(msg, m.keys.pickUp):
		m.tracker.DragEnd(m.board, m.hoverTargetID())
		if mv, ok := m.inbox.take(); ok {
			m.status = "moving..."
			return m, m.applyMoveCmd(mv)
		}
		m.status = "ready"
		return m, nil
	default:
		return m, nil
	}
}

// handleInputModeKey handles key presses while a text form or overlay is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddTask:
		switch msg.String() {
		case "esc":
			m.mode = modeNone
			m.titleInput.Blur()
			m.status = "ready"
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.titleInput.Value())
			m.mode = modeNone
			m.titleInput.Blur()
			if title == "" {
				m.status = "ready"
				return m, nil
			}
			lane, ok := m.currentLane()
			if !ok {
				m.status = "no lane selected"
				return m, nil
			}
			m.status = "creating..."
			return m, m.createTaskCmd(lane.ID, title)
		default:
			var cmd tea.Cmd
			m.titleInput, cmd = m.titleInput.Update(msg)
			return m, cmd
		}
	case modeItemInfo:
		switch msg.String() {
		case "esc", "i", "q", "enter":
			m.mode = modeNone
			m.infoItemID = ""
			return m, nil
		default:
			return m, nil
		}
	default:
		m.mode = modeNone
		return m, nil
	}
}

// startDrag begins a keyboard drag session on the focused item.
func (m Model) startDrag() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	if !item.Draggable() {
		m.status = "this item cannot be moved"
		return m, nil
	}
	if !m.sensors.Keyboard.Enabled {
		return m, nil
	}
	if !m.tracker.DragStart(m.board, item.ID) {
		return m, nil
	}
	m.hoverLane = m.selectedLane
	m.hoverIndex = m.selectedItem
	m.tracker.DragOver(m.board, m.hoverTargetID())
	m.status = "carrying: " + item.Title
	return m, nil
}

// toggleDone flips the done marker on the focused item when it has one.
func (m Model) toggleDone() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	if !item.Completable() {
		m.status = "this item has no done state"
		return m, nil
	}
	m.status = "updating..."
	if item.Done {
		return m, m.reopenTaskCmd(item.ID)
	}
	return m, m.completeTaskCmd(item.ID)
}

// deleteCurrent deletes the focused item with the configured delete mode.
func (m Model) deleteCurrent() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	switch item.Kind {
	case domain.ItemKindTask:
		m.status = "deleting..."
		return m, m.deleteTaskCmd(item.ID)
	case domain.ItemKindEvent:
		m.status = "deleting..."
		return m, m.deleteEventCmd(item.ID)
	default:
		m.status = "feed rows and birthday cards cannot be deleted here"
		return m, nil
	}
}

// hoverTargetID resolves the drag cursor into a drop target id: the item
// occupying the hovered slot, or the lane itself when hovering the bottom.
func (m Model) hoverTargetID() string {
	if m.hoverLane < 0 || m.hoverLane >= len(m.board.Columns) {
		return ""
	}
	lane := m.board.Columns[m.hoverLane]
	if m.hoverIndex >= 0 && m.hoverIndex < len(lane.Items) {
		return lane.Items[m.hoverIndex].ID
	}
	return lane.ID
}

// clampHover bounds a hover index against the target lane's slot count.
func (m Model) clampHover(lane, index int) int {
	return clamp(index, 0, len(m.laneItems(lane)))
}

// clampSelection bounds the focus cursor after a reload.
func (m *Model) clampSelection() {
	m.selectedLane = clamp(m.selectedLane, 0, len(m.board.Columns)-1)
	m.selectedItem = clamp(m.selectedItem, 0, len(m.laneItems(m.selectedLane))-1)
	m.hoverLane = clamp(m.hoverLane, 0, len(m.board.Columns)-1)
	m.hoverIndex = m.clampHover(m.hoverLane, m.hoverIndex)
}

func (m Model) laneItems(lane int) []domain.Item {
	if lane < 0 || lane >= len(m.board.Columns) {
		return nil
	}
	return m.board.Columns[lane].Items
}

func (m Model) currentLane() (domain.BoardColumn, bool) {
	if m.selectedLane < 0 || m.selectedLane >= len(m.board.Columns) {
		return domain.BoardColumn{}, false
	}
	return m.board.Columns[m.selectedLane], true
}

func (m Model) currentItem() (domain.Item, bool) {
	items := m.laneItems(m.selectedLane)
	if m.selectedItem < 0 || m.selectedItem >= len(items) {
		return domain.Item{}, false
	}
	return items[m.selectedItem], true
}

func (m Model) activeDragID() string {
	if item, ok := m.tracker.ActiveItem(); ok {
		return item.ID
	}
	return ""
}

// loadBoard rebuilds the projection from the service.
func (m Model) loadBoard() tea.Msg {
	board, err := m.svc.BuildBoard(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{board: board}
}

func (m Model) applyMoveCmd(mv dnd.Move) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.ApplyMove(context.Background(), mv); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "moved " + mv.Item.Title, reload: true}
	}
}

func (m Model) createTaskCmd(columnID, title string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.CreateTask(context.Background(), app.CreateTaskInput{
			ColumnID: columnID,
			Title:    title,
		})
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "created " + task.Title, reload: true}
	}
}

func (m Model) completeTaskCmd(taskID string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.CompleteTask(context.Background(), taskID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "done: " + task.Title, reload: true}
	}
}

func (m Model) reopenTaskCmd(taskID string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.ReopenTask(context.Background(), taskID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "reopened: " + task.Title, reload: true}
	}
}

func (m Model) deleteTaskCmd(taskID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeleteTask(context.Background(), taskID, m.defaultDeleteMode); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "task deleted", reload: true}
	}
}

func (m Model) deleteEventCmd(eventID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeleteEvent(context.Background(), eventID, m.defaultDeleteMode); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "event deleted", reload: true}
	}
}

func copyIDCmd(itemID string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(itemID); err != nil {
			return actionMsg{err: fmt.Errorf("copy item id: %w", err)}
		}
		return actionMsg{status: "copied " + itemID}
	}
}

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("212")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("hemma")
	if active, ok := m.tracker.ActiveItem(); ok {
		header += statusStyle.Render("  carrying: " + truncate(active.Title, 40))
	}

	lanes := make([]string, 0, len(m.board.Columns))
	laneWidth := m.laneWidth()
	for idx := range m.board.Columns {
		lanes = append(lanes, m.renderLane(idx, laneWidth, accent, muted, dim))
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, lanes...)

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 1).
		Render(helpBubble.View(m.keys))

	sections := []string{header, "", boardView, statusStyle.Render(m.status), helpLine}
	content := strings.Join(sections, "\n")

	if m.mode == modeItemInfo {
		if overlay := m.renderItemInfo(muted); overlay != "" {
			content = content + "\n\n" + overlay
		}
	}
	if m.mode == modeAddTask {
		content = content + "\n" + m.titleInput.View()
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderLane renders one lane with focus, drag source, and hover marker.
func (m Model) renderLane(idx, width int, accent, muted, dim color.Color) string {
	lane := m.board.Columns[idx]
	dragging := m.tracker.Dragging()
	activeID := m.activeDragID()

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		MarginRight(1).
		Width(width)
	focused := !dragging && idx == m.selectedLane
	hovered := dragging && idx == m.hoverLane
	if focused || hovered {
		border = border.BorderForeground(accent)
	}

	titleLine := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(lane.Name)
	if !lane.AcceptsDrop {
		titleLine += lipgloss.NewStyle().Foreground(muted).Render("  (locked)")
	}

	selectedStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	readOnlyStyle := lipgloss.NewStyle().Foreground(muted)
	carriedStyle := lipgloss.NewStyle().Foreground(dim).Strikethrough(true)

	lines := []string{titleLine, ""}
	for itemIdx, item := range lane.Items {
		if hovered && itemIdx == m.hoverIndex {
			lines = append(lines, lipgloss.NewStyle().Foreground(accent).Render("─▶"))
		}
		label := itemLabel(item, width-4)
		switch {
		case dragging && item.ID == activeID:
			label = carriedStyle.Render(label)
		case !dragging && idx == m.selectedLane && itemIdx == m.selectedItem:
			label = selectedStyle.Render("> " + label)
		case !item.Editable():
			label = readOnlyStyle.Render(label)
		}
		lines = append(lines, label)
	}
	if hovered && m.hoverIndex >= len(lane.Items) {
		lines = append(lines, lipgloss.NewStyle().Foreground(accent).Render("─▶"))
	}
	if len(lane.Items) == 0 && !hovered {
		lines = append(lines, readOnlyStyle.Render("(empty)"))
	}

	return border.Render(strings.Join(lines, "\n"))
}

// itemLabel renders one board item line with its kind marker.
func itemLabel(item domain.Item, width int) string {
	marker := "·"
	switch item.Kind {
	case domain.ItemKindTask:
		if item.Done {
			marker = "✓"
		} else {
			marker = "□"
		}
	case domain.ItemKindEvent:
		marker = "◷"
	case domain.ItemKindExternal:
		marker = "⇅"
	case domain.ItemKindBirthday:
		marker = "🎂"
	}
	label := marker + " " + item.Title
	if item.Kind == domain.ItemKindEvent && item.StartsAt != nil {
		label += " " + item.StartsAt.Format("Mon 15:04")
	}
	return truncate(label, max(4, width))
}

// itemInfoMarkdown builds the markdown source for the item detail pane.
func itemInfoMarkdown(item domain.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", item.Title)
	fmt.Fprintf(&b, "- kind: %s\n", item.Kind)
	if item.StartsAt != nil {
		fmt.Fprintf(&b, "- starts: %s\n", item.StartsAt.Format(time.RFC1123))
	}
	if item.Location != "" {
		fmt.Fprintf(&b, "- location: %s\n", item.Location)
	}
	if item.FeedName != "" {
		fmt.Fprintf(&b, "- feed: %s\n", item.FeedName)
	}
	if !item.Editable() {
		b.WriteString("- read-only\n")
	}
	if item.Description != "" {
		b.WriteString("\n" + item.Description + "\n")
	}
	return b.String()
}

// renderItemInfo renders the glamour detail pane for the focused item.
func (m Model) renderItemInfo(muted color.Color) string {
	item, ok := m.board.ItemByID(m.infoItemID)
	if !ok {
		return ""
	}
	detail := m.renderer.render(itemInfoMarkdown(item), m.width-8)
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)
	return frame.Render(detail)
}

// laneWidth splits the window across lanes with a sane floor.
func (m Model) laneWidth() int {
	count := len(m.board.Columns)
	if count == 0 {
		return 24
	}
	width := (m.width / count) - 3
	return clamp(width, 18, 44)
}

// clamp bounds v into [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
