package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/logger"
	"github.com/h0rv/imgboard/internal/reorder"
	"github.com/h0rv/imgboard/internal/sink"
	"github.com/h0rv/imgboard/internal/store"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"
)

// Layout constants
const (
	minColumnWidth = 22
	maxColumnWidth = 40
	chromeLines    = 3 // header + second header + preview footer
)

// openURL opens an image in the system browser.
var openURL = browser.OpenURL

// BoardModel is the main view: one column per group, the preview group last.
// In move mode an image is held and a drop marker shows where it will land.
type BoardModel struct {
	// Dependencies
	store *store.Store
	sink  sink.Sink
	ctx   context.Context
	log   logger.Logger

	// UI components
	keymap KeyMap
	help   HelpModel

	// Selection
	selectedGroup int          // Position of the focused group
	columnOffset  int          // First visible column (horizontal carousel)
	selectedItem  map[int]int  // Group position -> selected image index
	collapsed     map[int]bool // Group position -> folded

	// Move mode
	moveMode  bool
	held      domain.Location // Source of the held image (group ID + index)
	dropGroup int             // Position of the group under the drop marker
	dropIndex int             // Insert index, counted after the held image is removed

	// View state
	width      int
	height     int
	showHelp   bool
	saving     bool
	toast      string
	errorToast string
}

// NewBoardModel creates a new board model.
func NewBoardModel(s *store.Store, out sink.Sink, ctx context.Context, log logger.Logger) BoardModel {
	if log == nil {
		log = logger.Discard()
	}
	return BoardModel{
		store:        s,
		sink:         out,
		ctx:          ctx,
		log:          log.WithComponent("board"),
		keymap:       DefaultKeyMap(),
		help:         NewHelpModel(DefaultKeyMap()),
		selectedItem: make(map[int]int),
		collapsed:    make(map[int]bool),
	}
}

// Init requests the terminal size.
func (m BoardModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		(&m).adjustColumnScroll()
		return m, nil

	case GroupPickedMsg:
		if !m.moveMode {
			return m, nil
		}
		pos := m.store.State().FindGroup(msg.GroupID)
		if pos < 0 {
			m.errorToast = fmt.Sprintf("Drop failed: %v: %d", reorder.ErrUnknownGroup, msg.GroupID)
			return m, nil
		}
		m.dropGroup = pos
		m.dropIndex = m.dropLimit(pos)
		return m.drop()

	case savedMsg:
		m.saving = false
		m.log.Info("preview saved", logger.WithField("batch", msg.id), logger.WithField("entries", msg.entries))
		m.toast = fmt.Sprintf("Saved %d preview entries (batch %s)", msg.entries, shortID(msg.id))
		return m, nil

	case saveErrorMsg:
		m.saving = false
		m.log.Warn("save failed", logger.WithField("error", msg.err))
		m.errorToast = fmt.Sprintf("Save failed: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m BoardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	m.toast = ""
	m.errorToast = ""

	if m.moveMode {
		return m.handleMoveMode(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.Left):
		if m.selectedGroup > 0 {
			m.selectedGroup--
			(&m).adjustColumnScroll()
		}
	case key.Matches(msg, m.keymap.Right):
		if m.selectedGroup < m.store.Groups()-1 {
			m.selectedGroup++
			(&m).adjustColumnScroll()
		}
	case key.Matches(msg, m.keymap.Down):
		(&m).moveItemSelection(1)
	case key.Matches(msg, m.keymap.Up):
		(&m).moveItemSelection(-1)
	case key.Matches(msg, m.keymap.Top):
		(&m).jumpToItem(0)
	case key.Matches(msg, m.keymap.Bottom):
		(&m).jumpToItem(-1)
	case key.Matches(msg, m.keymap.Toggle):
		(&m).toggleCollapsed()
	case key.Matches(msg, m.keymap.Move):
		(&m).pickUp()
	case key.Matches(msg, m.keymap.Drop):
		if _, ok := m.selectedImage(); ok {
			detail := openDetailMsg{
				state:          m.store.State(),
				groupPos:       m.selectedGroup,
				index:          m.selectedItem[m.selectedGroup],
				preview:        m.store.Preview(),
				previewGroupID: m.store.PreviewGroupID(),
			}
			return m, func() tea.Msg { return detail }
		}
	case key.Matches(msg, m.keymap.Open):
		if item, ok := m.selectedImage(); ok {
			if err := openURL(string(item)); err != nil {
				m.log.Warn("open failed", logger.WithField("url", item), logger.WithField("error", err))
				m.errorToast = fmt.Sprintf("Open failed: %v", err)
			}
		}
	case key.Matches(msg, m.keymap.Undo):
		if err := m.store.Undo(); err != nil {
			m.errorToast = fmt.Sprintf("Undo: %v", err)
		} else {
			m.toast = "Move undone"
			(&m).clampSelections()
		}
	case key.Matches(msg, m.keymap.Reset):
		m.store.Reset()
		m.selectedItem = make(map[int]int)
		m.toast = "Board reset"
	case key.Matches(msg, m.keymap.Save):
		if m.saving {
			return m, nil
		}
		if m.sink == nil {
			m.errorToast = "Save failed: no sink configured"
			return m, nil
		}
		m.saving = true
		return m, m.save()
	}

	return m, nil
}

// handleMoveMode handles key presses while an image is held
func (m BoardModel) handleMoveMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.Runes[0] - '1')
		if idx < m.store.Groups() {
			m.dropGroup = idx
			m.dropIndex = m.dropLimit(idx)
			return m.drop()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		return m.cancelMove()
	case key.Matches(msg, m.keymap.Drop):
		return m.drop()
	case key.Matches(msg, m.keymap.Left):
		if m.dropGroup > 0 {
			m.dropGroup--
			m.dropIndex = min(m.dropIndex, m.dropLimit(m.dropGroup))
			(&m).adjustColumnScroll()
		}
	case key.Matches(msg, m.keymap.Right):
		if m.dropGroup < m.store.Groups()-1 {
			m.dropGroup++
			m.dropIndex = min(m.dropIndex, m.dropLimit(m.dropGroup))
			(&m).adjustColumnScroll()
		}
	case key.Matches(msg, m.keymap.Up):
		if m.dropIndex > 0 {
			m.dropIndex--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.dropIndex < m.dropLimit(m.dropGroup) {
			m.dropIndex++
		}
	case key.Matches(msg, m.keymap.SendTo):
		picker := openGroupPickerMsg{groups: m.store.State().Groups, current: m.dropGroup}
		return m, func() tea.Msg { return picker }
	}
	return m, nil
}

// pickUp holds the selected image and places the drop marker on its own slot.
func (m *BoardModel) pickUp() {
	state := m.store.State()
	if len(state.Groups) == 0 || m.collapsed[m.selectedGroup] {
		return
	}
	group := state.Groups[m.selectedGroup]
	idx := m.selectedItem[m.selectedGroup]
	if idx >= group.Component.Len() {
		return
	}

	m.moveMode = true
	m.held = domain.Location{GroupID: group.ID, Index: idx}
	m.dropGroup = m.selectedGroup
	m.dropIndex = idx
}

// cancelMove reports the gesture as a drop without destination.
func (m BoardModel) cancelMove() (tea.Model, tea.Cmd) {
	event := domain.DropEvent{Source: m.held}
	m.moveMode = false
	if _, err := m.store.Apply(event); err != nil {
		m.errorToast = fmt.Sprintf("Cancel failed: %v", err)
		return m, nil
	}
	m.toast = "Move cancelled"
	return m, func() tea.Msg { return DropAppliedMsg{Event: event} }
}

// drop sends the held image to the marker position.
func (m BoardModel) drop() (tea.Model, tea.Cmd) {
	state := m.store.State()
	dst := domain.Location{GroupID: state.Groups[m.dropGroup].ID, Index: m.dropIndex}
	event := domain.DropEvent{Source: m.held, Destination: &dst}
	m.moveMode = false

	updated, err := m.store.Apply(event)
	if err != nil {
		m.errorToast = fmt.Sprintf("Drop failed: %v", err)
		return m, nil
	}

	// Follow the image to where it landed.
	m.selectedGroup = m.dropGroup
	m.selectedItem[m.dropGroup] = m.dropIndex
	delete(m.collapsed, m.dropGroup)
	(&m).clampSelections()
	(&m).adjustColumnScroll()

	return m, func() tea.Msg { return DropAppliedMsg{Event: event, PreviewUpdated: updated} }
}

// dropLimit returns the highest insert index accepted by the group at pos.
func (m BoardModel) dropLimit(pos int) int {
	state := m.store.State()
	if pos < 0 || pos >= len(state.Groups) {
		return 0
	}
	limit := state.Groups[pos].Component.Len()
	if m.moveMode && state.Groups[pos].ID == m.held.GroupID {
		limit--
	}
	return max(limit, 0)
}

// save commits the current preview list to the sink.
func (m BoardModel) save() tea.Cmd {
	batch := sink.NewBatch(m.store.Preview())
	out, ctx := m.sink, m.ctx
	return func() tea.Msg {
		if err := out.Commit(ctx, batch); err != nil {
			return saveErrorMsg{err: err}
		}
		return savedMsg{id: batch.ID, entries: len(batch.Entries)}
	}
}

// View renders the board - fills entire terminal exactly
func (m BoardModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	state := m.store.State()
	sections := []string{
		m.renderHeader(state, width),
		m.renderSecondHeader(state, width),
	}

	if m.moveMode {
		moveBar := moveModeStyle.Render("MOVE") + " h/j/k/l steer, enter drop, esc cancel, 1-9 drop at end of group"
		sections = append(sections, moveBar)
	}

	boardHeight := height - chromeLines
	if m.moveMode {
		boardHeight--
	}
	if boardHeight < 5 {
		boardHeight = 5
	}

	var mainContent string
	if m.showHelp {
		helpLines := strings.Split(m.help.View(width), "\n")
		if len(helpLines) > boardHeight {
			helpLines = helpLines[:boardHeight]
		}
		mainContent = strings.Join(helpLines, "\n")
	} else if len(state.Groups) == 0 {
		mainContent = lipgloss.Place(width, boardHeight, lipgloss.Center, lipgloss.Center, "No groups to show.")
	} else {
		mainContent = m.renderBoard(state, width, boardHeight)
	}
	sections = append(sections, mainContent, m.renderPreviewFooter(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title on the left and board totals on the right
func (m BoardModel) renderHeader(state domain.State, width int) string {
	title := "On Shop"

	var statusParts []string
	if m.saving {
		statusParts = append(statusParts, "saving…")
	}
	statusParts = append(statusParts, fmt.Sprintf("%d images", state.ItemCount()))
	if pos := state.FindGroup(m.store.PreviewGroupID()); pos >= 0 {
		statusParts = append(statusParts, fmt.Sprintf("%d in preview", state.Groups[pos].Component.Len()))
	}
	if m.store.CanUndo() {
		statusParts = append(statusParts, "[u]ndo")
	}
	statusParts = append(statusParts, "[s]ave [?]help")
	status := strings.Join(statusParts, " | ")

	padding := width - len(title) - lipgloss.Width(status) - 2
	if padding < 1 {
		padding = 1
	}
	return boardTitleStyle.Render(title) + strings.Repeat(" ", padding) + dimStyle.Render(status)
}

// renderSecondHeader renders key hints and the current position or toast
func (m BoardModel) renderSecondHeader(state domain.State, width int) string {
	left := "h/l:group j/k:image m:move space:fold enter:details o:open"
	if m.moveMode {
		left = "t:send to… enter:drop esc:cancel"
	}

	right := ""
	switch {
	case m.errorToast != "":
		right = ErrorStyle.Render(m.errorToast)
	case m.toast != "":
		right = SuccessStyle.Render(m.toast)
	case len(state.Groups) > 0:
		pos := m.selectedGroup
		if m.moveMode {
			pos = m.dropGroup
		}
		right = fmt.Sprintf("group %d/%d", pos+1, len(state.Groups))
		if n := state.Groups[pos].Component.Len(); n > 0 {
			if m.moveMode {
				right += fmt.Sprintf(" | slot %d/%d", m.dropIndex+1, m.dropLimit(pos)+1)
			} else {
				right += fmt.Sprintf(" | image %d/%d", m.selectedItem[pos]+1, n)
			}
		}
	}

	padding := width - len(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return dimStyle.Render(left) + strings.Repeat(" ", padding) + right
}

// renderPreviewFooter lists the derived preview entries on one line
func (m BoardModel) renderPreviewFooter(width int) string {
	preview := m.store.Preview()
	if len(preview) == 0 {
		return dimStyle.Render("Preview entries: none yet, drop images into the preview group")
	}
	parts := make([]string, len(preview))
	for i, e := range preview {
		parts[i] = e.SectionOr("?") + "/" + e.Value
	}
	line := fmt.Sprintf("Preview entries (%d): %s", len(preview), strings.Join(parts, " · "))
	return previewHeaderStyle.Render(truncate.StringWithTail(line, uint(max(width-1, 1)), "…"))
}

// renderBoard renders the group columns within the given dimensions.
// Columns scroll horizontally (carousel) when they do not all fit.
func (m BoardModel) renderBoard(state domain.State, totalWidth, totalHeight int) string {
	numCols := len(state.Groups)

	// lipgloss Border adds 2 lines (top + bottom) to the content height
	colContentHeight := totalHeight - 2
	if colContentHeight < 3 {
		colContentHeight = 3
	}

	visibleCols := totalWidth / minColumnWidth
	if visibleCols < 1 {
		visibleCols = 1
	}
	if visibleCols > numCols {
		visibleCols = numCols
	}

	colWidth := totalWidth / visibleCols
	if colWidth > maxColumnWidth {
		colWidth = maxColumnWidth
	}
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}

	// Content width inside column (2 border + 2 padding)
	innerWidth := colWidth - 4

	startCol := m.columnOffset
	endCol := startCol + visibleCols
	if endCol > numCols {
		endCol = numCols
		startCol = max(endCol-visibleCols, 0)
	}

	columnViews := make([]string, 0, visibleCols+2)
	if startCol > 0 {
		columnViews = append(columnViews, scrollArrow("◀", colContentHeight+2))
	}
	for pos := startCol; pos < endCol; pos++ {
		columnViews = append(columnViews, m.renderColumn(state, pos, colWidth, colContentHeight, innerWidth))
	}
	if endCol < numCols {
		columnViews = append(columnViews, scrollArrow("▶", colContentHeight+2))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

func scrollArrow(glyph string, height int) string {
	return lipgloss.NewStyle().
		Width(2).
		Height(height).
		Foreground(colorAccent).
		Align(lipgloss.Center, lipgloss.Center).
		Render(glyph)
}

// renderColumn renders one group. innerHeight is the content height inside the border.
func (m BoardModel) renderColumn(state domain.State, pos, width, innerHeight, innerWidth int) string {
	group := state.Groups[pos]
	items := group.Items()
	isPreview := group.ID == m.store.PreviewGroupID()
	focused := pos == m.selectedGroup
	if m.moveMode {
		focused = pos == m.dropGroup
	}

	// Header: ▾ [N] Title (count)
	fold := "▾"
	if m.collapsed[pos] {
		fold = "▸"
	}
	if isPreview {
		fold = "★"
	}
	headerText := truncate.StringWithTail(fmt.Sprintf("%s [%d] %s (%d)", fold, pos+1, group.Title, len(items)), uint(innerWidth), "…")
	header := columnHeaderStyle.Render(headerText)
	if isPreview {
		header = previewHeaderStyle.Render(headerText)
	}

	rows, focus := m.columnRows(group, pos, innerWidth)

	// Reserve room for the header and, when needed, both scroll indicators.
	slots := innerHeight - 1
	if len(rows) > slots {
		slots -= 2
	}
	slots = max(slots, 1)
	start := max(focus-slots+1, 0)
	end := min(start+slots, len(rows))

	lines := []string{header}
	if start > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↑ %d more", start)))
	}
	lines = append(lines, rows[start:end]...)
	if end < len(rows) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↓ %d more", len(rows)-end)))
	}

	borderColor := colorBorder
	if focused {
		borderColor = colorAccent
	}

	colStyle := lipgloss.NewStyle().
		Width(width-2).      // Subtract border width
		Height(innerHeight). // Inner content height (border adds 2 to total)
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)

	return colStyle.Render(strings.Join(lines, "\n"))
}

// columnRows builds the body lines of a column and the index of the row to keep visible.
func (m BoardModel) columnRows(group domain.Group, pos, innerWidth int) ([]string, int) {
	items := group.Items()
	marker := dropMarkerStyle.Render(truncate.String("▶ drop here", uint(innerWidth)))
	showMarker := m.moveMode && pos == m.dropGroup

	if m.collapsed[pos] {
		rows := []string{dimStyle.Render("(collapsed)")}
		if showMarker {
			rows = append(rows, marker)
		}
		return rows, len(rows) - 1
	}

	var rows []string
	focus := 0
	placed := false
	kept := 0 // images counted in the after-removal coordinates
	for i, item := range items {
		isHeld := m.moveMode && group.ID == m.held.GroupID && i == m.held.Index
		if showMarker && !placed && !isHeld && kept == m.dropIndex {
			focus = len(rows)
			rows = append(rows, marker)
			placed = true
		}

		text := m.formatItemText(item, i, innerWidth-3) // 3 for prefix
		switch {
		case isHeld:
			rows = append(rows, heldItemStyle.Render("✥ "+text))
		case !m.moveMode && pos == m.selectedGroup && i == m.selectedItem[pos]:
			focus = len(rows)
			rows = append(rows, SelectedItemStyle.Render("> "+text))
		default:
			rows = append(rows, NormalItemStyle.Render("  "+text))
		}
		if !isHeld {
			kept++
		}
	}
	if showMarker && !placed {
		focus = len(rows)
		rows = append(rows, marker)
	}
	if len(rows) == 0 {
		rows = append(rows, dimStyle.Render("(empty)"))
	}
	return rows, focus
}

// formatItemText shows the image key with its position right-aligned
func (m BoardModel) formatItemText(item domain.Item, index, maxWidth int) string {
	title := reorder.ItemKey(item)
	if title == "" {
		title = string(item)
	}
	suffix := fmt.Sprintf("#%d", index+1)

	availableForTitle := max(maxWidth-len(suffix)-1, 5)
	title = truncate.StringWithTail(title, uint(availableForTitle), "…")

	padding := max(maxWidth-lipgloss.Width(title)-len(suffix), 1)
	return title + strings.Repeat(" ", padding) + dimStyle.Render(suffix)
}

// moveItemSelection moves the image selection up or down by delta
func (m *BoardModel) moveItemSelection(delta int) {
	n := m.groupLen(m.selectedGroup)
	if n == 0 || m.collapsed[m.selectedGroup] {
		return
	}
	idx := m.selectedItem[m.selectedGroup] + delta
	m.selectedItem[m.selectedGroup] = min(max(idx, 0), n-1)
}

// jumpToItem jumps to a specific image index. Use -1 to jump to the last image.
func (m *BoardModel) jumpToItem(idx int) {
	n := m.groupLen(m.selectedGroup)
	if n == 0 || m.collapsed[m.selectedGroup] {
		return
	}
	if idx < 0 || idx >= n {
		idx = n - 1
	}
	m.selectedItem[m.selectedGroup] = idx
}

// toggleCollapsed folds or unfolds the focused group. The preview group never folds.
func (m *BoardModel) toggleCollapsed() {
	state := m.store.State()
	if m.selectedGroup >= len(state.Groups) || state.Groups[m.selectedGroup].ID == m.store.PreviewGroupID() {
		return
	}
	if m.collapsed[m.selectedGroup] {
		delete(m.collapsed, m.selectedGroup)
	} else {
		m.collapsed[m.selectedGroup] = true
	}
}

// clampSelections keeps every selected index inside its group after the state changed.
func (m *BoardModel) clampSelections() {
	for pos, idx := range m.selectedItem {
		n := m.groupLen(pos)
		if idx >= n {
			m.selectedItem[pos] = max(n-1, 0)
		}
	}
}

// adjustColumnScroll ensures the focused column is visible (horizontal carousel)
func (m *BoardModel) adjustColumnScroll() {
	numCols := m.store.Groups()
	if numCols == 0 || m.width == 0 {
		return
	}

	visibleCols := m.width / minColumnWidth
	if visibleCols < 1 {
		visibleCols = 1
	}
	if visibleCols > numCols {
		visibleCols = numCols
	}

	focus := m.selectedGroup
	if m.moveMode {
		focus = m.dropGroup
	}
	if focus < m.columnOffset {
		m.columnOffset = focus
	}
	if focus >= m.columnOffset+visibleCols {
		m.columnOffset = focus - visibleCols + 1
	}
}

func (m BoardModel) groupLen(pos int) int {
	state := m.store.State()
	if pos < 0 || pos >= len(state.Groups) {
		return 0
	}
	return state.Groups[pos].Component.Len()
}

// selectedImage returns the focused image, if any
func (m BoardModel) selectedImage() (domain.Item, bool) {
	state := m.store.State()
	if m.selectedGroup >= len(state.Groups) || m.collapsed[m.selectedGroup] {
		return "", false
	}
	items := state.Groups[m.selectedGroup].Items()
	idx := m.selectedItem[m.selectedGroup]
	if idx >= len(items) {
		return "", false
	}
	return items[idx], true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Message types
type (
	savedMsg struct {
		id      string
		entries int
	}
	saveErrorMsg       struct{ err error }
	openGroupPickerMsg struct {
		groups  []domain.Group
		current int
	}
	openDetailMsg struct {
		state          domain.State
		groupPos       int
		index          int
		preview        []domain.PreviewEntry
		previewGroupID int
	}
	closeDetailMsg      struct{}
	closeGroupPickerMsg struct{}
)

// renderAllColumns renders just the columns, for tests
func (m BoardModel) renderAllColumns() string {
	return m.renderBoard(m.store.State(), m.width, m.height-chromeLines)
}
