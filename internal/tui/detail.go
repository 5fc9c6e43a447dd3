package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/reorder"
	"github.com/muesli/reflow/wordwrap"
)

// Layout constants
const (
	leftPanelRatio = 0.4
	minLeftWidth   = 30
	maxLeftWidth   = 60
	borderSize     = 2 // Top + bottom border
)

// occurrence is one slot holding an image with a given key.
type occurrence struct {
	group string
	index int
	same  bool // the exact image shown in the detail view
}

// DetailModel shows one image: where it sits, its URL, and every slot
// holding an image with the same key.
type DetailModel struct {
	group     domain.Group
	index     int
	item      domain.Item
	isPreview bool
	entry     *domain.PreviewEntry
	occurs    []occurrence

	viewport   viewport.Model
	errorToast string

	width  int
	height int
}

// NewDetailModel creates a detail view for the image at index in the group at groupPos.
func NewDetailModel(state domain.State, groupPos, index int, preview []domain.PreviewEntry, previewGroupID int) DetailModel {
	group := state.Groups[groupPos]
	item := group.Items()[index]
	key := reorder.ItemKey(item)

	m := DetailModel{
		group:     group,
		index:     index,
		item:      item,
		isPreview: group.ID == previewGroupID,
		viewport:  viewport.New(40, 10),
	}

	// The stored preview goes stale after drops elsewhere; an entry naming
	// another image is replaced by one derived from the current board.
	if m.isPreview {
		if index < len(preview) && preview[index].Value == key {
			m.entry = &preview[index]
		} else {
			m.entry = &reorder.Entries(state.Groups, []domain.Item{item})[0]
		}
	}

	for _, g := range state.Groups {
		for i, other := range g.Items() {
			if reorder.ItemKey(other) != key {
				continue
			}
			m.occurs = append(m.occurs, occurrence{
				group: g.Title,
				index: i,
				same:  g.ID == group.ID && i == index,
			})
		}
	}
	m.viewport.SetContent(m.renderOccurrences(m.viewport.Width))

	return m
}

// Init requests the terminal size.
func (m DetailModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m DetailModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		return m, func() tea.Msg { return closeDetailMsg{} }
	case "o":
		if err := openURL(string(m.item)); err != nil {
			m.errorToast = fmt.Sprintf("Open failed: %v", err)
		}
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m DetailModel) panelWidths(width int) (int, int) {
	leftWidth := int(float64(width) * leftPanelRatio)
	leftWidth = min(max(leftWidth, minLeftWidth), maxLeftWidth)
	rightWidth := max(width-leftWidth-1, 30) // 1 char gap
	return leftWidth, rightWidth
}

// resizeComponents sizes the viewport to the right panel
func (m *DetailModel) resizeComponents() {
	_, rightWidth := m.panelWidths(m.width)
	contentHeight := max(m.height-2, 10) // header + footer

	m.viewport.Width = rightWidth - borderSize - 2
	m.viewport.Height = contentHeight - borderSize - 1 // panel title
	m.viewport.SetContent(m.renderOccurrences(m.viewport.Width))
}

// View renders the split-screen detail view
func (m DetailModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	leftWidth, rightWidth := m.panelWidths(width)
	contentHeight := max(height-2, 10)

	header := dimStyle.Render("[q]back [o]open [j/k]scroll [g/G]top/bottom")

	leftPanel := panelBorderStyle.
		Width(leftWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderInfo(leftWidth - borderSize))

	rightContent := detailLabelStyle.Render(fmt.Sprintf("Same key (%d)", len(m.occurs))) + "\n" + m.viewport.View()
	rightPanel := focusedPanelBorderStyle.
		Width(rightWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(rightContent)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", rightPanel)

	footer := ""
	if m.errorToast != "" {
		footer = ErrorStyle.Render("✗ " + m.errorToast)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, footer)
}

// renderInfo renders the image metadata panel
func (m DetailModel) renderInfo(width int) string {
	var b strings.Builder

	b.WriteString(detailLabelStyle.Render(fmt.Sprintf("%s #%d", m.group.Title, m.index+1)))
	b.WriteString("\n\n")
	b.WriteString(detailTitleStyle.Render(wordwrap.String(reorder.ItemKey(m.item), width-2)))
	b.WriteString("\n\n")

	if m.group.Component != nil {
		b.WriteString(detailLabelStyle.Render("Component: "))
		b.WriteString(NormalItemStyle.Render(fmt.Sprintf("%s (#%d)", m.group.Component.Name, m.group.Component.ID)))
		b.WriteString("\n")
	}

	if m.isPreview {
		b.WriteString(detailLabelStyle.Render("Section: "))
		section := "none"
		if m.entry != nil {
			section = m.entry.SectionOr("none")
		}
		b.WriteString(NormalItemStyle.Render(section))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailLabelStyle.Render("URL:"))
	b.WriteString("\n")
	b.WriteString(NormalItemStyle.Render(wordwrap.String(string(m.item), width-2)))

	return b.String()
}

// renderOccurrences lists every slot holding an image with the same key
func (m DetailModel) renderOccurrences(width int) string {
	var lines []string
	for _, o := range m.occurs {
		line := fmt.Sprintf("%s #%d", o.group, o.index+1)
		if o.same {
			lines = append(lines, SelectedItemStyle.Render("> "+line))
			continue
		}
		lines = append(lines, NormalItemStyle.Render("  "+line))
	}
	return wordwrap.String(strings.Join(lines, "\n"), width)
}
