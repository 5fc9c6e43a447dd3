package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/imgboard/internal/domain"
)

// groupItem wraps a domain.Group for use in bubbles/list.
type groupItem struct {
	group domain.Group
}

func (i groupItem) FilterValue() string {
	return i.group.Title
}

func (i groupItem) Title() string {
	return i.group.Title
}

func (i groupItem) Description() string {
	if i.group.Component == nil {
		return fmt.Sprintf("Group %d, empty", i.group.ID)
	}
	return fmt.Sprintf("Group %d, %d images in %q", i.group.ID, i.group.Component.Len(), i.group.Component.Name)
}

// groupDelegate is a custom item delegate for group items.
type groupDelegate struct{}

func (d groupDelegate) Height() int                             { return 2 }
func (d groupDelegate) Spacing() int                            { return 1 }
func (d groupDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d groupDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(groupItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())
	desc := i.Description()

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str))
		fmt.Fprint(w, "\n  "+NormalItemStyle.Render(desc))
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str))
		fmt.Fprint(w, "\n  "+dimStyle.Render(desc))
	}
}

// GroupPickerModel lets the user choose where the held image goes.
type GroupPickerModel struct {
	list list.Model
}

// NewGroupPickerModel creates a picker over groups with the cursor on current.
func NewGroupPickerModel(groups []domain.Group, current int) GroupPickerModel {
	items := make([]list.Item, len(groups))
	for i, g := range groups {
		items[i] = groupItem{group: g}
	}

	l := list.New(items, groupDelegate{}, 80, 20)
	l.Title = "Send image to…"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	if current >= 0 && current < len(items) {
		l.Select(current)
	}

	return GroupPickerModel{list: l}
}

// Init initializes the model.
func (m GroupPickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m GroupPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return closeGroupPickerMsg{} }
		case "enter":
			if item, ok := m.list.SelectedItem().(groupItem); ok {
				return m, func() tea.Msg {
					return GroupPickedMsg{GroupID: item.group.ID}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m GroupPickerModel) View() string {
	return m.list.View()
}
