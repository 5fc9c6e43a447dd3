package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/imgboard/internal/config"
)

const moveIntro = `## Moving images

Pick an image up with **m** and steer the drop marker with **h/j/k/l**.
Press **enter** to drop it or **esc** to put it back.

* Digits **1-9** drop at the end of that group
* **t** picks the group from a list
* Dropping into *Preview* refreshes the preview entries`

// helpSections names the columns of KeyMap.FullHelp, in order.
var helpSections = []string{"Browse", "Move", "Board"}

// HelpModel renders the key reference overlay.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
	style  string // glamour style for the intro
}

// NewHelpModel creates a new help overlay model.
func NewHelpModel(keymap KeyMap) HelpModel {
	return HelpModel{
		help:   help.New(),
		keymap: keymap,
		style:  config.HelpStyleDark,
	}
}

// WithStyle returns a copy rendering its intro with the named glamour style.
func (m HelpModel) WithStyle(style string) HelpModel {
	if style != "" {
		m.style = style
	}
	return m
}

// View renders the move instructions followed by one titled block per key section.
func (m HelpModel) View(width int) string {
	m.help.Width = width - 8 // Account for padding and border

	parts := []string{renderMarkdown(moveIntro, m.style, m.help.Width)}
	for i, bindings := range m.keymap.FullHelp() {
		title := "Other"
		if i < len(helpSections) {
			title = helpSections[i]
		}
		parts = append(parts, "", columnHeaderStyle.Render(title), m.help.FullHelpView([][]key.Binding{bindings}))
	}
	return HelpOverlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
