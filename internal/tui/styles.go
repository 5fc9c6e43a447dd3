package tui

import "github.com/charmbracelet/lipgloss"

// Palette
const (
	colorAccent  = lipgloss.Color("205")
	colorPreview = lipgloss.Color("42")
	colorTitle   = lipgloss.Color("62")
	colorText    = lipgloss.Color("252")
	colorMuted   = lipgloss.Color("241")
	colorBorder  = lipgloss.Color("240")
	colorError   = lipgloss.Color("196")
)

// Shared styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle).
			MarginBottom(1)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(colorText)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorPreview)

	HelpOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorTitle).
				Padding(1, 2).
				MarginTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Board styles. Width and height are set per render.
var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	previewHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPreview)

	heldItemStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	dropMarkerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(colorPreview)

	moveModeStyle = lipgloss.NewStyle().
			Background(colorAccent).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	boardTitleStyle = lipgloss.NewStyle().
			Bold(true)
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	focusedPanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent)
)
