// Package tui provides the Bubble Tea models of the interactive image board.
package tui

import "github.com/h0rv/imgboard/internal/domain"

// ErrorMsg is emitted when an error occurs outside the board.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// GroupPickedMsg is emitted when the user picks a destination group for the held image.
type GroupPickedMsg struct {
	GroupID int
}

// DropAppliedMsg is emitted after a drop event has gone through the store.
// It lets the surrounding app react (e.g. refresh the title bar) without
// reaching into the board.
type DropAppliedMsg struct {
	Event          domain.DropEvent
	PreviewUpdated bool
}
