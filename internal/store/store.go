// Package store holds the live board state between drop events.
// It threads the current state through the reorder engine, keeps the last
// derived preview and remembers prior snapshots so moves can be undone.
package store

import (
	"errors"

	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/logger"
	"github.com/h0rv/imgboard/internal/reorder"
)

var (
	// ErrNothingToUndo indicates there is no earlier snapshot to restore.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// snapshot is one restorable point in the board history.
type snapshot struct {
	state   domain.State
	preview []domain.PreviewEntry
}

// Store manages the in-memory state of the board.
// It is driven from a single event loop and does no locking.
type Store struct {
	previewGroupID int
	log            logger.Logger

	initial domain.State
	current snapshot

	// Undo stack, most recent last
	history []snapshot
}

// New creates a store seeded with the given state.
func New(initial domain.State, previewGroupID int, log logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{
		previewGroupID: previewGroupID,
		log:            log.WithComponent("store"),
		initial:        initial.Clone(),
		current:        snapshot{state: initial.Clone(), preview: []domain.PreviewEntry{}},
	}
}

// State returns a copy of the current state.
func (s *Store) State() domain.State {
	return s.current.state.Clone()
}

// Preview returns a copy of the last derived preview list.
func (s *Store) Preview() []domain.PreviewEntry {
	result := make([]domain.PreviewEntry, len(s.current.preview))
	copy(result, s.current.preview)
	return result
}

// PreviewGroupID returns the identifier of the preview group.
func (s *Store) PreviewGroupID() int {
	return s.previewGroupID
}

// ItemCount returns the total number of items on the board.
func (s *Store) ItemCount() int {
	return s.current.state.ItemCount()
}

// Groups returns the number of groups on the board.
func (s *Store) Groups() int {
	return len(s.current.state.Groups)
}

// Apply runs a drop event through the reorder engine and, on success,
// replaces the current state. Cancelled drops leave history untouched.
// A failed drop leaves the store exactly as it was.
func (s *Store) Apply(event domain.DropEvent) (previewUpdated bool, err error) {
	if event.Cancelled() {
		s.log.Debug("drop cancelled", logger.WithField("group", event.Source.GroupID), logger.WithField("index", event.Source.Index))
		return false, nil
	}

	result, err := reorder.ApplyDrop(s.current.state, event, s.previewGroupID)
	if err != nil {
		s.log.Error("drop rejected", logger.WithField("error", err))
		return false, err
	}

	s.history = append(s.history, s.current)
	s.current = snapshot{state: result.State, preview: s.current.preview}
	if result.PreviewUpdated {
		s.current.preview = result.Preview
	}

	s.log.Info("drop applied",
		logger.WithField("from", event.Source.GroupID),
		logger.WithField("from_index", event.Source.Index),
		logger.WithField("to", event.Destination.GroupID),
		logger.WithField("to_index", event.Destination.Index),
		logger.WithField("preview", len(s.current.preview)),
	)
	return result.PreviewUpdated, nil
}

// CanUndo reports whether an earlier snapshot exists.
func (s *Store) CanUndo() bool {
	return len(s.history) > 0
}

// Undo restores the state and preview from before the last applied drop.
func (s *Store) Undo() error {
	if len(s.history) == 0 {
		return ErrNothingToUndo
	}
	last := len(s.history) - 1
	s.current = s.history[last]
	s.history = s.history[:last]
	s.log.Info("drop undone", logger.WithField("remaining", len(s.history)))
	return nil
}

// Reset returns the board to its seed state and clears the history.
func (s *Store) Reset() {
	s.current = snapshot{state: s.initial.Clone(), preview: []domain.PreviewEntry{}}
	s.history = nil
	s.log.Info("board reset")
}
