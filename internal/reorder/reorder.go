// Package reorder implements the drop handling of the image board.
// ApplyDrop is a pure function: it never mutates its input state and either
// returns a complete new state or an error describing the violated precondition.
package reorder

import (
	"errors"
	"fmt"
	"slices"

	"github.com/h0rv/imgboard/internal/domain"
)

var (
	// ErrUnknownGroup indicates a drop referenced a group ID that is not in the state.
	ErrUnknownGroup = errors.New("unknown group id")
	// ErrIndexOutOfBounds indicates a drop referenced a slot outside the group's item sequence.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
)

// Result is the outcome of applying one drop event.
type Result struct {
	State domain.State

	// Preview holds the recomputed preview entries when PreviewUpdated is set.
	// Otherwise the caller keeps whatever preview it had before.
	Preview        []domain.PreviewEntry
	PreviewUpdated bool
}

// ApplyDrop moves one item according to the drop event and returns the next state.
//
// A cancelled drop returns the input state unchanged. For same-group moves the
// destination index is interpreted against the sequence after the item has been
// removed, so moving index 0 to index 2 in [A B C D] yields [B C A D].
// A drop into a group without a component creates a "Moved Image" component
// holding just the moved item. When the destination is the preview group the
// full preview list is derived from the new state.
func ApplyDrop(state domain.State, event domain.DropEvent, previewGroupID int) (Result, error) {
	if event.Cancelled() {
		return Result{State: state}, nil
	}
	dst := *event.Destination

	srcPos, dstPos, err := validate(state, event.Source, dst)
	if err != nil {
		return Result{}, err
	}

	// Only the two touched groups are copied; the rest share their components.
	next := domain.State{
		Groups:          make([]domain.Group, len(state.Groups)),
		NextComponentID: state.NextComponentID,
	}
	copy(next.Groups, state.Groups)
	next.Groups[srcPos] = state.Groups[srcPos].Clone()
	if dstPos != srcPos {
		next.Groups[dstPos] = state.Groups[dstPos].Clone()
	}

	src := next.Groups[srcPos].Component
	moved := src.Images[event.Source.Index]
	src.Images = slices.Delete(src.Images, event.Source.Index, event.Source.Index+1)

	target := &next.Groups[dstPos]
	if target.Component == nil {
		id := nextComponentID(state)
		target.Component = &domain.Component{
			ID:     id,
			Name:   domain.MovedComponentName,
			Images: []domain.Item{moved},
		}
		next.NextComponentID = id + 1
	} else {
		target.Component.Images = slices.Insert(target.Component.Images, dst.Index, moved)
	}

	result := Result{State: next}
	if target.ID == previewGroupID {
		result.Preview = DerivePreview(next, previewGroupID)
		result.PreviewUpdated = true
	}
	return result, nil
}

// validate resolves both groups and checks both indexes before anything is copied.
func validate(state domain.State, src, dst domain.Location) (srcPos, dstPos int, err error) {
	srcPos = state.FindGroup(src.GroupID)
	if srcPos < 0 {
		return 0, 0, fmt.Errorf("%w: source group %d", ErrUnknownGroup, src.GroupID)
	}
	dstPos = state.FindGroup(dst.GroupID)
	if dstPos < 0 {
		return 0, 0, fmt.Errorf("%w: destination group %d", ErrUnknownGroup, dst.GroupID)
	}

	srcLen := state.Groups[srcPos].Component.Len()
	if src.Index < 0 || src.Index >= srcLen {
		return 0, 0, fmt.Errorf("%w: source index %d in group %d holding %d items",
			ErrIndexOutOfBounds, src.Index, src.GroupID, srcLen)
	}

	if dst.Index < 0 {
		return 0, 0, fmt.Errorf("%w: destination index %d", ErrIndexOutOfBounds, dst.Index)
	}
	// An empty destination takes the item as its only element, whatever the index.
	if comp := state.Groups[dstPos].Component; comp != nil {
		limit := comp.Len()
		if dstPos == srcPos {
			limit--
		}
		if dst.Index > limit {
			return 0, 0, fmt.Errorf("%w: destination index %d in group %d accepts at most %d",
				ErrIndexOutOfBounds, dst.Index, dst.GroupID, limit)
		}
	}
	return srcPos, dstPos, nil
}

// nextComponentID returns a component ID that does not collide with any existing one.
func nextComponentID(state domain.State) int {
	id := state.NextComponentID
	for _, g := range state.Groups {
		if g.Component != nil && g.Component.ID >= id {
			id = g.Component.ID + 1
		}
	}
	return id
}
