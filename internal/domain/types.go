// Package domain defines the core types of the image board.
// These types carry no behavior beyond copying; the reorder package owns all transitions.
package domain

// Item is an opaque content reference, in practice an image URL.
// Items have no stable ID: identity is their position within a Component.
type Item string

// Component is the named container of ordered items living inside a Group.
type Component struct {
	ID     int    // Unique within the run
	Name   string // Display name (e.g., "Banners", "Moved Image")
	Images []Item // Ordered image sequence
}

// Clone returns a deep copy of the component, or nil for a nil receiver.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	images := make([]Item, len(c.Images))
	copy(images, c.Images)
	return &Component{ID: c.ID, Name: c.Name, Images: images}
}

// Len returns the number of items, treating a nil component as empty.
func (c *Component) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Images)
}

// Group is a labeled bucket holding zero or one Component.
type Group struct {
	ID        int        // Stable identifier, equal to the group's position in State.Groups
	Title     string     // Section title shown to users and used in preview entries
	Component *Component // nil until the group receives its first item
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	return Group{ID: g.ID, Title: g.Title, Component: g.Component.Clone()}
}

// Items returns the group's items, or nil when the group has no component.
func (g Group) Items() []Item {
	if g.Component == nil {
		return nil
	}
	return g.Component.Images
}

// State is the full grouped-list state of the board.
type State struct {
	Groups []Group

	// NextComponentID is the identifier given to the next lazily created component.
	NextComponentID int
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	groups := make([]Group, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = g.Clone()
	}
	return State{Groups: groups, NextComponentID: s.NextComponentID}
}

// FindGroup returns the position of the group with the given ID, or -1.
func (s State) FindGroup(id int) int {
	for i, g := range s.Groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// ItemCount returns the total number of items across all groups.
func (s State) ItemCount() int {
	total := 0
	for _, g := range s.Groups {
		total += g.Component.Len()
	}
	return total
}

// Location addresses a slot inside a group's item sequence.
type Location struct {
	GroupID int `yaml:"group" json:"group"`
	Index   int `yaml:"index" json:"index"`
}

// DropEvent is the completion of a drag gesture.
// A nil Destination means the gesture was cancelled or dropped outside any target.
type DropEvent struct {
	Source      Location  `yaml:"source" json:"source"`
	Destination *Location `yaml:"destination" json:"destination"`
}

// Cancelled reports whether the drop has no destination.
func (e DropEvent) Cancelled() bool {
	return e.Destination == nil
}

// PreviewEntry is the derived (section, value) pair for one preview item.
type PreviewEntry struct {
	Section *string `json:"section,omitempty"` // Title of the containing group, nil if none matched
	Value   string  `json:"value"`             // Short key extracted from the item
}

// SectionOr returns the section title, or fallback when the section is absent.
func (p PreviewEntry) SectionOr(fallback string) string {
	if p.Section == nil {
		return fallback
	}
	return *p.Section
}

// DefaultPreviewGroupID is the reserved identifier of the preview group.
const DefaultPreviewGroupID = 3

// MovedComponentName names components created by a transfer into an empty group.
const MovedComponentName = "Moved Image"
