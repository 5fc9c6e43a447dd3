// Package seed loads the board's initial groups.
// The default catalogue is embedded; a YAML (or JSON) file can replace it.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/h0rv/imgboard/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

var (
	// ErrNoGroups indicates the seed file defines no groups.
	ErrNoGroups = errors.New("seed defines no groups")
	// ErrGroupOrder indicates a group ID that does not match its position.
	ErrGroupOrder = errors.New("group id does not match its position")
	// ErrNoPreviewGroup indicates the configured preview group is missing from the seed.
	ErrNoPreviewGroup = errors.New("preview group not found")
	// ErrTooManyComponents indicates a group with more than one component.
	ErrTooManyComponents = errors.New("group holds more than one component")
	// ErrDuplicateComponent indicates two components share an ID.
	ErrDuplicateComponent = errors.New("duplicate component id")
)

// File is the on-disk seed layout.
type File struct {
	Groups []GroupRecord `yaml:"groups" json:"groups"`
}

// GroupRecord is one group as written in a seed file.
// Components is a list of length 0 or 1.
type GroupRecord struct {
	ID         int               `yaml:"id" json:"id"`
	Title      string            `yaml:"title" json:"title"`
	Components []ComponentRecord `yaml:"components" json:"components"`
}

// ComponentRecord is one component as written in a seed file.
type ComponentRecord struct {
	ID     int      `yaml:"id" json:"id"`
	Name   string   `yaml:"name" json:"name"`
	Images []string `yaml:"images" json:"images"`
}

// Default returns the embedded demo catalogue.
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes seed data. JSON input is accepted since it is valid YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &f, nil
}

// Resolve returns the seed at path, or the embedded default when path is empty.
func Resolve(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// State validates the seed and converts it into the initial board state.
func (f *File) State(previewGroupID int) (domain.State, error) {
	if len(f.Groups) == 0 {
		return domain.State{}, ErrNoGroups
	}

	state := domain.State{Groups: make([]domain.Group, 0, len(f.Groups))}
	componentIDs := make(map[int]bool)
	maxID := -1
	hasPreview := false

	for pos, rec := range f.Groups {
		if rec.ID != pos {
			return domain.State{}, fmt.Errorf("%w: group %q has id %d at position %d", ErrGroupOrder, rec.Title, rec.ID, pos)
		}
		if rec.ID == previewGroupID {
			hasPreview = true
		}
		if len(rec.Components) > 1 {
			return domain.State{}, fmt.Errorf("%w: group %q has %d", ErrTooManyComponents, rec.Title, len(rec.Components))
		}

		group := domain.Group{ID: rec.ID, Title: rec.Title}
		if len(rec.Components) == 1 {
			c := rec.Components[0]
			if componentIDs[c.ID] {
				return domain.State{}, fmt.Errorf("%w: %d", ErrDuplicateComponent, c.ID)
			}
			componentIDs[c.ID] = true
			if c.ID > maxID {
				maxID = c.ID
			}

			images := make([]domain.Item, len(c.Images))
			for i, img := range c.Images {
				images[i] = domain.Item(img)
			}
			group.Component = &domain.Component{ID: c.ID, Name: c.Name, Images: images}
		}
		state.Groups = append(state.Groups, group)
	}

	if !hasPreview {
		return domain.State{}, fmt.Errorf("%w: id %d", ErrNoPreviewGroup, previewGroupID)
	}

	state.NextComponentID = maxID + 1
	return state, nil
}

// FromState converts a board state back into the seed layout.
func FromState(state domain.State) *File {
	f := &File{Groups: make([]GroupRecord, 0, len(state.Groups))}
	for _, g := range state.Groups {
		rec := GroupRecord{ID: g.ID, Title: g.Title, Components: []ComponentRecord{}}
		if g.Component != nil {
			images := make([]string, len(g.Component.Images))
			for i, img := range g.Component.Images {
				images[i] = string(img)
			}
			rec.Components = append(rec.Components, ComponentRecord{
				ID:     g.Component.ID,
				Name:   g.Component.Name,
				Images: images,
			})
		}
		f.Groups = append(f.Groups, rec)
	}
	return f
}

// Marshal encodes the seed as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
