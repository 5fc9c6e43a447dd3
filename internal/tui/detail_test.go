package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duplicateState() domain.State {
	return domain.State{
		Groups: []domain.Group{
			{ID: 0, Title: "Banners", Component: &domain.Component{ID: 100, Name: "Banners", Images: []domain.Item{
				"https://img.example/banner-1_a.png",
			}}},
			{ID: 1, Title: "Categories", Component: &domain.Component{ID: 200, Name: "Categories", Images: []domain.Item{
				"https://img.example/cat-1_c.png",
				"https://img.example/banner-1_copy.png",
			}}},
			{ID: 2, Title: "Preview", Component: &domain.Component{ID: 301, Name: domain.MovedComponentName, Images: []domain.Item{
				"https://img.example/banner-1_a.png",
			}}},
		},
		NextComponentID: 302,
	}
}

func TestDetailModel_Occurrences(t *testing.T) {
	section := "Banners"
	preview := []domain.PreviewEntry{{Section: &section, Value: "banner-1"}}

	m := NewDetailModel(duplicateState(), 2, 0, preview, 2)
	require.Len(t, m.occurs, 3)
	assert.False(t, m.occurs[0].same)
	assert.True(t, m.occurs[2].same)
	assert.True(t, m.isPreview)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	view := next.(DetailModel).View()
	assert.Contains(t, view, "Same key (3)")
	assert.Contains(t, view, "Section: Banners")
	assert.Contains(t, view, "Moved Image")
}

func TestDetailModel_NotPreview(t *testing.T) {
	m := NewDetailModel(duplicateState(), 1, 0, nil, 2)
	assert.False(t, m.isPreview)
	assert.Len(t, m.occurs, 1)
	assert.NotContains(t, m.View(), "Section:")
}

func TestDetailModel_Keys(t *testing.T) {
	var opened []string
	orig := openURL
	openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	t.Cleanup(func() { openURL = orig })

	m := NewDetailModel(duplicateState(), 0, 0, nil, 2)

	_, cmd := m.Update(keyMsg("o"))
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"https://img.example/banner-1_a.png"}, opened)

	_, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, closeDetailMsg{}, cmd())
}

func TestGroupPickerModel(t *testing.T) {
	groups := duplicateState().Groups
	m := NewGroupPickerModel(groups, 1)
	assert.Contains(t, m.View(), "Categories")

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, GroupPickedMsg{GroupID: 1}, cmd())

	_, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, closeGroupPickerMsg{}, cmd())
}

func TestGroupItem_Description(t *testing.T) {
	assert.Equal(t, "Group 3, empty", groupItem{group: domain.Group{ID: 3, Title: "Preview"}}.Description())
	assert.Equal(t, `Group 0, 1 images in "Banners"`, groupItem{group: duplicateState().Groups[0]}.Description())
}

func TestDetailModel_IgnoresStalePreviewEntry(t *testing.T) {
	// The stored preview still lists banner-1 after it was dragged back out,
	// while the preview group now holds cat-1.
	state := duplicateState()
	state.Groups[2].Component.Images = []domain.Item{"https://img.example/cat-1_c.png"}
	section := "Banners"
	stale := []domain.PreviewEntry{{Section: &section, Value: "banner-1"}}

	m := NewDetailModel(state, 2, 0, stale, 2)
	assert.True(t, m.isPreview)
	require.NotNil(t, m.entry)
	assert.Equal(t, "cat-1", m.entry.Value)

	view := m.View()
	assert.Contains(t, view, "Section: Categories")
	assert.NotContains(t, view, "Section: Banners")
}
