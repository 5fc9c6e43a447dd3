package reorder

import (
	"testing"

	"github.com/h0rv/imgboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemKey(t *testing.T) {
	tests := []struct {
		item domain.Item
		want string
	}{
		{banner1, "banner-1"},
		{prod1, "p11"},
		{"https://example.com/img/plain.png", "plain.png"},
		{"no-slash_suffix.png", "no-slash"},
		{"https://example.com/a_b_c.png", "a"},
		{"https://example.com/dir/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.item), func(t *testing.T) {
			assert.Equal(t, tt.want, ItemKey(tt.item))
		})
	}
}

func TestDerivePreview_EmptyPreview(t *testing.T) {
	state := createTestState()

	entries := DerivePreview(state, previewID)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestDerivePreview_UnknownPreviewGroup(t *testing.T) {
	entries := DerivePreview(createTestState(), 77)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestDerivePreview_OrderFollowsPreview(t *testing.T) {
	state := createTestState()
	state.Groups[3].Component = &domain.Component{ID: 400, Name: "Moved Image", Images: []domain.Item{cat1, banner2, prod1}}

	entries := DerivePreview(state, previewID)
	require.Len(t, entries, 3)

	// Each item still sits in its source group, which precedes the preview.
	assert.Equal(t, "Categories", entries[0].SectionOr(""))
	assert.Equal(t, "cat-1", entries[0].Value)
	assert.Equal(t, "Banners", entries[1].SectionOr(""))
	assert.Equal(t, "banner-2", entries[1].Value)
	assert.Equal(t, "Products", entries[2].SectionOr(""))
	assert.Equal(t, "p11", entries[2].Value)
}

func TestEntries_Miss(t *testing.T) {
	state := createTestState()
	moved, err := ApplyDrop(state, drop(2, 0, previewID, 0), previewID)
	require.NoError(t, err)

	// Looked up against the source groups only, the sole copy is nowhere to be found.
	sources := moved.State.Groups[:3]
	entries := Entries(sources, moved.State.Groups[3].Items())
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Section)
	assert.Equal(t, "p11", entries[0].Value)
	assert.Equal(t, "(none)", entries[0].SectionOr("(none)"))
}
