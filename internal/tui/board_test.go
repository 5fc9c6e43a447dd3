package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/sink"
	"github.com/h0rv/imgboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink keeps committed batches for inspection
type recordingSink struct {
	batches []sink.Batch
	err     error
}

func (s *recordingSink) Commit(_ context.Context, batch sink.Batch) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, batch)
	return nil
}

// createTestStore creates a store with test data
func createTestStore() *store.Store {
	state := domain.State{
		Groups: []domain.Group{
			{ID: 0, Title: "Banners", Component: &domain.Component{ID: 100, Name: "Banners", Images: []domain.Item{
				"https://img.example/banner-1_a.png",
				"https://img.example/banner-2_b.png",
			}}},
			{ID: 1, Title: "Categories", Component: &domain.Component{ID: 200, Name: "Categories", Images: []domain.Item{
				"https://img.example/cat-1_c.png",
			}}},
			{ID: 2, Title: "Products", Component: &domain.Component{ID: 300, Name: "Products", Images: []domain.Item{}}},
			{ID: 3, Title: "Preview"},
		},
		NextComponentID: 301,
	}
	return store.New(state, domain.DefaultPreviewGroupID, nil)
}

func newTestBoard(out sink.Sink) BoardModel {
	board := NewBoardModel(createTestStore(), out, context.Background(), nil)
	next, _ := board.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(BoardModel)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys to the board and returns the model and the last command
func press(m BoardModel, keys ...string) (BoardModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(BoardModel)
	}
	return m, cmd
}

func imagesOf(t *testing.T, s *store.Store, groupID int) []domain.Item {
	t.Helper()
	state := s.State()
	pos := state.FindGroup(groupID)
	require.GreaterOrEqual(t, pos, 0)
	return state.Groups[pos].Items()
}

func TestBoardModel_Navigation(t *testing.T) {
	board := newTestBoard(nil)
	assert.Equal(t, 0, board.selectedGroup)

	board, _ = press(board, "l")
	assert.Equal(t, 1, board.selectedGroup)

	board, _ = press(board, "l", "l", "l", "l")
	assert.Equal(t, 3, board.selectedGroup, "Should stop at the last group")

	board, _ = press(board, "h", "h", "h", "h", "h")
	assert.Equal(t, 0, board.selectedGroup, "Should stop at the first group")

	board, _ = press(board, "j", "j", "j")
	assert.Equal(t, 1, board.selectedItem[0], "Should stop at the last image")

	board, _ = press(board, "g")
	assert.Equal(t, 0, board.selectedItem[0])

	board, _ = press(board, "G")
	assert.Equal(t, 1, board.selectedItem[0])
}

func TestBoardModel_MoveWithinGroup(t *testing.T) {
	board := newTestBoard(nil)

	board, _ = press(board, "m")
	require.True(t, board.moveMode)
	assert.Equal(t, domain.Location{GroupID: 0, Index: 0}, board.held)

	// Only one other image remains after removal, so index 1 is the limit
	board, _ = press(board, "j", "j")
	assert.Equal(t, 1, board.dropIndex)

	board, cmd := press(board, "enter")
	assert.False(t, board.moveMode)
	require.NotNil(t, cmd)

	applied, ok := cmd().(DropAppliedMsg)
	require.True(t, ok)
	assert.False(t, applied.PreviewUpdated)

	assert.Equal(t, []domain.Item{
		"https://img.example/banner-2_b.png",
		"https://img.example/banner-1_a.png",
	}, imagesOf(t, board.store, 0))
	assert.Equal(t, 1, board.selectedItem[0], "Selection should follow the image")
}

func TestBoardModel_MoveToPreview(t *testing.T) {
	board := newTestBoard(nil)

	board, _ = press(board, "m", "l", "l", "l")
	assert.Equal(t, 3, board.dropGroup)
	assert.Equal(t, 0, board.dropIndex)

	board, cmd := press(board, "enter")
	require.NotNil(t, cmd)
	applied := cmd().(DropAppliedMsg)
	assert.True(t, applied.PreviewUpdated)

	state := board.store.State()
	require.NotNil(t, state.Groups[3].Component)
	assert.Equal(t, 301, state.Groups[3].Component.ID)
	assert.Equal(t, domain.MovedComponentName, state.Groups[3].Component.Name)

	preview := board.store.Preview()
	require.Len(t, preview, 1)
	assert.Equal(t, "banner-1", preview[0].Value)
	assert.Equal(t, "Preview", preview[0].SectionOr(""))

	assert.Equal(t, 3, board.selectedGroup)
	assert.Contains(t, board.View(), "Preview/banner-1")
}

func TestBoardModel_CancelMove(t *testing.T) {
	board := newTestBoard(nil)
	before := board.store.State()

	board, _ = press(board, "m", "l")
	board, cmd := press(board, "esc")
	assert.False(t, board.moveMode)
	require.NotNil(t, cmd)

	applied := cmd().(DropAppliedMsg)
	assert.True(t, applied.Event.Cancelled())
	assert.Equal(t, before, board.store.State())
	assert.False(t, board.store.CanUndo())
}

func TestBoardModel_DigitDropsAtEnd(t *testing.T) {
	board := newTestBoard(nil)

	board, _ = press(board, "m", "2")
	assert.False(t, board.moveMode)
	assert.Equal(t, []domain.Item{
		"https://img.example/cat-1_c.png",
		"https://img.example/banner-1_a.png",
	}, imagesOf(t, board.store, 1))

	// Digits beyond the last group are ignored
	board, _ = press(board, "m", "9")
	assert.True(t, board.moveMode)
}

func TestBoardModel_GroupPicked(t *testing.T) {
	board := newTestBoard(nil)

	// Ignored outside move mode
	next, _ := board.Update(GroupPickedMsg{GroupID: 2})
	board = next.(BoardModel)
	assert.Empty(t, imagesOf(t, board.store, 2))

	board, cmd := press(board, "m", "t")
	require.NotNil(t, cmd)
	picker, ok := cmd().(openGroupPickerMsg)
	require.True(t, ok)
	assert.Len(t, picker.groups, 4)

	next, _ = board.Update(GroupPickedMsg{GroupID: 2})
	board = next.(BoardModel)
	assert.Equal(t, []domain.Item{"https://img.example/banner-1_a.png"}, imagesOf(t, board.store, 2))

	board, _ = press(board, "m")
	next, _ = board.Update(GroupPickedMsg{GroupID: 42})
	board = next.(BoardModel)
	assert.Contains(t, board.errorToast, "unknown group")
}

func TestBoardModel_UndoReset(t *testing.T) {
	board := newTestBoard(nil)
	initial := board.store.State()

	board, _ = press(board, "u")
	assert.Contains(t, board.errorToast, "nothing to undo")

	board, _ = press(board, "m", "3", "h", "h", "m", "3")
	assert.Len(t, imagesOf(t, board.store, 2), 2)

	board, _ = press(board, "u")
	assert.Len(t, imagesOf(t, board.store, 2), 1)
	assert.Equal(t, "Move undone", board.toast)

	board, _ = press(board, "R")
	assert.Equal(t, initial, board.store.State())
	assert.False(t, board.store.CanUndo())
}

func TestBoardModel_Save(t *testing.T) {
	out := &recordingSink{}
	board := newTestBoard(out)

	board, _ = press(board, "m", "4")
	board, cmd := press(board, "s")
	assert.True(t, board.saving)
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(savedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, saved.entries)
	require.Len(t, out.batches, 1)
	assert.Equal(t, "banner-1", out.batches[0].Entries[0].Value)

	next, _ := board.Update(msg)
	board = next.(BoardModel)
	assert.False(t, board.saving)
	assert.Contains(t, board.toast, "Saved 1 preview entries")
}

func TestBoardModel_SaveWhileSaving(t *testing.T) {
	out := &recordingSink{}
	board := newTestBoard(out)

	board, first := press(board, "s")
	require.NotNil(t, first)
	require.True(t, board.saving)

	board, second := press(board, "s")
	assert.Nil(t, second, "a save in flight blocks another commit")
	assert.True(t, board.saving)

	next, _ := board.Update(first())
	board = next.(BoardModel)
	assert.False(t, board.saving)
	assert.Len(t, out.batches, 1)

	_, again := press(board, "s")
	assert.NotNil(t, again)
}

func TestBoardModel_SaveErrors(t *testing.T) {
	board := newTestBoard(nil)
	board, cmd := press(board, "s")
	assert.Nil(t, cmd)
	assert.Contains(t, board.errorToast, "no sink")

	board = newTestBoard(&recordingSink{err: errors.New("disk full")})
	board, cmd = press(board, "s")
	require.NotNil(t, cmd)
	next, _ := board.Update(cmd())
	board = next.(BoardModel)
	assert.Contains(t, board.errorToast, "disk full")
}

func TestBoardModel_Collapse(t *testing.T) {
	board := newTestBoard(nil)

	board, _ = press(board, " ")
	assert.True(t, board.collapsed[0])

	board, _ = press(board, "j", "m")
	assert.Equal(t, 0, board.selectedItem[0])
	assert.False(t, board.moveMode, "Folded groups cannot be picked from")

	board, _ = press(board, " ")
	assert.False(t, board.collapsed[0])

	// The preview group never folds
	board, _ = press(board, "l", "l", "l", " ")
	assert.False(t, board.collapsed[3])
}

func TestBoardModel_DropUnfoldsDestination(t *testing.T) {
	board := newTestBoard(nil)

	board, _ = press(board, "l", " ", "h", "m", "2")
	assert.False(t, board.collapsed[1])
	assert.Equal(t, 1, board.selectedGroup)
	assert.Equal(t, 1, board.selectedItem[1])
}

func TestBoardModel_PickUpEmptyGroup(t *testing.T) {
	board := newTestBoard(nil)

	board, _ = press(board, "l", "l", "m")
	assert.False(t, board.moveMode)
}

func TestBoardModel_OpenInBrowser(t *testing.T) {
	var opened []string
	orig := openURL
	openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	t.Cleanup(func() { openURL = orig })

	board := newTestBoard(nil)
	press(board, "j", "o")
	assert.Equal(t, []string{"https://img.example/banner-2_b.png"}, opened)
}

func TestBoardModel_EnterOpensDetail(t *testing.T) {
	board := newTestBoard(nil)

	_, cmd := press(board, "j", "enter")
	require.NotNil(t, cmd)
	detail, ok := cmd().(openDetailMsg)
	require.True(t, ok)
	assert.Equal(t, 0, detail.groupPos)
	assert.Equal(t, 1, detail.index)
	assert.Equal(t, 3, detail.previewGroupID)
}

func TestBoardModel_DropMarkerRendered(t *testing.T) {
	board := newTestBoard(nil)

	assert.NotContains(t, board.renderAllColumns(), "drop here")

	board, _ = press(board, "m", "l", "l")
	output := board.renderAllColumns()
	assert.Contains(t, output, "drop here")
	assert.Contains(t, board.View(), "MOVE")
}

func TestBoardModel_View_NotPanic(t *testing.T) {
	board := NewBoardModel(createTestStore(), nil, context.Background(), nil)

	// Without a window size the view falls back to defaults
	assert.NotPanics(t, func() { _ = board.View() })

	board = newTestBoard(nil)
	output := board.View()
	for _, title := range []string{"Banners", "Categories", "Products", "Preview"} {
		assert.Contains(t, output, title)
	}
	assert.Contains(t, output, "Preview entries: none yet")
}

func TestBoardModel_NarrowWindowCarousel(t *testing.T) {
	board := NewBoardModel(createTestStore(), nil, context.Background(), nil)
	next, _ := board.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	board = next.(BoardModel)

	board, _ = press(board, "l", "l", "l")
	assert.Equal(t, 2, board.columnOffset)

	output := board.renderAllColumns()
	assert.Contains(t, output, "Preview")
	assert.NotContains(t, output, "Banners")
}

func TestBoardModel_NarrowWindowFollowsDropMarker(t *testing.T) {
	board := NewBoardModel(createTestStore(), nil, context.Background(), nil)
	next, _ := board.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	board = next.(BoardModel)

	board, _ = press(board, "m", "l", "l", "l")
	require.True(t, board.moveMode)
	assert.Equal(t, 3, board.dropGroup)
	assert.Equal(t, 2, board.columnOffset)

	output := board.renderAllColumns()
	assert.Contains(t, output, "drop here")
	assert.NotContains(t, output, "Banners")

	board, _ = press(board, "h", "h", "h")
	assert.Equal(t, 0, board.columnOffset)
	output = board.renderAllColumns()
	assert.Contains(t, output, "Banners")
	assert.Contains(t, output, "drop here")
}

func TestFormatItemText_Truncation(t *testing.T) {
	board := newTestBoard(nil)

	text := board.formatItemText("https://img.example/a-very-long-image-name-that-will-not-fit_x.png", 0, 20)
	assert.LessOrEqual(t, lipgloss.Width(text), 20)
	assert.Contains(t, text, "…")
	assert.Contains(t, text, "#1")
}

func TestBoardModel_HelpOverlay(t *testing.T) {
	board := newTestBoard(nil)

	board, _ = press(board, "?")
	require.True(t, board.showHelp)
	view := board.View()
	assert.Contains(t, view, "Moving")
	assert.Contains(t, view, "pick up image")

	// Keys other than ?, q and esc are swallowed while help is open
	board, _ = press(board, "l")
	assert.Equal(t, 0, board.selectedGroup)

	board, _ = press(board, "esc")
	assert.False(t, board.showHelp)
}
