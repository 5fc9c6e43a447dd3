package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/imgboard/internal/domain"
	"github.com/h0rv/imgboard/internal/logger"
	"github.com/h0rv/imgboard/internal/seed"
	"github.com/h0rv/imgboard/internal/sink"
	"github.com/h0rv/imgboard/internal/store"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenBoard
	ScreenDetail
	ScreenGroupPicker
)

// SeedWatcher blocks until the seed file changes.
type SeedWatcher interface {
	Wait(ctx context.Context) error
}

// Options configures the app model.
type Options struct {
	SeedFile       string // Empty loads the embedded demo board
	PreviewGroupID int
	Sink           sink.Sink
	Log            logger.Logger
	Watcher        SeedWatcher // Optional, reloads the board when the seed file changes
	HelpStyle      string      // glamour style for the help overlay
}

// AppModel is the root Bubble Tea model that manages screen transitions.
// It loads the board, then switches between the board, image details and
// the group picker.
type AppModel struct {
	opts Options
	ctx  context.Context
	log  logger.Logger

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	spinner       spinner.Model
	err           error
	store         *store.Store

	// Cached so board state survives screen transitions
	boardModel *BoardModel
}

// NewAppModel creates a new app model.
func NewAppModel(ctx context.Context, opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return AppModel{
		opts:          opts,
		ctx:           ctx,
		log:           opts.Log.WithComponent("app"),
		currentScreen: ScreenLoading,
		spinner:       sp,
	}
}

// Init starts loading the board.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadBoard())
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" && m.currentScreen != ScreenBoard {
			return m, tea.Quit
		}
		if m.err != nil && msg.String() == "q" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.currentScreen != ScreenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ErrorMsg:
		if m.boardModel != nil {
			// A failed reload keeps the current board
			m.log.Warn("reload failed", logger.WithField("error", msg.Err))
			m.boardModel.errorToast = fmt.Sprintf("Reload failed: %v", msg.Err)
			m.syncBoard()
			return m, m.waitForSeed()
		}
		m.err = msg.Err
		m.log.Error("board failed", logger.WithField("error", msg.Err))
		return m, m.waitForSeed()

	case seedChangedMsg:
		m.log.Info("seed file changed", logger.WithField("path", m.opts.SeedFile))
		return m, m.loadBoard()

	case watchStoppedMsg:
		m.log.Warn("seed watch stopped", logger.WithField("error", msg.err))
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case boardLoadedMsg:
		m.err = nil
		m.store = store.New(msg.state, m.opts.PreviewGroupID, m.opts.Log)
		m.log.Info("board loaded",
			logger.WithField("groups", len(msg.state.Groups)),
			logger.WithField("images", msg.state.ItemCount()),
		)
		reloaded := m.boardModel != nil
		boardModel := NewBoardModel(m.store, m.opts.Sink, m.ctx, m.opts.Log)
		boardModel.help = boardModel.help.WithStyle(m.opts.HelpStyle)
		if reloaded {
			boardModel.toast = "Board reloaded from seed file"
		}
		m.boardModel = &boardModel
		m.currentScreen = ScreenBoard
		m.currentModel = boardModel
		return m, tea.Batch(boardModel.Init(), m.waitForSeed())

	case DropAppliedMsg:
		if msg.Event.Cancelled() {
			m.log.Debug("move cancelled", logger.WithField("source", msg.Event.Source))
		} else {
			m.log.Debug("image moved",
				logger.WithField("from", msg.Event.Source),
				logger.WithField("to", *msg.Event.Destination),
				logger.WithField("preview_updated", msg.PreviewUpdated),
			)
		}
		return m, nil

	case openDetailMsg:
		m.currentScreen = ScreenDetail
		detailModel := NewDetailModel(msg.state, msg.groupPos, msg.index, msg.preview, msg.previewGroupID)
		m.currentModel = detailModel
		return m, detailModel.Init()

	case openGroupPickerMsg:
		m.currentScreen = ScreenGroupPicker
		pickerModel := NewGroupPickerModel(msg.groups, msg.current)
		m.currentModel = pickerModel
		return m, pickerModel.Init()

	case GroupPickedMsg:
		// Hand the pick to the board, which still holds the image
		m.currentScreen = ScreenBoard
		next, cmd := m.boardModel.Update(msg)
		return m.showBoard(next), tea.Batch(cmd, tea.WindowSize())

	case closeDetailMsg, closeGroupPickerMsg:
		m.currentScreen = ScreenBoard
		m.currentModel = *m.boardModel
		return m, tea.WindowSize()
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		next, cmd := m.currentModel.Update(msg)
		if m.currentScreen == ScreenBoard {
			return m.showBoard(next), cmd
		}
		m.currentModel = next
		return m, cmd
	}

	return m, nil
}

// syncBoard shows the cached board again when it is the current screen.
func (m *AppModel) syncBoard() {
	if m.currentScreen == ScreenBoard {
		m.currentModel = *m.boardModel
	}
}

// showBoard makes next the current screen and keeps the cached board in sync.
func (m AppModel) showBoard(next tea.Model) AppModel {
	if bm, ok := next.(BoardModel); ok {
		m.boardModel = &bm
	}
	m.currentModel = next
	return m
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	if m.currentModel != nil {
		return m.currentModel.View()
	}

	return m.spinner.View() + " Loading board...\n\nPress Ctrl+C to quit"
}

// Store returns the board store once loaded, nil before.
func (m AppModel) Store() *store.Store {
	return m.store
}

// loadBoard reads the seed file and builds the initial state.
func (m AppModel) loadBoard() tea.Cmd {
	path, previewID := m.opts.SeedFile, m.opts.PreviewGroupID
	return func() tea.Msg {
		file, err := seed.Resolve(path)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load board: %w", err)}
		}
		state, err := file.State(previewID)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load board: %w", err)}
		}
		return boardLoadedMsg{state: state}
	}
}

// waitForSeed blocks on the seed watcher, if any, until the file changes.
func (m AppModel) waitForSeed() tea.Cmd {
	if m.opts.Watcher == nil {
		return nil
	}
	w, ctx := m.opts.Watcher, m.ctx
	return func() tea.Msg {
		if err := w.Wait(ctx); err != nil {
			return watchStoppedMsg{err: err}
		}
		return seedChangedMsg{}
	}
}

// Custom messages for app transitions.
type boardLoadedMsg struct {
	state domain.State
}

type seedChangedMsg struct{}

type watchStoppedMsg struct {
	err error
}
