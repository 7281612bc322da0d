// Package ui implements the reader's terminal interface.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tomepress/lectern/internal/doc"
	"github.com/tomepress/lectern/internal/ebook"
	"github.com/tomepress/lectern/internal/session"
	"github.com/tomepress/lectern/internal/tracker"
	"github.com/tomepress/lectern/internal/ui/styles"
)

// App is the main application model.
type App struct {
	sess *session.Session
	load func() (ebook.Ebook, error)
	keys KeyMap

	// Window dimensions
	width  int
	height int
	sized  bool

	// Loading state
	loading bool
	loadErr error

	// Loaded ebook
	eb       ebook.Ebook
	meta     ebook.Metadata
	toc      []ebook.TocEntry
	segments []ebook.Segment

	// Composed document
	lines  []string
	layout *doc.LayoutMap
	nav    *doc.Resolver

	// Position
	track      *tracker.Tracker
	lineOffset int

	// Overlays
	showTOC   bool
	tocCursor int
	showMeta  bool
	showHelp  bool

	// Transient notice, cleared on next key
	alert string
}

// NewApp creates the application model. load runs off the event loop and
// its result arrives as a queued message.
func NewApp(sess *session.Session, load func() (ebook.Ebook, error)) *App {
	return &App{
		sess:    sess,
		load:    load,
		keys:    DefaultKeyMap(),
		loading: true,
		track:   tracker.New(sess.Record.Progress),
		width:   80,
		height:  24,
	}
}

// Message types

type ebookLoadedMsg struct {
	eb  ebook.Ebook
	err error
}

// imageOpenedMsg reports the outcome of handing an image to the system
// opener.
type imageOpenedMsg struct {
	err error
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadEbook(), tea.SetWindowTitle("lectern"))
}

// loadEbook parses the ebook in the background. Completion is delivered
// as a message rather than a direct call so the first composition pass is
// done before content mounts.
func (a *App) loadEbook() tea.Cmd {
	return func() tea.Msg {
		eb, err := a.load()
		return ebookLoadedMsg{eb: eb, err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.sized = true
		if a.eb != nil {
			if err := a.compose(); err != nil {
				return a.fail(err)
			}
		}
		return a, nil

	case ebookLoadedMsg:
		if msg.err != nil {
			return a.fail(msg.err)
		}
		a.eb = msg.eb
		a.meta = msg.eb.Meta()
		a.toc = msg.eb.TOC()
		a.segments = msg.eb.Segments()
		a.loading = false
		if a.sized {
			if err := a.compose(); err != nil {
				return a.fail(err)
			}
		}
		return a, nil

	case imageOpenedMsg:
		if msg.err != nil {
			a.alert = msg.err.Error()
			a.sess.Log.Warn("open image", zap.Error(msg.err))
		}
		return a, nil

	case tea.KeyMsg:
		a.alert = ""
		return a.handleKey(msg)
	}
	return a, nil
}

// fail records a startup failure and quits; nothing meaningful can be
// displayed without a valid layout.
func (a *App) fail(err error) (tea.Model, tea.Cmd) {
	a.loadErr = err
	a.loading = false
	a.sess.Log.Error("startup failed", zap.Error(err))
	return a, tea.Quit
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.loading || a.eb == nil || a.layout == nil {
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}
	if a.showTOC {
		return a.updateTOC(msg)
	}
	if a.showMeta || a.showHelp {
		switch {
		case key.Matches(msg, a.keys.Escape),
			key.Matches(msg, a.keys.Quit),
			key.Matches(msg, a.keys.Metadata),
			key.Matches(msg, a.keys.Help):
			a.showMeta = false
			a.showHelp = false
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Down):
		a.scroll(1)
	case key.Matches(msg, a.keys.Up):
		a.scroll(-1)
	case key.Matches(msg, a.keys.PageDown), key.Matches(msg, a.keys.Space):
		a.scroll(a.visibleLines() - 1)
	case key.Matches(msg, a.keys.PageUp):
		a.scroll(-(a.visibleLines() - 1))
	case key.Matches(msg, a.keys.Home):
		a.setScroll(0)
	case key.Matches(msg, a.keys.End):
		a.setScroll(a.maxScroll())
	case key.Matches(msg, a.keys.TOC):
		a.openTOC()
	case key.Matches(msg, a.keys.Metadata):
		a.showMeta = true
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
	case key.Matches(msg, a.keys.OpenImage):
		return a, a.openNearestImage()
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.loadErr != nil {
		return styles.ErrorStyle.Render("Error: " + a.loadErr.Error())
	}
	// The load result may land before the first window size report; the
	// document is not composed until both have arrived.
	if a.loading || a.eb == nil || a.layout == nil {
		return lipgloss.Place(
			a.width,
			a.height,
			lipgloss.Center,
			lipgloss.Center,
			styles.MutedText.Render("Loading..."),
		)
	}
	if a.showTOC {
		return a.renderTOC()
	}
	if a.showMeta {
		return a.renderMetadata()
	}
	if a.showHelp {
		return a.renderHelp()
	}
	return a.renderReader()
}

// Progress is the final reading-progress fraction, consulted after the
// event loop exits.
func (a *App) Progress() float64 { return a.track.Progress() }

// Ebook is the loaded backend, or nil when loading never completed.
func (a *App) Ebook() ebook.Ebook { return a.eb }

// Err is the startup failure that ended the session, if any.
func (a *App) Err() error { return a.loadErr }
