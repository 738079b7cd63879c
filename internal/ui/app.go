package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"gamedeck/internal/api"
	"gamedeck/internal/render"
	"gamedeck/internal/watch"
)

// page identifies one top-level tab.
type page int

const (
	pageWatch page = iota
	pageGames
	pagePlay
)

// App is the root model. It owns the status poller and routes messages
// to whichever page they belong to; poll results always reach the watch
// page even when another tab is active.
type App struct {
	ctx    context.Context
	styles Styles
	logger *zap.Logger

	updates <-chan watch.Update

	active page
	watch  WatchModel
	games  GamesModel
	play   PlayModel

	width  int
	height int
}

// Config wires the app's collaborators.
type Config struct {
	Client       *api.Client
	PollInterval time.Duration
	ArtInterval  time.Duration
	ArtAttempts  int
	Renderer     *render.Renderer
	Logger       *zap.Logger
}

// NewApp builds the dashboard. The poller starts on Init and stops with
// ctx.
func NewApp(ctx context.Context, cfg Config) App {
	styles := DefaultStyles()
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	poller := watch.NewPoller(cfg.Client, clampInterval(cfg.PollInterval, 5*time.Second))
	probe := watch.NewArtProbe(cfg.Client, clampInterval(cfg.ArtInterval, 3*time.Second), cfg.ArtAttempts)

	return App{
		ctx:     ctx,
		styles:  styles,
		logger:  logger,
		updates: poller.Run(ctx),
		watch:   NewWatchModel(ctx, cfg.Client, probe, cfg.Renderer, styles),
		games:   NewGamesModel(ctx, cfg.Client, styles),
		play:    NewPlayModel(ctx, cfg.Client, probe, styles),
	}
}

// Init starts listening for poll results and fetches the catalog.
func (a App) Init() tea.Cmd {
	return tea.Batch(listenForStatus(a.updates), a.games.Init())
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.watch.SetSize(msg.Width, msg.Height-2)
		a.games.SetSize(msg.Width, msg.Height-2)
		a.play.SetSize(msg.Width, msg.Height-2)
		return a, nil

	case statusMsg:
		var cmd tea.Cmd
		a.watch, cmd = a.watch.Update(msg)
		return a, tea.Batch(cmd, listenForStatus(a.updates))

	case stopRequestedMsg, startRequestedMsg:
		var cmd tea.Cmd
		a.watch, cmd = a.watch.Update(msg)
		return a, cmd

	case manifestMsg:
		var cmd tea.Cmd
		a.games, cmd = a.games.Update(msg)
		return a, cmd

	case entryPointMsg:
		var cmd tea.Cmd
		a.play, cmd = a.play.Update(msg)
		return a, cmd

	// Both pages probe art with their own keys; each drops results
	// that are not for its current key.
	case artReadyMsg:
		var watchCmd, playCmd tea.Cmd
		a.watch, watchCmd = a.watch.Update(msg)
		a.play, playCmd = a.play.Update(msg)
		return a, tea.Batch(watchCmd, playCmd)

	case selectGameMsg:
		var cmd tea.Cmd
		a.play, cmd = a.play.Open(msg.project)
		a.active = pagePlay
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !a.stopDialogOpen() {
				return a, tea.Quit
			}
		case "tab":
			if !a.stopDialogOpen() {
				a.active = a.nextPage()
				return a, nil
			}
		case "esc":
			if a.active == pagePlay {
				a.active = pageGames
				return a, nil
			}
		}
	}

	return a.routeToActive(msg)
}

func (a App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case pageWatch:
		a.watch, cmd = a.watch.Update(msg)
	case pageGames:
		a.games, cmd = a.games.Update(msg)
	case pagePlay:
		a.play, cmd = a.play.Update(msg)
	}
	return a, cmd
}

// stopDialogOpen blocks global keys while the confirmation is up, so a
// stray q cannot dismiss the dialog by quitting.
func (a App) stopDialogOpen() bool {
	return a.active == pageWatch && a.watch.confirmingStop
}

func (a App) nextPage() page {
	switch a.active {
	case pageWatch:
		return pageGames
	default:
		return pageWatch
	}
}

// View renders the active page under the tab bar.
func (a App) View() string {
	var body string
	switch a.active {
	case pageWatch:
		body = a.watch.View()
	case pageGames:
		body = a.games.View()
	case pagePlay:
		body = a.play.View()
	}
	return a.tabBar() + "\n" + body
}

func (a App) tabBar() string {
	labels := []struct {
		p    page
		name string
	}{
		{pageWatch, "Watch"},
		{pageGames, "Games"},
		{pagePlay, "Play"},
	}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		style := a.styles.Tab
		if label.p == a.active {
			style = a.styles.ActiveTab
		}
		parts = append(parts, style.Render(label.name))
	}
	return strings.Join(parts, "")
}
