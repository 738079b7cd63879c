package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gamedeck/internal/api"
	"gamedeck/internal/catalog"
	"gamedeck/internal/watch"
)

// playState tracks entry-point resolution for the selected game.
type playState int

const (
	playIdle playState = iota
	playResolving
	playResolved
	playNotFound
	playFailed
)

// PlayModel resolves and presents one game's playable URL, probing for
// its cover art in the background.
type PlayModel struct {
	ctx    context.Context
	client *api.Client
	probe  *watch.ArtProbe
	styles Styles

	project api.Project
	key     catalog.CuratedKey
	state   playState

	playURL    string
	storage    string
	resolveErr error

	artURL string
	artErr error

	width  int
	height int
}

// NewPlayModel creates the play page.
func NewPlayModel(ctx context.Context, client *api.Client, probe *watch.ArtProbe, styles Styles) PlayModel {
	return PlayModel{ctx: ctx, client: client, probe: probe, styles: styles}
}

// SetSize updates the layout.
func (m *PlayModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Open starts resolution for a newly selected game. Any previous art
// probe result belongs to the old key and is cleared.
func (m PlayModel) Open(project api.Project) (PlayModel, tea.Cmd) {
	m.project = project
	m.key = catalog.CuratedKey{PackID: project.GamePackID, ProjectID: project.ID}
	m.state = playResolving
	m.playURL = ""
	m.storage = ""
	m.resolveErr = nil
	m.artURL = ""
	m.artErr = nil

	cmds := []tea.Cmd{resolveEntryPoint(m.ctx, m.client, m.key)}
	if m.project.PathToCoverArt != nil {
		cmds = append(cmds, probeCoverArt(m.ctx, m.probe, m.client, m.key))
	}
	return m, tea.Batch(cmds...)
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (PlayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entryPointMsg:
		if msg.key != m.key {
			return m, nil
		}
		switch {
		case msg.err != nil:
			var apiErr *api.Error
			if errors.As(msg.err, &apiErr) && apiErr.Status == 404 {
				m.state = playNotFound
			} else {
				m.state = playFailed
				m.resolveErr = msg.err
			}
		case msg.entry.Path == nil:
			m.state = playNotFound
		default:
			m.state = playResolved
			m.playURL = m.client.PlayURL(*msg.entry.Path)
			m.storage = msg.entry.Storage
		}
		return m, nil

	case artReadyMsg:
		if msg.key != m.key {
			return m, nil
		}
		m.artURL = msg.url
		m.artErr = msg.err
		return m, nil
	}
	return m, nil
}

// View renders the page.
func (m PlayModel) View() string {
	var b strings.Builder
	name := m.project.Metadata.Name
	if name == "" {
		name = "Untitled " + m.project.ID
	}
	b.WriteString(m.styles.Header.Render(name))
	b.WriteString("\n")
	if summary := m.project.Metadata.Summary; summary != "" {
		b.WriteString(m.styles.Dim.Render(summary))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.state {
	case playIdle:
		b.WriteString(m.styles.Dim.Render("Select a game from the library."))
	case playResolving:
		b.WriteString(m.styles.Dim.Render("Resolving entry point..."))
	case playNotFound:
		b.WriteString(m.styles.Error.Render("This game has no playable entry point."))
	case playFailed:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Could not resolve entry point: %v", m.resolveErr)))
	case playResolved:
		b.WriteString(m.styles.Title.Render("Play: ") + m.playURL)
		if m.storage != "" {
			b.WriteString("\n" + m.styles.Dim.Render("served from "+m.storage))
		}
	}

	b.WriteString("\n")
	switch {
	case m.artURL != "":
		b.WriteString(m.styles.Online.Render("cover art ready: ") + m.styles.Dim.Render(m.artURL))
	case m.artErr != nil:
		b.WriteString(m.styles.Dim.Render("cover art unavailable"))
	case m.project.PathToCoverArt != nil && m.state != playIdle:
		b.WriteString(m.styles.Dim.Render("waiting for cover art..."))
	}

	b.WriteString("\n\n" + m.styles.Help.Render("esc back to library · tab switch page · q quit"))
	return b.String()
}
