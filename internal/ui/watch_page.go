package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"gamedeck/internal/api"
	"gamedeck/internal/catalog"
	"gamedeck/internal/render"
	"gamedeck/internal/transcript"
	"gamedeck/internal/watch"
)

// watchState is the page's display mode. Exactly one applies at a time.
type watchState int

const (
	stateConnecting watchState = iota
	stateOffline
	stateWaiting
	stateLog
)

// WatchModel shows the live agent conversation. Status arrives via
// statusMsg from the app-owned poller; the page never polls on its own.
type WatchModel struct {
	ctx      context.Context
	client   *api.Client
	probe    *watch.ArtProbe
	styles   Styles
	renderer *render.Renderer
	viewport viewport.Model

	status    *api.AgentStatus
	statusErr error

	artKey    catalog.CuratedKey
	artURL    string
	artErr    error
	artCancel context.CancelFunc

	confirmingStop bool
	stopInFlight   bool
	startInFlight  bool
	controlErr     error
	controlNote    string

	width  int
	height int
	ready  bool
}

// NewWatchModel creates the watch page.
func NewWatchModel(ctx context.Context, client *api.Client, probe *watch.ArtProbe, renderer *render.Renderer, styles Styles) WatchModel {
	return WatchModel{
		ctx:      ctx,
		client:   client,
		probe:    probe,
		styles:   styles,
		renderer: renderer,
		viewport: viewport.New(80, 20),
	}
}

// SetSize updates the layout.
func (m *WatchModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 5
	m.ready = true
	m.refreshContent(false)
}

// state derives the single active display mode.
func (m WatchModel) state() watchState {
	if m.status == nil {
		if m.statusErr != nil {
			return stateOffline
		}
		return stateConnecting
	}
	if !m.status.IsOnline {
		return stateOffline
	}
	if len(m.status.ConversationLog) == 0 {
		return stateWaiting
	}
	return stateLog
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (WatchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		return m.applyStatus(watch.Update(msg))

	case artReadyMsg:
		if msg.key != m.artKey {
			return m, nil
		}
		if msg.err != nil {
			m.artErr = msg.err
		} else {
			m.artURL = msg.url
			m.artErr = nil
		}
		return m, nil

	case stopRequestedMsg:
		m.stopInFlight = false
		if msg.err != nil {
			m.controlErr = msg.err
		} else {
			m.controlErr = nil
			m.controlNote = msg.resp.Message
		}
		return m, nil

	case startRequestedMsg:
		m.startInFlight = false
		if msg.err != nil {
			m.controlErr = msg.err
		} else {
			m.controlErr = nil
			m.controlNote = msg.resp.Message
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirmingStop {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "s":
			if m.canRequestStop() {
				m.confirmingStop = true
			}
			return m, nil
		case "r":
			if m.canRequestStart() {
				m.startInFlight = true
				m.controlNote = ""
				return m, requestStart(m.ctx, m.client)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m WatchModel) updateConfirm(msg tea.KeyMsg) (WatchModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.confirmingStop = false
		m.stopInFlight = true
		m.controlNote = ""
		return m, requestStop(m.ctx, m.client)
	case "n", "esc":
		m.confirmingStop = false
		return m, nil
	}
	return m, nil
}

// applyStatus folds a poll result into the page. The status error surface
// is independent from control errors: a failed poll never clears a stop
// failure message and vice versa.
func (m WatchModel) applyStatus(update watch.Update) (WatchModel, tea.Cmd) {
	if update.Err != nil {
		m.statusErr = update.Err
		return m, nil
	}
	changed := watch.Changed(m.status, update.Status)
	m.status = update.Status
	m.statusErr = nil
	if m.confirmingStop && !m.canRequestStop() {
		m.confirmingStop = false
	}
	m.refreshContent(changed)
	return m.syncArtProbe()
}

// syncArtProbe keys the cover-art probe on the active job. A new job id
// starts a fresh probe, a finished or vanished job cancels the running
// one, and a late result for a previous key is discarded in Update.
func (m WatchModel) syncArtProbe() (WatchModel, tea.Cmd) {
	var want catalog.CuratedKey
	if m.status.IsRunning && m.status.CurrentJobID != nil {
		want = catalog.CuratedKey{PackID: m.status.SessionTimestamp, ProjectID: *m.status.CurrentJobID}
	}
	if want == m.artKey {
		return m, nil
	}
	if m.artCancel != nil {
		m.artCancel()
		m.artCancel = nil
	}
	m.artKey = want
	m.artURL = ""
	m.artErr = nil
	if want == (catalog.CuratedKey{}) {
		return m, nil
	}
	probeCtx, cancel := context.WithCancel(m.ctx)
	m.artCancel = cancel
	return m, probeCoverArt(probeCtx, m.probe, m.client, want)
}

func (m *WatchModel) refreshContent(scrollToBottom bool) {
	if !m.ready || m.state() != stateLog {
		return
	}
	entries := transcript.DecodeLog(m.status.ConversationLog)
	units := m.renderer.Log(entries)
	kept := make([]string, 0, len(units))
	for _, unit := range units {
		if unit != "" {
			kept = append(kept, unit)
		}
	}
	m.viewport.SetContent(strings.Join(kept, "\n\n"))
	if scrollToBottom {
		m.viewport.GotoBottom()
	}
}

func (m WatchModel) canRequestStop() bool {
	return m.status != nil && m.status.IsOnline && m.status.IsRunning && !m.stopInFlight
}

func (m WatchModel) canRequestStart() bool {
	return m.status != nil && m.status.IsOnline && !m.status.IsRunning && !m.startInFlight
}

// View renders the page.
func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	switch m.state() {
	case stateConnecting:
		b.WriteString(m.styles.Dim.Render("Connecting to backend..."))
	case stateOffline:
		msg := "Agent backend is offline."
		if m.statusErr != nil {
			msg = fmt.Sprintf("Agent backend is unreachable: %v", m.statusErr)
		}
		b.WriteString(m.styles.Offline.Render(msg))
	case stateWaiting:
		b.WriteString(m.styles.Dim.Render("Agent is online. Waiting for a conversation to start..."))
	case stateLog:
		b.WriteString(m.viewport.View())
	}

	if m.controlErr != nil {
		b.WriteString("\n" + m.styles.Error.Render(fmt.Sprintf("Control error: %v", m.controlErr)))
	} else if m.controlNote != "" {
		b.WriteString("\n" + m.styles.Dim.Render(m.controlNote))
	}

	if m.confirmingStop {
		b.WriteString("\n" + m.styles.Dialog.Render("Stop the agent after the current job?  [y] stop  [n] keep running"))
	} else {
		b.WriteString("\n" + m.helpLine())
	}
	return b.String()
}

func (m WatchModel) header() string {
	badge := m.styles.Offline.Render("offline")
	detail := ""
	if m.status != nil && m.status.IsOnline {
		if m.status.IsRunning {
			badge = m.styles.Online.Render("running")
			if m.status.CurrentPrompt != nil {
				detail = m.styles.Dim.Render(*m.status.CurrentPrompt)
			}
		} else {
			badge = m.styles.Online.Render("idle")
		}
	}
	parts := []string{m.styles.Header.Render("Agent"), badge}
	if m.status != nil {
		parts = append(parts, m.styles.Dim.Render(fmt.Sprintf("%d messages", len(m.status.ConversationLog))))
		if m.status.NumCompletedIdeas > 0 {
			parts = append(parts, m.styles.Badge.Render(fmt.Sprintf("%d games built", m.status.NumCompletedIdeas)))
		}
	}
	if m.artURL != "" {
		parts = append(parts, m.styles.Badge.Render("cover art ready"))
	} else if m.artErr != nil {
		parts = append(parts, m.styles.Dim.Render("cover art unavailable"))
	} else if m.artKey != (catalog.CuratedKey{}) {
		parts = append(parts, m.styles.Dim.Render("waiting for cover art"))
	}
	if detail != "" {
		parts = append(parts, detail)
	}
	return strings.Join(parts, "  ")
}

func (m WatchModel) helpLine() string {
	keys := []string{"↑/↓ scroll"}
	if m.canRequestStop() {
		keys = append(keys, "s stop")
	}
	if m.stopInFlight {
		keys = append(keys, "stopping...")
	}
	if m.canRequestStart() {
		keys = append(keys, "r run")
	}
	keys = append(keys, "tab switch page", "q quit")
	return m.styles.Help.Render(strings.Join(keys, " · "))
}
