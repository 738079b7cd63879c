package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gamedeck/internal/api"
	"gamedeck/internal/catalog"
	"gamedeck/internal/watch"
)

// statusMsg carries one kept poll result into the watch page.
type statusMsg watch.Update

// stopRequestedMsg is the outcome of a stop request.
type stopRequestedMsg struct {
	resp api.ControlResponse
	err  error
}

// startRequestedMsg is the outcome of a start request.
type startRequestedMsg struct {
	resp api.ControlResponse
	err  error
}

// manifestMsg delivers the full game pack manifest, fetched once.
type manifestMsg struct {
	projects []api.Project
	err      error
}

// entryPointMsg is the result of resolving one project's playable path.
type entryPointMsg struct {
	key   catalog.CuratedKey
	entry api.EntryPoint
	err   error
}

// artReadyMsg reports a cover image becoming fetchable.
type artReadyMsg struct {
	key catalog.CuratedKey
	url string
	err error
}

// listenForStatus blocks on the poller channel and forwards the next
// update. Re-issued after every received message.
func listenForStatus(updates <-chan watch.Update) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return nil
		}
		return statusMsg(update)
	}
}

func requestStop(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.StopAgent(ctx)
		return stopRequestedMsg{resp: resp, err: err}
	}
}

func requestStart(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.StartAgent(ctx)
		return startRequestedMsg{resp: resp, err: err}
	}
}

func fetchManifest(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		packs, err := client.Manifest(ctx)
		if err != nil {
			return manifestMsg{err: err}
		}
		return manifestMsg{projects: catalog.Flatten(packs)}
	}
}

func resolveEntryPoint(ctx context.Context, client *api.Client, key catalog.CuratedKey) tea.Cmd {
	return func() tea.Msg {
		entry, err := client.ResolveEntryPoint(ctx, key.PackID, key.ProjectID)
		return entryPointMsg{key: key, entry: entry, err: err}
	}
}

func probeCoverArt(ctx context.Context, probe *watch.ArtProbe, client *api.Client, key catalog.CuratedKey) tea.Cmd {
	return func() tea.Msg {
		url, err := probe.Wait(ctx, client.CoverArtURL(key.PackID, key.ProjectID))
		return artReadyMsg{key: key, url: url, err: err}
	}
}

// clampInterval keeps tick-driven cadences sane when config is zero.
func clampInterval(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
