package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gamedeck/internal/api"
	"gamedeck/internal/catalog"
)

// selectGameMsg asks the app to open the play view for one project.
type selectGameMsg struct {
	project api.Project
}

// GamesModel browses the cartridge catalog. The manifest is fetched once;
// filtering and paging are local. Pages append as the cursor approaches
// the end of what is loaded, so scrolling feels endless without ever
// materializing the whole filtered set at once.
type GamesModel struct {
	ctx    context.Context
	client *api.Client
	styles Styles

	manifest    []api.Project
	manifestErr error
	fetched     bool

	recommended []api.Project
	others      []api.Project
	view        catalog.View
	filter      catalog.Filter
	genres      []string
	baseGames   []string

	loaded      []api.Project
	loadedPages int
	hasMore     bool

	cursor   int
	pageSize int
	width    int
	height   int
}

// NewGamesModel creates the catalog page.
func NewGamesModel(ctx context.Context, client *api.Client, styles Styles) GamesModel {
	return GamesModel{
		ctx:      ctx,
		client:   client,
		styles:   styles,
		pageSize: catalog.DefaultPageSize,
	}
}

// Init fetches the manifest.
func (m GamesModel) Init() tea.Cmd {
	return fetchManifest(m.ctx, m.client)
}

// SetSize updates the layout.
func (m *GamesModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Update handles messages.
func (m GamesModel) Update(msg tea.Msg) (GamesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case manifestMsg:
		m.fetched = true
		if msg.err != nil {
			m.manifestErr = msg.err
			return m, nil
		}
		m.manifestErr = nil
		m.manifest = msg.projects
		recommended, others := catalog.Partition(m.manifest, catalog.CuratedList)
		m.recommended = catalog.SortCoverFirst(recommended)
		m.others = others
		m.genres, m.baseGames = catalog.Options(m.manifest)
		m.rebuildView()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.loaded)-1 {
				m.cursor++
			}
			m.maybeLoadMore()
		case "g":
			m.filter.Genre = cycleOption(m.genres, m.filter.Genre)
			m.rebuildView()
		case "G":
			m.filter.Genre = ""
			m.rebuildView()
		case "b":
			m.filter.BaseGame = cycleOption(m.baseGames, m.filter.BaseGame)
			m.rebuildView()
		case "enter":
			if m.cursor < len(m.loaded) {
				project := m.loaded[m.cursor]
				return m, func() tea.Msg { return selectGameMsg{project: project} }
			}
		}
	}
	return m, nil
}

// rebuildView reapplies the filter and starts paging from the top. The
// grid pages the non-curated partition only; curated projects live in
// the recommended strip and never appear twice.
func (m *GamesModel) rebuildView() {
	ordered := catalog.SortCoverFirst(m.others)
	m.view = catalog.NewView(ordered, m.filter)
	m.loaded = nil
	m.loadedPages = 0
	m.hasMore = true
	m.cursor = 0
	m.loadNextPage()
}

// maybeLoadMore appends the next page when the cursor nears the loaded
// tail. Already-exhausted views are left alone, so repeated triggers
// cannot double-append.
func (m *GamesModel) maybeLoadMore() {
	if !m.hasMore {
		return
	}
	if m.cursor >= len(m.loaded)-3 {
		m.loadNextPage()
	}
}

func (m *GamesModel) loadNextPage() {
	if !m.hasMore {
		return
	}
	page := m.view.Page(m.loadedPages, m.pageSize)
	m.loaded = append(m.loaded, page.Items...)
	m.loadedPages++
	m.hasMore = page.HasMore
}

// View renders the page.
func (m GamesModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Game Library"))
	b.WriteString("\n")

	switch {
	case !m.fetched:
		b.WriteString(m.styles.Dim.Render("Loading catalog..."))
		return b.String()
	case m.manifestErr != nil:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Could not load catalog: %v", m.manifestErr)))
		return b.String()
	case len(m.manifest) == 0:
		b.WriteString(m.styles.Dim.Render("No games have been generated yet."))
		return b.String()
	}

	b.WriteString(m.filterLine())
	b.WriteString("\n")

	recommended := m.matchingRecommended()
	if len(recommended) > 0 {
		b.WriteString(m.styles.Title.Render("Recommended"))
		b.WriteString("\n")
		names := make([]string, 0, len(recommended))
		for _, project := range recommended {
			names = append(names, project.Metadata.Name)
		}
		b.WriteString(m.styles.Badge.Render(strings.Join(names, " · ")))
		b.WriteString("\n\n")
	}

	if m.view.Len() == 0 {
		if len(recommended) == 0 {
			b.WriteString(m.styles.Dim.Render("No games match the current filters."))
		} else {
			b.WriteString(m.styles.Dim.Render("No other games match the current filters."))
		}
		return b.String()
	}

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.row(i))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("%d of %d games", len(m.loaded), m.view.Len())
	if !m.filter.IsZero() {
		footer = fmt.Sprintf("%d of %d matching, %d total", len(m.loaded), m.view.Len(), m.view.Total())
	}
	if m.hasMore {
		footer += ", scroll for more"
	}
	b.WriteString(m.styles.Dim.Render(footer))
	b.WriteString("\n" + m.styles.Help.Render("↑/↓ browse · enter play · g genre · b type · tab switch page · q quit"))
	return b.String()
}

// matchingRecommended narrows the curated strip with the same predicate
// as the grid, so a genre or type choice applies to both sections.
func (m GamesModel) matchingRecommended() []api.Project {
	if m.filter.IsZero() {
		return m.recommended
	}
	var out []api.Project
	for _, project := range m.recommended {
		if m.filter.Matches(project) {
			out = append(out, project)
		}
	}
	return out
}

func (m GamesModel) filterLine() string {
	genre := m.filter.Genre
	if genre == "" {
		genre = "all"
	}
	base := m.filter.BaseGame
	if base == "" {
		base = "all"
	}
	return m.styles.Dim.Render(fmt.Sprintf("genre: %s  type: %s", genre, base))
}

func (m GamesModel) row(i int) string {
	project := m.loaded[i]
	name := project.Metadata.Name
	if name == "" {
		name = "Untitled " + project.ID
	}
	line := name
	if project.PathToCoverArt == nil {
		line += "  " + m.styles.Dim.Render("(no art)")
	}
	if genres := project.Metadata.Genre; len(genres) > 0 {
		line += "  " + m.styles.Dim.Render(strings.Join(genres, ", "))
	}
	if i == m.cursor {
		return m.styles.Selected.Render("> " + line)
	}
	return "  " + line
}

// visibleRange windows the loaded rows around the cursor so the list fits
// the terminal height.
func (m GamesModel) visibleRange() (int, int) {
	rows := m.height - 8
	if rows < 4 {
		rows = 4
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := start + rows
	if end > len(m.loaded) {
		end = len(m.loaded)
	}
	return start, end
}

// cycleOption walks options in order, passing through the unset state
// between the last and first option.
func cycleOption(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0]
	}
	for i, option := range options {
		if option == current {
			if i == len(options)-1 {
				return ""
			}
			return options[i+1]
		}
	}
	return ""
}
