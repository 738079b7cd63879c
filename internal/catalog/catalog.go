// Package catalog derives browsable views from the game pack manifest:
// curated/other partitioning, genre and base-game filters, cover-art-first
// ordering, and fixed-size page windows for infinite scrolling.
package catalog

import (
	"sort"

	"gamedeck/internal/api"
)

// DefaultPageSize is the page window served to the grid.
const DefaultPageSize = 12

// CuratedKey identifies one vetted project inside a pack.
type CuratedKey struct {
	PackID    string
	ProjectID string
}

// CuratedList is the operator's static allow-list of tested games.
var CuratedList = []CuratedKey{
	{"20251125_155759", "43"},
	{"20251125_115145", "17"},
	{"20251125_155759", "26"},
	{"20251125_155759", "17"},
	{"20251125_155759", "57"},
	{"20251125_155759", "19"},
	{"20251125_155759", "20"},
	{"20251125_155759", "34"},
	{"20251125_155759", "39"},
	{"20251125_115145", "20"},
	{"20251125_155759", "2"},
	{"20251125_155759", "4"},
	{"20251125_155759", "49"},
	{"20251125_155759", "52"},
	{"20251125_115145", "9"},
	{"20251125_115145", "10"},
	{"20251125_115145", "21"},
	{"20251125_031027", "22"},
}

// Filter narrows the visible set. Each field is an at-most-one-of-N
// choice; the empty string means no constraint on that axis.
type Filter struct {
	Genre    string
	BaseGame string
}

// IsZero reports whether the filter passes everything through.
func (f Filter) IsZero() bool { return f.Genre == "" && f.BaseGame == "" }

// Matches applies the intersection predicate.
func (f Filter) Matches(project api.Project) bool {
	if f.Genre != "" {
		found := false
		for _, genre := range project.Metadata.Genre {
			if genre == f.Genre {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.BaseGame != "" && project.Metadata.BaseGame != f.BaseGame {
		return false
	}
	return true
}

// Flatten expands packs into a single project list, stamping each project
// with its pack id. Pack and in-pack order are preserved.
func Flatten(packs []api.GamePack) []api.Project {
	var projects []api.Project
	for _, pack := range packs {
		for _, project := range pack.Projects {
			project.GamePackID = pack.ID
			projects = append(projects, project)
		}
	}
	return projects
}

// PreferredPack picks the default pack from a directory listing: the
// "favorites" pack when present, otherwise the first. The backend lists
// packs newest first.
func PreferredPack(packs []api.PackListing) (api.PackListing, bool) {
	if len(packs) == 0 {
		return api.PackListing{}, false
	}
	for _, pack := range packs {
		if pack.Timestamp == "favorites" {
			return pack, true
		}
	}
	return packs[0], true
}

// Partition splits projects into curated and other subsets using the
// allow-list, preserving relative order within each subset.
func Partition(projects []api.Project, curated []CuratedKey) (recommended, others []api.Project) {
	keys := make(map[CuratedKey]struct{}, len(curated))
	for _, key := range curated {
		keys[key] = struct{}{}
	}
	for _, project := range projects {
		if _, ok := keys[CuratedKey{PackID: project.GamePackID, ProjectID: project.ID}]; ok {
			recommended = append(recommended, project)
		} else {
			others = append(others, project)
		}
	}
	return recommended, others
}

// SortCoverFirst moves projects that have cover art ahead of those that
// don't, keeping relative order otherwise. A stable partition, not a full
// re-sort.
func SortCoverFirst(projects []api.Project) []api.Project {
	out := make([]api.Project, 0, len(projects))
	for _, project := range projects {
		if project.PathToCoverArt != nil {
			out = append(out, project)
		}
	}
	for _, project := range projects {
		if project.PathToCoverArt == nil {
			out = append(out, project)
		}
	}
	return out
}

// Options enumerates the distinct genres and base games across projects,
// sorted, for filter pickers.
func Options(projects []api.Project) (genres, baseGames []string) {
	genreSet := map[string]struct{}{}
	baseSet := map[string]struct{}{}
	for _, project := range projects {
		for _, genre := range project.Metadata.Genre {
			genreSet[genre] = struct{}{}
		}
		if project.Metadata.BaseGame != "" {
			baseSet[project.Metadata.BaseGame] = struct{}{}
		}
	}
	for genre := range genreSet {
		genres = append(genres, genre)
	}
	for base := range baseSet {
		baseGames = append(baseGames, base)
	}
	sort.Strings(genres)
	sort.Strings(baseGames)
	return genres, baseGames
}

// View is one filtered, sorted section of the catalog, ready to be paged.
type View struct {
	items []api.Project
	total int
}

// NewView applies the filter to an already-partitioned, already-sorted
// list. Total keeps the unfiltered count so the UI can show "N of M".
func NewView(projects []api.Project, filter Filter) View {
	if filter.IsZero() {
		return View{items: projects, total: len(projects)}
	}
	var items []api.Project
	for _, project := range projects {
		if filter.Matches(project) {
			items = append(items, project)
		}
	}
	return View{items: items, total: len(projects)}
}

// Len is the filtered item count.
func (v View) Len() int { return len(v.items) }

// Total is the unfiltered item count of the underlying section.
func (v View) Total() int { return v.total }

// Page is one window into a view.
type Page struct {
	Items   []api.Project
	HasMore bool
}

// Page returns items [n*size, n*size+size) of the filtered set. Out-of-range
// pages come back empty with HasMore false.
func (v View) Page(n, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	start := n * size
	if n < 0 || start >= len(v.items) {
		return Page{}
	}
	end := start + size
	if end > len(v.items) {
		end = len(v.items)
	}
	return Page{
		Items:   v.items[start:end],
		HasMore: start+size < len(v.items),
	}
}
