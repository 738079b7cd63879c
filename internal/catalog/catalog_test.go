package catalog

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gamedeck/internal/api"
)

func project(packID, id string, genres []string, baseGame string, hasCover bool) api.Project {
	p := api.Project{
		ID:         id,
		GamePackID: packID,
		Metadata:   api.GameMetadata{Name: "game " + id, Genre: genres, BaseGame: baseGame},
	}
	if hasCover {
		cover := packID + "/" + id + "/cover_art.png_0"
		p.PathToCoverArt = &cover
	}
	return p
}

func ids(projects []api.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestFlattenStampsPackID(t *testing.T) {
	packs := []api.GamePack{
		{Index: 0, ID: "packA", Projects: []api.Project{{ID: "1"}, {ID: "2"}}},
		{Index: 1, ID: "packB", Projects: []api.Project{{ID: "1"}}},
	}
	projects := Flatten(packs)
	if len(projects) != 3 {
		t.Fatalf("len = %d", len(projects))
	}
	if projects[0].GamePackID != "packA" || projects[2].GamePackID != "packB" {
		t.Fatalf("pack ids = %q %q", projects[0].GamePackID, projects[2].GamePackID)
	}
}

func TestPartition(t *testing.T) {
	curated := []CuratedKey{{"packA", "2"}, {"packB", "1"}}
	projects := []api.Project{
		project("packA", "1", nil, "", false),
		project("packA", "2", nil, "", false),
		project("packB", "1", nil, "", false),
		project("packB", "2", nil, "", false),
	}

	recommended, others := Partition(projects, curated)
	if diff := cmp.Diff([]string{"2", "1"}, ids(recommended)); diff != "" {
		t.Fatalf("recommended mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2"}, ids(others)); diff != "" {
		t.Fatalf("others mismatch (-want +got):\n%s", diff)
	}
	// Same project id in a different pack is not curated.
	if others[0].GamePackID != "packA" {
		t.Fatalf("others[0] pack = %q", others[0].GamePackID)
	}
}

func TestSortCoverFirstIsStable(t *testing.T) {
	projects := []api.Project{
		project("p", "1", nil, "", false),
		project("p", "2", nil, "", true),
		project("p", "3", nil, "", false),
		project("p", "4", nil, "", true),
	}
	sorted := SortCoverFirst(projects)
	if diff := cmp.Diff([]string{"2", "4", "1", "3"}, ids(sorted)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterGenre(t *testing.T) {
	projects := []api.Project{
		project("p", "1", []string{"Puzzle", "Combat"}, "snake", false),
		project("p", "2", []string{"Racing"}, "snake", false),
		project("p", "3", []string{"Puzzle"}, "breakout", false),
	}

	view := NewView(projects, Filter{Genre: "Puzzle"})
	if diff := cmp.Diff([]string{"1", "3"}, ids(view.items)); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
	if view.Total() != 3 {
		t.Fatalf("total = %d", view.Total())
	}

	both := NewView(projects, Filter{Genre: "Puzzle", BaseGame: "breakout"})
	if diff := cmp.Diff([]string{"3"}, ids(both.items)); diff != "" {
		t.Fatalf("intersection mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyFilterEqualsInput(t *testing.T) {
	projects := []api.Project{
		project("p", "1", []string{"Puzzle"}, "snake", false),
		project("p", "2", nil, "breakout", false),
	}
	view := NewView(projects, Filter{})
	if view.Len() != len(projects) {
		t.Fatalf("len = %d", view.Len())
	}
	if diff := cmp.Diff(ids(projects), ids(view.items)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPagination(t *testing.T) {
	var projects []api.Project
	for i := 0; i < 30; i++ {
		projects = append(projects, project("p", fmt.Sprint(i), nil, "", false))
	}
	view := NewView(projects, Filter{})

	page0 := view.Page(0, 12)
	if len(page0.Items) != 12 || !page0.HasMore {
		t.Fatalf("page 0: len=%d hasMore=%v", len(page0.Items), page0.HasMore)
	}
	if page0.Items[0].ID != "0" || page0.Items[11].ID != "11" {
		t.Fatalf("page 0 bounds: %s..%s", page0.Items[0].ID, page0.Items[11].ID)
	}

	page2 := view.Page(2, 12)
	if len(page2.Items) != 6 || page2.HasMore {
		t.Fatalf("page 2: len=%d hasMore=%v", len(page2.Items), page2.HasMore)
	}
	if page2.Items[0].ID != "24" || page2.Items[5].ID != "29" {
		t.Fatalf("page 2 bounds: %s..%s", page2.Items[0].ID, page2.Items[5].ID)
	}

	if page3 := view.Page(3, 12); len(page3.Items) != 0 || page3.HasMore {
		t.Fatalf("page 3 should be empty, got %+v", page3)
	}
}

func TestPaginationExactBoundary(t *testing.T) {
	var projects []api.Project
	for i := 0; i < 24; i++ {
		projects = append(projects, project("p", fmt.Sprint(i), nil, "", false))
	}
	view := NewView(projects, Filter{})

	page1 := view.Page(1, 12)
	if len(page1.Items) != 12 || page1.HasMore {
		t.Fatalf("page 1: len=%d hasMore=%v", len(page1.Items), page1.HasMore)
	}
}

func TestOptions(t *testing.T) {
	projects := []api.Project{
		project("p", "1", []string{"Puzzle", "Combat"}, "snake", false),
		project("p", "2", []string{"Combat"}, "breakout", false),
	}
	genres, baseGames := Options(projects)
	if diff := cmp.Diff([]string{"Combat", "Puzzle"}, genres); diff != "" {
		t.Fatalf("genres mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"breakout", "snake"}, baseGames); diff != "" {
		t.Fatalf("base games mismatch (-want +got):\n%s", diff)
	}
}

func TestPreferredPack(t *testing.T) {
	packs := []api.PackListing{
		{Timestamp: "20251125_155759", Games: []string{"1", "2"}},
		{Timestamp: "favorites", Games: []string{"9"}},
		{Timestamp: "20251125_115145", Games: []string{"3"}},
	}
	preferred, ok := PreferredPack(packs)
	if !ok || preferred.Timestamp != "favorites" {
		t.Fatalf("preferred = %+v, ok = %v", preferred, ok)
	}

	preferred, ok = PreferredPack(packs[:1])
	if !ok || preferred.Timestamp != "20251125_155759" {
		t.Fatalf("without favorites, preferred = %+v", preferred)
	}

	if _, ok := PreferredPack(nil); ok {
		t.Fatal("empty listing should report no pack")
	}
}
