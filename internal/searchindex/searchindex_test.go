package searchindex

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/michaelbendio/kalvian-roots/internal/cache"
	"github.com/michaelbendio/kalvian-roots/types"
)

func TestReindexAndSearch(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer c.Close()

	main := types.Family{
		FamilyID: "KORPI 6",
		Couples: []types.Couple{{
			Husband: types.Person{Name: "Matti", Patronymic: "Matinp.", BirthDate: "1730"},
			Wife:    types.Person{Name: "Maria", Patronymic: "Erikint.", BirthDate: "1735"},
			Children: []types.Person{
				{Name: "Kaisa", BirthDate: "1756"},
			},
		}},
	}
	net := types.NewFamilyNetwork(main)
	if err := c.Store("KORPI 6", net, time.Millisecond); err != nil {
		t.Fatalf("Store: %v", err)
	}

	ix, err := Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	if err := ix.Reindex(c); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	matches, err := ix.Search("kaisa")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match for Kaisa, got %d: %+v", len(matches), matches)
	}
	if matches[0].FamilyID != "KORPI 6" || matches[0].Role != RoleChild {
		t.Errorf("unexpected match: %+v", matches[0])
	}

	byFamily, err := ix.Search("KORPI")
	if err != nil {
		t.Fatalf("Search by family: %v", err)
	}
	if len(byFamily) != 3 {
		t.Errorf("expected 3 persons under KORPI 6, got %d", len(byFamily))
	}
}

func TestReindex_ClearsPreviousContents(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	defer c.Close()

	ix, err := Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ix.Close()

	net1 := types.NewFamilyNetwork(types.Family{
		FamilyID: "KORPI 6",
		Couples: []types.Couple{{Husband: types.Person{Name: "Matti"}, Wife: types.Person{Name: "Maria"}}},
	})
	if err := c.Store("KORPI 6", net1, time.Millisecond); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := ix.Reindex(c); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := ix.Reindex(c); err != nil {
		t.Fatalf("Reindex after clear: %v", err)
	}

	matches, err := ix.Search("Matti")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches after cache clear + reindex, got %d", len(matches))
	}
}
