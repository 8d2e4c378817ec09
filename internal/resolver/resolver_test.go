package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/michaelbendio/kalvian-roots/internal/extractor"
	"github.com/michaelbendio/kalvian-roots/internal/segmenter"
	"github.com/michaelbendio/kalvian-roots/types"
)

type fakeExtractor map[string]string

func (f fakeExtractor) Extract(ctx context.Context, familyID, text string) (string, error) {
	resp, ok := f[familyID]
	if !ok {
		return "", fmt.Errorf("no fixture response for %s", familyID)
	}
	return resp, nil
}

const neighborFixture = "KORPI 4, page 1\nplaceholder\n\n\n" +
	"MAKI 2, page 2\nplaceholder\n\n\n" +
	"MAKI 5, page 3\nplaceholder\n"

func newTestSegmenter(t *testing.T) *segmenter.Segmenter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.txt")
	if err := os.WriteFile(path, []byte(neighborFixture), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	seg, err := segmenter.New(path)
	if err != nil {
		t.Fatalf("segmenter.New() error = %v", err)
	}
	return seg
}

func TestResolver_Resolve(t *testing.T) {
	main := types.Family{
		FamilyID: "KORPI 6",
		Couples: []types.Couple{{
			Husband: types.Person{Name: "Matti", BirthDate: "1730", AsChild: "{KORPI 4}"},
			Wife:    types.Person{Name: "Maria", BirthDate: "1732"},
			Children: []types.Person{
				{Name: "Liisa", BirthDate: "1756", Spouse: "Juho Maki", AsParent: "MAKI 2"},
			},
		}},
	}

	ext := extractor.New(fakeExtractor{
		"KORPI 4": `{"couples":[{"husband":{"name":"Erik","birthDate":"1705"},"wife":{"name":"Unknown"},"children":[{"name":"Matti","birthDate":"1730"}]}]}`,
		"MAKI 2":  `{"couples":[{"husband":{"name":"Juho Maki","birthDate":"1750","asChild":"MAKI 5"},"wife":{"name":"Liisa","birthDate":"1756"}}]}`,
		"MAKI 5":  `{"couples":[{"husband":{"name":"Paavo Maki","birthDate":"1720"},"wife":{"name":"Kaisa","birthDate":"1725"},"children":[{"name":"Juho","birthDate":"1750"}]}]}`,
	})

	r := New(newTestSegmenter(t), ext, nil, nil)

	net, stats, err := r.Resolve(context.Background(), main)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if stats.Total != 3 || stats.ResolvedByFamilyID != 3 || stats.Unresolved != 0 {
		t.Errorf("stats = %+v, want Total=3 ResolvedByFamilyID=3 Unresolved=0", stats)
	}

	asChild, ok := net.GetAsChildFamily("Matti")
	if !ok {
		t.Fatalf("GetAsChildFamily(%q) miss", "Matti")
	}
	if len(asChild.Couples[0].Children) != 1 || asChild.Couples[0].Children[0].Name != "Matti" {
		t.Errorf("as-child family = %+v, want a child named Matti", asChild)
	}

	asParent, ok := net.GetAsParentFamily("Liisa|1756")
	if !ok {
		t.Fatalf("GetAsParentFamily(%q) miss", "Liisa|1756")
	}
	if asParent.Couples[0].Wife.Name != "Liisa" {
		t.Errorf("as-parent family = %+v, want wife Liisa", asParent)
	}

	spouseAsParent, ok := net.GetAsParentFamily("Juho Maki")
	if !ok || spouseAsParent != asParent {
		t.Errorf("expected spouse Juho Maki to be installed under the same as-parent family")
	}

	spouseAsChild, ok := net.GetSpouseAsChildFamily("Juho Maki")
	if !ok {
		t.Fatalf("GetSpouseAsChildFamily(%q) miss", "Juho Maki")
	}
	if len(spouseAsChild.Couples[0].Children) != 1 || spouseAsChild.Couples[0].Children[0].Name != "Juho" {
		t.Errorf("spouse as-child family = %+v, want a child named Juho", spouseAsChild)
	}
}

func TestResolver_UnresolvedReferenceIsNotFatal(t *testing.T) {
	main := types.Family{
		FamilyID: "KORPI 6",
		Couples: []types.Couple{{
			Husband: types.Person{Name: "Matti", BirthDate: "1730", AsChild: "NOWHERE 1"},
			Wife:    types.Person{Name: "Maria", BirthDate: "1732"},
		}},
	}

	ext := extractor.New(fakeExtractor{})
	r := New(newTestSegmenter(t), ext, nil, nil)

	net, stats, err := r.Resolve(context.Background(), main)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if stats.Total != 1 || stats.Unresolved != 1 {
		t.Errorf("stats = %+v, want Total=1 Unresolved=1", stats)
	}
	if _, ok := net.GetAsChildFamily("Matti"); ok {
		t.Errorf("expected no as-child family for an unresolvable reference")
	}
}
