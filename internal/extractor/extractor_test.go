package extractor

import (
	"context"
	"errors"
	"testing"
)

type stubExtractor struct {
	response string
	err      error
}

func (s stubExtractor) Extract(ctx context.Context, familyID, text string) (string, error) {
	return s.response, s.err
}

const validResponse = `Here you go:
` + "```json\n" + `{
  "pageReferences": ["45", "46"],
  "couples": [
    {
      "husband": {"name": "Matti", "birthDate": "05.11.1730", "asChild": "{KORPI 4}"},
      "wife": {"name": "Maria", "birthDate": "1732"},
      "marriageDate": "1755",
      "children": [
        {"name": "Liisa", "birthDate": "1756", "spouse": "1. Juho Korvela", "noteMarkers": ["*)"]}
      ]
    }
  ],
  "notes": ["Matti died of isoviha."],
  "noteDefinitions": {"*)": "Born out of wedlock"}
}
` + "```"

func TestAdapter_ExtractFamily_Valid(t *testing.T) {
	a := New(stubExtractor{response: validResponse})

	family, err := a.ExtractFamily(context.Background(), "korpi 6", "some source text")
	if err != nil {
		t.Fatalf("ExtractFamily() error = %v", err)
	}

	if family.FamilyID != "KORPI 6" {
		t.Errorf("FamilyID = %q, want %q", family.FamilyID, "KORPI 6")
	}
	if len(family.Couples) != 1 {
		t.Fatalf("len(Couples) = %d, want 1", len(family.Couples))
	}
	husband := family.Couples[0].Husband
	if husband.Name != "Matti" || husband.AsChild != "{KORPI 4}" {
		t.Errorf("husband = %+v", husband)
	}
	child := family.Couples[0].Children[0]
	if child.Spouse != "Juho Korvela" {
		t.Errorf("child.Spouse = %q, want %q (marriage-number prefix stripped)", child.Spouse, "Juho Korvela")
	}
	if len(child.NoteMarkers) != 1 || child.NoteMarkers[0] != "*" {
		t.Errorf("child.NoteMarkers = %v, want [\"*\"]", child.NoteMarkers)
	}
	if family.NoteDefinitions["*"] != "Born out of wedlock" {
		t.Errorf("NoteDefinitions[*] = %q", family.NoteDefinitions["*"])
	}
}

func TestAdapter_NotConfigured(t *testing.T) {
	a := New(nil)
	if _, err := a.ExtractFamily(context.Background(), "KORPI 6", "text"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("ExtractFamily() error = %v, want ErrNotConfigured", err)
	}
}

func TestAdapter_ExtractionFailed_TransportError(t *testing.T) {
	a := New(stubExtractor{err: errors.New("connection reset")})

	_, err := a.ExtractFamily(context.Background(), "KORPI 6", "text")
	var failed *ExtractionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("ExtractFamily() error = %v, want *ExtractionFailedError", err)
	}
}

func TestAdapter_SchemaInvalid_MissingCouples(t *testing.T) {
	a := New(stubExtractor{response: `{"pageReferences": ["1"]}`})

	_, err := a.ExtractFamily(context.Background(), "KORPI 6", "text")
	var invalid *SchemaInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("ExtractFamily() error = %v, want *SchemaInvalidError", err)
	}
}

func TestAdapter_SchemaInvalid_NullWife(t *testing.T) {
	response := `{"couples": [{"husband": {"name": "Matti"}, "wife": null}]}`
	a := New(stubExtractor{response: response})

	_, err := a.ExtractFamily(context.Background(), "KORPI 6", "text")
	var invalid *SchemaInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("ExtractFamily() error = %v, want *SchemaInvalidError", err)
	}
}

func TestAdapter_PlaceholderSpouse(t *testing.T) {
	response := `{"couples": [{
		"husband": {"name": "Matti", "birthDate": "1730"},
		"wife": {"name": "Unknown"}
	}]}`
	a := New(stubExtractor{response: response})

	family, err := a.ExtractFamily(context.Background(), "KORPI 6", "text")
	if err != nil {
		t.Fatalf("ExtractFamily() error = %v", err)
	}
	if !family.Couples[0].Wife.IsUnknown() {
		t.Errorf("expected placeholder wife to report IsUnknown")
	}
}

func TestAdapter_EmptyText(t *testing.T) {
	a := New(stubExtractor{response: validResponse})
	if _, err := a.ExtractFamily(context.Background(), "KORPI 6", "   "); err == nil {
		t.Errorf("expected error for empty family text")
	}
}
