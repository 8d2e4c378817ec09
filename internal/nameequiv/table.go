package nameequiv

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed default_table.yaml
var defaultTableYAML []byte

var fold = cases.Fold()

// Table is a read-only equivalence relation over given names, organized
// as disjoint classes. Two names are equivalent iff they fold to the same
// class.
type Table struct {
	classes    [][]string
	classOfKey map[string]int
}

type tableFile struct {
	Classes [][]string `yaml:"classes"`
}

// LoadDefault returns the table loaded from the embedded default
// equivalence classes, used when no external table path is configured.
func LoadDefault() (*Table, error) {
	return load(defaultTableYAML)
}

// Load reads an equivalence table from a YAML file at path. The file
// holds a top-level "classes" key: a list of lists of equivalent names.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("nameequiv: reading %s: %w", path, err)
	}
	return load(data)
}

func load(data []byte) (*Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("nameequiv: parsing table: %w", err)
	}
	return newTable(tf.Classes), nil
}

func newTable(classes [][]string) *Table {
	t := &Table{
		classes:    classes,
		classOfKey: make(map[string]int),
	}
	for i, class := range classes {
		for _, name := range class {
			t.classOfKey[normalizeKey(name)] = i
		}
	}
	return t
}

func normalizeKey(name string) string {
	return fold.String(strings.TrimSpace(name))
}

// Equivalents returns every name sharing name's equivalence class,
// including name itself. If name belongs to no loaded class, the result
// is a single-element slice holding name unchanged.
func (t *Table) Equivalents(name string) []string {
	key := normalizeKey(name)
	idx, ok := t.classOfKey[key]
	if !ok {
		return []string{name}
	}
	class := t.classes[idx]
	out := make([]string, len(class))
	copy(out, class)
	return out
}

// AreEquivalent reports whether a and b share an equivalence class,
// case-insensitively and whitespace-trimmed. Two names with no class
// membership are equivalent only if they are equal after normalization.
func (t *Table) AreEquivalent(a, b string) bool {
	ka, okA := t.classOfKey[normalizeKey(a)]
	kb, okB := t.classOfKey[normalizeKey(b)]
	if okA && okB {
		return ka == kb
	}
	if !okA && !okB {
		return normalizeKey(a) == normalizeKey(b)
	}
	return false
}
