package searchindex

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/michaelbendio/kalvian-roots/internal/cache"
	"github.com/michaelbendio/kalvian-roots/types"
)

// Role distinguishes why a person row exists in a family.
type Role string

const (
	RoleHusband Role = "husband"
	RoleWife    Role = "wife"
	RoleChild   Role = "child"
)

// Match is one hit returned by Search.
type Match struct {
	FamilyID    string
	Role        Role
	Name        string
	Patronymic  string
	DisplayName string
	BirthDate   string
	DeathDate   string
}

// Index is a SQLite database file holding a denormalized, rebuildable
// view of every family and person the cache currently knows about.
type Index struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite file at path and ensures
// its schema exists.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping search index: %w", err)
	}
	db.SetMaxOpenConns(1)

	ix := &Index{db: db}
	if err := ix.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// Close closes the underlying database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) createSchema() error {
	_, err := ix.db.Exec(`
		CREATE TABLE IF NOT EXISTS families (
			family_id       TEXT PRIMARY KEY,
			page_references TEXT
		);

		CREATE TABLE IF NOT EXISTS persons (
			family_id    TEXT NOT NULL,
			role         TEXT NOT NULL,
			name         TEXT NOT NULL,
			patronymic   TEXT,
			display_name TEXT NOT NULL,
			birth_date   TEXT,
			death_date   TEXT,
			FOREIGN KEY (family_id) REFERENCES families(family_id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_persons_display_name ON persons(display_name);
		CREATE INDEX IF NOT EXISTS idx_persons_family_id ON persons(family_id);
	`)
	if err != nil {
		return fmt.Errorf("create search index schema: %w", err)
	}
	return nil
}

// Reindex discards the current contents and rebuilds them from every
// family currently held in c, including resolved neighbor families.
func (ix *Index) Reindex(c *cache.Cache) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reindex: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM persons`); err != nil {
		return fmt.Errorf("clear persons: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM families`); err != nil {
		return fmt.Errorf("clear families: %w", err)
	}

	seen := make(map[string]bool)
	for _, entry := range c.All() {
		network := entry.Network
		if network == nil {
			continue
		}
		if err := indexFamily(tx, network.MainFamily, seen); err != nil {
			return err
		}
		for _, fam := range network.AsChildFamilies() {
			if fam != nil {
				if err := indexFamily(tx, *fam, seen); err != nil {
					return err
				}
			}
		}
		for _, fam := range network.AsParentFamilies() {
			if fam != nil {
				if err := indexFamily(tx, *fam, seen); err != nil {
					return err
				}
			}
		}
		for _, fam := range network.SpouseAsChildFamilies() {
			if fam != nil {
				if err := indexFamily(tx, *fam, seen); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

func indexFamily(tx *sql.Tx, family types.Family, seen map[string]bool) error {
	if family.FamilyID == "" || seen[family.FamilyID] {
		return nil
	}
	seen[family.FamilyID] = true

	if _, err := tx.Exec(
		`INSERT INTO families (family_id, page_references) VALUES (?, ?)`,
		family.FamilyID, strings.Join(family.PageReferences, ","),
	); err != nil {
		return fmt.Errorf("insert family %s: %w", family.FamilyID, err)
	}

	for _, couple := range family.Couples {
		if !couple.Husband.IsUnknown() {
			if err := insertPerson(tx, family.FamilyID, RoleHusband, couple.Husband); err != nil {
				return err
			}
		}
		if !couple.Wife.IsUnknown() {
			if err := insertPerson(tx, family.FamilyID, RoleWife, couple.Wife); err != nil {
				return err
			}
		}
		for _, child := range couple.Children {
			if err := insertPerson(tx, family.FamilyID, RoleChild, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertPerson(tx *sql.Tx, familyID string, role Role, p types.Person) error {
	_, err := tx.Exec(
		`INSERT INTO persons (family_id, role, name, patronymic, display_name, birth_date, death_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		familyID, role, p.Name, p.Patronymic, p.DisplayName(), p.BirthDate, p.DeathDate,
	)
	if err != nil {
		return fmt.Errorf("insert person %s in %s: %w", p.DisplayName(), familyID, err)
	}
	return nil
}

// Search returns every indexed person whose display name or family ID
// contains term, case-insensitively.
func (ix *Index) Search(term string) ([]Match, error) {
	like := "%" + strings.ToLower(term) + "%"

	rows, err := ix.db.Query(
		`SELECT family_id, role, name, patronymic, display_name, birth_date, death_date
		 FROM persons
		 WHERE LOWER(display_name) LIKE ? OR LOWER(family_id) LIKE ?
		 ORDER BY family_id, role, display_name`,
		like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.FamilyID, &m.Role, &m.Name, &m.Patronymic, &m.DisplayName, &m.BirthDate, &m.DeathDate); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
