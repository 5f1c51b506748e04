package a78paint

import (
	"crypto/sha1"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrProjectNotFound is returned when the database has no project with the
// requested name
var ErrProjectNotFound = errors.New("a78paint: project not found")

// ProjectDB stores projects and caches generated assembly.
type ProjectDB struct {
	db *sql.DB
}

// NewProjectDB opens or creates the database in file.
func NewProjectDB(file string) (*ProjectDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS project (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS export (key TEXT PRIMARY KEY NOT NULL, asm BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &ProjectDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *ProjectDB) Close() error {
	return db.db.Close()
}

// ImportFile stores the project file, replacing any project with the same
// name. Projects without a name are named after the file.
func (db *ProjectDB) ImportFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	b, err := io.ReadAll(io.TeeReader(f, h))
	if err != nil {
		return "", err
	}

	p, err := DecodeProject(b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if b, err = json.Marshal(p); err != nil {
			return "", err
		}
		h.Reset()
		h.Write(b)
	}

	return p.Name, db.put(p.Name, fmt.Sprintf("%X", h.Sum(nil)), b)
}

// Store saves the project under its name.
func (db *ProjectDB) Store(p *Project) error {
	if p.Name == "" {
		return errors.New("a78paint: project has no name")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return db.put(p.Name, fmt.Sprintf("%X", sha1.Sum(b)), b)
}

func (db *ProjectDB) put(name, sha string, b []byte) error {
	var current string
	switch err := db.db.QueryRow("SELECT sha1 FROM project WHERE name = ?", name).Scan(&current); err {
	case sql.ErrNoRows:
		_, err := db.db.Exec("INSERT INTO project (name, sha1, data) VALUES (?, ?, ?)", name, sha, b)
		return err
	case nil:
		if current == sha {
			return nil
		}
		_, err := db.db.Exec("UPDATE project SET sha1 = ?, data = ? WHERE name = ?", sha, b, name)
		return err
	default:
		return err
	}
}

// Load returns the named project.
func (db *ProjectDB) Load(name string) (*Project, error) {
	var b []byte
	switch err := db.db.QueryRow("SELECT data FROM project WHERE name = ?", name).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	case nil:
		return DecodeProject(b)
	default:
		return nil, err
	}
}

// Projects returns the names of every stored project in order.
func (db *ProjectDB) Projects() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM project ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Remove deletes the named project.
func (db *ProjectDB) Remove(name string) error {
	result, err := db.db.Exec("DELETE FROM project WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	return nil
}

// FindExport returns the cached assembly for key, or nil if there is none.
func (db *ProjectDB) FindExport(key string) ([]byte, error) {
	var asm []byte
	switch err := db.db.QueryRow("SELECT asm FROM export WHERE key = ?", key).Scan(&asm); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return asm, nil
	default:
		return nil, err
	}
}

// AddExport caches the assembly generated for key.
func (db *ProjectDB) AddExport(key string, asm []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO export (key, asm) VALUES (?, ?)", key, asm); err != nil {
		return err
	}
	return nil
}
