package indexpal

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/woodale/indexpal/palette"
)

// PaletteDB is a content-addressed cache of generated palettes. Keys are the
// SHA-1 of the source file, so re-running a conversion over unchanged inputs
// skips quantization entirely.
type PaletteDB struct {
	db *sql.DB
}

// OpenPaletteDB opens or creates the cache database at file.
func OpenPaletteDB(file string) (*PaletteDB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, colors BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &PaletteDB{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (d *PaletteDB) Close() error {
	return d.db.Close()
}

// Find returns the cached palette for the given key, or nil if none is
// stored.
func (d *PaletteDB) Find(sha string) (*palette.Palette, error) {
	var colors []byte
	switch err := d.db.QueryRow("SELECT colors FROM palette WHERE sha1 = ?", sha).Scan(&colors); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		p := new(palette.Palette)
		if err := p.UnmarshalBinary(colors); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, err
	}
}

// Store saves the palette under the given key, replacing any previous entry.
func (d *PaletteDB) Store(sha string, p *palette.Palette) error {
	colors, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := d.db.Exec("INSERT OR REPLACE INTO palette (sha1, colors) VALUES (?, ?)", sha, colors); err != nil {
		return err
	}
	return nil
}

// shaFile returns the SHA-1 of the file contents as an uppercase hex string.
func shaFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}
