package packfs

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// Writer builds a new asset pack. Single-goroutine use; Close before
// opening the pack for reading.
type Writer struct {
	db *sql.DB
}

// Create starts a new pack at path. The file must not already exist.
func Create(path string) (*Writer, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("create pack: %s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("create pack: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("create pack: %w", err)
	}
	// One writer connection, same as every other sqlite user in this codebase.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("create pack: %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create pack: apply schema: %w", err)
	}

	created := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.Exec(`INSERT INTO meta (key, value) VALUES (?, ?), (?, ?)`,
		metaFormatKey, formatVersion, metaCreatedKey, created); err != nil {
		db.Close()
		return nil, fmt.Errorf("create pack: write meta: %w", err)
	}
	return &Writer{db: db}, nil
}

// Add stores one asset body under an NFC-normalized path. Adding the same
// path twice is an error.
func (w *Writer) Add(name string, body []byte) error {
	if !fs.ValidPath(name) {
		return fmt.Errorf("add %s: %w", name, fs.ErrInvalid)
	}
	name = norm.NFC.String(name)
	if body == nil {
		body = []byte{}
	}
	sum := blake2b.Sum256(body)
	if _, err := w.db.Exec(`INSERT INTO assets (path, size, sum, body) VALUES (?, ?, ?, ?)`,
		name, int64(len(body)), sum[:], body); err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	return nil
}

// AddFS walks fsys and adds every regular file. Returns the number added.
func (w *Writer) AddFS(fsys fs.FS) (int, error) {
	count := 0
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if err := w.Add(p, body); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("pack dir: %w", err)
	}
	return count, nil
}

// Close checkpoints the journal back into the pack file so it can be opened
// read-only anywhere, then releases the database.
func (w *Writer) Close() error {
	if _, err := w.db.Exec("PRAGMA journal_mode = DELETE"); err != nil {
		w.db.Close()
		return fmt.Errorf("close pack: %w", err)
	}
	return w.db.Close()
}
