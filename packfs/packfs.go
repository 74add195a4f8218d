// Package packfs serves assets out of a single sqlite pack file as a
// read-only fs.FS. Packs are built once by a Writer, carry a blake2b-256
// checksum per asset, and can be mounted straight into the asset server.
package packfs

import (
	"bytes"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.sql
var schemaSQL string

const (
	formatVersion = "1"

	metaFormatKey  = "format"
	metaCreatedKey = "created_at"
)

// FS is an open asset pack. It implements fs.FS and fs.ReadFileFS for file
// lookup; packs carry no directory entries, so listing goes through Paths.
// Safe for concurrent readers.
type FS struct {
	db      *sql.DB
	modTime time.Time
}

// Open opens an existing pack read-only. The pack's format version must
// match this package.
func Open(path string) (*FS, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open pack: %w", err)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open pack: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open pack: %w", err)
	}

	f := &FS{db: db}
	format, err := f.Meta(metaFormatKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open pack: %w", err)
	}
	if format != formatVersion {
		db.Close()
		return nil, fmt.Errorf("open pack: unsupported format %q", format)
	}
	if created, err := f.Meta(metaCreatedKey); err == nil && created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			f.modTime = t
		}
	}
	return f, nil
}

func (f *FS) Close() error {
	return f.db.Close()
}

// Open returns the named asset as an fs.File.
func (f *FS) Open(name string) (fs.File, error) {
	body, err := f.ReadFile(name)
	if err != nil {
		return nil, err
	}
	name = norm.NFC.String(name)
	return &packFile{
		info: fileInfo{name: name, size: int64(len(body)), modTime: f.modTime},
		r:    bytes.NewReader(body),
	}, nil
}

// ReadFile returns the named asset's body.
func (f *FS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	name = norm.NFC.String(name)
	var body []byte
	err := f.db.QueryRow(`SELECT body FROM assets WHERE path = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return body, nil
}

// Paths lists every asset path in the pack, sorted.
func (f *FS) Paths() ([]string, error) {
	rows, err := f.db.Query(`SELECT path FROM assets ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list pack: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("list pack: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Count returns the number of assets in the pack.
func (f *FS) Count() (int, error) {
	var n int
	if err := f.db.QueryRow(`SELECT COUNT(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pack: %w", err)
	}
	return n, nil
}

// Verify recomputes every asset checksum and returns the paths whose stored
// body no longer matches.
func (f *FS) Verify() ([]string, error) {
	rows, err := f.db.Query(`SELECT path, size, sum, body FROM assets ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("verify pack: %w", err)
	}
	defer rows.Close()

	var corrupt []string
	for rows.Next() {
		var (
			p         string
			size      int64
			sum, body []byte
		)
		if err := rows.Scan(&p, &size, &sum, &body); err != nil {
			return nil, fmt.Errorf("verify pack: %w", err)
		}
		got := blake2b.Sum256(body)
		if int64(len(body)) != size || !bytes.Equal(got[:], sum) {
			corrupt = append(corrupt, p)
		}
	}
	return corrupt, rows.Err()
}

// Meta returns a pack metadata value, empty when the key is absent.
func (f *FS) Meta(key string) (string, error) {
	var v string
	err := f.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("pack meta %s: %w", key, err)
	}
	return v, nil
}

type packFile struct {
	info fileInfo
	r    *bytes.Reader
}

func (f *packFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *packFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *packFile) Close() error               { return nil }

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i fileInfo) Name() string       { return path.Base(i.name) }
func (i fileInfo) Size() int64        { return i.size }
func (i fileInfo) Mode() fs.FileMode  { return 0o444 }
func (i fileInfo) ModTime() time.Time { return i.modTime }
func (i fileInfo) IsDir() bool        { return false }
func (i fileInfo) Sys() any           { return nil }
