// Package pages provides the HTML page templates served by the game.
//
// Pages are plain files with literal placeholder tokens.  By default
// the copies embedded in the binary are used; a directory on disk can
// be given instead so the pages may be edited without rebuilding.
package pages

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	gerrors "guessgame/internal/errors"
)

// Page names.
const (
	Index   = "index.html"
	Guess   = "guess.html"
	Success = "success.html"
)

// Placeholder tokens replaced in the page bodies.
const (
	HintPlaceholder  = "PLACEHOLDER1" // guess.html: "higher", "lower" or "a valid input"
	CountPlaceholder = "PLACEHOLDER2" // guess.html: guesses so far
	TotalPlaceholder = "PLACEHOLDER3" // success.html: guesses needed
)

//go:embed static/*.html
var embedded embed.FS

// Loader fetches a page body by name.
type Loader interface {
	Load(name string) (string, error)
}

// Store reads pages from a file system.
type Store struct {
	fsys fs.FS
}

// New returns a Store reading from dir, or from the embedded pages
// when dir is empty.
func New(dir string) (*Store, error) {
	if dir == "" {
		return Embedded(), nil
	}
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("pages directory: %w", err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("pages directory: %s is not a directory", dir)
	}
	return &Store{fsys: os.DirFS(dir)}, nil
}

// Embedded returns a Store backed by the pages compiled into the binary.
func Embedded() *Store {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic("failed to access embedded pages: " + err.Error())
	}
	return &Store{fsys: sub}
}

// FromFS returns a Store backed by fsys.
func FromFS(fsys fs.FS) *Store { return &Store{fsys: fsys} }

// Load returns the body of the named page.  A missing page is reported
// as [gerrors.ErrPageNotFound].
func (s *Store) Load(name string) (string, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if gerrors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", name, gerrors.ErrPageNotFound)
		}
		return "", fmt.Errorf("read page %s: %w", name, err)
	}
	return string(data), nil
}

// Render replaces placeholder tokens in page.  pairs alternates token
// and replacement, as for [strings.NewReplacer].
func Render(page string, pairs ...string) string {
	if len(pairs) == 0 {
		return page
	}
	return strings.NewReplacer(pairs...).Replace(page)
}
