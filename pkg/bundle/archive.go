package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Entry is a single file of a bundle.
type Entry struct {
	Path    string
	Content string
}

// Archive is an ordered-insert map of bundle entries keyed by path.
//
// Adding a path that already exists replaces its content and keeps the
// position of the first insertion (last write wins).
type Archive struct {
	order []string
	files map[string]string
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{
		files: make(map[string]string),
	}
}

// Add stores content at path and reports whether an earlier entry was replaced.
func (a *Archive) Add(path, content string) bool {
	_, exists := a.files[path]
	if !exists {
		a.order = append(a.order, path)
	}
	a.files[path] = content
	return exists
}

// Has reports whether the archive contains path.
func (a *Archive) Has(path string) bool {
	_, ok := a.files[path]
	return ok
}

// Get returns the content stored at path.
func (a *Archive) Get(path string) (string, bool) {
	content, ok := a.files[path]
	return content, ok
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.order)
}

// Paths returns the entry paths in insertion order.
func (a *Archive) Paths() []string {
	paths := make([]string, len(a.order))
	copy(paths, a.order)
	return paths
}

// Entries returns the entries in insertion order.
func (a *Archive) Entries() []Entry {
	entries := make([]Entry, 0, len(a.order))
	for _, path := range a.order {
		entries = append(entries, Entry{Path: path, Content: a.files[path]})
	}
	return entries
}

// WriteZip serializes the archive as a zip stream.
func (a *Archive) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, path := range a.order {
		hdr := &zip.FileHeader{
			Name:     path,
			Method:   zip.Deflate,
			Modified: ArchiveModTime,
		}
		hdr.SetMode(0644)

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to create entry %s: %w", path, err)
		}
		if _, err := io.WriteString(fw, a.files[path]); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}

	return nil
}

// Bytes serializes the archive into memory.
func (a *Archive) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.WriteZip(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
