package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	serverXMLSuffix = "-server.xml"
	clientXMLSuffix = "-client.xml"
)

// Validate checks a serialized bundle, as produced by Builder.Export or
// uploaded for verification.
//
// A bundle is valid when it is at most MaxBundleSize, expands to at most
// MaxUncompressedSize with no XML entry above MaxXMLEntrySize, is a zip archive whose
// entry paths stay inside the archive root, contains RequiredFiles, holds
// well-formed XML in pom.xml and config/*.xml, and carries the server and
// client configuration of a cluster as a pair.
//
// Validation stops at the first problem; Files lists the entries seen up to
// that point.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{Size: int64(len(data))}
	fail := func(err error) *ValidationResult {
		result.Error = err
		return result
	}

	if len(data) > MaxBundleSize {
		return fail(ErrBundleTooLarge)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if errors.Is(err, zip.ErrInsecurePath) {
		return fail(fmt.Errorf("%w: %v", ErrUnsafePath, err))
	}
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}

	present := make(map[string]bool, len(zr.File))
	var expanded uint64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !safePath(f.Name) {
			return fail(fmt.Errorf("%w: %s", ErrUnsafePath, f.Name))
		}

		expanded += f.UncompressedSize64
		if f.UncompressedSize64 > MaxUncompressedSize || expanded > MaxUncompressedSize {
			return fail(fmt.Errorf("%w: uncompressed size exceeds %d bytes", ErrBundleTooLarge, MaxUncompressedSize))
		}

		present[f.Name] = true
		result.Files = append(result.Files, f.Name)
		result.Size = int64(expanded)

		if !isXMLEntry(f.Name) {
			continue
		}
		if f.UncompressedSize64 > MaxXMLEntrySize {
			return fail(fmt.Errorf("%w: %s exceeds %d bytes", ErrBundleTooLarge, f.Name, MaxXMLEntrySize))
		}
		if err := checkXML(f); err != nil {
			if errors.Is(err, ErrBundleTooLarge) {
				return fail(fmt.Errorf("%w: %s exceeds %d bytes", ErrBundleTooLarge, f.Name, MaxXMLEntrySize))
			}
			return fail(fmt.Errorf("%w: %s: %v", ErrInvalidXML, f.Name, err))
		}
	}

	if len(present) == 0 {
		return fail(ErrEmptyBundle)
	}

	for _, required := range RequiredFiles {
		if !present[required] {
			return fail(fmt.Errorf("%w: %s", ErrMissingRequiredFile, required))
		}
	}

	if missing := unpairedConfig(present); missing != "" {
		return fail(fmt.Errorf("%w: %s", ErrMissingRequiredFile, missing))
	}

	result.Valid = true
	return result
}

// safePath reports whether an entry name is relative and stays inside the
// archive root once cleaned.
func safePath(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	clean := path.Clean(name)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

// unpairedConfig returns the missing counterpart of the first server or
// client XML whose partner is absent, or "".
func unpairedConfig(present map[string]bool) string {
	for name := range present {
		if !strings.HasPrefix(name, ConfigDir) {
			continue
		}
		if base, ok := strings.CutSuffix(name, serverXMLSuffix); ok && !present[base+clientXMLSuffix] {
			return base + clientXMLSuffix
		}
		if base, ok := strings.CutSuffix(name, clientXMLSuffix); ok && !present[base+serverXMLSuffix] {
			return base + serverXMLSuffix
		}
	}
	return ""
}

func isXMLEntry(name string) bool {
	return name == PathPOM || (strings.HasPrefix(name, ConfigDir) && strings.HasSuffix(name, ".xml"))
}

// cappedReader fails with ErrBundleTooLarge once more than its limit has
// been read, whatever size the entry header declares.
type cappedReader struct {
	r         io.Reader
	remaining int64
}

func newCappedReader(r io.Reader, limit int64) *cappedReader {
	return &cappedReader{r: r, remaining: limit + 1}
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		return 0, ErrBundleTooLarge
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining <= 0 {
		return n, ErrBundleTooLarge
	}
	return n, err
}

// checkXML decodes every token of an entry; the decoder fails on the first
// syntax error or once the entry passes MaxXMLEntrySize.
func checkXML(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dec := xml.NewDecoder(newCappedReader(rc, MaxXMLEntrySize))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
