package bundle

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchive_AddKeepsFirstPosition(t *testing.T) {
	archive := NewArchive()

	if archive.Add("a.txt", "1") {
		t.Error("Expected first add to report no replacement")
	}
	archive.Add("b.txt", "2")
	if !archive.Add("a.txt", "3") {
		t.Error("Expected second add of a.txt to report replacement")
	}

	paths := archive.Paths()
	if len(paths) != 2 || paths[0] != "a.txt" || paths[1] != "b.txt" {
		t.Errorf("Unexpected paths: %v", paths)
	}

	content, ok := archive.Get("a.txt")
	if !ok || content != "3" {
		t.Errorf("Expected a.txt content 3, got %q", content)
	}
}

func TestArchive_WriteZip(t *testing.T) {
	archive := NewArchive()
	archive.Add("Dockerfile", "FROM scratch")
	archive.Add("config/x.xml", "<beans/>")

	data, err := archive.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Failed to read zip: %v", err)
	}

	if len(zr.File) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(zr.File))
	}

	if zr.File[0].Name != "Dockerfile" || zr.File[1].Name != "config/x.xml" {
		t.Errorf("Unexpected entry order: %s, %s", zr.File[0].Name, zr.File[1].Name)
	}

	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("Failed to open entry: %v", err)
	}
	defer rc.Close()

	content, _ := io.ReadAll(rc)
	if string(content) != "<beans/>" {
		t.Errorf("Unexpected content: %q", content)
	}

	if !zr.File[0].Modified.Equal(ArchiveModTime) {
		t.Errorf("Expected fixed modification time, got %v", zr.File[0].Modified)
	}
}

func TestArchive_Entries(t *testing.T) {
	archive := NewArchive()
	archive.Add("one", "1")
	archive.Add("two", "2")

	entries := archive.Entries()
	if len(entries) != 2 || entries[1].Path != "two" || entries[1].Content != "2" {
		t.Errorf("Unexpected entries: %+v", entries)
	}
	if archive.Len() != 2 {
		t.Errorf("Expected Len 2, got %d", archive.Len())
	}
}
