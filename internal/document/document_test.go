package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromTextRoundTrip(t *testing.T) {
	text := "first paragraph\nsecond paragraph\n\nfourth paragraph"
	doc := FromText(text)
	if len(doc.Paragraphs) != 4 {
		t.Fatalf("got %d paragraphs, want 4", len(doc.Paragraphs))
	}
	if doc.Text() != text {
		t.Errorf("Text() = %q, want %q", doc.Text(), text)
	}
}

func TestClone(t *testing.T) {
	doc := FromText("a\nb")
	clone := doc.Clone()
	clone.Paragraphs[0] = "changed"
	if doc.Paragraphs[0] != "a" {
		t.Error("Clone shares backing array with original")
	}
}

func TestFromFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.txt")
	if err := os.WriteFile(path, []byte("Intro.\n\nReferences\n1. Smith."), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() error: %v", err)
	}
	if len(doc.Paragraphs) != 4 {
		t.Errorf("got %d paragraphs, want 4", len(doc.Paragraphs))
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("FromFile() on missing file should error")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	doc := FromText("one\ntwo")
	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("file contents = %q", string(data))
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("output missing trailing newline")
	}
}
