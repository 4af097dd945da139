package document

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestFolderSourceList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bob.txt":   "bob",
		"alice.pdf": "%PDF",
		"carol.TXT": "carol",
		"notes.md":  "ignored",
		"zed.PDF":   "%PDF",
		"README":    "ignored",
		"alice.txt": "alice text",
	})
	if err := os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	items, err := NewFolderSource(dir).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var keys []string
	for _, item := range items {
		keys = append(keys, item.Key)
	}

	expect := []string{"alice.pdf", "zed.PDF", "alice.txt", "bob.txt", "carol.TXT"}
	if !reflect.DeepEqual(keys, expect) {
		t.Fatalf("expected %v, got %v", expect, keys)
	}

	if items[1].Name != "zed" || items[1].Kind != KindPDF {
		t.Fatalf("unexpected item: %+v", items[1])
	}
}

func TestFolderSourceMissing(t *testing.T) {
	t.Parallel()

	_, err := NewFolderSource(filepath.Join(t.TempDir(), "missing")).List(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestFolderSourcePut(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "new")
	src := NewFolderSource(dir)

	if err := src.Put(context.Background(), "/tmp/upload/dave.txt", bytes.NewBufferString("dave"), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := src.Read(context.Background(), Item{Name: "dave", Key: "dave.txt", Kind: KindText})
	if err != nil || string(data) != "dave" {
		t.Fatalf("unexpected read result %q, %v", data, err)
	}

	if err := src.Put(context.Background(), "dave.docx", bytes.NewBufferString("x"), 1); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect Category
		ok     bool
	}{
		{input: "jd", expect: JobDescription, ok: true},
		{input: " JDs ", expect: JobDescription, ok: true},
		{input: "resume", expect: Candidate, ok: true},
		{input: "cv", expect: Candidate, ok: true},
		{input: "photo"},
	}

	for _, tt := range tests {
		got, err := ParseCategory(tt.input)
		if tt.ok != (err == nil) {
			t.Fatalf("%q: unexpected error state: %v", tt.input, err)
		}
		if got != tt.expect {
			t.Fatalf("%q: expected %q, got %q", tt.input, tt.expect, got)
		}
	}
}
