package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempFS(t)
	content := []byte("---\nid: 1\n---\nbody\n")
	if err := s.Write("adr/0001.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("adr/0001.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	s := tempFS(t)
	if err := s.Write("a.md", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "a.md" {
			t.Errorf("unexpected leftover: %s", e.Name())
		}
	}
}

func TestSafePathRejectsEscape(t *testing.T) {
	s := tempFS(t)
	for _, p := range []string{"../evil.md", "a/../../evil.md", "/abs.md"} {
		if _, err := s.Read(p); err == nil {
			t.Errorf("Read(%q) should fail", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", p)
		}
	}
}

func TestList_OnlyMarkdownNonRecursive(t *testing.T) {
	s := tempFS(t)
	for _, p := range []string{"adr/b.md", "adr/a.md", "adr/nested/deep.md"} {
		if err := s.Write(p, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "adr", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	infos, err := s.List("adr")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2 (md files directly in dir): %+v", len(infos), infos)
	}
	if infos[0].Path != "adr/a.md" || infos[1].Path != "adr/b.md" {
		t.Errorf("paths = %+v", infos)
	}
}

func TestList_MissingDirIsEmpty(t *testing.T) {
	s := tempFS(t)
	infos, err := s.List("missing")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected empty listing, got %+v", infos)
	}
}

func TestExists(t *testing.T) {
	s := tempFS(t)
	ok, err := s.Exists("nope.md")
	if err != nil || ok {
		t.Errorf("Exists(nope.md) = %v, %v", ok, err)
	}
	if err := s.Write("yes.md", []byte("x")); err != nil {
		t.Fatal(err)
	}
	ok, err = s.Exists("yes.md")
	if err != nil || !ok {
		t.Errorf("Exists(yes.md) = %v, %v", ok, err)
	}
}
