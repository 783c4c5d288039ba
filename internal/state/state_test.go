package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	st := NewState()
	if st.Files == nil {
		t.Error("Files map should be initialized")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "sub", "state.json")

	st := NewState()
	st.Files["/notes/a.md"] = &FileState{MTime: 1234567890, Hash: "blake3:abc", Blocks: 4}
	st.Files["/notes/b.md"] = &FileState{MTime: 42, Hash: "blake3:def", Error: "malformed image"}

	if err := st.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	if len(loaded.Files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(loaded.Files))
	}

	a, ok := loaded.Get("/notes/a.md")
	if !ok {
		t.Fatal("Expected /notes/a.md in state")
	}
	if a.Blocks != 4 || a.Hash != "blake3:abc" || a.MTime != 1234567890 {
		t.Errorf("Unexpected state for a.md: %+v", a)
	}

	b, _ := loaded.Get("/notes/b.md")
	if b.Error != "malformed image" {
		t.Errorf("Expected error to survive round trip, got %q", b.Error)
	}
}

func TestLoadNonExistent(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load should not fail on missing file: %v", err)
	}
	if len(st.Files) != 0 {
		t.Errorf("Expected empty state, got %d files", len(st.Files))
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for corrupt state file")
	}
}

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.md")
	b := filepath.Join(tmpDir, "b.md")

	if err := os.WriteFile(a, []byte("# Same"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.WriteFile(b, []byte("# Same"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	ha, err := ComputeHash(a)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hb, err := ComputeHash(b)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	if !strings.HasPrefix(ha, "blake3:") {
		t.Errorf("Expected blake3 prefix, got %q", ha)
	}
	if ha != hb {
		t.Errorf("Expected equal hashes for equal content: %s vs %s", ha, hb)
	}
}

func TestHasChanged(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "note.md")

	if err := os.WriteFile(path, []byte("# Initial"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	st := NewState()

	changed, err := st.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Untracked file should count as changed")
	}

	if err := st.Update(path, 1, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err = st.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("File should be unchanged right after Update")
	}

	// Same content, new mtime: hash decides
	future := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Failed to change file time: %v", err)
	}
	changed, _ = st.HasChanged(path)
	if changed {
		t.Error("Touching a file without editing it should not count as a change")
	}

	// New content and new mtime
	if err := os.WriteFile(path, []byte("# Modified"), 0644); err != nil {
		t.Fatalf("Failed to modify file: %v", err)
	}
	later := future.Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("Failed to change file time: %v", err)
	}
	changed, _ = st.HasChanged(path)
	if !changed {
		t.Error("Modified file should count as changed")
	}
}

func TestHasChangedWithinSameSecond(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("# Valid"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 100_000_000, time.UTC)
	if err := os.Chtimes(path, base, base); err != nil {
		t.Fatalf("Failed to change file time: %v", err)
	}

	st := NewState()
	if err := st.Update(path, 1, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Edit lands half a second later, inside the same wall-clock second
	if err := os.WriteFile(path, []byte("![a]()"), 0644); err != nil {
		t.Fatalf("Failed to modify file: %v", err)
	}
	edited := base.Add(500 * time.Millisecond)
	if err := os.Chtimes(path, edited, edited); err != nil {
		t.Fatalf("Failed to change file time: %v", err)
	}

	changed, err := st.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Edit within the same second should count as changed")
	}
}

func TestHasChangedSizeOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("# Short"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	st := NewState()
	if err := st.Update(path, 1, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	recorded, _ := st.Get(path)

	// Same mtime, different content and size
	if err := os.WriteFile(path, []byte("# Much longer heading"), 0644); err != nil {
		t.Fatalf("Failed to modify file: %v", err)
	}
	mtime := time.Unix(0, recorded.MTime)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to change file time: %v", err)
	}

	changed, err := st.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Size change with an unchanged mtime should count as changed")
	}
}

func TestGetMTime(t *testing.T) {
	st := NewState()
	want := time.Date(2024, 5, 1, 12, 0, 0, 250_000_000, time.UTC)
	st.Files["/a.md"] = &FileState{MTime: want.UnixNano()}

	if got := st.GetMTime("/a.md"); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestFailedParseAlwaysChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.md")
	if err := os.WriteFile(path, []byte("![x]()"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	st := NewState()
	if err := st.Update(path, 0, errors.New("malformed image")); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err := st.HasChanged(path)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("Files that failed to parse should be rechecked")
	}

	if st.GetMTime(path).IsZero() {
		t.Error("Expected mtime to be recorded")
	}
	if !st.GetMTime("/nope").IsZero() {
		t.Error("Expected zero mtime for untracked file")
	}
}

func TestPaths(t *testing.T) {
	st := NewState()
	st.Files["/b.md"] = &FileState{}
	st.Files["/a.md"] = &FileState{}

	paths := st.Paths()
	if len(paths) != 2 || paths[0] != "/a.md" || paths[1] != "/b.md" {
		t.Errorf("Expected sorted paths, got %v", paths)
	}
}
