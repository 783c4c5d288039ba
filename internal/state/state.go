package state

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

// FileState represents the last parse result of a single file
type FileState struct {
	// MTime is the modification time in Unix nanoseconds
	MTime  int64  `json:"mtime"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}

// State records parse results across check runs. It is safe for
// concurrent use.
type State struct {
	mu    sync.Mutex
	Files map[string]*FileState `json:"files"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	st := NewState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if st.Files == nil {
		st.Files = make(map[string]*FileState)
	}

	return st, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	s.mu.Lock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes the BLAKE3 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("blake3:%x", h.Sum(nil)), nil
}

// HasChanged checks if a file has changed since it was last parsed.
// Files whose last parse failed always count as changed.
// Uses hybrid mtime + size + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().UnixNano()

	s.mu.Lock()
	fileState, exists := s.Files[path]
	s.mu.Unlock()

	if !exists || fileState.Error != "" {
		return true, nil
	}

	// Fast path: same mtime and size
	if mtime == fileState.MTime && info.Size() == fileState.Size {
		return false, nil
	}

	// mtime or size changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records the parse result for a file. A nil parseErr marks a
// successful parse of the given number of blocks.
func (s *State) Update(path string, blocks int, parseErr error) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	fs := &FileState{
		MTime:  info.ModTime().UnixNano(),
		Size:   info.Size(),
		Hash:   hash,
		Blocks: blocks,
	}
	if parseErr != nil {
		fs.Error = parseErr.Error()
	}

	s.mu.Lock()
	s.Files[path] = fs
	s.mu.Unlock()

	return nil
}

// Get returns a copy of the recorded state for path
func (s *State) Get(path string) (FileState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fs, ok := s.Files[path]
	if !ok {
		return FileState{}, false
	}
	return *fs, true
}

// GetMTime returns the recorded modification time for a file
func (s *State) GetMTime(path string) time.Time {
	if fs, ok := s.Get(path); ok {
		return time.Unix(0, fs.MTime)
	}
	return time.Time{}
}

// Paths returns the tracked file paths in sorted order
func (s *State) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.Files))
	for path := range s.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
