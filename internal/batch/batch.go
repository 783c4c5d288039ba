// Package batch parses every document under a directory tree and records
// the outcome of each file.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/marktree/internal/config"
	"github.com/gerunddev/marktree/internal/logger"
	"github.com/gerunddev/marktree/internal/state"
	"github.com/gerunddev/marktree/parser"
)

// Checker parses documents in bulk, skipping files that have not changed
// since the previous run
type Checker struct {
	config *config.Config
	state  *state.State
	logger *logger.Logger
	force  bool
}

// NewChecker creates a new checker instance
func NewChecker(cfg *config.Config, st *state.State) *Checker {
	return &Checker{
		config: cfg,
		state:  st,
		logger: logger.Discard(),
	}
}

// SetLogger sets the logger for the checker
func (c *Checker) SetLogger(l *logger.Logger) {
	c.logger = l
}

// SetForce makes the checker parse every file regardless of recorded state
func (c *Checker) SetForce(force bool) {
	c.force = force
}

// Result represents the outcome of a check run
type Result struct {
	RunID     string
	Files     int
	Parsed    int
	Skipped   int
	Blocks    int
	Failures  map[string]error
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the run took
func (r *Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// FailedPaths returns the paths that failed to parse, sorted
func (r *Result) FailedPaths() []string {
	paths := make([]string, 0, len(r.Failures))
	for path := range r.Failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// String returns a human-readable summary of the check result
func (r *Result) String() string {
	return fmt.Sprintf(
		"Check complete: %d files, %d parsed, %d skipped, %d failures (took %v)",
		r.Files,
		r.Parsed,
		r.Skipped,
		len(r.Failures),
		r.Duration().Round(time.Millisecond),
	)
}

type outcome struct {
	path    string
	skipped bool
	blocks  int
	err     error
}

// Check parses every matching file under root using the configured number
// of workers. Parse failures are collected in the result; the returned
// error is reserved for problems with the run itself.
func (c *Checker) Check(ctx context.Context, root string) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		Failures:  make(map[string]error),
		StartTime: time.Now(),
	}
	log := c.logger.With("run", result.RunID)

	files, err := ScanDirectory(root, c.config.Extensions, c.config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	result.Files = len(files)
	log.CheckStarted(root, len(files))

	workers := c.config.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				outcomes <- c.checkFile(log, path)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		switch {
		case o.skipped:
			result.Skipped++
		case o.err != nil:
			result.Failures[o.path] = o.err
		default:
			result.Parsed++
			result.Blocks += o.blocks
		}
	}

	result.EndTime = time.Now()
	log.CheckCompleted(result.Parsed, len(result.Failures), result.Skipped, result.Duration())

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (c *Checker) checkFile(log *logger.Logger, path string) outcome {
	if !c.force {
		changed, err := c.state.HasChanged(path)
		if err != nil {
			log.StateError("check", err)
		} else if !changed {
			log.FileSkipped(path, "unchanged since last check")
			return outcome{path: path, skipped: true}
		}
	}

	start := time.Now()
	doc, size, err := ParseFile(path)
	blocks := 0
	if err != nil {
		log.ParseFailed(path, err)
	} else {
		blocks = len(doc.Blocks)
		log.DocumentParsed(path, size, blocks, time.Since(start))
	}

	if stErr := c.state.Update(path, blocks, err); stErr != nil {
		log.StateError("update", stErr)
	}

	return outcome{path: path, blocks: blocks, err: err}
}

// ParseFile reads and parses a single document, returning it along with
// the file size in bytes
func ParseFile(path string) (*parser.Document, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := parser.Parse(string(data))
	if err != nil {
		return nil, int64(len(data)), err
	}

	return doc, int64(len(data)), nil
}

// ScanDirectory scans a directory for files with one of the given
// extensions. Files and directories whose name or path relative to dir
// matches an exclude pattern are skipped.
func ScanDirectory(dir string, exts []string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != dir && isExcluded(dir, path, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

func isExcluded(root, path string, patterns []string) bool {
	name := filepath.Base(path)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
