// Package loader reads ledger snapshots: YAML documents holding options,
// entries and includes of further snapshot files.
//
// The loader supports two modes of operation:
//   - Simple mode: reads a single file and reports its includes unresolved
//   - Follow mode: recursively loads all included files and merges their entries
//
// When following includes, the loader resolves relative paths from the directory of
// the file containing the include, and loads files that are included
// multiple times only once. The options of the main file are the options of
// the ledger; options in included files are ignored.
//
// Example usage:
//
//	ldr := loader.New(loader.WithFollowIncludes())
//	result, err := ldr.Load(ctx, "main.yaml")
//	if err != nil {
//		return err
//	}
//	l := ledger.New()
//	err = l.Process(ctx, result.Entries, result.Options)
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robinvdvleuten/beanreport/ast"
	"github.com/robinvdvleuten/beanreport/telemetry"
)

// Loader handles loading of snapshot files with optional include resolution.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithFollowIncludes())
type Loader struct {
	// FollowIncludes determines whether to recursively load included files.
	FollowIncludes bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFollowIncludes configures the loader to recursively load and merge all included files.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is a loaded ledger snapshot.
type Result struct {
	// Entries of every loaded file, sorted with ast.Sort.
	Entries []ast.Directive

	// Options of the main file.
	Options map[string][]string

	// Root is the absolute path of the main file.
	Root string

	// Includes are the absolute paths of the included files in load order.
	// Empty unless includes are followed.
	Includes []string

	// Unresolved are the includes of the main file as written, when includes
	// are not followed.
	Unresolved []string
}

// Load reads filename and, in follow mode, everything it includes.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	timer := telemetry.StartTimer(ctx, "loader.load")
	defer timer.End()
	ctx = telemetry.WithTimer(ctx, timer)

	root, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	if !l.FollowIncludes {
		file, err := parseFile(ctx, filename)
		if err != nil {
			return nil, err
		}
		entries := file.Entries
		ast.Sort(entries)
		return &Result{
			Entries:    entries,
			Options:    file.Options,
			Root:       root,
			Unresolved: file.Includes,
		}, nil
	}

	state := &loaderState{visited: make(map[string]bool)}
	file, err := state.loadRecursive(ctx, filename)
	if err != nil {
		return nil, err
	}

	sortTimer := telemetry.StartTimer(ctx, "loader.sort")
	ast.Sort(state.entries)
	sortTimer.End()

	return &Result{
		Entries:  state.entries,
		Options:  file.Options,
		Root:     root,
		Includes: state.includes,
	}, nil
}

// LoadBytes reads a snapshot held in memory, for example from stdin. Includes
// cannot be followed since there is no directory to resolve them from.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*Result, error) {
	timer := telemetry.StartTimer(ctx, "loader.load "+filename)
	defer timer.End()

	file, err := ParseBytes(filename, data)
	if err != nil {
		return nil, err
	}
	if l.FollowIncludes && len(file.Includes) > 0 {
		if filename == "<stdin>" {
			return nil, fmt.Errorf("include directives are not supported when reading from stdin")
		}
		return nil, fmt.Errorf("include directives found; use Load() instead of LoadBytes() to resolve includes")
	}

	entries := file.Entries
	ast.Sort(entries)
	result := &Result{Entries: entries, Options: file.Options, Root: filename}
	if !l.FollowIncludes {
		result.Unresolved = file.Includes
	}
	return result, nil
}

// MustLoad is like Load but panics on error. Intended for tests.
func (l *Loader) MustLoad(ctx context.Context, filename string) *Result {
	result, err := l.Load(ctx, filename)
	if err != nil {
		panic(err)
	}
	return result
}

// MustLoadBytes is like LoadBytes but panics on error. Intended for tests.
func (l *Loader) MustLoadBytes(ctx context.Context, filename string, data []byte) *Result {
	result, err := l.LoadBytes(ctx, filename, data)
	if err != nil {
		panic(err)
	}
	return result
}

// loaderState tracks state during recursive loading.
type loaderState struct {
	visited  map[string]bool // Absolute paths of files already loaded
	includes []string
	entries  []ast.Directive
}

// loadRecursive loads a file and all its includes, collecting their entries.
// It returns the decoded file, or nil when the file was already loaded.
func (l *loaderState) loadRecursive(ctx context.Context, filename string) (*File, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	if l.visited[absPath] {
		return nil, nil
	}
	if len(l.visited) > 0 {
		l.includes = append(l.includes, absPath)
	}
	l.visited[absPath] = true

	file, err := parseFile(ctx, filename)
	if err != nil {
		return nil, err
	}
	l.entries = append(l.entries, file.Entries...)

	baseDir := filepath.Dir(absPath)
	for _, include := range file.Includes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		includePath := include
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, includePath)
		}

		if _, err := l.loadRecursive(ctx, includePath); err != nil {
			return nil, fmt.Errorf("in file %s: %w", filename, err)
		}
	}

	return file, nil
}

func parseFile(ctx context.Context, filename string) (*File, error) {
	timer := telemetry.StartTimer(ctx, "loader.parse "+filepath.Base(filename))
	defer timer.End()

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	defer f.Close()

	return Parse(filename, f)
}
