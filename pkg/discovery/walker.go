// Package discovery walks a source tree, parses candidate Python modules in
// parallel and assembles the discovered folder tree.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"runtime"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/pyadapter/pkg/domain"
	"github.com/specvital/pyadapter/pkg/parser/pyast"
)

const (
	// DefaultWorkers indicates that the walker should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default walk timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for parsing (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names skipped during discovery.
// Entries are doublestar patterns matched against the directory base name.
var DefaultSkipPatterns = []string{
	".git",
	".hg",
	".svn",
	"__pycache__",
	"node_modules",
	".venv",
	"venv",
	".tox",
	".nox",
	".mypy_cache",
	".pytest_cache",
	".eggs",
	"*.egg-info",
	"site-packages",
	"dist",
}

var (
	// ErrScanCancelled is returned when the walk is cancelled via context.
	ErrScanCancelled = errors.New("discovery: walk cancelled")
	// ErrScanTimeout is returned when the walk exceeds the timeout duration.
	ErrScanTimeout = errors.New("discovery: walk timeout")
	// ErrInvalidRoot is returned when the root is missing or not a directory.
	ErrInvalidRoot = errors.New("discovery: invalid root")
)

// Reader turns parsed Python modules into suites and tests for one tool.
type Reader interface {
	// Match reports whether the module at relPath (slash separated,
	// relative to the root) is a test module.
	Match(relPath string) bool
	// Build adds the suites and tests found in defs to file.
	Build(file *domain.TestFile, defs []pyast.Definition) error
}

// DirMatcher is implemented by readers that only descend into some
// directories. relDir is slash separated and relative to the root.
type DirMatcher interface {
	MatchDir(fsys fs.FS, relDir string) bool
}

// Walker discovers test modules under a root directory.
type Walker struct {
	reader  Reader
	options *ScanOptions
}

// Result contains the outcome of a walk.
type Result struct {
	// Discovery is the assembled tree. Files and folders without tests are pruned.
	Discovery *domain.DiscoveryResult

	// Errors contains non-fatal per-file errors.
	Errors []FileError

	Stats Stats
}

// FileError is a non-fatal error for one file.
type FileError struct {
	Err error

	// Path is relative to the root. It may be empty for walk-level errors.
	Path string

	// Phase is one of "discovery", "parsing", "build".
	Phase string
}

func (e FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Stats provides statistics about a walk.
type Stats struct {
	// FilesScanned is the number of candidate modules found.
	FilesScanned int
	// FilesMatched is the number of modules that contributed tests.
	FilesMatched int
	// FilesFailed is the number of modules that could not be read or built.
	FilesFailed int
	Duration    time.Duration
}

// NewWalker creates a walker that uses reader to recognize tests.
func NewWalker(reader Reader, opts ...Option) *Walker {
	options := newDefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	applyDefaults(&options)

	return &Walker{
		reader:  reader,
		options: &options,
	}
}

// Walk discovers tests under the root directory on the local filesystem.
func (w *Walker) Walk(ctx context.Context, root string) (*Result, error) {
	folder, err := domain.FolderFromDirname(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(folder.Dirname)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, folder.Dirname)
	}

	return w.WalkFS(ctx, os.DirFS(folder.Dirname), folder)
}

// WalkFS discovers tests in fsys and attaches them below root. Paths in
// fsys are relative to root.Dirname.
func (w *Walker) WalkFS(ctx context.Context, fsys fs.FS, root *domain.TestFolder) (*Result, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, w.options.Timeout)
	defer cancel()

	result := &Result{
		Discovery: domain.NewDiscoveryResult(root, 0),
		Errors:    []FileError{},
	}

	files, errs := w.discoverFiles(ctx, fsys)
	for _, err := range errs {
		result.Errors = append(result.Errors, FileError{Err: err, Phase: "discovery"})
	}
	result.Stats.FilesScanned = len(files)

	modules, parseErrors := w.parseFilesParallel(ctx, fsys, files)
	result.Errors = append(result.Errors, parseErrors...)

	buildErrors := w.assemble(root, modules)
	result.Errors = append(result.Errors, buildErrors...)
	prune(root)

	result.Stats.FilesFailed = len(parseErrors) + len(buildErrors)
	result.Stats.FilesMatched = countFiles(root)
	result.Stats.Duration = time.Since(startTime)

	for _, e := range result.Errors {
		w.options.Logger.Warn().Str("path", e.Path).Str("phase", e.Phase).Err(e.Err).Msg("Skipped file")
	}
	w.options.Logger.Debug().
		Int("scanned", result.Stats.FilesScanned).
		Int("matched", result.Stats.FilesMatched).
		Int("failed", result.Stats.FilesFailed).
		Dur("duration", result.Stats.Duration).
		Msg("Discovery walk finished")

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

// discoverFiles walks fsys in lexical order and returns test module candidates.
func (w *Walker) discoverFiles(ctx context.Context, fsys fs.FS) ([]string, []error) {
	skip := append(append([]string{}, DefaultSkipPatterns...), w.options.ExcludePatterns...)

	var (
		files []string
		errs  []error
	)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", p, walkErr))
			return nil
		}

		if d.IsDir() {
			if p == "." {
				return nil
			}
			if matchesAnyPattern(d.Name(), skip) {
				return fs.SkipDir
			}
			if dm, ok := w.reader.(DirMatcher); ok && !dm.MatchDir(fsys, p) {
				w.options.Logger.Debug().Str("path", p).Msg("Skipping directory rejected by reader")
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !domain.IsSourceFile(d.Name()) {
			return nil
		}
		if !w.reader.Match(p) {
			return nil
		}
		if len(w.options.Patterns) > 0 && !matchesAnyPattern(p, w.options.Patterns) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get file info for %s: %w", p, err))
			return nil
		}
		if info.Size() > w.options.MaxFileSize {
			w.options.Logger.Debug().Str("path", p).Int64("size", info.Size()).Msg("Skipping large file")
			return nil
		}

		files = append(files, p)
		return nil
	})

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			errs = append(errs, err)
		}
	}

	return files, errs
}

type module struct {
	path string
	defs []pyast.Definition
	ok   bool
}

// parseFilesParallel parses files concurrently. The returned slice keeps the
// order of files so assembly is deterministic.
func (w *Walker) parseFilesParallel(ctx context.Context, fsys fs.FS, files []string) ([]module, []FileError) {
	workers := w.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu      sync.Mutex
		modules = make([]module, len(files))
		errs    = make([]FileError, 0)
	)

	for i, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			defs, err := parseFile(gCtx, fsys, file)
			if err != nil {
				mu.Lock()
				errs = append(errs, FileError{Err: err, Path: file, Phase: "parsing"})
				mu.Unlock()
				return nil
			}

			modules[i] = module{path: file, defs: defs, ok: true}
			return nil
		})
	}

	_ = g.Wait()

	return modules, errs
}

func parseFile(ctx context.Context, fsys fs.FS, p string) ([]pyast.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", p, err)
	}

	defs, err := pyast.ParseModule(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return defs, nil
}

// assemble attaches parsed modules to root on a single goroutine.
func (w *Walker) assemble(root *domain.TestFolder, modules []module) []FileError {
	folders := map[string]*domain.TestFolder{".": root}
	var errs []FileError

	for _, m := range modules {
		if !m.ok {
			continue
		}

		folder := folderFor(folders, path.Dir(m.path))
		file, err := folder.AddFile(path.Base(m.path))
		if err != nil {
			errs = append(errs, FileError{Err: err, Path: m.path, Phase: "build"})
			continue
		}
		if err := w.reader.Build(file, m.defs); err != nil {
			errs = append(errs, FileError{Err: err, Path: m.path, Phase: "build"})
			file.Suites = nil
			file.Tests = nil
		}
	}
	return errs
}

func folderFor(folders map[string]*domain.TestFolder, dir string) *domain.TestFolder {
	if f, ok := folders[dir]; ok {
		return f
	}
	parent := folderFor(folders, path.Dir(dir))
	f := parent.AddSubfolder(path.Base(dir))
	folders[dir] = f
	return f
}

// prune drops files and folders that hold no tests. The root is kept.
func prune(folder *domain.TestFolder) {
	files := folder.Files[:0]
	for _, f := range folder.Files {
		if f.CountTests() > 0 {
			files = append(files, f)
		}
	}
	folder.Files = files

	subs := folder.Subfolders[:0]
	for _, sub := range folder.Subfolders {
		prune(sub)
		if sub.CountTests() > 0 {
			subs = append(subs, sub)
		}
	}
	folder.Subfolders = subs
}

func countFiles(folder *domain.TestFolder) int {
	n := len(folder.Files)
	for _, sub := range folder.Subfolders {
		n += countFiles(sub)
	}
	return n
}

func matchesAnyPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
