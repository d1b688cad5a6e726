// Package writer persists rendered artifacts into an output directory.
package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrDrift is returned in check mode when a file on disk differs from the
// rendered content.
var ErrDrift = errors.New("generated files are out of date")

// Options controls how files are written.
type Options struct {
	// Check reports files that would change without writing anything.
	Check bool
	// Skip reports whether a path must not be written.
	Skip func(path string) bool
	// Concurrency bounds parallel writes. Zero means 8.
	Concurrency int
}

// Result lists the files touched by a write, sorted by path.
type Result struct {
	Written   []string
	Unchanged []string
	Skipped   []string
	// Drifted holds the files that differ in check mode.
	Drifted []string
}

// WriteAll writes files (name relative to dir -> content) below dir.
// In check mode nothing is written and ErrDrift is returned when any file
// would change.
func WriteAll(ctx context.Context, dir string, files map[string]string, opt Options) (*Result, error) {
	limit := opt.Concurrency
	if limit <= 0 {
		limit = 8
	}

	var (
		mu  sync.Mutex
		res Result
	)
	record := func(list *[]string, path string) {
		mu.Lock()
		*list = append(*list, path)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, name := range sortedNames(files) {
		path := filepath.Join(dir, filepath.FromSlash(name))
		data := []byte(files[name])
		if opt.Skip != nil && opt.Skip(path) {
			record(&res.Skipped, path)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			wrote, err := WriteFile(path, data, opt.Check)
			switch {
			case errors.Is(err, ErrDrift):
				record(&res.Drifted, path)
				return nil
			case err != nil:
				return err
			case wrote:
				record(&res.Written, path)
			default:
				record(&res.Unchanged, path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("write %s: %w", dir, err)
	}

	sort.Strings(res.Written)
	sort.Strings(res.Unchanged)
	sort.Strings(res.Skipped)
	sort.Strings(res.Drifted)
	if len(res.Drifted) > 0 {
		return &res, fmt.Errorf("%w: %d file(s) in %s", ErrDrift, len(res.Drifted), dir)
	}
	return &res, nil
}

// WriteFile replaces path with data through a temporary file. It reports
// whether the file was written; identical content is left untouched.
func WriteFile(path string, data []byte, check bool) (wrote bool, err error) {
	existing, readErr := os.ReadFile(path)
	if readErr == nil {
		if bytes.Equal(existing, data) {
			return false, nil
		}
	} else if !os.IsNotExist(readErr) {
		return false, fmt.Errorf("read existing: %w", readErr)
	}

	if check {
		return false, fmt.Errorf("%w: %s", ErrDrift, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("rename tmp: %w", err)
	}
	return true, nil
}

func sortedNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
