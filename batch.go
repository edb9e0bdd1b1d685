package dstarprep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// BatchResult holds the outcome for one file in a batch run.
type BatchResult struct {
	// Input is the source file path.
	Input string
	// Result is the pipeline result (nil if Err is non-nil).
	Result *Result
	// Err is any error that occurred for this file.
	Err error
}

// BatchOptions configures a Run. All hooks are optional and are invoked
// from the goroutine driving the run, never concurrently — a front end can
// forward them to its own event loop as one-way status messages.
type BatchOptions struct {
	// OnLog receives one human-readable line per processed file.
	OnLog func(line string)

	// OnItem is called after each file with progress counters.
	OnItem func(completed, total int)

	// StopOnError aborts the batch at the first failed file. The default
	// is to report the failure and continue with the remaining files.
	StopOnError bool
}

// ListImages returns the supported image files that are direct children of
// dir, sorted by name. The walk is non-recursive.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dstarprep: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsSupported(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run processes a single image file or every supported image in a folder,
// writing outputs into outDir (created recursively if absent). Files are
// processed strictly one after another in sorted order.
//
// A per-file failure is recorded in its BatchResult and, unless
// StopOnError is set, does not stop the batch. An empty folder after
// filtering is ErrEmptyBatch.
func Run(ctx context.Context, input, outDir string, opts Options, batch BatchOptions) ([]BatchResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInputNotFound, input)
	}

	var files []string
	switch {
	case info.IsDir():
		files, err = ListImages(input)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%w in folder: %q", ErrEmptyBatch, input)
		}
	case info.Mode().IsRegular():
		if !IsSupported(input) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, filepath.Ext(input))
		}
		files = []string{input}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInputNotFound, input)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("dstarprep: create output dir %q: %w", outDir, err)
	}

	results := make([]BatchResult, 0, len(files))
	for i, file := range files {
		if err := ctxErr(ctx); err != nil {
			return results, err
		}

		res, err := ProcessFile(ctx, file, outDir, opts)
		results = append(results, BatchResult{Input: file, Result: res, Err: err})

		if batch.OnLog != nil {
			if err != nil {
				batch.OnLog(fmt.Sprintf("ERROR  %s: %v", filepath.Base(file), err))
			} else {
				batch.OnLog(res.String())
			}
		}
		if batch.OnItem != nil {
			batch.OnItem(i+1, len(files))
		}
		if err != nil && batch.StopOnError {
			return results, err
		}
	}
	return results, nil
}
