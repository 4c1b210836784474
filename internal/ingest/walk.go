package ingest

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Result is the outcome of handing one item to a walk callback.
type Result struct {
	// Name is the file name, or archive/member for archive entries.
	Name string
	Err  error
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// ItemFunc consumes one XML item. r is only valid until the call returns.
type ItemFunc func(name string, r io.Reader) error

// Walk visits the .xml files of dir and the .xml members of its .tgz and
// .tar.gz archives, in lexical order. Failing items are logged and recorded
// in the results; the walk itself only fails when dir cannot be listed or
// ctx is done.
func Walk(ctx context.Context, dir string, fn ItemFunc) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", dir, err)
	}

	var results []Result
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		p := filepath.Join(dir, name)
		switch {
		case isXML(name):
			results = append(results, visitFile(p, name, fn))
		case isArchive(name):
			archived, err := walkArchive(ctx, p, name, fn)
			results = append(results, archived...)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return results, err
				}
				results = append(results, failure(name, err))
			}
		}
	}

	slog.Debug("Walked corpus", "dir", dir, "items", len(results), "failed", len(Failed(results)))
	return results, nil
}

func visitFile(p, name string, fn ItemFunc) Result {
	f, err := os.Open(p)
	if err != nil {
		return failure(name, err)
	}
	defer f.Close()

	if err := fn(name, f); err != nil {
		return failure(name, err)
	}
	return Result{Name: name}
}

// walkArchive streams the members of a gzip-compressed tar file.
func walkArchive(ctx context.Context, p, name string, fn ItemFunc) ([]Result, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer gz.Close()

	var results []Result
	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return results, nil
		}
		if err != nil {
			return results, fmt.Errorf("failed to read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || !isXML(hdr.Name) {
			continue
		}

		member := name + "/" + path.Base(hdr.Name)
		if err := fn(path.Base(hdr.Name), tr); err != nil {
			results = append(results, failure(member, err))
			continue
		}
		results = append(results, Result{Name: member})
	}
}

func failure(name string, err error) Result {
	slog.Warn("Skipping item", "name", name, "error", err)
	return Result{Name: name, Err: err}
}

func isXML(name string) bool {
	return strings.EqualFold(path.Ext(name), ".xml")
}

func isArchive(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tgz") || strings.HasSuffix(lower, ".tar.gz")
}
