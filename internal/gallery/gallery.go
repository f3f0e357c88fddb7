// Package gallery loads ordered sets of reference face images.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kozaktomas/eigenface/internal/eigenface"
)

// ErrNoImages is returned when a gallery directory contains no image files.
var ErrNoImages = errors.New("gallery: no images found")

// imageExtensions lists the file extensions treated as gallery images.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// Preparer converts encoded image data into a face vector.
type Preparer interface {
	Prepare(data []byte) (eigenface.FaceVector, error)
}

// Entry is one gallery face.
type Entry struct {
	Path   string
	Name   string
	Vector eigenface.FaceVector
}

// Gallery is an ordered list of faces. Entry positions match the indices
// returned by eigenface matching.
type Gallery struct {
	Entries []Entry
}

// Len returns the number of faces.
func (g *Gallery) Len() int {
	return len(g.Entries)
}

// Vectors returns the face vectors in gallery order.
func (g *Gallery) Vectors() eigenface.Gallery {
	vectors := make(eigenface.Gallery, len(g.Entries))
	for i, e := range g.Entries {
		vectors[i] = e.Vector
	}
	return vectors
}

// Lookup returns the entry a match result points at.
func (g *Gallery) Lookup(r eigenface.MatchResult) (Entry, bool) {
	if r.Index < 0 || r.Index >= len(g.Entries) {
		return Entry{}, false
	}
	return g.Entries[r.Index], true
}

// Source is one image to load.
type Source struct {
	Path string
	Read func() ([]byte, error)
}

// FileSource reads the image from disk.
func FileSource(path string) Source {
	return Source{
		Path: path,
		Read: func() ([]byte, error) { return os.ReadFile(path) }, //nolint:gosec // path comes from the gallery listing
	}
}

// BytesSource serves already loaded image data.
func BytesSource(name string, data []byte) Source {
	return Source{
		Path: name,
		Read: func() ([]byte, error) { return data, nil },
	}
}

// Options controls loading.
type Options struct {
	// Workers is the number of images decoded in parallel (default 4).
	Workers int
	// Progress, if set, is called once per loaded image. It may be called
	// from several goroutines.
	Progress func()
}

// ListImages returns the image files directly inside dir, sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read gallery directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Load builds a gallery from every image in dir, ordered by file name.
func Load(ctx context.Context, dir string, prep Preparer, opts Options) (*Gallery, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoImages)
	}
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = FileSource(p)
	}
	return Build(ctx, sources, prep, opts)
}

// Build loads sources in parallel and keeps their order. The first failure
// cancels the remaining work and is returned.
func Build(ctx context.Context, sources []Source, prep Preparer, opts Options) (*Gallery, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := make([]Entry, len(sources))
	var firstErr error
	var mu sync.Mutex

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}

			vector, err := load(src, prep)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
				return
			}

			entries[i] = Entry{Path: src.Path, Name: PersonName(src.Path), Vector: vector}
			if opts.Progress != nil {
				opts.Progress()
			}
		}(i, src)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Gallery{Entries: entries}, nil
}

func load(src Source, prep Preparer) (eigenface.FaceVector, error) {
	data, err := src.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Path, err)
	}
	vector, err := prep.Prepare(data)
	if err != nil {
		return nil, fmt.Errorf("preparing %s: %w", src.Path, err)
	}
	return vector, nil
}
