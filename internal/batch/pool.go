// Package batch runs one job per file across a fixed pool of workers.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Result is the outcome of one job. Results keep the order of their inputs.
type Result[T any] struct {
	Path  string
	Index int
	Value T
	Err   error
}

// ProgressFunc is called once per finished job with the number finished so far.
// Calls are serialized.
type ProgressFunc[T any] func(done, total int, r Result[T])

type job struct {
	path  string
	index int
}

// Run applies fn to every path using workers goroutines and returns the
// results in input order. Jobs not yet started when ctx is canceled report
// ctx.Err().
func Run[T any](ctx context.Context, paths []string, workers int, fn func(ctx context.Context, path string) (T, error), progress ProgressFunc[T]) []Result[T] {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan job, len(paths))
	results := make([]Result[T], len(paths))

	var (
		mu   sync.Mutex
		done int
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r := Result[T]{Path: j.path, Index: j.index}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else {
					r.Value, r.Err = fn(ctx, j.path)
				}
				results[j.index] = r

				mu.Lock()
				done++
				if progress != nil {
					progress(done, len(paths), r)
				}
				mu.Unlock()
			}
		}()
	}

	for i, p := range paths {
		jobs <- job{path: p, index: i}
	}
	close(jobs)
	wg.Wait()

	return results
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true,
}

// FindImages returns the image files under folder, sorted by path.
func FindImages(folder string) ([]string, error) {
	var images []string
	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(info.Name()))] {
			images = append(images, path)
		}
		return nil
	})
	sort.Strings(images)
	return images, err
}
