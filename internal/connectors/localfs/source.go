// Package localfs implements the RemoteSource port over a local
// directory tree. It exists for development against a folder of test
// documents and for air-gapped setups where the knowledge base is a
// mounted share.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hctlabs/kbsync/internal/core/domain"
	"github.com/hctlabs/kbsync/internal/core/ports/driven"
	"github.com/hctlabs/kbsync/internal/logger"
)

// debounceWindow batches rapid-fire filesystem events into one signal.
const debounceWindow = 500 * time.Millisecond

// Source serves files from a directory tree. File IDs are paths
// relative to the root, using forward slashes.
type Source struct {
	root string
}

var _ driven.RemoteSource = (*Source)(nil)
var _ driven.WatchableSource = (*Source)(nil)

// NewSource creates a filesystem source rooted at dir.
func NewSource(dir string) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("directory %s: %w", abs, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, abs)
	}
	return &Source{root: abs}, nil
}

// List walks the tree and returns every regular file. Hidden files and
// directories (dot-prefixed) are skipped.
func (s *Source) List(ctx context.Context) ([]domain.RemoteFile, error) {
	var files []domain.RemoteFile

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		files = append(files, domain.RemoteFile{
			ID:           filepath.ToSlash(rel),
			Name:         d.Name(),
			MIMEType:     mime.TypeByExtension(filepath.Ext(d.Name())),
			SizeBytes:    info.Size(),
			ModifiedTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.root, err)
	}
	return files, nil
}

// Fetch reads a file by its relative-path ID.
func (s *Source) Fetch(_ context.Context, fileID string) ([]byte, error) {
	path := filepath.Join(s.root, filepath.FromSlash(fileID))

	// Reject IDs that escape the root.
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%w: file ID %q escapes the source root", domain.ErrInvalidInput, fileID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", fileID, err)
	}
	return data, nil
}

// Watch signals on the returned channel whenever files under the root
// change, debounced so an editor save burst yields one signal. The
// channel closes when ctx is cancelled.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch every directory in the tree; fsnotify is not recursive.
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.root, err)
	}

	signals := make(chan struct{}, 1)
	go func() {
		defer close(signals)
		defer watcher.Close()

		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// New directories need watching too.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				if timer == nil {
					timer = time.NewTimer(debounceWindow)
					timerC = timer.C
				} else {
					timer.Reset(debounceWindow)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)

			case <-timerC:
				timer = nil
				timerC = nil
				select {
				case signals <- struct{}{}:
				default:
				}
			}
		}
	}()

	return signals, nil
}

// Close releases the source. Watchers are owned by their Watch context.
func (s *Source) Close() error {
	return nil
}
