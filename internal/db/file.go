package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// File stores each key as <dir>/<key>.json.
type File struct {
	dir string

	mu   sync.Mutex
	last map[string][]byte // last bytes written per key, to ignore our own writes
}

// OpenFile opens (creating if needed) a file-backed KV in dir.
func OpenFile(dir string) (*File, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File{dir: dir, last: make(map[string][]byte)}, nil
}

// Dir returns the data directory.
func (f *File) Dir() string { return f.dir }

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StorageError{Op: "read", Key: key, Err: err}
	}
	return data, true, nil
}

// Put writes the value to a temp file and renames it over the slot file.
func (f *File) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*")
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Key: key, Err: err}
	}

	f.last[key] = append([]byte(nil), value...)
	return nil
}

func (f *File) Close() error { return nil }

// Watch reports the keys of slot files changed by another process. Writes made
// through this File are not reported. The channel closes when ctx is done.
func (f *File) Watch(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(f.dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", f.dir, err)
	}

	changes := make(chan string, 16)

	go func() {
		defer close(changes)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				key, ok := f.keyOf(event.Name)
				if !ok || f.isOwnWrite(key) {
					continue
				}
				select {
				case changes <- key:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("[watch] %v", err)
			}
		}
	}()

	return changes, nil
}

func (f *File) keyOf(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || filepath.Ext(name) != fileExt {
		return "", false
	}
	return strings.TrimSuffix(name, fileExt), true
}

func (f *File) isOwnWrite(key string) bool {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	last, ok := f.last[key]
	return ok && bytes.Equal(last, data)
}
