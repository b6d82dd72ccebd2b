package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	laberrors "github.com/gpslab/clientcore/internal/errors"
	"github.com/gpslab/clientcore/internal/logging"
)

// watchDebounce groups the burst of fsnotify events a single save
// produces into one reload.
const watchDebounce = 100 * time.Millisecond

// FileBackend persists records as one JSON object in a file, the
// process-shared analog of browser local storage. Writes go through a
// temp-file rename so readers never see a torn file. With Watch running,
// modifications made by other processes surface as external change
// events.
type FileBackend struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	data     map[string]string
	used     int64
	handler  func(key, oldValue, newValue string)
	logger   logging.Logger
}

// NewFileBackend opens (or creates) the store file. maxBytes of zero
// means no quota.
func NewFileBackend(path string, maxBytes int64, logger logging.Logger) (*FileBackend, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	b := &FileBackend{
		path:     path,
		maxBytes: maxBytes,
		data:     make(map[string]string),
		logger:   logger.WithComponent("filebackend"),
	}

	if err := b.load(); err != nil {
		return nil, laberrors.NewStorageError("open_failed", "cannot load store file", err)
	}
	return b, nil
}

func (b *FileBackend) load() error {
	raw, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	b.data = data
	b.used = usedBytes(data)
	return nil
}

func usedBytes(data map[string]string) int64 {
	var total int64
	for k, v := range data {
		total += int64(len(k) + len(v))
	}
	return total
}

// persist writes the whole map atomically. Callers hold b.mu.
func (b *FileBackend) persist() error {
	encoded, err := json.Marshal(b.data)
	if err != nil {
		return err
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}

// Get implements Backend.
func (b *FileBackend) Get(key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, ok := b.data[key]
	if !ok {
		return "", laberrors.ErrKeyNotFound
	}
	return value, nil
}

// Set implements Backend, enforcing the byte quota before touching disk.
func (b *FileBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delta := int64(len(key) + len(value))
	previous, existed := b.data[key]
	if existed {
		delta -= int64(len(key) + len(previous))
	}

	if b.maxBytes > 0 && b.used+delta > b.maxBytes {
		return laberrors.ErrQuotaExceeded
	}

	b.data[key] = value
	b.used += delta

	if err := b.persist(); err != nil {
		// Roll back the in-memory state so it keeps matching the file.
		if existed {
			b.data[key] = previous
		} else {
			delete(b.data, key)
		}
		b.used -= delta
		return err
	}
	return nil
}

// Delete implements Backend.
func (b *FileBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	previous, ok := b.data[key]
	if !ok {
		return nil
	}

	delete(b.data, key)
	b.used -= int64(len(key) + len(previous))

	if err := b.persist(); err != nil {
		b.data[key] = previous
		b.used += int64(len(key) + len(previous))
		return err
	}
	return nil
}

// Keys implements Backend.
func (b *FileBackend) Keys() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// OnExternalChange implements Watchable.
func (b *FileBackend) OnExternalChange(handler func(key, oldValue, newValue string)) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

// Watch observes the store file for modifications by other processes
// until the context is cancelled. It blocks and should run in its own
// goroutine. Changes made through this backend are invisible here: the
// in-memory map already matches the file, so the reload diff is empty.
func (b *FileBackend) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return laberrors.NewStorageError("watch_failed", "cannot create watcher", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic renames replace the
	// inode and a file watch would go stale after the first save.
	dir := filepath.Dir(b.path)
	if err := watcher.Add(dir); err != nil {
		return laberrors.NewStorageError("watch_failed", "cannot watch store directory", err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(b.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(watchDebounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			b.reloadAndDiff(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn(ctx, err, "watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

// reloadAndDiff reads the file fresh and emits one handler call per
// changed key.
func (b *FileBackend) reloadAndDiff(ctx context.Context) {
	raw, err := os.ReadFile(b.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		b.logger.Warn(ctx, err, "reload failed")
		return
	}

	fresh := make(map[string]string)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fresh); err != nil {
			b.logger.Warn(ctx, err, "store file corrupt, keeping in-memory state")
			return
		}
	}

	b.mu.Lock()
	previous := b.data
	b.data = fresh
	b.used = usedBytes(fresh)
	handler := b.handler
	b.mu.Unlock()

	if handler == nil {
		return
	}

	for key, oldValue := range previous {
		newValue, stillThere := fresh[key]
		if !stillThere {
			handler(key, oldValue, "")
		} else if newValue != oldValue {
			handler(key, oldValue, newValue)
		}
	}
	for key, newValue := range fresh {
		if _, existed := previous[key]; !existed {
			handler(key, "", newValue)
		}
	}
}
