package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	laberrors "github.com/gpslab/clientcore/internal/errors"
)

func newFileBackend(t *testing.T, maxBytes int64) (*FileBackend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	backend, err := NewFileBackend(path, maxBytes, nil)
	require.NoError(t, err)
	return backend, path
}

func TestFileBackendPersistsAcrossReopen(t *testing.T) {
	backend, path := newFileBackend(t, 0)

	require.NoError(t, backend.Set("k1", "v1"))
	require.NoError(t, backend.Set("k2", "v2"))
	require.NoError(t, backend.Delete("k1"))

	reopened, err := NewFileBackend(path, 0, nil)
	require.NoError(t, err)

	_, err = reopened.Get("k1")
	assert.ErrorIs(t, err, laberrors.ErrKeyNotFound)

	v, err := reopened.Get("k2")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestFileBackendQuota(t *testing.T) {
	backend, _ := newFileBackend(t, 32)

	require.NoError(t, backend.Set("a", "small"))

	err := backend.Set("b", "this value is far too large for the quota")
	assert.ErrorIs(t, err, laberrors.ErrQuotaExceeded)

	// Overwriting within budget still works.
	assert.NoError(t, backend.Set("a", "tiny"))
}

func TestFileBackendMissingFileIsEmpty(t *testing.T) {
	backend, _ := newFileBackend(t, 0)

	keys, err := backend.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileBackendCorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileBackend(path, 0, nil)
	assert.Error(t, err)
}

func TestReloadAndDiffEmitsExternalChanges(t *testing.T) {
	backend, path := newFileBackend(t, 0)
	require.NoError(t, backend.Set("stable", "same"))
	require.NoError(t, backend.Set("changed", "before"))
	require.NoError(t, backend.Set("removed", "old"))

	type change struct{ key, oldValue, newValue string }
	var changes []change
	backend.OnExternalChange(func(key, oldValue, newValue string) {
		changes = append(changes, change{key, oldValue, newValue})
	})

	// Another process rewrites the file.
	external := map[string]string{
		"stable":  "same",
		"changed": "after",
		"added":   "new",
	}
	encoded, err := json.Marshal(external)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, encoded, 0o644))

	backend.reloadAndDiff(context.Background())

	assert.ElementsMatch(t, []change{
		{"changed", "before", "after"},
		{"removed", "old", ""},
		{"added", "", "new"},
	}, changes)

	// In-memory state now matches the file.
	v, err := backend.Get("added")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestReloadAndDiffOwnWritesAreSilent(t *testing.T) {
	backend, _ := newFileBackend(t, 0)

	fired := 0
	backend.OnExternalChange(func(key, oldValue, newValue string) { fired++ })

	require.NoError(t, backend.Set("k", "v"))
	backend.reloadAndDiff(context.Background())

	assert.Zero(t, fired, "own writes must not produce external events")
}

func TestWatchDeliversCrossProcessChange(t *testing.T) {
	backend, path := newFileBackend(t, 0)
	require.NoError(t, backend.Set("shared", "initial"))

	got := make(chan string, 1)
	backend.OnExternalChange(func(key, oldValue, newValue string) {
		if key == "shared" {
			select {
			case got <- newValue:
			default:
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = backend.Watch(ctx) }()

	// Give the watcher a moment to register.
	time.Sleep(50 * time.Millisecond)

	encoded, err := json.Marshal(map[string]string{"shared": "from-other-process"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, encoded, 0o644))

	select {
	case value := <-got:
		assert.Equal(t, "from-other-process", value)
	case <-time.After(2 * time.Second):
		t.Fatal("external change was not delivered")
	}
}

func TestStoreOverFileBackendEndToEnd(t *testing.T) {
	backend, _ := newFileBackend(t, 0)
	s := New(Options{Backend: backend})

	require.True(t, s.Set(KeyTheme, "dark", SetOptions{}))
	assert.Equal(t, "dark", s.Get(KeyTheme, nil))

	require.True(t, s.Set(KeyAccessToken, "tok", SetOptions{ExpiresIn: time.Millisecond}))
	time.Sleep(5 * time.Millisecond)
	assert.Nil(t, s.Get(KeyAccessToken, nil))
}
