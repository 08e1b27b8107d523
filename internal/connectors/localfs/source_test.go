package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hctlabs/kbsync/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewSourceRejectsMissingDirectory(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewSourceRejectsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.txt", "x")

	_, err := NewSource(filepath.Join(dir, "plain.txt"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListWalksTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", "top level")
	writeFile(t, dir, "sub/nested.md", "# nested")
	writeFile(t, dir, ".hidden/skipped.txt", "no")
	writeFile(t, dir, ".dotfile", "no")

	source, err := NewSource(dir)
	require.NoError(t, err)

	files, err := source.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)

	byID := map[string]domain.RemoteFile{}
	for _, f := range files {
		byID[f.ID] = f
	}

	top, ok := byID["top.txt"]
	require.True(t, ok)
	assert.Equal(t, "top.txt", top.Name)
	assert.Equal(t, int64(9), top.SizeBytes)
	assert.False(t, top.ModifiedTime.IsZero())

	nested, ok := byID["sub/nested.md"]
	require.True(t, ok)
	assert.Equal(t, "nested.md", nested.Name)
}

func TestListFingerprintChangesOnModify(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "before")

	source, err := NewSource(dir)
	require.NoError(t, err)

	first, err := source.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Ensure the mtime moves even on coarse-grained filesystems.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "doc.txt"), past, past))

	second, err := source.List(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.NotEqual(t, first[0].Fingerprint(), second[0].Fingerprint())
}

func TestFetchReadsContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/doc.txt", "document body")

	source, err := NewSource(dir)
	require.NoError(t, err)

	data, err := source.Fetch(context.Background(), "sub/doc.txt")
	require.NoError(t, err)
	assert.Equal(t, "document body", string(data))
}

func TestFetchMissingFile(t *testing.T) {
	source, err := NewSource(t.TempDir())
	require.NoError(t, err)

	_, err = source.Fetch(context.Background(), "gone.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchRejectsEscapingID(t *testing.T) {
	source, err := NewSource(t.TempDir())
	require.NoError(t, err)

	_, err = source.Fetch(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWatchSignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	source, err := NewSource(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals, err := source.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, dir, "new.txt", "appeared")

	select {
	case _, ok := <-signals:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no watch signal after file creation")
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	source, err := NewSource(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	signals, err := source.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-signals:
		assert.False(t, ok, "channel closes on cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("watch channel did not close")
	}
}
