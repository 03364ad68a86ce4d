package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvokesOnChangeOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.txt")
	require.NoError(t, os.WriteFile(path, []byte("@intro\nhello\n"), 0o644))

	changed := make(chan struct{}, 1)
	w, err := New(path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("@intro\ngoodbye\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not invoked after the watched file was written")
	}
}

func TestNewMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := New(filepath.Join(dir, "nope.txt"), func() {})
	assert.Error(t, err)
}

func TestCloseIsIdempotentSafe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.txt")
	require.NoError(t, os.WriteFile(path, []byte("@intro\nhi\n"), 0o644))

	w, err := New(path, func() {})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Error(t, w.Close(), "closing twice reports the already-closed state rather than panicking")
}
