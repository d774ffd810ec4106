package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uitokens/pkg/util"
)

// recorder collects callback invocations.
type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) onChange(changed []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

const debounce = 50 * time.Millisecond

func startWatcher(t *testing.T, paths []string) *recorder {
	t.Helper()
	rec := &recorder{}
	w, err := New(paths, rec.onChange, Options{Debounce: debounce}, util.NopLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	return rec
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("A=1\n"), 0o644))

	rec := startWatcher(t, []string{env})

	for i := range 5 {
		require.NoError(t, os.WriteFile(env, []byte{byte('0' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(4 * debounce)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, []string{env}, rec.last())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rec := startWatcher(t, []string{filepath.Join(dir, ".env")})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))
	time.Sleep(4 * debounce)
	assert.Equal(t, 0, rec.count())
}

func TestWatcher_FileInMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, ".uitokens", "config.yaml")
	rec := startWatcher(t, []string{cfg, filepath.Join(dir, ".env")})

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg), 0o755))
	require.NoError(t, os.WriteFile(cfg, []byte("gutter: 20\n"), 0o644))

	require.Eventually(t, func() bool {
		last := rec.last()
		return len(last) == 1 && last[0] == cfg
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("A=1\n"), 0o644))
	rec := startWatcher(t, []string{env})

	require.NoError(t, os.Remove(env))
	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_Lifecycle(t *testing.T) {
	_, err := New(nil, func([]string) {}, Options{}, nil)
	require.Error(t, err)

	dir := t.TempDir()
	rec := &recorder{}
	w, err := New([]string{filepath.Join(dir, ".env")}, rec.onChange, Options{}, util.NopLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	require.NoError(t, w.Start())
	require.NoError(t, w.Start(), "second start is a no-op")
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "second stop is a no-op")
	assert.ErrorIs(t, w.Start(), ErrStopped)

	// No callbacks after Stop.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("A=1"), 0o644))
	time.Sleep(DefaultDebounce + 50*time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestWatcher_NoExistingDirectory(t *testing.T) {
	// Neither the directory nor its parent exists.
	missing := filepath.Join(t.TempDir(), "a", "b", "c", ".env")
	w, err := New([]string{missing}, func([]string) {}, Options{}, util.NopLogger())
	require.NoError(t, err)
	defer w.Stop()
	assert.Error(t, w.Start())
}
