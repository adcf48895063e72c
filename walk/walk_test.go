// walk_test.go - tests for the lock-queue directory walker

package walk

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/opencoff/go-locate"
	"github.com/stretchr/testify/require"
)

func mkTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "a.log"), []byte("c"), 0644))

	return root
}

func newTestRegistrar(t *testing.T, out string) *Registrar {
	t.Helper()
	w, err := locate.NewWriter(out)
	require.NoError(t, err)
	return NewRegistrar(w)
}

func TestWalkRegistersEveryEntry(t *testing.T) {
	root := mkTestTree(t)
	out := filepath.Join(t.TempDir(), "index.db")

	reg := newTestRegistrar(t, out)
	wk := New(reg, 4)

	require.NoError(t, wk.Run(root))

	files := reg.Files()
	suffixes := reg.Suffixes()

	// root + a.txt + b.txt + sub + sub/a.log == 5 entries
	require.Len(t, files, 5)

	basenames := make([]string, 0, len(files))
	for _, fd := range files {
		basenames = append(basenames, string(fd.Basename))
	}
	sort.Strings(basenames)
	want := []string{"a.log", "a.txt", "b.txt", "sub", filepath.Base(root)}
	sort.Strings(want)
	require.Equal(t, want, basenames)

	var wantSuffixes int
	for _, fd := range files {
		wantSuffixes += len(fd.Basename)
	}
	require.Len(t, suffixes, wantSuffixes)

	for _, sd := range suffixes {
		require.Less(t, int(sd.Offset), len(files[sd.FileID].Basename))
	}
}

func TestWalkRootNotDirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0644))

	out := filepath.Join(t.TempDir(), "index.db")
	reg := newTestRegistrar(t, out)
	wk := New(reg, 2)

	err := wk.Run(f)
	require.ErrorIs(t, err, ErrNotDir)
}

func TestWalkEmptyTree(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "index.db")

	reg := newTestRegistrar(t, out)
	wk := New(reg, 3)

	require.NoError(t, wk.Run(root))
	require.Len(t, reg.Files(), 1)
	require.Equal(t, filepath.Base(root), string(reg.Files()[0].Basename))
}
