// integration_test.go - end-to-end walk -> sort -> write -> load -> query

package locate_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencoff/go-locate"
	"github.com/opencoff/go-locate/query"
	"github.com/opencoff/go-locate/sortidx"
	"github.com/opencoff/go-locate/walk"
)

// buildTree lays out the fixture used throughout this file:
//
//	<root>/a.txt
//	<root>/b.txt
//	<root>/sub/a.log
func buildTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("2"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "a.log"), []byte("3"), 0644))
	return root
}

// runPipeline drives the full indexer sequence (walk, sort, write)
// and returns the loaded index ready for querying.
func runPipeline(t *testing.T, root string) *locate.Index {
	t.Helper()

	out := filepath.Join(t.TempDir(), "index.db")
	w, err := locate.NewWriter(out)
	require.NoError(t, err)

	reg := walk.NewRegistrar(w)
	wk := walk.New(reg, 4)
	require.NoError(t, wk.Run(root))

	files := reg.Files()
	suffixes := sortidx.Sort(files, reg.Suffixes(), 4)
	require.NoError(t, w.Finish(files, suffixes))

	idx, err := locate.LoadFile(out)
	require.NoError(t, err)
	return idx
}

func TestPipelineRoundTrip(t *testing.T) {
	root := buildTree(t)
	idx := runPipeline(t, root)

	// root, a.txt, b.txt, sub, sub/a.log
	require.Len(t, idx.Files, 5)
	require.Len(t, idx.Paths, 5)
}

func TestPipelineFindsExpectedMatches(t *testing.T) {
	root := buildTree(t)
	idx := runPipeline(t, root)

	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	log := filepath.Join(root, "sub", "a.log")

	got := query.Find(idx, "a", 4)
	var paths []string
	for _, r := range got {
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)
	require.Equal(t, []string{a, log}, paths)

	got = query.Find(idx, ".txt", 4)
	paths = nil
	for _, r := range got {
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)
	require.Equal(t, []string{a, b}, paths)

	require.Empty(t, query.Find(idx, "xyz", 4))
}

func TestPipelineSuppressesDeletedEntries(t *testing.T) {
	root := buildTree(t)
	idx := runPipeline(t, root)

	require.NoError(t, os.Remove(filepath.Join(root, "a.txt")))

	got := query.Find(idx, "a", 4)
	for _, r := range got {
		require.NotEqual(t, filepath.Join(root, "a.txt"), r.Path)
	}
}

func TestPipelineEmptyTreeIndexesOnlyRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.MkdirAll(root, 0755))

	idx := runPipeline(t, root)
	require.Len(t, idx.Files, 1)
	require.Equal(t, filepath.Base(root), string(idx.Files[0].Basename))
}

func TestPipelineSortedSuffixesAreOrdered(t *testing.T) {
	root := buildTree(t)
	idx := runPipeline(t, root)

	for i := 1; i < len(idx.Suffixes); i++ {
		prev := string(idx.Suffixes[i-1].Denote(idx.Files))
		cur := string(idx.Suffixes[i].Denote(idx.Files))
		require.LessOrEqual(t, prev, cur)
	}
}

func TestPipelineTruncatedIndexIsFatal(t *testing.T) {
	root := buildTree(t)
	out := filepath.Join(t.TempDir(), "index.db")

	w, err := locate.NewWriter(out)
	require.NoError(t, err)
	reg := walk.NewRegistrar(w)
	wk := walk.New(reg, 4)
	require.NoError(t, wk.Run(root))
	files := reg.Files()
	suffixes := sortidx.Sort(files, reg.Suffixes(), 4)
	require.NoError(t, w.Finish(files, suffixes))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(out, raw[:len(raw)/2], 0644))

	_, err = locate.LoadFile(out)
	require.Error(t, err)
}
