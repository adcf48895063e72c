// sort_test.go - tests for the bucketed parallel suffix sort

package sortidx

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/opencoff/go-locate"
	"github.com/stretchr/testify/require"
)

func mkFiles(names ...string) []locate.FileDescriptor {
	files := make([]locate.FileDescriptor, len(names))
	for i, n := range names {
		files[i] = locate.FileDescriptor{PathID: uint32(i), Basename: []byte(n)}
	}
	return files
}

func allSuffixes(files []locate.FileDescriptor) []locate.SuffixDescriptor {
	var out []locate.SuffixDescriptor
	for fid, fd := range files {
		for off := range fd.Basename {
			out = append(out, locate.SuffixDescriptor{FileID: uint32(fid), Offset: uint32(off)})
		}
	}
	return out
}

func TestSortOrdersSuffixesLexicographically(t *testing.T) {
	files := mkFiles("banana", "band", "apple")
	suffixes := allSuffixes(files)

	sorted := Sort(files, suffixes, 4)
	require.Len(t, sorted, len(suffixes))

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].Denote(files)
		cur := sorted[i].Denote(files)
		require.LessOrEqual(t, bytes.Compare(prev, cur), 0, "out of order at %d: %q > %q", i, prev, cur)
	}
}

func TestSortPreservesMultiset(t *testing.T) {
	files := mkFiles("aaaa", "aaab")
	suffixes := allSuffixes(files)

	sorted := Sort(files, suffixes, 3)

	want := make(map[string]int)
	for _, sd := range suffixes {
		want[string(sd.Denote(files))]++
	}
	got := make(map[string]int)
	for _, sd := range sorted {
		got[string(sd.Denote(files))]++
	}
	require.Equal(t, want, got)
}

func TestSortEmpty(t *testing.T) {
	files := mkFiles()
	sorted := Sort(files, nil, 4)
	require.Empty(t, sorted)
}

func TestSortLargerRandomSet(t *testing.T) {
	names := make([]string, 0, 64)
	r := rand.New(rand.NewSource(1))
	const alphabet = "abcdefgh"
	for i := 0; i < 64; i++ {
		n := 1 + r.Intn(8)
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = alphabet[r.Intn(len(alphabet))]
		}
		names = append(names, string(buf))
	}
	files := mkFiles(names...)
	suffixes := allSuffixes(files)

	sorted := Sort(files, suffixes, 8)
	require.Len(t, sorted, len(suffixes))
	for i := 1; i < len(sorted); i++ {
		require.LessOrEqual(t, bytes.Compare(sorted[i-1].Denote(files), sorted[i].Denote(files)), 0)
	}
}
