// query.go - substring search over a loaded index
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package query answers "which indexed files have a basename
// containing this substring" against a loaded index: a binary search
// over the sorted suffix array locates the matching range, the
// file_ids in that range are deduplicated and ordered, and a fixed
// pool of goroutines confirms each still exists on disk before it's
// reported.
package query

import (
	"bytes"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/opencoff/go-locate"
)

// Result is one matching, still-existing file.
type Result struct {
	FileID uint32
	Path   string
}

// Find returns every still-existing path whose basename contains
// pattern, ordered by ascending file_id. An empty pattern matches
// every suffix - every suffix starts with the empty string - so Find
// returns every indexed file that still exists, once each.
//
// concurrency controls the size of the existence-check pool
// (anything <= 1 means runtime.NumCPU()).
func Find(idx *locate.Index, pattern string, concurrency int) []Result {
	ids := matchingFileIDs(idx, pattern)
	if len(ids) == 0 {
		return nil
	}

	paths := make([]string, len(ids))
	for i, id := range ids {
		paths[i] = idx.Paths[idx.Files[id].PathID]
	}
	exists := checkExistence(paths, concurrency)

	out := make([]Result, 0, len(ids))
	for i, id := range ids {
		if exists[i] {
			out = append(out, Result{FileID: id, Path: paths[i]})
		}
	}
	return out
}

// checkExistence stats every path concurrently across a fixed pool
// of goroutines and reports which ones still exist, indexed the same
// way as paths. os.Stat failures mean "doesn't exist", not a
// reportable error, so there is nothing for the pool to collect
// beyond the one bool per path.
func checkExistence(paths []string, concurrency int) []bool {
	if concurrency <= 1 {
		concurrency = runtime.NumCPU()
	}

	exists := make([]bool, len(paths))
	work := make(chan int, concurrency)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for i := range work {
				if _, err := os.Stat(paths[i]); err == nil {
					exists[i] = true
				}
			}
		}()
	}

	for i := range paths {
		work <- i
	}
	close(work)
	wg.Wait()

	return exists
}

// matchingFileIDs returns the set of distinct file_ids whose basename
// contains pattern, ordered ascending.
func matchingFileIDs(idx *locate.Index, pattern string) []uint32 {
	lo, hi := matchRange(idx, []byte(pattern))
	if lo >= hi {
		return nil
	}

	seen := make(map[uint32]struct{}, hi-lo)
	for _, sd := range idx.Suffixes[lo:hi] {
		seen[sd.FileID] = struct{}{}
	}

	ids := make([]uint32, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// matchRange finds the half-open range [lo, hi) of idx.Suffixes whose
// denoted substring starts with pattern, using the array's sorted
// order (unsigned byte comparison). lo is the lower bound for
// pattern itself; hi is the first index at or after lo whose
// substring no longer has pattern as a prefix.
func matchRange(idx *locate.Index, pattern []byte) (lo, hi int) {
	n := len(idx.Suffixes)
	lo = sort.Search(n, func(i int) bool {
		return bytes.Compare(idx.Suffixes[i].Denote(idx.Files), pattern) >= 0
	})
	hi = lo + sort.Search(n-lo, func(i int) bool {
		return !bytes.HasPrefix(idx.Suffixes[lo+i].Denote(idx.Files), pattern)
	})
	return lo, hi
}
