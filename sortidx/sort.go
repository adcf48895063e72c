// sort.go - bucketed parallel suffix sort
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

// Package sortidx sorts a suffix array into lexicographic order of
// the substring each suffix_descriptor denotes. The sort partitions
// suffixes into 256 buckets by the first byte of the suffix (always
// in range, since every suffix_descriptor's offset is < its
// basename's length), then sorts each bucket independently across a
// second worker pool. Bucket index equals first-byte value, and
// unsigned byte order is the comparison the rest of the index uses,
// so concatenating bucket 0..255 in order is the final sorted
// array - no merge phase is needed.
package sortidx

import (
	"bytes"
	"runtime"
	"sort"
	"sync"

	"github.com/opencoff/go-locate"
)

const alphabet = 256

// Sort returns a new slice containing suffixes sorted by the
// lexicographic order (unsigned byte comparison) of the substring
// each one denotes in files. concurrency is the size of the sort
// worker pool (at least 2; 0 or negative means runtime.NumCPU()).
func Sort(files []locate.FileDescriptor, suffixes []locate.SuffixDescriptor, concurrency int) []locate.SuffixDescriptor {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency < 2 {
		concurrency = 2
	}

	var buckets [alphabet][]locate.SuffixDescriptor
	for _, sd := range suffixes {
		first := files[sd.FileID].Basename[sd.Offset]
		buckets[first] = append(buckets[first], sd)
	}

	// second worker pool: workers pull the next unprocessed bucket
	// index from a shared counter under a lock, and sort it
	// independently - no cross-bucket communication is needed.
	var mu sync.Mutex
	next := 0

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				if next >= alphabet {
					mu.Unlock()
					return
				}
				b := next
				next++
				mu.Unlock()

				sortBucket(files, buckets[b])
			}
		}()
	}
	wg.Wait()

	out := make([]locate.SuffixDescriptor, 0, len(suffixes))
	for b := 0; b < alphabet; b++ {
		out = append(out, buckets[b]...)
	}
	return out
}

// sortBucket sorts one bucket in place. Every suffix in the bucket
// shares the same first byte (that's what put it in the bucket), so
// comparison could start at offset+1; we compare the full denoted
// substring instead, which is simpler and no less correct.
func sortBucket(files []locate.FileDescriptor, bucket []locate.SuffixDescriptor) {
	sort.Slice(bucket, func(i, j int) bool {
		return less(files, bucket[i], bucket[j])
	})
}

func less(files []locate.FileDescriptor, a, b locate.SuffixDescriptor) bool {
	return bytes.Compare(a.Denote(files), b.Denote(files)) < 0
}
