// registrar.go - concurrent append-only stores behind three locks
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

package walk

import (
	"path/filepath"
	"sync"

	"github.com/opencoff/go-locate"
)

// Registrar owns the three parallel stores a directory walk builds:
// the paths stream (written straight to the output file), the files
// vector, and the suffixes vector. Each store is guarded by its own
// mutex so the three can grow concurrently; a single composite
// operation, AddToIndex, calls all three in the order the on-disk
// format's invariant requires (path, then file, then suffixes).
//
// There is deliberately no fourth lock for "the paths counter" -
// Writer.WritePath increments it in the same critical section as
// the write itself, so the two locks the original design called for
// (one for the stream, one for the counter) collapse into the one
// outMu below.
type Registrar struct {
	outMu  sync.Mutex
	writer *locate.Writer

	filesMu sync.Mutex
	files   []locate.FileDescriptor

	sufMu    sync.Mutex
	suffixes []locate.SuffixDescriptor
}

// NewRegistrar wraps an index Writer that paths are streamed into as
// the walk discovers them.
func NewRegistrar(w *locate.Writer) *Registrar {
	return &Registrar{writer: w}
}

// writePath appends path to the output stream and returns the
// pre-increment path_id.
func (r *Registrar) writePath(path string) (uint32, error) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	return r.writer.WritePath(path)
}

// addFile appends a file_descriptor and returns its file_id.
func (r *Registrar) addFile(pathID uint32, basename []byte) uint32 {
	r.filesMu.Lock()
	defer r.filesMu.Unlock()

	id := uint32(len(r.files))
	r.files = append(r.files, locate.FileDescriptor{PathID: pathID, Basename: basename})
	return id
}

// addSuffixes appends one suffix_descriptor per offset in [0, n).
func (r *Registrar) addSuffixes(fileID uint32, n int) {
	r.sufMu.Lock()
	defer r.sufMu.Unlock()

	for off := 0; off < n; off++ {
		r.suffixes = append(r.suffixes, locate.SuffixDescriptor{FileID: fileID, Offset: uint32(off)})
	}
}

// AddToIndex registers one canonicalized filesystem entry: its full
// path is streamed to disk, a file_descriptor is appended using the
// entry's basename, and one suffix_descriptor is appended per byte
// offset into that basename. Safe to call from any worker
// concurrently with any other call.
func (r *Registrar) AddToIndex(path string) error {
	pathID, err := r.writePath(path)
	if err != nil {
		return err
	}

	basename := []byte(filepath.Base(path))
	fileID := r.addFile(pathID, basename)
	r.addSuffixes(fileID, len(basename))
	return nil
}

// Files returns the accumulated files vector. Only safe to call
// after the walk has fully quiesced - concurrent appends are not
// visible to a racing reader.
func (r *Registrar) Files() []locate.FileDescriptor {
	return r.files
}

// Suffixes returns the accumulated (unsorted) suffixes vector. Only
// safe to call after the walk has fully quiesced.
func (r *Registrar) Suffixes() []locate.SuffixDescriptor {
	return r.suffixes
}
