// format_mmap.go - mmap-backed fast path for loading an index
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

package locate

import (
	"os"

	"github.com/opencoff/go-mmap"
)

// LoadMmap maps the whole index file into memory and decodes it in
// place, avoiding the many small Read() syscalls that Load() issues
// for the files and suffixes sections. This is the fast path for the
// locator on large indexes; LoadFile falls back to the streaming
// reader (Load) when mmap isn't usable (e.g. an empty file, or a
// filesystem that doesn't support it).
func LoadMmap(f *os.File) (*Index, error) {
	var idx *Index

	_, err := mmap.Reader(f, func(b []byte) error {
		var decErr error
		idx, decErr = Decode(b)
		return decErr
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// LoadFile opens nm and loads the index from it, preferring the
// mmap path. A zero-length file (which most mmap(2) implementations
// reject) goes straight to the streaming reader; otherwise any error
// from the mmap path, including a decode error, makes LoadFile retry
// with the streaming reader and return its result.
func LoadFile(nm string) (*Index, error) {
	f, err := os.Open(nm)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if st.Size() > 0 {
		if idx, err := LoadMmap(f); err == nil {
			return idx, nil
		}
		if _, err := f.Seek(0, os.SEEK_SET); err != nil {
			return nil, err
		}
	}

	return Load(f)
}
