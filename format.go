// format.go - on-disk binary layout for the suffix-array index
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

// Layout (all integers little-endian, 4 bytes, unsigned):
//
//	u32  paths_count                 ; backpatched once the walk is done
//	repeat paths_count times:
//	  u32 len ; bytes[len]           ; a canonicalized path string
//	u32  files_count
//	repeat files_count times:
//	  u32 path_id
//	  u32 basename_len ; bytes[basename_len]
//	u32  suffixes_count
//	repeat suffixes_count times:
//	  u32 file_id
//	  u32 offset
//
// Unlike the rest of this codebase's ancestry (which favors
// big-endian fixed-width ints, see the sibling go-fio package this
// was derived from), the two index-format commands here must agree
// with the original C++ implementation's byte order, which is
// little-endian. That choice is preserved exactly - it is the one
// place this package intentionally departs from its lineage.

import (
	"encoding/binary"
	"fmt"
	"io"
)

const u32size = 4

func enc32(b []byte, n uint32) []byte {
	binary.LittleEndian.PutUint32(b, n)
	return b[u32size:]
}

func dec32(b []byte) ([]byte, uint32, error) {
	if len(b) < u32size {
		return nil, 0, ErrTooSmall
	}
	n := binary.LittleEndian.Uint32(b[:u32size])
	return b[u32size:], n, nil
}

func encBytes(b []byte, s []byte) []byte {
	b = enc32(b, uint32(len(s)))
	return b[copy(b, s):]
}

func decBytes(b []byte) ([]byte, []byte, error) {
	b, n, err := dec32(b)
	if err != nil {
		return nil, nil, err
	}
	if uint64(n) > uint64(len(b)) {
		return nil, nil, ErrTooSmall
	}
	return b[n:], b[:n:n], nil
}

// readU32 reads one little-endian u32 from r.
func readU32(r io.Reader) (uint32, error) {
	var tmp [u32size]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, truncated(err)
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

// truncated maps the underlying EOF family of errors io.ReadFull
// returns for a short read into the domain-specific ErrTruncated;
// any other error (a real I/O failure) passes through unchanged.
func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

// writeU32 writes one little-endian u32 to w.
func writeU32(w io.Writer, n uint32) error {
	var tmp [u32size]byte
	binary.LittleEndian.PutUint32(tmp[:], n)
	_, err := w.Write(tmp[:])
	return err
}

// readBytes reads a length-prefixed byte string from r.
func readBytes(r io.Reader) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, truncated(err)
	}
	return buf, nil
}

// writeBytes writes a length-prefixed byte string to w.
func writeBytes(w io.Writer, s []byte) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write(s)
	return err
}

// Decode parses a complete index image held in memory (e.g. an
// mmap'd file) into an Index. It is used by the mmap reader in
// format_mmap.go; Load parses the same layout from a stream on its
// own.
func Decode(b []byte) (*Index, error) {
	var idx Index

	b, n, err := dec32(b)
	if err != nil {
		return nil, &FormatError{"paths_count", err}
	}
	idx.Paths = make([]string, n)
	for i := range idx.Paths {
		var raw []byte
		b, raw, err = decBytes(b)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("path[%d]", i), err}
		}
		idx.Paths[i] = string(raw)
	}

	b, n, err = dec32(b)
	if err != nil {
		return nil, &FormatError{"files_count", err}
	}
	idx.Files = make([]FileDescriptor, n)
	for i := range idx.Files {
		var pathID uint32
		var raw []byte
		b, pathID, err = dec32(b)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("file[%d].path_id", i), err}
		}
		b, raw, err = decBytes(b)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("file[%d].basename", i), err}
		}
		if uint64(pathID) >= uint64(len(idx.Paths)) {
			return nil, &FormatError{fmt.Sprintf("file[%d].path_id", i), ErrBadCount}
		}
		idx.Files[i] = FileDescriptor{PathID: pathID, Basename: raw}
	}

	b, n, err = dec32(b)
	if err != nil {
		return nil, &FormatError{"suffixes_count", err}
	}
	idx.Suffixes = make([]SuffixDescriptor, n)
	for i := range idx.Suffixes {
		var fileID, offset uint32
		b, fileID, err = dec32(b)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].file_id", i), err}
		}
		b, offset, err = dec32(b)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].offset", i), err}
		}
		if uint64(fileID) >= uint64(len(idx.Files)) {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].file_id", i), ErrBadCount}
		}
		if uint64(offset) >= uint64(len(idx.Files[fileID].Basename)) {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].offset", i), ErrBadCount}
		}
		idx.Suffixes[i] = SuffixDescriptor{FileID: fileID, Offset: offset}
	}

	return &idx, nil
}

// Load reads a complete index from a stream (e.g. an *os.File opened
// for reading). It is the default, portable read path; see
// format_mmap.go for a faster mmap-backed alternative on large
// indexes.
func Load(r io.Reader) (*Index, error) {
	var idx Index

	n, err := readU32(r)
	if err != nil {
		return nil, &FormatError{"paths_count", err}
	}
	idx.Paths = make([]string, n)
	for i := range idx.Paths {
		raw, err := readBytes(r)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("path[%d]", i), err}
		}
		idx.Paths[i] = string(raw)
	}

	n, err = readU32(r)
	if err != nil {
		return nil, &FormatError{"files_count", err}
	}
	idx.Files = make([]FileDescriptor, n)
	for i := range idx.Files {
		pathID, err := readU32(r)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("file[%d].path_id", i), err}
		}
		raw, err := readBytes(r)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("file[%d].basename", i), err}
		}
		if uint64(pathID) >= uint64(len(idx.Paths)) {
			return nil, &FormatError{fmt.Sprintf("file[%d].path_id", i), ErrBadCount}
		}
		idx.Files[i] = FileDescriptor{PathID: pathID, Basename: raw}
	}

	n, err = readU32(r)
	if err != nil {
		return nil, &FormatError{"suffixes_count", err}
	}
	idx.Suffixes = make([]SuffixDescriptor, n)
	for i := range idx.Suffixes {
		fileID, err := readU32(r)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].file_id", i), err}
		}
		offset, err := readU32(r)
		if err != nil {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].offset", i), err}
		}
		if uint64(fileID) >= uint64(len(idx.Files)) {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].file_id", i), ErrBadCount}
		}
		if uint64(offset) >= uint64(len(idx.Files[fileID].Basename)) {
			return nil, &FormatError{fmt.Sprintf("suffix[%d].offset", i), ErrBadCount}
		}
		idx.Suffixes[i] = SuffixDescriptor{FileID: fileID, Offset: offset}
	}

	return &idx, nil
}
