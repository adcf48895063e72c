// model.go - the three parallel stores that make up a suffix-array index
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

// FileDescriptor is one registered filesystem entry: a back-index
// into the paths stream, plus the entry's basename. Both the walker
// (indexer) and the query engine (locator) use FileDescriptor -
// the walker to append, the query engine read-only.
type FileDescriptor struct {
	PathID   uint32
	Basename []byte
}

// SuffixDescriptor denotes one suffix of a basename: the substring
// Files[FileID].Basename[Offset:]. The suffix array is the sorted
// collection of these.
type SuffixDescriptor struct {
	FileID uint32
	Offset uint32
}

// Denote returns the substring a SuffixDescriptor refers to, given
// the files vector it indexes into.
func (sd SuffixDescriptor) Denote(files []FileDescriptor) []byte {
	bn := files[sd.FileID].Basename
	return bn[sd.Offset:]
}

// Index is the in-memory materialization of an index file: the
// three parallel stores described in the binary format. The walker
// builds one incrementally (via a Registrar); the locator loads one
// in full from disk.
type Index struct {
	Paths    []string
	Files    []FileDescriptor
	Suffixes []SuffixDescriptor
}
