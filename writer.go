// writer.go - streaming index writer
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

// Writer streams the paths section of an index file as the caller
// discovers paths, then appends the files and suffixes sections and
// backpatches the paths_count header once the walk is complete.
//
// Writer itself does no locking; callers that write paths from
// multiple goroutines (package walk's Registrar) must serialize
// their own calls to WritePath so that path_id assignment matches
// disk order, per the index format's invariant.
type Writer struct {
	f     *SafeFile
	count uint32
}

// NewWriter creates nm (overwriting it if it already exists) and
// reserves space for the paths_count header.
func NewWriter(nm string) (*Writer, error) {
	f, err := NewSafeFile(nm, true, 0644)
	if err != nil {
		return nil, err
	}

	if err := writeU32(f, 0); err != nil {
		f.Abort()
		return nil, err
	}

	return &Writer{f: f}, nil
}

// WritePath appends path to the paths stream and returns its
// path_id: the 0-based index of this write among all writes so far.
func (w *Writer) WritePath(path string) (uint32, error) {
	if err := writeBytes(w.f, []byte(path)); err != nil {
		return 0, err
	}
	id := w.count
	w.count++
	return id, nil
}

// Finish appends the files and suffixes sections, backpatches the
// paths_count header, and atomically installs the finished index
// file at its final name.
func (w *Writer) Finish(files []FileDescriptor, suffixes []SuffixDescriptor) error {
	if err := writeU32(w.f, uint32(len(files))); err != nil {
		w.f.Abort()
		return err
	}
	for _, fd := range files {
		if err := writeU32(w.f, fd.PathID); err != nil {
			w.f.Abort()
			return err
		}
		if err := writeBytes(w.f, fd.Basename); err != nil {
			w.f.Abort()
			return err
		}
	}

	if err := writeU32(w.f, uint32(len(suffixes))); err != nil {
		w.f.Abort()
		return err
	}
	for _, sd := range suffixes {
		if err := writeU32(w.f, sd.FileID); err != nil {
			w.f.Abort()
			return err
		}
		if err := writeU32(w.f, sd.Offset); err != nil {
			w.f.Abort()
			return err
		}
	}

	var hdr [u32size]byte
	enc32(hdr[:], w.count)
	if _, err := w.f.WriteAt(hdr[:], 0); err != nil {
		w.f.Abort()
		return err
	}

	return w.f.Close()
}

// Abort discards the in-progress output file without writing
// anything further to the requested path.
func (w *Writer) Abort() {
	w.f.Abort()
}
