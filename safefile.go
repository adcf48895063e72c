// safefile.go - safe file creation and unwinding on error
//
// (c) 2021- Sudhi Herle <sudhi@herle.net>
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
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// SafeFile is an io.WriteCloser that writes to a temporary file and
// is atomically renamed into place on Close. If the writer aborts,
// the temporary file is removed; if it aborts or never calls Close,
// the destination is left untouched. This is the discipline the indexer
// relies on: a run that dies midway through a directory traversal
// must never leave a half-written index file at the requested
// output path.
//
// Adapted from the index-writer's ancestor - the original carried
// an OPT_COW clone-on-write mode backed by xattr-aware stat
// (fio.Stat/CopyFd) for cloning an existing destination file before
// overwrite. Nothing in this index format ever reads an existing
// output file, so that machinery is dropped; only the
// temp-file-then-rename discipline survives.
type SafeFile struct {
	*os.File

	err  error
	name string

	// < 0 aborted, > 0 closed, == 0 open
	closed atomic.Int64
}

var _ io.WriteCloser = &SafeFile{}

// NewSafeFile creates a temporary file alongside nm that will be
// atomically renamed to nm on a successful Close, or removed on
// Abort. overwrite controls whether an existing nm may be replaced.
func NewSafeFile(nm string, overwrite bool, perm os.FileMode) (*SafeFile, error) {
	if _, err := os.Stat(nm); err == nil && !overwrite {
		return nil, fmt.Errorf("safefile: won't overwrite existing %s", nm)
	}

	tmp := fmt.Sprintf("%s.tmp.%d.%x", nm, os.Getpid(), randU32())
	fd, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_RDWR, perm)
	if err != nil {
		return nil, err
	}

	return &SafeFile{File: fd, name: nm}, nil
}

func (sf *SafeFile) isOpen() bool {
	return sf.closed.Load() == 0
}

// Write writes b to the temp file; once an error is recorded, every
// subsequent Write/WriteAt is a no-op that returns the same error.
func (sf *SafeFile) Write(b []byte) (int, error) {
	if sf.err != nil {
		return 0, sf.err
	}
	if !sf.isOpen() {
		return 0, fmt.Errorf("safefile: %s is not open", sf.Name())
	}

	n, err := sf.File.Write(b)
	if err != nil {
		sf.err = err
	}
	return n, err
}

// WriteAt writes b at absolute offset off, used to backpatch the
// paths_count header once the walk is known to be complete.
func (sf *SafeFile) WriteAt(b []byte, off int64) (int, error) {
	if sf.err != nil {
		return 0, sf.err
	}
	if !sf.isOpen() {
		return 0, fmt.Errorf("safefile: %s is not open", sf.Name())
	}

	n, err := sf.File.WriteAt(b, off)
	if err != nil {
		sf.err = err
	}
	return n, err
}

// Abort discards the temp file. Safe to call after Close; the first
// of Abort/Close to run wins.
func (sf *SafeFile) Abort() {
	n := sf.closed.Load()
	if n != 0 {
		return
	}
	sf.File.Close()
	os.Remove(sf.File.Name())
	sf.closed.Store(-1)
}

// Close flushes the temp file to disk and atomically renames it to
// the final name - unless a previous Write/WriteAt recorded an
// error, in which case Close aborts instead.
func (sf *SafeFile) Close() error {
	if sf.err != nil {
		sf.Abort()
		return sf.err
	}

	n := sf.closed.Load()
	if n != 0 {
		return nil
	}

	if err := sf.File.Sync(); err != nil {
		sf.Abort()
		return err
	}

	tmpname := sf.File.Name()
	if err := sf.File.Close(); err != nil {
		os.Remove(tmpname)
		sf.closed.Store(-1)
		return err
	}

	if err := os.Rename(tmpname, sf.name); err != nil {
		os.Remove(tmpname)
		sf.closed.Store(-1)
		return err
	}

	sf.closed.Store(1)
	return nil
}

func randU32() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("safefile: can't read random bytes from OS")
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
