// walk.go - parallel directory traversal with lock-queue quiescence
//
// (c) 2022- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package walk does a concurrent, registrar-feeding traversal of a
// directory tree. Unlike its ancestor (a channel-and-waitgroup
// walker in github.com/opencoff/go-fio), termination here follows a
// specific discipline: a shared FIFO of pending directories behind
// one mutex, and a single atomic in_flight counter that tracks
// workers that have popped a directory but not yet finished
// processing it. A worker exits only once it observes the queue
// empty AND in_flight <= 0; the pop-and-increment happens inside one
// critical section so a worker that is about to enqueue children is
// never mistaken for idle.
package walk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
)

// Walker drives the worker pool that populates a Registrar from a
// root directory.
type Walker struct {
	reg         *Registrar
	concurrency int

	queueMu sync.Mutex
	queue   []string

	inFlight atomic.Int64

	errMu sync.Mutex
	errs  []error
}

// New creates a Walker with the given concurrency (at least 2; 0 or
// negative means runtime.NumCPU()) that registers every entry it
// finds with reg.
func New(reg *Registrar, concurrency int) *Walker {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if concurrency < 2 {
		concurrency = 2
	}

	return &Walker{
		reg:         reg,
		concurrency: concurrency,
	}
}

// Run traverses root and every directory beneath it, registering
// each encountered entry (files and directories alike) with the
// Walker's Registrar. It returns once every worker has quiesced:
// the queue is empty and no worker is still processing a directory.
// Per-directory and per-entry errors are collected and joined into
// the returned error rather than aborting the walk.
func (w *Walker) Run(root string) error {
	st, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}
	if !st.IsDir() {
		return ErrNotDir
	}

	canon, err := canonicalize(root)
	if err != nil {
		return fmt.Errorf("walk: canonicalize root: %w", err)
	}

	if err := w.reg.AddToIndex(canon); err != nil {
		return fmt.Errorf("walk: register root: %w", err)
	}
	w.queue = append(w.queue, canon)

	var wg sync.WaitGroup
	wg.Add(w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		go func() {
			defer wg.Done()
			w.worker()
		}()
	}
	wg.Wait()

	w.errMu.Lock()
	defer w.errMu.Unlock()
	if len(w.errs) > 0 {
		return errors.Join(w.errs...)
	}
	return nil
}

// worker implements the quiescence protocol described in the package
// doc: pop-and-increment under one lock, process, decrement; exit
// once the queue is empty and no peer is still in flight.
func (w *Walker) worker() {
	for {
		w.queueMu.Lock()
		if len(w.queue) > 0 {
			dir := w.queue[0]
			w.queue = w.queue[1:]
			w.inFlight.Add(1)
			w.queueMu.Unlock()

			w.processDir(dir)
			w.inFlight.Add(-1)
			continue
		}
		w.queueMu.Unlock()

		if w.inFlight.Load() <= 0 {
			return
		}
		runtime.Gosched()
	}
}

// processDir enumerates dir's entries, canonicalizes each, queues
// sub-directories, and registers every entry with the Registrar.
func (w *Walker) processDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.error(fmt.Errorf("walk: readdir %s: %w", dir, err))
		return
	}

	for _, e := range entries {
		full := filepath.Join(dir, e.Name())

		canon, err := canonicalize(full)
		if err != nil {
			w.error(fmt.Errorf("walk: canonicalize %s: %w", full, err))
			continue
		}

		isDir, err := isDirectory(canon)
		if err != nil {
			w.error(fmt.Errorf("walk: stat %s: %w", canon, err))
			continue
		}

		if isDir {
			w.enqueue(canon)
		}

		if err := w.reg.AddToIndex(canon); err != nil {
			w.error(fmt.Errorf("walk: register %s: %w", canon, err))
		}
	}
}

func (w *Walker) enqueue(dir string) {
	w.queueMu.Lock()
	w.queue = append(w.queue, dir)
	w.queueMu.Unlock()
}

func (w *Walker) error(err error) {
	w.errMu.Lock()
	w.errs = append(w.errs, err)
	w.errMu.Unlock()
}

// canonicalize resolves symlinks and collapses "."/".." to produce
// an absolute path. Entries that fail to canonicalize (dangling
// symlinks, permission errors) are the caller's responsibility to
// skip.
func canonicalize(nm string) (string, error) {
	abs, err := filepath.Abs(nm)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func isDirectory(nm string) (bool, error) {
	st, err := os.Stat(nm)
	if err != nil {
		return false, err
	}
	return st.IsDir(), nil
}
