// main.go - build a substring-searchable index of a directory tree
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

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/opencoff/pflag"

	locate "github.com/opencoff/go-locate"
	"github.com/opencoff/go-locate/internal/diag"
	"github.com/opencoff/go-locate/sortidx"
	"github.com/opencoff/go-locate/walk"
)

var z = filepath.Base(os.Args[0])

func main() {
	var help bool
	var root, output string
	var ncpu int

	fs := flag.NewFlagSet(z, flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show help and exit [False]")
	fs.StringVarP(&root, "database-root", "r", "", "Build the index from `DIR` (required)")
	fs.StringVarP(&output, "output", "o", "", "Write the index to `FILE` (required)")
	fs.IntVarP(&ncpu, "concurrency", "c", runtime.NumCPU(), "Use upto `N` goroutines")
	fs.SetOutput(os.Stdout)

	if err := fs.Parse(os.Args[1:]); err != nil {
		diag.Die("%s", err)
	}

	if help {
		usage(fs)
	}

	if len(root) == 0 || len(output) == 0 {
		diag.Warn("--database-root and --output are both required")
		usage(fs)
	}

	if err := run(root, output, ncpu); err != nil {
		diag.Die("%s", err)
	}
}

func run(root, output string, ncpu int) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	w, err := locate.NewWriter(output)
	if err != nil {
		return fmt.Errorf("can't create %s: %w", output, err)
	}

	reg := walk.NewRegistrar(w)
	wk := walk.New(reg, ncpu)

	if err := wk.Run(root); err != nil {
		if errors.Is(err, walk.ErrNotDir) {
			w.Abort()
			return fmt.Errorf("walk %s: %w", root, err)
		}
		// per-entry errors (unreadable subdirectories, dangling
		// symlinks) are reported but don't invalidate the rest of
		// the tree that was successfully walked.
		diag.Warn("%s", err)
	}

	files := reg.Files()
	suffixes := sortidx.Sort(files, reg.Suffixes(), ncpu)

	if err := w.Finish(files, suffixes); err != nil {
		return fmt.Errorf("can't finish %s: %w", output, err)
	}

	return nil
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(usageStr, z, z)
	fs.PrintDefaults()
	os.Exit(1)
}

var usageStr = `%s - build a substring-searchable filename index.

Usage: %s --database-root DIR --output FILE

Options:
`
