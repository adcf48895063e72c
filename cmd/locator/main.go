// main.go - search an index built by the indexer command
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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/opencoff/pflag"

	locate "github.com/opencoff/go-locate"
	"github.com/opencoff/go-locate/internal/diag"
	"github.com/opencoff/go-locate/query"
)

var z = filepath.Base(os.Args[0])

func main() {
	var help bool
	var database string
	var ncpu int

	fs := flag.NewFlagSet(z, flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show help and exit [False]")
	fs.StringVarP(&database, "database", "d", "", "Search the index in `FILE` (required)")
	fs.IntVarP(&ncpu, "concurrency", "c", runtime.NumCPU(), "Use upto `N` goroutines for existence checks")
	fs.SetOutput(os.Stdout)

	if err := fs.Parse(os.Args[1:]); err != nil {
		diag.Die("%s", err)
	}

	if help {
		usage(fs)
	}

	args := fs.Args()
	if len(database) == 0 || len(args) != 1 {
		diag.Warn("a pattern and --database are both required")
		usage(fs)
	}

	if err := run(database, args[0], ncpu); err != nil {
		diag.Die("%s", err)
	}
}

func run(database, pattern string, ncpu int) error {
	idx, err := locate.LoadFile(database)
	if err != nil {
		return fmt.Errorf("can't load %s: %w", database, err)
	}

	results := query.Find(idx, pattern, ncpu)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for _, r := range results {
		fmt.Fprintln(out, r.Path)
	}
	return nil
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(usageStr, z, z)
	fs.PrintDefaults()
	os.Exit(1)
}

var usageStr = `%s - search an index for basenames containing a substring.

Usage: %s [options] PATTERN

Options:
`
