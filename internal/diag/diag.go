// diag.go - command-line diagnostics
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

// Package diag holds the stderr reporting helpers shared by the
// indexer and locator commands.
package diag

import (
	"fmt"
	"os"
	"path/filepath"
)

var prog = filepath.Base(os.Args[0])

// Warn prints a formatted, program-prefixed message to stderr.
func Warn(s string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", prog, s)
	m := fmt.Sprintf(z, v...)
	if n := len(m); n == 0 || m[n-1] != '\n' {
		m += "\n"
	}
	fmt.Fprint(os.Stderr, m)
}

// Die prints a formatted, program-prefixed message to stderr and
// exits with status 1.
func Die(s string, v ...interface{}) {
	Warn(s, v...)
	os.Exit(1)
}
