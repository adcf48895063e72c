// errors.go - diagnostics for the directory walk
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

import "errors"

// ErrNotDir is returned by Run when the root argument isn't a
// directory.
var ErrNotDir = errors.New("walk: root is not a directory")
