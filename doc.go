// doc.go - package overview
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

// Package locate implements the shared data model and on-disk binary
// format for a suffix-array index over file basenames. It is used by
// two command line tools: locateupdatedb (cmd/indexer) builds the
// index by walking a directory tree (package walk) and sorting the
// resulting suffix array (package sortidx); locate (cmd/locator)
// loads the index and answers substring queries (package query).
//
// The index file has no magic number or version tag; the two tools
// must always agree on the exact byte layout described in format.go.
package locate
