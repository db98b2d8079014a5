// Package database writes the SQLite catalog index produced by a run.
//
// The index holds the crawled series, games and sheets together with the
// outcome of every format download (path, size, sha3-256 digest or error).
// It is an output artifact: tables are emptied when the index is opened and
// nothing in nsmarchive reads it back to decide what to crawl.
//
// The driver is modernc.org/sqlite, so no cgo toolchain is required.
package database
