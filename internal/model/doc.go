// Package model defines the data structures shared by the crawler, the
// download workers and the report writers.
//
// This package contains the following main types:
//   - Catalog, Series, Game, Sheet: the crawled catalog tree
//   - SheetFormat: the downloadable renditions of a sheet
//   - WorkItem: one sheet and the directory its files go into
//   - DownloadResult: the outcome of one format of one sheet
//   - Run and Summary: the state and tally of an archive run
//
// Errors are classified by wrapping ErrNetwork, ErrParse or ErrIO so callers
// can branch with errors.Is.
package model
