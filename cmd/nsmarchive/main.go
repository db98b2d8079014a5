// Package main provides the entry point for the nsmarchive CLI.
//
// nsmarchive mirrors the ninsheetmusic.org catalog to disk: it walks every
// series, game and sheet, then downloads each sheet in PDF, MIDI and
// MusicXML form into an <output>/<series>/<game> tree.
//
// Usage:
//
//	nsmarchive run
//	nsmarchive run -o scores -w 8 --formats pdf,mid
//	nsmarchive crawl --json
//
// See --help for all available options.
package main

// main is the entry point for nsmarchive.
func main() {
	Execute()
}
