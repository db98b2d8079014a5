// Package download fetches sheets in every configured format and writes them
// into the mirrored output tree.
//
// # Components
//
//   - URL: the pure mapping from sheet ID and format to a download address
//   - Downloader: fetches one sheet's formats sequentially and writes the files
//   - Pool: a fixed number of workers draining a queue.Queue of work items
//
// Parallelism is across sheets, never across the formats of one sheet. Each
// worker owns its own Downloader and HTTP client; workers share only the queue.
//
// A failed format is recorded in its DownloadResult and logged; it does not
// stop the worker, which moves on to the next format and the next item.
package download
