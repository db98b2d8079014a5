// Package pipeline runs an archive as a sequence of steps over a shared
// model.Run.
//
// The default order is crawl, plan, download and index. The crawl step
// builds the catalog tree. The plan step creates the directory hierarchy,
// fills the download queue with one work item per sheet and closes it. The
// download step starts the worker pool only after that, so workers never
// see a queue that is still being filled. The index step writes the SQLite
// catalog index when one is configured.
package pipeline
