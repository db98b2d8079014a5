// Package catalog crawls the sheet-music catalog into a Series → Game → Sheet tree.
//
// # Architecture
//
// The site is three levels deep. The root listing links every series; each
// series page holds a container per game, and each game container lists its
// sheet rows. The Crawler fetches the root listing, then each series page in
// turn. Crawling is sequential; all concurrency lives in the download phase.
//
// Pages are read through the htmlquery capability only, using tag, class and
// attribute-presence queries described by a Schema. A page that does not match
// the Schema is a parse error for that page, never an empty result.
//
// # Failure isolation
//
// A failure on the root listing is fatal. A failure on a series page skips
// that series and is recorded in the Catalog, unless the Crawler is strict,
// in which case the crawl stops at the first failure.
//
// # Usage
//
//	c := catalog.NewCrawler(client, catalog.WithBaseURL("https://www.ninsheetmusic.org"))
//	cat, err := c.Crawl(ctx)
package catalog
