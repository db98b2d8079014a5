// Package htmlquery provides a small query capability over parsed HTML.
//
// The catalog crawler only needs a handful of queries: elements by tag,
// elements by class, elements matching a simple selector (tag, class,
// attribute presence), attribute lookup and entity-decoded inner text.
// This package exposes exactly those through the Element interface, so the
// crawler never deals with a particular parser or with CSS selector syntax.
//
// The default implementation parses with golang.org/x/net/html and walks the
// tree through goquery selections.
//
// # Usage
//
//	doc, err := htmlquery.Parse(resp.Body)
//	for _, a := range doc.FindByTag("a") {
//	    href, ok := a.Attribute("href")
//	    ...
//	}
package htmlquery
