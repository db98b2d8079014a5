// Package report renders run summaries and catalog trees.
//
// Writers:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: Markdown with a mermaid chart of download outcomes
//   - JSONWriter: JSON for other tools
//
// All writers implement Writer and can be combined with MultiWriter.
package report
