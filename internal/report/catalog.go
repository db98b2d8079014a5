package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/nsmarchive/internal/model"
)

// TreeWriter prints a crawled catalog as an indented tree.
type TreeWriter struct {
	baseWriter
}

// NewTreeWriter creates a TreeWriter that outputs to the given writer.
func NewTreeWriter(output io.Writer) *TreeWriter {
	return &TreeWriter{baseWriter: newBaseWriter(output)}
}

// WriteCatalog outputs the tree followed by the skipped series.
func (w *TreeWriter) WriteCatalog(cat *model.Catalog) (int, error) {
	var sb strings.Builder

	for _, s := range cat.Series {
		fmt.Fprintf(&sb, "%s (%d games, %d sheets)\n", s.Name, len(s.Games), s.SheetCount())
		for _, g := range s.Games {
			if g.System != "" {
				fmt.Fprintf(&sb, "  %s [%s]\n", g.Name, g.System)
			} else {
				fmt.Fprintf(&sb, "  %s\n", g.Name)
			}
			for _, sh := range g.Sheets {
				fmt.Fprintf(&sb, "    %d  %s", sh.ID, sh.Name)
				if len(sh.Arrangers) > 0 {
					fmt.Fprintf(&sb, "  (%s)", strings.Join(sh.Arrangers, ", "))
				}
				sb.WriteString("\n")
			}
		}
	}

	for _, sk := range cat.Skipped {
		fmt.Fprintf(&sb, "skipped: %s: %s\n", sk.Name, sk.Error)
	}

	fmt.Fprintf(&sb, "\n%d series, %d games, %d sheets\n", len(cat.Series), cat.GameCount(), cat.SheetCount())

	return io.WriteString(w.output, sb.String())
}

// CatalogWriter writes a crawled catalog.
type CatalogWriter interface {
	WriteCatalog(cat *model.Catalog) (int, error)
}
