package htmlquery

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Selector is a simple element query. Every non-empty field must match:
// Tag is the element name, Class a single class name, Attr the name of an
// attribute that must be present.
type Selector struct {
	Tag   string
	Class string
	Attr  string
}

// Element is a node in a parsed document. Queries return matches in
// document order and search descendants only, never the element itself.
type Element interface {
	// FindByTag returns descendant elements with the given tag name.
	FindByTag(tag string) []Element

	// FindByClass returns descendant elements carrying the given class.
	FindByClass(class string) []Element

	// FindBySelector returns descendant elements matching sel.
	FindBySelector(sel Selector) []Element

	// Attribute returns the entity-decoded value of an attribute.
	Attribute(name string) (string, bool)

	// InnerText returns the entity-decoded text content with runs of
	// whitespace collapsed to single spaces and the ends trimmed.
	InnerText() string
}

// Document is the root of a parsed page.
type Document interface {
	Element
}

// Parse reads HTML from r and returns the document root.
func Parse(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &element{sel: goquery.NewDocumentFromNode(root).Selection}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (Document, error) {
	return Parse(strings.NewReader(s))
}

// element adapts a single-node goquery selection to Element.
type element struct {
	sel *goquery.Selection
}

func (e *element) FindByTag(tag string) []Element {
	return e.FindBySelector(Selector{Tag: tag})
}

func (e *element) FindByClass(class string) []Element {
	return e.FindBySelector(Selector{Class: class})
}

func (e *element) FindBySelector(sel Selector) []Element {
	tag := "*"
	if sel.Tag != "" {
		tag = strings.ToLower(sel.Tag)
	}

	matches := e.sel.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		if sel.Class != "" && !s.HasClass(sel.Class) {
			return false
		}
		if sel.Attr != "" {
			if _, ok := s.Attr(sel.Attr); !ok {
				return false
			}
		}
		return true
	})

	return wrap(matches)
}

func (e *element) Attribute(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *element) InnerText() string {
	return strings.Join(strings.Fields(e.sel.Text()), " ")
}

// wrap splits a multi-node selection into one Element per node.
func wrap(s *goquery.Selection) []Element {
	out := make([]Element, 0, s.Length())
	s.Each(func(_ int, item *goquery.Selection) {
		out = append(out, &element{sel: item})
	})
	return out
}

// First returns the first element of a result, or nil when it is empty.
func First(elements []Element) Element {
	if len(elements) == 0 {
		return nil
	}
	return elements[0]
}
