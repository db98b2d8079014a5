package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nao1215/nsmarchive/internal/htmlquery"
	"github.com/nao1215/nsmarchive/internal/model"
)

// ParseSeriesList extracts the series links from the root listing.
// Anchors qualify when their href starts with schema.SeriesPrefix and has no
// fragment; fragment links are same-page aliases of real series links.
// Each href is resolved against base. Repeated URLs keep their first occurrence.
func ParseSeriesList(doc htmlquery.Element, base *url.URL, schema Schema) ([]*model.Series, error) {
	series := make([]*model.Series, 0)
	seen := make(map[string]bool)

	for _, a := range doc.FindBySelector(htmlquery.Selector{Tag: "a", Attr: "href"}) {
		href, _ := a.Attribute("href")
		href = strings.TrimSpace(href)
		if !strings.HasPrefix(href, schema.SeriesPrefix) || strings.Contains(href, "#") {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			return nil, model.ParseError("invalid series href %q: %v", href, err)
		}
		resolved := base.ResolveReference(ref).String()
		if seen[resolved] {
			continue
		}
		seen[resolved] = true

		series = append(series, &model.Series{
			Name: a.InnerText(),
			URL:  resolved,
		})
	}

	if len(series) == 0 {
		return nil, model.ParseError("no series links with prefix %q found", schema.SeriesPrefix)
	}
	return series, nil
}

// ParseGames extracts every game container of a series page in document order.
func ParseGames(doc htmlquery.Element, schema Schema) ([]model.Game, error) {
	containers := doc.FindByClass(schema.GameClass)
	games := make([]model.Game, 0, len(containers))

	for i, container := range containers {
		game, err := parseGame(container, schema)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
		games = append(games, game)
	}

	return games, nil
}

func parseGame(container htmlquery.Element, schema Schema) (model.Game, error) {
	heading := htmlquery.First(container.FindByTag(schema.HeadingTag))
	if heading == nil {
		return model.Game{}, model.ParseError("no <%s> heading", schema.HeadingTag)
	}
	name := heading.InnerText()

	titled := htmlquery.First(container.FindBySelector(htmlquery.Selector{Tag: "a", Attr: "title"}))
	if titled == nil {
		return model.Game{}, model.ParseError("%q: no anchor with a title attribute", name)
	}
	system, _ := titled.Attribute("title")

	rows := container.FindBySelector(htmlquery.Selector{Tag: schema.SheetRowTag, Class: schema.SheetRowClass})
	sheets := make([]model.Sheet, 0, len(rows))
	for _, row := range rows {
		sheet, err := parseSheet(row, schema)
		if err != nil {
			return model.Game{}, fmt.Errorf("game %q: %w", name, err)
		}
		sheets = append(sheets, sheet)
	}

	return model.Game{
		Name:   name,
		System: strings.TrimSpace(system),
		Sheets: sheets,
	}, nil
}

func parseSheet(row htmlquery.Element, schema Schema) (model.Sheet, error) {
	raw, ok := row.Attribute(schema.SheetIDAttr)
	if !ok {
		return model.Sheet{}, model.ParseError("sheet row has no %q attribute", schema.SheetIDAttr)
	}
	id, err := ParseSheetID(raw, schema.SheetIDPrefix)
	if err != nil {
		return model.Sheet{}, err
	}

	title := htmlquery.First(row.FindByClass(schema.TitleCellClass))
	if title == nil {
		return model.Sheet{}, model.ParseError("sheet %d has no title cell", id)
	}

	arrangers := make([]string, 0)
	if cell := htmlquery.First(row.FindByClass(schema.ArrangerCellClass)); cell != nil {
		for _, a := range cell.FindByTag("a") {
			if name := a.InnerText(); name != "" {
				arrangers = append(arrangers, name)
			}
		}
	}

	return model.Sheet{
		Name:      title.InnerText(),
		Arrangers: arrangers,
		ID:        id,
	}, nil
}

// ParseSheetID strips prefix from raw and parses the remainder as a
// non-negative decimal integer.
func ParseSheetID(raw, prefix string) (int, error) {
	rest, ok := strings.CutPrefix(raw, prefix)
	if !ok {
		return 0, model.ParseError("sheet id %q lacks prefix %q", raw, prefix)
	}
	n, err := strconv.ParseUint(rest, 10, strconv.IntSize-1)
	if err != nil {
		return 0, model.ParseError("sheet id %q: %q is not a non-negative integer", raw, rest)
	}
	return int(n), nil
}
