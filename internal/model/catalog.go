package model

// Series is a top-level catalog grouping (a franchise such as "The Legend of Zelda").
// A Series is identified by its URL.
type Series struct {
	// Name is the entity-decoded anchor text from the series listing.
	Name string `json:"name"`

	// URL is the absolute address of the series page.
	URL string `json:"url"`

	// Games is filled by a per-series fetch, in document order.
	Games []Game `json:"games"`
}

// SheetCount returns the number of sheets across every game of the series.
func (s *Series) SheetCount() int {
	n := 0
	for _, g := range s.Games {
		n += len(g.Sheets)
	}
	return n
}

// Game is a title within a series. The source pages carry no game ID,
// so a game is identified by its parent series and its name.
type Game struct {
	// Name is the text of the game's first heading.
	Name string `json:"name"`

	// System is the console or platform, taken from the title attribute
	// of the first titled anchor in the game container.
	System string `json:"system"`

	// Sheets lists the game's sheet rows in document order.
	Sheets []Sheet `json:"sheets"`
}

// Sheet is a single downloadable arrangement.
type Sheet struct {
	// Name is the sheet title.
	Name string `json:"name"`

	// Arrangers lists the arranger names in document order. It may be empty.
	Arrangers []string `json:"arrangers"`

	// ID is the catalog's numeric identifier. Download URLs derive from it.
	ID int `json:"id"`
}

// Catalog is the full crawled tree plus the series that could not be crawled.
type Catalog struct {
	// Series holds every successfully crawled series in listing order.
	Series []*Series `json:"series"`

	// Skipped holds series whose page failed to fetch or parse.
	Skipped []SkippedSeries `json:"skipped,omitempty"`
}

// SkippedSeries records a series dropped from the catalog during crawling.
type SkippedSeries struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// GameCount returns the number of games across all series.
func (c *Catalog) GameCount() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Games)
	}
	return n
}

// SheetCount returns the number of sheets across all series.
func (c *Catalog) SheetCount() int {
	n := 0
	for _, s := range c.Series {
		n += s.SheetCount()
	}
	return n
}
