package catalog

// Schema names the markers the crawler looks for on catalog pages.
type Schema struct {
	// SeriesPath is the path of the root series listing.
	SeriesPath string `yaml:"seriesPath,omitempty"`

	// SeriesPrefix is the href prefix of series links on the listing.
	SeriesPrefix string `yaml:"seriesPrefix,omitempty"`

	// GameClass marks a game container on a series page.
	GameClass string `yaml:"gameClass,omitempty"`

	// HeadingTag is the tag whose first occurrence in a container holds the game name.
	HeadingTag string `yaml:"headingTag,omitempty"`

	// SheetRowTag and SheetRowClass select the sheet rows of a game.
	SheetRowTag   string `yaml:"sheetRowTag,omitempty"`
	SheetRowClass string `yaml:"sheetRowClass,omitempty"`

	// SheetIDAttr is the row attribute holding SheetIDPrefix followed by the numeric ID.
	SheetIDAttr   string `yaml:"sheetIdAttr,omitempty"`
	SheetIDPrefix string `yaml:"sheetIdPrefix,omitempty"`

	// TitleCellClass marks the cell holding the sheet title.
	TitleCellClass string `yaml:"titleCellClass,omitempty"`

	// ArrangerCellClass marks the cell whose anchors name the arrangers.
	ArrangerCellClass string `yaml:"arrangerCellClass,omitempty"`
}

// DefaultSchema returns the markers used by ninsheetmusic.org.
func DefaultSchema() Schema {
	return Schema{
		SeriesPath:        "/browse/series",
		SeriesPrefix:      "/browse/series/",
		GameClass:         "game",
		HeadingTag:        "h3",
		SheetRowTag:       "li",
		SheetRowClass:     "tableList-row--sheet",
		SheetIDAttr:       "id",
		SheetIDPrefix:     "sheet",
		TitleCellClass:    "tableList-cell--sheetTitle",
		ArrangerCellClass: "tableList-cell--sheetArranger",
	}
}

// Merge returns s with every empty field taken from defaults.
func (s Schema) Merge(defaults Schema) Schema {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Schema{
		SeriesPath:        pick(s.SeriesPath, defaults.SeriesPath),
		SeriesPrefix:      pick(s.SeriesPrefix, defaults.SeriesPrefix),
		GameClass:         pick(s.GameClass, defaults.GameClass),
		HeadingTag:        pick(s.HeadingTag, defaults.HeadingTag),
		SheetRowTag:       pick(s.SheetRowTag, defaults.SheetRowTag),
		SheetRowClass:     pick(s.SheetRowClass, defaults.SheetRowClass),
		SheetIDAttr:       pick(s.SheetIDAttr, defaults.SheetIDAttr),
		SheetIDPrefix:     pick(s.SheetIDPrefix, defaults.SheetIDPrefix),
		TitleCellClass:    pick(s.TitleCellClass, defaults.TitleCellClass),
		ArrangerCellClass: pick(s.ArrangerCellClass, defaults.ArrangerCellClass),
	}
}
