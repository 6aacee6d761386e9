package xlsx

import (
	"strings"
	"sync"
)

// StyleID indexes the cell format table written by Save.
type StyleID int

// DefaultStyle is the id of the unstyled cell format.
const DefaultStyle StyleID = 0

// Alignment values accepted by StyleDescriptor. Empty means the
// spreadsheet default.
const (
	HAlignLeft   = "left"
	HAlignCenter = "center"
	HAlignRight  = "right"

	VAlignTop    = "top"
	VAlignCenter = "center"
	VAlignBottom = "bottom"
)

// Font defaults applied by Canonical.
const (
	DefaultFontFamily = "Calibri"
	DefaultFontSize   = 11
	GeneralFormat     = "General"
)

// StyleDescriptor is the complete visual description of a cell. It is a
// comparable value and serves directly as a map key.
type StyleDescriptor struct {
	NumberFormat string
	FontFamily   string
	FontSize     float64
	Bold         bool
	TextColor    string // RRGGBB, empty for the automatic colour
	HAlign       string
	VAlign       string
}

// Canonical returns d with defaults applied and the colour normalized, so
// that visually identical descriptors compare equal.
func (d StyleDescriptor) Canonical() StyleDescriptor {
	if d.NumberFormat == "" {
		d.NumberFormat = GeneralFormat
	}
	if d.FontFamily == "" {
		d.FontFamily = DefaultFontFamily
	}
	if d.FontSize <= 0 {
		d.FontSize = DefaultFontSize
	}
	c := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(d.TextColor), "#"))
	if len(c) == 8 {
		c = c[2:] // drop alpha
	}
	if c == "000000" {
		c = ""
	}
	d.TextColor = c
	d.HAlign = strings.ToLower(d.HAlign)
	d.VAlign = strings.ToLower(d.VAlign)
	return d
}

// StyleCache assigns small integer ids to distinct style descriptors. The
// default descriptor is always id 0. Ids are stable from assignment until
// Build, which may be called once.
type StyleCache struct {
	mu     sync.Mutex
	ids    map[StyleDescriptor]StyleID
	styles []StyleDescriptor
	built  bool
}

// NewStyleCache returns a cache holding only the default style.
func NewStyleCache() *StyleCache {
	c := &StyleCache{ids: make(map[StyleDescriptor]StyleID)}
	def := StyleDescriptor{}.Canonical()
	c.ids[def] = DefaultStyle
	c.styles = append(c.styles, def)
	return c
}

// Register returns the id of d, assigning the next id on first sight.
// Registering after Build panics with a *SequencingError.
func (c *StyleCache) Register(d StyleDescriptor) StyleID {
	d = d.Canonical()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		panic(sequencing("register style", "style table already built"))
	}
	if id, ok := c.ids[d]; ok {
		return id
	}
	id := StyleID(len(c.styles))
	c.ids[d] = id
	c.styles = append(c.styles, d)
	return id
}

// Len returns the number of distinct styles registered so far.
func (c *StyleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.styles)
}

// Build freezes the cache and returns the style table in id order.
func (c *StyleCache) Build() ([]StyleDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		return nil, sequencing("build styles", "style table already built")
	}
	c.built = true
	return append([]StyleDescriptor(nil), c.styles...), nil
}
