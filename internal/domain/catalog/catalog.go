// Package catalog holds the immutable movie catalog loaded once at startup.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Item is a single recommendable movie. Its ID is the row position in the source.
type Item struct {
	id           int
	title        string
	genres       string
	overview     string
	combinedText string
	titleKey     string
}

// NewItem builds an item from already-defaulted field values.
// combinedText joins title, genres and overview with single spaces;
// titleKey lowercases the title and nothing else.
func NewItem(id int, title, genres, overview string) Item {
	return Item{
		id:           id,
		title:        title,
		genres:       genres,
		overview:     overview,
		combinedText: title + " " + genres + " " + overview,
		titleKey:     strings.ToLower(title),
	}
}

// ID returns the 0-based row position.
func (i *Item) ID() int { return i.id }

// Title returns the display title.
func (i *Item) Title() string { return i.title }

// Genres returns the raw genres field.
func (i *Item) Genres() string { return i.genres }

// Overview returns the plot overview.
func (i *Item) Overview() string { return i.overview }

// CombinedText returns the searchable text blob.
func (i *Item) CombinedText() string { return i.combinedText }

// TitleKey returns the lowercased title used for matching.
func (i *Item) TitleKey() string { return i.titleKey }

// Catalog is the ordered item sequence. Order defines every index used elsewhere.
type Catalog struct {
	items       []Item
	fingerprint string
}

// New creates a catalog from items in source order. Item IDs are reassigned
// to their positions so they always agree with indexes.
func New(items []Item) *Catalog {
	owned := make([]Item, len(items))
	h := sha256.New()
	for i, it := range items {
		owned[i] = NewItem(i, it.title, it.genres, it.overview)
		h.Write([]byte(it.combinedText))
		h.Write([]byte{0})
	}
	return &Catalog{
		items:       owned,
		fingerprint: hex.EncodeToString(h.Sum(nil))[:16],
	}
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Item returns the item at index i. Callers must keep i within [0, Len()).
func (c *Catalog) Item(i int) Item { return c.items[i] }

// Title returns the title at index i.
func (c *Catalog) Title(i int) string { return c.items[i].title }

// TitleKey returns the title key at index i.
func (c *Catalog) TitleKey(i int) string { return c.items[i].titleKey }

// CombinedTexts returns the text corpus in catalog order.
func (c *Catalog) CombinedTexts() []string {
	out := make([]string, len(c.items))
	for i := range c.items {
		out[i] = c.items[i].combinedText
	}
	return out
}

// Fingerprint identifies the catalog contents. Two catalogs built from the
// same rows in the same order share a fingerprint.
func (c *Catalog) Fingerprint() string { return c.fingerprint }
