package catalog

import (
	"strconv"
	"strings"
)

// Entry is one product definition. The catalog is static and ordered; the
// storefront never mutates it. PriceText is display text and may be a
// placeholder such as "Coming soon" for entries that cannot be bought yet.
type Entry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceText   string `json:"price"`
	Image       string `json:"image"`
	Tag         string `json:"tag,omitempty"`
	ComingSoon  bool   `json:"comingSoon,omitempty"`
}

// Price returns the numeric value of PriceText. ok is false when the text
// holds no parsable number, in which case the price is 0.
func (e Entry) Price() (price float64, ok bool) {
	return ParsePrice(e.PriceText)
}

// Purchasable reports whether the entry can be added to a cart: it must
// not be flagged coming-soon and its price text must parse to a number.
func (e Entry) Purchasable() bool {
	if e.ComingSoon {
		return false
	}
	_, ok := e.Price()
	return ok
}

// ParsePrice extracts a number from display price text by dropping every
// character that is not a digit or a decimal point ("₱280" -> 280).
// Text with nothing numeric left yields (0, false).
func ParsePrice(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	stripped := b.String()
	if stripped == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(stripped, 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}

// Catalog is an ordered product list with id lookup.
type Catalog struct {
	entries []Entry
	byID    map[int]Entry
}

func New(entries []Entry) Catalog {
	byID := make(map[int]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return Catalog{entries: entries, byID: byID}
}

func (c Catalog) List() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c Catalog) Find(id int) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Default is the Kiyoto Matcha product line.
func Default() Catalog {
	return New([]Entry{
		{
			ID:          1,
			Name:        "Balcony Matcha – 100g",
			Description: "Single-serve 100g latte-grade matcha with a relaxing, citrus-forward profile for slow mornings.",
			PriceText:   "₱280",
			Image:       "/Image/Product/balc.jpg",
			Tag:         "Best Seller",
		},
		{
			ID:          2,
			Name:        "Kiyoto Matcha Set",
			Description: "New Kiyoto blends and gift-ready sets are brewing. Stay tuned for our next 100g creations.",
			PriceText:   "Coming soon",
			Image:       "/Image/Product/bg.jpg",
			ComingSoon:  true,
		},
	})
}
