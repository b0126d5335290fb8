// Package cart holds the in-session shopping cart: an ordered set of line
// items with at most one line per product, derived totals, and a checkout
// that freezes the lines into a receipt and resets the cart.
package cart

import (
	"time"

	"github.com/kiyotomatcha/storefront/random"
	"github.com/kiyotomatcha/storefront/validate"
)

// Line is one product's entry in the cart. Title, UnitPrice and Image are
// snapshots taken from the catalog when the product is first added; they do
// not follow later catalog changes.
type Line struct {
	ProductID int     `json:"id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Receipt is the immutable outcome of a checkout. Its lines and total are
// deep copies frozen at checkout time; mutating the live cart afterwards
// does not touch them. Receipts are display-only and never persisted.
type Receipt struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	Lines     []Line    `json:"items"`
	Total     float64   `json:"total"`
}

const refPrefix = "KMT-"

// refDigits keeps references short enough to read over the phone. They are
// best-effort unique: a display aid, not an order key.
const refDigits = 6

const dateLayout = "Jan 02, 2006, 03:04 PM"

func newReceipt(lines []Line, total float64, now time.Time) Receipt {
	frozen := make([]Line, len(lines))
	copy(frozen, lines)

	return Receipt{
		ID:        validate.GenerateID(),
		Reference: refPrefix + random.Digits(refDigits),
		Date:      now.Format(dateLayout),
		CreatedAt: now,
		Lines:     frozen,
		Total:     total,
	}
}
