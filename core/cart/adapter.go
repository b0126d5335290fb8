package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexedwards/scs/v2"
)

// slotLine mirrors Line with pointer fields so an absent field can be
// told apart from a zero value.
type slotLine struct {
	ProductID *int     `json:"id"`
	Title     *string  `json:"title"`
	UnitPrice *float64 `json:"price"`
	Image     *string  `json:"image"`
	Quantity  *int     `json:"quantity"`
}

// decodeLines parses a slot blob. The blob carries no schema version, so
// anything structurally off, including a missing field on any line, marks
// the whole blob invalid rather than partially trusting it.
func decodeLines(blob []byte) ([]Line, error) {
	if len(blob) == 0 {
		return nil, nil
	}

	var raw []slotLine
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("decoding cart slot: %w", err)
	}

	lines := make([]Line, 0, len(raw))
	seen := make(map[int]bool, len(raw))
	for i, l := range raw {
		if l.ProductID == nil || l.Title == nil || l.UnitPrice == nil || l.Image == nil || l.Quantity == nil {
			return nil, fmt.Errorf("cart slot: line %d is missing fields", i)
		}

		switch {
		case *l.ProductID <= 0:
			return nil, fmt.Errorf("cart slot: invalid product id %d", *l.ProductID)
		case *l.Quantity < 1:
			return nil, fmt.Errorf("cart slot: product %d has quantity %d", *l.ProductID, *l.Quantity)
		case *l.UnitPrice < 0:
			return nil, fmt.Errorf("cart slot: product %d has negative price", *l.ProductID)
		case seen[*l.ProductID]:
			return nil, fmt.Errorf("cart slot: duplicate line for product %d", *l.ProductID)
		}
		seen[*l.ProductID] = true

		lines = append(lines, Line{
			ProductID: *l.ProductID,
			Title:     *l.Title,
			UnitPrice: *l.UnitPrice,
			Image:     *l.Image,
			Quantity:  *l.Quantity,
		})
	}

	return lines, nil
}

func encodeLines(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// SessionSlot stores the cart blob in the visitor's session under a single
// named key, one slot per visitor. The session must already be loaded into
// the context by the session middleware.
type SessionSlot struct {
	Session *scs.SessionManager
	Key     string
}

func (s *SessionSlot) Load(ctx context.Context) ([]Line, error) {
	return decodeLines(s.Session.GetBytes(ctx, s.Key))
}

func (s *SessionSlot) Save(ctx context.Context, lines []Line) error {
	blob, err := encodeLines(lines)
	if err != nil {
		return fmt.Errorf("encoding cart slot: %w", err)
	}

	s.Session.Put(ctx, s.Key, blob)
	return nil
}

// MemorySlot keeps the blob in memory. It mirrors the slot semantics of
// SessionSlot byte for byte, which makes it the adapter of choice in tests.
type MemorySlot struct {
	Blob []byte
}

func (m *MemorySlot) Load(ctx context.Context) ([]Line, error) {
	return decodeLines(m.Blob)
}

func (m *MemorySlot) Save(ctx context.Context, lines []Line) error {
	blob, err := encodeLines(lines)
	if err != nil {
		return err
	}

	m.Blob = blob
	return nil
}
