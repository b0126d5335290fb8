package catalog

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text  string
		price float64
		ok    bool
	}{
		{"₱280", 280, true},
		{"₱1299.50", 1299.50, true},
		{"280", 280, true},
		{"$ 12.00", 12, true},
		{"Coming soon", 0, false},
		{"", 0, false},
		{"TBD", 0, false},
		{"2.8.0", 0, false},
	}

	for _, tt := range tests {
		price, ok := ParsePrice(tt.text)
		if ok != tt.ok {
			t.Errorf("ParsePrice(%q): expected ok=%v, got %v", tt.text, tt.ok, ok)
		}
		if price != tt.price {
			t.Errorf("ParsePrice(%q): expected %v, got %v", tt.text, tt.price, price)
		}
	}
}

func TestPurchasable(t *testing.T) {
	purchasable := Entry{ID: 1, Name: "Balcony Matcha", PriceText: "₱280"}
	if !purchasable.Purchasable() {
		t.Error("entry with a numeric price should be purchasable")
	}

	comingSoon := Entry{ID: 2, Name: "Kiyoto Set", PriceText: "₱300", ComingSoon: true}
	if comingSoon.Purchasable() {
		t.Error("coming-soon entry must not be purchasable even with a numeric price")
	}

	placeholder := Entry{ID: 3, Name: "Mystery", PriceText: "Coming soon"}
	if placeholder.Purchasable() {
		t.Error("entry with placeholder price text must not be purchasable")
	}
}

func TestCatalogLookup(t *testing.T) {
	cat := Default()

	e, ok := cat.Find(1)
	if !ok {
		t.Fatal("expected to find product 1")
	}
	if !e.Purchasable() {
		t.Error("product 1 should be purchasable")
	}
	if price, _ := e.Price(); price != 280 {
		t.Errorf("product 1: expected price 280, got %v", price)
	}

	e, ok = cat.Find(2)
	if !ok {
		t.Fatal("expected to find product 2")
	}
	if e.Purchasable() {
		t.Error("product 2 is coming soon and must not be purchasable")
	}

	if _, ok := cat.Find(99); ok {
		t.Error("unknown id must not resolve")
	}

	list := cat.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}

	// List hands out a copy; mutating it must not leak into the catalog.
	list[0].Name = "changed"
	if e, _ := cat.Find(1); e.Name == "changed" {
		t.Error("List must not expose the catalog's backing array")
	}
}
