package domain

import (
	"errors"
	"testing"

	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

func testItem() *CatalogItem {
	return NewCatalogItem(
		"raven", "123", "טופ LIRUX",
		decimal.RequireFromString("189.90"), "ILS",
		CategoryUpperBody,
		"https://cdn.example.com/top.jpg",
		"https://raven.co.il/products/top-lirux",
	)
}

func TestCatalogItemID(t *testing.T) {
	item := testItem()
	if item.ID != "raven:123" {
		t.Errorf("ID = %q, want source-scoped id", item.ID)
	}
}

func TestCatalogItemValidate(t *testing.T) {
	if err := testItem().Validate(); err != nil {
		t.Fatalf("valid item rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*CatalogItem)
	}{
		{"raw category", func(i *CatalogItem) { i.Category = "חולצות נשים" }},
		{"negative price", func(i *CatalogItem) { i.Price = decimal.NewFromInt(-1) }},
		{"no image", func(i *CatalogItem) { i.ImageURL = "" }},
		{"no name", func(i *CatalogItem) { i.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testItem()
			tt.mutate(item)
			if err := item.Validate(); !errors.Is(err, e.ErrMalformedItem) {
				t.Errorf("Validate() err = %v, want ErrMalformedItem", err)
			}
		})
	}
}

func TestItemPayloadRoundTrip(t *testing.T) {
	item := testItem()

	got, err := ItemFromPayload(item.Payload())
	if err != nil {
		t.Fatalf("ItemFromPayload: %v", err)
	}

	if got.ID != item.ID || got.Source != item.Source || got.Name != item.Name {
		t.Errorf("identity fields mismatch: %+v", got)
	}

	if !got.Price.Equal(item.Price) {
		t.Errorf("price = %s, want %s", got.Price, item.Price)
	}

	if got.Category != item.Category || got.ImageURL != item.ImageURL || got.ProductURL != item.ProductURL {
		t.Errorf("payload fields mismatch: %+v", got)
	}
}
