package redis

import (
	"testing"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

func TestRankedModelsRoundTrip(t *testing.T) {
	price, _ := decimal.NewFromString("79.90")
	original := []usecase.RankedItem{
		usecase.NewRankedItem(*domain.NewCatalogItem("matimli", "101", "חצאית מידי", price, "ILS",
			domain.CategoryLowerBody, "https://cdn.example/101.jpg", "https://example/p/101"), 0.87),
	}

	restored, err := fromModels(toModels(original))
	if err != nil {
		t.Fatalf("fromModels: %v", err)
	}

	if len(restored) != 1 {
		t.Fatalf("expected 1 item, got %d", len(restored))
	}

	got, want := restored[0], original[0]
	if got.Item.ID != want.Item.ID || got.Item.Name != want.Item.Name {
		t.Errorf("item = %+v, want %+v", got.Item, want.Item)
	}
	if !got.Item.Price.Equal(want.Item.Price) {
		t.Errorf("price = %s, want %s", got.Item.Price, want.Item.Price)
	}
	if got.Item.Category != domain.CategoryLowerBody {
		t.Errorf("category = %q, want lower_body", got.Item.Category)
	}
	if got.Score != want.Score {
		t.Errorf("score = %v, want %v", got.Score, want.Score)
	}
}

func TestFromModelsBadPrice(t *testing.T) {
	if _, err := fromModels([]rankedItemModel{{ID: "raven:1", Price: "not-a-price"}}); err == nil {
		t.Fatal("expected error for malformed cached price")
	}
}
