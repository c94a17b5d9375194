package qdrant

import (
	"testing"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/qdrant/go-client/qdrant"
	"github.com/shopspring/decimal"
)

func TestBuildFilterEmpty(t *testing.T) {
	if filter := buildFilter(nil, nil); filter != nil {
		t.Fatalf("expected nil filter, got %+v", filter)
	}
}

func TestBuildFilterCategories(t *testing.T) {
	filter := buildFilter([]domain.Category{domain.CategoryShoes, domain.CategoryDresses}, nil)
	if filter == nil {
		t.Fatal("expected non-nil filter")
	}

	if len(filter.Must) != 1 {
		t.Fatalf("expected 1 must condition, got %d", len(filter.Must))
	}
	if len(filter.MustNot) != 0 {
		t.Fatalf("expected no must_not conditions, got %d", len(filter.MustNot))
	}

	field := filter.Must[0].GetField()
	if field.GetKey() != "category" {
		t.Errorf("must condition key = %q, want category", field.GetKey())
	}

	keywords := field.GetMatch().GetKeywords().GetStrings()
	if len(keywords) != 2 || keywords[0] != "shoes" || keywords[1] != "dresses" {
		t.Errorf("unexpected keywords %v", keywords)
	}
}

func TestBuildFilterExcludeIDs(t *testing.T) {
	filter := buildFilter(nil, []string{"raven:1", "matimli:7"})
	if filter == nil {
		t.Fatal("expected non-nil filter")
	}

	if len(filter.Must) != 0 {
		t.Fatalf("expected no must conditions, got %d", len(filter.Must))
	}
	if len(filter.MustNot) != 1 {
		t.Fatalf("expected 1 must_not condition, got %d", len(filter.MustNot))
	}

	field := filter.MustNot[0].GetField()
	if field.GetKey() != "id" {
		t.Errorf("must_not condition key = %q, want id", field.GetKey())
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	price, _ := decimal.NewFromString("149.90")
	item := domain.NewCatalogItem("raven", "42", "שמלת ערב", price, "ILS",
		domain.CategoryDresses, "https://cdn.example/42.jpg", "https://example/p/42")

	restored, err := domain.ItemFromPayload(payloadToMap(qdrant.NewValueMap(item.Payload())))
	if err != nil {
		t.Fatalf("ItemFromPayload: %v", err)
	}

	if restored.ID != item.ID {
		t.Errorf("id = %q, want %q", restored.ID, item.ID)
	}
	if restored.Name != item.Name {
		t.Errorf("name = %q, want %q", restored.Name, item.Name)
	}
	if !restored.Price.Equal(item.Price) {
		t.Errorf("price = %s, want %s", restored.Price, item.Price)
	}
	if restored.Category != domain.CategoryDresses {
		t.Errorf("category = %q, want dresses", restored.Category)
	}
}
