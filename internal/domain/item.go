package domain

import (
	"fmt"

	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// CatalogItem описывает каноническую запись товара.
// ID глобально уникален за счёт префикса источника ("source:native_id")
// и неизменяем; повторный скрейп перезаписывает запись целиком.
type CatalogItem struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	Category   Category        `json:"category"`
	ImageURL   string          `json:"image_url"`
	ProductURL string          `json:"product_url"`
}

func NewCatalogItem(source, nativeID, name string, price decimal.Decimal, currency string,
	category Category, imageURL, productURL string) *CatalogItem {
	return &CatalogItem{
		ID:         source + ":" + nativeID,
		Source:     source,
		Name:       name,
		Price:      price,
		Currency:   currency,
		Category:   category,
		ImageURL:   imageURL,
		ProductURL: productURL,
	}
}

// Validate проверяет инварианты записи каталога.
func (i *CatalogItem) Validate() error {
	if i.ID == "" || i.Name == "" {
		return e.ErrMalformedItem
	}

	if !i.Category.Valid() {
		return e.Wrap(fmt.Sprintf("category %q", i.Category), e.ErrMalformedItem)
	}

	if i.Price.IsNegative() {
		return e.Wrap(fmt.Sprintf("price %s", i.Price), e.ErrMalformedItem)
	}

	if i.ImageURL == "" {
		return e.Wrap("image url", e.ErrMalformedItem)
	}

	return nil
}

// Payload возвращает плоское представление записи для хранения в индексе.
// Цена сериализуется строкой, чтобы не терять точность decimal.
func (i *CatalogItem) Payload() map[string]any {
	return map[string]any{
		"id":          i.ID,
		"source":      i.Source,
		"name":        i.Name,
		"price":       i.Price.String(),
		"currency":    i.Currency,
		"category":    string(i.Category),
		"image_url":   i.ImageURL,
		"product_url": i.ProductURL,
	}
}

// ItemFromPayload восстанавливает запись каталога из payload индекса.
func ItemFromPayload(payload map[string]any) (*CatalogItem, error) {
	str := func(key string) string {
		v, _ := payload[key].(string)
		return v
	}

	priceStr := str("price")
	if priceStr == "" {
		priceStr = "0"
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("payload price %q", priceStr), e.ErrMalformedItem)
	}

	item := &CatalogItem{
		ID:         str("id"),
		Source:     str("source"),
		Name:       str("name"),
		Price:      price,
		Currency:   str("currency"),
		Category:   Category(str("category")),
		ImageURL:   str("image_url"),
		ProductURL: str("product_url"),
	}

	if item.ID == "" {
		return nil, e.Wrap("payload id", e.ErrMalformedItem)
	}

	return item, nil
}
