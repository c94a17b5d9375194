package redis

import (
	"fmt"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

func toModels(items []usecase.RankedItem) []rankedItemModel {
	models := make([]rankedItemModel, 0, len(items))
	for _, ranked := range items {
		models = append(models, rankedItemModel{
			ID:         ranked.Item.ID,
			Source:     ranked.Item.Source,
			Name:       ranked.Item.Name,
			Price:      ranked.Item.Price.String(),
			Currency:   ranked.Item.Currency,
			Category:   string(ranked.Item.Category),
			ImageURL:   ranked.Item.ImageURL,
			ProductURL: ranked.Item.ProductURL,
			Score:      ranked.Score,
		})
	}

	return models
}

func fromModels(models []rankedItemModel) ([]usecase.RankedItem, error) {
	items := make([]usecase.RankedItem, 0, len(models))
	for _, m := range models {
		price, err := decimal.NewFromString(m.Price)
		if err != nil {
			return nil, e.Wrap(fmt.Sprintf("cached price %q", m.Price), e.ErrMalformedItem)
		}

		items = append(items, usecase.NewRankedItem(domain.CatalogItem{
			ID:         m.ID,
			Source:     m.Source,
			Name:       m.Name,
			Price:      price,
			Currency:   m.Currency,
			Category:   domain.Category(m.Category),
			ImageURL:   m.ImageURL,
			ProductURL: m.ProductURL,
		}, m.Score))
	}

	return items, nil
}
