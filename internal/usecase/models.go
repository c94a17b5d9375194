package usecase

import (
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
)

// INGEST

// RunScrapeReq — запрос на скрейп каталога.
// Пустой Source означает все зарегистрированные источники.
// Limit > 0 ограничивает число записей на источник (режим smoke-теста).
type RunScrapeReq struct {
	Source string
	Limit  int
}

// SourceReport — итог прогона одного адаптера.
// ItemsDropped — товары, отброшенные адаптером при нормализации.
type SourceReport struct {
	Source       string
	ItemsWritten int
	ItemsDropped int
	Failed       bool
	Error        string
}

// RunScrapeRes — сводка по всем адаптерам прогона.
type RunScrapeRes struct {
	Reports      []SourceReport
	ItemsWritten int
}

// IndexCatalogReq — запрос на индексацию каталога.
// Пустой Source означает все источники; Recreate пересоздаёт коллекцию
// (деструктивно, только по явному запросу).
type IndexCatalogReq struct {
	Source   string
	Recreate bool
}

// IndexCatalogRes — итог индексации: сколько точек записано
// и сколько записей пропущено из-за ошибок изображений/эмбеддингов.
type IndexCatalogRes struct {
	Indexed int
	Skipped int
}

// CatalogRefreshedReq — событие завершения прогона по источнику.
type CatalogRefreshedReq struct {
	Source       string
	ItemsWritten int
	Errors       int
}

// RETRIEVAL

// ComplementaryReq — запрос дополняющих товаров к опорному.
type ComplementaryReq struct {
	ItemID     string
	Categories []domain.Category
	ExcludeIDs []string
}

// BrowseReq — просмотр каталога без опорного товара.
type BrowseReq struct {
	Category *domain.Category
	Limit    uint64
}

// TextSearchReq — текстовый поиск по каталогу.
type TextSearchReq struct {
	Query      string
	Categories []domain.Category
	Limit      uint64
}

// RankedItem — запись каталога со score косинусной близости.
type RankedItem struct {
	Item  domain.CatalogItem
	Score float32
}

// SearchPointsReq — запрос к векторному индексу.
type SearchPointsReq struct {
	Vector     domain.Vector
	Categories []domain.Category
	ExcludeIDs []string
	Limit      uint64
}

// TRY-ON

// TryOnReq — запрос генеративной примерки.
type TryOnReq struct {
	PersonImage  []byte
	GarmentImage []byte
	Description  string
	Category     domain.Category
}

type TryOnRes struct {
	Image []byte
}

// MAPPERS

func NewRunScrapeReq(source string, limit int) *RunScrapeReq {
	return &RunScrapeReq{
		Source: source,
		Limit:  limit,
	}
}

func NewIndexCatalogReq(source string, recreate bool) *IndexCatalogReq {
	return &IndexCatalogReq{
		Source:   source,
		Recreate: recreate,
	}
}

func NewComplementaryReq(itemID string, categories []domain.Category, excludeIDs []string) *ComplementaryReq {
	return &ComplementaryReq{
		ItemID:     itemID,
		Categories: categories,
		ExcludeIDs: excludeIDs,
	}
}

func NewSearchPointsReq(vector domain.Vector, categories []domain.Category,
	excludeIDs []string, limit uint64) *SearchPointsReq {
	return &SearchPointsReq{
		Vector:     vector,
		Categories: categories,
		ExcludeIDs: excludeIDs,
		Limit:      limit,
	}
}

func NewRankedItem(item domain.CatalogItem, score float32) RankedItem {
	return RankedItem{
		Item:  item,
		Score: score,
	}
}

func NewCatalogRefreshedReq(source string, itemsWritten, errors int) *CatalogRefreshedReq {
	return &CatalogRefreshedReq{
		Source:       source,
		ItemsWritten: itemsWritten,
		Errors:       errors,
	}
}

func NewTryOnReq(person, garment []byte, description string, category domain.Category) *TryOnReq {
	return &TryOnReq{
		PersonImage:  person,
		GarmentImage: garment,
		Description:  description,
		Category:     category,
	}
}
