package usecase

import "context"

type IngestUC interface {
	// RunScrape запускает скрейп одного или всех источников
	// и записывает нормализованный каталог в хранилище.
	RunScrape(ctx context.Context, req *RunScrapeReq) (*RunScrapeRes, error)

	// IndexCatalog прогоняет каталог через эмбеддер и записывает точки в индекс.
	IndexCatalog(ctx context.Context, req *IndexCatalogReq) (*IndexCatalogRes, error)
}

type RecommendUC interface {
	// Complementary возвращает ранжированные дополняющие товары к опорному.
	Complementary(ctx context.Context, req *ComplementaryReq) ([]RankedItem, error)

	// Browse возвращает товары каталога без семантического запроса.
	// Режим нерейтинговый: поиск идёт по случайному вектору, score не осмыслен.
	Browse(ctx context.Context, req *BrowseReq) ([]RankedItem, error)

	// SearchByText ищет товары по текстовому запросу в общем
	// с изображениями векторном пространстве.
	SearchByText(ctx context.Context, req *TextSearchReq) ([]RankedItem, error)
}

type TryOnUC interface {
	TryOn(ctx context.Context, req *TryOnReq) (*TryOnRes, error)
}
