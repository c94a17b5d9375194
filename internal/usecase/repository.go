package usecase

import (
	"context"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
)

// PointRepository — контракт векторного индекса.
type PointRepository interface {
	// Upsert идемпотентно записывает точки: повторная запись того же
	// id товара перезаписывает ту же точку.
	Upsert(ctx context.Context, points []domain.IndexPoint) error

	// Search возвращает до Limit точек по убыванию косинусной близости.
	// Фильтры категорий и исключённых id комбинируются как AND.
	Search(ctx context.Context, req *SearchPointsReq) ([]RankedItem, error)

	// GetByID возвращает точку товара либо ErrItemNotFound.
	GetByID(ctx context.Context, itemID string) (*domain.IndexPoint, error)

	// Recreate уничтожает и заново создаёт коллекцию.
	// Деструктивно: все ранее записанные точки теряются.
	Recreate(ctx context.Context) error
}

// CatalogStore — хранилище нормализованного каталога,
// один документ на источник, замена целиком при каждом прогоне.
type CatalogStore interface {
	Save(ctx context.Context, source string, items []domain.CatalogItem) error
	Load(ctx context.Context, source string) ([]domain.CatalogItem, error)
	LoadAll(ctx context.Context) ([]domain.CatalogItem, error)
}

// CacheRepository кэширует ранжированные выдачи с TTL.
type CacheRepository interface {
	GetRanked(ctx context.Context, key string) ([]RankedItem, bool, error)
	SetRanked(ctx context.Context, key string, items []RankedItem) error
	// Flush сбрасывает все кэшированные выдачи (после переиндексации каталога).
	Flush(ctx context.Context) error
}
