package usecase

import (
	"context"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/scraper"
)

// EmbedderInfra — клиент сервиса эмбеддингов. Изображения и тексты
// кодируются в общее векторное пространство и сравнимы по косинусу.
// Батчевые вызовы эквивалентны серии одиночных; каждый вектор
// нормализован по своей L2-норме.
type EmbedderInfra interface {
	EmbedImage(ctx context.Context, image []byte) (domain.Vector, error)
	EmbedImages(ctx context.Context, images [][]byte) ([]domain.Vector, error)
	EmbedText(ctx context.Context, text string) (domain.Vector, error)
	EmbedTexts(ctx context.Context, texts []string) ([]domain.Vector, error)
}

// ImageFetcher скачивает изображение товара по URL.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// EventProducer публикует события жизненного цикла каталога.
type EventProducer interface {
	CatalogRefreshed(ctx context.Context, req *CatalogRefreshedReq) error
}

// TryOnInfra — внешний сервис генеративной примерки.
// Непрозрачный коллаборатор: принимает фото человека, фото вещи
// и описание, возвращает отрисованное изображение.
type TryOnInfra interface {
	Generate(ctx context.Context, req *TryOnReq) (*TryOnRes, error)
}

// ScraperRegistry отдаёт адаптеры источников по имени.
type ScraperRegistry interface {
	Get(name string) (scraper.Scraper, error)
	Sources() []string
}
