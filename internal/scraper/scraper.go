package scraper

import (
	"context"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
)

// ScrapeResult — итог прохода адаптера: собранные записи
// и число товаров, отброшенных при нормализации (нет картинки,
// битая цена, невалидная запись).
type ScrapeResult struct {
	Items   []domain.CatalogItem
	Dropped int
}

// Scraper — контракт адаптера источника.
// Каждый ритейлер реализует полный проход по своим листингам
// и отображение сырого текста товара в таксономию каталога.
type Scraper interface {
	// Source возвращает имя источника, которым неймспейсятся id товаров.
	Source() string

	// ScrapeAll обходит все листинги источника и возвращает нормализованные
	// записи каталога, дедуплицированные по нативному id в рамках прохода.
	// Ошибка страницы обрезает пагинацию, но не весь проход: возвращается
	// всё, что успели собрать. Ошибка возвращается только при отмене контекста.
	ScrapeAll(ctx context.Context) (ScrapeResult, error)

	// MapCategory классифицирует сырой текст товара, def — категория
	// листинга, из которого товар пришёл.
	MapCategory(raw string, def domain.Category) domain.Category
}
