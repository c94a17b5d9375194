package scraper

import (
	"sync"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
)

// runState — рабочее состояние одного прохода адаптера:
// набор встреченных нативных id и собранные записи.
// Область видимости — одно обращение ScrapeAll; между адаптерами
// состояние не разделяется.
type runState struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	items   []domain.CatalogItem
	dropped int
}

func newRunState() *runState {
	return &runState{seen: make(map[string]struct{})}
}

// claim отмечает нативный id; false — товар уже встречался в этом проходе.
// Товар, попавший в два листинга, остаётся под категорией первой встречи.
func (s *runState) claim(nativeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[nativeID]; ok {
		return false
	}

	s.seen[nativeID] = struct{}{}
	return true
}

func (s *runState) append(item domain.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// drop учитывает товар, не прошедший нормализацию.
func (s *runState) drop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped++
}

func (s *runState) result() ScrapeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScrapeResult{
		Items:   s.items,
		Dropped: s.dropped,
	}
}
