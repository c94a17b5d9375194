package usecase

import (
	"context"
	"errors"
	"sync"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/scraper"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
)

func testConfig() *config.Config {
	return &config.Config{
		Scraper:  &config.ScraperCfg{SourceWorkers: 2, CategoryWorkers: 2},
		Embedder: &config.EmbedderCfg{MaxConcurrent: 2, MaxBatch: 8},
	}
}

func testItem(source, nativeID string, category domain.Category) domain.CatalogItem {
	price, _ := decimal.NewFromString("100")
	return *domain.NewCatalogItem(source, nativeID, "item "+nativeID, price, "ILS",
		category, "https://cdn.example/"+nativeID+".jpg", "https://example/p/"+nativeID)
}

// fakeScraper отдаёт заранее заданные записи либо ошибку.
type fakeScraper struct {
	source  string
	items   []domain.CatalogItem
	dropped int
	err     error
}

func (f *fakeScraper) Source() string { return f.source }

func (f *fakeScraper) ScrapeAll(ctx context.Context) (scraper.ScrapeResult, error) {
	return scraper.ScrapeResult{Items: f.items, Dropped: f.dropped}, f.err
}

func (f *fakeScraper) MapCategory(raw string, def domain.Category) domain.Category {
	return def
}

type fakeRegistry struct {
	scrapers map[string]scraper.Scraper
	order    []string
}

func newFakeRegistry(scrapers ...scraper.Scraper) *fakeRegistry {
	r := &fakeRegistry{scrapers: make(map[string]scraper.Scraper)}
	for _, s := range scrapers {
		r.scrapers[s.Source()] = s
		r.order = append(r.order, s.Source())
	}
	return r
}

func (r *fakeRegistry) Get(name string) (scraper.Scraper, error) {
	s, ok := r.scrapers[name]
	if !ok {
		return nil, e.Wrap(name, e.ErrUnknownSource)
	}
	return s, nil
}

func (r *fakeRegistry) Sources() []string { return r.order }

type fakeStore struct {
	mu    sync.Mutex
	saved map[string][]domain.CatalogItem
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]domain.CatalogItem)}
}

func (s *fakeStore) Save(ctx context.Context, source string, items []domain.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[source] = items
	return nil
}

func (s *fakeStore) Load(ctx context.Context, source string) ([]domain.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.saved[source]
	if !ok {
		return nil, e.Wrap(source, e.ErrUnknownSource)
	}
	return items, nil
}

func (s *fakeStore) LoadAll(ctx context.Context) ([]domain.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.CatalogItem
	for _, items := range s.saved {
		all = append(all, items...)
	}
	return all, nil
}

type fakePoints struct {
	mu         sync.Mutex
	upserted   []domain.IndexPoint
	recreated  bool
	getPoint   *domain.IndexPoint
	getErr     error
	searchReqs []*SearchPointsReq
	searchRes  []RankedItem
}

func (p *fakePoints) Upsert(ctx context.Context, points []domain.IndexPoint) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.upserted = append(p.upserted, points...)
	return nil
}

func (p *fakePoints) Search(ctx context.Context, req *SearchPointsReq) ([]RankedItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.searchReqs = append(p.searchReqs, req)
	return p.searchRes, nil
}

func (p *fakePoints) GetByID(ctx context.Context, itemID string) (*domain.IndexPoint, error) {
	if p.getErr != nil {
		return nil, p.getErr
	}
	return p.getPoint, nil
}

func (p *fakePoints) Recreate(ctx context.Context) error {
	p.recreated = true
	return nil
}

type fakeEmbedder struct {
	vector domain.Vector
	err    error
}

func (f *fakeEmbedder) EmbedImage(ctx context.Context, image []byte) (domain.Vector, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedImages(ctx context.Context, images [][]byte) ([]domain.Vector, error) {
	out := make([]domain.Vector, 0, len(images))
	for range images {
		v, err := f.EmbedImage(ctx, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) (domain.Vector, error) {
	return f.EmbedImage(ctx, nil)
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([]domain.Vector, error) {
	out := make([]domain.Vector, 0, len(texts))
	for range texts {
		v, err := f.EmbedText(ctx, "")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeFetcher struct {
	failURLs map[string]bool
}

func (f *fakeFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	if f.failURLs[url] {
		return nil, errors.New("image unavailable")
	}
	return []byte{0xFF, 0xD8}, nil
}

type fakeProducer struct {
	mu     sync.Mutex
	events []*CatalogRefreshedReq
}

func (p *fakeProducer) CatalogRefreshed(ctx context.Context, req *CatalogRefreshedReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, req)
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]RankedItem
	flushed bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]RankedItem)}
}

func (c *fakeCache) GetRanked(ctx context.Context, key string) ([]RankedItem, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, ok := c.data[key]
	return items, ok, nil
}

func (c *fakeCache) SetRanked(ctx context.Context, key string, items []RankedItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = items
	return nil
}

func (c *fakeCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]RankedItem)
	c.flushed = true
	return nil
}
