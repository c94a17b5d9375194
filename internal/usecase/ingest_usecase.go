package usecase

import (
	"context"
	"sync"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
)

// upsertBatchSize — сколько точек уходит в индекс одним запросом.
const upsertBatchSize = 64

// IngestUseCase реализует конвейер каталога: скрейп источников
// в хранилище и индексацию хранилища в векторный индекс.
type IngestUseCase struct {
	registry ScraperRegistry
	store    CatalogStore
	points   PointRepository
	embedder EmbedderInfra
	fetcher  ImageFetcher
	producer EventProducer
	cache    CacheRepository
	cfg      *config.Config
	log      logger.Logger
}

func NewIngestUseCase(registry ScraperRegistry, store CatalogStore, points PointRepository,
	embedder EmbedderInfra, fetcher ImageFetcher, producer EventProducer,
	cache CacheRepository, cfg *config.Config, log logger.Logger) *IngestUseCase {
	return &IngestUseCase{
		registry: registry,
		store:    store,
		points:   points,
		embedder: embedder,
		fetcher:  fetcher,
		producer: producer,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

// RunScrape прогоняет один или все адаптеры. Отказ одного источника
// не прерывает остальные: каждый адаптер изолирован в своём отчёте.
func (uc *IngestUseCase) RunScrape(ctx context.Context, req *RunScrapeReq) (*RunScrapeRes, error) {
	sources := uc.registry.Sources()
	if req.Source != "" {
		if _, err := uc.registry.Get(req.Source); err != nil {
			return nil, err
		}
		sources = []string{req.Source}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports = make([]SourceReport, len(sources))
	)

	sem := make(chan struct{}, uc.cfg.Scraper.SourceWorkers)

	for i, source := range sources {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, source string) {
			defer wg.Done()
			defer func() { <-sem }()

			report := uc.scrapeSource(ctx, source, req.Limit)

			mu.Lock()
			reports[i] = report
			mu.Unlock()
		}(i, source)
	}

	wg.Wait()

	res := &RunScrapeRes{Reports: reports}
	for _, r := range reports {
		res.ItemsWritten += r.ItemsWritten
	}

	return res, nil
}

func (uc *IngestUseCase) scrapeSource(ctx context.Context, source string, limit int) SourceReport {
	report := SourceReport{Source: source}

	adapter, err := uc.registry.Get(source)
	if err != nil {
		report.Failed = true
		report.Error = err.Error()
		return report
	}

	res, err := adapter.ScrapeAll(ctx)
	if err != nil {
		uc.log.Errorf(err, "scrape %s failed", source)
		report.Failed = true
		report.Error = err.Error()
		return report
	}

	items := res.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if err := uc.store.Save(ctx, source, items); err != nil {
		uc.log.Errorf(err, "save catalog %s failed", source)
		report.Failed = true
		report.Error = err.Error()
		return report
	}

	report.ItemsWritten = len(items)
	report.ItemsDropped = res.Dropped
	uc.log.Infof("scraped %s: %d items, %d dropped", source, len(items), res.Dropped)

	// События — сигнал для подписчиков, их отказ не роняет прогон.
	if err := uc.producer.CatalogRefreshed(ctx, NewCatalogRefreshedReq(source, len(items), res.Dropped)); err != nil {
		uc.log.Errorf(err, "publish catalog.refreshed for %s failed", source)
	}

	return report
}

// IndexCatalog прогоняет записи каталога через эмбеддер и пишет точки в индекс.
// Записи с недоступным изображением или вырожденным вектором пропускаются,
// это не ошибка всей индексации.
func (uc *IngestUseCase) IndexCatalog(ctx context.Context, req *IndexCatalogReq) (*IndexCatalogRes, error) {
	if req.Recreate {
		if err := uc.points.Recreate(ctx); err != nil {
			return nil, err
		}
	}

	var (
		items []domain.CatalogItem
		err   error
	)
	if req.Source != "" {
		items, err = uc.store.Load(ctx, req.Source)
	} else {
		items, err = uc.store.LoadAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	points, skipped := uc.embedItems(ctx, items)

	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))

		if err := uc.points.Upsert(ctx, points[start:end]); err != nil {
			return nil, e.Wrap("upsert batch", err)
		}
	}

	// Старые выдачи устарели вместе с индексом.
	if err := uc.cache.Flush(ctx); err != nil {
		uc.log.Errorf(err, "cache flush after indexing failed")
	}

	uc.log.Infof("indexed %d points, skipped %d items", len(points), skipped)

	return &IndexCatalogRes{
		Indexed: len(points),
		Skipped: skipped,
	}, nil
}

// embedItems параллельно скачивает изображения и считает эмбеддинги.
func (uc *IngestUseCase) embedItems(ctx context.Context, items []domain.CatalogItem) ([]domain.IndexPoint, int) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		points  = make([]domain.IndexPoint, 0, len(items))
		skipped int
	)

	sem := make(chan struct{}, uc.cfg.Embedder.MaxConcurrent)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			uc.log.Warnf("skipping malformed item %s: %v", item.ID, err)
			// Горутины предыдущих итераций уже пишут в skipped.
			mu.Lock()
			skipped++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(item domain.CatalogItem) {
			defer wg.Done()
			defer func() { <-sem }()

			image, err := uc.fetcher.FetchImage(ctx, item.ImageURL)
			if err != nil {
				uc.log.Warnf("skipping %s: %v", item.ID, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return
			}

			vector, err := uc.embedder.EmbedImage(ctx, image)
			if err != nil {
				uc.log.Warnf("skipping %s: %v", item.ID, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return
			}

			point := domain.NewIndexPoint(domain.PointID(item.ID), vector, item.Payload())

			mu.Lock()
			points = append(points, *point)
			mu.Unlock()
		}(item)
	}

	wg.Wait()

	return points, skipped
}
