package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	v1Http "github.com/fitmatch-tech/catalog-backend/internal/delivery/v1/http"
	"github.com/fitmatch-tech/catalog-backend/internal/infrastructure/embedder"
	"github.com/fitmatch-tech/catalog-backend/internal/infrastructure/images"
	kafkaInfra "github.com/fitmatch-tech/catalog-backend/internal/infrastructure/kafka"
	"github.com/fitmatch-tech/catalog-backend/internal/infrastructure/tryon"
	catalogRepo "github.com/fitmatch-tech/catalog-backend/internal/repository/catalog"
	qdrantRepo "github.com/fitmatch-tech/catalog-backend/internal/repository/qdrant"
	redisRepo "github.com/fitmatch-tech/catalog-backend/internal/repository/redis"
	"github.com/fitmatch-tech/catalog-backend/internal/scraper"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/clients"
	"github.com/fitmatch-tech/catalog-backend/pkg/closer"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const initTimeout = 10 * time.Second

// App собирает зависимости приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	log    logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		log:    log,
		closer: closer.NewCloser(0),
	}

	initCtx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureCollection(initCtx, qdrantClient); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		return qdrantClient.Client.Close()
	})

	redisClient, err := clients.NewRedisClient(initCtx, cfg.Redis)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		return redisClient.Close()
	})

	store, err := a.initCatalogStore(initCtx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	producer := kafkaInfra.NewProducer(cfg.Kafka, log)
	if err := producer.EnsureTopic(initCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	registry := scraper.NewRegistry(
		scraper.NewRavenScraper(cfg.Scraper, log),
		scraper.NewMatimliScraper(cfg.Scraper, log),
		scraper.NewTerminalXScraper(cfg.Scraper, log),
	)

	pointRepo := qdrantRepo.NewPointRepo(qdrantClient.Client, cfg.Qdrant)
	cacheRepo := redisRepo.NewCacheRepo(redisClient, cfg.Redis)
	embedderInfra := embedder.NewEmbedder(cfg.Embedder, log)
	fetcher := images.NewFetcher(cfg.Scraper)
	tryonInfra := tryon.NewClient(cfg.TryOn)

	ingestUC := usecase.NewIngestUseCase(registry, store, pointRepo, embedderInfra,
		fetcher, producer, cacheRepo, cfg, log)
	recommendUC := usecase.NewRecommendUseCase(pointRepo, embedderInfra, cacheRepo, log)
	tryonUC := usecase.NewTryOnUseCase(tryonInfra)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(ingestUC, recommendUC, tryonUC)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add(func(ctx context.Context) error {
		return a.httpSrv.Stop(ctx)
	})

	return a, nil
}

// initCatalogStore выбирает бэкенд хранилища каталога по конфигурации.
func (a *App) initCatalogStore(ctx context.Context) (usecase.CatalogStore, error) {
	if a.cfg.Catalog.Backend == "s3" {
		minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio); err != nil {
			return nil, err
		}

		return catalogRepo.NewMinioStore(minioClient, a.cfg.Minio), nil
	}

	return catalogRepo.NewFileStore(a.cfg.Catalog.Dir)
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки
// или фатальной ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.log.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.log.Infof("received shutdown signal, stopping gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.log.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	} else {
		a.log.Infof("application shutdown complete")
	}

	return appErr
}
