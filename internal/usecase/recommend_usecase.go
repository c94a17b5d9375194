package usecase

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
)

const (
	// complementaryLimit — размер выдачи дополняющих товаров.
	complementaryLimit = 10

	// defaultBrowseLimit — размер страницы просмотра каталога по умолчанию.
	defaultBrowseLimit = 50

	// cacheSetTimeout — бюджет фонового прогрева кэша.
	cacheSetTimeout = 500 * time.Millisecond
)

// RecommendUseCase отвечает на запросы ретривала: дополняющие товары,
// просмотр каталога и текстовый поиск.
type RecommendUseCase struct {
	points   PointRepository
	embedder EmbedderInfra
	cache    CacheRepository
	log      logger.Logger
}

func NewRecommendUseCase(points PointRepository, embedder EmbedderInfra,
	cache CacheRepository, log logger.Logger) *RecommendUseCase {
	return &RecommendUseCase{
		points:   points,
		embedder: embedder,
		cache:    cache,
		log:      log,
	}
}

// Complementary возвращает до complementaryLimit товаров, дополняющих опорный.
// Опорный товар и явно исключённые id никогда не попадают в выдачу.
func (uc *RecommendUseCase) Complementary(ctx context.Context, req *ComplementaryReq) ([]RankedItem, error) {
	if req.ItemID == "" {
		return nil, e.Wrap("item id", e.ErrMissingFields)
	}

	for _, c := range req.Categories {
		if !c.Valid() {
			return nil, e.Wrap(string(c), e.ErrInvalidCategory)
		}
	}

	key := complementaryKey(req)
	if cached, ok, err := uc.cache.GetRanked(ctx, key); err == nil && ok {
		return cached, nil
	} else if err != nil {
		uc.log.Warnf("cache lookup failed: %v", err)
	}

	// Несуществующий опорный товар — ошибка запроса, до обращения к поиску.
	point, err := uc.points.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	excludeIDs := make([]string, 0, len(req.ExcludeIDs)+1)
	excludeIDs = append(excludeIDs, req.ItemID)
	excludeIDs = append(excludeIDs, req.ExcludeIDs...)

	ranked, err := uc.points.Search(ctx, NewSearchPointsReq(point.Vector, req.Categories, excludeIDs, complementaryLimit))
	if err != nil {
		return nil, err
	}

	go func() {
		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheSetTimeout)
		defer cancel()

		if err := uc.cache.SetRanked(setCtx, key, ranked); err != nil {
			uc.log.Warnf("cache set failed: %v", err)
		}
	}()

	return ranked, nil
}

// Browse возвращает страницу каталога без опорного товара.
// Запрос идёт по случайному единичному вектору, поэтому порядок
// результатов произволен, а score не несёт смысла.
func (uc *RecommendUseCase) Browse(ctx context.Context, req *BrowseReq) ([]RankedItem, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultBrowseLimit
	}

	var categories []domain.Category
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, e.Wrap(string(*req.Category), e.ErrInvalidCategory)
		}
		categories = []domain.Category{*req.Category}
	}

	probe, err := randomVector(domain.VectorSize)
	if err != nil {
		return nil, err
	}

	return uc.points.Search(ctx, NewSearchPointsReq(probe, categories, nil, limit))
}

// SearchByText ищет товары по текстовому описанию в общем
// с изображениями векторном пространстве.
func (uc *RecommendUseCase) SearchByText(ctx context.Context, req *TextSearchReq) ([]RankedItem, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, e.ErrEmptyQuery
	}

	for _, c := range req.Categories {
		if !c.Valid() {
			return nil, e.Wrap(string(c), e.ErrInvalidCategory)
		}
	}

	limit := req.Limit
	if limit == 0 {
		limit = complementaryLimit
	}

	vector, err := uc.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	return uc.points.Search(ctx, NewSearchPointsReq(vector, req.Categories, nil, limit))
}

// complementaryKey строит ключ кэша выдачи: опорный товар,
// фильтр категорий и исключённые id полностью определяют ответ.
func complementaryKey(req *ComplementaryReq) string {
	parts := make([]string, 0, 3)
	parts = append(parts, req.ItemID)

	categories := make([]string, 0, len(req.Categories))
	for _, c := range req.Categories {
		categories = append(categories, string(c))
	}
	parts = append(parts, strings.Join(categories, ","))
	parts = append(parts, strings.Join(req.ExcludeIDs, ","))

	return strings.Join(parts, "|")
}

// randomVector возвращает случайный единичный вектор заданной размерности.
func randomVector(size int) (domain.Vector, error) {
	v := make(domain.Vector, size)
	for i := range v {
		v[i] = float32(rand.NormFloat64())
	}

	return v.Normalized()
}
