package qdrant

import (
	"context"
	"fmt"
	"sync/atomic"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

// PointRepo хранит точки каталога (вектор + payload) в коллекции Qdrant.
type PointRepo struct {
	client *qdrant.Client
	cfg    *config.QdrantCfg
	ready  atomic.Bool
}

func NewPointRepo(client *qdrant.Client, cfg *config.QdrantCfg) *PointRepo {
	return &PointRepo{
		client: client,
		cfg:    cfg,
	}
}

// ensureReady проверяет существование коллекции один раз и запоминает результат.
func (r *PointRepo) ensureReady(ctx context.Context) error {
	if r.ready.Load() {
		return nil
	}

	exists, err := r.client.CollectionExists(ctx, r.cfg.CollectionName)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if !exists {
		return e.ErrCollectionNotReady
	}

	r.ready.Store(true)

	return nil
}

func (r *PointRepo) Upsert(ctx context.Context, points []domain.IndexPoint) error {
	if err := r.ensureReady(ctx); err != nil {
		return err
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		if uint64(len(p.Vector)) != r.cfg.VectorSize {
			return e.Wrap(fmt.Sprintf("point %d has %d dims, collection expects %d",
				p.ID, len(p.Vector), r.cfg.VectorSize), e.ErrVectorSizeMismatch)
		}

		qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		})
	}

	_, err := r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.cfg.CollectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Search возвращает ближайшие к запросу точки, отсортированные по убыванию score.
func (r *PointRepo) Search(ctx context.Context, req *usecase.SearchPointsReq) ([]usecase.RankedItem, error) {
	if err := r.ensureReady(ctx); err != nil {
		return nil, err
	}

	results, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.cfg.CollectionName,
		Query:          qdrant.NewQuery(req.Vector...),
		Filter:         buildFilter(req.Categories, req.ExcludeIDs),
		Limit:          qdrant.PtrOf(req.Limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ranked := make([]usecase.RankedItem, 0, len(results))
	for _, point := range results {
		item, err := domain.ItemFromPayload(payloadToMap(point.GetPayload()))
		if err != nil {
			continue
		}

		ranked = append(ranked, usecase.NewRankedItem(*item, point.GetScore()))
	}

	return ranked, nil
}

// GetByID возвращает точку каталога по исходному идентификатору товара.
func (r *PointRepo) GetByID(ctx context.Context, itemID string) (*domain.IndexPoint, error) {
	if err := r.ensureReady(ctx); err != nil {
		return nil, err
	}

	results, err := r.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: r.cfg.CollectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(domain.PointID(itemID))},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(results) == 0 {
		return nil, e.ErrItemNotFound
	}

	point := results[0]

	return &domain.IndexPoint{
		ID:      point.GetId().GetNum(),
		Vector:  point.GetVectors().GetVector().GetData(),
		Payload: payloadToMap(point.GetPayload()),
	}, nil
}

// Recreate пересоздаёт коллекцию с нуля: все ранее проиндексированные точки теряются.
func (r *PointRepo) Recreate(ctx context.Context) error {
	if err := r.client.DeleteCollection(ctx, r.cfg.CollectionName); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.cfg.CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     r.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	r.ready.Store(true)

	return nil
}

// buildFilter собирает фильтр поиска: категории попадают в must,
// исключаемые товары — в must_not. Возвращает nil, если ограничений нет.
func buildFilter(categories []domain.Category, excludeIDs []string) *qdrant.Filter {
	if len(categories) == 0 && len(excludeIDs) == 0 {
		return nil
	}

	filter := &qdrant.Filter{}

	if len(categories) > 0 {
		keywords := make([]string, 0, len(categories))
		for _, c := range categories {
			keywords = append(keywords, c.String())
		}

		filter.Must = []*qdrant.Condition{
			qdrant.NewMatchKeywords("category", keywords...),
		}
	}

	if len(excludeIDs) > 0 {
		filter.MustNot = []*qdrant.Condition{
			qdrant.NewMatchKeywords("id", excludeIDs...),
		}
	}

	return filter
}
