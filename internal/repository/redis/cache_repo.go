package redis

import (
	"context"
	"encoding/json"
	"errors"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/redis/go-redis/v9"
)

const rankedKeyPrefix = "ranked:"

// CacheRepo кэширует ранжированные выдачи в Redis с TTL из конфигурации.
type CacheRepo struct {
	client *redis.Client
	cfg    *config.RedisCfg
}

func NewCacheRepo(client *redis.Client, cfg *config.RedisCfg) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
	}
}

func (r *CacheRepo) GetRanked(ctx context.Context, key string) ([]usecase.RankedItem, bool, error) {
	raw, err := r.client.Get(ctx, rankedKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []rankedItemModel
	if err := json.Unmarshal(raw, &models); err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := fromModels(models)
	if err != nil {
		return nil, false, err
	}

	return items, true, nil
}

func (r *CacheRepo) SetRanked(ctx context.Context, key string, items []usecase.RankedItem) error {
	raw, err := json.Marshal(toModels(items))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Set(ctx, rankedKeyPrefix+key, raw, r.cfg.ResultTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Flush сбрасывает все кэшированные выдачи. Вызывается после переиндексации,
// чтобы старые рекомендации не пережили обновление каталога.
func (r *CacheRepo) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, rankedKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
