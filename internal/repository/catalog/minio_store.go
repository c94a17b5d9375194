package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// MinioStore хранит каталог в бакете MinIO: объект "<source>.json" на источник.
// Семантика идентична FileStore, меняется только носитель.
type MinioStore struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewMinioStore(mc *minio.Client, cfg *cfg.MinIOCfg) *MinioStore {
	return &MinioStore{
		mc:  mc,
		cfg: cfg,
	}
}

func (m *MinioStore) Save(ctx context.Context, source string, items []domain.CatalogItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	_, err = m.mc.PutObject(ctx, m.cfg.BucketName, m.key(source),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (m *MinioStore) Load(ctx context.Context, source string) ([]domain.CatalogItem, error) {
	obj, err := m.mc.GetObject(ctx, m.cfg.BucketName, m.key(source), minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var minioErr minio.ErrorResponse
		if errors.As(err, &minioErr) && minioErr.Code == minio.NoSuchKey {
			return nil, e.Wrap(source, e.ErrUnknownSource)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return items, nil
}

func (m *MinioStore) LoadAll(ctx context.Context) ([]domain.CatalogItem, error) {
	var all []domain.CatalogItem

	for obj := range m.mc.ListObjects(ctx, m.cfg.BucketName, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), obj.Err)
		}

		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}

		items, err := m.Load(ctx, strings.TrimSuffix(obj.Key, ".json"))
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
	}

	return all, nil
}

func (m *MinioStore) key(source string) string {
	return source + ".json"
}
