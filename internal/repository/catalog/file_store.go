package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// FileStore хранит нормализованный каталог на диске:
// по одному JSON-документу на источник, имя файла — имя источника.
// Save перезаписывает документ источника целиком, без инкрементального слияния.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Save(ctx context.Context, source string, items []domain.CatalogItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.WriteFile(f.path(source), data, 0o644); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (f *FileStore) Load(ctx context.Context, source string) ([]domain.CatalogItem, error) {
	data, err := os.ReadFile(f.path(source))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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

// LoadAll читает документы всех источников и возвращает единый список.
func (f *FileStore) LoadAll(ctx context.Context) ([]domain.CatalogItem, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var all []domain.CatalogItem
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		source := strings.TrimSuffix(entry.Name(), ".json")
		items, err := f.Load(ctx, source)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
	}

	return all, nil
}

func (f *FileStore) path(source string) string {
	return filepath.Join(f.dir, source+".json")
}
