package domain

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// IndexPoint описывает точку векторного индекса:
// числовой id, вектор и плоский payload записи каталога.
type IndexPoint struct {
	ID      uint64
	Vector  Vector
	Payload map[string]any
}

func NewIndexPoint(id uint64, vector Vector, payload map[string]any) *IndexPoint {
	return &IndexPoint{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

// PointID детерминированно отображает строковый id товара в id точки индекса.
// Десятичные id проходят как есть, остальные хэшируются xxhash64
// с маской до 63 бит. Функция фиксирована: один и тот же id товара
// всегда попадает в одну и ту же точку, поэтому переиндексация
// перезаписывает точку, а не плодит дубликаты.
func PointID(itemID string) uint64 {
	if n, err := strconv.ParseUint(itemID, 10, 63); err == nil {
		return n
	}

	return xxhash.Sum64String(itemID) & (1<<63 - 1)
}
