package domain

import (
	"math"

	"github.com/fitmatch-tech/catalog-backend/pkg/e"
)

// VectorSize — размерность эмбеддингов модели.
const VectorSize = 512

// Vector представляет эмбеддинг изображения или текста.
type Vector []float32

// Norm возвращает L2-норму вектора.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Validate отклоняет вектор с NaN/Inf компонентами.
// Такой вектор означает битое изображение на входе модели
// и не должен попадать в индекс.
func (v Vector) Validate() error {
	if len(v) == 0 {
		return e.ErrEmptyVectors
	}

	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return e.ErrDegenerateEmbedding
		}
	}

	return nil
}

// Normalized возвращает копию вектора, делённую на его L2-норму.
// Нулевой или невалидный вектор отклоняется как дегенеративный.
func (v Vector) Normalized() (Vector, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}

	norm := v.Norm()
	if norm == 0 {
		return nil, e.ErrDegenerateEmbedding
	}

	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}

	return out, nil
}
