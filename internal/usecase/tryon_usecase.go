package usecase

import (
	"context"

	"github.com/fitmatch-tech/catalog-backend/pkg/e"
)

// TryOnUseCase валидирует запрос примерки и делегирует генерацию
// внешнему сервису.
type TryOnUseCase struct {
	tryon TryOnInfra
}

func NewTryOnUseCase(tryon TryOnInfra) *TryOnUseCase {
	return &TryOnUseCase{tryon: tryon}
}

func (uc *TryOnUseCase) TryOn(ctx context.Context, req *TryOnReq) (*TryOnRes, error) {
	if len(req.PersonImage) == 0 {
		return nil, e.Wrap("person image", e.ErrMissingFields)
	}
	if len(req.GarmentImage) == 0 {
		return nil, e.Wrap("garment image", e.ErrMissingFields)
	}
	if req.Category != "" && !req.Category.Valid() {
		return nil, e.Wrap(string(req.Category), e.ErrInvalidCategory)
	}

	res, err := uc.tryon.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(res.Image) == 0 {
		return nil, e.ErrGenerationFailed
	}

	return res, nil
}
