package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// RankedItemResponse — позиция выдачи в ответе API.
// Цена отдаётся строкой, как хранится в каталоге.
type RankedItemResponse struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	Name       string  `json:"name"`
	Price      string  `json:"price"`
	Currency   string  `json:"currency"`
	Category   string  `json:"category"`
	ImageURL   string  `json:"image_url"`
	ProductURL string  `json:"product_url"`
	Score      float32 `json:"score"`
}

func rankedToResponse(items []usecase.RankedItem) []RankedItemResponse {
	out := make([]RankedItemResponse, 0, len(items))
	for _, ranked := range items {
		out = append(out, RankedItemResponse{
			ID:         ranked.Item.ID,
			Source:     ranked.Item.Source,
			Name:       ranked.Item.Name,
			Price:      ranked.Item.Price.String(),
			Currency:   ranked.Item.Currency,
			Category:   string(ranked.Item.Category),
			ImageURL:   ranked.Item.ImageURL,
			ProductURL: ranked.Item.ProductURL,
			Score:      ranked.Score,
		})
	}

	return out
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrItemNotFound):
		return http.StatusNotFound, e.ErrItemNotFound.Error()
	case errors.Is(err, e.ErrUnknownSource):
		return http.StatusNotFound, e.ErrUnknownSource.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidCategory):
		return http.StatusBadRequest, e.ErrInvalidCategory.Error()
	case errors.Is(err, e.ErrInvalidLimit):
		return http.StatusBadRequest, e.ErrInvalidLimit.Error()
	case errors.Is(err, e.ErrEmptyQuery):
		return http.StatusBadRequest, e.ErrEmptyQuery.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrCollectionNotReady):
		return http.StatusConflict, e.ErrCollectionNotReady.Error()
	case errors.Is(err, e.ErrGenerationFailed):
		return http.StatusBadGateway, e.ErrGenerationFailed.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}
