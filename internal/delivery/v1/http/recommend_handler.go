package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
)

type RecommendHandler struct {
	recommendUsecase usecase.RecommendUC
	logger           logger.Logger
}

func NewRecommendHandler(recommendUsecase usecase.RecommendUC, logger logger.Logger) *RecommendHandler {
	return &RecommendHandler{recommendUsecase: recommendUsecase, logger: logger}
}

type complementaryRequest struct {
	ItemID     string   `json:"item_id"`
	Categories []string `json:"categories"`
	ExcludeIDs []string `json:"exclude_ids"`
}

type searchRequest struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories"`
	Limit      uint64   `json:"limit"`
}

// complementary возвращает дополняющие товары к опорному.
func (h *RecommendHandler) complementary(w http.ResponseWriter, r *http.Request) {
	var req complementaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	categories, err := parseCategories(req.Categories)
	if err != nil {
		WriteError(w, err)
		return
	}

	ranked, err := h.recommendUsecase.Complementary(r.Context(),
		usecase.NewComplementaryReq(req.ItemID, categories, req.ExcludeIDs))
	if err != nil {
		h.logger.Warnf("complementary %s: %s", req.ItemID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"items": rankedToResponse(ranked),
	})
}

// browse отдаёт страницу каталога без опорного товара.
func (h *RecommendHandler) browse(w http.ResponseWriter, r *http.Request) {
	req := &usecase.BrowseReq{}

	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.Category(raw)
		if !category.Valid() {
			WriteError(w, e.ErrInvalidCategory)
			return
		}
		req.Category = &category
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 {
			WriteError(w, e.ErrInvalidLimit)
			return
		}
		req.Limit = limit
	}

	ranked, err := h.recommendUsecase.Browse(r.Context(), req)
	if err != nil {
		h.logger.Warnf("browse: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"items": rankedToResponse(ranked),
	})
}

// search ищет товары по текстовому запросу.
func (h *RecommendHandler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	categories, err := parseCategories(req.Categories)
	if err != nil {
		WriteError(w, err)
		return
	}

	ranked, err := h.recommendUsecase.SearchByText(r.Context(), &usecase.TextSearchReq{
		Query:      req.Query,
		Categories: categories,
		Limit:      req.Limit,
	})
	if err != nil {
		h.logger.Warnf("search %q: %s", req.Query, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"items": rankedToResponse(ranked),
	})
}

func parseCategories(raw []string) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(raw))
	for _, c := range raw {
		category := domain.Category(strings.TrimSpace(c))
		if !category.Valid() {
			return nil, e.Wrap(c, e.ErrInvalidCategory)
		}
		categories = append(categories, category)
	}

	return categories, nil
}
