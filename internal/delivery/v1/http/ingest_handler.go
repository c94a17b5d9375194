package http

import (
	"net/http"
	"strconv"

	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type IngestHandler struct {
	ingestUsecase usecase.IngestUC
	logger        logger.Logger
}

func NewIngestHandler(ingestUsecase usecase.IngestUC, logger logger.Logger) *IngestHandler {
	return &IngestHandler{ingestUsecase: ingestUsecase, logger: logger}
}

// scrape запускает прогон одного источника, scrapeAll — всех сразу.
// Необязательный query-параметр limit обрезает число записей на источник.
func (h *IngestHandler) scrape(w http.ResponseWriter, r *http.Request) {
	h.runScrape(w, r, chi.URLParam(r, "source"))
}

func (h *IngestHandler) scrapeAll(w http.ResponseWriter, r *http.Request) {
	h.runScrape(w, r, "")
}

func (h *IngestHandler) runScrape(w http.ResponseWriter, r *http.Request, source string) {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, e.ErrInvalidLimit)
			return
		}
		limit = parsed
	}

	res, err := h.ingestUsecase.RunScrape(r.Context(), usecase.NewRunScrapeReq(source, limit))
	if err != nil {
		h.logger.Warnf("scrape %q: %s", source, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"items_written": res.ItemsWritten,
		"reports":       res.Reports,
	})
}

// index прогоняет каталог через эмбеддер и записывает точки в индекс.
// Параметр recreate=true пересоздаёт коллекцию перед индексацией.
func (h *IngestHandler) index(w http.ResponseWriter, r *http.Request) {
	h.runIndex(w, r, chi.URLParam(r, "source"))
}

func (h *IngestHandler) indexAll(w http.ResponseWriter, r *http.Request) {
	h.runIndex(w, r, "")
}

func (h *IngestHandler) runIndex(w http.ResponseWriter, r *http.Request, source string) {
	recreate := false
	if raw := r.URL.Query().Get("recreate"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
		recreate = parsed
	}

	res, err := h.ingestUsecase.IndexCatalog(r.Context(), usecase.NewIndexCatalogReq(source, recreate))
	if err != nil {
		h.logger.Warnf("index %q: %s", source, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"indexed": res.Indexed,
		"skipped": res.Skipped,
	})
}
