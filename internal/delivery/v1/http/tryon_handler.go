package http

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
)

type TryOnHandler struct {
	tryonUsecase usecase.TryOnUC
	logger       logger.Logger
}

func NewTryOnHandler(tryonUsecase usecase.TryOnUC, logger logger.Logger) *TryOnHandler {
	return &TryOnHandler{tryonUsecase: tryonUsecase, logger: logger}
}

// tryOn принимает multipart-форму с фото человека и вещи
// и возвращает отрисованное изображение примерки.
func (h *TryOnHandler) tryOn(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 16 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	person, err := readFormFile(r, "person_image")
	if err != nil {
		WriteError(w, err)
		return
	}

	garment, err := readFormFile(r, "garment_image")
	if err != nil {
		WriteError(w, err)
		return
	}

	description := r.FormValue("description")
	category := domain.Category(r.FormValue("category"))

	res, err := h.tryonUsecase.TryOn(r.Context(), usecase.NewTryOnReq(person, garment, description, category))
	if err != nil {
		h.logger.Warnf("tryon: %s", err.Error())
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(res.Image)
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, e.Wrap(field, e.ErrMissingFields)
	}

	return readMultipartFile(files[0])
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, e.Wrap(header.Filename, e.ErrStatusBadRequest)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, e.Wrap(header.Filename, e.ErrStatusBadRequest)
	}

	return data, nil
}
