package e

import "fmt"

var (
	// Ошибки скрейпинга
	ErrSourceFetch   = fmt.Errorf("source fetch failed")
	ErrMalformedItem = fmt.Errorf("malformed catalog item")
	ErrUnknownSource = fmt.Errorf("unknown source")

	// Ошибки векторов
	ErrDegenerateEmbedding = fmt.Errorf("degenerate embedding")
	ErrEmptyVectors        = fmt.Errorf("empty vectors")
	ErrVectorSizeMismatch  = fmt.Errorf("vector size mismatch")

	// Ошибки векторного индекса
	ErrItemNotFound       = fmt.Errorf("item not found in index")
	ErrCollectionNotReady = fmt.Errorf("collection does not exist")

	// Ошибки внешнего сервиса генерации изображений
	ErrGenerationFailed = fmt.Errorf("generation produced no image")

	// 400 Bad Request
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrInvalidCategory     = fmt.Errorf("invalid category")
	ErrInvalidLimit        = fmt.Errorf("limit out of range")
	ErrEmptyQuery          = fmt.Errorf("query text is empty")
	ErrNoImages            = fmt.Errorf("no images provided")
	ErrExpectedMultipart   = fmt.Errorf("expected multipart/form-data")
	ErrFileTooLarge        = fmt.Errorf("file too large")
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
