package embedder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/jitter"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	imageEmbeddingsPath = "/v1/embeddings/image"
	textEmbeddingsPath  = "/v1/embeddings/text"
)

// Embedder — HTTP-клиент сервиса эмбеддингов. Изображения уходят в body
// как base64, тексты как есть; ответ — матрица векторов в порядке запроса.
type Embedder struct {
	cfg    *config.EmbedderCfg
	client *http.Client
	log    logger.Logger
}

func NewEmbedder(cfg *config.EmbedderCfg, log logger.Logger) *Embedder {
	return &Embedder{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		log: log,
	}
}

type imageRequest struct {
	Images []string `json:"images"`
}

type textRequest struct {
	Texts []string `json:"texts"`
}

type embeddingsResponse struct {
	Vectors [][]float32 `json:"vectors"`
}

func (em *Embedder) EmbedImage(ctx context.Context, image []byte) (domain.Vector, error) {
	vectors, err := em.EmbedImages(ctx, [][]byte{image})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

func (em *Embedder) EmbedImages(ctx context.Context, images [][]byte) ([]domain.Vector, error) {
	if len(images) == 0 {
		return nil, nil
	}

	encoded := make([]string, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
	}

	vectors := make([]domain.Vector, 0, len(images))
	for start := 0; start < len(encoded); start += em.cfg.MaxBatch {
		end := min(start+em.cfg.MaxBatch, len(encoded))

		batch, err := em.post(ctx, imageEmbeddingsPath, imageRequest{Images: encoded[start:end]}, end-start)
		if err != nil {
			return nil, err
		}

		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (em *Embedder) EmbedText(ctx context.Context, text string) (domain.Vector, error) {
	vectors, err := em.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vectors[0], nil
}

func (em *Embedder) EmbedTexts(ctx context.Context, texts []string) ([]domain.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([]domain.Vector, 0, len(texts))
	for start := 0; start < len(texts); start += em.cfg.MaxBatch {
		end := min(start+em.cfg.MaxBatch, len(texts))

		batch, err := em.post(ctx, textEmbeddingsPath, textRequest{Texts: texts[start:end]}, end-start)
		if err != nil {
			return nil, err
		}

		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// post отправляет один батч с ретраями и возвращает нормализованные векторы.
func (em *Embedder) post(ctx context.Context, path string, body any, want int) ([]domain.Vector, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var lastErr error
	for attempt := 0; attempt <= em.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := jitter.ExponentialBackoff(em.cfg.RetryBase, em.cfg.RetryMax, attempt, jitter.DefaultJitter)
			em.log.Warnf("embedder retry %d after %s: %v", attempt, backoff, lastErr)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		vectors, err := em.doRequest(ctx, path, payload, want)
		if err == nil {
			return vectors, nil
		}

		// Вырожденные векторы — не транзиентная ошибка, повтор не поможет.
		if errors.Is(err, e.ErrDegenerateEmbedding) || errors.Is(err, e.ErrEmptyVectors) {
			return nil, err
		}

		lastErr = err
	}

	return nil, e.Wrap(whereami.WhereAmI(), lastErr)
}

func (em *Embedder) doRequest(ctx context.Context, path string, payload []byte, want int) ([]domain.Vector, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, em.cfg.Addr+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := em.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("embedder returned status %d", resp.StatusCode)
	}

	var decoded embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	if len(decoded.Vectors) != want {
		return nil, e.Wrap(fmt.Sprintf("expected %d vectors, got %d", want, len(decoded.Vectors)), e.ErrEmptyVectors)
	}

	vectors := make([]domain.Vector, 0, want)
	for _, raw := range decoded.Vectors {
		normalized, err := domain.Vector(raw).Normalized()
		if err != nil {
			return nil, err
		}

		vectors = append(vectors, normalized)
	}

	return vectors, nil
}
