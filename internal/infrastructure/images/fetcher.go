package images

import (
	"context"
	"fmt"
	"io"
	"net/http"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
)

// Fetcher скачивает изображения товаров по URL из каталога.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(cfg *config.ScraperCfg) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		userAgent: cfg.UserAgent,
	}
}

func (f *Fetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("image %q", url), e.ErrMalformedItem)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("image %q: %v", url, err), e.ErrMalformedItem)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, e.Wrap(fmt.Sprintf("image %q: status %d", url, resp.StatusCode), e.ErrMalformedItem)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("image %q: %v", url, err), e.ErrMalformedItem)
	}

	if len(body) == 0 {
		return nil, e.Wrap(fmt.Sprintf("image %q: empty body", url), e.ErrMalformedItem)
	}

	return body, nil
}
