package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fitmatch-tech/catalog-backend/pkg/e"
)

// getBody выполняет GET и возвращает тело ответа.
// Не-2xx статус считается ошибкой страницы (ErrSourceFetch).
func getBody(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, e.Wrap(url, err)
	}

	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, e.Wrap(url, e.Wrap(err.Error(), e.ErrSourceFetch))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, e.Wrap(url, e.Wrap(fmt.Sprintf("status %d", resp.StatusCode), e.ErrSourceFetch))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.Wrap(url, e.Wrap(err.Error(), e.ErrSourceFetch))
	}

	return body, nil
}

// getJSON выполняет GET и раскладывает JSON-ответ в out.
// Битый JSON считается ошибкой страницы (ErrSourceFetch).
func getJSON(ctx context.Context, client *http.Client, url, userAgent string, out any) error {
	body, err := getBody(ctx, client, url, userAgent)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return e.Wrap(url, e.Wrap(err.Error(), e.ErrSourceFetch))
	}

	return nil
}
