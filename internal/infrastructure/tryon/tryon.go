package tryon

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	config "github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
)

const generatePath = "/v1/tryon"

// Client — клиент сервиса генеративной примерки. Сервис непрозрачен:
// клиент только передаёт изображения и описание и возвращает результат.
type Client struct {
	cfg    *config.TryOnCfg
	client *http.Client
}

func NewClient(cfg *config.TryOnCfg) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

type generateRequest struct {
	PersonImage  string `json:"person_image"`
	GarmentImage string `json:"garment_image"`
	Description  string `json:"description"`
	Category     string `json:"category"`
}

type generateResponse struct {
	Image string `json:"image"`
}

func (c *Client) Generate(ctx context.Context, req *usecase.TryOnReq) (*usecase.TryOnRes, error) {
	payload, err := json.Marshal(generateRequest{
		PersonImage:  base64.StdEncoding.EncodeToString(req.PersonImage),
		GarmentImage: base64.StdEncoding.EncodeToString(req.GarmentImage),
		Description:  req.Description,
		Category:     string(req.Category),
	})
	if err != nil {
		return nil, e.Wrap("tryon request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Addr+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, e.Wrap("tryon request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, e.Wrap("tryon request", e.ErrGenerationFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, e.Wrap(fmt.Sprintf("tryon status %d", resp.StatusCode), e.ErrGenerationFailed)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, e.Wrap("tryon response", e.ErrGenerationFailed)
	}

	image, err := base64.StdEncoding.DecodeString(decoded.Image)
	if err != nil || len(image) == 0 {
		return nil, e.Wrap("tryon image", e.ErrGenerationFailed)
	}

	return &usecase.TryOnRes{Image: image}, nil
}
