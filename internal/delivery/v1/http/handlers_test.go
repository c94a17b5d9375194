package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type fakeRecommendUC struct {
	ranked []usecase.RankedItem
	err    error
}

func (f *fakeRecommendUC) Complementary(ctx context.Context, req *usecase.ComplementaryReq) ([]usecase.RankedItem, error) {
	return f.ranked, f.err
}

func (f *fakeRecommendUC) Browse(ctx context.Context, req *usecase.BrowseReq) ([]usecase.RankedItem, error) {
	return f.ranked, f.err
}

func (f *fakeRecommendUC) SearchByText(ctx context.Context, req *usecase.TextSearchReq) ([]usecase.RankedItem, error) {
	return f.ranked, f.err
}

type fakeIngestUC struct {
	scrapeRes *usecase.RunScrapeRes
	indexRes  *usecase.IndexCatalogRes
	err       error
}

func (f *fakeIngestUC) RunScrape(ctx context.Context, req *usecase.RunScrapeReq) (*usecase.RunScrapeRes, error) {
	return f.scrapeRes, f.err
}

func (f *fakeIngestUC) IndexCatalog(ctx context.Context, req *usecase.IndexCatalogReq) (*usecase.IndexCatalogRes, error) {
	return f.indexRes, f.err
}

type fakeTryOnUC struct {
	res *usecase.TryOnRes
	err error
}

func (f *fakeTryOnUC) TryOn(ctx context.Context, req *usecase.TryOnReq) (*usecase.TryOnRes, error) {
	return f.res, f.err
}

func newTestRouter(ingestUC usecase.IngestUC, recommendUC usecase.RecommendUC, tryonUC usecase.TryOnUC) *chi.Mux {
	r := chi.NewRouter()
	NewRouter(r, logger.Nop{}).Init(ingestUC, recommendUC, tryonUC)
	return r
}

func rankedFixture() []usecase.RankedItem {
	price, _ := decimal.NewFromString("199.90")
	item := *domain.NewCatalogItem("raven", "1", "מעיל חורף", price, "ILS",
		domain.CategoryUpperBody, "https://cdn.example/1.jpg", "https://example/p/1")
	return []usecase.RankedItem{usecase.NewRankedItem(item, 0.91)}
}

func TestComplementaryHandlerOK(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{}, &fakeRecommendUC{ranked: rankedFixture()}, &fakeTryOnUC{})

	body := `{"item_id":"raven:1","categories":["lower_body"],"exclude_ids":["raven:2"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend/complementary", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Items []RankedItemResponse `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != "raven:1" || resp.Items[0].Price != "199.9" {
		t.Errorf("unexpected item %+v", resp.Items[0])
	}
}

func TestComplementaryHandlerNotFound(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{}, &fakeRecommendUC{err: e.ErrItemNotFound}, &fakeTryOnUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend/complementary",
		strings.NewReader(`{"item_id":"raven:404"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestComplementaryHandlerBadCategory(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{}, &fakeRecommendUC{}, &fakeTryOnUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend/complementary",
		strings.NewReader(`{"item_id":"raven:1","categories":["hats"]}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBrowseHandlerInvalidLimit(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{}, &fakeRecommendUC{}, &fakeTryOnUC{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?limit=zero", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{}, &fakeRecommendUC{err: e.ErrEmptyQuery}, &fakeTryOnUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":""}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestScrapeHandlerUnknownSource(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{err: e.ErrUnknownSource}, &fakeRecommendUC{}, &fakeTryOnUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/scrape/zara", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestIndexHandlerOK(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{indexRes: &usecase.IndexCatalogRes{Indexed: 5, Skipped: 1}},
		&fakeRecommendUC{}, &fakeTryOnUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/index?recreate=true", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["indexed"] != 5 || resp["skipped"] != 1 {
		t.Errorf("unexpected response %v", resp)
	}
}

func TestTryOnHandlerRequiresMultipart(t *testing.T) {
	router := newTestRouter(&fakeIngestUC{}, &fakeRecommendUC{}, &fakeTryOnUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tryon", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
