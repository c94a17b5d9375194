package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
)

func testScraperCfg() *cfg.ScraperCfg {
	return &cfg.ScraperCfg{
		UserAgent:       "test-agent",
		PageSize:        2,
		MaxPages:        10,
		RequestTimeout:  5 * time.Second,
		CategoryWorkers: 2,
		SourceWorkers:   2,
	}
}

func shopifyTestScraper(t *testing.T, handler http.Handler) *ShopifyScraper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rules := []Rule{
		{"חולצ", domain.CategoryUpperBody},
		{"מכנס", domain.CategoryLowerBody},
	}

	return NewShopifyScraper("raven", srv.URL, "ILS", NewClassifier(rules),
		domain.CategoryUpperBody, testScraperCfg(), logger.Nop{})
}

func shopifyProductJSON(id int, name, price string) string {
	return fmt.Sprintf(`{
		"id": %d, "title": %q, "handle": "item-%d", "product_type": "",
		"images": [{"src": "https://cdn.test/img-%d-a.jpg"}, {"src": "https://cdn.test/img-%d-b.jpg"}],
		"variants": [{"price": %q}]
	}`, id, name, id, id, id, price)
}

func TestShopifyScrapeAllPaginates(t *testing.T) {
	pages := map[string]string{
		"1": `{"products": [` + shopifyProductJSON(1, "חולצת בייסיק", "99.90") + `,` + shopifyProductJSON(2, "מכנסי טרנינג", "149.00") + `]}`,
		"2": `{"products": [` + shopifyProductJSON(3, "hoodie", "199.00") + `]}`,
		"3": `{"products": []}`,
	}

	s := shopifyTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, pages[r.URL.Query().Get("page")])
	}))

	res, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	items := res.Items

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	first := items[0]
	if first.ID != "raven:1" || first.Source != "raven" {
		t.Errorf("id fields: %+v", first)
	}
	if first.Category != domain.CategoryUpperBody {
		t.Errorf("category = %v, want upper_body", first.Category)
	}
	if first.Price.String() != "99.9" {
		t.Errorf("price = %s, want 99.9", first.Price)
	}
	// первая картинка галереи
	if first.ImageURL != "https://cdn.test/img-1-a.jpg" {
		t.Errorf("image = %s, want first gallery image", first.ImageURL)
	}

	if items[1].Category != domain.CategoryLowerBody {
		t.Errorf("items[1].Category = %v, want lower_body", items[1].Category)
	}
}

func TestShopifyScrapeAllStopsOnZeroItemsPage(t *testing.T) {
	// две полные страницы, третья пустая: ровно 4 товара, без ошибки
	var requested []string
	s := shopifyTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		switch page {
		case "1":
			fmt.Fprint(w, `{"products": [`+shopifyProductJSON(1, "a shirt", "10")+`,`+shopifyProductJSON(2, "b shirt", "20")+`]}`)
		case "2":
			fmt.Fprint(w, `{"products": [`+shopifyProductJSON(3, "c shirt", "30")+`,`+shopifyProductJSON(4, "d shirt", "40")+`]}`)
		default:
			fmt.Fprint(w, `{"products": []}`)
		}
	}))

	res, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	items := res.Items

	if len(items) != 4 {
		t.Errorf("got %d items, want 4", len(items))
	}

	if len(requested) != 3 {
		t.Errorf("requested pages %v, want exactly 3 requests", requested)
	}
}

func TestShopifyScrapeAllStopsOnRepeatedPage(t *testing.T) {
	// Сломанная витрина отдаёт последнюю полную страницу на любой номер:
	// без остановки по "нет новых товаров" обход не завершился бы.
	requests := 0
	s := shopifyTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"products": [`+shopifyProductJSON(1, "a shirt", "10")+`,`+shopifyProductJSON(2, "b shirt", "20")+`]}`)
	}))

	res, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	if len(res.Items) != 2 {
		t.Errorf("got %d items, want 2", len(res.Items))
	}

	// страница 1 — два новых товара, страница 2 — ни одного, стоп
	if requests != 2 {
		t.Errorf("requests = %d, repeated page must stop pagination", requests)
	}
}

func TestShopifyScrapeAllTruncatesOnPageFailure(t *testing.T) {
	s := shopifyTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{"products": [`+shopifyProductJSON(1, "shirt", "10")+`]}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	res, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("page failure must not fail the run: %v", err)
	}

	items := res.Items

	if len(items) != 1 {
		t.Errorf("got %d items, want collected page 1 only", len(items))
	}
}

func TestShopifyScrapeAllDropsItemsWithoutImages(t *testing.T) {
	s := shopifyTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"products": []}`)
			return
		}
		fmt.Fprint(w, `{"products": [
			{"id": 1, "title": "no images", "handle": "x", "images": [], "variants": [{"price": "10"}]},
			`+shopifyProductJSON(2, "ok shirt", "20")+`
		]}`)
	}))

	res, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	items := res.Items

	if len(items) != 1 || items[0].ID != "raven:2" {
		t.Errorf("imageless item must be dropped alone, got %+v", items)
	}
	if res.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", res.Dropped)
	}
}

func TestShopifyScrapeAllDeduplicates(t *testing.T) {
	s := shopifyTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"products": [`+shopifyProductJSON(1, "shirt", "10")+`,`+shopifyProductJSON(1, "shirt again", "10")+`]}`)
		default:
			fmt.Fprint(w, `{"products": []}`)
		}
	}))

	res, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	items := res.Items

	if len(items) != 1 {
		t.Errorf("got %d items, want 1 after dedup", len(items))
	}
}
