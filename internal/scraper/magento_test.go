package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
)

// сокращённый слепок листинга: товарные блоки вшиты в страницу JSON'ом
const magentoPageHTML = `<html><script>
{"id":5501,"sku":"TX123","name":"חולצה מכופתרת","x":1}
{"id":5502,"sku":"TX456","name":"מכנסיים קצרים","x":1}
{"media_gallery":[{"url":"https://media.test/TX123-1.jpg?w=400"},{"url":"https://media.test/TX123-2_flat.jpg?w=400"}]}
{"media_gallery":[{"url":"https://media.test/TX456-1.jpg"}]}
{"sku":"TX123","a":1,"minimum_price":{"final_price":{"value":129.9}}}
{"sku":"TX456","a":1,"minimum_price":{"final_price":{"value":89}}}
{"sku":"TX123","b":1,"url_key":"button-shirt-tx123"}
{"sku":"TX456","b":1,"url_key":"shorts-tx456"}
</script></html>`

func TestExtractMagentoProducts(t *testing.T) {
	products := extractMagentoProducts(magentoPageHTML)
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	p := products[0]
	if p.id != "5501" || p.sku != "TX123" {
		t.Errorf("identity: %+v", p)
	}
	if p.price.String() != "129.9" {
		t.Errorf("price = %s, want 129.9", p.price)
	}
	if p.urlKey != "button-shirt-tx123" {
		t.Errorf("urlKey = %s", p.urlKey)
	}
	if len(p.images) != 2 {
		t.Fatalf("gallery size = %d, want 2", len(p.images))
	}
}

func magentoTestScraper(t *testing.T, categories []MagentoCategory, handler http.Handler) *MagentoScraper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rules := []Rule{
		{"חולצ", domain.CategoryUpperBody},
		{"מכנס", domain.CategoryLowerBody},
	}

	return NewMagentoScraper("terminalx", srv.URL, "ILS",
		categories, NewClassifier(rules), testScraperCfg(), logger.Nop{})
}

func TestMagentoScrapeAll(t *testing.T) {
	categories := []MagentoCategory{{"women/tops", domain.CategoryUpperBody}}

	s := magentoTestScraper(t, categories, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("p") == "1" {
			fmt.Fprint(w, magentoPageHTML)
			return
		}
		// витрина повторяет последнюю страницу вместо 404
		fmt.Fprint(w, magentoPageHTML)
	}))

	res, err := s.ScrapeAll(context.Background())
	if err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	items := res.Items

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (repeat page adds nothing)", len(items))
	}

	byID := make(map[string]domain.CatalogItem)
	for _, item := range items {
		byID[item.ID] = item
	}

	shirt := byID["terminalx:5501"]
	// последняя картинка галереи, без query-параметров
	if shirt.ImageURL != "https://media.test/TX123-2_flat.jpg" {
		t.Errorf("image = %s, want last gallery image without query", shirt.ImageURL)
	}
	if shirt.Category != domain.CategoryUpperBody {
		t.Errorf("category = %v", shirt.Category)
	}
	if shirt.ProductURL != s.baseURL+"/button-shirt-tx123" {
		t.Errorf("product url = %s", shirt.ProductURL)
	}

	if byID["terminalx:5502"].Category != domain.CategoryLowerBody {
		t.Errorf("shorts category = %v, want lower_body", byID["terminalx:5502"].Category)
	}
}

func TestMagentoMaxPagesCap(t *testing.T) {
	requests := 0
	// каждая страница отдаёт новые товары — без потолка обход не завершился бы
	s := magentoTestScraper(t, []MagentoCategory{{"women/tops", domain.CategoryUpperBody}},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprintf(w, `{"id":%d,"sku":"SKU%d","name":"חולצה"}`, requests, requests)
		}))

	if _, err := s.ScrapeAll(context.Background()); err != nil {
		t.Fatalf("ScrapeAll: %v", err)
	}

	if requests != s.maxPages {
		t.Errorf("requests = %d, want capped at %d", requests, s.maxPages)
	}
}
