package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// MagentoCategory — листинг Magento-витрины: путь категории
// и категория таксономии по умолчанию.
type MagentoCategory struct {
	Path    string
	Default domain.Category
}

// MagentoScraper извлекает товары из HTML витрины Magento:
// данные каталога вшиты в страницу JSON-блоками, которые
// вычёсываются регулярными выражениями.
// Выбор изображения: последняя картинка медиа-галереи — это,
// как правило, предметный кадр без модели (flatlay), который
// даёт заметно более чистый эмбеддинг, чем кадр на модели.
// Пагинация ограничена потолком страниц: витрина отдаёт
// последнюю страницу повторно вместо 404.
type MagentoScraper struct {
	source     string
	baseURL    string
	currency   string
	categories []MagentoCategory
	classifier *Classifier
	client     *http.Client
	userAgent  string
	maxPages   int
	workers    int
	logger     logger.Logger
}

var (
	magentoProductRe = regexp.MustCompile(`"id":(\d+),"sku":"([^"]+)","name":"([^"]+)"`)
	magentoGalleryRe = regexp.MustCompile(`"media_gallery":(\[[^\]]+\])`)
	magentoPriceRe   = regexp.MustCompile(`"sku":"([^"]+)"[^}]*?"minimum_price":\{"final_price":\{"value":([0-9.]+)`)
	magentoURLKeyRe  = regexp.MustCompile(`"sku":"([^"]+)"[^}]*?"url_key":"([^"]+)"`)
	magentoSkuURLRe  = regexp.MustCompile(`/([a-zA-Z0-9]+)-\d`)
)

func NewMagentoScraper(source, baseURL, currency string, categories []MagentoCategory,
	classifier *Classifier, scraperCfg *cfg.ScraperCfg, log logger.Logger) *MagentoScraper {
	maxPages := scraperCfg.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}

	workers := scraperCfg.CategoryWorkers
	if workers <= 0 {
		workers = 1
	}

	return &MagentoScraper{
		source:     source,
		baseURL:    baseURL,
		currency:   currency,
		categories: categories,
		classifier: classifier,
		client:     &http.Client{Timeout: scraperCfg.RequestTimeout},
		userAgent:  scraperCfg.UserAgent,
		maxPages:   maxPages,
		workers:    workers,
		logger:     log,
	}
}

// NewTerminalXScraper — адаптер terminalx.com (израильский fashion-ритейлер, Magento).
func NewTerminalXScraper(scraperCfg *cfg.ScraperCfg, log logger.Logger) *MagentoScraper {
	categories := []MagentoCategory{
		{"women/tops", domain.CategoryUpperBody},
		{"women/dresses", domain.CategoryDresses},
		{"women/pants", domain.CategoryLowerBody},
		{"women/shorts", domain.CategoryLowerBody},
		{"women/skirts", domain.CategoryLowerBody},
		{"women/jackets-coats", domain.CategoryUpperBody},
		{"women/jeans", domain.CategoryLowerBody},
		{"men/t-shirts", domain.CategoryUpperBody},
		{"men/shirts", domain.CategoryUpperBody},
		{"men/pants", domain.CategoryLowerBody},
		{"men/shorts", domain.CategoryLowerBody},
		{"men/jackets-coats", domain.CategoryUpperBody},
		{"men/jeans", domain.CategoryLowerBody},
	}

	rules := []Rule{
		// Верх
		{"חולצ", domain.CategoryUpperBody},
		{"טופ", domain.CategoryUpperBody},
		{"גופי", domain.CategoryUpperBody},
		{"סריג", domain.CategoryUpperBody},
		{"קרדיגן", domain.CategoryUpperBody},
		{"ז'קט", domain.CategoryUpperBody},
		{"מעיל", domain.CategoryUpperBody},
		{"סווטשירט", domain.CategoryUpperBody},
		{"הודי", domain.CategoryUpperBody},
		{"shirt", domain.CategoryUpperBody},
		{"top", domain.CategoryUpperBody},
		{"jacket", domain.CategoryUpperBody},
		{"sweater", domain.CategoryUpperBody},
		{"hoodie", domain.CategoryUpperBody},
		// Низ
		{"מכנס", domain.CategoryLowerBody},
		{"ג'ינס", domain.CategoryLowerBody},
		{"שורט", domain.CategoryLowerBody},
		{"חצאית", domain.CategoryLowerBody},
		{"טייץ", domain.CategoryLowerBody},
		{"pants", domain.CategoryLowerBody},
		{"jeans", domain.CategoryLowerBody},
		{"shorts", domain.CategoryLowerBody},
		{"skirt", domain.CategoryLowerBody},
		// Платья
		{"שמלה", domain.CategoryDresses},
		{"שמלת", domain.CategoryDresses},
		{"dress", domain.CategoryDresses},
		// Комплекты
		{"אוברול", domain.CategoryFullBody},
		{"סט", domain.CategoryFullBody},
		{"jumpsuit", domain.CategoryFullBody},
	}

	return NewMagentoScraper(
		"terminalx", "https://www.terminalx.com", "ILS",
		categories, NewClassifier(rules), scraperCfg, log,
	)
}

// magentoProduct — сырые поля товара, собранные из HTML-страницы.
type magentoProduct struct {
	id     string
	sku    string
	name   string
	price  decimal.Decimal
	urlKey string
	images []string
}

func (m *MagentoScraper) Source() string {
	return m.source
}

func (m *MagentoScraper) MapCategory(raw string, def domain.Category) domain.Category {
	return m.classifier.Classify(raw, def)
}

func (m *MagentoScraper) ScrapeAll(ctx context.Context) (ScrapeResult, error) {
	state := newRunState()
	sem := make(chan struct{}, m.workers)

	var wg sync.WaitGroup
	for _, category := range m.categories {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			m.scrapeCategory(ctx, category, state)
		}()
	}
	wg.Wait()

	return state.result(), ctx.Err()
}

// scrapeCategory листает страницы категории до потолка maxPages.
// Остановка: ошибка страницы, страница без товаров или без новых товаров.
func (m *MagentoScraper) scrapeCategory(ctx context.Context, category MagentoCategory, state *runState) {
	for page := 1; page <= m.maxPages; page++ {
		if ctx.Err() != nil {
			return
		}

		url := fmt.Sprintf("%s/%s?p=%d", m.baseURL, category.Path, page)

		body, err := getBody(ctx, m.client, url, m.userAgent)
		if err != nil {
			m.logger.Warnf("%s: category %s page %d failed: %v", m.source, category.Path, page, err)
			return
		}

		products := extractMagentoProducts(string(body))
		if len(products) == 0 {
			return
		}

		newCount := 0
		for _, p := range products {
			if !state.claim(p.id) {
				continue
			}
			newCount++

			item, ok := m.parse(p, category.Default)
			if !ok {
				state.drop()
				continue
			}

			state.append(*item)
		}

		// Витрина повторяет последнюю страницу — нет новых товаров, останавливаемся
		if newCount == 0 {
			return
		}
	}
}

// extractMagentoProducts вычёсывает товарные блоки из HTML страницы листинга
// и сшивает их по SKU: базовые поля, галерею, цену и url_key.
func extractMagentoProducts(page string) []magentoProduct {
	var products []magentoProduct
	seen := make(map[string]struct{})

	for _, match := range magentoProductRe.FindAllStringSubmatch(page, -1) {
		id := match[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		products = append(products, magentoProduct{
			id:   id,
			sku:  match[2],
			name: unescapeJSONString(match[3]),
		})
	}

	galleries := make(map[string][]string)
	for _, match := range magentoGalleryRe.FindAllStringSubmatch(page, -1) {
		var imgs []struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal([]byte(match[1]), &imgs); err != nil || len(imgs) == 0 {
			continue
		}

		// Ключ галереи — SKU, зашитый в путь первой картинки
		skuMatch := magentoSkuURLRe.FindStringSubmatch(imgs[0].URL)
		if skuMatch == nil {
			continue
		}

		urls := make([]string, 0, len(imgs))
		for _, img := range imgs {
			urls = append(urls, img.URL)
		}
		galleries[strings.ToUpper(skuMatch[1])] = urls
	}

	prices := make(map[string]decimal.Decimal)
	for _, match := range magentoPriceRe.FindAllStringSubmatch(page, -1) {
		if price, err := decimal.NewFromString(match[2]); err == nil {
			prices[match[1]] = price
		}
	}

	urlKeys := make(map[string]string)
	for _, match := range magentoURLKeyRe.FindAllStringSubmatch(page, -1) {
		urlKeys[match[1]] = match[2]
	}

	for i := range products {
		sku := products[i].sku
		products[i].price = prices[sku]
		products[i].urlKey = urlKeys[sku]
		products[i].images = galleries[sku]
	}

	return products
}

func (m *MagentoScraper) parse(p magentoProduct, def domain.Category) (*domain.CatalogItem, bool) {
	if len(p.images) == 0 {
		m.logger.Debugf("%s: product %s has no gallery, dropped", m.source, p.id)
		return nil, false
	}

	// Последняя картинка галереи — предметный кадр без модели
	imageURL := p.images[len(p.images)-1]
	if imageURL == "" {
		imageURL = p.images[0]
	}
	imageURL, _, _ = strings.Cut(imageURL, "?")

	urlKey := p.urlKey
	if urlKey == "" {
		urlKey = strings.ToLower(p.sku)
	}

	item := domain.NewCatalogItem(
		m.source, p.id, p.name, p.price, m.currency,
		m.MapCategory(p.name, def),
		imageURL,
		fmt.Sprintf("%s/%s", m.baseURL, urlKey),
	)

	if err := item.Validate(); err != nil {
		m.logger.Debugf("%s: product %s invalid: %v", m.source, p.id, err)
		return nil, false
	}

	return item, true
}

// unescapeJSONString разэкранирует строку, вырезанную из JSON-блока страницы.
func unescapeJSONString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	if unquoted, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return unquoted
	}

	return s
}
